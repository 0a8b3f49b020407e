package services

import "fmt"

// ConsolidatedEquipment is one canonical equipment record produced by
// merging raw extraction results that share a merge key.
type ConsolidatedEquipment struct {
	Tag           string
	TagUnresolved bool
	Name          string
	Specification string
	MainMaterial  string
	DesignWeight  float64
	PageRange     string
	SourceFileID  string
	Status        string
	Materials     []RawMaterial
	// Drawings is the set of source-document references this record was
	// assembled from, in first-seen order.
	Drawings []string
}

// mergeKey computes the consolidation key for one raw result. A resolved tag
// is the key verbatim (exact, case-sensitive). Unresolved tags are keyed by
// source file and occurrence index so that unlabeled equipment from
// different extractions never collide.
func mergeKey(eq RawEquipment, occurrence int) string {
	if !IsUnresolvedTag(eq.Tag) {
		return "tag:" + eq.Tag
	}
	return fmt.Sprintf("file:%s#%d", eq.SourceFileID, occurrence)
}

// Consolidate merges an ordered sequence of raw extraction results into a
// deduplicated set of equipment records. Result ordering is the insertion
// order of the first occurrence of each key.
//
// Merge rules for an existing key:
//   - materials append with no line-level dedup (repeated extractions of the
//     same physical component yield duplicate lines for the user to review),
//   - drawings union,
//   - specification/mainMaterial/designWeight fill only when empty; a
//     populated field is never overwritten by a later merge.
func Consolidate(raws []RawEquipment) []*ConsolidatedEquipment {
	byKey := make(map[string]*ConsolidatedEquipment)
	var ordered []*ConsolidatedEquipment

	// occurrence index of unresolved-tag results per source file
	unresolvedSeen := make(map[string]int)

	for _, raw := range raws {
		unresolved := IsUnresolvedTag(raw.Tag)
		var key string
		if unresolved {
			key = mergeKey(raw, unresolvedSeen[raw.SourceFileID])
			unresolvedSeen[raw.SourceFileID]++
		} else {
			key = mergeKey(raw, 0)
		}

		existing, ok := byKey[key]
		if !ok {
			rec := &ConsolidatedEquipment{
				Tag:           raw.Tag,
				TagUnresolved: unresolved,
				Name:          raw.Name,
				Specification: raw.Specification,
				MainMaterial:  raw.MainMaterial,
				DesignWeight:  raw.DesignWeight,
				PageRange:     raw.PageRange,
				SourceFileID:  raw.SourceFileID,
				Status:        StatusComplete,
				Materials:     append([]RawMaterial(nil), raw.Materials...),
			}
			addDrawing(rec, raw.SourceFileID)
			if raw.Failed {
				rec.Status = StatusError
			}
			byKey[key] = rec
			ordered = append(ordered, rec)
			continue
		}

		existing.Materials = append(existing.Materials, raw.Materials...)
		addDrawing(existing, raw.SourceFileID)

		if existing.Specification == "" && raw.Specification != "" {
			existing.Specification = raw.Specification
		}
		if existing.MainMaterial == "" && raw.MainMaterial != "" {
			existing.MainMaterial = raw.MainMaterial
		}
		if existing.DesignWeight == 0 && raw.DesignWeight > 0 {
			existing.DesignWeight = raw.DesignWeight
		}

		// A later successful extraction clears an earlier failure marker;
		// a later failure never downgrades a record that already has data.
		if existing.Status == StatusError && !raw.Failed {
			existing.Status = StatusComplete
		}
	}

	return ordered
}

func addDrawing(rec *ConsolidatedEquipment, ref string) {
	if ref == "" {
		return
	}
	for _, d := range rec.Drawings {
		if d == ref {
			return
		}
	}
	rec.Drawings = append(rec.Drawings, ref)
}

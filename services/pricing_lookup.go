package services

import (
	"sort"
	"strings"
)

// MatchPrice finds the unit price for one material grade in a lookup
// response. A response key matches when either string contains the other,
// case-insensitively. Keys are tried in sorted order so the result is stable
// when several keys match; no scoring. The second return value reports
// whether any key matched.
func MatchPrice(material string, prices map[string]float64) (float64, bool) {
	material = strings.ToLower(strings.TrimSpace(material))
	if material == "" {
		return 0, false
	}
	keys := make([]string, 0, len(prices))
	for key := range prices {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		k := strings.ToLower(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		if strings.Contains(material, k) || strings.Contains(k, material) {
			return prices[key], true
		}
	}
	return 0, false
}

// DistinctMaterials returns the deduplicated, non-empty material grade names
// of the given lines, in first-seen order. This is the request payload for a
// pricing lookup.
func DistinctMaterials(materials []RawMaterial) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range materials {
		name := strings.TrimSpace(m.Material)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// ApplyPriceMap updates the unit price of every line with a matching entry
// in the lookup response. Lines without a match keep their existing price.
// Returns the number of lines updated.
func ApplyPriceMap(materials []RawMaterial, prices map[string]float64) ([]RawMaterial, int) {
	if len(prices) == 0 {
		return materials, 0
	}
	updated := 0
	out := make([]RawMaterial, len(materials))
	for i, m := range materials {
		if price, ok := MatchPrice(m.Material, prices); ok {
			m.UnitPrice = price
			updated++
		}
		out[i] = m
	}
	return out, updated
}

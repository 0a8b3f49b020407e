package vision

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Document is one uploaded drawing file, normalized for the extraction
// calls.
type Document struct {
	// SourceFileID identifies the upload within the import batch.
	SourceFileID string
	FileName     string
	MIMEType     string
	Data         []byte
	// PageCount is the number of pages for PDF documents, 0 otherwise.
	PageCount int
}

// NewDocument sniffs the payload type and, for PDFs, counts pages so the
// detail extraction can be scoped to a page range.
func NewDocument(sourceFileID, fileName string, data []byte) (Document, error) {
	if len(data) == 0 {
		return Document{}, fmt.Errorf("document %q is empty", fileName)
	}

	mimeType := http.DetectContentType(data)
	doc := Document{
		SourceFileID: sourceFileID,
		FileName:     fileName,
		MIMEType:     mimeType,
		Data:         data,
	}

	switch {
	case doc.IsPDF():
		count, err := api.PageCount(bytes.NewReader(data), nil)
		if err != nil {
			return Document{}, fmt.Errorf("count pages of %q: %w", fileName, err)
		}
		doc.PageCount = count
	case strings.HasPrefix(mimeType, "image/"):
	default:
		return Document{}, fmt.Errorf("unsupported document type %q for %q", mimeType, fileName)
	}

	return doc, nil
}

// IsPDF reports whether the payload is a PDF document.
func (d Document) IsPDF() bool {
	return d.MIMEType == "application/pdf" ||
		strings.HasSuffix(strings.ToLower(d.FileName), ".pdf")
}

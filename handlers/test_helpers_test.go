package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"vesselcost/vision"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// stubVisionClient returns scripted extraction results for handler tests.
type stubVisionClient struct {
	scans   []map[string]any
	details map[string]any
	prices  map[string]float64
	scanErr error
}

func (s *stubVisionClient) ScanStructure(context.Context, vision.Document) ([]map[string]any, error) {
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	return s.scans, nil
}

func (s *stubVisionClient) ExtractDetails(context.Context, vision.Document, string, string) (map[string]any, error) {
	if s.details == nil {
		return map[string]any{}, nil
	}
	return s.details, nil
}

func (s *stubVisionClient) LookupPrices(context.Context, []string) (map[string]float64, error) {
	if s.prices == nil {
		return map[string]float64{}, nil
	}
	return s.prices, nil
}

// pngBytes is a payload http.DetectContentType classifies as image/png.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x00\x00\x00\x00\x00")

// multipartBody builds a multipart request body with one or more files
// under the given field name.
func multipartBody(t *testing.T, field string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := w.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

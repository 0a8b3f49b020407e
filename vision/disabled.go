package vision

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by the disabled client when no API key is
// present.
var ErrNotConfigured = errors.New("vision service not configured: set VISION_API_KEY")

type disabled struct{}

// NewDisabledClient returns a Client whose every call fails with
// ErrNotConfigured. It lets the application serve all non-extraction
// features when no API key is configured.
func NewDisabledClient() Client {
	return disabled{}
}

func (disabled) ScanStructure(context.Context, Document) ([]map[string]any, error) {
	return nil, ErrNotConfigured
}

func (disabled) ExtractDetails(context.Context, Document, string, string) (map[string]any, error) {
	return nil, ErrNotConfigured
}

func (disabled) LookupPrices(context.Context, []string) (map[string]float64, error) {
	return nil, ErrNotConfigured
}

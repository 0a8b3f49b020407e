// Package handlers contains the HTTP layer: one constructor per route,
// returning JSON payloads or file downloads.
package handlers

import (
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

// ErrorJSON writes a JSON error payload with the given status code.
func ErrorJSON(e *core.RequestEvent, statusCode int, message string) error {
	return e.JSON(statusCode, map[string]string{"error": message})
}

// parseNonNegative parses a user-supplied numeric form value. Invalid or
// negative input is silently coerced to 0 -- editing is never interrupted by
// a validation error on a number field.
func parseNonNegative(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// parsePercent parses an overhead percentage, clamped to 0-100.
func parsePercent(s string) float64 {
	v := parseNonNegative(s)
	if v > 100 {
		return 100
	}
	return v
}

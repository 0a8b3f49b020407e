package handlers

import "testing"

func TestParseNonNegative(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect float64
	}{
		{"integer", "42", 42},
		{"decimal", "8.5", 8.5},
		{"surrounding spaces", " 7 ", 7},
		{"negative", "-3", 0},
		{"garbage", "abc", 0},
		{"empty", "", 0},
		{"zero", "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseNonNegative(tt.input); got != tt.expect {
				t.Errorf("parseNonNegative(%q) = %v, want %v", tt.input, got, tt.expect)
			}
		})
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect float64
	}{
		{"in range", "15", 15},
		{"zero", "0", 0},
		{"at limit", "100", 100},
		{"above limit", "250", 100},
		{"negative", "-10", 0},
		{"garbage", "xx", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parsePercent(tt.input); got != tt.expect {
				t.Errorf("parsePercent(%q) = %v, want %v", tt.input, got, tt.expect)
			}
		})
	}
}

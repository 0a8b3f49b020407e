package services

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatCNY formats an amount into yuan notation with thousands grouping and
// exactly 2 decimal places, e.g. ¥1,234,567.89.
func FormatCNY(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	result := "¥" + applyThousandsGrouping(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// applyThousandsGrouping inserts commas every 3 digits from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var groups []string
	for n > 3 {
		groups = append([]string{s[n-3:]}, groups...)
		s = s[:n-3]
		n = len(s)
	}
	return s + "," + strings.Join(groups, ",")
}

// FormatWeight renders a weight in kilograms with 2 decimal places.
func FormatWeight(kg float64) string {
	return fmt.Sprintf("%.2f", kg)
}

// FormatQty renders a quantity without trailing zeros, so 2.50 becomes
// "2.5" and 3.00 becomes "3".
func FormatQty(qty float64) string {
	s := strconv.FormatFloat(qty, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}

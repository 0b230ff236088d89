package utils

import "strings"

// NormalizeNumeric converts a value that may be a number or a locale-formatted
// string ("98 000 km", "11 500€", "11.500") into an integer. Currency symbols,
// whitespace, unit letters and separators are stripped, so digit groups are
// concatenated ("11.500" and "11,500" both become 11500). Returns nil when no
// digits remain; never fails.
func NormalizeNumeric(value interface{}) *int {
	switch v := value.(type) {
	case nil:
		return nil
	case int:
		return intPtr(v)
	case int64:
		return intPtr(int(v))
	case float64:
		return intPtr(int(v))
	case string:
		return normalizeNumericString(v)
	default:
		return nil
	}
}

func normalizeNumericString(s string) *int {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return nil
	}
	n := 0
	for _, r := range digits.String() {
		n = n*10 + int(r-'0')
	}
	return intPtr(n)
}

func intPtr(n int) *int {
	return &n
}

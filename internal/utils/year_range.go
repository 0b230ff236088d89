package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	yearRangeRe  = regexp.MustCompile(`^\s*(\d{4})\s*[-–]\s*(\d{4})\s*$`)
	singleYearRe = regexp.MustCompile(`^\d{4,}$`)
)

// ParseYearRange parses a "YYYY-YYYY" range (hyphen or en-dash) or a single
// year into an inclusive bound pair. A single year becomes a degenerate
// one-year range. Anything else returns ok=false, meaning "no temporal
// constraint" — malformed ranges fail open for matching rather than
// excluding rows on formatting noise.
func ParseYearRange(s string) (low, high int, ok bool) {
	if m := yearRangeRe.FindStringSubmatch(s); m != nil {
		low, _ = strconv.Atoi(m[1])
		high, _ = strconv.Atoi(m[2])
		return low, high, true
	}
	trimmed := strings.TrimSpace(s)
	if singleYearRe.MatchString(trimmed) {
		y, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, 0, false
		}
		return y, y, true
	}
	return 0, 0, false
}

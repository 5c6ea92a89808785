package textutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var decimalPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// ParseDecimal parses a number written in the pt-BR convention, where
// `.` groups thousands and `,` separates decimals ("1.234,56" -> 1234.56).
// Only plain digits are accepted, so "NaN", "Inf" and exponents are errors.
func ParseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if !decimalPattern.MatchString(s) {
		return 0, fmt.Errorf("not a decimal: %q", s)
	}
	return strconv.ParseFloat(s, 64)
}

// FormatDecimal is the inverse of ParseDecimal without thousands grouping.
func FormatDecimal(f float64) string {
	return strings.Replace(strconv.FormatFloat(f, 'f', -1, 64), ".", ",", 1)
}

// ReplaceAll applies each (old, new) pair in order.
func ReplaceAll(s string, pairs [][2]string) string {
	for _, p := range pairs {
		s = strings.ReplaceAll(s, p[0], p[1])
	}
	return s
}

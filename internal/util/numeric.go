// Package util provides environment and input parsing helpers shared across components.
package util

import (
	"strconv"
	"strings"
)

// The predictor forms accept free-text input even for numeric fields and
// defer parsing to submission time. The policy is parse-to-zero: values that
// fail to parse become 0, never an error. This is deliberate and applied
// uniformly; callers must not parse form fields any other way.

// ParseFloatOrZero parses a form field as a float64, returning 0 on failure.
func ParseFloatOrZero(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// ParseIntOrZero parses a form field as an int, returning 0 on failure.
func ParseIntOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

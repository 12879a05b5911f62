// Package normalizer holds the pure value normalizers applied to every raw
// field before it reaches storage. Numeric and rating normalization are
// deliberately lossy: malformed input degrades to a missing value instead of
// failing the record. Date normalization is the one hard failure.
package normalizer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the only accepted written-date format.
const DateLayout = "2006-01-02"

// String trims whitespace and returns nil when the result is empty. A missing
// value is nil, never the empty string.
func String(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	return &s
}

// Int strips thousands-separator commas and surrounding whitespace. Empty or
// non-numeric input yields nil; it never returns an error.
func Int(raw string) *int64 {
	v := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// Float strips thousands-separator commas and surrounding whitespace. Empty
// or non-numeric input yields nil; it never returns an error.
func Float(raw string) *float64 {
	v := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

// Date parses a strict YYYY-MM-DD string. Unlike the numeric normalizers a
// malformed date is a hard failure for the record.
func Date(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid written date %q: %w", raw, err)
	}
	return t, nil
}

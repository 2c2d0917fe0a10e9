// Package query normalizes raw search input and extracts keywords.
package query

import (
	"strings"
	"unicode"

	"github.com/lawdex/lawdex/internal/domain"
)

// Default limits. The effective values come from config.SearchConfig; these
// are only the fallbacks applied when a limit is unset.
const (
	DefaultMaxLength   = 500
	DefaultMaxKeywords = 20
)

// Normalize trims the raw query and clamps it to maxLen runes.
// Returns domain.ErrInvalidQuery for an empty or whitespace-only query.
// Truncation is a clamp, not a failure.
func Normalize(raw string, maxLen int) (string, error) {
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}
	q := strings.TrimSpace(raw)
	if q == "" {
		return "", domain.ErrInvalidQuery
	}
	if runes := []rune(q); len(runes) > maxLen {
		q = string(runes[:maxLen])
	}
	return q, nil
}

// Split breaks a normalized query into its whitespace/comma separated
// segments, preserving order and duplicates. Empty segments are dropped.
func Split(q string) []string {
	return strings.FieldsFunc(q, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
}

// Keywords returns the first maxKeywords segments of the query. The cap
// bounds the per-keyword fan-out cost downstream.
func Keywords(q string, maxKeywords int) []string {
	if maxKeywords <= 0 {
		maxKeywords = DefaultMaxKeywords
	}
	parts := Split(q)
	if len(parts) > maxKeywords {
		parts = parts[:maxKeywords]
	}
	return parts
}

// Package strings provides string manipulation utilities shared by the
// profile merge and ingestion code.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice, trimming
// whitespace from each element. Order is preserved and matching is
// case-sensitive, so "Go" and "go" survive as distinct entries.
//
// Example:
//
//	DedupeAndTrim([]string{"  foo ", "bar", "foo", "", "  "})
//	// Returns: []string{"foo", "bar"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// SplitCommaList splits a comma-separated free-text field into trimmed,
// deduplicated entries. Empty segments are dropped.
//
// Example:
//
//	SplitCommaList("Go, SQL, , Go")
//	// Returns: []string{"Go", "SQL"}
func SplitCommaList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return DedupeAndTrim(strings.Split(value, ","))
}

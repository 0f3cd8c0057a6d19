// Package utils contains general helper functions used across fzwalk.
package utils

import (
	"strings"
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// FoldNames trims, strips trailing separators from and lowercases every name,
// dropping empty results and duplicates.
func FoldNames(names []string) []string {
	folded := make([]string, 0, len(names))
	for _, name := range names {
		trimmedName := strings.TrimSpace(name)
		trimmedName = strings.TrimRight(trimmedName, `/\`)
		if trimmedName == EmptyString {
			continue
		}
		folded = append(folded, strings.ToLower(trimmedName))
	}
	return DeduplicatePatterns(folded)
}

// Package utils contains general helpers shared across codemerge.
package utils

import "strings"

// DeduplicatePatterns removes duplicate and blank entries from a slice while preserving order.
// The first occurrence of each unique entry is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if _, exists := encounteredPatterns[trimmedPattern]; !exists {
			encounteredPatterns[trimmedPattern] = struct{}{}
			result = append(result, trimmedPattern)
		}
	}
	return result
}

// SplitList splits comma separated flag values into trimmed, non-empty entries.
func SplitList(values []string) []string {
	var result []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmedPart := strings.TrimSpace(part); trimmedPart != "" {
				result = append(result, trimmedPart)
			}
		}
	}
	return result
}

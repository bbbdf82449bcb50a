// Package filter decides which directories and files take part in a merge.
package filter

import (
	"strings"
)

const (
	// extensionSeparator starts a file extension.
	extensionSeparator = "."
	// hiddenNamePrefix marks dot files and dot directories.
	hiddenNamePrefix = "."
)

// Rules lists the configured inclusion and exclusion settings.
type Rules struct {
	ExcludedDirectoryNames      []string
	ExcludedDirectorySubstrings []string
	ExcludedExtensions          []string
	AllowedExtensions           []string
	IgnoreDotFiles              bool
}

// Policy is an immutable, compiled form of Rules.
// All comparisons are case-insensitive.
type Policy struct {
	excludedDirectoryNames      map[string]struct{}
	excludedDirectorySubstrings []string
	excludedExtensions          map[string]struct{}
	allowedExtensions           map[string]struct{}
	ignoreDotFiles              bool
}

// NewPolicy compiles rules into a Policy. Extensions configured without a
// leading dot are normalized so that "cs" and ".cs" select the same files.
func NewPolicy(rules Rules) *Policy {
	policy := &Policy{
		excludedDirectoryNames: make(map[string]struct{}, len(rules.ExcludedDirectoryNames)),
		excludedExtensions:     make(map[string]struct{}, len(rules.ExcludedExtensions)),
		allowedExtensions:      make(map[string]struct{}, len(rules.AllowedExtensions)),
		ignoreDotFiles:         rules.IgnoreDotFiles,
	}
	for _, directoryName := range rules.ExcludedDirectoryNames {
		trimmedName := strings.TrimSpace(directoryName)
		if trimmedName == "" {
			continue
		}
		policy.excludedDirectoryNames[strings.ToLower(trimmedName)] = struct{}{}
	}
	for _, substring := range rules.ExcludedDirectorySubstrings {
		trimmedSubstring := strings.TrimSpace(substring)
		if trimmedSubstring == "" {
			continue
		}
		policy.excludedDirectorySubstrings = append(policy.excludedDirectorySubstrings, strings.ToLower(trimmedSubstring))
	}
	for _, extension := range rules.ExcludedExtensions {
		if normalized := NormalizeExtension(extension); normalized != "" {
			policy.excludedExtensions[normalized] = struct{}{}
		}
	}
	for _, extension := range rules.AllowedExtensions {
		if normalized := NormalizeExtension(extension); normalized != "" {
			policy.allowedExtensions[normalized] = struct{}{}
		}
	}
	return policy
}

// NormalizeExtension lower-cases an extension and prefixes it with a dot when missing.
// Blank input yields an empty string.
func NormalizeExtension(extension string) string {
	trimmedExtension := strings.ToLower(strings.TrimSpace(extension))
	if trimmedExtension == "" || trimmedExtension == extensionSeparator {
		return ""
	}
	if !strings.HasPrefix(trimmedExtension, extensionSeparator) {
		trimmedExtension = extensionSeparator + trimmedExtension
	}
	return trimmedExtension
}

// Extension returns the substring of name starting at its last dot, or an empty string.
func Extension(name string) string {
	separatorIndex := strings.LastIndex(name, extensionSeparator)
	if separatorIndex < 0 {
		return ""
	}
	return name[separatorIndex:]
}

// ShouldExcludeDirectory reports whether a directory with the given name must be pruned.
func (policy *Policy) ShouldExcludeDirectory(name string) bool {
	if policy.ignoreDotFiles && strings.HasPrefix(name, hiddenNamePrefix) {
		return true
	}
	lowerName := strings.ToLower(name)
	if _, excluded := policy.excludedDirectoryNames[lowerName]; excluded {
		return true
	}
	for _, substring := range policy.excludedDirectorySubstrings {
		if strings.Contains(lowerName, substring) {
			return true
		}
	}
	return false
}

// ShouldExcludeFile reports whether a file with the given name must be skipped.
// The exclude-list takes precedence; a non-empty allow-list then narrows the rest,
// rejecting files without an extension.
func (policy *Policy) ShouldExcludeFile(name string) bool {
	if policy.ignoreDotFiles && strings.HasPrefix(name, hiddenNamePrefix) {
		return true
	}
	extension := strings.ToLower(Extension(name))
	if extension != "" {
		if _, excluded := policy.excludedExtensions[extension]; excluded {
			return true
		}
	}
	if len(policy.allowedExtensions) > 0 {
		if extension == "" {
			return true
		}
		if _, allowed := policy.allowedExtensions[extension]; !allowed {
			return true
		}
	}
	return false
}

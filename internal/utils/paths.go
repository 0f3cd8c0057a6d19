package utils

import (
	"path/filepath"
	"strings"
)

const (
	forwardSlash           = '/'
	currentDirectoryMarker = "."
)

// NormalizeSeparatorsTo converts forward slashes to the provided separator.
func NormalizeSeparatorsTo(path string, separator rune) string {
	if separator == forwardSlash {
		return path
	}
	return strings.ReplaceAll(path, string(forwardSlash), string(separator))
}

// EnsureTrailingSeparator returns path ending with exactly one separator.
func EnsureTrailingSeparator(path string, separator rune) string {
	trimmed := strings.TrimRight(path, string(separator))
	return trimmed + string(separator)
}

// ExpandHome replaces every HomeMarker occurrence in path with homeDirectory.
func ExpandHome(path string, homeDirectory string) string {
	return strings.ReplaceAll(path, HomeMarker, homeDirectory)
}

// ContainsHomeMarker reports whether path uses the home-directory shorthand.
func ContainsHomeMarker(path string) bool {
	return strings.Contains(path, HomeMarker)
}

// TrimToRoot converts a separator-normalized absolute path located under startDirectory
// into its display form "." + separator + remainder. startDirectory must end with
// separator. The start directory itself, with or without its trailing separator,
// renders as "." + separator. Paths outside startDirectory are returned unchanged.
func TrimToRoot(normalizedPath string, startDirectory string, separator rune) string {
	relativePrefix := currentDirectoryMarker + string(separator)
	if strings.HasPrefix(normalizedPath, startDirectory) {
		return relativePrefix + normalizedPath[len(startDirectory):]
	}
	if normalizedPath+string(separator) == startDirectory {
		return relativePrefix
	}
	return normalizedPath
}

// JoinTrimmed reverses TrimToRoot for display strings that start with "." + separator.
func JoinTrimmed(displayPath string, startDirectory string, separator rune) string {
	return startDirectory + strings.TrimPrefix(displayPath, currentDirectoryMarker+string(separator))
}

// IsVolumeRoot reports whether path has no parent, e.g. "/" or `C:\`.
func IsVolumeRoot(path string) bool {
	cleanPath := filepath.Clean(path)
	return filepath.Dir(cleanPath) == cleanPath
}

// Package utils contains general helper functions used across codeflat.
package utils

import (
	"path"
	"path/filepath"
	"strings"
)

// Ignore file constants used across the project.
const (
	// IgnoreFileName is the name of the project's ignore file.
	IgnoreFileName = ".ignore"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

const pathSegmentSeparator = "/"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept. Blank entries are dropped.
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

// NormalizeSeparators converts both Windows and platform separators to forward slashes.
func NormalizeSeparators(path string) string {
	return strings.ReplaceAll(filepath.ToSlash(path), "\\", pathSegmentSeparator)
}

// RelativePathOrSelf calculates the forward-slash relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return NormalizeSeparators(relativePath)
}

// IsWithinDirectory reports whether candidate resolves to a location inside directory.
func IsWithinDirectory(candidate, directory string) bool {
	relativePath, err := filepath.Rel(filepath.Clean(directory), filepath.Clean(candidate))
	if err != nil {
		return false
	}
	normalized := NormalizeSeparators(relativePath)
	return normalized != ".." && !strings.HasPrefix(normalized, "../")
}

// FileExtension returns the extension of the path's base name without the
// leading dot, preserving case. Dotfiles such as ".gitignore" have no extension.
func FileExtension(filePath string) string {
	baseName := path.Base(NormalizeSeparators(filePath))
	if !strings.Contains(strings.TrimLeft(baseName, "."), ".") {
		return ""
	}
	return strings.TrimPrefix(path.Ext(baseName), ".")
}

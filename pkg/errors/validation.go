package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateCategoryName validates a dataset category name for safety and
// correctness. It rejects names that could be used for path traversal when the
// category is mapped to a file in the dataset store.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 64 characters
func ValidateCategoryName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidCategory, "category name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidCategory, "category name too long (max 64 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCategory, "category name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
		"/",    // Categories are simple names, never paths
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidCategory, "category name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidatePath validates a file path for output artifacts.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// modeNameRegex matches valid layout mode names: lowercase words separated by
// single hyphens (e.g. "mass-order", "force-network").
var modeNameRegex = regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)

// ValidateModeName validates a layout mode name's shape. Whether the mode is
// actually registered is checked separately by the layout registry.
func ValidateModeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidMode, "mode name cannot be empty")
	}

	if !modeNameRegex.MatchString(name) {
		return New(ErrCodeInvalidMode, "invalid mode name: %q", name)
	}

	return nil
}

// propertyNameRegex matches valid entity property keys: letter followed by
// letters, digits or underscores.
var propertyNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidatePropertyName validates an entity property key used for sorting,
// color fill or size encoding.
func ValidatePropertyName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidProperty, "property name cannot be empty")
	}

	if !propertyNameRegex.MatchString(name) {
		return New(ErrCodeInvalidProperty, "invalid property name: %q", name)
	}

	return nil
}

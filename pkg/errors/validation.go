package errors

import (
	"slices"
	"strings"
	"unicode"
)

// MaxDocumentSize bounds a BOX document or style sheet accepted over the
// network.
const MaxDocumentSize = 1 << 20

// ValidatePath validates a user-supplied input file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > 4096 {
		return New(ErrCodeInvalidPath, "path too long (max 4096 characters)")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains control characters")
		}
	}
	return nil
}

// ValidateFormat checks format against the formats a command supports.
func ValidateFormat(format string, allowed ...string) error {
	if !slices.Contains(allowed, format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}

// ValidateDocument rejects empty or oversized documents and null bytes.
func ValidateDocument(name string, data []byte) error {
	switch {
	case len(data) > MaxDocumentSize:
		return New(ErrCodeInvalidInput, "%s too large (max %d bytes)", name, MaxDocumentSize)
	case strings.ContainsRune(string(data), 0):
		return New(ErrCodeInvalidInput, "%s contains null bytes", name)
	}
	return nil
}

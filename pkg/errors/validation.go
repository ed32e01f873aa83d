package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateOutputPath checks a destination path for constraint or graph output.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output path %q names a directory", path)
	}

	return nil
}

// ValidateDevicePrefix checks the instance-name marker used to select
// transistor elements. It must be a single letter.
func ValidateDevicePrefix(prefix string) error {
	if len(prefix) != 1 {
		return New(ErrCodeInvalidConfig, "device prefix must be a single letter, got %q", prefix)
	}
	if !unicode.IsLetter(rune(prefix[0])) {
		return New(ErrCodeInvalidConfig, "device prefix must be a letter, got %q", prefix)
	}
	return nil
}

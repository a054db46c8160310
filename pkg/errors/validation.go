package errors

import (
	"encoding/base64"
	"strings"
	"unicode"
)

// maxSessionNameLength bounds stored session names.
const maxSessionNameLength = 200

// ValidateSessionName validates a session name for safety.
// Names become file names and database keys, so they are rejected when they:
//   - are empty
//   - exceed 200 characters
//   - contain control characters
//   - contain path separators or traversal sequences
func ValidateSessionName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidSessionName, "session name cannot be empty")
	}

	if len(name) > maxSessionNameLength {
		return New(ErrCodeInvalidSessionName, "session name too long (max %d characters)", maxSessionNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSessionName, "session name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",
		"/",
		"\\",
		"\x00",
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidSessionName, "session name contains invalid characters: %q", pattern)
		}
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidSessionName, "session name cannot start with a dot")
	}

	return nil
}

// ValidateImageDataURL validates a base64 image data URL such as
// "data:image/png;base64,iVBOR...". An empty string is valid (no image).
func ValidateImageDataURL(dataURL string) error {
	if dataURL == "" {
		return nil
	}

	if !strings.HasPrefix(dataURL, "data:image/") {
		return New(ErrCodeInvalidInput, "data URL must start with data:image/")
	}

	_, payload, ok := strings.Cut(dataURL, "base64,")
	if !ok {
		return New(ErrCodeInvalidInput, "data URL must be base64 encoded")
	}

	// Browsers sometimes leave escaped newlines in long payloads.
	payload = strings.ReplaceAll(payload, `\n`, "")
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "data URL payload is not valid base64")
	}

	return nil
}

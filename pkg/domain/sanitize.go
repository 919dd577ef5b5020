package domain

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultMaxInputSize bounds a single user message, in bytes.
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize overrides DefaultMaxInputSize.
	EnvMaxInputSize = "INTERVIEWFLOW_MAX_INPUT_SIZE"
)

// SanitizeInput applies SanitizeInputLimit with the limit taken from the
// environment, or DefaultMaxInputSize.
func SanitizeInput(input string) (string, error) {
	return SanitizeInputLimit(input, MaxInputSizeFromEnv())
}

// SanitizeInputLimit rejects messages above limit bytes or with invalid UTF-8,
// and strips control characters other than newline, tab and carriage return.
// Oversized input is rejected, never truncated.
func SanitizeInputLimit(input string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultMaxInputSize
	}
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInvalidInput, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", fmt.Errorf("%w: invalid UTF-8", ErrInvalidInput)
	}

	if strings.IndexFunc(input, isUnsafeControl) < 0 {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !isUnsafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isUnsafeControl(r rune) bool {
	if r == '\n' || r == '\t' || r == '\r' {
		return false
	}
	return unicode.IsControl(r)
}

// MaxInputSizeFromEnv reads EnvMaxInputSize, ignoring malformed values.
func MaxInputSizeFromEnv() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}

package validation

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxTextLen bounds post and comment bodies.
const MaxTextLen = 50000

// NormalizeText trims surrounding whitespace and rejects empty or oversized bodies.
func NormalizeText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", errors.New("this field is required")
	}
	if utf8.RuneCountInString(trimmed) > MaxTextLen {
		return "", errors.New("text must be at most 50000 characters")
	}
	return trimmed, nil
}

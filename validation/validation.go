package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmptyPrompt   = errors.New("prompt is empty")
	ErrPromptTooLong = errors.New("prompt is too long")
)

// ValidatePrompt rejects whitespace-only prompts and prompts longer than
// maxLen characters. maxLen <= 0 disables the length check.
func ValidatePrompt(prompt string, maxLen int) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrEmptyPrompt
	}
	if maxLen > 0 {
		if n := utf8.RuneCountInString(prompt); n > maxLen {
			return fmt.Errorf("%w: %d characters, limit is %d", ErrPromptTooLong, n, maxLen)
		}
	}
	return nil
}

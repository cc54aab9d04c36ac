package ml

import (
	"regexp"
	"strings"
)

var (
	urlPattern     = regexp.MustCompile(`http\S+|www\S+`)
	specialPattern = regexp.MustCompile(`[^a-z0-9\s!?.,]`)
)

// NormalizeText lowercases a review, strips URLs, and removes every
// character outside letters, digits, whitespace, and basic punctuation.
// Every downstream text feature is computed on this normalized form.
func NormalizeText(text string) string {
	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = specialPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

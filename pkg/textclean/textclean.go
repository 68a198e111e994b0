// Package textclean prepares raw email bodies for the classification
// endpoints. All functions are pure.
package textclean

import (
	"regexp"
	"strings"
)

var (
	urlPattern        = regexp.MustCompile(`(?:https?|ftp)://\S+`)
	nonWordPattern    = regexp.MustCompile(`[^\w\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	digitPattern      = regexp.MustCompile(`[0-9]`)
)

// Normalize strips URLs, punctuation and digits from text and collapses
// whitespace runs to single spaces. The order matters: URLs are removed
// before punctuation stripping so that scheme separators do not leave
// fragments behind.
func Normalize(text string) string {
	withoutURLs := urlPattern.ReplaceAllString(text, "")
	withoutSpecialChars := nonWordPattern.ReplaceAllString(withoutURLs, "")
	withoutSpaces := strings.TrimSpace(whitespacePattern.ReplaceAllString(withoutSpecialChars, " "))

	return strings.TrimSpace(digitPattern.ReplaceAllString(withoutSpaces, ""))
}

// Truncate keeps the first maxWords space-separated tokens of text.
func Truncate(text string, maxWords int) string {
	if text == "" {
		return ""
	}

	words := strings.Split(text, " ")
	if len(words) > maxWords {
		words = words[:maxWords]
	}

	return strings.Join(words, " ")
}

package util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Lines splits text into trimmed, non-empty lines in their original order.
func Lines(text string) []string {
	parts := strings.Split(lineBreaks.Replace(text), "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Tokenize splits on whitespace runs. Empty input yields no tokens.
func Tokenize(input string) []string {
	return strings.Fields(input)
}

// HasDigit reports any Unicode decimal digit, so OCR output with full-width
// or Arabic-Indic numerals still counts.
func HasDigit(input string) bool {
	for _, r := range input {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func NormalizeSpaces(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

// Preview cuts text to at most limit runes.
func Preview(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	r := []rune(text)
	return string(r[:limit])
}

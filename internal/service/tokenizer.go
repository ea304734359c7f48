package service

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minTokenLength = 3
	maxTokens      = 5
)

// Tokenize turns free text into match tokens: lowercased, split on anything
// that is not a letter or digit, at least three runes long, de-duplicated in
// order of first appearance and capped at five.
func Tokenize(text string) []string {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minTokenLength {
		return []string{}
	}

	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, maxTokens)
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if utf8.RuneCountInString(field) < minTokenLength {
			continue
		}
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}
		tokens = append(tokens, field)
		if len(tokens) == maxTokens {
			break
		}
	}
	return tokens
}

// Package token extracts normalized word tokens from raw buffer text.
package token

import (
	"strings"
	"unicode"
)

// MinLength is the shortest run of letters that counts as a word.
// Anything shorter is dropped entirely, never merged with neighbors.
const MinLength = 3

// Extract returns the lower-cased word tokens of text in source order.
// A token is a maximal run of letters of length >= MinLength; digits,
// punctuation and underscores only separate runs and never appear inside
// a token. Pure function, no side effects.
func Extract(text string) []string {
	var tokens []string
	var run strings.Builder
	runLen := 0

	// runLen counts runes, not bytes; multibyte letters still count as one.
	flush := func() {
		if runLen >= MinLength {
			tokens = append(tokens, strings.ToLower(run.String()))
		}
		run.Reset()
		runLen = 0
	}

	for _, r := range text {
		if unicode.IsLetter(r) {
			run.WriteRune(r)
			runLen++
			continue
		}
		flush()
	}
	flush()

	return tokens
}

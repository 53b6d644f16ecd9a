// Package classify implements expense description categorization: a static
// keyword table for instant answers and a TF-IDF + random-forest model
// trained once in the background on a synthetic corpus. The keyword path is
// the sole fallback while the model is not ready, so a categorization
// request never blocks and never fails.
package classify

import (
	"strings"
	"unicode"
)

// Normalize lowercases the description and strips punctuation and digits,
// collapsing runs of whitespace to single spaces. Empty input yields empty
// output; the function is pure.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	lastSpace := true
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		default:
			// punctuation and digits are removed outright, so "t-shirt"
			// normalizes to "tshirt" rather than splitting into two tokens
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokens normalizes text and splits it into words.
func Tokens(text string) []string {
	n := Normalize(text)
	if n == "" {
		return nil
	}
	return strings.Fields(n)
}

// MerchantToken picks the token most likely to name the merchant in a
// description: the first normalized token of three or more letters that is
// not an English stop word. Returns false when no token qualifies.
func MerchantToken(text string) (string, bool) {
	for _, tok := range Tokens(text) {
		if len(tok) < 3 {
			continue
		}
		if _, stop := englishStopWords[tok]; stop {
			continue
		}
		return tok, true
	}
	return "", false
}

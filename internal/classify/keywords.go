package classify

import (
	"strings"

	"spendwise/internal/core"
)

// Confidence constants for the keyword path. Substring hits on the static
// table score 0.6; a learned merchant mapping scores higher because it was
// confirmed by a stored expense; a close misspelling of a keyword scores
// lower; no match at all falls through to Other.
const (
	keywordMatchConfidence = 0.6
	keywordMissConfidence  = 0.3
	learnedMatchConfidence = 0.85
	fuzzyMatchConfidence   = 0.5
)

// Fuzzy matching bounds. Short words produce too many false neighbors, so
// only tokens of 4+ letters are compared, and the similarity cutoff allows
// roughly one edit per four characters.
const (
	fuzzyMinLength  = 4
	fuzzySimilarity = 0.75
)

// categoryKeywords is an ordered association list: iteration follows
// declaration order and the first matching category wins.
var categoryKeywords = []struct {
	Category core.Category
	Keywords []string
}{
	{core.Food, []string{
		"food", "eat", "restaurant", "grocery", "coffee", "lunch", "dinner",
		"breakfast", "snack", "pizza", "burger", "cafe", "tea", "beer",
		"wine", "bar", "meal", "supermarket",
	}},
	{core.Transportation, []string{
		"taxi", "uber", "lyft", "bus", "gas", "train", "metro", "transport",
		"fuel", "petrol", "parking", "car", "bike", "flight",
	}},
	{core.Entertainment, []string{
		"movie", "concert", "game", "netflix", "spotify", "play",
		"entertainment", "cinema", "ticket", "music",
	}},
	{core.Utilities, []string{
		"electric", "water", "internet", "phone", "bill", "utility",
		"power", "wifi", "rent",
	}},
	{core.Healthcare, []string{
		"doctor", "pharmacy", "medicine", "hospital", "health", "medical",
		"gym", "dental",
	}},
	{core.Shopping, []string{
		"shop", "buy", "store", "mall", "clothes", "amazon", "online",
		"product", "shoes", "dress", "shirt",
	}},
}

// MerchantLookup resolves a normalized merchant token to a previously
// learned category. Implementations must be safe for concurrent use.
type MerchantLookup interface {
	Lookup(token string) (core.Category, bool)
}

// KeywordCategorizer maps normalized text to a category via substring
// membership against the static table. It always succeeds. An optional
// MerchantLookup is consulted first with the individual tokens.
type KeywordCategorizer struct {
	merchants MerchantLookup
}

func NewKeywordCategorizer(merchants MerchantLookup) *KeywordCategorizer {
	return &KeywordCategorizer{merchants: merchants}
}

// Categorize classifies already-normalized text. Unknown text resolves to
// Other with low confidence rather than an error.
func (k *KeywordCategorizer) Categorize(normalized string) core.CategorizationResult {
	if k.merchants != nil {
		for _, tok := range Tokens(normalized) {
			if cat, ok := k.merchants.Lookup(tok); ok {
				return core.CategorizationResult{
					Category:   cat,
					Confidence: learnedMatchConfidence,
					Source:     core.SourceKeyword,
				}
			}
		}
	}

	for _, entry := range categoryKeywords {
		for _, kw := range entry.Keywords {
			if strings.Contains(normalized, kw) {
				return core.CategorizationResult{
					Category:   entry.Category,
					Confidence: keywordMatchConfidence,
					Source:     core.SourceKeyword,
				}
			}
		}
	}

	// Second pass tolerates misspellings: "resturant" still lands on Food.
	tokens := Tokens(normalized)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.Keywords {
			for _, tok := range tokens {
				if fuzzyMatch(tok, kw) {
					return core.CategorizationResult{
						Category:   entry.Category,
						Confidence: fuzzyMatchConfidence,
						Source:     core.SourceKeyword,
					}
				}
			}
		}
	}

	return core.CategorizationResult{
		Category:   core.Other,
		Confidence: keywordMissConfidence,
		Source:     core.SourceKeyword,
	}
}

// fuzzyMatch reports whether token is a close misspelling of keyword.
func fuzzyMatch(token, keyword string) bool {
	if len(token) < fuzzyMinLength || len(keyword) < fuzzyMinLength {
		return false
	}
	longest := len(token)
	if len(keyword) > longest {
		longest = len(keyword)
	}
	dist := editDistance(token, keyword)
	return 1-float64(dist)/float64(longest) >= fuzzySimilarity
}

// editDistance is the Levenshtein distance over bytes. Normalized text is
// lowercase ASCII, so byte indexing is fine.
func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

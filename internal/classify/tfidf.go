package classify

import (
	"math"
	"sort"
)

// maxVocabulary bounds the fitted vocabulary size. With the synthetic
// corpus the cap is never reached, but larger retraining corpora must not
// grow the feature space unbounded.
const maxVocabulary = 1000

// englishStopWords are excluded from the vocabulary.
var englishStopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "he": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {},
	"to": {}, "was": {}, "were": {}, "will": {}, "with": {},
}

// Vectorizer converts normalized text into TF-IDF feature vectors over a
// vocabulary fixed at fit time. Unknown terms at transform time are ignored.
type Vectorizer struct {
	vocab []string       // index -> term, sorted for determinism
	index map[string]int // term -> index
	idf   []float64
}

// FitVectorizer builds the vocabulary and inverse document frequencies from
// the given documents (already normalized).
func FitVectorizer(docs []string) *Vectorizer {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range Tokens(doc) {
			if _, stop := englishStopWords[tok]; stop {
				continue
			}
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	// Keep the most frequent terms when over the cap; sort by document
	// frequency descending, then lexically for a stable vocabulary.
	sort.Slice(terms, func(i, j int) bool {
		if df[terms[i]] != df[terms[j]] {
			return df[terms[i]] > df[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxVocabulary {
		terms = terms[:maxVocabulary]
	}
	sort.Strings(terms)

	v := &Vectorizer{
		vocab: terms,
		index: make(map[string]int, len(terms)),
		idf:   make([]float64, len(terms)),
	}
	n := float64(len(docs))
	for i, term := range terms {
		v.index[term] = i
		// Smoothed IDF, matching the common sklearn formulation.
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return v
}

// Transform produces the L2-normalized TF-IDF vector for one document.
func (v *Vectorizer) Transform(doc string) []float64 {
	counts := make(map[int]int)
	for _, tok := range Tokens(doc) {
		if i, ok := v.index[tok]; ok {
			counts[i]++
		}
	}
	vec := make([]float64, len(v.vocab))
	var norm float64
	for i, c := range counts {
		w := float64(c) * v.idf[i]
		vec[i] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// VocabularySize returns the number of fitted terms.
func (v *Vectorizer) VocabularySize() int {
	return len(v.vocab)
}

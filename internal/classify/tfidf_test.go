package classify

import (
	"math"
	"testing"
)

func TestVectorizerStopWordsExcluded(t *testing.T) {
	v := FitVectorizer([]string{"the coffee and the tea", "a bus to the station"})
	for _, stop := range []string{"the", "and", "a", "to"} {
		if _, ok := v.index[stop]; ok {
			t.Errorf("stop word %q leaked into vocabulary", stop)
		}
	}
	if _, ok := v.index["coffee"]; !ok {
		t.Error("expected coffee in vocabulary")
	}
}

func TestVectorizerTransformNormalized(t *testing.T) {
	v := FitVectorizer([]string{"coffee shop", "bus station", "movie night"})
	vec := v.Transform("coffee shop")
	var norm float64
	for _, w := range vec {
		norm += w * w
	}
	if math.Abs(norm-1) > 1e-9 {
		t.Fatalf("expected unit vector, squared norm %v", norm)
	}
}

func TestVectorizerUnknownTermsIgnored(t *testing.T) {
	v := FitVectorizer([]string{"coffee shop"})
	vec := v.Transform("完全 unknown words")
	for i, w := range vec {
		if w != 0 {
			t.Fatalf("expected zero vector, found weight %v at %d", w, i)
		}
	}
}

func TestVectorizerVocabularyCap(t *testing.T) {
	v := FitVectorizer(manyTermDocs(maxVocabulary + 50))
	if v.VocabularySize() > maxVocabulary {
		t.Fatalf("vocabulary %d exceeds cap %d", v.VocabularySize(), maxVocabulary)
	}
}

// manyTermDocs builds documents containing n distinct synthetic terms.
// Digits of the counter are mapped to letters because Normalize strips
// numerals.
func manyTermDocs(n int) []string {
	docs := make([]string, 0, n)
	for i := 0; i < n; i++ {
		var b []byte
		for v := i; ; v /= 10 {
			b = append(b, byte('a'+v%10))
			if v < 10 {
				break
			}
		}
		docs = append(docs, "term"+string(b))
	}
	return docs
}

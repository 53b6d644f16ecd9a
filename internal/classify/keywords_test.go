package classify

import (
	"testing"

	"spendwise/internal/core"
)

type staticMerchants map[string]core.Category

func (m staticMerchants) Lookup(token string) (core.Category, bool) {
	cat, ok := m[token]
	return cat, ok
}

func TestKeywordCategorize(t *testing.T) {
	k := NewKeywordCategorizer(nil)

	tests := []struct {
		name string
		text string
		want core.Category
	}{
		{"coffee is food", "starbucks coffee", core.Food},
		{"taxi is transportation", "taxi to the airport", core.Transportation},
		{"netflix is entertainment", "netflix subscription", core.Entertainment},
		{"bill is utilities", "electric bill january", core.Utilities},
		{"pharmacy is healthcare", "pharmacy pickup", core.Healthcare},
		{"mall is shopping", "new jeans at the mall", core.Shopping},
		{"unknown falls to other", "zzqx", core.Other},
		{"empty falls to other", "", core.Other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := k.Categorize(Normalize(tt.text))
			if got.Category != tt.want {
				t.Errorf("Categorize(%q) = %q, want %q", tt.text, got.Category, tt.want)
			}
			if got.Source != core.SourceKeyword {
				t.Errorf("source = %q, want keyword", got.Source)
			}
			if got.Confidence < 0 || got.Confidence > 1 {
				t.Errorf("confidence %v out of [0,1]", got.Confidence)
			}
		})
	}
}

func TestKeywordDeclarationOrderWins(t *testing.T) {
	// "gas" (Transportation) appears before "bill" (Utilities) in category
	// declaration order; a text containing both resolves to the earlier one.
	k := NewKeywordCategorizer(nil)
	got := k.Categorize(Normalize("gas bill"))
	if got.Category != core.Transportation {
		t.Errorf("expected Transportation by declaration order, got %q", got.Category)
	}
}

func TestKeywordMissConfidenceLowerThanHit(t *testing.T) {
	k := NewKeywordCategorizer(nil)
	hit := k.Categorize("coffee")
	miss := k.Categorize("zzqx")
	if miss.Confidence >= hit.Confidence {
		t.Fatalf("miss confidence %v should be below hit confidence %v", miss.Confidence, hit.Confidence)
	}
}

func TestLearnedMerchantsWinOverStaticTable(t *testing.T) {
	merchants := staticMerchants{"acmefit": core.Healthcare}
	k := NewKeywordCategorizer(merchants)

	got := k.Categorize(Normalize("AcmeFit membership"))
	if got.Category != core.Healthcare {
		t.Fatalf("expected learned Healthcare, got %q", got.Category)
	}
	if got.Confidence != learnedMatchConfidence {
		t.Fatalf("expected learned confidence %v, got %v", learnedMatchConfidence, got.Confidence)
	}
}

func TestKeywordFuzzyMatchesMisspellings(t *testing.T) {
	k := NewKeywordCategorizer(nil)

	tests := []struct {
		name string
		text string
		want core.Category
	}{
		{"dropped letter", "resturant with friends", core.Food},
		{"missing vowel", "grocry run", core.Food},
		{"double letter lost", "cofee to go", core.Food},
		{"misspelled pharmacy", "farmacy pickup", core.Healthcare},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := k.Categorize(Normalize(tt.text))
			if got.Category != tt.want {
				t.Errorf("Categorize(%q) = %q, want %q", tt.text, got.Category, tt.want)
			}
			if got.Confidence != fuzzyMatchConfidence {
				t.Errorf("confidence = %v, want fuzzy %v", got.Confidence, fuzzyMatchConfidence)
			}
		})
	}
}

func TestKeywordFuzzySkipsShortAndDistantTokens(t *testing.T) {
	k := NewKeywordCategorizer(nil)

	// "fod" is one edit from "food" but too short to fuzz safely, and
	// "zzqxw" resembles nothing.
	for _, text := range []string{"fod", "zzqxw"} {
		got := k.Categorize(Normalize(text))
		if got.Category != core.Other {
			t.Errorf("Categorize(%q) = %q, want Other", text, got.Category)
		}
		if got.Confidence != keywordMissConfidence {
			t.Errorf("Categorize(%q) confidence = %v, want miss %v", text, got.Confidence, keywordMissConfidence)
		}
	}
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"coffee", "coffee", 0},
		{"cofee", "coffee", 1},
		{"resturant", "restaurant", 1},
		{"grocry", "grocery", 1},
		{"taxi", "train", 3},
	}
	for _, tt := range tests {
		if got := editDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("editDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestKeywordAlwaysReturnsValidCategory(t *testing.T) {
	k := NewKeywordCategorizer(nil)
	for _, text := range []string{"", "grocery run", "ωmega", "1234", "a b c d e f"} {
		got := k.Categorize(Normalize(text))
		if !got.Category.Valid() {
			t.Errorf("Categorize(%q) returned invalid category %q", text, got.Category)
		}
	}
}

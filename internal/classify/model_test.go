package classify

import (
	"context"
	"testing"

	"spendwise/internal/core"
)

func TestUntrainedDelegatesToKeywords(t *testing.T) {
	c := NewCategorizer(nil)
	k := NewKeywordCategorizer(nil)

	for _, text := range []string{"starbucks coffee", "taxi downtown", "zzqx", ""} {
		got := c.Categorize(text)
		want := k.Categorize(Normalize(text))
		if got != want {
			t.Errorf("untrained Categorize(%q) = %+v, want keyword result %+v", text, got, want)
		}
		if got.Source != core.SourceKeyword {
			t.Errorf("untrained source = %q, want keyword", got.Source)
		}
	}
}

func TestTrainFlipsReadiness(t *testing.T) {
	c := NewCategorizer(nil)
	if c.Ready() {
		t.Fatal("categorizer must not be ready before training")
	}
	if err := c.Train(context.Background()); err != nil {
		t.Fatalf("Train: %v", err)
	}
	if !c.Ready() {
		t.Fatal("categorizer should be ready after training")
	}
}

func TestTrainedModelPredicts(t *testing.T) {
	c := NewCategorizer(nil)
	if err := c.Train(context.Background()); err != nil {
		t.Fatalf("Train: %v", err)
	}

	tests := []struct {
		text string
		want core.Category
	}{
		{"starbucks coffee", core.Food},
		{"uber lyft ride", core.Transportation},
		{"netflix spotify", core.Entertainment},
		{"electricity internet bill", core.Utilities},
		{"doctor pharmacy", core.Healthcare},
	}
	for _, tt := range tests {
		got := c.Categorize(tt.text)
		if got.Source != core.SourceModel {
			t.Errorf("Categorize(%q) source = %q, want model", tt.text, got.Source)
		}
		if got.Category != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.text, got.Category, tt.want)
		}
		if got.Confidence < 0 || got.Confidence > 1 {
			t.Errorf("Categorize(%q) confidence %v out of [0,1]", tt.text, got.Confidence)
		}
	}
}

func TestTrainedModelHandlesArbitraryText(t *testing.T) {
	c := NewCategorizer(nil)
	if err := c.Train(context.Background()); err != nil {
		t.Fatalf("Train: %v", err)
	}
	for _, text := range []string{"", "!!!", "совершенно unknown words", "9999"} {
		got := c.Categorize(text)
		if !got.Category.Valid() {
			t.Errorf("Categorize(%q) returned invalid category %q", text, got.Category)
		}
		if got.Confidence < 0 || got.Confidence > 1 {
			t.Errorf("Categorize(%q) confidence %v out of [0,1]", text, got.Confidence)
		}
	}
}

func TestTrainedMerchantOverride(t *testing.T) {
	c := NewCategorizer(staticMerchants{"starbucks": core.Shopping})
	if err := c.Train(context.Background()); err != nil {
		t.Fatalf("Train: %v", err)
	}
	got := c.Categorize("starbucks downtown")
	if got.Category != core.Shopping || got.Source != core.SourceKeyword {
		t.Fatalf("learned merchant should override the model, got %+v", got)
	}
}

func TestTrainingIsDeterministic(t *testing.T) {
	a := NewCategorizer(nil)
	b := NewCategorizer(nil)
	if err := a.Train(context.Background()); err != nil {
		t.Fatalf("Train: %v", err)
	}
	if err := b.Train(context.Background()); err != nil {
		t.Fatalf("Train: %v", err)
	}
	for _, text := range []string{"gas station", "movie tickets", "gym class"} {
		ra, rb := a.Categorize(text), b.Categorize(text)
		if ra != rb {
			t.Errorf("nondeterministic result for %q: %+v vs %+v", text, ra, rb)
		}
	}
}

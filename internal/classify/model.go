package classify

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"spendwise/internal/core"
)

// Categorizer is the learned categorizer. It owns the keyword fallback and
// a TF-IDF + random-forest model fitted once, in the background, on the
// synthetic corpus. Until training completes (or if it fails) every call is
// answered by the keyword path, so requests never block on model readiness.
//
// The model fields transition exactly once, before the ready flag flips, so
// a single atomic load per call is the only synchronization required.
type Categorizer struct {
	keywords *KeywordCategorizer

	ready      atomic.Bool
	vectorizer *Vectorizer
	forest     *Forest
	classes    []core.Category
}

func NewCategorizer(merchants MerchantLookup) *Categorizer {
	return &Categorizer{keywords: NewKeywordCategorizer(merchants)}
}

// Ready reports whether the trained model is serving predictions.
func (c *Categorizer) Ready() bool {
	return c.ready.Load()
}

// Train fits the vectorizer and forest on the synthetic corpus and flips
// the readiness flag. It is intended to run once from a goroutine at
// startup; until it returns successfully, Categorize serves keyword answers.
func (c *Categorizer) Train(ctx context.Context) error {
	start := time.Now()
	docs := TrainingCorpus()
	if len(docs) == 0 {
		return errors.New("empty training corpus")
	}

	normalized := make([]string, len(docs))
	for i, d := range docs {
		normalized[i] = Normalize(d.Text)
	}
	vectorizer := FitVectorizer(normalized)

	// Class list in canonical declaration order, restricted to the
	// categories the corpus actually covers.
	present := make(map[core.Category]bool, len(docs))
	for _, d := range docs {
		present[d.Category] = true
	}
	var classes []core.Category
	classIndex := make(map[core.Category]int)
	for _, cat := range core.Categories {
		if present[cat] {
			classIndex[cat] = len(classes)
			classes = append(classes, cat)
		}
	}

	x := make([][]float64, len(docs))
	y := make([]int, len(docs))
	for i, d := range docs {
		x[i] = vectorizer.Transform(normalized[i])
		y[i] = classIndex[d.Category]
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	forest := TrainForest(x, y, len(classes))

	c.vectorizer = vectorizer
	c.forest = forest
	c.classes = classes
	c.ready.Store(true)

	slog.InfoContext(ctx, "Categorization model trained",
		"documents", len(docs),
		"vocabulary", vectorizer.VocabularySize(),
		"classes", len(classes),
		"trees", forestTrees,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// TrainInBackground launches Train on its own goroutine. Failures are
// logged, never surfaced to callers: the keyword fallback keeps serving.
func (c *Categorizer) TrainInBackground(ctx context.Context) {
	go func() {
		if err := c.Train(ctx); err != nil {
			slog.ErrorContext(ctx, "Model training failed, keyword fallback stays active", "error", err)
		}
	}()
}

// Categorize classifies raw description text. Learned merchant mappings win
// outright (they were confirmed by stored expenses); otherwise the trained
// model answers when ready, and the static keyword table answers when not.
// The result category is always a member of the fixed set and the
// confidence always lies in [0, 1].
func (c *Categorizer) Categorize(raw string) core.CategorizationResult {
	normalized := Normalize(raw)

	if !c.ready.Load() {
		return c.keywords.Categorize(normalized)
	}

	if c.keywords.merchants != nil {
		for _, tok := range Tokens(normalized) {
			if cat, ok := c.keywords.merchants.Lookup(tok); ok {
				return core.CategorizationResult{
					Category:   cat,
					Confidence: learnedMatchConfidence,
					Source:     core.SourceKeyword,
				}
			}
		}
	}

	vec := c.vectorizer.Transform(normalized)
	class, probability := c.forest.Predict(vec)
	return core.CategorizationResult{
		Category:   c.classes[class],
		Confidence: probability,
		Source:     core.SourceModel,
	}
}

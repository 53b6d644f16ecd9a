package classify

import "spendwise/internal/core"

// Document is a labeled training example.
type Document struct {
	Text     string
	Category core.Category
}

// TrainingCorpus returns the synthetic labeled corpus the model is fitted
// on at startup. Descriptions are representative merchant/description
// bundles per category; every category except Other is covered (Other is
// the clamp target, not a learnable class of its own here).
func TrainingCorpus() []Document {
	return []Document{
		{"mcdonalds burger king pizza hut subway", core.Food},
		{"starbucks coffee cafe restaurant lunch dinner", core.Food},
		{"grocery supermarket walmart costco", core.Food},
		{"food delivery uber eats doordash", core.Food},

		{"uber lyft taxi bus train metro", core.Transportation},
		{"gas station shell bp exxon", core.Transportation},
		{"car repair maintenance parking", core.Transportation},
		{"flight airline airport", core.Transportation},

		{"netflix spotify movie cinema theater", core.Entertainment},
		{"concert sports game bowling", core.Entertainment},
		{"amazon prime video music", core.Entertainment},

		{"electricity water bill internet wifi", core.Utilities},
		{"phone mobile verizon att", core.Utilities},
		{"rent mortgage housing", core.Utilities},

		{"hospital doctor pharmacy drugstore", core.Healthcare},
		{"medical insurance dental", core.Healthcare},
		{"gym fitness workout", core.Healthcare},

		{"amazon walmart target shopping", core.Shopping},
		{"clothing shoes fashion", core.Shopping},
		{"electronics apple samsung", core.Shopping},
	}
}

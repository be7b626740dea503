package repositories

import "context"

// LanguageModel abstracts any text completion provider
type LanguageModel interface {
	// Complete sends a system instruction plus the user text and returns
	// the model's reply at the given sampling temperature. Temperature 0
	// makes repeated calls on identical text as reproducible as the
	// provider allows.
	Complete(ctx context.Context, system, user string, temperature float64) (string, error)
}

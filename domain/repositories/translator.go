package repositories

import "context"

// Translator abstracts text translation services. Translations are
// display-only; they are never persisted and never feed the emotion or
// image steps.
type Translator interface {
	// Translate renders text into the named target language, e.g.
	// "anglais", "japonais". No back-translation fidelity is guaranteed.
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

package repositories

import "context"

// ImageSynthesizer abstracts text-to-image services
type ImageSynthesizer interface {
	// Generate renders an illustration for the prompt and returns the
	// raw image bytes. A non-success status from the remote service must
	// surface its status code and message verbatim.
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

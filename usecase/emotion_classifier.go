package usecase

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Tagaingne/dream-synthesizer/domain/entities"
	"github.com/Tagaingne/dream-synthesizer/domain/repositories"
)

// EmotionClassifier turns dream text into a probability distribution over
// emotion labels by querying a language model with a fixed rubric and
// normalizing whatever scores come back.
type EmotionClassifier struct {
	llm        repositories.LanguageModel
	rubricPath string
	logger     *zap.Logger
}

// NewEmotionClassifier creates a classifier reading its system rubric
// from the text file at rubricPath. The rubric is re-read on every call;
// it only changes when redeployed, so no invalidation is needed.
func NewEmotionClassifier(llm repositories.LanguageModel, rubricPath string, logger *zap.Logger) *EmotionClassifier {
	return &EmotionClassifier{
		llm:        llm,
		rubricPath: rubricPath,
		logger:     logger,
	}
}

// Classify queries the model at temperature 0 and parses its reply into a
// normalized distribution. Failures are returned to the caller rather
// than swallowed here; the degrade-to-empty policy lives in the pipeline,
// so "could not analyze" stays distinguishable from "no emotion detected".
func (c *EmotionClassifier) Classify(ctx context.Context, text string) (entities.EmotionDistribution, error) {
	rubric, err := os.ReadFile(c.rubricPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read emotion rubric: %w", err)
	}

	reply, err := c.llm.Complete(ctx, string(rubric), text, 0)
	if err != nil {
		return nil, fmt.Errorf("emotion model call failed: %w", err)
	}

	scores, err := ExtractScores(reply)
	if err != nil {
		return nil, err
	}

	dist, err := entities.EmotionScores(scores).Normalize()
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Emotion classification completed",
		zap.Int("labels", len(dist)),
		zap.String("dominant", dist.Dominant()))

	return dist, nil
}

package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tagaingne/dream-synthesizer/domain"
	"github.com/Tagaingne/dream-synthesizer/domain/entities"
	"github.com/Tagaingne/dream-synthesizer/domain/repositories"
)

// DreamInput is one dream to analyze: either a complete audio clip with
// its config, or already-transcribed text.
type DreamInput struct {
	Audio       []byte
	AudioConfig repositories.AudioConfig
	Text        string
}

// DreamAnalysis is the outcome of one pipeline run. Nothing is persisted
// until the caller explicitly asks for it via Save.
type DreamAnalysis struct {
	Text     string                       `json:"text"`
	Emotions entities.EmotionDistribution `json:"emotions"`
	// EmotionsUnavailable marks a degraded run: the analysis itself
	// failed, as opposed to the dream genuinely carrying no detectable
	// emotion.
	EmotionsUnavailable bool   `json:"emotions_unavailable"`
	ImagePath           string `json:"image_path"`
}

// PipelineConfig carries the pipeline's own knobs, distinct from the
// capability adapters it orchestrates.
type PipelineConfig struct {
	// ImageDir is where generated illustrations are written.
	ImageDir string
	// StepTimeout bounds every remote capability call. Indefinite
	// blocking on an external service is not acceptable.
	StepTimeout time.Duration
}

// DreamPipeline orchestrates one end-to-end dream run: audio to text,
// text to emotions and illustration, and, on explicit request only,
// record to history.
type DreamPipeline struct {
	recognizer  repositories.SpeechRecognizer
	classifier  *EmotionClassifier
	synthesizer repositories.ImageSynthesizer
	translator  repositories.Translator
	history     repositories.DreamHistory
	config      PipelineConfig
	logger      *zap.Logger
}

// NewDreamPipeline creates a pipeline over the given capability ports.
func NewDreamPipeline(
	recognizer repositories.SpeechRecognizer,
	classifier *EmotionClassifier,
	synthesizer repositories.ImageSynthesizer,
	translator repositories.Translator,
	history repositories.DreamHistory,
	config PipelineConfig,
	logger *zap.Logger,
) *DreamPipeline {
	if config.StepTimeout == 0 {
		config.StepTimeout = 60 * time.Second
	}
	if config.ImageDir == "" {
		config.ImageDir = "images"
	}
	return &DreamPipeline{
		recognizer:  recognizer,
		classifier:  classifier,
		synthesizer: synthesizer,
		translator:  translator,
		history:     history,
		config:      config,
		logger:      logger,
	}
}

// Analyze runs one dream analysis. Transcription failure aborts the run;
// classification failure degrades to an empty distribution with the
// EmotionsUnavailable flag set; image failure is a hard error, but the
// partial analysis is still returned so text and emotions can be shown.
func (p *DreamPipeline) Analyze(ctx context.Context, input DreamInput) (*DreamAnalysis, error) {
	text := input.Text
	if text == "" {
		if len(input.Audio) == 0 {
			return nil, fmt.Errorf("%w: neither audio nor text supplied", domain.ErrInvalidInput)
		}

		tctx, cancel := context.WithTimeout(ctx, p.config.StepTimeout)
		defer cancel()

		transcribed, err := p.recognizer.Transcribe(tctx, input.Audio, input.AudioConfig)
		if err != nil {
			return nil, fmt.Errorf("transcription failed: %w", err)
		}
		text = transcribed
		p.logger.Info("Transcription completed", zap.Int("chars", len(text)))
	}

	analysis := &DreamAnalysis{Text: text}

	// Classification and image synthesis both depend only on the text,
	// not on each other, so they run concurrently and join here.
	var (
		wg       sync.WaitGroup
		imageErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()

		cctx, cancel := context.WithTimeout(ctx, p.config.StepTimeout)
		defer cancel()

		dist, err := p.classifier.Classify(cctx, text)
		if err != nil {
			// Degraded, not fatal: the dream can still be illustrated
			// and shown, just without an emotion breakdown.
			p.logger.Warn("Emotion classification unavailable", zap.Error(err))
			analysis.Emotions = entities.EmotionDistribution{}
			analysis.EmotionsUnavailable = true
			return
		}
		analysis.Emotions = dist
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()

		ictx, cancel := context.WithTimeout(ctx, p.config.StepTimeout)
		defer cancel()

		image, err := p.synthesizer.Generate(ictx, text)
		if err != nil {
			imageErr = err
			return
		}

		path, err := p.saveImage(image)
		if err != nil {
			imageErr = err
			return
		}
		analysis.ImagePath = path
	}()

	wg.Wait()

	if imageErr != nil {
		return analysis, fmt.Errorf("image generation failed: %w", imageErr)
	}

	p.logger.Info("Dream analysis completed",
		zap.Int("labels", len(analysis.Emotions)),
		zap.Bool("emotionsUnavailable", analysis.EmotionsUnavailable),
		zap.String("imagePath", analysis.ImagePath))

	return analysis, nil
}

// Translate renders the dream text into another language for display
// only. The translation never feeds the emotion or image steps and is
// never persisted.
func (p *DreamPipeline) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: nothing to translate", domain.ErrInvalidInput)
	}

	tctx, cancel := context.WithTimeout(ctx, p.config.StepTimeout)
	defer cancel()

	translated, err := p.translator.Translate(tctx, text, targetLanguage)
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}
	return translated, nil
}

// Save commits an analysis to history. Persistence is a separate,
// explicit trigger: Analyze never appends on its own.
func (p *DreamPipeline) Save(ctx context.Context, analysis *DreamAnalysis) (*entities.DreamRecord, error) {
	if analysis == nil {
		return nil, fmt.Errorf("%w: nothing to save", domain.ErrInvalidInput)
	}

	record := entities.NewDreamRecord(analysis.Text, analysis.Emotions, analysis.ImagePath)
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err := p.history.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to append dream to history: %w", err)
	}

	p.logger.Info("Dream saved to history", zap.String("timestamp", record.Timestamp))
	return record, nil
}

func (p *DreamPipeline) saveImage(data []byte) (string, error) {
	if err := os.MkdirAll(p.config.ImageDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	path := filepath.Join(p.config.ImageDir, fmt.Sprintf("dream_%s.png", uuid.NewString()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return path, nil
}

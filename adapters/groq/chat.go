package groq

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"go.uber.org/zap"
)

// Complete implements repositories.LanguageModel
func (c *Client) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{}
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(user))

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       openai.ChatModel(c.config.ChatModel),
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", remoteErr(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq returned no choices")
	}

	content := resp.Choices[0].Message.Content
	c.logger.Debug("Completion received",
		zap.String("model", c.config.ChatModel),
		zap.Int("chars", len(content)))

	return content, nil
}

// Translate implements repositories.Translator. The instruction lives in
// the user prompt, as a single-turn request.
func (c *Client) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	prompt := fmt.Sprintf("Traduis ce texte en %s :\n\n%s", targetLanguage, text)

	translated, err := c.Complete(ctx, "", prompt, translationTemperature)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(translated), nil
}

package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/ada-inc/ada-engine/pkg/config"
	"github.com/ada-inc/ada-engine/pkg/logging"
)

// anthropicMaxTokens bounds the reply size. Chart specs are small; this is
// headroom, not a target.
const anthropicMaxTokens = 2048

// AnthropicOracle talks to the Anthropic Messages API.
type AnthropicOracle struct {
	client      *anthropic.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

func newAnthropicOracle(cfg *config.OracleConfig, logger *zap.Logger) *AnthropicOracle {
	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicOracle{
		client:      anthropic.NewClient(cfg.APIKey, opts...),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		logger:      logger.Named("oracle.anthropic"),
	}
}

// Complete implements Oracle.
func (o *AnthropicOracle) Complete(ctx context.Context, systemMessage, prompt string) (string, error) {
	o.logger.Debug("oracle request",
		zap.String("model", o.model),
		zap.Int("prompt_len", len(prompt)))

	start := time.Now()
	temperature := o.temperature

	resp, err := o.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(o.model),
		System:      systemMessage,
		MaxTokens:   anthropicMaxTokens,
		Temperature: &temperature,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: anthropic.MessagesContentTypeText, Text: &prompt},
			}},
		},
	})
	if err != nil {
		o.logger.Error("oracle request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.String("error", logging.RedactSecrets(err.Error())))
		return "", fmt.Errorf("anthropic completion: %w", err)
	}

	text := ""
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			text = *block.Text
			break
		}
	}
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	o.logger.Info("oracle request completed",
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
		zap.Duration("elapsed", time.Since(start)))

	return text, nil
}

// Model implements Oracle.
func (o *AnthropicOracle) Model() string { return o.model }

var _ Oracle = (*AnthropicOracle)(nil)

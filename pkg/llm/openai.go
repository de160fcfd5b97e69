package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ada-inc/ada-engine/pkg/config"
	"github.com/ada-inc/ada-engine/pkg/logging"
)

// OpenAIOracle talks to OpenAI or any OpenAI-compatible endpoint.
type OpenAIOracle struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

func newOpenAIOracle(cfg *config.OracleConfig, logger *zap.Logger) *OpenAIOracle {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &OpenAIOracle{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		logger:      logger.Named("oracle.openai"),
	}
}

// Complete implements Oracle. The request asks for a JSON object response so
// the model cannot wrap its answer in prose.
func (o *OpenAIOracle) Complete(ctx context.Context, systemMessage, prompt string) (string, error) {
	o.logger.Debug("oracle request",
		zap.String("model", o.model),
		zap.Int("prompt_len", len(prompt)))

	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: o.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		o.logger.Error("oracle request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.String("error", logging.RedactSecrets(err.Error())))
		return "", fmt.Errorf("openai completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	o.logger.Info("oracle request completed",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return resp.Choices[0].Message.Content, nil
}

// Model implements Oracle.
func (o *OpenAIOracle) Model() string { return o.model }

var _ Oracle = (*OpenAIOracle)(nil)

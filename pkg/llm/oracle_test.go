package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ada-inc/ada-engine/pkg/apperrors"
	"github.com/ada-inc/ada-engine/pkg/config"
)

func TestNewOracle_MissingAPIKey(t *testing.T) {
	oracle := NewOracle(&config.OracleConfig{Provider: "openai"}, zap.NewNop())

	_, err := oracle.Complete(context.Background(), "system", "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrOracleUnavailable)
	assert.Equal(t, "unavailable", oracle.Model())
}

func TestNewOracle_SelectsAnthropic(t *testing.T) {
	cfg := &config.OracleConfig{Provider: "Anthropic", APIKey: "test-key", Model: "claude-sonnet-4-20250514"}

	oracle := NewOracle(cfg, zap.NewNop())

	_, ok := oracle.(*AnthropicOracle)
	assert.True(t, ok)
	assert.Equal(t, "claude-sonnet-4-20250514", oracle.Model())
}

func TestNewOracle_DefaultsToOpenAI(t *testing.T) {
	cfg := &config.OracleConfig{Provider: "openai", APIKey: "test-key", Model: "gpt-4o-mini"}

	oracle := NewOracle(cfg, zap.NewNop())

	_, ok := oracle.(*OpenAIOracle)
	assert.True(t, ok)
}

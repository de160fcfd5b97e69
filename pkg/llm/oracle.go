// Package llm provides the external language-model oracle used to translate
// natural-language questions into chart specifications. The oracle is a
// single abstract capability with interchangeable provider backends; the
// provider is selected once at startup from configuration.
package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ada-inc/ada-engine/pkg/apperrors"
	"github.com/ada-inc/ada-engine/pkg/config"
)

// Oracle sends one prompt to the configured language model and returns its
// textual reply. Implementations must honor context cancellation; callers
// are expected to bound every call with a timeout.
type Oracle interface {
	// Complete returns the model's raw text reply for the prompt.
	Complete(ctx context.Context, systemMessage, prompt string) (string, error)

	// Model returns the configured model name, for logging.
	Model() string
}

// NewOracle builds the oracle backend selected by configuration. A missing
// API key does not fail construction: it yields an oracle whose every call
// reports apperrors.ErrOracleUnavailable, so that callers route questions to
// the heuristic fallback instead of crashing at startup.
func NewOracle(cfg *config.OracleConfig, logger *zap.Logger) Oracle {
	provider := strings.ToLower(cfg.Provider)

	if cfg.APIKey == "" {
		logger.Warn("oracle API key not configured, questions will use the heuristic fallback",
			zap.String("provider", provider))
		return &unavailableOracle{provider: provider}
	}

	switch provider {
	case "anthropic":
		return newAnthropicOracle(cfg, logger)
	default:
		return newOpenAIOracle(cfg, logger)
	}
}

// unavailableOracle stands in when no credential is configured.
type unavailableOracle struct {
	provider string
}

func (o *unavailableOracle) Complete(ctx context.Context, systemMessage, prompt string) (string, error) {
	return "", fmt.Errorf("%w: no API key configured for provider %q", apperrors.ErrOracleUnavailable, o.provider)
}

func (o *unavailableOracle) Model() string { return "unavailable" }

var _ Oracle = (*unavailableOracle)(nil)

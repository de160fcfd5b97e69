package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ada-inc/ada-engine/pkg/apperrors"
	"github.com/ada-inc/ada-engine/pkg/chartspec"
	"github.com/ada-inc/ada-engine/pkg/dataset"
	"github.com/ada-inc/ada-engine/pkg/jsonutil"
	"github.com/ada-inc/ada-engine/pkg/llm"
)

// OracleAnswer is the oracle's reply, parsed but not yet validated. Chart may
// be nil when the model answered without one; validation and repair belong to
// the caller.
type OracleAnswer struct {
	Chart              *chartspec.RawSpec `json:"chart"`
	Insight            string             `json:"insight"`
	SuggestedQuestions []string           `json:"suggested_questions"`
}

const translatorSystemMessage = "You are ADA, a helpful data analyst."

// Translator turns a natural-language question about a profiled dataset into
// a candidate chart specification by consulting the oracle. It performs no
// repair of its own: a parseable reply is returned as-is, an unparseable one
// fails with apperrors.ErrOracleResponseInvalid so the caller can fall back.
type Translator struct {
	oracle  llm.Oracle
	timeout time.Duration
	logger  *zap.Logger
}

// NewTranslator wires a translator to the configured oracle. The timeout
// bounds each oracle call; the translator is otherwise stateless.
func NewTranslator(oracle llm.Oracle, timeout time.Duration, logger *zap.Logger) *Translator {
	return &Translator{
		oracle:  oracle,
		timeout: timeout,
		logger:  logger.Named("translator"),
	}
}

// Translate composes the bounded prompt, consults the oracle and parses its
// JSON reply.
func (t *Translator) Translate(ctx context.Context, question string, profile *dataset.Profile, sampleRows []map[string]any) (*OracleAnswer, error) {
	prompt := composePrompt(question, profile, sampleRows)

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	reply, err := t.oracle.Complete(ctx, translatorSystemMessage, prompt)
	if err != nil {
		return nil, err
	}

	answer, err := llm.ParseJSONReply[OracleAnswer](reply)
	if err != nil {
		t.logger.Warn("oracle reply was not valid JSON",
			zap.String("model", t.oracle.Model()),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrOracleResponseInvalid, err)
	}

	return &answer, nil
}

// composePrompt embeds the allowed vocabularies, the dataset's columns and
// logical types, a row sample and the question into one instruction block.
// The oracle must not invent columns and must answer in the fixed JSON shape.
func composePrompt(question string, profile *dataset.Profile, sampleRows []map[string]any) string {
	columns, _ := json.Marshal(profile.Columns)
	logicalTypes, _ := json.Marshal(profile.LogicalTypes)
	sample, _ := json.Marshal(jsonutil.SanitizeRows(sampleRows))

	return fmt.Sprintf(`You are ADA, an expert data analyst.

Task:
1. Understand the user's question about a single uploaded dataset.
2. Propose ONE chart specification and a simple English insight.
3. Use only existing columns and the allowed chart types and aggregations.

Allowed chart types: ["line", "bar", "pie", "histogram", "scatter"]
Allowed aggregations: ["sum", "mean", "count", "median", "min", "max"]

Important rules:
- Choose appropriate x/y/group_by based on the question and data types.
- For time trends: x = datetime column, chart_type = "line", aggregation = sum/mean as appropriate.
- For best/worst product/region: chart_type = "bar", group_by = category, aggregation = sum or count of a numeric column.
- For distribution: use histogram with a numeric column.
- For correlation: use scatter with two numeric columns.
- If the question is vague, provide a reasonable default and explain assumptions.
- Do not invent columns that are not in the dataset.
- Only use the allowed chart types and aggregations.

You MUST output strictly in this JSON format:

{
  "chart": {
    "chart_type": "...",
    "x": "...",
    "y": "...",
    "group_by": "...",
    "aggregation": "...",
    "filters": {},
    "title": "..."
  },
  "insight": "...",
  "suggested_questions": ["...", "..."]
}

Dataset columns: %s
Logical types by column: %s
Sample rows (truncated): %s

User question: %s
`, columns, logicalTypes, sample, question)
}

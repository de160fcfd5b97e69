package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ada-inc/ada-engine/pkg/chartspec"
	"github.com/ada-inc/ada-engine/pkg/logging"
)

// translatorSampleRows bounds how much raw data the oracle prompt carries.
const translatorSampleRows = 50

// AskResult is everything one answered question produces. When the chart
// could not be built, ChartError is set and Figure and AggPreview are empty
// while the insight and data preview still come back. OracleError reports
// why the heuristic translator had to answer instead of the oracle.
type AskResult struct {
	DatasetID          string            `json:"dataset_id"`
	Question           string            `json:"question"`
	ChartSpec          chartspec.Spec    `json:"chart_spec"`
	Figure             *Figure           `json:"figure,omitempty"`
	DataPreview        []map[string]any  `json:"data_preview"`
	AggPreview         []map[string]any  `json:"agg_preview,omitempty"`
	Insight            string            `json:"insight"`
	SuggestedQuestions []string          `json:"suggested_questions"`
	ChartError         string            `json:"chart_error,omitempty"`
	OracleError        string            `json:"llm_error,omitempty"`
	Fallback           bool              `json:"fallback"`
}

// AskService runs the full question pipeline: translate (or fall back),
// validate and repair, build, record.
type AskService struct {
	registry   DatasetRegistry
	translator *Translator
	builder    *ChartBuilder
	logger     *zap.Logger
}

// NewAskService wires the pipeline together.
func NewAskService(registry DatasetRegistry, translator *Translator, builder *ChartBuilder, logger *zap.Logger) *AskService {
	return &AskService{
		registry:   registry,
		translator: translator,
		builder:    builder,
		logger:     logger.Named("ask"),
	}
}

// Ask answers one question about a registered dataset. Oracle failures of any
// kind degrade to the heuristic translator; only an unknown dataset or a
// chart build failure surface as errors, and a build failure still returns a
// usable result alongside the error.
func (s *AskService) Ask(ctx context.Context, datasetID, question string) (*AskResult, error) {
	entry, err := s.registry.Get(datasetID)
	if err != nil {
		return nil, err
	}

	result := &AskResult{DatasetID: datasetID, Question: question}

	answer, err := s.translator.Translate(ctx, question, entry.Profile, entry.Table.HeadRows(translatorSampleRows))
	switch {
	case err != nil:
		s.logger.Info("oracle unavailable, using heuristic translator",
			zap.String("dataset_id", datasetID),
			zap.String("question", logging.TruncateQuestion(question)),
			zap.Error(err))
		result.ChartSpec, result.Insight, result.SuggestedQuestions = FallbackSpec(question, entry.Profile)
		result.OracleError = logging.RedactSecrets(err.Error())
		result.Fallback = true

	case answer.Chart == nil:
		s.logger.Info("oracle answered without a chart, using heuristic translator",
			zap.String("dataset_id", datasetID))
		result.ChartSpec, result.Insight, result.SuggestedQuestions = FallbackSpec(question, entry.Profile)
		result.Fallback = true

	default:
		spec, repairs := chartspec.ValidateAndRepair(answer.Chart, entry.Profile)
		if len(repairs) > 0 {
			s.logger.Debug("chart spec repaired",
				zap.String("dataset_id", datasetID),
				zap.Strings("repairs", repairs))
		}
		result.ChartSpec = spec
		result.Insight = answer.Insight
		result.SuggestedQuestions = answer.SuggestedQuestions
	}

	built, err := s.builder.Build(entry.Table, result.ChartSpec)
	if err != nil {
		var buildErr *ChartBuildError
		if errors.As(err, &buildErr) {
			result.ChartError = buildErr.Message
			result.DataPreview = buildErr.DataPreview
			return result, nil
		}
		return nil, err
	}

	result.Figure = built.Figure
	result.DataPreview = built.DataPreview
	result.AggPreview = built.AggPreview

	if err := s.registry.AppendHistory(datasetID, QuestionRecord{
		Question:  question,
		Insight:   result.Insight,
		ChartSpec: result.ChartSpec,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		// The dataset was swept mid-request; the answer is still valid.
		s.logger.Warn("could not record question history",
			zap.String("dataset_id", datasetID),
			zap.Error(err))
	}

	return result, nil
}

package services

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"go.uber.org/zap"

	"github.com/ada-inc/ada-engine/pkg/jsonutil"
)

//go:embed templates/report.html.tmpl
var reportFS embed.FS

var reportTmpl = template.Must(template.New("report.html.tmpl").
	Funcs(template.FuncMap{
		"json": func(v any) (string, error) {
			b, err := json.MarshalIndent(jsonutil.SanitizeNumbers(v), "", "  ")
			return string(b), err
		},
	}).
	ParseFS(reportFS, "templates/report.html.tmpl"))

// ReportBuilder renders a dataset's profile and question history into a
// standalone HTML document for download.
type ReportBuilder struct {
	version string
	logger  *zap.Logger
}

// NewReportBuilder creates a report builder stamped with the service version.
func NewReportBuilder(version string, logger *zap.Logger) *ReportBuilder {
	return &ReportBuilder{version: version, logger: logger.Named("report")}
}

// Filename is the suggested download name for a dataset's report.
func (b *ReportBuilder) Filename(datasetID string) string {
	short := datasetID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("ADA_Report_%s.html", short)
}

// Build renders the report for one registry entry.
func (b *ReportBuilder) Build(entry *RegistryEntry) ([]byte, error) {
	data := struct {
		DatasetID   string
		GeneratedAt string
		Version     string
		Profile     any
		History     []QuestionRecord
	}{
		DatasetID:   entry.ID,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Version:     b.version,
		Profile:     entry.Profile,
		History:     entry.History(),
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	b.logger.Info("report generated",
		zap.String("dataset_id", entry.ID),
		zap.Int("questions", len(data.History)),
		zap.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}

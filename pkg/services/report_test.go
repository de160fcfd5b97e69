package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ada-inc/ada-engine/pkg/chartspec"
)

func TestReportBuilder_Filename(t *testing.T) {
	b := NewReportBuilder("dev", zap.NewNop())

	assert.Equal(t, "ADA_Report_0b5c7a1d.html", b.Filename("0b5c7a1d-9c61-4f7e-b0f0-000000000000"))
	assert.Equal(t, "ADA_Report_abc.html", b.Filename("abc"))
}

func TestReportBuilder_Build(t *testing.T) {
	table, profile := loadFixture(t, salesCSV)

	registry := NewDatasetRegistry(zap.NewNop())
	id := registry.Register("", table, profile)
	require.NoError(t, registry.AppendHistory(id, QuestionRecord{
		Question:  "sales trend?",
		Insight:   "sales are increasing",
		ChartSpec: chartspec.MinimalDefault(),
		Timestamp: time.Now().UTC(),
	}))

	entry, err := registry.Get(id)
	require.NoError(t, err)

	html, err := NewReportBuilder("1.0.0", zap.NewNop()).Build(entry)
	require.NoError(t, err)

	out := string(html)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "sales trend?")
	assert.Contains(t, out, "sales are increasing")
	assert.Contains(t, out, "ada-engine 1.0.0")
}

func TestReportBuilder_Build_EmptyHistory(t *testing.T) {
	table, profile := loadFixture(t, salesCSV)

	registry := NewDatasetRegistry(zap.NewNop())
	id := registry.Register("", table, profile)
	entry, err := registry.Get(id)
	require.NoError(t, err)

	html, err := NewReportBuilder("dev", zap.NewNop()).Build(entry)
	require.NoError(t, err)
	assert.Contains(t, string(html), "No questions were asked")
}

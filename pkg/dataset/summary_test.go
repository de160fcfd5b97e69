package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_NumericDescribe(t *testing.T) {
	table := loadCSV(t, "Sales\n1\n2\n3\n4\n")

	s := Summarize(table)
	require.Contains(t, s.Numeric, "Sales")

	stats := s.Numeric["Sales"]
	assert.Equal(t, 4, stats.Count)
	assert.InDelta(t, 2.5, stats.Mean, 1e-9)
	assert.InDelta(t, 2.5, stats.Median, 1e-9)
	assert.Equal(t, 1.0, stats.Min)
	assert.Equal(t, 4.0, stats.Max)
}

func TestSummarize_SkipsMissingValues(t *testing.T) {
	table := loadCSV(t, "Sales\n10\nn/a\n30\n")

	stats := Summarize(table).Numeric["Sales"]
	assert.Equal(t, 2, stats.Count)
	assert.InDelta(t, 20.0, stats.Mean, 1e-9)
}

func TestSummarize_TopValuesOrderAndTieBreak(t *testing.T) {
	table := loadCSV(t, "Region\nWest\nEast\nEast\nWest\nNorth\n")

	top := Summarize(table).CategoricalTop["Region"]
	require.Len(t, top, 3)

	// West and East tie at 2; West appeared first.
	assert.Equal(t, ValueCount{Value: "West", Count: 2}, top[0])
	assert.Equal(t, ValueCount{Value: "East", Count: 2}, top[1])
	assert.Equal(t, ValueCount{Value: "North", Count: 1}, top[2])
}

func TestSummarize_QuickTrendIncreasing(t *testing.T) {
	table := loadCSV(t, "Date,Sales\n2024-01-03,30\n2024-01-01,10\n2024-01-02,20\n")

	s := Summarize(table)
	assert.Equal(t, "Sales appears increasing over time (Date).", s.QuickTrend)
}

func TestSummarize_QuickTrendFlatReadsDecreasing(t *testing.T) {
	table := loadCSV(t, "Date,Sales\n2024-01-01,10\n2024-01-02,10\n2024-01-03,10\n")

	s := Summarize(table)
	assert.Equal(t, "Sales appears decreasing over time (Date).", s.QuickTrend)
}

func TestSummarize_QuickTrendNeedsThreeCompleteRows(t *testing.T) {
	table := loadCSV(t, "Date,Sales\n2024-01-01,10\n2024-01-02,n/a\n2024-01-03,30\n")

	s := Summarize(table)
	assert.Empty(t, s.QuickTrend)
}

func TestSummarize_NoDatetimeNoTrend(t *testing.T) {
	table := loadCSV(t, "Region,Sales\nEast,10\nWest,20\nEast,30\n")

	s := Summarize(table)
	assert.Empty(t, s.QuickTrend)
}

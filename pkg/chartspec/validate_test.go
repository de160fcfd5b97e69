package chartspec

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ada-inc/ada-engine/pkg/dataset"
)

func salesProfile(t *testing.T) *dataset.Profile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	content := "Date,Region,Sales\n2024-01-01,East,100\n2024-01-02,West,200\n2024-01-03,East,150\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	table, err := dataset.Load(path)
	require.NoError(t, err)
	return dataset.BuildProfile(table)
}

func TestValidateAndRepair_NilSpec(t *testing.T) {
	spec, repairs := ValidateAndRepair(nil, salesProfile(t))

	assert.Equal(t, MinimalDefault(), spec)
	assert.NotEmpty(t, repairs)
}

func TestValidateAndRepair_DanglingColumnsCleared(t *testing.T) {
	raw := &RawSpec{
		ChartType:   "bar",
		X:           "Region",
		Y:           "Revenue",
		GroupBy:     "Channel",
		Aggregation: "sum",
		Title:       "By region",
	}

	spec, repairs := ValidateAndRepair(raw, salesProfile(t))

	assert.Equal(t, "Region", spec.X)
	assert.Equal(t, "Sales", spec.Y, "dangling y is replaced by the first numeric column")
	assert.Empty(t, spec.GroupBy, "dangling group_by is cleared")
	assert.Len(t, repairs, 3)
}

func TestValidateAndRepair_LineWithoutXGetsDatetime(t *testing.T) {
	raw := &RawSpec{ChartType: "line", Y: "Sales", Aggregation: "sum"}

	spec, repairs := ValidateAndRepair(raw, salesProfile(t))

	assert.Equal(t, ChartLine, spec.ChartType)
	assert.Equal(t, "Date", spec.X)
	assert.NotEmpty(t, repairs)
}

func TestValidateAndRepair_MissingAggregationDefaultsToSum(t *testing.T) {
	raw := &RawSpec{ChartType: "bar", X: "Region", Y: "Sales"}

	spec, _ := ValidateAndRepair(raw, salesProfile(t))
	assert.Equal(t, AggSum, spec.Aggregation)
}

func TestValidateAndRepair_UnknownChartTypeDiscardsSpec(t *testing.T) {
	raw := &RawSpec{ChartType: "sparkline", X: "Region", Y: "Sales", Aggregation: "sum"}

	spec, repairs := ValidateAndRepair(raw, salesProfile(t))

	assert.Equal(t, MinimalDefault(), spec)
	assert.NotEmpty(t, repairs)
}

func TestValidateAndRepair_MalformedFiltersDiscardsSpec(t *testing.T) {
	raw := &RawSpec{
		ChartType:   "bar",
		X:           "Region",
		Y:           "Sales",
		Aggregation: "sum",
		Filters:     json.RawMessage(`{"Sales": 100}`),
	}

	spec, repairs := ValidateAndRepair(raw, salesProfile(t))

	assert.Equal(t, MinimalDefault(), spec)
	assert.NotEmpty(t, repairs)
}

func TestValidateAndRepair_ValidSpecPassesThrough(t *testing.T) {
	gt := 50.0
	raw := &RawSpec{
		ChartType:   "bar",
		X:           "Region",
		Y:           "Sales",
		Aggregation: "mean",
		Filters:     json.RawMessage(`{"Sales":{"gt":50}}`),
		Title:       "Average sales",
	}

	spec, repairs := ValidateAndRepair(raw, salesProfile(t))

	assert.Empty(t, repairs)
	assert.Equal(t, AggMean, spec.Aggregation)
	require.Contains(t, spec.Filters, "Sales")
	require.NotNil(t, spec.Filters["Sales"].Gt)
	assert.Equal(t, gt, *spec.Filters["Sales"].Gt)
}

func TestValidateAndRepair_Idempotent(t *testing.T) {
	profile := salesProfile(t)
	raw := &RawSpec{ChartType: "line", GroupBy: "Nope"}

	first, _ := ValidateAndRepair(raw, profile)

	roundTrip := first.Raw()
	second, repairs := ValidateAndRepair(&roundTrip, profile)

	assert.Equal(t, first, second)
	assert.Empty(t, repairs, "a repaired spec needs no further repair")
}

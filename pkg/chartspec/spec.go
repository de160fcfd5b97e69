// Package chartspec defines the chart-specification contract: the closed
// sets of chart and aggregation kinds, the filter-rule shape, and the
// validate-and-repair policy that guarantees downstream chart building never
// sees a structurally invalid spec.
package chartspec

import (
	"encoding/json"
)

// ChartType is one of the closed set of renderable chart kinds.
type ChartType string

const (
	ChartLine      ChartType = "line"
	ChartBar       ChartType = "bar"
	ChartPie       ChartType = "pie"
	ChartHistogram ChartType = "histogram"
	ChartScatter   ChartType = "scatter"
)

// Aggregation is one of the closed set of aggregation kinds.
type Aggregation string

const (
	AggSum    Aggregation = "sum"
	AggMean   Aggregation = "mean"
	AggCount  Aggregation = "count"
	AggMedian Aggregation = "median"
	AggMin    Aggregation = "min"
	AggMax    Aggregation = "max"
)

// ValidChartType reports membership in the chart-type whitelist.
func ValidChartType(v ChartType) bool {
	switch v {
	case ChartLine, ChartBar, ChartPie, ChartHistogram, ChartScatter:
		return true
	}
	return false
}

// ValidAggregation reports membership in the aggregation whitelist.
func ValidAggregation(v Aggregation) bool {
	switch v {
	case AggSum, AggMean, AggCount, AggMedian, AggMin, AggMax:
		return true
	}
	return false
}

// FilterRule is the per-column filter shape. All supplied operators apply
// conjunctively. Eq/Ne/In compare loosely (numbers or strings); Gt/Lt are
// numeric comparisons.
type FilterRule struct {
	Eq any      `json:"eq,omitempty"`
	Ne any      `json:"ne,omitempty"`
	Gt *float64 `json:"gt,omitempty"`
	Lt *float64 `json:"lt,omitempty"`
	In []any    `json:"in,omitempty"`
}

// RawSpec is an unvalidated chart specification as produced by the oracle or
// the fallback. Filters stay raw JSON until repair: a malformed filter shape
// must downgrade the whole spec, not fail the request.
type RawSpec struct {
	ChartType   string          `json:"chart_type"`
	X           string          `json:"x"`
	Y           string          `json:"y"`
	GroupBy     string          `json:"group_by"`
	Aggregation string          `json:"aggregation"`
	Filters     json.RawMessage `json:"filters"`
	Title       string          `json:"title"`
}

// Spec is a validated chart specification. Empty strings mean "absent" for
// the optional column fields; a Spec produced by ValidateAndRepair never
// references a column missing from its dataset.
type Spec struct {
	ChartType   ChartType             `json:"chart_type"`
	X           string                `json:"x,omitempty"`
	Y           string                `json:"y,omitempty"`
	GroupBy     string                `json:"group_by,omitempty"`
	Aggregation Aggregation           `json:"aggregation"`
	Filters     map[string]FilterRule `json:"filters"`
	Title       string                `json:"title"`
}

// Raw converts a validated spec back into the raw form, mostly useful in
// tests exercising repair idempotence.
func (s Spec) Raw() RawSpec {
	filters, _ := json.Marshal(s.Filters)
	return RawSpec{
		ChartType:   string(s.ChartType),
		X:           s.X,
		Y:           s.Y,
		GroupBy:     s.GroupBy,
		Aggregation: string(s.Aggregation),
		Filters:     filters,
		Title:       s.Title,
	}
}

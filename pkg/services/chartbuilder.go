package services

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/ada-inc/ada-engine/pkg/chartspec"
	"github.com/ada-inc/ada-engine/pkg/dataset"
)

const (
	dataPreviewRows = 10
	aggPreviewRows  = 30
)

// Figure is a rendered, displayable chart: a self-contained HTML fragment
// plus enough metadata for the caller to label it.
type Figure struct {
	ChartType string `json:"chart_type"`
	Title     string `json:"title"`
	HTML      string `json:"html"`
}

// BuildResult carries the figure together with row previews: the first rows
// after filtering (before aggregation) and the first aggregated rows.
type BuildResult struct {
	Figure      *Figure
	DataPreview []map[string]any
	AggPreview  []map[string]any
}

// ChartBuildError is a structured build failure. It carries the partial data
// preview so callers can still show the insight and the rows that survived
// filtering even when the chart itself cannot render.
type ChartBuildError struct {
	Message     string
	DataPreview []map[string]any
	Cause       error
}

func (e *ChartBuildError) Error() string { return e.Message }

func (e *ChartBuildError) Unwrap() error { return e.Cause }

// ChartBuilder applies a validated chart specification to a dataset:
// filtering, aggregation, and rendering.
type ChartBuilder struct {
	logger *zap.Logger
}

// NewChartBuilder creates a chart builder.
func NewChartBuilder(logger *zap.Logger) *ChartBuilder {
	return &ChartBuilder{logger: logger.Named("chartbuilder")}
}

// Build runs the full pipeline against an immutable table: apply filters,
// drop rows missing the referenced columns, sort datetime axes, aggregate,
// render. Any failure after filtering surfaces as *ChartBuildError with the
// partial preview attached.
func (b *ChartBuilder) Build(t *dataset.Table, spec chartspec.Spec) (*BuildResult, error) {
	rows := applyFilters(t, spec.Filters)
	rows = dropMissing(t, rows, spec.X, spec.Y)
	sortByTimeColumn(t, rows, spec.X)

	preview := rowMaps(t, rows, dataPreviewRows)

	// Histograms and scatter plots draw the filtered rows directly; every
	// other chart type draws the grouped aggregate.
	var agg *aggregated
	if needsAggregation(spec.ChartType) {
		var err error
		agg, err = aggregate(t, rows, spec)
		if err != nil {
			return nil, &ChartBuildError{Message: err.Error(), DataPreview: preview, Cause: err}
		}
	}

	figure, err := b.render(t, rows, spec, agg)
	if err != nil {
		return nil, &ChartBuildError{Message: err.Error(), DataPreview: preview, Cause: err}
	}

	b.logger.Debug("chart built",
		zap.String("chart_type", string(spec.ChartType)),
		zap.Int("filtered_rows", len(rows)))

	return &BuildResult{
		Figure:      figure,
		DataPreview: preview,
		AggPreview:  agg.preview(aggPreviewRows),
	}, nil
}

// applyFilters narrows the row set column by column. Operators on the same
// column AND together; rules naming unknown columns are ignored.
func applyFilters(t *dataset.Table, filters map[string]chartspec.FilterRule) []int {
	rows := make([]int, t.Rows())
	for i := range rows {
		rows[i] = i
	}

	for name, rule := range filters {
		col, ok := t.Column(name)
		if !ok {
			continue
		}
		kept := make([]int, 0, len(rows))
		for _, i := range rows {
			if matchRule(col, i, rule) {
				kept = append(kept, i)
			}
		}
		rows = kept
	}

	return rows
}

func matchRule(c *dataset.Column, i int, rule chartspec.FilterRule) bool {
	if rule.Eq != nil && !cellEquals(c, i, rule.Eq) {
		return false
	}
	if rule.Ne != nil && cellEquals(c, i, rule.Ne) {
		return false
	}
	if rule.Gt != nil {
		v, ok := c.Float(i)
		if !ok || v <= *rule.Gt {
			return false
		}
	}
	if rule.Lt != nil {
		v, ok := c.Float(i)
		if !ok || v >= *rule.Lt {
			return false
		}
	}
	if rule.In != nil {
		hit := false
		for _, want := range rule.In {
			if cellEquals(c, i, want) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// cellEquals compares a cell against a JSON-decoded filter value. Missing
// cells equal nothing (so "ne" keeps them and "eq" drops them).
func cellEquals(c *dataset.Column, i int, want any) bool {
	if c.IsMissing(i) {
		return false
	}
	switch w := want.(type) {
	case float64:
		v, ok := c.Float(i)
		return ok && v == w
	case string:
		return c.Raw(i) == w
	case bool:
		v, ok := c.Value(i).(bool)
		return ok && v == w
	default:
		return false
	}
}

// dropMissing removes rows with a missing value in any of the named columns.
func dropMissing(t *dataset.Table, rows []int, cols ...string) []int {
	var check []*dataset.Column
	for _, name := range cols {
		if name == "" {
			continue
		}
		if c, ok := t.Column(name); ok {
			check = append(check, c)
		}
	}
	if len(check) == 0 {
		return rows
	}

	kept := make([]int, 0, len(rows))
	for _, i := range rows {
		miss := false
		for _, c := range check {
			if c.IsMissing(i) {
				miss = true
				break
			}
		}
		if !miss {
			kept = append(kept, i)
		}
	}
	return kept
}

// sortByTimeColumn sorts rows ascending by x when x is a datetime column.
// The sort is stable: ties keep original row order.
func sortByTimeColumn(t *dataset.Table, rows []int, x string) {
	if x == "" {
		return
	}
	c, ok := t.Column(x)
	if !ok || c.Kind != dataset.KindTime {
		return
	}
	sort.SliceStable(rows, func(a, b int) bool {
		ta, _ := c.Time(rows[a])
		tb, _ := c.Time(rows[b])
		return ta.Before(tb)
	})
}

func rowMaps(t *dataset.Table, rows []int, n int) []map[string]any {
	if n > len(rows) {
		n = len(rows)
	}
	out := make([]map[string]any, 0, n)
	for _, i := range rows[:n] {
		out = append(out, t.Row(i))
	}
	return out
}

// aggRow is one group of the aggregated result.
type aggRow struct {
	x     any
	g     any
	value float64
}

// aggregated is the grouped-and-aggregated result, ordered by group key the
// way a dataframe groupby would order it.
type aggregated struct {
	xName     string
	groupName string
	valueName string
	rows      []aggRow
}

func (a *aggregated) preview(n int) []map[string]any {
	if a == nil {
		return nil
	}
	if n > len(a.rows) {
		n = len(a.rows)
	}
	out := make([]map[string]any, 0, n)
	for _, r := range a.rows[:n] {
		m := make(map[string]any, 3)
		if a.xName != "" {
			m[a.xName] = r.x
		}
		if a.groupName != "" {
			m[a.groupName] = r.g
		}
		m[a.valueName] = r.value
		out = append(out, m)
	}
	return out
}

// aggregate groups the filtered rows by {x, group_by} (deduplicating when
// they coincide) and applies the requested aggregation to y. Without y it
// counts rows per group into a column named "count".
func aggregate(t *dataset.Table, rows []int, spec chartspec.Spec) (*aggregated, error) {
	var xCol, gCol, yCol *dataset.Column
	if spec.X != "" {
		xCol, _ = t.Column(spec.X)
	}
	if spec.GroupBy != "" && spec.GroupBy != spec.X {
		gCol, _ = t.Column(spec.GroupBy)
	}
	if xCol == nil && gCol == nil {
		return nil, fmt.Errorf("chart spec has no x or group_by column to group on")
	}

	result := &aggregated{valueName: "count"}
	if xCol != nil {
		result.xName = xCol.Name
	}
	if gCol != nil {
		result.groupName = gCol.Name
	}

	if spec.Y != "" {
		yCol, _ = t.Column(spec.Y)
		if yCol == nil {
			return nil, fmt.Errorf("y column %q not found", spec.Y)
		}
		if !numericKind(yCol.Kind) && spec.Aggregation != chartspec.AggCount {
			return nil, fmt.Errorf("aggregation %q requires a numeric y column, %q is %s",
				spec.Aggregation, yCol.Name, yCol.Kind)
		}
		result.valueName = yCol.Name
	}

	type group struct {
		x, g any
		vals []float64
		n    int
	}
	groups := make(map[string]*group)
	var order []string

	for _, i := range rows {
		key := ""
		var xv, gv any
		if xCol != nil {
			xv = xCol.Value(i)
			key = formatValue(xv)
		}
		if gCol != nil {
			gv = gCol.Value(i)
			key += "\x00" + formatValue(gv)
		}

		grp, ok := groups[key]
		if !ok {
			grp = &group{x: xv, g: gv}
			groups[key] = grp
			order = append(order, key)
		}
		grp.n++
		if yCol != nil {
			if v, ok := yCol.Float(i); ok {
				grp.vals = append(grp.vals, v)
			}
		}
	}

	// Dataframe-style output ordering: ascending by x, then by group value.
	sort.SliceStable(order, func(a, b int) bool {
		ga, gb := groups[order[a]], groups[order[b]]
		if xCol != nil && !equalAny(ga.x, gb.x) {
			return lessAny(ga.x, gb.x)
		}
		if gCol != nil {
			return lessAny(ga.g, gb.g)
		}
		return false
	})

	for _, key := range order {
		grp := groups[key]
		result.rows = append(result.rows, aggRow{
			x:     grp.x,
			g:     grp.g,
			value: applyAggregation(spec.Aggregation, grp.vals, grp.n, yCol != nil),
		})
	}

	return result, nil
}

func numericKind(k dataset.Kind) bool {
	return k == dataset.KindNumber || k == dataset.KindBool
}

func needsAggregation(ct chartspec.ChartType) bool {
	return ct != chartspec.ChartHistogram && ct != chartspec.ChartScatter
}

func applyAggregation(agg chartspec.Aggregation, vals []float64, n int, hasY bool) float64 {
	if !hasY {
		return float64(n)
	}

	switch agg {
	case chartspec.AggCount:
		return float64(n)
	case chartspec.AggMean:
		if len(vals) == 0 {
			return 0
		}
		return stat.Mean(vals, nil)
	case chartspec.AggMedian:
		if len(vals) == 0 {
			return 0
		}
		sorted := make([]float64, len(vals))
		copy(sorted, vals)
		sort.Float64s(sorted)
		return stat.Quantile(0.5, stat.LinInterp, sorted, nil)
	case chartspec.AggMin:
		out := 0.0
		for i, v := range vals {
			if i == 0 || v < out {
				out = v
			}
		}
		return out
	case chartspec.AggMax:
		out := 0.0
		for i, v := range vals {
			if i == 0 || v > out {
				out = v
			}
		}
		return out
	default: // sum
		out := 0.0
		for _, v := range vals {
			out += v
		}
		return out
	}
}

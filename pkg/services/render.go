package services

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"

	"github.com/ada-inc/ada-engine/pkg/chartspec"
	"github.com/ada-inc/ada-engine/pkg/dataset"
)

type renderable interface {
	Render(w io.Writer) error
}

// render turns the prepared data into a self-contained HTML figure. Line, bar
// and pie draw the aggregate; histogram and scatter draw the filtered rows.
func (b *ChartBuilder) render(t *dataset.Table, rows []int, spec chartspec.Spec, agg *aggregated) (*Figure, error) {
	var (
		chart renderable
		err   error
	)

	switch spec.ChartType {
	case chartspec.ChartLine:
		chart = renderLine(spec, agg)
	case chartspec.ChartPie:
		chart, err = renderPie(spec, agg)
	case chartspec.ChartHistogram:
		chart, err = renderHistogram(t, rows, spec)
	case chartspec.ChartScatter:
		chart, err = renderScatter(t, rows, spec)
	default:
		chart = renderBar(spec, agg)
	}
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	if err := chart.Render(&buf); err != nil {
		return nil, fmt.Errorf("render %s chart: %w", spec.ChartType, err)
	}

	return &Figure{
		ChartType: string(spec.ChartType),
		Title:     spec.Title,
		HTML:      buf.String(),
	}, nil
}

func baseOptions(title string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "5%"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
	}
}

// pivot reshapes the aggregate into x categories and one value series per
// group. Rows arrive sorted by x then group; category and series order follow
// first appearance, which preserves that sort.
func pivot(agg *aggregated) (categories []string, series []string, values map[string]map[string]float64) {
	values = make(map[string]map[string]float64)
	seenX := make(map[string]bool)
	seenG := make(map[string]bool)

	for _, r := range agg.rows {
		x := formatValue(r.x)
		g := agg.valueName
		if agg.groupName != "" {
			g = formatValue(r.g)
		}
		if !seenX[x] {
			seenX[x] = true
			categories = append(categories, x)
		}
		if !seenG[g] {
			seenG[g] = true
			series = append(series, g)
		}
		if values[g] == nil {
			values[g] = make(map[string]float64)
		}
		values[g][x] = r.value
	}
	return categories, series, values
}

func renderLine(spec chartspec.Spec, agg *aggregated) renderable {
	line := charts.NewLine()
	line.SetGlobalOptions(append(baseOptions(spec.Title),
		charts.WithXAxisOpts(opts.XAxis{Name: agg.xName}),
		charts.WithYAxisOpts(opts.YAxis{Name: agg.valueName}),
	)...)

	categories, series, values := pivot(agg)
	line.SetXAxis(categories)
	for _, name := range series {
		data := make([]opts.LineData, len(categories))
		for i, x := range categories {
			if v, ok := values[name][x]; ok {
				data[i] = opts.LineData{Value: v}
			} else {
				// echarts convention for a missing point.
				data[i] = opts.LineData{Value: "-"}
			}
		}
		line.AddSeries(name, data,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}))
	}
	return line
}

func renderBar(spec chartspec.Spec, agg *aggregated) renderable {
	bar := charts.NewBar()
	xName := agg.xName
	if xName == "" {
		xName = agg.groupName
	}
	bar.SetGlobalOptions(append(baseOptions(spec.Title),
		charts.WithXAxisOpts(opts.XAxis{Name: xName, AxisLabel: &opts.AxisLabel{Rotate: 30}}),
		charts.WithYAxisOpts(opts.YAxis{Name: agg.valueName}),
	)...)

	// Without an x column the group values become the categories.
	if agg.xName == "" {
		categories := make([]string, 0, len(agg.rows))
		data := make([]opts.BarData, 0, len(agg.rows))
		for _, r := range agg.rows {
			categories = append(categories, formatValue(r.g))
			data = append(data, opts.BarData{Value: r.value})
		}
		bar.SetXAxis(categories)
		bar.AddSeries(agg.valueName, data)
		return bar
	}

	categories, series, values := pivot(agg)
	bar.SetXAxis(categories)
	for _, name := range series {
		data := make([]opts.BarData, len(categories))
		for i, x := range categories {
			if v, ok := values[name][x]; ok {
				data[i] = opts.BarData{Value: v}
			} else {
				data[i] = opts.BarData{Value: 0}
			}
		}
		bar.AddSeries(name, data)
	}
	return bar
}

func renderPie(spec chartspec.Spec, agg *aggregated) (renderable, error) {
	if agg.groupName == "" && agg.xName == "" {
		return nil, fmt.Errorf("pie chart requires a label column")
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(baseOptions(spec.Title)...)

	data := make([]opts.PieData, 0, len(agg.rows))
	for _, r := range agg.rows {
		label := r.g
		if agg.groupName == "" {
			label = r.x
		}
		data = append(data, opts.PieData{Name: formatValue(label), Value: r.value})
	}
	pie.AddSeries(agg.valueName, data).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(true),
			Formatter: "{b}: {c}",
		}))
	return pie, nil
}

func renderHistogram(t *dataset.Table, rows []int, spec chartspec.Spec) (renderable, error) {
	col, ok := t.Column(spec.Y)
	if !ok || !numericKind(col.Kind) {
		return nil, fmt.Errorf("histogram requires a numeric column")
	}

	vals := make([]float64, 0, len(rows))
	for _, i := range rows {
		if v, ok := col.Float(i); ok {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("histogram has no numeric values after filtering")
	}

	labels, counts := binValues(vals)

	bar := charts.NewBar()
	bar.SetGlobalOptions(append(baseOptions(spec.Title),
		charts.WithXAxisOpts(opts.XAxis{Name: col.Name, AxisLabel: &opts.AxisLabel{Rotate: 30}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "count"}),
	)...)

	data := make([]opts.BarData, len(counts))
	for i, c := range counts {
		data[i] = opts.BarData{Value: c}
	}
	bar.SetXAxis(labels)
	bar.AddSeries("count", data,
		charts.WithBarChartOpts(opts.BarChart{BarGap: "0%"}))
	return bar, nil
}

// binValues buckets values into Sturges bins and returns range labels with
// per-bin counts.
func binValues(vals []float64) ([]string, []int) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	bins := int(math.Ceil(math.Log2(float64(len(vals))))) + 1
	if bins < 1 || hi == lo {
		bins = 1
	}

	width := (hi - lo) / float64(bins)
	counts := make([]int, bins)
	for _, v := range vals {
		idx := bins - 1
		if width > 0 {
			idx = int((v - lo) / width)
			if idx >= bins {
				idx = bins - 1
			}
		}
		counts[idx]++
	}

	labels := make([]string, bins)
	for i := range labels {
		labels[i] = fmt.Sprintf("%.4g to %.4g", lo+float64(i)*width, lo+float64(i+1)*width)
	}
	return labels, counts
}

func renderScatter(t *dataset.Table, rows []int, spec chartspec.Spec) (renderable, error) {
	xCol, okX := t.Column(spec.X)
	yCol, okY := t.Column(spec.Y)
	if !okX || !okY || !numericKind(xCol.Kind) || !numericKind(yCol.Kind) {
		return nil, fmt.Errorf("scatter requires two numeric columns")
	}

	var xs, ys []float64
	for _, i := range rows {
		xv, okX := xCol.Float(i)
		yv, okY := yCol.Float(i)
		if okX && okY {
			xs = append(xs, xv)
			ys = append(ys, yv)
		}
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("scatter has no complete numeric pairs after filtering")
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(append(baseOptions(spec.Title),
		charts.WithXAxisOpts(opts.XAxis{Name: xCol.Name, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yCol.Name, Type: "value"}),
	)...)

	points := make([]opts.ScatterData, len(xs))
	for i := range xs {
		points[i] = opts.ScatterData{Value: []any{xs[i], ys[i]}, SymbolSize: 8}
	}
	scatter.AddSeries(yCol.Name, points)

	// Least-squares trendline drawn between the x extremes.
	if len(xs) >= 2 {
		alpha, beta := stat.LinearRegression(xs, ys, nil, false)
		minX, maxX := xs[0], xs[0]
		for _, v := range xs {
			if v < minX {
				minX = v
			}
			if v > maxX {
				maxX = v
			}
		}
		if maxX > minX {
			line := charts.NewLine()
			line.AddSeries("trend", []opts.LineData{
				{Value: []any{minX, alpha + beta*minX}},
				{Value: []any{maxX, alpha + beta*maxX}},
			}, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
			scatter.Overlap(line)
		}
	}

	return scatter, nil
}

// formatValue is the display and grouping form of a cell value. Midnight-only
// timestamps print as bare dates, numbers drop trailing zeros.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format("2006-01-02 15:04:05")
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

func equalAny(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Equal(tb)
		}
	}
	return a == b
}

// lessAny orders values of the same kind naturally and mixed kinds by their
// display form.
func lessAny(a, b any) bool {
	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			return av < bv
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Before(bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return !av && bv
		}
	case string:
		if bv, ok := b.(string); ok {
			return av < bv
		}
	}
	return formatValue(a) < formatValue(b)
}

package dataset

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// NumericStats are the standard descriptive statistics for one numeric column.
type NumericStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// ValueCount is one entry of a column's most-frequent-values list.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Summary holds the dataset-level summary: numeric describe, categorical top
// values, and an optional one-line trend sentence.
type Summary struct {
	Numeric        map[string]NumericStats `json:"numeric_summary,omitempty"`
	CategoricalTop map[string][]ValueCount `json:"categorical_top_values,omitempty"`
	QuickTrend     string                  `json:"quick_trend,omitempty"`
}

// trendMinRows is the minimum number of complete (datetime, numeric) pairs
// needed before a trend sentence is emitted.
const trendMinRows = 3

// Summarize computes descriptive statistics for every numeric column, the
// top-5 most frequent values for every other column, and, when the table has
// at least one datetime and one numeric column, a linear-trend sentence from
// the OLS slope of the first numeric column ordered by the first datetime
// column.
func Summarize(t *Table) *Summary {
	s := &Summary{}

	var numericCols, otherCols []*Column
	for _, c := range t.cols {
		if c.Kind == KindNumber || c.Kind == KindBool {
			numericCols = append(numericCols, c)
		} else {
			otherCols = append(otherCols, c)
		}
	}

	if len(numericCols) > 0 {
		s.Numeric = make(map[string]NumericStats, len(numericCols))
		for _, c := range numericCols {
			s.Numeric[c.Name] = describe(c)
		}
	}

	if len(otherCols) > 0 {
		s.CategoricalTop = make(map[string][]ValueCount, len(otherCols))
		for _, c := range otherCols {
			s.CategoricalTop[c.Name] = topValues(c, 5)
		}
	}

	var timeCol *Column
	for _, c := range t.cols {
		if c.Kind == KindTime {
			timeCol = c
			break
		}
	}
	if timeCol != nil && len(numericCols) > 0 {
		s.QuickTrend = quickTrend(timeCol, numericCols[0])
	}

	return s
}

func describe(c *Column) NumericStats {
	vals := make([]float64, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if v, ok := c.Float(i); ok {
			vals = append(vals, v)
		}
	}

	stats := NumericStats{Count: len(vals)}
	if len(vals) == 0 {
		return stats
	}

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	stats.Mean = stat.Mean(vals, nil)
	if len(vals) > 1 {
		// StdDev of a single sample is NaN, which JSON cannot carry.
		stats.Std = stat.StdDev(vals, nil)
	}
	stats.Min = sorted[0]
	stats.Max = sorted[len(sorted)-1]
	stats.Q25 = stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	stats.Median = stat.Quantile(0.5, stat.LinInterp, sorted, nil)
	stats.Q75 = stat.Quantile(0.75, stat.LinInterp, sorted, nil)
	return stats
}

// topValues returns the n most frequent non-missing values, ties broken by
// first appearance.
func topValues(c *Column, n int) []ValueCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			continue
		}
		v := c.Raw(i)
		if _, seen := counts[v]; !seen {
			firstSeen[v] = i
		}
		counts[v]++
	}

	out := make([]ValueCount, 0, len(counts))
	for v, cnt := range counts {
		out = append(out, ValueCount{Value: v, Count: cnt})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return firstSeen[out[i].Value] < firstSeen[out[j].Value]
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}

// quickTrend fits a line through (row index, value) pairs of the numeric
// column after sorting complete rows by the datetime column. A positive
// slope reads "increasing"; zero or negative reads "decreasing".
func quickTrend(timeCol, numCol *Column) string {
	type pair struct {
		i int
		v float64
	}
	var pairs []pair
	for i := 0; i < timeCol.Len(); i++ {
		if timeCol.IsMissing(i) || numCol.IsMissing(i) {
			continue
		}
		v, ok := numCol.Float(i)
		if !ok {
			continue
		}
		pairs = append(pairs, pair{i: i, v: v})
	}
	if len(pairs) < trendMinRows {
		return ""
	}

	sort.SliceStable(pairs, func(a, b int) bool {
		ta, _ := timeCol.Time(pairs[a].i)
		tb, _ := timeCol.Time(pairs[b].i)
		return ta.Before(tb)
	})

	xs := make([]float64, len(pairs))
	ys := make([]float64, len(pairs))
	for i, p := range pairs {
		xs[i] = float64(i + 1)
		ys[i] = p.v
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)
	trend := "decreasing"
	if slope > 0 {
		trend = "increasing"
	}
	return fmt.Sprintf("%s appears %s over time (%s).", numCol.Name, trend, timeCol.Name)
}

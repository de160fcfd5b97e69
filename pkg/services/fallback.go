package services

import (
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/ada-inc/ada-engine/pkg/chartspec"
	"github.com/ada-inc/ada-engine/pkg/dataset"
)

// fallbackInsight accompanies every heuristic answer.
const fallbackInsight = "Here is an automatic visualization based on your data and question."

// fallbackSuggestions is deliberately static: the heuristic path knows
// nothing about dataset content, so the follow-ups are generic.
var fallbackSuggestions = []string{
	"Show sales trend",
	"Top 10 products by revenue",
	"Distribution of order values",
}

// FallbackSpec is the deterministic, purely local translator used whenever
// the oracle is unavailable or produced nothing usable. Questions are
// classified by case-insensitive keyword presence; the first matching rule
// wins and the precedence below is fixed.
func FallbackSpec(question string, profile *dataset.Profile) (chartspec.Spec, string, []string) {
	q := strings.ToLower(question)

	dt := profile.FirstOfType(dataset.LogicalDatetime)
	num := profile.FirstOfType(dataset.LogicalNumeric)
	cat := profile.FirstCategoricalOrText()

	contains := func(keywords ...string) bool {
		for _, kw := range keywords {
			if strings.Contains(q, kw) {
				return true
			}
		}
		return false
	}

	spec := chartspec.Spec{
		Aggregation: chartspec.AggSum,
		Filters:     map[string]chartspec.FilterRule{},
	}

	switch {
	case contains("trend", "over time") && dt != "" && num != "":
		spec.ChartType = chartspec.ChartLine
		spec.X = dt
		spec.Y = num
		spec.Title = "Trend over time"

	case contains("best", "top") && num != "" && cat != "":
		spec.ChartType = chartspec.ChartBar
		spec.X = cat
		spec.Y = num
		spec.Title = "Top " + strings.ToLower(inflection.Plural(cat))

	case contains("distribution", "hist") && num != "":
		spec.ChartType = chartspec.ChartHistogram
		spec.Y = num
		spec.Title = "Distribution"

	case contains("share", "percentage", "pie"):
		label := cat
		if label == "" && len(profile.Columns) > 0 {
			label = profile.Columns[0]
		}
		spec.ChartType = chartspec.ChartPie
		spec.X = label
		spec.Y = num
		spec.GroupBy = label
		spec.Title = "Share"

	default:
		label := cat
		if label == "" && len(profile.Columns) > 0 {
			label = profile.Columns[0]
		}
		spec.ChartType = chartspec.ChartBar
		spec.X = label
		spec.Y = num
		spec.Title = "Overview"
	}

	return spec, fallbackInsight, fallbackSuggestions
}

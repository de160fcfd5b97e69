package chartspec

import (
	"encoding/json"
	"fmt"

	"github.com/ada-inc/ada-engine/pkg/dataset"
)

// MinimalDefault is the safe spec substituted when repair cannot salvage a
// candidate: a bare bar chart summed over nothing in particular.
func MinimalDefault() Spec {
	return Spec{
		ChartType:   ChartBar,
		Aggregation: AggSum,
		Filters:     map[string]FilterRule{},
		Title:       "Chart",
	}
}

// ValidateAndRepair coerces a possibly-invalid raw spec into one safe to
// build against the profiled dataset. Repairs, in order:
//
//  1. x, y and group_by referencing columns absent from the dataset are
//     cleared, never left dangling.
//  2. A line chart without x gets the first datetime column, if any.
//  3. A missing y gets the first numeric column, if any.
//  4. A missing aggregation defaults to "sum".
//
// If the result still fails validation (unknown chart type or aggregation,
// malformed filter shape), the candidate is discarded for MinimalDefault.
// The returned repair notes describe every change for internal logging;
// repair itself is silent and never an error. The function is idempotent.
func ValidateAndRepair(raw *RawSpec, profile *dataset.Profile) (Spec, []string) {
	if raw == nil {
		return MinimalDefault(), []string{"no chart spec supplied"}
	}

	var repairs []string

	spec := Spec{
		ChartType:   ChartType(raw.ChartType),
		X:           raw.X,
		Y:           raw.Y,
		GroupBy:     raw.GroupBy,
		Aggregation: Aggregation(raw.Aggregation),
		Title:       raw.Title,
	}

	clearDangling := func(field string, value *string) {
		if *value != "" && !profile.HasColumn(*value) {
			repairs = append(repairs, fmt.Sprintf("%s column %q not in dataset, cleared", field, *value))
			*value = ""
		}
	}
	clearDangling("x", &spec.X)
	clearDangling("y", &spec.Y)
	clearDangling("group_by", &spec.GroupBy)

	if spec.ChartType == ChartLine && spec.X == "" {
		if dt := profile.FirstOfType(dataset.LogicalDatetime); dt != "" {
			spec.X = dt
			repairs = append(repairs, fmt.Sprintf("line chart missing x, using datetime column %q", dt))
		}
	}

	if spec.Y == "" {
		if num := profile.FirstOfType(dataset.LogicalNumeric); num != "" {
			spec.Y = num
			repairs = append(repairs, fmt.Sprintf("missing y, using numeric column %q", num))
		}
	}

	if spec.Aggregation == "" {
		spec.Aggregation = AggSum
		repairs = append(repairs, "missing aggregation, defaulting to sum")
	}

	filters, err := parseFilters(raw.Filters)
	if err != nil {
		return MinimalDefault(), append(repairs, fmt.Sprintf("malformed filters, discarding spec: %v", err))
	}
	spec.Filters = filters

	if !ValidChartType(spec.ChartType) {
		return MinimalDefault(), append(repairs, fmt.Sprintf("unknown chart type %q, discarding spec", spec.ChartType))
	}
	if !ValidAggregation(spec.Aggregation) {
		return MinimalDefault(), append(repairs, fmt.Sprintf("unknown aggregation %q, discarding spec", spec.Aggregation))
	}

	if spec.Title == "" {
		spec.Title = "Chart"
	}

	return spec, repairs
}

func parseFilters(raw json.RawMessage) (map[string]FilterRule, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return map[string]FilterRule{}, nil
	}

	var filters map[string]FilterRule
	if err := json.Unmarshal(raw, &filters); err != nil {
		return nil, err
	}
	if filters == nil {
		filters = map[string]FilterRule{}
	}
	return filters, nil
}

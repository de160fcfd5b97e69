package dataset

// Profile captures the shape and typing of a table at upload time. It is
// derived once and cached for the dataset's lifetime.
type Profile struct {
	Rows         int                    `json:"rows"`
	Cols         int                    `json:"cols"`
	Columns      []string               `json:"columns"`
	DTypes       map[string]string      `json:"dtypes"`
	LogicalTypes map[string]LogicalType `json:"logical_types"`
	Missing      map[string]int         `json:"missing"`
	Sample       []map[string]any       `json:"sample"`
	Summary      *Summary               `json:"summary,omitempty"`
}

// sampleRows is how many leading rows the profile carries for display.
const sampleRows = 10

// BuildProfile computes a table's profile: shape, per-column raw and logical
// types, missing-value counts and a fixed-size leading sample. It is pure and
// deterministic: the same table always yields the same profile.
func BuildProfile(t *Table) *Profile {
	p := &Profile{
		Rows:         t.Rows(),
		Cols:         t.Cols(),
		Columns:      t.ColumnNames(),
		DTypes:       make(map[string]string, t.Cols()),
		LogicalTypes: make(map[string]LogicalType, t.Cols()),
		Missing:      make(map[string]int, t.Cols()),
		Sample:       t.HeadRows(sampleRows),
	}

	for _, c := range t.cols {
		p.DTypes[c.Name] = string(c.Kind)
		p.LogicalTypes[c.Name] = classify(c)
		p.Missing[c.Name] = c.missingCount()
	}

	return p
}

// classify assigns the logical type. Datetime and numeric follow directly
// from the raw kind; other columns are categorical when their distinct-value
// count is at most min(50, max(10, 0.05*rows)), otherwise text.
func classify(c *Column) LogicalType {
	switch c.Kind {
	case KindTime:
		return LogicalDatetime
	case KindNumber, KindBool:
		return LogicalNumeric
	}

	threshold := int(0.05 * float64(c.Len()))
	if threshold < 10 {
		threshold = 10
	}
	if threshold > 50 {
		threshold = 50
	}
	if c.distinct() <= threshold {
		return LogicalCategorical
	}
	return LogicalText
}

// HasColumn reports whether the profiled table has a column with this name.
func (p *Profile) HasColumn(name string) bool {
	_, ok := p.LogicalTypes[name]
	return ok
}

// FirstOfType returns the first column (in table order) with the given
// logical type, or "" when there is none.
func (p *Profile) FirstOfType(lt LogicalType) string {
	for _, name := range p.Columns {
		if p.LogicalTypes[name] == lt {
			return name
		}
	}
	return ""
}

// FirstCategoricalOrText returns the first column that is categorical or
// text, preferring whichever appears first in table order.
func (p *Profile) FirstCategoricalOrText() string {
	for _, name := range p.Columns {
		if lt := p.LogicalTypes[name]; lt == LogicalCategorical || lt == LogicalText {
			return name
		}
	}
	return ""
}

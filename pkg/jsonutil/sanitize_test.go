package jsonutil

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeNumbers_ScalarNaN(t *testing.T) {
	assert.Nil(t, SanitizeNumbers(math.NaN()))
	assert.Nil(t, SanitizeNumbers(math.Inf(1)))
	assert.Nil(t, SanitizeNumbers(math.Inf(-1)))
	assert.Equal(t, 1.5, SanitizeNumbers(1.5))
}

func TestSanitizeNumbers_NestedThreeLevelsDeep(t *testing.T) {
	payload := map[string]any{
		"rows": []any{
			map[string]any{
				"ok":  2.0,
				"bad": math.NaN(),
				"deeper": []any{
					math.Inf(1),
					"text",
				},
			},
		},
	}

	out := SanitizeNumbers(payload)

	b, err := json.Marshal(out)
	require.NoError(t, err, "sanitized payloads must always encode")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))

	row := decoded["rows"].([]any)[0].(map[string]any)
	assert.Equal(t, 2.0, row["ok"])
	assert.Nil(t, row["bad"])
	assert.Nil(t, row["deeper"].([]any)[0])
	assert.Equal(t, "text", row["deeper"].([]any)[1])
}

func TestSanitizeNumbers_StructPayload(t *testing.T) {
	type stats struct {
		Mean float64 `json:"mean"`
		Std  float64 `json:"std"`
	}
	type payload struct {
		ID          string           `json:"id"`
		When        time.Time        `json:"when"`
		DataPreview []map[string]any `json:"data_preview"`
		Stats       stats            `json:"stats"`
		AggPreview  []map[string]any `json:"agg_preview,omitempty"`
		hidden      float64
	}

	in := payload{
		ID:          "d1",
		When:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DataPreview: []map[string]any{{"Sales": math.Inf(1), "Region": "East"}},
		Stats:       stats{Mean: math.NaN(), Std: 1.25},
		hidden:      math.Inf(1),
	}

	out := SanitizeNumbers(in)

	b, err := json.Marshal(out)
	require.NoError(t, err, "struct payloads with non-finite floats must encode")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))

	assert.Equal(t, "d1", decoded["id"])
	assert.Contains(t, decoded["when"], "2024-03-01")

	row := decoded["data_preview"].([]any)[0].(map[string]any)
	assert.Nil(t, row["Sales"])
	assert.Equal(t, "East", row["Region"])

	st := decoded["stats"].(map[string]any)
	assert.Nil(t, st["mean"])
	assert.Equal(t, 1.25, st["std"])

	_, present := decoded["agg_preview"]
	assert.False(t, present, "empty omitempty fields stay omitted")
}

func TestSanitizeNumbers_FiniteStructUnchanged(t *testing.T) {
	type payload struct {
		Rows []map[string]any `json:"rows"`
	}
	in := payload{Rows: []map[string]any{{"v": 3.0}}}

	out := SanitizeNumbers(in)
	assert.IsType(t, payload{}, out, "clean payloads skip the rebuild")
	assert.Equal(t, in, out)
}

func TestSanitizeNumbers_PointerToStruct(t *testing.T) {
	type payload struct {
		Value float64 `json:"value"`
	}
	out := SanitizeNumbers(&payload{Value: math.Inf(-1)})

	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value": null}`, string(b))
}

func TestSanitizeRows(t *testing.T) {
	rows := []map[string]any{
		{"v": math.NaN()},
		{"v": 3.0},
	}

	out := SanitizeRows(rows)
	require.Len(t, out, 2)
	assert.Nil(t, out[0]["v"])
	assert.Equal(t, 3.0, out[1]["v"])
}

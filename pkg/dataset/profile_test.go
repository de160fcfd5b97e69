package dataset

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadCSV(t *testing.T, content string) *Table {
	t.Helper()
	table, err := Load(writeTempFile(t, "data.csv", content))
	require.NoError(t, err)
	return table
}

func TestBuildProfile_LogicalTypes(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("Date,Region,Sales,Comment\n")
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&sb, "2024-01-%02d,Region%d,%d,unique comment number %d\n", i%28+1, i%3, i*10, i)
	}

	table := loadCSV(t, sb.String())
	p := BuildProfile(table)

	assert.Equal(t, 40, p.Rows)
	assert.Equal(t, 4, p.Cols)
	assert.Equal(t, LogicalDatetime, p.LogicalTypes["Date"])
	assert.Equal(t, LogicalCategorical, p.LogicalTypes["Region"], "3 distinct values out of 40 rows")
	assert.Equal(t, LogicalNumeric, p.LogicalTypes["Sales"])
	assert.Equal(t, LogicalText, p.LogicalTypes["Comment"], "40 distinct values exceed the categorical threshold")
}

func TestBuildProfile_SampleAndMissing(t *testing.T) {
	table := loadCSV(t, "A,B\n1,x\n,y\n3,\n")
	p := BuildProfile(table)

	assert.Equal(t, 1, p.Missing["A"])
	assert.Equal(t, 1, p.Missing["B"])
	require.Len(t, p.Sample, 3)
	assert.Nil(t, p.Sample[1]["A"], "missing cells sample as nil")
}

func TestBuildProfile_Deterministic(t *testing.T) {
	table := loadCSV(t, "Date,Sales\n2024-01-01,10\n2024-01-02,20\n2024-01-03,15\n")

	first := BuildProfile(table)
	second := BuildProfile(table)
	assert.Equal(t, first, second)
}

func TestProfile_FirstOfType(t *testing.T) {
	table := loadCSV(t, "Name,Date,Qty,Price\nalpha,2024-01-01,1,9.99\nbeta,2024-01-02,2,19.99\n")
	p := BuildProfile(table)

	assert.Equal(t, "Date", p.FirstOfType(LogicalDatetime))
	assert.Equal(t, "Qty", p.FirstOfType(LogicalNumeric), "table order decides")
	assert.Equal(t, "Name", p.FirstCategoricalOrText())
	assert.Equal(t, "", p.FirstOfType(LogicalType("bogus")))
}

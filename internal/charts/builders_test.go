package charts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/easel/pkg/types"
)

func TestNewVisualIDUnique(t *testing.T) {
	a := NewVisualID()
	b := NewVisualID()
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "visual-")
}

func TestKPI(t *testing.T) {
	v, err := KPI("Total Revenue", "revenue", "sum")
	require.NoError(t, err)
	assert.Equal(t, types.VisualKPI, v.Type)
	assert.Equal(t, "Total Revenue", v.Title)
	assert.Equal(t, types.FieldRef{Column: "revenue", Aggregation: types.AggSum}, v.Fields[types.RoleValue])
	assert.NotEmpty(t, v.VisualID)

	_, err = KPI("Broken", "", "sum")
	assert.ErrorIs(t, err, ErrColumnEmpty)
}

func TestAggregationCanonicalized(t *testing.T) {
	v, err := KPI("Avg Deal", "amount", "avg")
	require.NoError(t, err)
	assert.Equal(t, types.AggAverage, v.Fields[types.RoleValue].Aggregation)

	v, err = KPI("Custom", "amount", "median")
	require.NoError(t, err)
	assert.Equal(t, "MEDIAN", v.Fields[types.RoleValue].Aggregation)
}

func TestBar(t *testing.T) {
	v, err := Bar("By Region", "region", "revenue", "SUM", "segment")
	require.NoError(t, err)
	assert.Equal(t, types.VisualBarChart, v.Type)
	assert.Equal(t, "region", v.Fields[types.RoleCategory].Column)
	assert.Equal(t, "segment", v.Fields[types.RoleColor].Column)

	v, err = Bar("No Color", "region", "revenue", "SUM", "")
	require.NoError(t, err)
	_, ok := v.Fields[types.RoleColor]
	assert.False(t, ok)

	_, err = Bar("Broken", "", "revenue", "SUM", "")
	assert.ErrorIs(t, err, ErrColumnEmpty)
}

func TestLine(t *testing.T) {
	v, err := Line("Over Time", "month", "revenue", "SUM", "")
	require.NoError(t, err)
	assert.Equal(t, types.VisualLineChart, v.Type)
	assert.Equal(t, "month", v.Fields[types.RoleCategory].Column)
}

func TestPivot(t *testing.T) {
	v, err := Pivot("Matrix", "region", "quarter", "revenue", "SUM")
	require.NoError(t, err)
	assert.Equal(t, types.VisualPivotTable, v.Type)
	assert.Equal(t, "region", v.Fields[types.RoleRow].Column)
	assert.Equal(t, "quarter", v.Fields[types.RoleColumn].Column)

	v, err = Pivot("Flat", "region", "", "revenue", "SUM")
	require.NoError(t, err)
	_, ok := v.Fields[types.RoleColumn]
	assert.False(t, ok)

	_, err = Pivot("Broken", "region", "quarter", "", "SUM")
	assert.ErrorIs(t, err, ErrColumnEmpty)
}

func TestTable(t *testing.T) {
	v, err := Table("Raw Data", []string{"region", "revenue", "cost"})
	require.NoError(t, err)
	assert.Equal(t, types.VisualTable, v.Type)

	cols, err := TableColumns(&v)
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "revenue", "cost"}, cols)

	_, err = Table("Empty", nil)
	assert.ErrorIs(t, err, ErrColumnEmpty)
	_, err = Table("Blank", []string{"region", ""})
	assert.ErrorIs(t, err, ErrColumnEmpty)
}

func TestRaw(t *testing.T) {
	payload := json.RawMessage(`{"FunnelChartVisual":{"bins":5}}`)
	v, err := Raw("Funnel", payload)
	require.NoError(t, err)
	assert.Equal(t, types.VisualRaw, v.Type)
	assert.JSONEq(t, string(payload), string(v.Raw))

	_, err = Raw("Empty", nil)
	assert.ErrorIs(t, err, ErrRawEmpty)
	_, err = Raw("Array", json.RawMessage(`[1,2]`))
	assert.ErrorIs(t, err, ErrRawNotObject)
	_, err = Raw("Garbage", json.RawMessage(`{not json`))
	assert.ErrorIs(t, err, ErrRawNotObject)
}

package types

import "encoding/json"

// VisualType tags the chart kind of a visual. The set is closed; anything
// the builders do not model travels as VisualRaw with the original payload
// preserved in Visual.Raw.
type VisualType string

// Known visual types.
const (
	VisualKPI        VisualType = "KPI"
	VisualBarChart   VisualType = "BarChart"
	VisualLineChart  VisualType = "LineChart"
	VisualPivotTable VisualType = "PivotTable"
	VisualTable      VisualType = "Table"
	VisualPieChart   VisualType = "PieChart"
	VisualComboChart VisualType = "ComboChart"
	VisualRaw        VisualType = "Raw"
)

// validVisualTypes is the set of recognized visual type values.
var validVisualTypes = map[VisualType]bool{
	VisualKPI:        true,
	VisualBarChart:   true,
	VisualLineChart:  true,
	VisualPivotTable: true,
	VisualTable:      true,
	VisualPieChart:   true,
	VisualComboChart: true,
	VisualRaw:        true,
}

// IsValidVisualType reports whether t is a recognized visual type.
func IsValidVisualType(t VisualType) bool {
	return validVisualTypes[t]
}

// FieldRole names the slot a column is bound to within a visual.
type FieldRole string

// Field roles used by the chart builders.
const (
	RoleCategory FieldRole = "category"
	RoleValue    FieldRole = "value"
	RoleColor    FieldRole = "color"
	RoleRow      FieldRole = "row"
	RoleColumn   FieldRole = "column"
)

// Aggregation function names accepted by FieldRef. AVG normalizes to
// AVERAGE on input, matching the service's vocabulary.
const (
	AggSum           = "SUM"
	AggCount         = "COUNT"
	AggAverage       = "AVERAGE"
	AggMin           = "MIN"
	AggMax           = "MAX"
	AggDistinctCount = "DISTINCT_COUNT"
)

// aggAliases maps accepted spellings to canonical aggregation names.
var aggAliases = map[string]string{
	"SUM":            AggSum,
	"COUNT":          AggCount,
	"AVG":            AggAverage,
	"AVERAGE":        AggAverage,
	"MIN":            AggMin,
	"MAX":            AggMax,
	"DISTINCT_COUNT": AggDistinctCount,
}

// CanonicalAggregation resolves an aggregation spelling to its canonical
// name. Unknown spellings are returned unchanged; the remote service is the
// authority on what it accepts.
func CanonicalAggregation(agg string) string {
	if c, ok := aggAliases[agg]; ok {
		return c
	}
	return agg
}

// FieldRef binds a dataset column, optionally aggregated, into a field role.
type FieldRef struct {
	Column      string `json:"column"`
	Aggregation string `json:"aggregation,omitempty"`
}

// FieldMap is the role-to-column binding of a visual.
type FieldMap map[FieldRole]FieldRef

// Visual is one chart on a sheet. Identity is unique within the document
// and globally addressable. Raw carries the untyped payload for visuals
// inserted through the raw extension point.
type Visual struct {
	VisualID string          `json:"visual_id"`
	Type     VisualType      `json:"type"`
	Title    string          `json:"title,omitempty"`
	Subtitle string          `json:"subtitle,omitempty"`
	Fields   FieldMap        `json:"fields,omitempty"`
	Raw      json.RawMessage `json:"raw,omitempty"`
}

// Package charts builds typed visual definitions. Builders validate and
// canonicalize their inputs; anything they cannot model goes through Raw.
package charts

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/easel/pkg/types"
)

// Builder input errors.
var (
	ErrColumnEmpty  = errors.New("column must not be empty")
	ErrRawEmpty     = errors.New("raw payload must not be empty")
	ErrRawNotObject = errors.New("raw payload must be a JSON object")
)

// NewVisualID generates a unique visual ID.
func NewVisualID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return "visual-" + strings.Split(id.String(), "-")[0]
}

// field canonicalizes one column/aggregation pair.
func field(column, agg string) (types.FieldRef, error) {
	if column == "" {
		return types.FieldRef{}, ErrColumnEmpty
	}
	return types.FieldRef{
		Column:      column,
		Aggregation: types.CanonicalAggregation(strings.ToUpper(agg)),
	}, nil
}

// KPI builds a single-value visual over one aggregated column.
func KPI(title, valueColumn, agg string) (types.Visual, error) {
	value, err := field(valueColumn, agg)
	if err != nil {
		return types.Visual{}, fmt.Errorf("kpi value: %w", err)
	}
	return types.Visual{
		VisualID: NewVisualID(),
		Type:     types.VisualKPI,
		Title:    title,
		Fields:   types.FieldMap{types.RoleValue: value},
	}, nil
}

// Bar builds a bar chart: one category axis, one aggregated value, and an
// optional color grouping.
func Bar(title, categoryColumn, valueColumn, agg, colorColumn string) (types.Visual, error) {
	category, err := field(categoryColumn, "")
	if err != nil {
		return types.Visual{}, fmt.Errorf("bar category: %w", err)
	}
	value, err := field(valueColumn, agg)
	if err != nil {
		return types.Visual{}, fmt.Errorf("bar value: %w", err)
	}
	fields := types.FieldMap{
		types.RoleCategory: category,
		types.RoleValue:    value,
	}
	if colorColumn != "" {
		fields[types.RoleColor] = types.FieldRef{Column: colorColumn}
	}
	return types.Visual{
		VisualID: NewVisualID(),
		Type:     types.VisualBarChart,
		Title:    title,
		Fields:   fields,
	}, nil
}

// Line builds a line chart: an x-axis category, one aggregated value, and
// an optional series color.
func Line(title, categoryColumn, valueColumn, agg, colorColumn string) (types.Visual, error) {
	v, err := Bar(title, categoryColumn, valueColumn, agg, colorColumn)
	if err != nil {
		return types.Visual{}, err
	}
	v.Type = types.VisualLineChart
	return v, nil
}

// Pivot builds a pivot table with one row dimension, one column dimension,
// and one aggregated value. The column dimension is optional.
func Pivot(title, rowColumn, columnColumn, valueColumn, agg string) (types.Visual, error) {
	row, err := field(rowColumn, "")
	if err != nil {
		return types.Visual{}, fmt.Errorf("pivot row: %w", err)
	}
	value, err := field(valueColumn, agg)
	if err != nil {
		return types.Visual{}, fmt.Errorf("pivot value: %w", err)
	}
	fields := types.FieldMap{
		types.RoleRow:   row,
		types.RoleValue: value,
	}
	if columnColumn != "" {
		fields[types.RoleColumn] = types.FieldRef{Column: columnColumn}
	}
	return types.Visual{
		VisualID: NewVisualID(),
		Type:     types.VisualPivotTable,
		Title:    title,
		Fields:   fields,
	}, nil
}

// tablePayload is the Raw body of a table visual: a plain column list,
// which FieldMap's one-ref-per-role shape cannot hold.
type tablePayload struct {
	Columns []string `json:"columns"`
}

// Table builds a tabular visual listing the given columns in order.
func Table(title string, columns []string) (types.Visual, error) {
	if len(columns) == 0 {
		return types.Visual{}, fmt.Errorf("table columns: %w", ErrColumnEmpty)
	}
	for _, c := range columns {
		if c == "" {
			return types.Visual{}, fmt.Errorf("table columns: %w", ErrColumnEmpty)
		}
	}
	raw, err := json.Marshal(tablePayload{Columns: columns})
	if err != nil {
		return types.Visual{}, fmt.Errorf("encoding table columns: %w", err)
	}
	return types.Visual{
		VisualID: NewVisualID(),
		Type:     types.VisualTable,
		Title:    title,
		Raw:      raw,
	}, nil
}

// TableColumns decodes the column list of a table visual.
func TableColumns(v *types.Visual) ([]string, error) {
	var p tablePayload
	if err := json.Unmarshal(v.Raw, &p); err != nil {
		return nil, fmt.Errorf("decoding table columns: %w", err)
	}
	return p.Columns, nil
}

// Raw wraps an arbitrary JSON object as a visual, the escape hatch for
// chart kinds the builders do not model. The payload is preserved verbatim.
func Raw(title string, payload json.RawMessage) (types.Visual, error) {
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" {
		return types.Visual{}, ErrRawEmpty
	}
	if !json.Valid(payload) || !strings.HasPrefix(trimmed, "{") {
		return types.Visual{}, ErrRawNotObject
	}
	return types.Visual{
		VisualID: NewVisualID(),
		Type:     types.VisualRaw,
		Title:    title,
		Raw:      payload,
	}, nil
}

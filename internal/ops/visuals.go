package ops

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/easel/internal/charts"
	"github.com/mesh-intelligence/easel/internal/guard"
	"github.com/mesh-intelligence/easel/internal/pipeline"
	"github.com/mesh-intelligence/easel/pkg/types"
)

// Grid geometry of the service's sheet layout.
const (
	GridColumns       = 36
	DefaultColumnSpan = 18
	DefaultRowSpan    = 12
)

// addVisual appends a built visual to a sheet with a layout element placed
// on the next free row, then expects the visual to exist with its title.
func (s *Service) addVisual(ctx context.Context, documentID, sheetID, operation string, visual types.Visual) (*types.OperationResult, error) {
	return s.runner.Run(ctx, pipeline.Request{
		DocumentID: documentID,
		Operation:  operation,
		EntityKind: types.KindVisual,
		EntityID:   visual.VisualID,
		Transform: func(doc *types.Document) error {
			sheet := doc.FindSheet(sheetID)
			if sheet == nil {
				return fmt.Errorf("sheet %q: %w", sheetID, types.ErrNotFound)
			}
			if _, existing := doc.FindVisual(visual.VisualID); existing != nil {
				return fmt.Errorf("visual %q: %w", visual.VisualID, types.ErrAlreadyExists)
			}
			sheet.Visuals = append(sheet.Visuals, visual)
			sheet.Layout = append(sheet.Layout, types.LayoutElement{
				VisualID:   visual.VisualID,
				ColumnSpan: DefaultColumnSpan,
				RowIndex:   nextFreeRow(sheet),
				RowSpan:    DefaultRowSpan,
			})
			return nil
		},
		Verify: types.ExpectExists(types.KindVisual, visual.VisualID).WithTitle(visual.Title),
	})
}

// nextFreeRow returns the first row index below every placed element.
func nextFreeRow(sheet *types.Sheet) int {
	next := 0
	for i := range sheet.Layout {
		if bottom := sheet.Layout[i].RowIndex + sheet.Layout[i].RowSpan; bottom > next {
			next = bottom
		}
	}
	return next
}

// AddKPI creates a KPI visual on the sheet.
func (s *Service) AddKPI(ctx context.Context, documentID, sheetID, title, valueColumn, agg string) (*types.OperationResult, error) {
	visual, err := charts.KPI(title, valueColumn, agg)
	if err != nil {
		return nil, err
	}
	return s.addVisual(ctx, documentID, sheetID, "create-kpi", visual)
}

// AddBarChart creates a bar chart on the sheet.
func (s *Service) AddBarChart(ctx context.Context, documentID, sheetID, title, category, valueColumn, agg, color string) (*types.OperationResult, error) {
	visual, err := charts.Bar(title, category, valueColumn, agg, color)
	if err != nil {
		return nil, err
	}
	return s.addVisual(ctx, documentID, sheetID, "create-bar-chart", visual)
}

// AddLineChart creates a line chart on the sheet.
func (s *Service) AddLineChart(ctx context.Context, documentID, sheetID, title, category, valueColumn, agg, color string) (*types.OperationResult, error) {
	visual, err := charts.Line(title, category, valueColumn, agg, color)
	if err != nil {
		return nil, err
	}
	return s.addVisual(ctx, documentID, sheetID, "create-line-chart", visual)
}

// AddPivotTable creates a pivot table on the sheet.
func (s *Service) AddPivotTable(ctx context.Context, documentID, sheetID, title, row, column, valueColumn, agg string) (*types.OperationResult, error) {
	visual, err := charts.Pivot(title, row, column, valueColumn, agg)
	if err != nil {
		return nil, err
	}
	return s.addVisual(ctx, documentID, sheetID, "create-pivot-table", visual)
}

// AddTable creates a tabular visual on the sheet.
func (s *Service) AddTable(ctx context.Context, documentID, sheetID, title string, columns []string) (*types.OperationResult, error) {
	visual, err := charts.Table(title, columns)
	if err != nil {
		return nil, err
	}
	return s.addVisual(ctx, documentID, sheetID, "create-table", visual)
}

// AddRawVisual inserts an arbitrary visual payload on the sheet.
func (s *Service) AddRawVisual(ctx context.Context, documentID, sheetID, title string, payload json.RawMessage) (*types.OperationResult, error) {
	visual, err := charts.Raw(title, payload)
	if err != nil {
		return nil, err
	}
	return s.addVisual(ctx, documentID, sheetID, "add-raw-visual", visual)
}

// DeleteVisual removes a visual and its layout element.
func (s *Service) DeleteVisual(ctx context.Context, documentID, visualID string) (*types.OperationResult, error) {
	return s.runner.Run(ctx, pipeline.Request{
		DocumentID: documentID,
		Operation:  "delete-visual",
		Class:      guard.ClassSingleDelete,
		EntityKind: types.KindVisual,
		EntityID:   visualID,
		Transform: func(doc *types.Document) error {
			sheet, visual := doc.FindVisual(visualID)
			if visual == nil {
				return fmt.Errorf("visual %q: %w", visualID, types.ErrNotFound)
			}
			visuals := sheet.Visuals[:0]
			for _, v := range sheet.Visuals {
				if v.VisualID != visualID {
					visuals = append(visuals, v)
				}
			}
			sheet.Visuals = visuals

			layout := sheet.Layout[:0]
			for _, el := range sheet.Layout {
				if el.VisualID != visualID {
					layout = append(layout, el)
				}
			}
			sheet.Layout = layout
			return nil
		},
		Verify: types.ExpectAbsent(types.KindVisual, visualID),
	})
}

// SetVisualTitle updates a visual's title and, when non-empty, subtitle.
func (s *Service) SetVisualTitle(ctx context.Context, documentID, visualID, title, subtitle string) (*types.OperationResult, error) {
	if title == "" {
		return nil, fmt.Errorf("visual title must not be empty")
	}
	return s.runner.Run(ctx, pipeline.Request{
		DocumentID: documentID,
		Operation:  "set-visual-title",
		EntityKind: types.KindVisual,
		EntityID:   visualID,
		Transform: func(doc *types.Document) error {
			_, visual := doc.FindVisual(visualID)
			if visual == nil {
				return fmt.Errorf("visual %q: %w", visualID, types.ErrNotFound)
			}
			visual.Title = title
			if subtitle != "" {
				visual.Subtitle = subtitle
			}
			return nil
		},
		Verify: types.ExpectExists(types.KindVisual, visualID).WithTitle(title),
	})
}

// SetVisualLayout places or moves a visual on its sheet's grid.
func (s *Service) SetVisualLayout(ctx context.Context, documentID, visualID string, element types.LayoutElement) (*types.OperationResult, error) {
	if element.ColumnSpan <= 0 || element.RowSpan <= 0 {
		return nil, fmt.Errorf("layout spans must be positive")
	}
	if element.ColumnIndex < 0 || element.RowIndex < 0 {
		return nil, fmt.Errorf("layout position must not be negative")
	}
	if element.ColumnIndex+element.ColumnSpan > GridColumns {
		return nil, fmt.Errorf("layout exceeds the %d-column grid", GridColumns)
	}
	element.VisualID = visualID
	return s.runner.Run(ctx, pipeline.Request{
		DocumentID: documentID,
		Operation:  "set-visual-layout",
		EntityKind: types.KindVisual,
		EntityID:   visualID,
		Transform: func(doc *types.Document) error {
			sheet, visual := doc.FindVisual(visualID)
			if visual == nil {
				return fmt.Errorf("visual %q: %w", visualID, types.ErrNotFound)
			}
			if existing := sheet.LayoutFor(visualID); existing != nil {
				*existing = element
				return nil
			}
			sheet.Layout = append(sheet.Layout, element)
			return nil
		},
		Verify: types.ExpectExists(types.KindVisual, visualID),
	})
}

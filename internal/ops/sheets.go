package ops

import (
	"context"
	"fmt"

	"github.com/tiendc/go-deepcopy"

	"github.com/mesh-intelligence/easel/internal/guard"
	"github.com/mesh-intelligence/easel/internal/pipeline"
	"github.com/mesh-intelligence/easel/pkg/types"
)

// AddSheet appends an empty sheet and returns the result carrying the new
// sheet's ID. Fails when the document is at the configured sheet limit.
func (s *Service) AddSheet(ctx context.Context, documentID, name string) (*types.OperationResult, error) {
	if name == "" {
		return nil, fmt.Errorf("sheet name must not be empty")
	}
	sheetID := NewSheetID()
	return s.runner.Run(ctx, pipeline.Request{
		DocumentID: documentID,
		Operation:  "add-sheet",
		EntityKind: types.KindSheet,
		EntityID:   sheetID,
		Transform: func(doc *types.Document) error {
			if len(doc.Sheets) >= s.cfg.MaxSheets {
				return fmt.Errorf("document already has %d sheets, limit is %d", len(doc.Sheets), s.cfg.MaxSheets)
			}
			doc.Sheets = append(doc.Sheets, types.Sheet{SheetID: sheetID, Name: name})
			return nil
		},
		Verify: types.ExpectExists(types.KindSheet, sheetID).WithName(name),
	})
}

// DeleteSheet removes a sheet. Filter groups scoped to it lose that scope
// entry; a group left with no scope at all is removed with the sheet.
func (s *Service) DeleteSheet(ctx context.Context, documentID, sheetID string) (*types.OperationResult, error) {
	return s.runner.Run(ctx, pipeline.Request{
		DocumentID: documentID,
		Operation:  "delete-sheet",
		Class:      guard.ClassSingleDelete,
		EntityKind: types.KindSheet,
		EntityID:   sheetID,
		Transform: func(doc *types.Document) error {
			if doc.FindSheet(sheetID) == nil {
				return fmt.Errorf("sheet %q: %w", sheetID, types.ErrNotFound)
			}
			removeSheet(doc, sheetID)
			return nil
		},
		Verify: types.ExpectAbsent(types.KindSheet, sheetID),
	})
}

// RenameSheet changes a sheet's display name.
func (s *Service) RenameSheet(ctx context.Context, documentID, sheetID, name string) (*types.OperationResult, error) {
	if name == "" {
		return nil, fmt.Errorf("sheet name must not be empty")
	}
	return s.runner.Run(ctx, pipeline.Request{
		DocumentID: documentID,
		Operation:  "rename-sheet",
		EntityKind: types.KindSheet,
		EntityID:   sheetID,
		Transform: func(doc *types.Document) error {
			sheet := doc.FindSheet(sheetID)
			if sheet == nil {
				return fmt.Errorf("sheet %q: %w", sheetID, types.ErrNotFound)
			}
			sheet.Name = name
			return nil
		},
		Verify: types.ExpectExists(types.KindSheet, sheetID).WithName(name),
	})
}

// ReplicateSheet deep-copies a sheet under a new ID. Every copied visual
// gets an ID prefixed with the new sheet's ID so identities stay unique;
// layout elements are rewritten to follow. The expectation is the exact
// post-copy sheet count.
func (s *Service) ReplicateSheet(ctx context.Context, documentID, sourceSheetID, name string) (*types.OperationResult, error) {
	newSheetID := NewSheetID()
	return s.runner.Run(ctx, pipeline.Request{
		DocumentID: documentID,
		Operation:  "replicate-sheet",
		EntityKind: types.KindSheet,
		EntityID:   newSheetID,
		Transform: func(doc *types.Document) error {
			if len(doc.Sheets) >= s.cfg.MaxSheets {
				return fmt.Errorf("document already has %d sheets, limit is %d", len(doc.Sheets), s.cfg.MaxSheets)
			}
			source := doc.FindSheet(sourceSheetID)
			if source == nil {
				return fmt.Errorf("sheet %q: %w", sourceSheetID, types.ErrNotFound)
			}
			var copied types.Sheet
			if err := deepcopy.Copy(&copied, source); err != nil {
				return fmt.Errorf("copying sheet %q: %w", sourceSheetID, err)
			}
			copied.SheetID = newSheetID
			if name != "" {
				copied.Name = name
			} else {
				copied.Name = source.Name + " (copy)"
			}
			renamed := make(map[string]string, len(copied.Visuals))
			for i := range copied.Visuals {
				old := copied.Visuals[i].VisualID
				renamed[old] = newSheetID + "_" + old
				copied.Visuals[i].VisualID = renamed[old]
			}
			for i := range copied.Layout {
				if fresh, ok := renamed[copied.Layout[i].VisualID]; ok {
					copied.Layout[i].VisualID = fresh
				}
			}
			doc.Sheets = append(doc.Sheets, copied)
			return nil
		},
		VerifyFrom: func(before, after *types.Document) *types.VerificationSpec {
			return types.ExpectCount(types.KindSheet, "", len(after.Sheets))
		},
	})
}

// PruneEmptySheets removes every sheet with no visuals. Classed bulk, so
// the destructive-change detector still screens the removal.
func (s *Service) PruneEmptySheets(ctx context.Context, documentID string) (*types.OperationResult, error) {
	return s.runner.Run(ctx, pipeline.Request{
		DocumentID: documentID,
		Operation:  "prune-empty-sheets",
		EntityKind: types.KindSheet,
		Transform: func(doc *types.Document) error {
			var empty []string
			for i := range doc.Sheets {
				if len(doc.Sheets[i].Visuals) == 0 {
					empty = append(empty, doc.Sheets[i].SheetID)
				}
			}
			if len(empty) == 0 {
				return fmt.Errorf("no empty sheets to prune: %w", types.ErrNotFound)
			}
			for _, id := range empty {
				removeSheet(doc, id)
			}
			return nil
		},
		VerifyFrom: func(before, after *types.Document) *types.VerificationSpec {
			return types.ExpectCount(types.KindSheet, "", len(after.Sheets))
		},
	})
}

// removeSheet drops the sheet and cascades filter-group scopes: the sheet
// disappears from explicit scope lists, and a group whose scope becomes
// empty goes with it.
func removeSheet(doc *types.Document, sheetID string) {
	sheets := doc.Sheets[:0]
	for _, sheet := range doc.Sheets {
		if sheet.SheetID != sheetID {
			sheets = append(sheets, sheet)
		}
	}
	doc.Sheets = sheets

	groups := doc.FilterGroups[:0]
	for _, g := range doc.FilterGroups {
		if !g.Scope.AllSheets {
			ids := g.Scope.SheetIDs[:0]
			for _, id := range g.Scope.SheetIDs {
				if id != sheetID {
					ids = append(ids, id)
				}
			}
			g.Scope.SheetIDs = ids
			if len(ids) == 0 {
				continue
			}
		}
		groups = append(groups, g)
	}
	doc.FilterGroups = groups
}

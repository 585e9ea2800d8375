package ops

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/easel/internal/guard"
	"github.com/mesh-intelligence/easel/internal/pipeline"
	"github.com/mesh-intelligence/easel/pkg/types"
)

// AddFilterGroup attaches a filter group to the document. An empty group
// ID gets a generated one; duplicate IDs are rejected, as are scopes that
// set both all-sheets and an explicit sheet list or reference sheets the
// document does not have.
func (s *Service) AddFilterGroup(ctx context.Context, documentID string, group types.FilterGroup) (*types.OperationResult, error) {
	if group.FilterGroupID == "" {
		group.FilterGroupID = NewFilterGroupID()
	}
	if len(group.Filters) == 0 {
		return nil, fmt.Errorf("filter group must have at least one condition")
	}
	for _, f := range group.Filters {
		if f.Column == "" || f.Operator == "" {
			return nil, fmt.Errorf("filter conditions need a column and an operator")
		}
	}
	if group.Scope.AllSheets && len(group.Scope.SheetIDs) > 0 {
		return nil, fmt.Errorf("filter scope cannot be both all-sheets and a sheet list")
	}
	if !group.Scope.AllSheets && len(group.Scope.SheetIDs) == 0 {
		return nil, fmt.Errorf("filter scope must name sheets or apply to all")
	}

	return s.runner.Run(ctx, pipeline.Request{
		DocumentID: documentID,
		Operation:  "add-filter-group",
		EntityKind: types.KindFilterGroup,
		EntityID:   group.FilterGroupID,
		Transform: func(doc *types.Document) error {
			if doc.FindFilterGroup(group.FilterGroupID) != nil {
				return fmt.Errorf("filter group %q: %w", group.FilterGroupID, types.ErrAlreadyExists)
			}
			for _, id := range group.Scope.SheetIDs {
				if doc.FindSheet(id) == nil {
					return fmt.Errorf("filter scope sheet %q: %w", id, types.ErrNotFound)
				}
			}
			doc.FilterGroups = append(doc.FilterGroups, group)
			return nil
		},
		Verify: types.ExpectExists(types.KindFilterGroup, group.FilterGroupID),
	})
}

// DeleteFilterGroup removes a filter group.
func (s *Service) DeleteFilterGroup(ctx context.Context, documentID, filterGroupID string) (*types.OperationResult, error) {
	return s.runner.Run(ctx, pipeline.Request{
		DocumentID: documentID,
		Operation:  "delete-filter-group",
		Class:      guard.ClassSingleDelete,
		EntityKind: types.KindFilterGroup,
		EntityID:   filterGroupID,
		Transform: func(doc *types.Document) error {
			if doc.FindFilterGroup(filterGroupID) == nil {
				return fmt.Errorf("filter group %q: %w", filterGroupID, types.ErrNotFound)
			}
			groups := doc.FilterGroups[:0]
			for _, g := range doc.FilterGroups {
				if g.FilterGroupID != filterGroupID {
					groups = append(groups, g)
				}
			}
			doc.FilterGroups = groups
			return nil
		},
		Verify: types.ExpectAbsent(types.KindFilterGroup, filterGroupID),
	})
}

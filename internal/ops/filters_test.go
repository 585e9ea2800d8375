package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/easel/pkg/types"
)

func condition() []types.FilterCondition {
	return []types.FilterCondition{{Column: "segment", Operator: "equals", Values: []string{"Enterprise"}}}
}

func TestAddFilterGroup(t *testing.T) {
	svc, client := newTestService(t, types.DefaultConfig())

	result, err := svc.AddFilterGroup(context.Background(), "doc-1", types.FilterGroup{
		Scope:   types.FilterScope{SheetIDs: []string{"sheet-main"}},
		Filters: condition(),
	})
	require.NoError(t, err)
	assert.True(t, result.Verified)
	assert.Contains(t, result.EntityID, "fg-")

	group := fetchDoc(t, client).FindFilterGroup(result.EntityID)
	require.NotNil(t, group)
	assert.Equal(t, []string{"sheet-main"}, group.Scope.SheetIDs)
}

func TestAddFilterGroupDuplicateID(t *testing.T) {
	svc, _ := newTestService(t, types.DefaultConfig())
	_, err := svc.AddFilterGroup(context.Background(), "doc-1", types.FilterGroup{
		FilterGroupID: "fg-everywhere",
		Scope:         types.FilterScope{AllSheets: true},
		Filters:       condition(),
	})
	assert.ErrorIs(t, err, types.ErrAlreadyExists)
}

func TestAddFilterGroupValidation(t *testing.T) {
	svc, _ := newTestService(t, types.DefaultConfig())
	ctx := context.Background()

	_, err := svc.AddFilterGroup(ctx, "doc-1", types.FilterGroup{
		Scope: types.FilterScope{AllSheets: true},
	})
	assert.Error(t, err, "no conditions")

	_, err = svc.AddFilterGroup(ctx, "doc-1", types.FilterGroup{
		Scope:   types.FilterScope{AllSheets: true, SheetIDs: []string{"sheet-main"}},
		Filters: condition(),
	})
	assert.Error(t, err, "ambiguous scope")

	_, err = svc.AddFilterGroup(ctx, "doc-1", types.FilterGroup{
		Scope:   types.FilterScope{},
		Filters: condition(),
	})
	assert.Error(t, err, "empty scope")

	_, err = svc.AddFilterGroup(ctx, "doc-1", types.FilterGroup{
		Scope:   types.FilterScope{SheetIDs: []string{"sheet-9"}},
		Filters: condition(),
	})
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = svc.AddFilterGroup(ctx, "doc-1", types.FilterGroup{
		Scope:   types.FilterScope{AllSheets: true},
		Filters: []types.FilterCondition{{Column: "", Operator: "equals"}},
	})
	assert.Error(t, err, "condition without column")
}

func TestDeleteFilterGroup(t *testing.T) {
	svc, client := newTestService(t, types.DefaultConfig())

	_, err := svc.DeleteFilterGroup(context.Background(), "doc-1", "fg-everywhere")
	require.NoError(t, err)
	assert.Nil(t, fetchDoc(t, client).FindFilterGroup("fg-everywhere"))

	_, err = svc.DeleteFilterGroup(context.Background(), "doc-1", "fg-everywhere")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

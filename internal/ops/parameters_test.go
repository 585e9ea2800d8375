package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/easel/pkg/types"
)

func TestAddParameter(t *testing.T) {
	svc, client := newTestService(t, types.DefaultConfig())

	result, err := svc.AddParameter(context.Background(), "doc-1", "year", types.ParamInteger, 2026)
	require.NoError(t, err)
	assert.True(t, result.Verified)

	param := fetchDoc(t, client).FindParameter("year")
	require.NotNil(t, param)
	assert.Equal(t, types.ParamInteger, param.Type)
}

func TestAddParameterDuplicate(t *testing.T) {
	svc, _ := newTestService(t, types.DefaultConfig())
	_, err := svc.AddParameter(context.Background(), "doc-1", "region", types.ParamString, "APAC")
	assert.ErrorIs(t, err, types.ErrAlreadyExists)
}

func TestAddParameterBadInput(t *testing.T) {
	svc, _ := newTestService(t, types.DefaultConfig())
	ctx := context.Background()

	_, err := svc.AddParameter(ctx, "doc-1", "", types.ParamString, nil)
	assert.Error(t, err)
	_, err = svc.AddParameter(ctx, "doc-1", "price", "money", nil)
	assert.Error(t, err)
}

func TestDeleteParameter(t *testing.T) {
	svc, client := newTestService(t, types.DefaultConfig())

	_, err := svc.DeleteParameter(context.Background(), "doc-1", "region")
	require.NoError(t, err)
	assert.Nil(t, fetchDoc(t, client).FindParameter("region"))

	_, err = svc.DeleteParameter(context.Background(), "doc-1", "region")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

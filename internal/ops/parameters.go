package ops

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/easel/internal/guard"
	"github.com/mesh-intelligence/easel/internal/pipeline"
	"github.com/mesh-intelligence/easel/pkg/types"
)

// AddParameter declares a typed parameter. Duplicate names are rejected.
func (s *Service) AddParameter(ctx context.Context, documentID, name, paramType string, defaultValue any) (*types.OperationResult, error) {
	if name == "" {
		return nil, fmt.Errorf("parameter name must not be empty")
	}
	if !types.IsValidParamType(paramType) {
		return nil, fmt.Errorf("unknown parameter type %q", paramType)
	}
	return s.runner.Run(ctx, pipeline.Request{
		DocumentID: documentID,
		Operation:  "add-parameter",
		EntityKind: types.KindParameter,
		EntityID:   name,
		Transform: func(doc *types.Document) error {
			if doc.FindParameter(name) != nil {
				return fmt.Errorf("parameter %q: %w", name, types.ErrAlreadyExists)
			}
			doc.Parameters = append(doc.Parameters, types.Parameter{
				Name:    name,
				Type:    paramType,
				Default: defaultValue,
			})
			return nil
		},
		Verify: types.ExpectExists(types.KindParameter, name),
	})
}

// DeleteParameter removes a parameter declaration.
func (s *Service) DeleteParameter(ctx context.Context, documentID, name string) (*types.OperationResult, error) {
	return s.runner.Run(ctx, pipeline.Request{
		DocumentID: documentID,
		Operation:  "delete-parameter",
		Class:      guard.ClassSingleDelete,
		EntityKind: types.KindParameter,
		EntityID:   name,
		Transform: func(doc *types.Document) error {
			if doc.FindParameter(name) == nil {
				return fmt.Errorf("parameter %q: %w", name, types.ErrNotFound)
			}
			params := doc.Parameters[:0]
			for _, p := range doc.Parameters {
				if p.Name != name {
					params = append(params, p)
				}
			}
			doc.Parameters = params
			return nil
		},
		Verify: types.ExpectAbsent(types.KindParameter, name),
	})
}

package ops

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/easel/internal/guard"
	"github.com/mesh-intelligence/easel/internal/pipeline"
	"github.com/mesh-intelligence/easel/pkg/types"
)

// AddCalculatedField defines a named expression. Duplicate names are
// rejected; use UpdateCalculatedField to change an existing expression.
func (s *Service) AddCalculatedField(ctx context.Context, documentID, name, dataset, expression string) (*types.OperationResult, error) {
	if name == "" {
		return nil, fmt.Errorf("calculated field name must not be empty")
	}
	if expression == "" {
		return nil, fmt.Errorf("calculated field %q: expression must not be empty", name)
	}
	return s.runner.Run(ctx, pipeline.Request{
		DocumentID: documentID,
		Operation:  "add-calculated-field",
		EntityKind: types.KindCalculatedField,
		EntityID:   name,
		Transform: func(doc *types.Document) error {
			if doc.FindCalculatedField(name) != nil {
				return fmt.Errorf("calculated field %q: %w", name, types.ErrAlreadyExists)
			}
			doc.CalculatedFields = append(doc.CalculatedFields, types.CalculatedField{
				Name:       name,
				Dataset:    dataset,
				Expression: expression,
			})
			return nil
		},
		Verify: types.ExpectExists(types.KindCalculatedField, name).WithExpression(expression),
	})
}

// UpdateCalculatedField replaces the expression of an existing field.
func (s *Service) UpdateCalculatedField(ctx context.Context, documentID, name, expression string) (*types.OperationResult, error) {
	if expression == "" {
		return nil, fmt.Errorf("calculated field %q: expression must not be empty", name)
	}
	return s.runner.Run(ctx, pipeline.Request{
		DocumentID: documentID,
		Operation:  "update-calculated-field",
		EntityKind: types.KindCalculatedField,
		EntityID:   name,
		Transform: func(doc *types.Document) error {
			field := doc.FindCalculatedField(name)
			if field == nil {
				return fmt.Errorf("calculated field %q: %w", name, types.ErrNotFound)
			}
			field.Expression = expression
			return nil
		},
		Verify: types.ExpectExists(types.KindCalculatedField, name).WithExpression(expression),
	})
}

// DeleteCalculatedField removes a field definition.
func (s *Service) DeleteCalculatedField(ctx context.Context, documentID, name string) (*types.OperationResult, error) {
	return s.runner.Run(ctx, pipeline.Request{
		DocumentID: documentID,
		Operation:  "delete-calculated-field",
		Class:      guard.ClassSingleDelete,
		EntityKind: types.KindCalculatedField,
		EntityID:   name,
		Transform: func(doc *types.Document) error {
			if doc.FindCalculatedField(name) == nil {
				return fmt.Errorf("calculated field %q: %w", name, types.ErrNotFound)
			}
			fields := doc.CalculatedFields[:0]
			for _, f := range doc.CalculatedFields {
				if f.Name != name {
					fields = append(fields, f)
				}
			}
			doc.CalculatedFields = fields
			return nil
		},
		Verify: types.ExpectAbsent(types.KindCalculatedField, name),
	})
}

// Package ops implements the concrete document operations. Each operation
// contributes a transform and a verification expectation; the pipeline
// owns fetching, screening, backup, commit, and verification.
package ops

import (
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/easel/internal/pipeline"
	"github.com/mesh-intelligence/easel/pkg/types"
)

// Service exposes the operation set over one pipeline runner.
type Service struct {
	runner *pipeline.Runner
	cfg    types.Config
}

// NewService builds the operation service.
func NewService(runner *pipeline.Runner, cfg types.Config) *Service {
	return &Service{runner: runner, cfg: cfg}
}

// Runner exposes the underlying pipeline runner.
func (s *Service) Runner() *pipeline.Runner { return s.runner }

func shortID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return strings.Split(id.String(), "-")[0]
}

// NewSheetID generates a unique sheet ID.
func NewSheetID() string { return "sheet-" + shortID() }

// NewFilterGroupID generates a unique filter group ID.
func NewFilterGroupID() string { return "fg-" + shortID() }

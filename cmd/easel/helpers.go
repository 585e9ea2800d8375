// Shared helpers for easel CLI commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/easel/internal/docclient"
	"github.com/mesh-intelligence/easel/internal/ops"
	"github.com/mesh-intelligence/easel/internal/pipeline"
	"github.com/mesh-intelligence/easel/internal/sqlite"
	"github.com/mesh-intelligence/easel/pkg/types"
)

// attachBackend creates and attaches the sqlite blob store. The caller
// must defer Detach.
func attachBackend() (*sqlite.Backend, error) {
	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}
	return backend, nil
}

// newService wires the full operation stack: HTTP document client, blob
// store, pipeline runner. The returned cleanup detaches the store.
func newService() (*ops.Service, func(), error) {
	if cfg.ServiceURL == "" {
		return nil, nil, fmt.Errorf("no document service configured: set service_url in config.yaml or pass --service-url (run `easel serve` for a local one)")
	}
	backend, err := attachBackend()
	if err != nil {
		return nil, nil, err
	}
	client := docclient.NewHTTP(cfg.ServiceURL)
	runner := pipeline.NewRunner(client, backend, cfg)
	cleanup := func() { _ = backend.Detach() }
	return ops.NewService(runner, cfg), cleanup, nil
}

// callContext bounds a remote call made directly by a command with the
// configured per-call timeout, the same budget the pipeline applies to
// its own calls.
func callContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, time.Duration(cfg.CallTimeoutSeconds)*time.Second)
}

// printJSON writes v as indented JSON.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// printResult reports one operation result, as JSON with --json or as a
// short human line otherwise.
func printResult(verb string, result *types.OperationResult) error {
	if flagJSON {
		return printJSON(result)
	}
	line := fmt.Sprintf("%s %s", verb, result.EntityID)
	if result.EntityID == "" {
		line = verb
	}
	if result.Verified {
		line += " (verified)"
	}
	fmt.Println(line)
	for _, w := range result.Warnings {
		fmt.Println("Warning:", w)
	}
	if result.BackupID != "" {
		fmt.Println("Backup:", result.BackupID)
	}
	return nil
}

// splitList parses a comma-separated flag value into trimmed parts.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Package main provides the easel CLI, a safety layer for mutating
// versioned analysis documents held by a remote document service.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/easel/pkg/types"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode classifies a failure: user errors (bad input, missing or
// duplicate entities, blocked destructive changes) exit 1; system errors
// (conflicts, indeterminate commits, failed verification, storage) exit 2.
func exitCode(err error) int {
	var (
		conflict      *types.ConflictError
		indeterminate *types.IndeterminateCommitError
		verification  *types.VerificationError
	)
	switch {
	case errors.As(err, &conflict),
		errors.As(err, &indeterminate),
		errors.As(err, &verification),
		errors.Is(err, types.ErrStoreDetached):
		return exitSysError
	default:
		return exitUserError
	}
}

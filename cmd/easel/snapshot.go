// Snapshot commands: create, diff, list.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/easel/internal/docclient"
	"github.com/mesh-intelligence/easel/internal/snapshot"
	"github.com/mesh-intelligence/easel/pkg/types"
)

var snapshotDocumentID string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture and compare document structure",
}

var snapshotCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Capture a structural snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if snapshotDocumentID == "" {
			return fmt.Errorf("--document is required")
		}
		engine, cleanup, err := newSnapshotEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := callContext(cmd.Context())
		snap, err := engine.Capture(ctx, snapshotDocumentID)
		cancel()
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(snap)
		}
		fmt.Println("Snapshot:", snap.SnapshotID)
		return nil
	},
}

var snapshotDiffCmd = &cobra.Command{
	Use:   "diff <snapshot-id>",
	Short: "Diff a snapshot against the live document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, cleanup, err := newSnapshotEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := callContext(cmd.Context())
		result, err := engine.DiffAgainstLive(ctx, args[0])
		cancel()
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(result)
		}
		printDiff(result)
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			return err
		}
		defer func() { _ = backend.Detach() }()

		infos, err := snapshot.NewEngine(nil, backend).List(snapshotDocumentID)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(infos)
		}
		if len(infos) == 0 {
			fmt.Println("No snapshots")
			return nil
		}
		for _, info := range infos {
			fmt.Printf("%s  %s  %d bytes\n", info.Key, info.CreatedAt.Format("2006-01-02 15:04:05"), info.Size)
		}
		return nil
	},
}

// newSnapshotEngine wires a snapshot engine over the HTTP client and the
// blob store. Cleanup detaches the store.
func newSnapshotEngine() (*snapshot.Engine, func(), error) {
	if cfg.ServiceURL == "" {
		return nil, nil, fmt.Errorf("no document service configured: set service_url in config.yaml or pass --service-url")
	}
	backend, err := attachBackend()
	if err != nil {
		return nil, nil, err
	}
	engine := snapshot.NewEngine(docclient.NewHTTP(cfg.ServiceURL), backend)
	return engine, func() { _ = backend.Detach() }, nil
}

func printDiff(d *types.DiffResult) {
	if !d.HasChanges() {
		fmt.Println("No changes")
		return
	}
	for _, s := range d.SheetsAdded {
		fmt.Printf("+ sheet %s (%s)\n", s.SheetID, s.Name)
	}
	for _, s := range d.SheetsRemoved {
		fmt.Printf("- sheet %s (%s)\n", s.SheetID, s.Name)
	}
	for _, v := range d.VisualsAdded {
		fmt.Printf("+ visual %s on %s (%s)\n", v.VisualID, v.SheetID, v.Title)
	}
	for _, v := range d.VisualsRemoved {
		fmt.Printf("- visual %s on %s (%s)\n", v.VisualID, v.SheetID, v.Title)
	}
	for _, c := range d.VisualChanges {
		fmt.Printf("~ visual %s %s: %q -> %q\n", c.EntityID, c.Field, c.Old, c.New)
	}
	for _, f := range d.CalcFieldsAdded {
		fmt.Printf("+ calculated field %s\n", f.Name)
	}
	for _, f := range d.CalcFieldsRemoved {
		fmt.Printf("- calculated field %s\n", f.Name)
	}
	for _, c := range d.CalcFieldChanges {
		fmt.Printf("~ calculated field %s %s: %q -> %q\n", c.EntityID, c.Field, c.Old, c.New)
	}
	for _, p := range d.ParametersAdded {
		fmt.Printf("+ parameter %s\n", p)
	}
	for _, p := range d.ParametersRemoved {
		fmt.Printf("- parameter %s\n", p)
	}
}

func init() {
	snapshotCmd.PersistentFlags().StringVar(&snapshotDocumentID, "document", "", "document ID")

	snapshotCmd.AddCommand(snapshotCreateCmd)
	snapshotCmd.AddCommand(snapshotDiffCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
}

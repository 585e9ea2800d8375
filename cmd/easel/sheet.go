// Sheet commands: add, delete, rename, replicate, prune.
package main

import (
	"github.com/spf13/cobra"
)

var (
	sheetDocumentID string
	sheetName       string
)

var sheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Manage sheets",
}

var sheetAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an empty sheet",
	Example: `  easel sheet add --document sales-2026 --name "Forecast"
  easel sheet add --document sales-2026 --name "Forecast" --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		result, err := svc.AddSheet(cmd.Context(), sheetDocumentID, sheetName)
		if err != nil {
			return err
		}
		return printResult("Added sheet", result)
	},
}

var sheetDeleteCmd = &cobra.Command{
	Use:   "delete <sheet-id>",
	Short: "Delete a sheet and its filter scopes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		result, err := svc.DeleteSheet(cmd.Context(), sheetDocumentID, args[0])
		if err != nil {
			return err
		}
		return printResult("Deleted sheet", result)
	},
}

var sheetRenameCmd = &cobra.Command{
	Use:   "rename <sheet-id>",
	Short: "Rename a sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		result, err := svc.RenameSheet(cmd.Context(), sheetDocumentID, args[0], sheetName)
		if err != nil {
			return err
		}
		return printResult("Renamed sheet", result)
	},
}

var sheetReplicateCmd = &cobra.Command{
	Use:   "replicate <sheet-id>",
	Short: "Deep-copy a sheet with fresh visual IDs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		result, err := svc.ReplicateSheet(cmd.Context(), sheetDocumentID, args[0], sheetName)
		if err != nil {
			return err
		}
		return printResult("Replicated to sheet", result)
	},
}

var sheetPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete every sheet with no visuals",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		result, err := svc.PruneEmptySheets(cmd.Context(), sheetDocumentID)
		if err != nil {
			return err
		}
		return printResult("Pruned empty sheets", result)
	},
}

func init() {
	sheetCmd.PersistentFlags().StringVar(&sheetDocumentID, "document", "", "document ID (required)")
	_ = sheetCmd.MarkPersistentFlagRequired("document")

	sheetAddCmd.Flags().StringVar(&sheetName, "name", "", "sheet name (required)")
	_ = sheetAddCmd.MarkFlagRequired("name")
	sheetRenameCmd.Flags().StringVar(&sheetName, "name", "", "new sheet name (required)")
	_ = sheetRenameCmd.MarkFlagRequired("name")
	sheetReplicateCmd.Flags().StringVar(&sheetName, "name", "", "name for the copy (default: source name + \" (copy)\")")

	sheetCmd.AddCommand(sheetAddCmd)
	sheetCmd.AddCommand(sheetDeleteCmd)
	sheetCmd.AddCommand(sheetRenameCmd)
	sheetCmd.AddCommand(sheetReplicateCmd)
	sheetCmd.AddCommand(sheetPruneCmd)
}

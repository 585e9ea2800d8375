// Parameter commands: add and delete.
package main

import (
	"github.com/spf13/cobra"
)

var (
	paramDocumentID string
	paramType       string
	paramDefault    string
)

var paramCmd = &cobra.Command{
	Use:   "param",
	Short: "Manage parameters",
}

var paramAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Declare a typed parameter",
	Args:  cobra.ExactArgs(1),
	Example: `  easel param add region --document sales-2026 --type string --default EMEA
  easel param add year --document sales-2026 --type integer`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		var def any
		if paramDefault != "" {
			def = paramDefault
		}
		result, err := svc.AddParameter(cmd.Context(), paramDocumentID, args[0], paramType, def)
		if err != nil {
			return err
		}
		return printResult("Added parameter", result)
	},
}

var paramDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a parameter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		result, err := svc.DeleteParameter(cmd.Context(), paramDocumentID, args[0])
		if err != nil {
			return err
		}
		return printResult("Deleted parameter", result)
	},
}

func init() {
	paramCmd.PersistentFlags().StringVar(&paramDocumentID, "document", "", "document ID (required)")
	_ = paramCmd.MarkPersistentFlagRequired("document")

	paramAddCmd.Flags().StringVar(&paramType, "type", "string", "parameter type (string, integer, decimal, datetime)")
	paramAddCmd.Flags().StringVar(&paramDefault, "default", "", "default value")

	paramCmd.AddCommand(paramAddCmd)
	paramCmd.AddCommand(paramDeleteCmd)
}

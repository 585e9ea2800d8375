// Calculated-field commands: add, update, delete.
package main

import (
	"github.com/spf13/cobra"
)

var (
	calcDocumentID string
	calcDataset    string
	calcExpression string
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Manage calculated fields",
}

var calcAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Define a calculated field",
	Args:  cobra.ExactArgs(1),
	Example: `  easel calc add margin --document sales-2026 --expression "{rev} - {cost}"
  easel calc add growth --document sales-2026 --dataset sales --expression "{rev} / {prev_rev} - 1"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		result, err := svc.AddCalculatedField(cmd.Context(), calcDocumentID, args[0], calcDataset, calcExpression)
		if err != nil {
			return err
		}
		return printResult("Added calculated field", result)
	},
}

var calcUpdateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Replace a calculated field's expression",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		result, err := svc.UpdateCalculatedField(cmd.Context(), calcDocumentID, args[0], calcExpression)
		if err != nil {
			return err
		}
		return printResult("Updated calculated field", result)
	},
}

var calcDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a calculated field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		result, err := svc.DeleteCalculatedField(cmd.Context(), calcDocumentID, args[0])
		if err != nil {
			return err
		}
		return printResult("Deleted calculated field", result)
	},
}

func init() {
	calcCmd.PersistentFlags().StringVar(&calcDocumentID, "document", "", "document ID (required)")
	_ = calcCmd.MarkPersistentFlagRequired("document")

	calcAddCmd.Flags().StringVar(&calcDataset, "dataset", "", "dataset identifier the field belongs to")
	calcAddCmd.Flags().StringVar(&calcExpression, "expression", "", "expression (required)")
	_ = calcAddCmd.MarkFlagRequired("expression")
	calcUpdateCmd.Flags().StringVar(&calcExpression, "expression", "", "expression (required)")
	_ = calcUpdateCmd.MarkFlagRequired("expression")

	calcCmd.AddCommand(calcAddCmd)
	calcCmd.AddCommand(calcUpdateCmd)
	calcCmd.AddCommand(calcDeleteCmd)
}

// Filter group commands: add and delete.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/easel/pkg/types"
)

var (
	filterDocumentID string
	filterAllSheets  bool
	filterSheets     string
	filterColumn     string
	filterOperator   string
	filterValues     string
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Manage filter groups",
}

var filterAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a filter group",
	Example: `  easel filter add --document sales-2026 --all-sheets \
    --filter-column region --operator equals --values EMEA
  easel filter add --document sales-2026 --sheets sheet-main,sheet-detail \
    --filter-column year --operator equals --values 2026`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		group := types.FilterGroup{
			Scope: types.FilterScope{
				AllSheets: filterAllSheets,
				SheetIDs:  splitList(filterSheets),
			},
			Filters: []types.FilterCondition{{
				Column:   filterColumn,
				Operator: filterOperator,
				Values:   splitList(filterValues),
			}},
		}
		result, err := svc.AddFilterGroup(cmd.Context(), filterDocumentID, group)
		if err != nil {
			return err
		}
		return printResult("Added filter group", result)
	},
}

var filterDeleteCmd = &cobra.Command{
	Use:   "delete <filter-group-id>",
	Short: "Delete a filter group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		result, err := svc.DeleteFilterGroup(cmd.Context(), filterDocumentID, args[0])
		if err != nil {
			return err
		}
		return printResult("Deleted filter group", result)
	},
}

func init() {
	filterCmd.PersistentFlags().StringVar(&filterDocumentID, "document", "", "document ID (required)")
	_ = filterCmd.MarkPersistentFlagRequired("document")

	filterAddCmd.Flags().BoolVar(&filterAllSheets, "all-sheets", false, "apply to every sheet")
	filterAddCmd.Flags().StringVar(&filterSheets, "sheets", "", "comma-separated sheet IDs to scope to")
	filterAddCmd.Flags().StringVar(&filterColumn, "filter-column", "", "column to filter on (required)")
	filterAddCmd.Flags().StringVar(&filterOperator, "operator", "equals", "filter operator")
	filterAddCmd.Flags().StringVar(&filterValues, "values", "", "comma-separated filter values")
	_ = filterAddCmd.MarkFlagRequired("filter-column")

	filterCmd.AddCommand(filterAddCmd)
	filterCmd.AddCommand(filterDeleteCmd)
}

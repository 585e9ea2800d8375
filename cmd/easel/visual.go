// Visual commands: chart builders plus delete, title, and layout.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/easel/pkg/types"
)

var (
	visualDocumentID string
	visualSheetID    string
	visualTitle      string
	visualSubtitle   string
	visualCategory   string
	visualValue      string
	visualAgg        string
	visualColor      string
	visualRow        string
	visualColumn     string
	visualColumns    string
	visualPayload    string

	layoutColumnIndex int
	layoutColumnSpan  int
	layoutRowIndex    int
	layoutRowSpan     int
)

var visualCmd = &cobra.Command{
	Use:   "visual",
	Short: "Manage visuals",
}

var visualKPICmd = &cobra.Command{
	Use:   "kpi",
	Short: "Create a KPI visual",
	Example: `  easel visual kpi --document sales-2026 --sheet sheet-main \
    --title "Total Revenue" --value revenue --agg sum`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		result, err := svc.AddKPI(cmd.Context(), visualDocumentID, visualSheetID, visualTitle, visualValue, visualAgg)
		if err != nil {
			return err
		}
		return printResult("Created visual", result)
	},
}

var visualBarCmd = &cobra.Command{
	Use:   "bar",
	Short: "Create a bar chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		result, err := svc.AddBarChart(cmd.Context(), visualDocumentID, visualSheetID, visualTitle, visualCategory, visualValue, visualAgg, visualColor)
		if err != nil {
			return err
		}
		return printResult("Created visual", result)
	},
}

var visualLineCmd = &cobra.Command{
	Use:   "line",
	Short: "Create a line chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		result, err := svc.AddLineChart(cmd.Context(), visualDocumentID, visualSheetID, visualTitle, visualCategory, visualValue, visualAgg, visualColor)
		if err != nil {
			return err
		}
		return printResult("Created visual", result)
	},
}

var visualPivotCmd = &cobra.Command{
	Use:   "pivot",
	Short: "Create a pivot table",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		result, err := svc.AddPivotTable(cmd.Context(), visualDocumentID, visualSheetID, visualTitle, visualRow, visualColumn, visualValue, visualAgg)
		if err != nil {
			return err
		}
		return printResult("Created visual", result)
	},
}

var visualTableCmd = &cobra.Command{
	Use:   "table",
	Short: "Create a tabular visual",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		result, err := svc.AddTable(cmd.Context(), visualDocumentID, visualSheetID, visualTitle, splitList(visualColumns))
		if err != nil {
			return err
		}
		return printResult("Created visual", result)
	},
}

var visualRawCmd = &cobra.Command{
	Use:   "raw",
	Short: "Insert a raw visual payload",
	Long: `Raw inserts an arbitrary visual definition the builders do not model.
The payload is a JSON object, given inline with --payload or read from a
file with --payload @path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := readPayload(visualPayload)
		if err != nil {
			return err
		}
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		result, err := svc.AddRawVisual(cmd.Context(), visualDocumentID, visualSheetID, visualTitle, payload)
		if err != nil {
			return err
		}
		return printResult("Created visual", result)
	},
}

var visualDeleteCmd = &cobra.Command{
	Use:   "delete <visual-id>",
	Short: "Delete a visual and its layout element",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		result, err := svc.DeleteVisual(cmd.Context(), visualDocumentID, args[0])
		if err != nil {
			return err
		}
		return printResult("Deleted visual", result)
	},
}

var visualTitleCmd = &cobra.Command{
	Use:   "title <visual-id>",
	Short: "Set a visual's title and subtitle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		result, err := svc.SetVisualTitle(cmd.Context(), visualDocumentID, args[0], visualTitle, visualSubtitle)
		if err != nil {
			return err
		}
		return printResult("Retitled visual", result)
	},
}

var visualLayoutCmd = &cobra.Command{
	Use:   "layout <visual-id>",
	Short: "Place or move a visual on the sheet grid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()
		result, err := svc.SetVisualLayout(cmd.Context(), visualDocumentID, args[0], types.LayoutElement{
			ColumnIndex: layoutColumnIndex,
			ColumnSpan:  layoutColumnSpan,
			RowIndex:    layoutRowIndex,
			RowSpan:     layoutRowSpan,
		})
		if err != nil {
			return err
		}
		return printResult("Placed visual", result)
	},
}

// readPayload returns raw inline JSON, or file contents for @path values.
func readPayload(raw string) (json.RawMessage, error) {
	if raw == "" {
		return nil, fmt.Errorf("payload must not be empty")
	}
	if raw[0] != '@' {
		return json.RawMessage(raw), nil
	}
	data, err := os.ReadFile(raw[1:])
	if err != nil {
		return nil, fmt.Errorf("read payload file: %w", err)
	}
	return json.RawMessage(data), nil
}

func init() {
	visualCmd.PersistentFlags().StringVar(&visualDocumentID, "document", "", "document ID (required)")
	_ = visualCmd.MarkPersistentFlagRequired("document")

	for _, c := range []*cobra.Command{visualKPICmd, visualBarCmd, visualLineCmd, visualPivotCmd, visualTableCmd, visualRawCmd} {
		c.Flags().StringVar(&visualSheetID, "sheet", "", "target sheet ID (required)")
		_ = c.MarkFlagRequired("sheet")
		c.Flags().StringVar(&visualTitle, "title", "", "visual title")
	}

	visualKPICmd.Flags().StringVar(&visualValue, "value", "", "value column (required)")
	visualKPICmd.Flags().StringVar(&visualAgg, "agg", "SUM", "aggregation (SUM, COUNT, AVERAGE, MIN, MAX, DISTINCT_COUNT)")
	_ = visualKPICmd.MarkFlagRequired("value")

	for _, c := range []*cobra.Command{visualBarCmd, visualLineCmd} {
		c.Flags().StringVar(&visualCategory, "category", "", "category axis column (required)")
		c.Flags().StringVar(&visualValue, "value", "", "value column (required)")
		c.Flags().StringVar(&visualAgg, "agg", "SUM", "value aggregation")
		c.Flags().StringVar(&visualColor, "color", "", "color grouping column")
		_ = c.MarkFlagRequired("category")
		_ = c.MarkFlagRequired("value")
	}

	visualPivotCmd.Flags().StringVar(&visualRow, "row", "", "row dimension column (required)")
	visualPivotCmd.Flags().StringVar(&visualColumn, "column", "", "column dimension column")
	visualPivotCmd.Flags().StringVar(&visualValue, "value", "", "value column (required)")
	visualPivotCmd.Flags().StringVar(&visualAgg, "agg", "SUM", "value aggregation")
	_ = visualPivotCmd.MarkFlagRequired("row")
	_ = visualPivotCmd.MarkFlagRequired("value")

	visualTableCmd.Flags().StringVar(&visualColumns, "columns", "", "comma-separated column list (required)")
	_ = visualTableCmd.MarkFlagRequired("columns")

	visualRawCmd.Flags().StringVar(&visualPayload, "payload", "", "JSON object, inline or @file (required)")
	_ = visualRawCmd.MarkFlagRequired("payload")

	visualTitleCmd.Flags().StringVar(&visualTitle, "title", "", "new title (required)")
	visualTitleCmd.Flags().StringVar(&visualSubtitle, "subtitle", "", "new subtitle")
	_ = visualTitleCmd.MarkFlagRequired("title")

	visualLayoutCmd.Flags().IntVar(&layoutColumnIndex, "col", 0, "column index")
	visualLayoutCmd.Flags().IntVar(&layoutColumnSpan, "col-span", 18, "column span")
	visualLayoutCmd.Flags().IntVar(&layoutRowIndex, "row", 0, "row index")
	visualLayoutCmd.Flags().IntVar(&layoutRowSpan, "row-span", 12, "row span")

	visualCmd.AddCommand(visualKPICmd)
	visualCmd.AddCommand(visualBarCmd)
	visualCmd.AddCommand(visualLineCmd)
	visualCmd.AddCommand(visualPivotCmd)
	visualCmd.AddCommand(visualTableCmd)
	visualCmd.AddCommand(visualRawCmd)
	visualCmd.AddCommand(visualDeleteCmd)
	visualCmd.AddCommand(visualTitleCmd)
	visualCmd.AddCommand(visualLayoutCmd)
}

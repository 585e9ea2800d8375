// Health command: consistency scan of a document.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/easel/internal/docclient"
	"github.com/mesh-intelligence/easel/internal/guard"
)

var healthDocumentID string

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Scan a document for structural defects",
	Long: `Health fetches the document and checks its structure: sheet count
against the configured limit, visuals without layout elements, layout
elements bound to no visual, duplicate IDs, and invalid parameter types.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.ServiceURL == "" {
			return fmt.Errorf("no document service configured: set service_url in config.yaml or pass --service-url")
		}
		client := docclient.NewHTTP(cfg.ServiceURL)
		ctx, cancel := callContext(cmd.Context())
		doc, _, err := client.Fetch(ctx, healthDocumentID)
		cancel()
		if err != nil {
			return err
		}

		report := guard.CheckHealth(healthDocumentID, doc, cfg)
		if flagJSON {
			return printJSON(report)
		}
		fmt.Printf("Document %s: %s\n", report.DocumentID, report.Counts)
		if report.Healthy {
			fmt.Println("Healthy")
			return nil
		}
		for _, issue := range report.Issues {
			fmt.Printf("  [%s] %s\n", issue.Check, issue.Detail)
		}
		return fmt.Errorf("%d issue(s) found", len(report.Issues))
	},
}

func init() {
	healthCmd.Flags().StringVar(&healthDocumentID, "document", "", "document ID (required)")
	_ = healthCmd.MarkFlagRequired("document")
}

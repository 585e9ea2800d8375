// Serve command: run the local document service.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/easel/internal/docserve"
	"github.com/mesh-intelligence/easel/pkg/types"
)

var (
	serveAddr   string
	serveSeed   string
	serveSeedID string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local document service",
	Long: `Serve starts an in-memory document service speaking the same contract
as the remote one: GET /documents/:id with the version marker in ETag, and
conditional PUT with If-Match. Point service_url at it for local work.`,
	Example: `  easel serve --addr :8234
  easel serve --addr :8234 --seed analysis.json --seed-id sales-2026`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := docserve.New()
		if serveSeed != "" {
			if serveSeedID == "" {
				return fmt.Errorf("--seed-id is required with --seed")
			}
			data, err := os.ReadFile(serveSeed)
			if err != nil {
				return fmt.Errorf("read seed file: %w", err)
			}
			var doc types.Document
			if err := json.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("decode seed document: %w", err)
			}
			if err := server.Store().Seed(serveSeedID, &doc); err != nil {
				return err
			}
			fmt.Printf("Seeded document %s from %s\n", serveSeedID, serveSeed)
		}
		return server.Run(serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8234", "listen address")
	serveCmd.Flags().StringVar(&serveSeed, "seed", "", "JSON document file to preload")
	serveCmd.Flags().StringVar(&serveSeedID, "seed-id", "", "document ID for the seed file")
}

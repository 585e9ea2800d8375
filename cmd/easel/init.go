// Init command: bootstrap the config and data directories.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration and local storage",
	Long: `Init creates the config directory with a default config.yaml and
attaches the blob store once so the data directory and schema exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Config was created by PersistentPreRunE; attach once to
		// materialize the data directory.
		backend, err := attachBackend()
		if err != nil {
			return err
		}
		defer func() { _ = backend.Detach() }()

		fmt.Println("Initialized easel storage in", cfg.DataDir)
		return nil
	},
}

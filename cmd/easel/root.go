// Root command for the easel CLI.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/easel/internal/paths"
	"github.com/mesh-intelligence/easel/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir  string
	flagDataDir    string
	flagServiceURL string
	flagJSON       bool
	flagVerbose    bool
	flagTimeout    int
)

// cfg is the effective configuration, resolved by PersistentPreRunE with
// precedence flag > config.yaml > environment > default.
var cfg types.Config

var rootCmd = &cobra.Command{
	Use:     "easel",
	Short:   "Easel mutates analysis documents safely",
	Version: version,
	Long: `Easel is a safety layer for mutating versioned analysis documents
(sheets, visuals, calculated fields, parameters, filter groups) held by a
remote document service. Every write is screened for destructive changes,
backed up, committed under an optimistic lock, and verified with a fresh
read.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()

		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return err
		}
		v, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		cfg, err = buildConfig(v)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.easel)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.easel-db)")
	rootCmd.PersistentFlags().StringVar(&flagServiceURL, "service-url", "", "document service base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().IntVar(&flagTimeout, "timeout", 0, "per-call timeout in seconds (overrides config)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(sheetCmd)
	rootCmd.AddCommand(visualCmd)
	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(paramCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(serveCmd)
}

func setupLogging() {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

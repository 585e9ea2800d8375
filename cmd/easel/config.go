// Config loading for the easel CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/easel/internal/paths"
	"github.com/mesh-intelligence/easel/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyServiceURL         = "service_url"
	cfgKeyBackend            = "backend"
	cfgKeyDataDir            = "data_dir"
	cfgKeyBackupFirst        = "backup_first"
	cfgKeyBackupFatal        = "backup_failure_fatal"
	cfgKeyVerifyWrites       = "verify_writes"
	cfgKeyOptimisticLocking  = "optimistic_locking"
	cfgKeyVisualThreshold    = "visual_loss_threshold"
	cfgKeyCalcFieldThreshold = "calc_field_loss_threshold"
	cfgKeyCallTimeout        = "call_timeout_seconds"
	cfgKeyMaxSheets          = "max_sheets"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# Easel CLI configuration

# Document service base URL (required for document commands)
# service_url: http://localhost:8234

# Blob store backend for backups and snapshots
backend: sqlite

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Safety settings
backup_first: true
backup_failure_fatal: false
verify_writes: true
optimistic_locking: true
visual_loss_threshold: 0.5
calc_field_loss_threshold: 0.5
call_timeout_seconds: 60
max_sheets: 20
`

// loadConfig reads config.yaml from the config directory, creating the
// directory and a default file on first run. A missing config.yaml is not
// an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	defaults := types.DefaultConfig()
	v.SetDefault(cfgKeyBackend, defaults.Backend)
	v.SetDefault(cfgKeyBackupFirst, defaults.BackupFirst)
	v.SetDefault(cfgKeyBackupFatal, defaults.BackupFailureFatal)
	v.SetDefault(cfgKeyVerifyWrites, defaults.VerifyWrites)
	v.SetDefault(cfgKeyOptimisticLocking, defaults.OptimisticLocking)
	v.SetDefault(cfgKeyVisualThreshold, defaults.VisualLossThreshold)
	v.SetDefault(cfgKeyCalcFieldThreshold, defaults.CalcFieldLossThreshold)
	v.SetDefault(cfgKeyCallTimeout, defaults.CallTimeoutSeconds)
	v.SetDefault(cfgKeyMaxSheets, defaults.MaxSheets)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// buildConfig assembles the effective Config from viper values and flag
// overrides, then validates it. Flags win over config.yaml.
func buildConfig(v *viper.Viper) (types.Config, error) {
	c := types.Config{
		Backend:                v.GetString(cfgKeyBackend),
		ServiceURL:             v.GetString(cfgKeyServiceURL),
		BackupFirst:            v.GetBool(cfgKeyBackupFirst),
		BackupFailureFatal:     v.GetBool(cfgKeyBackupFatal),
		VerifyWrites:           v.GetBool(cfgKeyVerifyWrites),
		OptimisticLocking:      v.GetBool(cfgKeyOptimisticLocking),
		VisualLossThreshold:    v.GetFloat64(cfgKeyVisualThreshold),
		CalcFieldLossThreshold: v.GetFloat64(cfgKeyCalcFieldThreshold),
		CallTimeoutSeconds:     v.GetInt(cfgKeyCallTimeout),
		MaxSheets:              v.GetInt(cfgKeyMaxSheets),
	}

	if flagServiceURL != "" {
		c.ServiceURL = flagServiceURL
	}
	if flagTimeout > 0 {
		c.CallTimeoutSeconds = flagTimeout
	}

	dataDir, err := paths.ResolveDataDir(flagDataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	c.DataDir = dataDir

	if err := c.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

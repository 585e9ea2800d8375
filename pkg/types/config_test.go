package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.BackupFirst)
	assert.True(t, cfg.VerifyWrites)
	assert.True(t, cfg.OptimisticLocking)
	assert.False(t, cfg.BackupFailureFatal)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty backend", func(c *Config) { c.Backend = "" }, ErrBackendEmpty},
		{"unknown backend", func(c *Config) { c.Backend = "papyrus" }, ErrBackendUnknown},
		{"zero visual threshold", func(c *Config) { c.VisualLossThreshold = 0 }, ErrThresholdInvalid},
		{"visual threshold over one", func(c *Config) { c.VisualLossThreshold = 1.5 }, ErrThresholdInvalid},
		{"negative calc threshold", func(c *Config) { c.CalcFieldLossThreshold = -0.1 }, ErrThresholdInvalid},
		{"zero timeout", func(c *Config) { c.CallTimeoutSeconds = 0 }, ErrTimeoutInvalid},
		{"zero max sheets", func(c *Config) { c.MaxSheets = 0 }, ErrMaxSheetsInvalid},
		{"threshold of exactly one ok", func(c *Config) { c.VisualLossThreshold = 1 }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

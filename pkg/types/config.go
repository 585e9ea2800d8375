package types

import "errors"

// Supported blob store backends.
const (
	BackendSQLite = "sqlite"
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Config validation errors.
var (
	ErrBackendEmpty     = errors.New("backend must not be empty")
	ErrBackendUnknown   = errors.New("unknown backend")
	ErrThresholdInvalid = errors.New("loss threshold must be in (0, 1]")
	ErrTimeoutInvalid   = errors.New("call timeout must be positive")
	ErrMaxSheetsInvalid = errors.New("max sheets must be positive")
)

// Default safety settings.
const (
	DefaultVisualLossThreshold    = 0.5
	DefaultCalcFieldLossThreshold = 0.5
	DefaultCallTimeoutSeconds     = 60
	DefaultMaxSheets              = 20
)

// Config holds backend selection, directories, and the safety knobs shared
// by the pipeline, detector, and stores.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// ServiceURL is the base URL of the remote document service.
	ServiceURL string `json:"service_url" yaml:"service_url"`

	// BackupFirst writes a backup of the pre-transform document before
	// every mutating pipeline run.
	BackupFirst bool `json:"backup_first" yaml:"backup_first"`

	// BackupFailureFatal aborts the operation when the backup write
	// fails; off, the failure degrades to a warning on the result.
	BackupFailureFatal bool `json:"backup_failure_fatal" yaml:"backup_failure_fatal"`

	// VerifyWrites re-fetches after every commit and checks the
	// operation's expectation.
	VerifyWrites bool `json:"verify_writes" yaml:"verify_writes"`

	// OptimisticLocking presents the captured version marker at commit;
	// a stale marker fails the operation with ConflictError.
	OptimisticLocking bool `json:"optimistic_locking" yaml:"optimistic_locking"`

	// VisualLossThreshold and CalcFieldLossThreshold are the fractions of
	// entities one bulk write may remove before the detector blocks it.
	VisualLossThreshold    float64 `json:"visual_loss_threshold" yaml:"visual_loss_threshold"`
	CalcFieldLossThreshold float64 `json:"calc_field_loss_threshold" yaml:"calc_field_loss_threshold"`

	// CallTimeoutSeconds bounds every remote call (fetch, commit,
	// verify-fetch).
	CallTimeoutSeconds int `json:"call_timeout_seconds" yaml:"call_timeout_seconds"`

	// MaxSheets is the service-imposed sheet limit enforced before adding
	// or replicating sheets.
	MaxSheets int `json:"max_sheets" yaml:"max_sheets"`
}

// DefaultConfig returns a Config with every safety default switched on.
func DefaultConfig() Config {
	return Config{
		Backend:                BackendSQLite,
		BackupFirst:            true,
		VerifyWrites:           true,
		OptimisticLocking:      true,
		VisualLossThreshold:    DefaultVisualLossThreshold,
		CalcFieldLossThreshold: DefaultCalcFieldLossThreshold,
		CallTimeoutSeconds:     DefaultCallTimeoutSeconds,
		MaxSheets:              DefaultMaxSheets,
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.VisualLossThreshold <= 0 || c.VisualLossThreshold > 1 {
		return ErrThresholdInvalid
	}
	if c.CalcFieldLossThreshold <= 0 || c.CalcFieldLossThreshold > 1 {
		return ErrThresholdInvalid
	}
	if c.CallTimeoutSeconds <= 0 {
		return ErrTimeoutInvalid
	}
	if c.MaxSheets <= 0 {
		return ErrMaxSheetsInvalid
	}
	return nil
}

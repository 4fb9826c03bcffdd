package config

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTSConfig indicates a missing project tsconfig path.
	ErrEmptyTSConfig = errors.New("empty project tsconfig path")

	// ErrEmptySnapshotDir indicates a missing snapshot directory.
	ErrEmptySnapshotDir = errors.New("empty snapshot directory")

	// ErrInvalidFormat indicates an unsupported report format.
	ErrInvalidFormat = errors.New("invalid report format")

	// ErrInvalidFailOn indicates an unsupported exit policy.
	ErrInvalidFailOn = errors.New("invalid fail_on policy")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Project.TSConfig == "" {
		errs = append(errs, ErrEmptyTSConfig)
	}
	if cfg.Snapshots.Dir == "" {
		errs = append(errs, ErrEmptySnapshotDir)
	}

	switch cfg.Report.Format {
	case "json", "text", "markdown":
	default:
		errs = append(errs, fmt.Errorf("%w: must be 'json', 'text', or 'markdown', got %q", ErrInvalidFormat, cfg.Report.Format))
	}

	switch cfg.Report.FailOn {
	case "fail-on-any", "fail-on-breaking":
	default:
		errs = append(errs, fmt.Errorf("%w: must be 'fail-on-any' or 'fail-on-breaking', got %q", ErrInvalidFailOn, cfg.Report.FailOn))
	}

	return errors.Join(errs...)
}

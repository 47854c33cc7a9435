package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/funwith/internal/report"
)

// ErrInvalidConfig marks failures caused by the user's input rather than by
// the provisioning itself.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProjectPath string   // hcl file or directory
	PillarFiles []string // yaml or toml, later files win
	Only        []string // project names; empty means all

	DryRun    bool
	Output    report.Format
	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProjectPath == "" {
		return nil, fmt.Errorf("%w: ProjectPath is a required configuration field and cannot be empty", ErrInvalidConfig)
	}
	if cfg.Output == "" {
		cfg.Output = report.Text
	}
	if _, err := report.ParseFormat(string(cfg.Output)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, cfg.LogFormat)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return &cfg, nil
}

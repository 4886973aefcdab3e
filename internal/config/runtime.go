package config

import (
	"errors"
	"time"
)

// Runtime holds the settings bound from flags, IFRC_* variables and the optional config file.
type Runtime struct {
	Verbosity int  `mapstructure:"verbose"`
	JSONLogs  bool `mapstructure:"json-logs"`

	ProjectConfig      string        `mapstructure:"project-config"`
	BaseDir            string        `mapstructure:"base-dir"`
	OutputDir          string        `mapstructure:"output-dir"`
	StateDB            string        `mapstructure:"state-db"`
	DefaultLastRunDate string        `mapstructure:"default-last-run-date"`
	UserAgent          string        `mapstructure:"user-agent"`
	RequestsPerSecond  float64       `mapstructure:"requests-per-second"`
	Timeout            time.Duration `mapstructure:"timeout"`
	Retries            int           `mapstructure:"retries"`
	Workers            int           `mapstructure:"workers"`
	Upload             bool          `mapstructure:"upload"`
}

var (
	ErrMissingProjectConfig = errors.New("project-config is required")
	ErrMissingOutputDir     = errors.New("output-dir is required")
	ErrMissingStateDB       = errors.New("state-db is required")
)

// Validate checks the settings a run cannot default.
func (r Runtime) Validate() error {
	switch {
	case r.ProjectConfig == "":
		return ErrMissingProjectConfig
	case r.OutputDir == "":
		return ErrMissingOutputDir
	case r.StateDB == "":
		return ErrMissingStateDB
	}
	return nil
}

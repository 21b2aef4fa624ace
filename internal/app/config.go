package app

import "errors"

// Config holds everything an App instance needs for one resolve run.
type Config struct {
	BakePath  string            // a .hcl file or a directory of them
	Requested []string          // target/group names; empty means the default group
	Overrides map[string]string // explicit variable overrides, strongest precedence
	Build     bool              // invoke the docker backend instead of printing the plan

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.BakePath == "" {
		return nil, errors.New("BakePath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}

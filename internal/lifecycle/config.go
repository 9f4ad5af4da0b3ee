package lifecycle

import (
	"fmt"
	"strconv"
)

// Config is the argument record consumed by a run: how many workers to
// spawn and the target address a test reaches through its prestate.
type Config struct {
	Workers int
	Addr    string
}

// ConfigError reports an invalid configuration value. Configuration
// errors are fatal to the run and surface before any worker exists.
type ConfigError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the record. It must pass before a run starts.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return &ConfigError{Field: "workers", Reason: "must be at least 1"}
	}
	if c.Addr == "" {
		return &ConfigError{Field: "addr", Reason: "must not be empty"}
	}
	return nil
}

// ParseArgs populates a Config from a positional argument list of the
// form "<workers> <addr>", the traditional invocation of a
// multithreaded test binary.
func ParseArgs(args []string) (Config, error) {
	if len(args) != 2 {
		return Config{}, &ConfigError{Field: "arguments", Reason: "expected <workers> <addr>"}
	}
	workers, err := strconv.Atoi(args[0])
	if err != nil {
		return Config{}, &ConfigError{Field: "workers", Reason: "not an integer: " + args[0]}
	}
	cfg := Config{Workers: workers, Addr: args[1]}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

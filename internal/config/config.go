/*
Package config provides runtime configuration for the tplfmt application.
It covers how a batch runs (workers, rate limit, report format, verbosity);
the formatting settings themselves live in pkg/settings and follow their own
precedence chain.

Environment Variables:

	TPLFMT_WORKERS     Number of concurrent workers
	TPLFMT_RATE_LIMIT  Maximum files formatted per second (0 for unlimited)
	TPLFMT_OUTPUT      Report format: text|json|yaml
	TPLFMT_NO_COLOR    Disable colored output
	TPLFMT_VERBOSE     Verbosity level
*/
package config

import (
	"fmt"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds runtime parameters for one invocation.
type Config struct {
	// Workers is the worker pool size for the batch executor.
	Workers int

	// RateLimit caps formatted files per second (0 for unlimited).
	RateLimit int

	// Output is the report format (text, json, or yaml).
	Output string

	// NoColor disables colored status lines.
	NoColor bool

	// Verbose sets the logging verbosity level.
	Verbose int
}

// Load reads configuration from environment variables, applies defaults and
// validates the result.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("rate_limit", 0)
	v.SetDefault("output", string(defaultOutputFormat))
	v.SetDefault("no_color", false)
	v.SetDefault("verbose", 0)

	v.SetEnvPrefix("TPLFMT")
	v.AutomaticEnv()

	v.BindEnv("workers")
	v.BindEnv("rate_limit")
	v.BindEnv("output")
	v.BindEnv("no_color")
	v.BindEnv("verbose")

	cfg := Config{
		Workers:   v.GetInt("workers"),
		RateLimit: v.GetInt("rate_limit"),
		Output:    v.GetString("output"),
		NoColor:   v.GetBool("no_color"),
		Verbose:   v.GetInt("verbose"),
	}

	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers count must be positive")
	}
	if c.Workers > runtime.NumCPU()*MaxWorkerMultiplier {
		return fmt.Errorf("workers count cannot exceed system CPU count * %d", MaxWorkerMultiplier)
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}

	if !validOutputFormats[c.Output] {
		return fmt.Errorf("invalid report format: must be one of [text json yaml]")
	}

	return nil
}

// String returns a string representation of the configuration.
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Workers: %d, RateLimit: %d, Output: %s, NoColor: %v, Verbose: %d}",
		c.Workers, c.RateLimit, c.Output, c.NoColor, c.Verbose,
	)
}

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	RuntimeNative = "native"
	RuntimeLocal  = "local"
)

// HostConfig contains configuration for the sandbox host process.
type HostConfig struct {
	// Runtime selects the communication fabric: the MPI library or the
	// in-process fabric (single rank).
	Runtime  string         `mapstructure:"runtime"`
	CacheDir string         `mapstructure:"cache_dir"`
	Callback CallbackConfig `mapstructure:"callback"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// CallbackConfig controls delivery of state reports to the controller.
type CallbackConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	MinBackoff  time.Duration `mapstructure:"min_backoff"`
	MaxBackoff  time.Duration `mapstructure:"max_backoff"`
}

// LoadHost loads the host configuration from the given path.
// If configPath is empty, it looks for host.yaml in the config/ directory.
// Environment variables with WASIMPI_HOST_ prefix override config file values.
func LoadHost(configPath string) (*HostConfig, error) {
	v := viper.New()

	v.SetDefault("runtime", RuntimeNative)
	v.SetDefault("cache_dir", "")
	v.SetDefault("callback.timeout", 5*time.Second)
	v.SetDefault("callback.max_attempts", 5)
	v.SetDefault("callback.min_backoff", 100*time.Millisecond)
	v.SetDefault("callback.max_backoff", 5*time.Second)
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")

	var cfg HostConfig
	if err := load(v, "host", configPath, "WASIMPI_HOST", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *HostConfig) Validate() error {
	switch c.Runtime {
	case RuntimeNative, RuntimeLocal:
	default:
		return fmt.Errorf("unknown runtime %q", c.Runtime)
	}
	if err := c.Callback.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}

func (c CallbackConfig) Validate() error {
	if c.Timeout <= 0 {
		return errors.New("callback.timeout must be positive")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("callback.max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.MinBackoff <= 0 || c.MaxBackoff < c.MinBackoff {
		return fmt.Errorf("callback backoff range %s..%s is invalid", c.MinBackoff, c.MaxBackoff)
	}
	return nil
}

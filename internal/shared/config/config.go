package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/nemanja-m/wasimpi/internal/shared/logging"
)

// LoggingConfig contains logging-related configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func (c LoggingConfig) Validate() error {
	if _, err := logging.ParseLevel(c.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Format) {
	case logging.FormatJSON, logging.FormatText:
		return nil
	}
	return fmt.Errorf("unknown log format %q", c.Format)
}

// NewLogger builds the logger described by c. Validate first.
func (c LoggingConfig) NewLogger() *logging.SlogLogger {
	return c.NewLoggerWithWriter(os.Stdout)
}

func (c LoggingConfig) NewLoggerWithWriter(w io.Writer) *logging.SlogLogger {
	level, err := logging.ParseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	return logging.NewWithWriter(w, level, c.Format)
}

// load reads configPath, or <name>.yaml from ./config or the working
// directory when configPath is empty, then applies <envPrefix>_* overrides.
// A missing default file is not an error.
func load(v *viper.Viper, name, configPath, envPrefix string, out any) error {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(name)
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}
	return nil
}

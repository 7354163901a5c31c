package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/nemanja-m/wasimpi/internal/controller/core"
	"github.com/nemanja-m/wasimpi/internal/controller/storage"
	"github.com/nemanja-m/wasimpi/internal/shared/config"
	"github.com/nemanja-m/wasimpi/internal/shared/logging"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to controller config file")
	pflag.Parse()

	app := fx.New(appOptions(func() (*config.ControllerConfig, error) {
		return loadConfig(*configPath)
	}))

	if err := app.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "controller: %v\n", err)
		os.Exit(1)
	}
	app.Run()
}

// appOptions wires the controller around the config returned by load.
func appOptions(load func() (*config.ControllerConfig, error)) fx.Option {
	return fx.Options(
		fx.Provide(
			load,
			newLogger,
			func(l *logging.SlogLogger) logging.Logger { return l },
			fx.Annotate(storage.NewInMemoryJobStore, fx.As(new(core.JobStore))),
			core.NewJobQueue,
			newBackend,
			newJobService,
			newSpawner,
			newRESTServer,
			newGRPCServer,
		),
		fx.Invoke(
			registerSpawner,
			registerRESTServer,
			registerGRPCServer,
		),
		fx.WithLogger(func(l *logging.SlogLogger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: l.Slog()}
		}),
	)
}

func loadConfig(path string) (*config.ControllerConfig, error) {
	cfg, err := config.LoadController(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.ControllerConfig) *logging.SlogLogger {
	return cfg.Logging.NewLogger()
}

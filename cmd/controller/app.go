package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	"go.uber.org/fx"

	"github.com/nemanja-m/wasimpi/internal/controller/api/grpc"
	"github.com/nemanja-m/wasimpi/internal/controller/api/rest"
	"github.com/nemanja-m/wasimpi/internal/controller/core"
	"github.com/nemanja-m/wasimpi/internal/controller/launcher"
	"github.com/nemanja-m/wasimpi/internal/controller/service"
	"github.com/nemanja-m/wasimpi/internal/mpi/native"
	"github.com/nemanja-m/wasimpi/internal/shared/config"
	"github.com/nemanja-m/wasimpi/internal/shared/logging"
)

// backend pairs the process launcher with the slot count it can serve.
type backend struct {
	launcher core.ProcessLauncher
	universe int
}

func newBackend(lc fx.Lifecycle, cfg *config.ControllerConfig, logger logging.Logger) (*backend, error) {
	b := &backend{universe: cfg.Cluster.UniverseSize}

	switch cfg.Launcher.Type {
	case config.LauncherMPI:
		spawner, err := native.NewSpawner()
		if err != nil {
			return nil, fmt.Errorf("mpi launcher: %w", err)
		}
		lc.Append(fx.StopHook(func() {
			if code := spawner.Finalize(); code != 0 {
				logger.Warn("MPI finalize failed", "code", code)
			}
		}))
		if b.universe == 0 {
			if n, ok := spawner.UniverseSize(); ok {
				b.universe = n
			}
		}
		b.launcher = launcher.NewMPILauncher(spawner)
	case config.LauncherExec:
		b.launcher = launcher.NewExecLauncher(
			launcher.WithPrefix(cfg.Launcher.ExecPrefix...),
			launcher.WithLogger(logger),
		)
	}

	if b.universe == 0 {
		return nil, fmt.Errorf("universe size unknown: set cluster.universe_size or %s", config.UniverseSizeEnv)
	}
	logger.Info("Launcher ready", "type", cfg.Launcher.Type, "universe_size", b.universe)
	return b, nil
}

func newJobService(
	cfg *config.ControllerConfig,
	b *backend,
	store core.JobStore,
	queue core.JobQueue,
	logger logging.Logger,
) (core.JobService, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve hostname: %w", err)
	}
	base, err := cfg.REST.CallbackBase(hostname)
	if err != nil {
		return nil, err
	}
	return service.NewJobService(store, queue, service.JobServiceConfig{
		UniverseSize:    b.universe,
		CallbackBase:    base,
		ModuleAllowlist: cfg.Cluster.ModuleAllowlist,
	}, logger)
}

func newSpawner(cfg *config.ControllerConfig, b *backend, queue core.JobQueue, logger logging.Logger) *service.Spawner {
	return service.NewSpawner(queue, b.launcher, cfg.Launcher.HostExecutable, logger)
}

func newRESTServer(cfg *config.ControllerConfig, jobService core.JobService, logger logging.Logger) *http.Server {
	return rest.NewServer(rest.ServerConfig{
		Addr:         cfg.REST.Addr,
		ReadTimeout:  cfg.REST.ReadTimeout,
		WriteTimeout: cfg.REST.WriteTimeout,
		IdleTimeout:  cfg.REST.IdleTimeout,
	}, jobService, logger)
}

func newGRPCServer(cfg *config.ControllerConfig, jobService core.JobService, logger logging.Logger) *grpc.Server {
	if !cfg.GRPC.Enabled {
		return nil
	}
	return grpc.NewServer(cfg.GRPC, jobService, logger)
}

func registerSpawner(lc fx.Lifecycle, spawner *service.Spawner, queue core.JobQueue) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				spawner.Start(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			queue.Close()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

func registerRESTServer(lc fx.Lifecycle, server *http.Server, logger logging.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			lis, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", server.Addr, err)
			}
			logger.Info("Starting REST API server", "addr", lis.Addr().String())
			go func() {
				if err := server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("REST server error", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down REST API server")
			return server.Shutdown(ctx)
		},
	})
}

func registerGRPCServer(lc fx.Lifecycle, server *grpc.Server, cfg *config.ControllerConfig, logger logging.Logger) {
	if server == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			lis, err := net.Listen("tcp", cfg.GRPC.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", cfg.GRPC.Addr, err)
			}
			logger.Info("Starting gRPC server", "addr", lis.Addr().String())
			go func() {
				if err := server.Serve(lis); err != nil {
					logger.Error("gRPC server error", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			logger.Info("Shutting down gRPC server")
			server.Stop()
			return nil
		},
	})
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/nemanja-m/wasimpi/internal/bridge"
	"github.com/nemanja-m/wasimpi/internal/host"
	"github.com/nemanja-m/wasimpi/internal/mpi"
	"github.com/nemanja-m/wasimpi/internal/mpi/local"
	"github.com/nemanja-m/wasimpi/internal/mpi/native"
	"github.com/nemanja-m/wasimpi/internal/shared/config"
)

type flags struct {
	callback   string
	dirs       []string
	timings    bool
	configPath string
	runtime    string
	cacheDir   string
	module     string
	args       []string
}

func parseFlags(args []string, stderr io.Writer) (*flags, error) {
	f := &flags{}
	fs := pflag.NewFlagSet("mpihost", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	// Everything after the module path belongs to the module.
	fs.SetInterspersed(false)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: mpihost [flags] <module.wasm> [args...]")
		fs.PrintDefaults()
	}

	fs.StringVar(&f.callback, "callback", "", "controller URL to report job state to")
	fs.StringArrayVar(&f.dirs, "dir", nil, "host directory to expose to the module (repeatable)")
	fs.BoolVar(&f.timings, "timings", false, "print compile and run durations")
	fs.StringVarP(&f.configPath, "config", "c", "", "path to host config file")
	fs.StringVar(&f.runtime, "runtime", "", "communication runtime: native or local")
	fs.StringVar(&f.cacheDir, "cache-dir", "", "directory for the compilation cache")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return nil, errors.New("module path is required")
	}
	f.module = fs.Arg(0)
	f.args = fs.Args()[1:]
	return f, nil
}

// hostConfig loads the config file and layers command line overrides on top.
func hostConfig(f *flags) (*config.HostConfig, error) {
	cfg, err := config.LoadHost(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.runtime != "" {
		cfg.Runtime = f.runtime
	}
	if f.cacheDir != "" {
		cfg.CacheDir = f.cacheDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newRuntime(kind string) (mpi.Runtime, error) {
	if kind == config.RuntimeLocal {
		return local.NewFabric(1).Rank(0), nil
	}
	rt, err := native.NewRuntime()
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "mpihost: %v\n", err)
		return 2
	}

	cfg, err := hostConfig(f)
	if err != nil {
		fmt.Fprintf(stderr, "mpihost: %v\n", err)
		return 1
	}
	logger := cfg.Logging.NewLoggerWithWriter(stderr)

	rt, err := newRuntime(cfg.Runtime)
	if err != nil {
		logger.Error("Failed to create communication runtime", "runtime", cfg.Runtime, "error", err)
		return 1
	}

	opts := []host.RunnerOption{host.WithLogger(logger)}
	if f.callback != "" {
		opts = append(opts, host.WithReporter(host.NewCallbackClient(f.callback, cfg.Callback, logger)))
	}
	runner := host.NewRunner(bridge.New(rt, bridge.WithLogger(logger)), opts...)

	code, err := runner.Run(ctx, host.Options{
		ModulePath: f.module,
		Args:       f.args,
		Dirs:       f.dirs,
		CacheDir:   cfg.CacheDir,
		Timings:    f.timings,
		Stdin:      os.Stdin,
		Stdout:     stdout,
		Stderr:     stderr,
	})
	if err != nil {
		logger.Error("Run failed", "module", f.module, "error", err)
	}
	return code
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// Package host runs a sandboxed compute module against the communication
// bridge and reports its lifecycle to the controller.
package host

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"github.com/zeebo/blake3"

	"github.com/nemanja-m/wasimpi/internal/bridge"
	"github.com/nemanja-m/wasimpi/internal/controller/core"
	"github.com/nemanja-m/wasimpi/internal/shared/logging"
)

// Options describe one module run.
type Options struct {
	ModulePath string
	Args       []string
	// Dirs are host directories exposed to the module at the same path.
	Dirs []string
	// CacheDir holds compiled modules across runs. Empty disables caching.
	CacheDir string
	// Timings prints compile and run durations to Stdout.
	Timings bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Runner executes modules. A Runner is used for a single run because the
// bridge's handle tables belong to one module instance.
type Runner struct {
	bridge   *bridge.Bridge
	reporter StateReporter
	logger   logging.Logger
}

type RunnerOption func(*Runner)

// WithReporter sends RUNNING and COMPLETED reports through r.
func WithReporter(r StateReporter) RunnerOption {
	return func(rn *Runner) {
		rn.reporter = r
	}
}

func WithLogger(logger logging.Logger) RunnerOption {
	return func(rn *Runner) {
		rn.logger = logger
	}
}

func NewRunner(b *bridge.Bridge, opts ...RunnerOption) *Runner {
	r := &Runner{
		bridge:   b,
		reporter: nopReporter{},
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Digest identifies module bytes in logs.
func Digest(wasm []byte) string {
	sum := blake3.Sum256(wasm)
	return hex.EncodeToString(sum[:])
}

// Run executes the module's _start and returns its exit code. A bridge
// fatal error aborts the whole process group with code 1.
func (r *Runner) Run(ctx context.Context, opts Options) (int, error) {
	wasm, err := os.ReadFile(opts.ModulePath)
	if err != nil {
		return 1, fmt.Errorf("read module: %w", err)
	}
	digest := Digest(wasm)[:16]

	rtConfig := wazero.NewRuntimeConfig()
	if opts.CacheDir != "" {
		cache, err := wazero.NewCompilationCacheWithDir(opts.CacheDir)
		if err != nil {
			return 1, fmt.Errorf("open compilation cache: %w", err)
		}
		defer cache.Close(ctx)
		rtConfig = rtConfig.WithCompilationCache(cache)
	}

	rt := wazero.NewRuntimeWithConfig(ctx, rtConfig)
	defer rt.Close(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		return 1, fmt.Errorf("instantiate wasi: %w", err)
	}
	if _, err := r.bridge.Instantiate(ctx, rt); err != nil {
		return 1, err
	}

	compileStart := time.Now()
	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		return 1, fmt.Errorf("compile module: %w", err)
	}
	compileTime := time.Since(compileStart)
	if opts.Timings {
		fmt.Fprintf(stdout(opts), "Compile took %dms\n", compileTime.Milliseconds())
	}
	r.logger.Debug("Module compiled", "digest", digest, "duration_ms", compileTime.Milliseconds())

	mod, err := rt.InstantiateModule(ctx, compiled, r.moduleConfig(opts))
	if err != nil {
		return 1, fmt.Errorf("instantiate module: %w", err)
	}
	start := mod.ExportedFunction("_start")
	if start == nil {
		return 1, errors.New("module does not export _start")
	}

	if err := r.reporter.Report(ctx, core.JobStateRunning); err != nil {
		return 1, err
	}

	runStart := time.Now()
	_, err = start.Call(ctx)
	runTime := time.Since(runStart)
	if opts.Timings {
		fmt.Fprintf(stdout(opts), "Run took %dms\n", runTime.Milliseconds())
	}

	code, err := r.exitCode(err)
	if err != nil {
		// Only a normal exit is reported; the controller keeps a failed
		// job's slots until someone reports a terminal state.
		r.logger.Error("Module terminated abnormally",
			"module", opts.ModulePath,
			"digest", digest,
			"exit_code", code,
			"duration_ms", runTime.Milliseconds(),
			"error", err,
		)
		return code, err
	}
	if code != 0 {
		r.logger.Warn("Module exited with non-zero status", "module", opts.ModulePath, "exit_code", code)
		return code, nil
	}

	r.logger.Info("Module completed", "module", opts.ModulePath, "digest", digest, "duration_ms", runTime.Milliseconds())
	if err := r.reporter.Report(ctx, core.JobStateCompleted); err != nil {
		return 1, err
	}
	return 0, nil
}

func (r *Runner) moduleConfig(opts Options) wazero.ModuleConfig {
	fsConfig := wazero.NewFSConfig()
	for _, dir := range opts.Dirs {
		fsConfig = fsConfig.WithDirMount(dir, dir)
	}

	cfg := wazero.NewModuleConfig().
		WithName("").
		WithArgs(append([]string{opts.ModulePath}, opts.Args...)...).
		WithFSConfig(fsConfig).
		WithSysWalltime().
		WithSysNanotime().
		WithSysNanosleep().
		WithRandSource(rand.Reader).
		WithStartFunctions()
	if opts.Stdin != nil {
		cfg = cfg.WithStdin(opts.Stdin)
	}
	return cfg.WithStdout(stdout(opts)).WithStderr(stderr(opts))
}

// exitCode classifies the error returned by _start.
func (r *Runner) exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	var exit *sys.ExitError
	if errors.As(err, &exit) {
		return int(exit.ExitCode()), nil
	}

	if fatal, ok := bridge.AsFatal(err); ok {
		rt := r.bridge.Runtime()
		rt.Abort(rt.CommWorld(), 1)
		return 1, fatal
	}
	return 1, fmt.Errorf("module trapped: %w", err)
}

func stdout(opts Options) io.Writer {
	if opts.Stdout != nil {
		return opts.Stdout
	}
	return os.Stdout
}

func stderr(opts Options) io.Writer {
	if opts.Stderr != nil {
		return opts.Stderr
	}
	return os.Stderr
}

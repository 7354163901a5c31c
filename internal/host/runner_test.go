package host

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nemanja-m/wasimpi/internal/bridge"
	"github.com/nemanja-m/wasimpi/internal/controller/core"
	"github.com/nemanja-m/wasimpi/internal/mpi/local"
)

// startCommSizeModule assembles a module whose _start calls
// MPI_Comm_size(comm, 16) and discards the result.
func startCommSizeModule(comm byte) []byte {
	return []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		// types: (i32, i32) -> i32, () -> ()
		0x01, 0x0a, 0x02,
		0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,
		0x60, 0x00, 0x00,
		// import env.MPI_Comm_size
		0x02, 0x15, 0x01,
		0x03, 'e', 'n', 'v',
		0x0d, 'M', 'P', 'I', '_', 'C', 'o', 'm', 'm', '_', 's', 'i', 'z', 'e',
		0x00, 0x00,
		0x03, 0x02, 0x01, 0x01,
		0x05, 0x03, 0x01, 0x00, 0x01,
		0x07, 0x13, 0x02,
		0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
		0x06, '_', 's', 't', 'a', 'r', 't', 0x00, 0x01,
		// i32.const comm; i32.const 16; call 0; drop; end
		0x0a, 0x0b, 0x01,
		0x09, 0x00, 0x41, comm, 0x41, 0x10, 0x10, 0x00, 0x1a, 0x0b,
	}
}

// procExitModule assembles a module whose _start calls proc_exit(code).
func procExitModule(code byte) []byte {
	return []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		// types: (i32) -> (), () -> ()
		0x01, 0x08, 0x02,
		0x60, 0x01, 0x7f, 0x00,
		0x60, 0x00, 0x00,
		// import wasi_snapshot_preview1.proc_exit
		0x02, 0x24, 0x01,
		0x16, 'w', 'a', 's', 'i', '_', 's', 'n', 'a', 'p', 's', 'h', 'o', 't', '_', 'p', 'r', 'e', 'v', 'i', 'e', 'w', '1',
		0x09, 'p', 'r', 'o', 'c', '_', 'e', 'x', 'i', 't',
		0x00, 0x00,
		0x03, 0x02, 0x01, 0x01,
		0x05, 0x03, 0x01, 0x00, 0x01,
		0x07, 0x13, 0x02,
		0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
		0x06, '_', 's', 't', 'a', 'r', 't', 0x00, 0x01,
		// i32.const code; call 0; end
		0x0a, 0x08, 0x01,
		0x06, 0x00, 0x41, code, 0x10, 0x00, 0x0b,
	}
}

type recordingReporter struct {
	mu     sync.Mutex
	states []core.JobState
	err    error
}

func (r *recordingReporter) Report(ctx context.Context, state core.JobState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
	return r.err
}

func writeModule(t *testing.T, wasm []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "module.wasm")
	require.NoError(t, os.WriteFile(path, wasm, 0o600))
	return path
}

func newRunner(fabric *local.Fabric, reporter StateReporter) *Runner {
	return NewRunner(bridge.New(fabric.Rank(0)), WithReporter(reporter))
}

func TestRunner_ReportsRunningThenCompleted(t *testing.T) {
	reporter := &recordingReporter{}
	runner := newRunner(local.NewFabric(1), reporter)

	code, err := runner.Run(context.Background(), Options{
		ModulePath: writeModule(t, startCommSizeModule(byte(bridge.CommWorld))),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, []core.JobState{core.JobStateRunning, core.JobStateCompleted}, reporter.states)
}

func TestRunner_ProcExit(t *testing.T) {
	tests := []struct {
		name   string
		code   byte
		states []core.JobState
	}{
		{"zero counts as completion", 0, []core.JobState{core.JobStateRunning, core.JobStateCompleted}},
		{"non-zero is not reported", 3, []core.JobState{core.JobStateRunning}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reporter := &recordingReporter{}
			runner := newRunner(local.NewFabric(1), reporter)

			code, err := runner.Run(context.Background(), Options{ModulePath: writeModule(t, procExitModule(tt.code))})
			require.NoError(t, err)
			assert.Equal(t, int(tt.code), code)
			assert.Equal(t, tt.states, reporter.states)
		})
	}
}

func TestRunner_FatalAbortsWorld(t *testing.T) {
	reporter := &recordingReporter{}
	fabric := local.NewFabric(1)
	runner := newRunner(fabric, reporter)

	code, err := runner.Run(context.Background(), Options{ModulePath: writeModule(t, startCommSizeModule(5))})
	require.Error(t, err)
	assert.Equal(t, 1, code)

	_, ok := bridge.AsFatal(err)
	assert.True(t, ok, "got %v", err)
	assert.ErrorIs(t, err, bridge.ErrHandleNotFound)

	abortCode, aborted := fabric.Aborted()
	assert.True(t, aborted)
	assert.Equal(t, int32(1), abortCode)
	assert.Equal(t, []core.JobState{core.JobStateRunning}, reporter.states)
}

func TestRunner_RunningReportFailureStopsRun(t *testing.T) {
	reporter := &recordingReporter{err: &RejectedError{StatusCode: 404}}
	runner := newRunner(local.NewFabric(1), reporter)

	code, err := runner.Run(context.Background(), Options{
		ModulePath: writeModule(t, startCommSizeModule(byte(bridge.CommWorld))),
	})
	require.Error(t, err)
	assert.Equal(t, 1, code)
	assert.Equal(t, []core.JobState{core.JobStateRunning}, reporter.states)
}

func TestRunner_BadModules(t *testing.T) {
	runner := newRunner(local.NewFabric(1), &recordingReporter{})
	ctx := context.Background()

	_, err := runner.Run(ctx, Options{ModulePath: filepath.Join(t.TempDir(), "missing.wasm")})
	assert.ErrorContains(t, err, "read module")

	_, err = runner.Run(ctx, Options{ModulePath: writeModule(t, []byte("not wasm"))})
	assert.ErrorContains(t, err, "compile module")

	empty := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	_, err = NewRunner(bridge.New(local.NewFabric(1).Rank(0))).Run(ctx, Options{ModulePath: writeModule(t, empty)})
	assert.ErrorContains(t, err, "_start")
}

func TestRunner_TimingsAndCache(t *testing.T) {
	var out bytes.Buffer
	cacheDir := t.TempDir()
	path := writeModule(t, startCommSizeModule(byte(bridge.CommWorld)))

	for range 2 {
		runner := newRunner(local.NewFabric(1), &recordingReporter{})
		code, err := runner.Run(context.Background(), Options{
			ModulePath: path,
			CacheDir:   cacheDir,
			Timings:    true,
			Stdout:     &out,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, code)
	}

	assert.Equal(t, 2, bytes.Count(out.Bytes(), []byte("Compile took ")))
	assert.Equal(t, 2, bytes.Count(out.Bytes(), []byte("Run took ")))
}

func TestDigest(t *testing.T) {
	a := Digest([]byte("module a"))
	assert.Len(t, a, 64)
	assert.Equal(t, a, Digest([]byte("module a")))
	assert.NotEqual(t, a, Digest([]byte("module b")))
}

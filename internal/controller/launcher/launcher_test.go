package launcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nemanja-m/wasimpi/internal/controller/core"
	"github.com/nemanja-m/wasimpi/internal/mpi"
)

type fakeSpawner struct {
	mu       sync.Mutex
	calls    int
	command  string
	args     []string
	procs    int
	errcodes []int32
	code     int32
}

func (s *fakeSpawner) Spawn(command string, args []string, procs int) ([]int32, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.command, s.args, s.procs = command, args, procs
	if s.errcodes != nil {
		return s.errcodes, s.code
	}
	return make([]int32, procs), s.code
}

func (s *fakeSpawner) UniverseSize() (int, bool) { return 0, false }
func (s *fakeSpawner) Finalize() int32          { return mpi.Success }

var request = core.LaunchRequest{
	Command: "/usr/bin/mpihost",
	Args:    []string{"--callback", "http://c/api/jobs/1/callback", "/m.wasm", "-v"},
	Procs:   3,
}

func TestMPILauncher_Launch(t *testing.T) {
	spawner := &fakeSpawner{}
	l := NewMPILauncher(spawner)

	require.NoError(t, l.Launch(context.Background(), request))
	assert.Equal(t, 1, spawner.calls)
	assert.Equal(t, request.Command, spawner.command)
	assert.Equal(t, request.Args, spawner.args)
	assert.Equal(t, 3, spawner.procs)
}

func TestMPILauncher_Failures(t *testing.T) {
	tests := []struct {
		name     string
		spawner  *fakeSpawner
		wantCode int32
	}{
		{"runtime code", &fakeSpawner{code: mpi.ErrSpawn}, mpi.ErrSpawn},
		{"process errcode", &fakeSpawner{errcodes: []int32{0, mpi.ErrSpawn, 0}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewMPILauncher(tt.spawner).Launch(context.Background(), request)
			var spawnErr *SpawnError
			require.ErrorAs(t, err, &spawnErr)
			assert.Equal(t, tt.wantCode, spawnErr.Code)
		})
	}

	err := &SpawnError{Errcodes: []int32{0, 5, 5}}
	assert.Equal(t, "spawn failed for 2 of 3 processes", err.Error())
}

func TestMPILauncher_RejectsBadRequests(t *testing.T) {
	spawner := &fakeSpawner{}
	l := NewMPILauncher(spawner)

	assert.Error(t, l.Launch(context.Background(), core.LaunchRequest{Command: "x", Procs: 0}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.Launch(ctx, request), context.Canceled)
	assert.Zero(t, spawner.calls)
}

type fakeProcess struct {
	err  error
	done chan struct{}
}

func (p *fakeProcess) Wait() error {
	defer close(p.done)
	return p.err
}

type fakeStarter struct {
	args []string
	proc *fakeProcess
	err  error
}

func (s *fakeStarter) Start(args []string) (Process, error) {
	s.args = args
	if s.err != nil {
		return nil, s.err
	}
	return s.proc, nil
}

func TestExecLauncher_CommandLine(t *testing.T) {
	l := NewExecLauncher(WithPrefix("mpirun", "--oversubscribe"))
	assert.Equal(t, []string{
		"mpirun", "--oversubscribe", "-np", "3", "/usr/bin/mpihost",
		"--callback", "http://c/api/jobs/1/callback", "/m.wasm", "-v",
	}, l.CommandLine(request))

	assert.Equal(t, "mpirun", NewExecLauncher().CommandLine(request)[0])
}

func TestExecLauncher_Launch(t *testing.T) {
	proc := &fakeProcess{done: make(chan struct{})}
	starter := &fakeStarter{proc: proc}
	l := NewExecLauncher(WithCommandStarter(starter))

	require.NoError(t, l.Launch(context.Background(), request))
	assert.Equal(t, []string{"mpirun", "-np", "3"}, starter.args[:3])

	select {
	case <-proc.done:
	case <-time.After(2 * time.Second):
		t.Fatal("launched process was never reaped")
	}
}

func TestExecLauncher_StartFailure(t *testing.T) {
	starter := &fakeStarter{err: errors.New("executable file not found")}
	l := NewExecLauncher(WithCommandStarter(starter))

	err := l.Launch(context.Background(), request)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start mpirun")
}

func TestExecLauncher_EmptyPrefix(t *testing.T) {
	l := NewExecLauncher(WithPrefix(), WithCommandStarter(&fakeStarter{}))
	assert.Error(t, l.Launch(context.Background(), request))
}

func TestRealCommandStarter_NoCommand(t *testing.T) {
	_, err := RealCommandStarter{}.Start(nil)
	assert.Error(t, err)
}

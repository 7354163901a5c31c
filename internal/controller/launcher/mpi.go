package launcher

import (
	"context"
	"errors"
	"sync"

	"github.com/nemanja-m/wasimpi/internal/controller/core"
	"github.com/nemanja-m/wasimpi/internal/mpi"
)

// MPILauncher creates each job as a new process group through the runtime's
// dynamic spawn.
type MPILauncher struct {
	// The runtime is initialised serialized; calls must not overlap.
	mu      sync.Mutex
	spawner mpi.Spawner
}

func NewMPILauncher(spawner mpi.Spawner) *MPILauncher {
	return &MPILauncher{spawner: spawner}
}

func (l *MPILauncher) Launch(ctx context.Context, req core.LaunchRequest) error {
	if req.Procs <= 0 {
		return errors.New("procs must be positive")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	errcodes, code := l.spawner.Spawn(req.Command, req.Args, req.Procs)
	if code != mpi.Success {
		return &SpawnError{Code: code, Errcodes: errcodes}
	}
	for _, c := range errcodes {
		if c != mpi.Success {
			return &SpawnError{Errcodes: errcodes}
		}
	}
	return nil
}

var _ core.ProcessLauncher = (*MPILauncher)(nil)

//go:build !mpi

// Package native binds mpi.Runtime to the system MPI library through cgo.
// Without the mpi build tag every constructor reports ErrUnavailable.
package native

import "github.com/nemanja-m/wasimpi/internal/mpi"

// Available reports whether this binary was built against a real MPI.
func Available() bool {
	return false
}

// Runtime is never constructed in builds without MPI.
type Runtime struct {
	mpi.Runtime
}

func NewRuntime() (*Runtime, error) {
	return nil, ErrUnavailable
}

// Spawner is never constructed in builds without MPI.
type Spawner struct {
	mpi.Spawner
}

func NewSpawner() (*Spawner, error) {
	return nil, ErrUnavailable
}

// Package launcher starts the sandbox host processes of an admitted job.
package launcher

import (
	"fmt"
)

// SpawnError reports a launch the runtime refused, either as a whole or for
// some of the requested processes.
type SpawnError struct {
	Code     int32
	Errcodes []int32
}

func (e *SpawnError) Error() string {
	failed := 0
	for _, c := range e.Errcodes {
		if c != 0 {
			failed++
		}
	}
	if e.Code != 0 {
		return fmt.Sprintf("spawn failed with code %d", e.Code)
	}
	return fmt.Sprintf("spawn failed for %d of %d processes", failed, len(e.Errcodes))
}

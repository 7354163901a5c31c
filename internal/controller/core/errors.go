package core

import (
	"errors"
	"fmt"
)

var (
	ErrJobNotFound      = errors.New("job not found")
	ErrFinalState       = errors.New("job state is final")
	ErrInvalidState     = errors.New("invalid job state")
	ErrInvalidJob       = errors.New("invalid job")
	ErrModuleNotAllowed = errors.New("module path not allowed")
)

// AdmissionError rejects a submission that asks for more slots than are
// free.
type AdmissionError struct {
	Requested int
	Free      int
}

func (e *AdmissionError) Error() string {
	return fmt.Sprintf("cannot start job with world_size %d: only %d slots free", e.Requested, e.Free)
}

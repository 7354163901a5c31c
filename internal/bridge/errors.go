package bridge

import (
	"errors"
	"fmt"
)

var (
	ErrHandleNotFound = errors.New("handle not found")
	ErrOutOfBounds    = errors.New("address out of bounds")
	ErrUnsupported    = errors.New("operation not supported")
)

// FatalError ends the sandboxed program. Bridge functions panic with it and
// the wasm runtime surfaces it as the error of the interrupted call.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// AsFatal extracts the bridge failure from an error returned by the wasm
// runtime, if there is one.
func AsFatal(err error) (*FatalError, bool) {
	var fe *FatalError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

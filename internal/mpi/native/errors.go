package native

import "errors"

// ErrUnavailable is returned when the binary was built without MPI support.
var ErrUnavailable = errors.New("native MPI support not compiled in (build with -tags mpi)")

// Package bridge exposes the native message-passing runtime to sandboxed
// wasm modules. Sandboxed code only ever sees small integer handles and
// addresses into its own linear memory; every handle goes through a
// per-category Arena and every address through Memory.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nemanja-m/wasimpi/internal/mpi"
	"github.com/nemanja-m/wasimpi/internal/shared/logging"
)

type request struct {
	native mpi.Request
	recv   bool
	// receive window, re-resolved at Wait
	addr uint32
	size int64
}

// Allocator reaches the sandbox's own heap.
type Allocator interface {
	Malloc(ctx context.Context, size uint32) (uint32, error)
	Free(ctx context.Context, ptr uint32) error
}

type Bridge struct {
	rt       mpi.Runtime
	logger   logging.Logger
	hostname func() (string, error)

	comms     *Arena[mpi.Comm]
	datatypes *Arena[mpi.Datatype]
	groups    *Arena[mpi.Group]
	ops       *Arena[mpi.Op]
	requests  *Arena[request]
}

type Option func(*Bridge)

func WithLogger(logger logging.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

func WithHostname(fn func() (string, error)) Option {
	return func(b *Bridge) {
		b.hostname = fn
	}
}

func New(rt mpi.Runtime, opts ...Option) *Bridge {
	b := &Bridge{
		rt:        rt,
		logger:    logging.Nop(),
		hostname:  os.Hostname,
		comms:     NewArena("communicator", seedComms(rt), firstComm),
		datatypes: NewArena("datatype", seedDatatypes(rt), firstDatatype),
		groups:    NewArena[mpi.Group]("group", nil, 0),
		ops:       NewArena("op", seedOps(rt), firstOp),
		requests:  NewArena[request]("request", nil, 0),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Runtime returns the native runtime the bridge forwards to.
func (b *Bridge) Runtime() mpi.Runtime {
	return b.rt
}

func (b *Bridge) fatal(op string, err error) {
	b.logger.Error("Fatal sandbox call", "op", op, "error", err)
	panic(&FatalError{Op: op, Err: err})
}

func (b *Bridge) check(op string, err error) {
	if err != nil {
		b.fatal(op, err)
	}
}

func (b *Bridge) comm(op string, id int32) mpi.Comm {
	c, err := b.comms.Lookup(id)
	b.check(op, err)
	return c
}

func (b *Bridge) datatype(op string, id int32) mpi.Datatype {
	dt, err := b.datatypes.Lookup(id)
	b.check(op, err)
	return dt
}

func (b *Bridge) group(op string, id int32) mpi.Group {
	g, err := b.groups.Lookup(id)
	b.check(op, err)
	return g
}

func (b *Bridge) reduceOp(op string, id int32) mpi.Op {
	o, err := b.ops.Lookup(id)
	b.check(op, err)
	return o
}

// buffer resolves count elements of dt at addr. A failing type size query
// is returned as the native code.
func (b *Bridge) buffer(op string, mem *Memory, addr uint32, count int64, dt mpi.Datatype) ([]byte, int32) {
	size, code := b.rt.TypeSize(dt)
	if code != mpi.Success {
		return nil, code
	}
	buf, err := mem.Elems(addr, count, int64(size))
	b.check(op, err)
	return buf, mpi.Success
}

// slot checks that a 4-byte output location is addressable.
func (b *Bridge) slot(op string, mem *Memory, addr uint32) {
	_, err := mem.Bytes(addr, 4)
	b.check(op, err)
}

func (b *Bridge) put(op string, mem *Memory, addr uint32, v int32) {
	b.check(op, mem.PutInt32(addr, v))
}

func (b *Bridge) statusSlot(op string, mem *Memory, addr uint32) {
	if addr == StatusIgnore {
		return
	}
	_, err := mem.Bytes(addr, StatusSize)
	b.check(op, err)
}

func (b *Bridge) putStatus(op string, mem *Memory, addr uint32, st mpi.Status) {
	if addr == StatusIgnore {
		return
	}
	b.check(op, mem.PutStatus(addr, st))
}

func (b *Bridge) unsupported(op string) {
	b.fatal(op, fmt.Errorf("%s: %w", op, ErrUnsupported))
}

func (b *Bridge) Init(argc, argv int32) int32 {
	return b.rt.Init()
}

func (b *Bridge) Initialized(mem *Memory, flagAddr uint32) int32 {
	const op = "MPI_Initialized"
	b.slot(op, mem, flagAddr)

	flag, code := b.rt.Initialized()
	var v int32
	if flag {
		v = 1
	}
	b.put(op, mem, flagAddr, v)
	return code
}

func (b *Bridge) Finalize() int32 {
	return b.rt.Finalize()
}

func (b *Bridge) Abort(comm, errorcode int32) int32 {
	return b.rt.Abort(b.comm("MPI_Abort", comm), errorcode)
}

func (b *Bridge) Wtime() float64 {
	return b.rt.Wtime()
}

// Gethostname copies the host name into the sandbox buffer, NUL-terminating
// it when there is room.
func (b *Bridge) Gethostname(mem *Memory, nameAddr uint32, length int32) int32 {
	const op = "gethostname"
	buf, err := mem.Bytes(nameAddr, int64(length))
	b.check(op, err)

	name, err := b.hostname()
	b.check(op, err)
	if len(name) > len(buf) {
		b.fatal(op, fmt.Errorf("buffer of %d bytes too small for hostname of %d bytes", len(buf), len(name)))
	}

	n := copy(buf, name)
	if n < len(buf) {
		buf[n] = 0
	}
	return Success
}

func (b *Bridge) CxaAllocateException(size int32) int32 {
	b.fatal("__cxa_allocate_exception", errors.New("sandboxed code raised a C++ exception"))
	return 0
}

func (b *Bridge) CxaThrow(ptr, typ, destructor int32) {
	b.fatal("__cxa_throw", errors.New("sandboxed code raised a C++ exception"))
}

// AllocMem allocates from the sandbox's own heap and stores the pointer at
// baseAddr.
func (b *Bridge) AllocMem(ctx context.Context, mem *Memory, alloc Allocator, size, info int32, baseAddr uint32) int32 {
	const op = "MPI_Alloc_mem"
	b.slot(op, mem, baseAddr)
	if size < 0 {
		b.fatal(op, fmt.Errorf("negative size %d", size))
	}

	ptr, err := alloc.Malloc(ctx, uint32(size))
	b.check(op, err)
	b.put(op, mem, baseAddr, int32(ptr))
	return Success
}

func (b *Bridge) FreeMem(ctx context.Context, alloc Allocator, base uint32) int32 {
	b.check("MPI_Free_mem", alloc.Free(ctx, base))
	return Success
}

// Package mpi defines the native group-communication runtime the sandbox
// bridge drives. Handles are opaque values owned by the runtime; status
// codes are returned verbatim so callers can pass them through untouched.
package mpi

// Opaque native handles. The zero value carries no meaning on its own; use
// the runtime's well-known accessors to obtain null handles.
type (
	Comm     uintptr
	Group    uintptr
	Datatype uintptr
	Op       uintptr
	Request  uintptr
)

// Status codes follow the MPICH error classes.
const (
	Success     int32 = 0
	ErrBuffer   int32 = 1
	ErrCount    int32 = 2
	ErrType     int32 = 3
	ErrTag      int32 = 4
	ErrComm     int32 = 5
	ErrRank     int32 = 6
	ErrRoot     int32 = 7
	ErrGroup    int32 = 8
	ErrOp       int32 = 9
	ErrArg      int32 = 12
	ErrTruncate int32 = 14
	ErrOther    int32 = 15
	ErrRequest  int32 = 19
	ErrSpawn    int32 = 42
)

// Sentinels shared with sandboxed code. Native runtimes translate them to
// their own values at the boundary.
const (
	AnySource int32 = -1
	AnyTag    int32 = -1
	Undefined int32 = -32766
)

// Comparison is the result of comparing two communicators.
type Comparison int32

const (
	Ident     Comparison = 0
	Congruent Comparison = 1
	Similar   Comparison = 2
	Unequal   Comparison = 3
)

func (c Comparison) String() string {
	switch c {
	case Ident:
		return "IDENT"
	case Congruent:
		return "CONGRUENT"
	case Similar:
		return "SIMILAR"
	case Unequal:
		return "UNEQUAL"
	default:
		return "UNKNOWN"
	}
}

// BasicType enumerates the scalar element types a runtime must provide.
type BasicType int

const (
	TypeInt8 BasicType = iota
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeFloat
	TypeDouble
)

// Size returns the width of one element in bytes.
func (t BasicType) Size() int {
	switch t {
	case TypeInt8, TypeUint8:
		return 1
	case TypeInt16, TypeUint16:
		return 2
	case TypeInt32, TypeUint32, TypeFloat:
		return 4
	case TypeInt64, TypeUint64, TypeDouble:
		return 8
	default:
		return 0
	}
}

func (t BasicType) Signed() bool {
	return t >= TypeInt8 && t <= TypeInt64
}

func (t BasicType) Float() bool {
	return t == TypeFloat || t == TypeDouble
}

// OpKind enumerates the predefined reduction operators.
type OpKind int

const (
	OpMax OpKind = iota
	OpMin
	OpSum
	OpProd
	OpLand
	OpLor
	OpBand
	OpBor
)

// Status describes a completed receive. Count is in bytes.
type Status struct {
	Source    int32
	Tag       int32
	Error     int32
	Cancelled bool
	Count     int64
}

// Runtime is the native message-passing surface. Buffers are views into the
// caller's memory and are only valid for the duration of the call, except
// where noted.
type Runtime interface {
	Init() int32
	Initialized() (bool, int32)
	Finalize() int32
	Abort(comm Comm, code int32) int32
	Wtime() float64

	CommWorld() Comm
	CommSelf() Comm
	CommNull() Comm
	DatatypeNull() Datatype
	Datatype(t BasicType) Datatype
	Op(k OpKind) Op

	TypeSize(dt Datatype) (int32, int32)

	CommRank(comm Comm) (int32, int32)
	CommSize(comm Comm) (int32, int32)
	CommCompare(a, b Comm) (Comparison, int32)
	CommCreate(comm Comm, group Group) (Comm, int32)
	CommSplit(comm Comm, color, key int32) (Comm, int32)
	CommFree(comm Comm) int32
	CommGroup(comm Comm) (Group, int32)

	GroupFree(group Group) int32
	GroupRangeIncl(group Group, ranges [][3]int32) (Group, int32)
	GroupTranslateRanks(from Group, ranks []int32, to Group) ([]int32, int32)

	Send(buf []byte, count int32, dt Datatype, dest, tag int32, comm Comm) int32
	Recv(buf []byte, count int32, dt Datatype, source, tag int32, comm Comm) (Status, int32)
	Sendrecv(
		sendbuf []byte, sendcount int32, sendtype Datatype, dest, sendtag int32,
		recvbuf []byte, recvcount int32, recvtype Datatype, source, recvtag int32,
		comm Comm,
	) (Status, int32)
	// Isend copies buf before returning.
	Isend(buf []byte, count int32, dt Datatype, dest, tag int32, comm Comm) (Request, int32)
	// Irecv posts a receive whose payload is delivered into the buffer
	// handed to Wait.
	Irecv(count int32, dt Datatype, source, tag int32, comm Comm) (Request, int32)
	Wait(req Request, buf []byte) (Status, int32)

	Barrier(comm Comm) int32
	Bcast(buf []byte, count int32, dt Datatype, root int32, comm Comm) int32
	Gather(
		sendbuf []byte, sendcount int32, sendtype Datatype,
		recvbuf []byte, recvcount int32, recvtype Datatype,
		root int32, comm Comm,
	) int32
	Scatter(
		sendbuf []byte, sendcount int32, sendtype Datatype,
		recvbuf []byte, recvcount int32, recvtype Datatype,
		root int32, comm Comm,
	) int32
	Allgather(
		sendbuf []byte, sendcount int32, sendtype Datatype,
		recvbuf []byte, recvcount int32, recvtype Datatype,
		comm Comm,
	) int32
	Alltoall(
		sendbuf []byte, sendcount int32, sendtype Datatype,
		recvbuf []byte, recvcount int32, recvtype Datatype,
		comm Comm,
	) int32
	Alltoallv(
		sendbuf []byte, sendcounts, sdispls []int32, sendtype Datatype,
		recvbuf []byte, recvcounts, rdispls []int32, recvtype Datatype,
		comm Comm,
	) int32
	Reduce(sendbuf, recvbuf []byte, count int32, dt Datatype, op Op, root int32, comm Comm) int32
	Allreduce(sendbuf, recvbuf []byte, count int32, dt Datatype, op Op, comm Comm) int32
}

// Spawner launches new process groups through the native runtime.
type Spawner interface {
	// Spawn starts procs copies of command. errcodes holds one entry per
	// requested process.
	Spawn(command string, args []string, procs int) (errcodes []int32, code int32)
	// UniverseSize reports the total number of slots the runtime was
	// started with, if known.
	UniverseSize() (int, bool)
	Finalize() int32
}

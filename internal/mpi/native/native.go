//go:build mpi

// Package native binds mpi.Runtime to the system MPI library through cgo.
// Build with -tags mpi and an MPI toolchain (CC=mpicc).
package native

/*
#cgo pkg-config: ompi
#include <stdint.h>
#include <stdlib.h>
#include <mpi.h>

static uintptr_t comm_world(void)    { return (uintptr_t)MPI_COMM_WORLD; }
static uintptr_t comm_self(void)     { return (uintptr_t)MPI_COMM_SELF; }
static uintptr_t comm_null(void)     { return (uintptr_t)MPI_COMM_NULL; }
static uintptr_t datatype_null(void) { return (uintptr_t)MPI_DATATYPE_NULL; }

static uintptr_t basic_type(int kind) {
	switch (kind) {
	case 0: return (uintptr_t)MPI_INT8_T;
	case 1: return (uintptr_t)MPI_INT16_T;
	case 2: return (uintptr_t)MPI_INT32_T;
	case 3: return (uintptr_t)MPI_INT64_T;
	case 4: return (uintptr_t)MPI_UINT8_T;
	case 5: return (uintptr_t)MPI_UINT16_T;
	case 6: return (uintptr_t)MPI_UINT32_T;
	case 7: return (uintptr_t)MPI_UINT64_T;
	case 8: return (uintptr_t)MPI_FLOAT;
	case 9: return (uintptr_t)MPI_DOUBLE;
	}
	return (uintptr_t)MPI_DATATYPE_NULL;
}

static uintptr_t basic_op(int kind) {
	switch (kind) {
	case 0: return (uintptr_t)MPI_MAX;
	case 1: return (uintptr_t)MPI_MIN;
	case 2: return (uintptr_t)MPI_SUM;
	case 3: return (uintptr_t)MPI_PROD;
	case 4: return (uintptr_t)MPI_LAND;
	case 5: return (uintptr_t)MPI_LOR;
	case 6: return (uintptr_t)MPI_BAND;
	case 7: return (uintptr_t)MPI_BOR;
	}
	return (uintptr_t)MPI_OP_NULL;
}

static MPI_Comm     to_comm(uintptr_t h)     { return (MPI_Comm)h; }
static MPI_Group    to_group(uintptr_t h)    { return (MPI_Group)h; }
static MPI_Datatype to_datatype(uintptr_t h) { return (MPI_Datatype)h; }
static MPI_Op       to_op(uintptr_t h)       { return (MPI_Op)h; }
static MPI_Request  to_request(uintptr_t h)  { return (MPI_Request)h; }

static int any_source(void) { return MPI_ANY_SOURCE; }
static int any_tag(void)    { return MPI_ANY_TAG; }
static int undefined(void)  { return MPI_UNDEFINED; }

static int comm_create(uintptr_t comm, uintptr_t group, uintptr_t *out) {
	MPI_Comm c;
	int rc = MPI_Comm_create(to_comm(comm), to_group(group), &c);
	*out = (uintptr_t)c;
	return rc;
}

static int comm_split(uintptr_t comm, int color, int key, uintptr_t *out) {
	MPI_Comm c;
	int rc = MPI_Comm_split(to_comm(comm), color, key, &c);
	*out = (uintptr_t)c;
	return rc;
}

static int comm_free(uintptr_t comm) {
	MPI_Comm c = to_comm(comm);
	return MPI_Comm_free(&c);
}

static int comm_group(uintptr_t comm, uintptr_t *out) {
	MPI_Group g;
	int rc = MPI_Comm_group(to_comm(comm), &g);
	*out = (uintptr_t)g;
	return rc;
}

static int group_free(uintptr_t group) {
	MPI_Group g = to_group(group);
	return MPI_Group_free(&g);
}

static int group_range_incl(uintptr_t group, int n, int *ranges, uintptr_t *out) {
	MPI_Group g;
	int rc = MPI_Group_range_incl(to_group(group), n, (int (*)[3])ranges, &g);
	*out = (uintptr_t)g;
	return rc;
}

static int isend(void *buf, int count, uintptr_t dt, int dest, int tag, uintptr_t comm, uintptr_t *out) {
	MPI_Request r;
	int rc = MPI_Isend(buf, count, to_datatype(dt), dest, tag, to_comm(comm), &r);
	*out = (uintptr_t)r;
	return rc;
}

static int irecv(void *buf, int count, uintptr_t dt, int source, int tag, uintptr_t comm, uintptr_t *out) {
	MPI_Request r;
	int rc = MPI_Irecv(buf, count, to_datatype(dt), source, tag, to_comm(comm), &r);
	*out = (uintptr_t)r;
	return rc;
}

static int wait(uintptr_t req, MPI_Status *st) {
	MPI_Request r = to_request(req);
	return MPI_Wait(&r, st);
}

static int status_bytes(MPI_Status *st, int *count) {
	return MPI_Get_count(st, MPI_BYTE, count);
}

static int universe_size(int *size, int *flag) {
	int *value;
	int rc = MPI_Comm_get_attr(MPI_COMM_WORLD, MPI_UNIVERSE_SIZE, &value, flag);
	if (rc == MPI_SUCCESS && *flag) {
		*size = *value;
	}
	return rc;
}

static int init_serialized(int *provided) {
	return MPI_Init_thread(NULL, NULL, MPI_THREAD_SERIALIZED, provided);
}

static int spawn(char *command, char **argv, int procs, int *errcodes) {
	MPI_Comm intercomm;
	return MPI_Comm_spawn(command, argv, procs, MPI_INFO_NULL, 0, MPI_COMM_SELF, &intercomm, errcodes);
}
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/nemanja-m/wasimpi/internal/mpi"
)

// Available reports whether this binary was built against a real MPI.
func Available() bool {
	return true
}

type transfer struct {
	buf  unsafe.Pointer
	size int
	recv bool
}

// Runtime forwards every call to the MPI library. Buffers handed to the
// non-blocking calls are staged in C memory until Wait.
type Runtime struct {
	mu       sync.Mutex
	inflight map[mpi.Request]*transfer
}

var _ mpi.Runtime = (*Runtime)(nil)

// NewRuntime returns a runtime bound to the process-wide MPI library. The
// caller still drives MPI_Init through Init.
func NewRuntime() (*Runtime, error) {
	return &Runtime{inflight: make(map[mpi.Request]*transfer)}, nil
}

func ptr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

func intPtr(v []int32) *C.int {
	if len(v) == 0 {
		return nil
	}
	return (*C.int)(unsafe.Pointer(&v[0]))
}

func source(rank int32) C.int {
	if rank == mpi.AnySource {
		return C.any_source()
	}
	return C.int(rank)
}

func tag(t int32) C.int {
	if t == mpi.AnyTag {
		return C.any_tag()
	}
	return C.int(t)
}

func convertStatus(st *C.MPI_Status) mpi.Status {
	var n C.int
	C.status_bytes(st, &n)
	return mpi.Status{
		Source: int32(st.MPI_SOURCE),
		Tag:    int32(st.MPI_TAG),
		Error:  int32(st.MPI_ERROR),
		Count:  int64(n),
	}
}

func (r *Runtime) Init() int32 {
	return int32(C.MPI_Init(nil, nil))
}

func (r *Runtime) Initialized() (bool, int32) {
	var flag C.int
	rc := C.MPI_Initialized(&flag)
	return flag != 0, int32(rc)
}

func (r *Runtime) Finalize() int32 {
	return int32(C.MPI_Finalize())
}

func (r *Runtime) Abort(comm mpi.Comm, code int32) int32 {
	return int32(C.MPI_Abort(C.to_comm(C.uintptr_t(comm)), C.int(code)))
}

func (r *Runtime) Wtime() float64 {
	return float64(C.MPI_Wtime())
}

func (r *Runtime) CommWorld() mpi.Comm         { return mpi.Comm(C.comm_world()) }
func (r *Runtime) CommSelf() mpi.Comm          { return mpi.Comm(C.comm_self()) }
func (r *Runtime) CommNull() mpi.Comm          { return mpi.Comm(C.comm_null()) }
func (r *Runtime) DatatypeNull() mpi.Datatype  { return mpi.Datatype(C.datatype_null()) }
func (r *Runtime) Datatype(t mpi.BasicType) mpi.Datatype {
	return mpi.Datatype(C.basic_type(C.int(t)))
}
func (r *Runtime) Op(k mpi.OpKind) mpi.Op { return mpi.Op(C.basic_op(C.int(k))) }

func (r *Runtime) TypeSize(dt mpi.Datatype) (int32, int32) {
	var size C.int
	rc := C.MPI_Type_size(C.to_datatype(C.uintptr_t(dt)), &size)
	return int32(size), int32(rc)
}

func (r *Runtime) CommRank(comm mpi.Comm) (int32, int32) {
	var rank C.int
	rc := C.MPI_Comm_rank(C.to_comm(C.uintptr_t(comm)), &rank)
	return int32(rank), int32(rc)
}

func (r *Runtime) CommSize(comm mpi.Comm) (int32, int32) {
	var size C.int
	rc := C.MPI_Comm_size(C.to_comm(C.uintptr_t(comm)), &size)
	return int32(size), int32(rc)
}

func (r *Runtime) CommCompare(a, b mpi.Comm) (mpi.Comparison, int32) {
	var result C.int
	rc := C.MPI_Comm_compare(C.to_comm(C.uintptr_t(a)), C.to_comm(C.uintptr_t(b)), &result)
	switch result {
	case C.MPI_IDENT:
		return mpi.Ident, int32(rc)
	case C.MPI_CONGRUENT:
		return mpi.Congruent, int32(rc)
	case C.MPI_SIMILAR:
		return mpi.Similar, int32(rc)
	default:
		return mpi.Unequal, int32(rc)
	}
}

func (r *Runtime) CommCreate(comm mpi.Comm, group mpi.Group) (mpi.Comm, int32) {
	var out C.uintptr_t
	rc := C.comm_create(C.uintptr_t(comm), C.uintptr_t(group), &out)
	return mpi.Comm(out), int32(rc)
}

func (r *Runtime) CommSplit(comm mpi.Comm, color, key int32) (mpi.Comm, int32) {
	c := C.int(color)
	if color == mpi.Undefined {
		c = C.undefined()
	}
	var out C.uintptr_t
	rc := C.comm_split(C.uintptr_t(comm), c, C.int(key), &out)
	return mpi.Comm(out), int32(rc)
}

func (r *Runtime) CommFree(comm mpi.Comm) int32 {
	return int32(C.comm_free(C.uintptr_t(comm)))
}

func (r *Runtime) CommGroup(comm mpi.Comm) (mpi.Group, int32) {
	var out C.uintptr_t
	rc := C.comm_group(C.uintptr_t(comm), &out)
	return mpi.Group(out), int32(rc)
}

func (r *Runtime) GroupFree(group mpi.Group) int32 {
	return int32(C.group_free(C.uintptr_t(group)))
}

func (r *Runtime) GroupRangeIncl(group mpi.Group, ranges [][3]int32) (mpi.Group, int32) {
	flat := make([]int32, 0, 3*len(ranges))
	for _, rg := range ranges {
		flat = append(flat, rg[0], rg[1], rg[2])
	}
	var out C.uintptr_t
	rc := C.group_range_incl(C.uintptr_t(group), C.int(len(ranges)), intPtr(flat), &out)
	return mpi.Group(out), int32(rc)
}

func (r *Runtime) GroupTranslateRanks(from mpi.Group, ranks []int32, to mpi.Group) ([]int32, int32) {
	out := make([]int32, len(ranks))
	rc := C.MPI_Group_translate_ranks(
		C.to_group(C.uintptr_t(from)), C.int(len(ranks)), intPtr(ranks),
		C.to_group(C.uintptr_t(to)), intPtr(out),
	)
	undefined := int32(C.undefined())
	for i, v := range out {
		if v == undefined {
			out[i] = mpi.Undefined
		}
	}
	return out, int32(rc)
}

func (r *Runtime) Send(buf []byte, count int32, dt mpi.Datatype, dest, t int32, comm mpi.Comm) int32 {
	return int32(C.MPI_Send(ptr(buf), C.int(count), C.to_datatype(C.uintptr_t(dt)),
		C.int(dest), C.int(t), C.to_comm(C.uintptr_t(comm))))
}

func (r *Runtime) Recv(buf []byte, count int32, dt mpi.Datatype, src, t int32, comm mpi.Comm) (mpi.Status, int32) {
	var st C.MPI_Status
	rc := C.MPI_Recv(ptr(buf), C.int(count), C.to_datatype(C.uintptr_t(dt)),
		source(src), tag(t), C.to_comm(C.uintptr_t(comm)), &st)
	return convertStatus(&st), int32(rc)
}

func (r *Runtime) Sendrecv(
	sendbuf []byte, sendcount int32, sendtype mpi.Datatype, dest, sendtag int32,
	recvbuf []byte, recvcount int32, recvtype mpi.Datatype, src, recvtag int32,
	comm mpi.Comm,
) (mpi.Status, int32) {
	var st C.MPI_Status
	rc := C.MPI_Sendrecv(
		ptr(sendbuf), C.int(sendcount), C.to_datatype(C.uintptr_t(sendtype)), C.int(dest), C.int(sendtag),
		ptr(recvbuf), C.int(recvcount), C.to_datatype(C.uintptr_t(recvtype)), source(src), tag(recvtag),
		C.to_comm(C.uintptr_t(comm)), &st,
	)
	return convertStatus(&st), int32(rc)
}

func (r *Runtime) track(req mpi.Request, t *transfer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inflight[req] = t
}

func (r *Runtime) Isend(buf []byte, count int32, dt mpi.Datatype, dest, t int32, comm mpi.Comm) (mpi.Request, int32) {
	staged := C.CBytes(buf)
	var out C.uintptr_t
	rc := C.isend(staged, C.int(count), C.uintptr_t(dt), C.int(dest), C.int(t), C.uintptr_t(comm), &out)
	if rc != C.MPI_SUCCESS {
		C.free(staged)
		return 0, int32(rc)
	}
	req := mpi.Request(out)
	r.track(req, &transfer{buf: staged, size: len(buf)})
	return req, int32(rc)
}

func (r *Runtime) Irecv(count int32, dt mpi.Datatype, src, t int32, comm mpi.Comm) (mpi.Request, int32) {
	size, rc := r.TypeSize(dt)
	if rc != mpi.Success {
		return 0, rc
	}
	n := int(size) * int(count)
	staged := C.malloc(C.size_t(max(n, 1)))

	var out C.uintptr_t
	code := C.irecv(staged, C.int(count), C.uintptr_t(dt), source(src), tag(t), C.uintptr_t(comm), &out)
	if code != C.MPI_SUCCESS {
		C.free(staged)
		return 0, int32(code)
	}
	req := mpi.Request(out)
	r.track(req, &transfer{buf: staged, size: n, recv: true})
	return req, int32(code)
}

func (r *Runtime) Wait(req mpi.Request, buf []byte) (mpi.Status, int32) {
	var st C.MPI_Status
	rc := C.wait(C.uintptr_t(req), &st)

	r.mu.Lock()
	t, ok := r.inflight[req]
	delete(r.inflight, req)
	r.mu.Unlock()

	status := convertStatus(&st)
	if ok {
		if t.recv {
			copy(buf, unsafe.Slice((*byte)(t.buf), t.size)[:min(int(status.Count), t.size)])
		}
		C.free(t.buf)
	}
	return status, int32(rc)
}

func (r *Runtime) Barrier(comm mpi.Comm) int32 {
	return int32(C.MPI_Barrier(C.to_comm(C.uintptr_t(comm))))
}

func (r *Runtime) Bcast(buf []byte, count int32, dt mpi.Datatype, root int32, comm mpi.Comm) int32 {
	return int32(C.MPI_Bcast(ptr(buf), C.int(count), C.to_datatype(C.uintptr_t(dt)), C.int(root),
		C.to_comm(C.uintptr_t(comm))))
}

func (r *Runtime) Gather(
	sendbuf []byte, sendcount int32, sendtype mpi.Datatype,
	recvbuf []byte, recvcount int32, recvtype mpi.Datatype,
	root int32, comm mpi.Comm,
) int32 {
	return int32(C.MPI_Gather(
		ptr(sendbuf), C.int(sendcount), C.to_datatype(C.uintptr_t(sendtype)),
		ptr(recvbuf), C.int(recvcount), C.to_datatype(C.uintptr_t(recvtype)),
		C.int(root), C.to_comm(C.uintptr_t(comm)),
	))
}

func (r *Runtime) Scatter(
	sendbuf []byte, sendcount int32, sendtype mpi.Datatype,
	recvbuf []byte, recvcount int32, recvtype mpi.Datatype,
	root int32, comm mpi.Comm,
) int32 {
	return int32(C.MPI_Scatter(
		ptr(sendbuf), C.int(sendcount), C.to_datatype(C.uintptr_t(sendtype)),
		ptr(recvbuf), C.int(recvcount), C.to_datatype(C.uintptr_t(recvtype)),
		C.int(root), C.to_comm(C.uintptr_t(comm)),
	))
}

func (r *Runtime) Allgather(
	sendbuf []byte, sendcount int32, sendtype mpi.Datatype,
	recvbuf []byte, recvcount int32, recvtype mpi.Datatype,
	comm mpi.Comm,
) int32 {
	return int32(C.MPI_Allgather(
		ptr(sendbuf), C.int(sendcount), C.to_datatype(C.uintptr_t(sendtype)),
		ptr(recvbuf), C.int(recvcount), C.to_datatype(C.uintptr_t(recvtype)),
		C.to_comm(C.uintptr_t(comm)),
	))
}

func (r *Runtime) Alltoall(
	sendbuf []byte, sendcount int32, sendtype mpi.Datatype,
	recvbuf []byte, recvcount int32, recvtype mpi.Datatype,
	comm mpi.Comm,
) int32 {
	return int32(C.MPI_Alltoall(
		ptr(sendbuf), C.int(sendcount), C.to_datatype(C.uintptr_t(sendtype)),
		ptr(recvbuf), C.int(recvcount), C.to_datatype(C.uintptr_t(recvtype)),
		C.to_comm(C.uintptr_t(comm)),
	))
}

func (r *Runtime) Alltoallv(
	sendbuf []byte, sendcounts, sdispls []int32, sendtype mpi.Datatype,
	recvbuf []byte, recvcounts, rdispls []int32, recvtype mpi.Datatype,
	comm mpi.Comm,
) int32 {
	return int32(C.MPI_Alltoallv(
		ptr(sendbuf), intPtr(sendcounts), intPtr(sdispls), C.to_datatype(C.uintptr_t(sendtype)),
		ptr(recvbuf), intPtr(recvcounts), intPtr(rdispls), C.to_datatype(C.uintptr_t(recvtype)),
		C.to_comm(C.uintptr_t(comm)),
	))
}

func (r *Runtime) Reduce(sendbuf, recvbuf []byte, count int32, dt mpi.Datatype, op mpi.Op, root int32, comm mpi.Comm) int32 {
	return int32(C.MPI_Reduce(ptr(sendbuf), ptr(recvbuf), C.int(count), C.to_datatype(C.uintptr_t(dt)),
		C.to_op(C.uintptr_t(op)), C.int(root), C.to_comm(C.uintptr_t(comm))))
}

func (r *Runtime) Allreduce(sendbuf, recvbuf []byte, count int32, dt mpi.Datatype, op mpi.Op, comm mpi.Comm) int32 {
	return int32(C.MPI_Allreduce(ptr(sendbuf), ptr(recvbuf), C.int(count), C.to_datatype(C.uintptr_t(dt)),
		C.to_op(C.uintptr_t(op)), C.to_comm(C.uintptr_t(comm))))
}

// Spawner launches jobs with MPI_Comm_spawn from a singleton controller
// process. Calls are serialized.
type Spawner struct {
	mu sync.Mutex
}

var _ mpi.Spawner = (*Spawner)(nil)

// NewSpawner initializes MPI and checks that the caller is the only member
// of its world.
func NewSpawner() (*Spawner, error) {
	var provided C.int
	if rc := C.init_serialized(&provided); rc != C.MPI_SUCCESS {
		return nil, fmt.Errorf("MPI_Init_thread failed with code %d", int(rc))
	}
	if provided < C.MPI_THREAD_SERIALIZED {
		C.MPI_Finalize()
		return nil, fmt.Errorf("MPI thread support level %d is below SERIALIZED", int(provided))
	}

	var rank, size C.int
	C.MPI_Comm_rank(C.to_comm(C.comm_world()), &rank)
	C.MPI_Comm_size(C.to_comm(C.comm_world()), &size)
	if size != 1 || rank != 0 {
		C.MPI_Finalize()
		return nil, fmt.Errorf("controller must run as a singleton, got rank %d of %d", int(rank), int(size))
	}
	return &Spawner{}, nil
}

func (s *Spawner) Spawn(command string, args []string, procs int) ([]int32, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cmd := C.CString(command)
	defer C.free(unsafe.Pointer(cmd))

	argv := C.malloc(C.size_t(len(args)+1) * C.size_t(unsafe.Sizeof(uintptr(0))))
	defer C.free(argv)
	view := unsafe.Slice((**C.char)(argv), len(args)+1)
	for i, a := range args {
		view[i] = C.CString(a)
		defer C.free(unsafe.Pointer(view[i]))
	}
	view[len(args)] = nil

	codes := make([]C.int, max(procs, 1))
	rc := C.spawn(cmd, (**C.char)(argv), C.int(procs), &codes[0])

	out := make([]int32, procs)
	for i := range out {
		out[i] = int32(codes[i])
	}
	return out, int32(rc)
}

func (s *Spawner) UniverseSize() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var size, flag C.int
	if rc := C.universe_size(&size, &flag); rc != C.MPI_SUCCESS || flag == 0 {
		return 0, false
	}
	return int(size), true
}

func (s *Spawner) Finalize() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int32(C.MPI_Finalize())
}

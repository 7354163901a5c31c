package local

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/nemanja-m/wasimpi/internal/mpi"
)

const (
	commNull  mpi.Comm = 0
	commWorld mpi.Comm = 1
	commSelf  mpi.Comm = 2
)

type communicator struct {
	ctx     uint64
	members []int // world ranks, indexed by communicator rank
	rank    int32
}

type group struct {
	members []int
}

type request struct {
	send    bool
	pending *pending
	limit   int
}

// Runtime is one rank of a Fabric.
type Runtime struct {
	fabric *Fabric
	rank   int

	mu          sync.Mutex
	initialized bool
	finalized   bool
	comms       map[mpi.Comm]*communicator
	groups      map[mpi.Group]*group
	requests    map[mpi.Request]*request
	nextComm    mpi.Comm
	nextGroup   mpi.Group
	nextRequest mpi.Request
}

var _ mpi.Runtime = (*Runtime)(nil)

func newRuntime(f *Fabric, rank int) *Runtime {
	world := make([]int, f.Size())
	for i := range world {
		world[i] = i
	}

	return &Runtime{
		fabric: f,
		rank:   rank,
		comms: map[mpi.Comm]*communicator{
			commWorld: {ctx: worldContext, members: world, rank: int32(rank)},
			commSelf:  {ctx: selfContext, members: []int{rank}, rank: 0},
		},
		groups:      make(map[mpi.Group]*group),
		requests:    make(map[mpi.Request]*request),
		nextComm:    commSelf + 1,
		nextGroup:   1,
		nextRequest: 1,
	}
}

func (r *Runtime) Init() int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.initialized = true
	return mpi.Success
}

func (r *Runtime) Initialized() (bool, int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialized, mpi.Success
}

func (r *Runtime) Finalize() int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finalized = true
	return mpi.Success
}

func (r *Runtime) Abort(comm mpi.Comm, code int32) int32 {
	r.fabric.abort(code)
	return mpi.Success
}

func (r *Runtime) Wtime() float64 {
	return time.Since(r.fabric.start).Seconds()
}

func (r *Runtime) CommWorld() mpi.Comm { return commWorld }
func (r *Runtime) CommSelf() mpi.Comm  { return commSelf }
func (r *Runtime) CommNull() mpi.Comm  { return commNull }

func (r *Runtime) DatatypeNull() mpi.Datatype { return 0 }

func (r *Runtime) Datatype(t mpi.BasicType) mpi.Datatype {
	return mpi.Datatype(t) + 1
}

func (r *Runtime) Op(k mpi.OpKind) mpi.Op {
	return mpi.Op(k) + 1
}

func basicType(dt mpi.Datatype) (mpi.BasicType, bool) {
	if dt == 0 || dt > mpi.Datatype(mpi.TypeDouble)+1 {
		return 0, false
	}
	return mpi.BasicType(dt - 1), true
}

func opKind(op mpi.Op) (mpi.OpKind, bool) {
	if op == 0 || op > mpi.Op(mpi.OpBor)+1 {
		return 0, false
	}
	return mpi.OpKind(op - 1), true
}

func (r *Runtime) TypeSize(dt mpi.Datatype) (int32, int32) {
	t, ok := basicType(dt)
	if !ok {
		return 0, mpi.ErrType
	}
	return int32(t.Size()), mpi.Success
}

// extent returns the byte length of count elements of dt.
func extent(count int32, dt mpi.Datatype) (int, int32) {
	if count < 0 {
		return 0, mpi.ErrCount
	}
	t, ok := basicType(dt)
	if !ok {
		return 0, mpi.ErrType
	}
	return int(count) * t.Size(), mpi.Success
}

func (r *Runtime) lookupComm(h mpi.Comm) (*communicator, int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comms[h]
	if !ok {
		return nil, mpi.ErrComm
	}
	return c, mpi.Success
}

func (r *Runtime) lookupGroup(h mpi.Group) (*group, int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[h]
	if !ok {
		return nil, mpi.ErrGroup
	}
	return g, mpi.Success
}

func (r *Runtime) addComm(c *communicator) mpi.Comm {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.nextComm
	r.nextComm++
	r.comms[h] = c
	return h
}

func (r *Runtime) addGroup(g *group) mpi.Group {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.nextGroup
	r.nextGroup++
	r.groups[h] = g
	return h
}

func (r *Runtime) addRequest(req *request) mpi.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.nextRequest
	r.nextRequest++
	r.requests[h] = req
	return h
}

func (r *Runtime) takeRequest(h mpi.Request) (*request, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[h]
	if ok {
		delete(r.requests, h)
	}
	return req, ok
}

func (r *Runtime) CommRank(comm mpi.Comm) (int32, int32) {
	c, code := r.lookupComm(comm)
	if code != mpi.Success {
		return 0, code
	}
	return c.rank, mpi.Success
}

func (r *Runtime) CommSize(comm mpi.Comm) (int32, int32) {
	c, code := r.lookupComm(comm)
	if code != mpi.Success {
		return 0, code
	}
	return int32(len(c.members)), mpi.Success
}

func (r *Runtime) CommCompare(a, b mpi.Comm) (mpi.Comparison, int32) {
	ca, code := r.lookupComm(a)
	if code != mpi.Success {
		return mpi.Unequal, code
	}
	cb, code := r.lookupComm(b)
	if code != mpi.Success {
		return mpi.Unequal, code
	}

	switch {
	case a == b || ca.ctx == cb.ctx && slices.Equal(ca.members, cb.members):
		return mpi.Ident, mpi.Success
	case slices.Equal(ca.members, cb.members):
		return mpi.Congruent, mpi.Success
	case sameSet(ca.members, cb.members):
		return mpi.Similar, mpi.Success
	default:
		return mpi.Unequal, mpi.Success
	}
}

func sameSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	sa, sb := slices.Clone(a), slices.Clone(b)
	slices.Sort(sa)
	slices.Sort(sb)
	return slices.Equal(sa, sb)
}

func (r *Runtime) CommGroup(comm mpi.Comm) (mpi.Group, int32) {
	c, code := r.lookupComm(comm)
	if code != mpi.Success {
		return 0, code
	}
	return r.addGroup(&group{members: slices.Clone(c.members)}), mpi.Success
}

func (r *Runtime) CommFree(comm mpi.Comm) int32 {
	if comm == commWorld || comm == commSelf || comm == commNull {
		return mpi.ErrComm
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comms[comm]; !ok {
		return mpi.ErrComm
	}
	delete(r.comms, comm)
	return mpi.Success
}

func (r *Runtime) GroupFree(g mpi.Group) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[g]; !ok {
		return mpi.ErrGroup
	}
	delete(r.groups, g)
	return mpi.Success
}

func (r *Runtime) GroupRangeIncl(g mpi.Group, ranges [][3]int32) (mpi.Group, int32) {
	src, code := r.lookupGroup(g)
	if code != mpi.Success {
		return 0, code
	}

	var members []int
	seen := make(map[int32]bool)
	for _, rg := range ranges {
		first, last, stride := rg[0], rg[1], rg[2]
		if stride == 0 {
			return 0, mpi.ErrArg
		}
		for rank := first; (stride > 0 && rank <= last) || (stride < 0 && rank >= last); rank += stride {
			if rank < 0 || int(rank) >= len(src.members) || seen[rank] {
				return 0, mpi.ErrRank
			}
			seen[rank] = true
			members = append(members, src.members[rank])
		}
	}

	return r.addGroup(&group{members: members}), mpi.Success
}

func (r *Runtime) GroupTranslateRanks(from mpi.Group, ranks []int32, to mpi.Group) ([]int32, int32) {
	g1, code := r.lookupGroup(from)
	if code != mpi.Success {
		return nil, code
	}
	g2, code := r.lookupGroup(to)
	if code != mpi.Success {
		return nil, code
	}

	out := make([]int32, len(ranks))
	for i, rank := range ranks {
		if rank < 0 || int(rank) >= len(g1.members) {
			return nil, mpi.ErrRank
		}
		out[i] = mpi.Undefined
		if idx := slices.Index(g2.members, g1.members[rank]); idx >= 0 {
			out[i] = int32(idx)
		}
	}
	return out, mpi.Success
}

// CommCreate is collective over comm; every member passes the same group.
func (r *Runtime) CommCreate(comm mpi.Comm, g mpi.Group) (mpi.Comm, int32) {
	c, code := r.lookupComm(comm)
	if code != mpi.Success {
		return commNull, code
	}
	grp, code := r.lookupGroup(g)
	if code != mpi.Success {
		return commNull, code
	}

	ctx, ok := r.shareContext(c, 1)
	if !ok {
		return commNull, mpi.ErrOther
	}

	for _, m := range grp.members {
		if !slices.Contains(c.members, m) {
			return commNull, mpi.ErrGroup
		}
	}

	idx := slices.Index(grp.members, r.rank)
	if idx < 0 {
		return commNull, mpi.Success
	}
	return r.addComm(&communicator{
		ctx:     ctx,
		members: slices.Clone(grp.members),
		rank:    int32(idx),
	}), mpi.Success
}

type splitEntry struct {
	color int32
	key   int32
	rank  int32
}

// CommSplit is collective over comm. Members passing mpi.Undefined as the
// color get the null communicator.
func (r *Runtime) CommSplit(comm mpi.Comm, color, key int32) (mpi.Comm, int32) {
	c, code := r.lookupComm(comm)
	if code != mpi.Success {
		return commNull, code
	}

	var base uint64
	if c.rank == 0 {
		base = r.fabric.allocContexts(len(c.members))
	}

	payload := make([]byte, 16)
	putInt32(payload[0:], color)
	putInt32(payload[4:], key)
	putUint64(payload[8:], base)

	parts, ok := r.exchange(c, payload)
	if !ok {
		return commNull, mpi.ErrOther
	}

	if color == mpi.Undefined {
		return commNull, mpi.Success
	}
	if color < 0 {
		return commNull, mpi.ErrArg
	}

	entries := make([]splitEntry, len(parts))
	var colors []int32
	for i, p := range parts {
		entries[i] = splitEntry{color: getInt32(p[0:]), key: getInt32(p[4:]), rank: int32(i)}
		if entries[i].color >= 0 && !slices.Contains(colors, entries[i].color) {
			colors = append(colors, entries[i].color)
		}
	}
	base = getUint64(parts[0][8:])
	slices.Sort(colors)

	var same []splitEntry
	for _, e := range entries {
		if e.color == color {
			same = append(same, e)
		}
	}
	slices.SortStableFunc(same, func(a, b splitEntry) int {
		if a.key != b.key {
			return cmp.Compare(a.key, b.key)
		}
		return cmp.Compare(a.rank, b.rank)
	})

	members := make([]int, len(same))
	var myRank int32
	for i, e := range same {
		members[i] = c.members[e.rank]
		if e.rank == c.rank {
			myRank = int32(i)
		}
	}

	return r.addComm(&communicator{
		ctx:     base + 2*uint64(slices.Index(colors, color)),
		members: members,
		rank:    myRank,
	}), mpi.Success
}

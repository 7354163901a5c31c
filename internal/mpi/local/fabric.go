// Package local implements mpi.Runtime over goroutines sharing one process.
// A Fabric owns N ranks; each rank gets its own Runtime with a private
// handle namespace, exactly like separate processes would.
package local

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/nemanja-m/wasimpi/internal/mpi"
)

// Context ids come in pairs: even for point-to-point traffic, odd for the
// collectives of the same communicator.
const (
	worldContext        uint64 = 0
	selfContext         uint64 = 2
	firstDynamicContext uint64 = 4
)

type Fabric struct {
	boxes   []*mailbox
	ranks   []*Runtime
	nextCtx atomic.Uint64
	start   time.Time

	aborted   chan struct{}
	abortOnce sync.Once
	abortCode atomic.Int32
	onAbort   func(code int32)
}

type Option func(*Fabric)

// WithAbortHandler registers fn to run once when any rank aborts.
func WithAbortHandler(fn func(code int32)) Option {
	return func(f *Fabric) {
		f.onAbort = fn
	}
}

func NewFabric(size int, opts ...Option) *Fabric {
	if size < 1 {
		size = 1
	}

	f := &Fabric{
		boxes:   make([]*mailbox, size),
		ranks:   make([]*Runtime, size),
		start:   time.Now(),
		aborted: make(chan struct{}),
	}
	f.nextCtx.Store(firstDynamicContext)

	for _, opt := range opts {
		opt(f)
	}

	for i := range size {
		f.boxes[i] = &mailbox{}
	}
	for i := range size {
		f.ranks[i] = newRuntime(f, i)
	}
	return f
}

func (f *Fabric) Size() int {
	return len(f.ranks)
}

// Rank returns the runtime for world rank i.
func (f *Fabric) Rank(i int) *Runtime {
	return f.ranks[i]
}

// Aborted reports whether some rank called Abort, and with which code.
func (f *Fabric) Aborted() (int32, bool) {
	select {
	case <-f.aborted:
		return f.abortCode.Load(), true
	default:
		return 0, false
	}
}

func (f *Fabric) abort(code int32) {
	f.abortOnce.Do(func() {
		f.abortCode.Store(code)
		close(f.aborted)
		if f.onAbort != nil {
			f.onAbort(code)
		}
	})
}

// allocContexts reserves n context pairs and returns the first one.
func (f *Fabric) allocContexts(n int) uint64 {
	span := uint64(2 * n)
	return f.nextCtx.Add(span) - span
}

// await blocks until p is matched or the fabric is aborted.
func (f *Fabric) await(p *pending) bool {
	select {
	case <-p.done:
		return true
	default:
	}

	select {
	case <-p.done:
		return true
	case <-f.aborted:
		return false
	}
}

type envelope struct {
	ctx     uint64
	source  int32
	tag     int32
	payload []byte
}

type pending struct {
	ctx    uint64
	source int32
	tag    int32
	msg    *envelope
	done   chan struct{}
}

func newPending(ctx uint64, source, tag int32) *pending {
	return &pending{
		ctx:    ctx,
		source: source,
		tag:    tag,
		done:   make(chan struct{}),
	}
}

func (p *pending) matches(e *envelope) bool {
	return p.ctx == e.ctx &&
		(p.source == mpi.AnySource || p.source == e.source) &&
		(p.tag == mpi.AnyTag || p.tag == e.tag)
}

// mailbox holds the messages addressed to one world rank. Posted receives
// are matched in posting order; unexpected messages in arrival order.
type mailbox struct {
	mu         sync.Mutex
	unexpected []*envelope
	posted     []*pending
}

func (m *mailbox) deliver(e *envelope) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, p := range m.posted {
		if p.matches(e) {
			m.posted = append(m.posted[:i], m.posted[i+1:]...)
			p.msg = e
			close(p.done)
			return
		}
	}
	m.unexpected = append(m.unexpected, e)
}

func (m *mailbox) post(p *pending) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.unexpected {
		if p.matches(e) {
			m.unexpected = append(m.unexpected[:i], m.unexpected[i+1:]...)
			p.msg = e
			close(p.done)
			return
		}
	}
	m.posted = append(m.posted, p)
}

// cancel withdraws an unmatched posted receive.
func (m *mailbox) cancel(p *pending) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, q := range m.posted {
		if q == p {
			m.posted = append(m.posted[:i], m.posted[i+1:]...)
			return
		}
	}
}

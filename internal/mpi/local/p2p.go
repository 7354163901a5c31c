package local

import (
	"encoding/binary"
	"slices"

	"github.com/nemanja-m/wasimpi/internal/mpi"
)

func (r *Runtime) deliver(c *communicator, ctx uint64, dest, tag int32, payload []byte) {
	r.fabric.boxes[c.members[dest]].deliver(&envelope{
		ctx:     ctx,
		source:  c.rank,
		tag:     tag,
		payload: payload,
	})
}

func (r *Runtime) postReceive(ctx uint64, source, tag int32) *pending {
	p := newPending(ctx, source, tag)
	r.fabric.boxes[r.rank].post(p)
	return p
}

func validPeer(c *communicator, rank int32, wildcard bool) bool {
	if wildcard && rank == mpi.AnySource {
		return true
	}
	return rank >= 0 && int(rank) < len(c.members)
}

func validTag(tag int32, wildcard bool) bool {
	return tag >= 0 || wildcard && tag == mpi.AnyTag
}

// copyOut moves a matched payload into buf, flagging truncation.
func copyOut(e *envelope, buf []byte) (mpi.Status, int32) {
	n := copy(buf, e.payload)
	st := mpi.Status{Source: e.source, Tag: e.tag, Count: int64(n)}
	if len(e.payload) > len(buf) {
		st.Error = mpi.ErrTruncate
		return st, mpi.ErrTruncate
	}
	return st, mpi.Success
}

func (r *Runtime) Send(buf []byte, count int32, dt mpi.Datatype, dest, tag int32, comm mpi.Comm) int32 {
	c, code := r.lookupComm(comm)
	if code != mpi.Success {
		return code
	}
	n, code := extent(count, dt)
	if code != mpi.Success {
		return code
	}
	switch {
	case !validPeer(c, dest, false):
		return mpi.ErrRank
	case !validTag(tag, false):
		return mpi.ErrTag
	case len(buf) < n:
		return mpi.ErrBuffer
	}

	r.deliver(c, c.ctx, dest, tag, slices.Clone(buf[:n]))
	return mpi.Success
}

func (r *Runtime) Recv(buf []byte, count int32, dt mpi.Datatype, source, tag int32, comm mpi.Comm) (mpi.Status, int32) {
	req, code := r.Irecv(count, dt, source, tag, comm)
	if code != mpi.Success {
		return mpi.Status{}, code
	}
	return r.Wait(req, buf)
}

func (r *Runtime) Sendrecv(
	sendbuf []byte, sendcount int32, sendtype mpi.Datatype, dest, sendtag int32,
	recvbuf []byte, recvcount int32, recvtype mpi.Datatype, source, recvtag int32,
	comm mpi.Comm,
) (mpi.Status, int32) {
	req, code := r.Irecv(recvcount, recvtype, source, recvtag, comm)
	if code != mpi.Success {
		return mpi.Status{}, code
	}
	if code := r.Send(sendbuf, sendcount, sendtype, dest, sendtag, comm); code != mpi.Success {
		if pending, ok := r.takeRequest(req); ok {
			r.fabric.boxes[r.rank].cancel(pending.pending)
		}
		return mpi.Status{}, code
	}
	return r.Wait(req, recvbuf)
}

func (r *Runtime) Isend(buf []byte, count int32, dt mpi.Datatype, dest, tag int32, comm mpi.Comm) (mpi.Request, int32) {
	if code := r.Send(buf, count, dt, dest, tag, comm); code != mpi.Success {
		return 0, code
	}
	return r.addRequest(&request{send: true}), mpi.Success
}

func (r *Runtime) Irecv(count int32, dt mpi.Datatype, source, tag int32, comm mpi.Comm) (mpi.Request, int32) {
	c, code := r.lookupComm(comm)
	if code != mpi.Success {
		return 0, code
	}
	n, code := extent(count, dt)
	if code != mpi.Success {
		return 0, code
	}
	switch {
	case !validPeer(c, source, true):
		return 0, mpi.ErrRank
	case !validTag(tag, true):
		return 0, mpi.ErrTag
	}

	p := r.postReceive(c.ctx, source, tag)
	return r.addRequest(&request{pending: p, limit: n}), mpi.Success
}

func (r *Runtime) Wait(h mpi.Request, buf []byte) (mpi.Status, int32) {
	req, ok := r.takeRequest(h)
	if !ok {
		return mpi.Status{}, mpi.ErrRequest
	}
	if req.send {
		return mpi.Status{}, mpi.Success
	}
	if !r.fabric.await(req.pending) {
		return mpi.Status{}, mpi.ErrOther
	}
	if len(buf) > req.limit {
		buf = buf[:req.limit]
	}
	return copyOut(req.pending.msg, buf)
}

func putInt32(b []byte, v int32) {
	binary.LittleEndian.PutUint32(b, uint32(v))
}

func getInt32(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b))
}

func putUint64(b []byte, v uint64) {
	binary.LittleEndian.PutUint64(b, v)
}

func getUint64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

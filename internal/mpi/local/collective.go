package local

import (
	"slices"

	"github.com/nemanja-m/wasimpi/internal/mpi"
)

// Collectives travel on the odd context of their communicator with a fixed
// tag. Every member issues collectives in the same order and per-sender
// delivery is FIFO, so matching on the source rank alone is enough.
const collectiveTag int32 = 0

func (r *Runtime) collSend(c *communicator, dest int32, payload []byte) {
	r.deliver(c, c.ctx+1, dest, collectiveTag, payload)
}

func (r *Runtime) collRecv(c *communicator, source int32) ([]byte, bool) {
	p := r.postReceive(c.ctx+1, source, collectiveTag)
	if !r.fabric.await(p) {
		return nil, false
	}
	return p.msg.payload, true
}

// exchange sends payload to every other member and returns all members'
// payloads indexed by rank.
func (r *Runtime) exchange(c *communicator, payload []byte) ([][]byte, bool) {
	size := int32(len(c.members))
	for i := range size {
		if i != c.rank {
			r.collSend(c, i, payload)
		}
	}

	parts := make([][]byte, size)
	for i := range size {
		if i == c.rank {
			parts[i] = payload
			continue
		}
		p, ok := r.collRecv(c, i)
		if !ok {
			return nil, false
		}
		parts[i] = p
	}
	return parts, true
}

// shareContext has rank 0 reserve n context pairs and hands the first one to
// every member.
func (r *Runtime) shareContext(c *communicator, n int) (uint64, bool) {
	if c.rank == 0 {
		ctx := r.fabric.allocContexts(n)
		payload := make([]byte, 8)
		putUint64(payload, ctx)
		for i := int32(1); i < int32(len(c.members)); i++ {
			r.collSend(c, i, payload)
		}
		return ctx, true
	}

	payload, ok := r.collRecv(c, 0)
	if !ok {
		return 0, false
	}
	return getUint64(payload), true
}

func (r *Runtime) Barrier(comm mpi.Comm) int32 {
	c, code := r.lookupComm(comm)
	if code != mpi.Success {
		return code
	}
	if _, ok := r.exchange(c, nil); !ok {
		return mpi.ErrOther
	}
	return mpi.Success
}

func (r *Runtime) Bcast(buf []byte, count int32, dt mpi.Datatype, root int32, comm mpi.Comm) int32 {
	c, code := r.lookupComm(comm)
	if code != mpi.Success {
		return code
	}
	n, code := extent(count, dt)
	if code != mpi.Success {
		return code
	}
	if !validPeer(c, root, false) {
		return mpi.ErrRoot
	}
	if len(buf) < n {
		return mpi.ErrBuffer
	}

	if c.rank == root {
		payload := slices.Clone(buf[:n])
		for i := range int32(len(c.members)) {
			if i != root {
				r.collSend(c, i, payload)
			}
		}
		return mpi.Success
	}

	payload, ok := r.collRecv(c, root)
	if !ok {
		return mpi.ErrOther
	}
	if copy(buf[:n], payload) < len(payload) {
		return mpi.ErrTruncate
	}
	return mpi.Success
}

func (r *Runtime) Gather(
	sendbuf []byte, sendcount int32, sendtype mpi.Datatype,
	recvbuf []byte, recvcount int32, recvtype mpi.Datatype,
	root int32, comm mpi.Comm,
) int32 {
	c, code := r.lookupComm(comm)
	if code != mpi.Success {
		return code
	}
	sn, code := extent(sendcount, sendtype)
	if code != mpi.Success {
		return code
	}
	if !validPeer(c, root, false) {
		return mpi.ErrRoot
	}
	if len(sendbuf) < sn {
		return mpi.ErrBuffer
	}

	if c.rank != root {
		r.collSend(c, root, slices.Clone(sendbuf[:sn]))
		return mpi.Success
	}

	rn, code := extent(recvcount, recvtype)
	if code != mpi.Success {
		return code
	}
	size := len(c.members)
	if len(recvbuf) < size*rn {
		return mpi.ErrBuffer
	}

	result := mpi.Success
	for i := range int32(size) {
		part := sendbuf[:sn]
		if i != root {
			p, ok := r.collRecv(c, i)
			if !ok {
				return mpi.ErrOther
			}
			part = p
		}
		if copy(recvbuf[int(i)*rn:int(i+1)*rn], part) < len(part) {
			result = mpi.ErrTruncate
		}
	}
	return result
}

func (r *Runtime) Scatter(
	sendbuf []byte, sendcount int32, sendtype mpi.Datatype,
	recvbuf []byte, recvcount int32, recvtype mpi.Datatype,
	root int32, comm mpi.Comm,
) int32 {
	c, code := r.lookupComm(comm)
	if code != mpi.Success {
		return code
	}
	rn, code := extent(recvcount, recvtype)
	if code != mpi.Success {
		return code
	}
	if !validPeer(c, root, false) {
		return mpi.ErrRoot
	}
	if len(recvbuf) < rn {
		return mpi.ErrBuffer
	}

	if c.rank != root {
		payload, ok := r.collRecv(c, root)
		if !ok {
			return mpi.ErrOther
		}
		if copy(recvbuf[:rn], payload) < len(payload) {
			return mpi.ErrTruncate
		}
		return mpi.Success
	}

	sn, code := extent(sendcount, sendtype)
	if code != mpi.Success {
		return code
	}
	size := len(c.members)
	if len(sendbuf) < size*sn {
		return mpi.ErrBuffer
	}

	result := mpi.Success
	for i := range int32(size) {
		chunk := sendbuf[int(i)*sn : int(i+1)*sn]
		if i == root {
			if copy(recvbuf[:rn], chunk) < len(chunk) {
				result = mpi.ErrTruncate
			}
			continue
		}
		r.collSend(c, i, slices.Clone(chunk))
	}
	return result
}

func (r *Runtime) Allgather(
	sendbuf []byte, sendcount int32, sendtype mpi.Datatype,
	recvbuf []byte, recvcount int32, recvtype mpi.Datatype,
	comm mpi.Comm,
) int32 {
	c, code := r.lookupComm(comm)
	if code != mpi.Success {
		return code
	}
	sn, code := extent(sendcount, sendtype)
	if code != mpi.Success {
		return code
	}
	rn, code := extent(recvcount, recvtype)
	if code != mpi.Success {
		return code
	}
	size := len(c.members)
	if len(sendbuf) < sn || len(recvbuf) < size*rn {
		return mpi.ErrBuffer
	}

	parts, ok := r.exchange(c, slices.Clone(sendbuf[:sn]))
	if !ok {
		return mpi.ErrOther
	}

	result := mpi.Success
	for i, part := range parts {
		if copy(recvbuf[i*rn:(i+1)*rn], part) < len(part) {
			result = mpi.ErrTruncate
		}
	}
	return result
}

func (r *Runtime) Alltoall(
	sendbuf []byte, sendcount int32, sendtype mpi.Datatype,
	recvbuf []byte, recvcount int32, recvtype mpi.Datatype,
	comm mpi.Comm,
) int32 {
	c, code := r.lookupComm(comm)
	if code != mpi.Success {
		return code
	}
	size := len(c.members)

	sendcounts := make([]int32, size)
	recvcounts := make([]int32, size)
	sdispls := make([]int32, size)
	rdispls := make([]int32, size)
	for i := range size {
		sendcounts[i] = sendcount
		recvcounts[i] = recvcount
		sdispls[i] = int32(i) * sendcount
		rdispls[i] = int32(i) * recvcount
	}
	return r.alltoallv(c, sendbuf, sendcounts, sdispls, sendtype, recvbuf, recvcounts, rdispls, recvtype)
}

func (r *Runtime) Alltoallv(
	sendbuf []byte, sendcounts, sdispls []int32, sendtype mpi.Datatype,
	recvbuf []byte, recvcounts, rdispls []int32, recvtype mpi.Datatype,
	comm mpi.Comm,
) int32 {
	c, code := r.lookupComm(comm)
	if code != mpi.Success {
		return code
	}
	return r.alltoallv(c, sendbuf, sendcounts, sdispls, sendtype, recvbuf, recvcounts, rdispls, recvtype)
}

// window returns buf[displ*width : (displ+count)*width] if it fits.
func window(buf []byte, displ, count int32, width int) ([]byte, int32) {
	if count < 0 {
		return nil, mpi.ErrCount
	}
	if displ < 0 {
		return nil, mpi.ErrArg
	}
	lo := int(displ) * width
	hi := lo + int(count)*width
	if hi > len(buf) {
		return nil, mpi.ErrBuffer
	}
	return buf[lo:hi], mpi.Success
}

func (r *Runtime) alltoallv(
	c *communicator,
	sendbuf []byte, sendcounts, sdispls []int32, sendtype mpi.Datatype,
	recvbuf []byte, recvcounts, rdispls []int32, recvtype mpi.Datatype,
) int32 {
	size := len(c.members)
	st, ok := basicType(sendtype)
	if !ok {
		return mpi.ErrType
	}
	rt, ok := basicType(recvtype)
	if !ok {
		return mpi.ErrType
	}
	if len(sendcounts) < size || len(sdispls) < size || len(recvcounts) < size || len(rdispls) < size {
		return mpi.ErrCount
	}

	chunks := make([][]byte, size)
	for i := range size {
		chunk, code := window(sendbuf, sdispls[i], sendcounts[i], st.Size())
		if code != mpi.Success {
			return code
		}
		chunks[i] = chunk
	}
	targets := make([][]byte, size)
	for i := range size {
		target, code := window(recvbuf, rdispls[i], recvcounts[i], rt.Size())
		if code != mpi.Success {
			return code
		}
		targets[i] = target
	}

	for i := range int32(size) {
		if i != c.rank {
			r.collSend(c, i, slices.Clone(chunks[i]))
		}
	}

	result := mpi.Success
	for i := range int32(size) {
		part := chunks[i]
		if i != c.rank {
			p, ok := r.collRecv(c, i)
			if !ok {
				return mpi.ErrOther
			}
			part = p
		}
		if copy(targets[i], part) < len(part) {
			result = mpi.ErrTruncate
		}
	}
	return result
}

func (r *Runtime) reduceArgs(count int32, dt mpi.Datatype, op mpi.Op) (int, mpi.BasicType, mpi.OpKind, int32) {
	n, code := extent(count, dt)
	if code != mpi.Success {
		return 0, 0, 0, code
	}
	t, _ := basicType(dt)
	k, ok := opKind(op)
	if !ok {
		return 0, 0, 0, mpi.ErrOp
	}
	// Checked on every rank, before any data moves.
	if t.Float() && (k == mpi.OpBand || k == mpi.OpBor) {
		return 0, 0, 0, mpi.ErrOp
	}
	return n, t, k, mpi.Success
}

// fold combines the contributions in rank order.
func fold(parts [][]byte, n int, t mpi.BasicType, k mpi.OpKind) ([]byte, int32) {
	acc := slices.Clone(parts[0][:n])
	for _, part := range parts[1:] {
		if len(part) < n {
			return nil, mpi.ErrTruncate
		}
		if code := combine(acc, part[:n], t, k); code != mpi.Success {
			return nil, code
		}
	}
	return acc, mpi.Success
}

func (r *Runtime) Reduce(sendbuf, recvbuf []byte, count int32, dt mpi.Datatype, op mpi.Op, root int32, comm mpi.Comm) int32 {
	c, code := r.lookupComm(comm)
	if code != mpi.Success {
		return code
	}
	n, t, k, code := r.reduceArgs(count, dt, op)
	if code != mpi.Success {
		return code
	}
	if !validPeer(c, root, false) {
		return mpi.ErrRoot
	}
	if len(sendbuf) < n {
		return mpi.ErrBuffer
	}

	if c.rank != root {
		r.collSend(c, root, slices.Clone(sendbuf[:n]))
		return mpi.Success
	}
	if len(recvbuf) < n {
		return mpi.ErrBuffer
	}

	parts := make([][]byte, len(c.members))
	for i := range int32(len(c.members)) {
		if i == root {
			parts[i] = sendbuf[:n]
			continue
		}
		p, ok := r.collRecv(c, i)
		if !ok {
			return mpi.ErrOther
		}
		parts[i] = p
	}

	acc, code := fold(parts, n, t, k)
	if code != mpi.Success {
		return code
	}
	copy(recvbuf, acc)
	return mpi.Success
}

func (r *Runtime) Allreduce(sendbuf, recvbuf []byte, count int32, dt mpi.Datatype, op mpi.Op, comm mpi.Comm) int32 {
	c, code := r.lookupComm(comm)
	if code != mpi.Success {
		return code
	}
	n, t, k, code := r.reduceArgs(count, dt, op)
	if code != mpi.Success {
		return code
	}
	if len(sendbuf) < n || len(recvbuf) < n {
		return mpi.ErrBuffer
	}

	parts, ok := r.exchange(c, slices.Clone(sendbuf[:n]))
	if !ok {
		return mpi.ErrOther
	}

	acc, code := fold(parts, n, t, k)
	if code != mpi.Success {
		return code
	}
	copy(recvbuf, acc)
	return mpi.Success
}

package bridge

import (
	"github.com/nemanja-m/wasimpi/internal/mpi"
)

func (b *Bridge) Send(mem *Memory, bufAddr uint32, count, datatype, dest, tag, comm int32) int32 {
	const op = "MPI_Send"
	dt := b.datatype(op, datatype)
	c := b.comm(op, comm)

	buf, code := b.buffer(op, mem, bufAddr, int64(count), dt)
	if code != mpi.Success {
		return code
	}
	return b.rt.Send(buf, count, dt, dest, tag, c)
}

func (b *Bridge) Recv(mem *Memory, bufAddr uint32, count, datatype, source, tag, comm int32, statusAddr uint32) int32 {
	const op = "MPI_Recv"
	dt := b.datatype(op, datatype)
	c := b.comm(op, comm)

	buf, code := b.buffer(op, mem, bufAddr, int64(count), dt)
	if code != mpi.Success {
		return code
	}
	b.statusSlot(op, mem, statusAddr)

	st, code := b.rt.Recv(buf, count, dt, source, tag, c)
	b.putStatus(op, mem, statusAddr, st)
	return code
}

func (b *Bridge) Sendrecv(
	mem *Memory,
	sendAddr uint32, sendcount, sendtype, dest, sendtag int32,
	recvAddr uint32, recvcount, recvtype, source, recvtag int32,
	comm int32, statusAddr uint32,
) int32 {
	const op = "MPI_Sendrecv"
	sdt := b.datatype(op, sendtype)
	rdt := b.datatype(op, recvtype)
	c := b.comm(op, comm)

	sendbuf, code := b.buffer(op, mem, sendAddr, int64(sendcount), sdt)
	if code != mpi.Success {
		return code
	}
	recvbuf, code := b.buffer(op, mem, recvAddr, int64(recvcount), rdt)
	if code != mpi.Success {
		return code
	}
	b.statusSlot(op, mem, statusAddr)

	st, code := b.rt.Sendrecv(
		sendbuf, sendcount, sdt, dest, sendtag,
		recvbuf, recvcount, rdt, source, recvtag,
		c,
	)
	b.putStatus(op, mem, statusAddr, st)
	return code
}

func (b *Bridge) Isend(mem *Memory, bufAddr uint32, count, datatype, dest, tag, comm int32, reqAddr uint32) int32 {
	const op = "MPI_Isend"
	dt := b.datatype(op, datatype)
	c := b.comm(op, comm)

	buf, code := b.buffer(op, mem, bufAddr, int64(count), dt)
	if code != mpi.Success {
		return code
	}
	b.slot(op, mem, reqAddr)

	native, code := b.rt.Isend(buf, count, dt, dest, tag, c)
	if code != mpi.Success {
		return code
	}
	id, entry := b.requests.Allocate()
	*entry = request{native: native}
	b.put(op, mem, reqAddr, id)
	return code
}

func (b *Bridge) Irecv(mem *Memory, bufAddr uint32, count, datatype, source, tag, comm int32, reqAddr uint32) int32 {
	const op = "MPI_Irecv"
	dt := b.datatype(op, datatype)
	c := b.comm(op, comm)

	buf, code := b.buffer(op, mem, bufAddr, int64(count), dt)
	if code != mpi.Success {
		return code
	}
	b.slot(op, mem, reqAddr)

	native, code := b.rt.Irecv(count, dt, source, tag, c)
	if code != mpi.Success {
		return code
	}
	id, entry := b.requests.Allocate()
	*entry = request{native: native, recv: true, addr: bufAddr, size: int64(len(buf))}
	b.put(op, mem, reqAddr, id)
	return code
}

// Wait completes a request and releases its handle. The request variable in
// sandbox memory is left as it was.
func (b *Bridge) Wait(mem *Memory, reqAddr, statusAddr uint32) int32 {
	const op = "MPI_Wait"
	id, err := mem.Int32(reqAddr)
	b.check(op, err)
	req, err := b.requests.Lookup(id)
	b.check(op, err)
	b.statusSlot(op, mem, statusAddr)

	var buf []byte
	if req.recv {
		buf, err = mem.Bytes(req.addr, req.size)
		b.check(op, err)
	}

	st, code := b.rt.Wait(req.native, buf)
	b.check(op, b.requests.Free(id))
	b.putStatus(op, mem, statusAddr, st)
	return code
}

func (b *Bridge) Waitall(count int32, reqsAddr, statusesAddr uint32) int32 {
	b.unsupported("MPI_Waitall")
	return 0
}

// GetCount derives the element count of a completed receive from the byte
// count recorded in its status.
func (b *Bridge) GetCount(mem *Memory, statusAddr uint32, datatype int32, countAddr uint32) int32 {
	const op = "MPI_Get_count"
	dt := b.datatype(op, datatype)
	st, err := mem.Status(statusAddr)
	b.check(op, err)
	b.slot(op, mem, countAddr)

	size, code := b.rt.TypeSize(dt)
	if code != mpi.Success {
		return code
	}

	count := Undefined
	switch {
	case size == 0 && st.Count == 0:
		count = 0
	case size > 0 && st.Count%int64(size) == 0:
		count = int32(st.Count / int64(size))
	}
	b.put(op, mem, countAddr, count)
	return mpi.Success
}

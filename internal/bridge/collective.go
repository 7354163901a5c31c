package bridge

import (
	"fmt"
	"slices"

	"github.com/nemanja-m/wasimpi/internal/mpi"
)

func (b *Bridge) Barrier(comm int32) int32 {
	return b.rt.Barrier(b.comm("MPI_Barrier", comm))
}

func (b *Bridge) Bcast(mem *Memory, bufAddr uint32, count, datatype, root, comm int32) int32 {
	const op = "MPI_Bcast"
	dt := b.datatype(op, datatype)
	c := b.comm(op, comm)

	buf, code := b.buffer(op, mem, bufAddr, int64(count), dt)
	if code != mpi.Success {
		return code
	}
	return b.rt.Bcast(buf, count, dt, root, c)
}

// isRoot reports whether the caller is root of c.
func (b *Bridge) isRoot(c mpi.Comm, root int32) (bool, int32) {
	rank, code := b.rt.CommRank(c)
	if code != mpi.Success {
		return false, code
	}
	return rank == root, mpi.Success
}

// spread resolves a buffer holding count elements for every member of c.
func (b *Bridge) spread(op string, mem *Memory, addr uint32, count int32, dt mpi.Datatype, c mpi.Comm) ([]byte, int32) {
	size, code := b.rt.CommSize(c)
	if code != mpi.Success {
		return nil, code
	}
	return b.buffer(op, mem, addr, int64(count)*int64(size), dt)
}

func (b *Bridge) Gather(
	mem *Memory,
	sendAddr uint32, sendcount, sendtype int32,
	recvAddr uint32, recvcount, recvtype int32,
	root, comm int32,
) int32 {
	const op = "MPI_Gather"
	sdt := b.datatype(op, sendtype)
	rdt := b.datatype(op, recvtype)
	c := b.comm(op, comm)

	sendbuf, code := b.buffer(op, mem, sendAddr, int64(sendcount), sdt)
	if code != mpi.Success {
		return code
	}
	atRoot, code := b.isRoot(c, root)
	if code != mpi.Success {
		return code
	}
	var recvbuf []byte
	if atRoot {
		if recvbuf, code = b.spread(op, mem, recvAddr, recvcount, rdt, c); code != mpi.Success {
			return code
		}
	}
	return b.rt.Gather(sendbuf, sendcount, sdt, recvbuf, recvcount, rdt, root, c)
}

func (b *Bridge) Scatter(
	mem *Memory,
	sendAddr uint32, sendcount, sendtype int32,
	recvAddr uint32, recvcount, recvtype int32,
	root, comm int32,
) int32 {
	const op = "MPI_Scatter"
	sdt := b.datatype(op, sendtype)
	rdt := b.datatype(op, recvtype)
	c := b.comm(op, comm)

	recvbuf, code := b.buffer(op, mem, recvAddr, int64(recvcount), rdt)
	if code != mpi.Success {
		return code
	}
	atRoot, code := b.isRoot(c, root)
	if code != mpi.Success {
		return code
	}
	var sendbuf []byte
	if atRoot {
		if sendbuf, code = b.spread(op, mem, sendAddr, sendcount, sdt, c); code != mpi.Success {
			return code
		}
	}
	return b.rt.Scatter(sendbuf, sendcount, sdt, recvbuf, recvcount, rdt, root, c)
}

func (b *Bridge) Allgather(
	mem *Memory,
	sendAddr uint32, sendcount, sendtype int32,
	recvAddr uint32, recvcount, recvtype int32,
	comm int32,
) int32 {
	const op = "MPI_Allgather"
	sdt := b.datatype(op, sendtype)
	rdt := b.datatype(op, recvtype)
	c := b.comm(op, comm)

	sendbuf, code := b.buffer(op, mem, sendAddr, int64(sendcount), sdt)
	if code != mpi.Success {
		return code
	}
	recvbuf, code := b.spread(op, mem, recvAddr, recvcount, rdt, c)
	if code != mpi.Success {
		return code
	}
	return b.rt.Allgather(sendbuf, sendcount, sdt, recvbuf, recvcount, rdt, c)
}

func (b *Bridge) Alltoall(
	mem *Memory,
	sendAddr uint32, sendcount, sendtype int32,
	recvAddr uint32, recvcount, recvtype int32,
	comm int32,
) int32 {
	const op = "MPI_Alltoall"
	sdt := b.datatype(op, sendtype)
	rdt := b.datatype(op, recvtype)
	c := b.comm(op, comm)

	sendbuf, code := b.spread(op, mem, sendAddr, sendcount, sdt, c)
	if code != mpi.Success {
		return code
	}
	recvbuf, code := b.spread(op, mem, recvAddr, recvcount, rdt, c)
	if code != mpi.Success {
		return code
	}
	return b.rt.Alltoall(sendbuf, sendcount, sdt, recvbuf, recvcount, rdt, c)
}

// span is the number of elements a counts/displacements pair reaches into.
func span(counts, displs []int32) (int64, error) {
	var n int64
	for i := range counts {
		if counts[i] < 0 || displs[i] < 0 {
			return 0, fmt.Errorf("block %d has count %d at displacement %d: %w", i, counts[i], displs[i], ErrOutOfBounds)
		}
		if counts[i] > 0 {
			n = max(n, int64(displs[i])+int64(counts[i]))
		}
	}
	return n, nil
}

func (b *Bridge) Alltoallv(
	mem *Memory,
	sendAddr, sendcountsAddr, sdisplsAddr uint32, sendtype int32,
	recvAddr, recvcountsAddr, rdisplsAddr uint32, recvtype int32,
	comm int32,
) int32 {
	const op = "MPI_Alltoallv"
	sdt := b.datatype(op, sendtype)
	rdt := b.datatype(op, recvtype)
	c := b.comm(op, comm)

	size, code := b.rt.CommSize(c)
	if code != mpi.Success {
		return code
	}

	vectors := make([][]int32, 4)
	for i, addr := range []uint32{sendcountsAddr, sdisplsAddr, recvcountsAddr, rdisplsAddr} {
		v, err := mem.Int32s(addr, size)
		b.check(op, err)
		vectors[i] = v
	}
	sendcounts, sdispls, recvcounts, rdispls := vectors[0], vectors[1], vectors[2], vectors[3]

	sendExtent, err := span(sendcounts, sdispls)
	b.check(op, err)
	recvExtent, err := span(recvcounts, rdispls)
	b.check(op, err)

	sendbuf, code := b.buffer(op, mem, sendAddr, sendExtent, sdt)
	if code != mpi.Success {
		return code
	}
	recvbuf, code := b.buffer(op, mem, recvAddr, recvExtent, rdt)
	if code != mpi.Success {
		return code
	}
	return b.rt.Alltoallv(sendbuf, sendcounts, sdispls, sdt, recvbuf, recvcounts, rdispls, rdt, c)
}

func (b *Bridge) Reduce(mem *Memory, sendAddr, recvAddr uint32, count, datatype, reduceOp, root, comm int32) int32 {
	const op = "MPI_Reduce"
	dt := b.datatype(op, datatype)
	o := b.reduceOp(op, reduceOp)
	c := b.comm(op, comm)

	atRoot, code := b.isRoot(c, root)
	if code != mpi.Success {
		return code
	}

	var sendbuf, recvbuf []byte
	if atRoot {
		if recvbuf, code = b.buffer(op, mem, recvAddr, int64(count), dt); code != mpi.Success {
			return code
		}
	}
	if atRoot && sendAddr == InPlace {
		sendbuf = slices.Clone(recvbuf)
	} else if sendbuf, code = b.buffer(op, mem, sendAddr, int64(count), dt); code != mpi.Success {
		return code
	}
	return b.rt.Reduce(sendbuf, recvbuf, count, dt, o, root, c)
}

func (b *Bridge) Allreduce(mem *Memory, sendAddr, recvAddr uint32, count, datatype, reduceOp, comm int32) int32 {
	const op = "MPI_Allreduce"
	dt := b.datatype(op, datatype)
	o := b.reduceOp(op, reduceOp)
	c := b.comm(op, comm)

	recvbuf, code := b.buffer(op, mem, recvAddr, int64(count), dt)
	if code != mpi.Success {
		return code
	}

	var sendbuf []byte
	if sendAddr == InPlace {
		sendbuf = slices.Clone(recvbuf)
	} else if sendbuf, code = b.buffer(op, mem, sendAddr, int64(count), dt); code != mpi.Success {
		return code
	}
	return b.rt.Allreduce(sendbuf, recvbuf, count, dt, o, c)
}

func (b *Bridge) OpCreate(function, commute int32, opAddr uint32) int32 {
	b.unsupported("MPI_Op_create")
	return 0
}

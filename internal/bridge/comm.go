package bridge

import (
	"fmt"
	"math"

	"github.com/nemanja-m/wasimpi/internal/mpi"
)

func (b *Bridge) CommRank(mem *Memory, comm int32, rankAddr uint32) int32 {
	const op = "MPI_Comm_rank"
	c := b.comm(op, comm)
	b.slot(op, mem, rankAddr)

	rank, code := b.rt.CommRank(c)
	if code == mpi.Success {
		b.put(op, mem, rankAddr, rank)
	}
	return code
}

func (b *Bridge) CommSize(mem *Memory, comm int32, sizeAddr uint32) int32 {
	const op = "MPI_Comm_size"
	c := b.comm(op, comm)
	b.slot(op, mem, sizeAddr)

	size, code := b.rt.CommSize(c)
	if code == mpi.Success {
		b.put(op, mem, sizeAddr, size)
	}
	return code
}

func (b *Bridge) CommCompare(mem *Memory, comm1, comm2 int32, resultAddr uint32) int32 {
	const op = "MPI_Comm_compare"
	c1 := b.comm(op, comm1)
	c2 := b.comm(op, comm2)
	b.slot(op, mem, resultAddr)

	result, code := b.rt.CommCompare(c1, c2)
	if code == mpi.Success {
		b.put(op, mem, resultAddr, int32(result))
	}
	return code
}

// bindComm records a communicator produced by create or split. A null
// result releases the fresh entry and reports the well-known null handle.
func (b *Bridge) bindComm(op string, mem *Memory, addr uint32, produce func() (mpi.Comm, int32)) int32 {
	id, entry := b.comms.Allocate()
	native, code := produce()
	if code != mpi.Success {
		b.check(op, b.comms.Free(id))
		return code
	}

	*entry = native
	if native == b.rt.CommNull() {
		b.check(op, b.comms.Free(id))
		id = CommNull
	}
	b.put(op, mem, addr, id)
	return code
}

func (b *Bridge) CommCreate(mem *Memory, comm, group int32, newAddr uint32) int32 {
	const op = "MPI_Comm_create"
	c := b.comm(op, comm)
	g := b.group(op, group)
	b.slot(op, mem, newAddr)

	return b.bindComm(op, mem, newAddr, func() (mpi.Comm, int32) {
		return b.rt.CommCreate(c, g)
	})
}

func (b *Bridge) CommSplit(mem *Memory, comm, color, key int32, newAddr uint32) int32 {
	const op = "MPI_Comm_split"
	c := b.comm(op, comm)
	b.slot(op, mem, newAddr)

	return b.bindComm(op, mem, newAddr, func() (mpi.Comm, int32) {
		return b.rt.CommSplit(c, color, key)
	})
}

// CommFree releases the communicator named at commAddr and overwrites the
// variable with the null handle.
func (b *Bridge) CommFree(mem *Memory, commAddr uint32) int32 {
	const op = "MPI_Comm_free"
	id, err := mem.Int32(commAddr)
	b.check(op, err)
	c := b.comm(op, id)

	code := b.rt.CommFree(c)
	if code != mpi.Success {
		return code
	}
	b.check(op, b.comms.Free(id))
	b.put(op, mem, commAddr, CommNull)
	return code
}

func (b *Bridge) CommGroup(mem *Memory, comm int32, groupAddr uint32) int32 {
	const op = "MPI_Comm_group"
	c := b.comm(op, comm)
	b.slot(op, mem, groupAddr)

	g, code := b.rt.CommGroup(c)
	if code != mpi.Success {
		return code
	}
	id, entry := b.groups.Allocate()
	*entry = g
	b.put(op, mem, groupAddr, id)
	return code
}

func (b *Bridge) GroupFree(mem *Memory, groupAddr uint32) int32 {
	const op = "MPI_Group_free"
	id, err := mem.Int32(groupAddr)
	b.check(op, err)
	g := b.group(op, id)

	code := b.rt.GroupFree(g)
	if code != mpi.Success {
		return code
	}
	b.check(op, b.groups.Free(id))
	return code
}

func (b *Bridge) GroupRangeIncl(mem *Memory, group, n int32, rangesAddr, newAddr uint32) int32 {
	const op = "MPI_Group_range_incl"
	g := b.group(op, group)
	if n < 0 || n > math.MaxInt32/3 {
		b.fatal(op, fmt.Errorf("range count %d: %w", n, ErrOutOfBounds))
	}
	flat, err := mem.Int32s(rangesAddr, 3*n)
	b.check(op, err)
	b.slot(op, mem, newAddr)

	ranges := make([][3]int32, n)
	for i := range ranges {
		ranges[i] = [3]int32{flat[3*i], flat[3*i+1], flat[3*i+2]}
	}

	ng, code := b.rt.GroupRangeIncl(g, ranges)
	if code != mpi.Success {
		return code
	}
	id, entry := b.groups.Allocate()
	*entry = ng
	b.put(op, mem, newAddr, id)
	return code
}

func (b *Bridge) GroupTranslateRanks(mem *Memory, group1, n int32, ranks1Addr uint32, group2 int32, ranks2Addr uint32) int32 {
	const op = "MPI_Group_translate_ranks"
	g1 := b.group(op, group1)
	g2 := b.group(op, group2)
	ranks, err := mem.Int32s(ranks1Addr, n)
	b.check(op, err)
	_, err = mem.Elems(ranks2Addr, int64(n), 4)
	b.check(op, err)

	out, code := b.rt.GroupTranslateRanks(g1, ranks, g2)
	if code != mpi.Success {
		return code
	}
	b.check(op, mem.PutInt32s(ranks2Addr, out))
	return code
}

func (b *Bridge) TypeSize(mem *Memory, datatype int32, sizeAddr uint32) int32 {
	const op = "MPI_Type_size"
	dt := b.datatype(op, datatype)
	b.slot(op, mem, sizeAddr)

	size, code := b.rt.TypeSize(dt)
	if code == mpi.Success {
		b.put(op, mem, sizeAddr, size)
	}
	return code
}

func (b *Bridge) TypeFree(datatypeAddr uint32) int32 {
	b.unsupported("MPI_Type_free")
	return 0
}

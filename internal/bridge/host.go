package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// ModuleName is the import module sandboxed code resolves MPI symbols from.
const ModuleName = "env"

// Instantiate registers the bridge as a host module of r.
func (b *Bridge) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	mod, err := b.HostModule(r).Instantiate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate %q host module: %w", ModuleName, err)
	}
	return mod, nil
}

func (b *Bridge) memory(op string, m api.Module) *Memory {
	mem := m.Memory()
	if mem == nil {
		b.fatal(op, errors.New("module exports no memory"))
	}
	return NewMemory(mem)
}

// HostModule builds the host module without instantiating it.
func (b *Bridge) HostModule(r wazero.Runtime) wazero.HostModuleBuilder {
	mb := r.NewHostModuleBuilder(ModuleName)
	export := func(name string, fn any) {
		mb.NewFunctionBuilder().WithFunc(fn).Export(name)
	}

	// environment
	export("MPI_Init", func(ctx context.Context, argc, argv int32) int32 {
		return b.Init(argc, argv)
	})
	export("MPI_Initialized", func(ctx context.Context, m api.Module, flag uint32) int32 {
		return b.Initialized(b.memory("MPI_Initialized", m), flag)
	})
	export("MPI_Finalize", func(ctx context.Context) int32 {
		return b.Finalize()
	})
	export("MPI_Abort", func(ctx context.Context, comm, errorcode int32) int32 {
		return b.Abort(comm, errorcode)
	})
	export("MPI_Wtime", func(ctx context.Context) float64 {
		return b.Wtime()
	})
	export("gethostname", func(ctx context.Context, m api.Module, name uint32, length int32) int32 {
		return b.Gethostname(b.memory("gethostname", m), name, length)
	})
	export("__cxa_allocate_exception", func(ctx context.Context, size int32) int32 {
		return b.CxaAllocateException(size)
	})
	export("__cxa_throw", func(ctx context.Context, ptr, typ, destructor int32) {
		b.CxaThrow(ptr, typ, destructor)
	})
	export("MPI_Alloc_mem", func(ctx context.Context, m api.Module, size, info int32, baseptr uint32) int32 {
		return b.AllocMem(ctx, b.memory("MPI_Alloc_mem", m), guestHeap{m}, size, info, baseptr)
	})
	export("MPI_Free_mem", func(ctx context.Context, m api.Module, base uint32) int32 {
		return b.FreeMem(ctx, guestHeap{m}, base)
	})

	// point-to-point
	export("MPI_Send", func(ctx context.Context, m api.Module, buf uint32, count, datatype, dest, tag, comm int32) int32 {
		return b.Send(b.memory("MPI_Send", m), buf, count, datatype, dest, tag, comm)
	})
	export("MPI_Recv", func(ctx context.Context, m api.Module, buf uint32, count, datatype, source, tag, comm int32, status uint32) int32 {
		return b.Recv(b.memory("MPI_Recv", m), buf, count, datatype, source, tag, comm, status)
	})
	export("MPI_Sendrecv", func(
		ctx context.Context, m api.Module,
		sendbuf uint32, sendcount, sendtype, dest, sendtag int32,
		recvbuf uint32, recvcount, recvtype, source, recvtag int32,
		comm int32, status uint32,
	) int32 {
		return b.Sendrecv(b.memory("MPI_Sendrecv", m),
			sendbuf, sendcount, sendtype, dest, sendtag,
			recvbuf, recvcount, recvtype, source, recvtag,
			comm, status)
	})
	export("MPI_Isend", func(ctx context.Context, m api.Module, buf uint32, count, datatype, dest, tag, comm int32, req uint32) int32 {
		return b.Isend(b.memory("MPI_Isend", m), buf, count, datatype, dest, tag, comm, req)
	})
	export("MPI_Irecv", func(ctx context.Context, m api.Module, buf uint32, count, datatype, source, tag, comm int32, req uint32) int32 {
		return b.Irecv(b.memory("MPI_Irecv", m), buf, count, datatype, source, tag, comm, req)
	})
	export("MPI_Wait", func(ctx context.Context, m api.Module, req, status uint32) int32 {
		return b.Wait(b.memory("MPI_Wait", m), req, status)
	})
	export("MPI_Waitall", func(ctx context.Context, count int32, reqs, statuses uint32) int32 {
		return b.Waitall(count, reqs, statuses)
	})
	export("MPI_Get_count", func(ctx context.Context, m api.Module, status uint32, datatype int32, count uint32) int32 {
		return b.GetCount(b.memory("MPI_Get_count", m), status, datatype, count)
	})

	// collectives
	export("MPI_Barrier", func(ctx context.Context, comm int32) int32 {
		return b.Barrier(comm)
	})
	export("MPI_Bcast", func(ctx context.Context, m api.Module, buf uint32, count, datatype, root, comm int32) int32 {
		return b.Bcast(b.memory("MPI_Bcast", m), buf, count, datatype, root, comm)
	})
	export("MPI_Gather", func(
		ctx context.Context, m api.Module,
		sendbuf uint32, sendcount, sendtype int32,
		recvbuf uint32, recvcount, recvtype int32,
		root, comm int32,
	) int32 {
		return b.Gather(b.memory("MPI_Gather", m), sendbuf, sendcount, sendtype, recvbuf, recvcount, recvtype, root, comm)
	})
	export("MPI_Scatter", func(
		ctx context.Context, m api.Module,
		sendbuf uint32, sendcount, sendtype int32,
		recvbuf uint32, recvcount, recvtype int32,
		root, comm int32,
	) int32 {
		return b.Scatter(b.memory("MPI_Scatter", m), sendbuf, sendcount, sendtype, recvbuf, recvcount, recvtype, root, comm)
	})
	export("MPI_Allgather", func(
		ctx context.Context, m api.Module,
		sendbuf uint32, sendcount, sendtype int32,
		recvbuf uint32, recvcount, recvtype int32,
		comm int32,
	) int32 {
		return b.Allgather(b.memory("MPI_Allgather", m), sendbuf, sendcount, sendtype, recvbuf, recvcount, recvtype, comm)
	})
	export("MPI_Alltoall", func(
		ctx context.Context, m api.Module,
		sendbuf uint32, sendcount, sendtype int32,
		recvbuf uint32, recvcount, recvtype int32,
		comm int32,
	) int32 {
		return b.Alltoall(b.memory("MPI_Alltoall", m), sendbuf, sendcount, sendtype, recvbuf, recvcount, recvtype, comm)
	})
	export("MPI_Alltoallv", func(
		ctx context.Context, m api.Module,
		sendbuf, sendcounts, sdispls uint32, sendtype int32,
		recvbuf, recvcounts, rdispls uint32, recvtype int32,
		comm int32,
	) int32 {
		return b.Alltoallv(b.memory("MPI_Alltoallv", m),
			sendbuf, sendcounts, sdispls, sendtype,
			recvbuf, recvcounts, rdispls, recvtype,
			comm)
	})
	export("MPI_Reduce", func(ctx context.Context, m api.Module, sendbuf, recvbuf uint32, count, datatype, op, root, comm int32) int32 {
		return b.Reduce(b.memory("MPI_Reduce", m), sendbuf, recvbuf, count, datatype, op, root, comm)
	})
	export("MPI_Allreduce", func(ctx context.Context, m api.Module, sendbuf, recvbuf uint32, count, datatype, op, comm int32) int32 {
		return b.Allreduce(b.memory("MPI_Allreduce", m), sendbuf, recvbuf, count, datatype, op, comm)
	})
	export("MPI_Op_create", func(ctx context.Context, function, commute int32, op uint32) int32 {
		return b.OpCreate(function, commute, op)
	})

	// communicators, groups, datatypes
	export("MPI_Comm_rank", func(ctx context.Context, m api.Module, comm int32, rank uint32) int32 {
		return b.CommRank(b.memory("MPI_Comm_rank", m), comm, rank)
	})
	export("MPI_Comm_size", func(ctx context.Context, m api.Module, comm int32, size uint32) int32 {
		return b.CommSize(b.memory("MPI_Comm_size", m), comm, size)
	})
	export("MPI_Comm_compare", func(ctx context.Context, m api.Module, comm1, comm2 int32, result uint32) int32 {
		return b.CommCompare(b.memory("MPI_Comm_compare", m), comm1, comm2, result)
	})
	export("MPI_Comm_create", func(ctx context.Context, m api.Module, comm, group int32, newcomm uint32) int32 {
		return b.CommCreate(b.memory("MPI_Comm_create", m), comm, group, newcomm)
	})
	export("MPI_Comm_split", func(ctx context.Context, m api.Module, comm, color, key int32, newcomm uint32) int32 {
		return b.CommSplit(b.memory("MPI_Comm_split", m), comm, color, key, newcomm)
	})
	export("MPI_Comm_free", func(ctx context.Context, m api.Module, comm uint32) int32 {
		return b.CommFree(b.memory("MPI_Comm_free", m), comm)
	})
	export("MPI_Comm_group", func(ctx context.Context, m api.Module, comm int32, group uint32) int32 {
		return b.CommGroup(b.memory("MPI_Comm_group", m), comm, group)
	})
	export("MPI_Group_free", func(ctx context.Context, m api.Module, group uint32) int32 {
		return b.GroupFree(b.memory("MPI_Group_free", m), group)
	})
	export("MPI_Group_range_incl", func(ctx context.Context, m api.Module, group, n int32, ranges, newgroup uint32) int32 {
		return b.GroupRangeIncl(b.memory("MPI_Group_range_incl", m), group, n, ranges, newgroup)
	})
	export("MPI_Group_translate_ranks", func(ctx context.Context, m api.Module, group1, n int32, ranks1 uint32, group2 int32, ranks2 uint32) int32 {
		return b.GroupTranslateRanks(b.memory("MPI_Group_translate_ranks", m), group1, n, ranks1, group2, ranks2)
	})
	export("MPI_Type_size", func(ctx context.Context, m api.Module, datatype int32, size uint32) int32 {
		return b.TypeSize(b.memory("MPI_Type_size", m), datatype, size)
	})
	export("MPI_Type_free", func(ctx context.Context, datatype uint32) int32 {
		return b.TypeFree(datatype)
	})

	return mb
}

// guestHeap allocates through the sandbox's exported malloc and free.
type guestHeap struct {
	m api.Module
}

func (h guestHeap) call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	fn := h.m.ExportedFunction(name)
	if fn == nil {
		return nil, fmt.Errorf("module does not export %s: %w", name, ErrUnsupported)
	}
	results, err := fn.Call(ctx, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", name, err)
	}
	return results, nil
}

func (h guestHeap) Malloc(ctx context.Context, size uint32) (uint32, error) {
	results, err := h.call(ctx, "malloc", api.EncodeU32(size))
	if err != nil {
		return 0, err
	}
	if len(results) != 1 {
		return 0, fmt.Errorf("malloc returned %d results", len(results))
	}
	return api.DecodeU32(results[0]), nil
}

func (h guestHeap) Free(ctx context.Context, ptr uint32) error {
	_, err := h.call(ctx, "free", api.EncodeU32(ptr))
	return err
}

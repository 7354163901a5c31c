package bridge

import "github.com/nemanja-m/wasimpi/internal/mpi"

// Well-known communicator handles.
const (
	CommWorld int32 = 0
	CommSelf  int32 = 1
	CommNull  int32 = 2
)

// Well-known datatype handles.
const (
	TypeInt8        int32 = 0
	TypeInt16       int32 = 1
	TypeInt32       int32 = 2
	TypeInt         int32 = 3
	TypeInt64       int32 = 4
	TypeUint8       int32 = 5
	TypeUint16      int32 = 6
	TypeUint32      int32 = 7
	TypeUint        int32 = 8
	TypeUint64      int32 = 9
	TypeLong        int32 = 10
	TypeLongLong    int32 = 11
	TypeLongLongInt int32 = 12
	TypeFloat       int32 = 13
	TypeDouble      int32 = 14
	TypeDoubleInt   int32 = 15
	TypeChar        int32 = 16
	TypeCBool       int32 = 17
	TypeByte        int32 = 18
	DatatypeNull    int32 = -1
)

// Well-known reduction operator handles. 8 and 9 are MAXLOC and MINLOC,
// which have no native counterpart here and stay unresolvable.
const (
	OpMax  int32 = 0
	OpMin  int32 = 1
	OpSum  int32 = 2
	OpProd int32 = 3
	OpLand int32 = 4
	OpLor  int32 = 5
	OpBand int32 = 6
	OpBor  int32 = 7
	OpNull int32 = -1
)

const (
	firstComm     int32 = 3
	firstDatatype int32 = 19
	firstOp       int32 = 10
)

const (
	Success   int32 = 0
	AnySource int32 = -1
	AnyTag    int32 = -1
	Undefined int32 = -32766
)

// Sentinel addresses.
const (
	StatusIgnore uint32 = 0
	InPlace      uint32 = 1
)

// StatusSize is the size of the sandbox MPI_Status record.
const StatusSize = 24

// datatypeTable maps sandbox datatype ids to native scalar types. The
// sandbox is wasm32, so C long is 32 bits wide.
var datatypeTable = map[int32]mpi.BasicType{
	TypeInt8:        mpi.TypeInt8,
	TypeInt16:       mpi.TypeInt16,
	TypeInt32:       mpi.TypeInt32,
	TypeInt:         mpi.TypeInt32,
	TypeInt64:       mpi.TypeInt64,
	TypeUint8:       mpi.TypeUint8,
	TypeUint16:      mpi.TypeUint16,
	TypeUint32:      mpi.TypeUint32,
	TypeUint:        mpi.TypeUint32,
	TypeUint64:      mpi.TypeUint64,
	TypeLong:        mpi.TypeInt32,
	TypeLongLong:    mpi.TypeInt64,
	TypeLongLongInt: mpi.TypeInt64,
	TypeFloat:       mpi.TypeFloat,
	TypeDouble:      mpi.TypeDouble,
	TypeDoubleInt:   mpi.TypeDouble,
	TypeChar:        mpi.TypeUint8,
	TypeCBool:       mpi.TypeUint8,
	TypeByte:        mpi.TypeUint8,
}

var opTable = map[int32]mpi.OpKind{
	OpMax:  mpi.OpMax,
	OpMin:  mpi.OpMin,
	OpSum:  mpi.OpSum,
	OpProd: mpi.OpProd,
	OpLand: mpi.OpLand,
	OpLor:  mpi.OpLor,
	OpBand: mpi.OpBand,
	OpBor:  mpi.OpBor,
}

func seedComms(rt mpi.Runtime) map[int32]mpi.Comm {
	return map[int32]mpi.Comm{
		CommWorld: rt.CommWorld(),
		CommSelf:  rt.CommSelf(),
		CommNull:  rt.CommNull(),
	}
}

func seedDatatypes(rt mpi.Runtime) map[int32]mpi.Datatype {
	seed := make(map[int32]mpi.Datatype, len(datatypeTable)+1)
	for id, t := range datatypeTable {
		seed[id] = rt.Datatype(t)
	}
	seed[DatatypeNull] = rt.DatatypeNull()
	return seed
}

func seedOps(rt mpi.Runtime) map[int32]mpi.Op {
	seed := make(map[int32]mpi.Op, len(opTable))
	for id, k := range opTable {
		seed[id] = rt.Op(k)
	}
	return seed
}

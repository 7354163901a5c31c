package local

import (
	"encoding/binary"
	"math"

	"github.com/nemanja-m/wasimpi/internal/mpi"
)

type number interface {
	~int64 | ~uint64 | ~float64
}

func apply[T number](k mpi.OpKind, a, b T) T {
	switch k {
	case mpi.OpMax:
		return max(a, b)
	case mpi.OpMin:
		return min(a, b)
	case mpi.OpSum:
		return a + b
	case mpi.OpProd:
		return a * b
	case mpi.OpLand:
		if a != 0 && b != 0 {
			return 1
		}
		return 0
	case mpi.OpLor:
		if a != 0 || b != 0 {
			return 1
		}
		return 0
	}
	return a
}

// combine folds in into acc element-wise. Both are little-endian arrays of t.
func combine(acc, in []byte, t mpi.BasicType, k mpi.OpKind) int32 {
	w := t.Size()
	if w == 0 {
		return mpi.ErrType
	}

	for off := 0; off+w <= len(acc) && off+w <= len(in); off += w {
		a, b := acc[off:off+w], in[off:off+w]
		switch {
		case k == mpi.OpBand:
			storeUint(a, w, loadUint(a, w)&loadUint(b, w))
		case k == mpi.OpBor:
			storeUint(a, w, loadUint(a, w)|loadUint(b, w))
		case t.Float():
			storeFloat(a, w, apply(k, loadFloat(a, w), loadFloat(b, w)))
		case t.Signed():
			storeUint(a, w, uint64(apply(k, loadInt(a, w), loadInt(b, w))))
		default:
			storeUint(a, w, apply(k, loadUint(a, w), loadUint(b, w)))
		}
	}
	return mpi.Success
}

func loadUint(b []byte, w int) uint64 {
	switch w {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	default:
		return binary.LittleEndian.Uint64(b)
	}
}

func storeUint(b []byte, w int, v uint64) {
	switch w {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(v))
	default:
		binary.LittleEndian.PutUint64(b, v)
	}
}

func loadInt(b []byte, w int) int64 {
	v := loadUint(b, w)
	switch w {
	case 1:
		return int64(int8(v))
	case 2:
		return int64(int16(v))
	case 4:
		return int64(int32(v))
	default:
		return int64(v)
	}
}

func loadFloat(b []byte, w int) float64 {
	if w == 4 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func storeFloat(b []byte, w int, v float64) {
	if w == 4 {
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
		return
	}
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
}

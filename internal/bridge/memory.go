package bridge

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/nemanja-m/wasimpi/internal/mpi"
)

// LinearMemory is the part of a sandbox's memory the accessor needs.
// wazero's api.Memory satisfies it.
type LinearMemory interface {
	Size() uint32
	Read(offset, byteCount uint32) ([]byte, bool)
}

// Memory is the only way bridge code reads or writes sandbox memory. Every
// view is checked against the current memory size.
type Memory struct {
	mem LinearMemory
}

func NewMemory(mem LinearMemory) *Memory {
	return &Memory{mem: mem}
}

// Bytes returns a view of n bytes at addr.
func (m *Memory) Bytes(addr uint32, n int64) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative length %d at %#x: %w", n, addr, ErrOutOfBounds)
	}
	size := uint64(m.mem.Size())
	if uint64(addr)+uint64(n) > size {
		return nil, fmt.Errorf("range [%#x, +%d) exceeds memory size %d: %w", addr, n, size, ErrOutOfBounds)
	}
	buf, ok := m.mem.Read(addr, uint32(n))
	if !ok {
		return nil, fmt.Errorf("range [%#x, +%d): %w", addr, n, ErrOutOfBounds)
	}
	return buf, nil
}

// Elems returns a view of count elements of width bytes each at addr.
func (m *Memory) Elems(addr uint32, count, width int64) ([]byte, error) {
	if count < 0 || width < 0 {
		return nil, fmt.Errorf("negative count %d or width %d at %#x: %w", count, width, addr, ErrOutOfBounds)
	}
	if width != 0 && count > math.MaxUint32/width {
		return nil, fmt.Errorf("extent %d x %d at %#x: %w", count, width, addr, ErrOutOfBounds)
	}
	return m.Bytes(addr, count*width)
}

func (m *Memory) Int32(addr uint32) (int32, error) {
	b, err := m.Bytes(addr, 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (m *Memory) PutInt32(addr uint32, v int32) error {
	b, err := m.Bytes(addr, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, uint32(v))
	return nil
}

func (m *Memory) Int32s(addr uint32, n int32) ([]int32, error) {
	b, err := m.Elems(addr, int64(n), 4)
	if err != nil {
		return nil, err
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out, nil
}

func (m *Memory) PutInt32s(addr uint32, vals []int32) error {
	b, err := m.Elems(addr, int64(len(vals)), 4)
	if err != nil {
		return err
	}
	for i, v := range vals {
		binary.LittleEndian.PutUint32(b[4*i:], uint32(v))
	}
	return nil
}

// Status decodes the 24-byte sandbox status record at addr.
func (m *Memory) Status(addr uint32) (mpi.Status, error) {
	b, err := m.Bytes(addr, StatusSize)
	if err != nil {
		return mpi.Status{}, err
	}
	return mpi.Status{
		Source:    int32(binary.LittleEndian.Uint32(b[0:])),
		Tag:       int32(binary.LittleEndian.Uint32(b[4:])),
		Error:     int32(binary.LittleEndian.Uint32(b[8:])),
		Cancelled: binary.LittleEndian.Uint32(b[12:]) != 0,
		Count:     int64(binary.LittleEndian.Uint64(b[16:])),
	}, nil
}

func (m *Memory) PutStatus(addr uint32, st mpi.Status) error {
	b, err := m.Bytes(addr, StatusSize)
	if err != nil {
		return err
	}
	var cancelled uint32
	if st.Cancelled {
		cancelled = 1
	}
	binary.LittleEndian.PutUint32(b[0:], uint32(st.Source))
	binary.LittleEndian.PutUint32(b[4:], uint32(st.Tag))
	binary.LittleEndian.PutUint32(b[8:], uint32(st.Error))
	binary.LittleEndian.PutUint32(b[12:], cancelled)
	binary.LittleEndian.PutUint64(b[16:], uint64(st.Count))
	return nil
}

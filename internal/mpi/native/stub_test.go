//go:build !mpi

package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStubReportsUnavailable(t *testing.T) {
	assert.False(t, Available())

	rt, err := NewRuntime()
	assert.Nil(t, rt)
	assert.ErrorIs(t, err, ErrUnavailable)

	sp, err := NewSpawner()
	assert.Nil(t, sp)
	assert.ErrorIs(t, err, ErrUnavailable)
}

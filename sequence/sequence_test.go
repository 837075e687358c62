package sequence

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestU32TapeRoundTrip(t *testing.T) {
	data := []byte("catdogfish")
	tape, err := NewU32Tape(data, []uint32{0, 3, 6, 10})
	require.NoError(t, err)
	require.Equal(t, 3, tape.Count())
	assert.Equal(t, "cat", string(tape.At(0)))
	assert.Equal(t, "dog", string(tape.At(1)))
	assert.Equal(t, "fish", string(tape.At(2)))
}

func TestU32TapeRejectsBadOffsets(t *testing.T) {
	_, err := NewU32Tape([]byte("cat"), []uint32{1, 3})
	assert.Error(t, err)

	_, err = NewU32Tape([]byte("cat"), []uint32{0, 5})
	assert.Error(t, err)

	_, err = NewU32Tape([]byte("cat"), []uint32{0, 2, 1, 3})
	assert.Error(t, err)
}

func TestU64TapeRoundTrip(t *testing.T) {
	data := []byte("ab")
	tape, err := NewU64Tape(data, []uint64{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, "a", string(tape.At(0)))
	assert.Equal(t, "b", string(tape.At(1)))
}

func TestOpaqueView(t *testing.T) {
	strs := []string{"alpha", "bravo"}
	view := &OpaqueView{
		N:      len(strs),
		Handle: unsafe.Pointer(&strs),
		GetStart: func(handle unsafe.Pointer, i int) unsafe.Pointer {
			s := (*[]string)(handle)
			return unsafe.Pointer(unsafe.StringData((*s)[i]))
		},
		GetLength: func(handle unsafe.Pointer, i int) int {
			s := (*[]string)(handle)
			return len((*s)[i])
		},
	}
	assert.Equal(t, 2, view.Count())
	assert.Equal(t, "alpha", string(view.At(0)))
	assert.Equal(t, "bravo", string(view.At(1)))
}

func TestOpaqueViewZeroLength(t *testing.T) {
	view := &OpaqueView{
		N: 1,
		GetStart: func(handle unsafe.Pointer, i int) unsafe.Pointer {
			return nil
		},
		GetLength: func(handle unsafe.Pointer, i int) int { return 0 },
	}
	assert.Nil(t, view.At(0))
}

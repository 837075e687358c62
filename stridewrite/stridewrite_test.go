package stridewrite

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestU64WriterStride(t *testing.T) {
	buf := make([]byte, 24)
	w := U64Writer{Base: buf, Stride: 8}
	w.Write(0, 1)
	w.Write(1, 2)
	w.Write(2, 3)
	assert.EqualValues(t, 1, binary.LittleEndian.Uint64(buf[0:]))
	assert.EqualValues(t, 2, binary.LittleEndian.Uint64(buf[8:]))
	assert.EqualValues(t, 3, binary.LittleEndian.Uint64(buf[16:]))
}

func TestI64WriterNegative(t *testing.T) {
	buf := make([]byte, 8)
	w := I64Writer{Base: buf, Stride: 8}
	w.Write(0, -5)
	assert.EqualValues(t, -5, int64(binary.LittleEndian.Uint64(buf)))
}

func TestU32WriterStride(t *testing.T) {
	buf := make([]byte, 12)
	w := U32Writer{Base: buf, Stride: 4}
	w.Write(0, 10)
	w.Write(1, 20)
	w.Write(2, 30)
	assert.EqualValues(t, 10, binary.LittleEndian.Uint32(buf[0:]))
	assert.EqualValues(t, 30, binary.LittleEndian.Uint32(buf[8:]))
}

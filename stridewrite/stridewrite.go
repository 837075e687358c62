// Package stridewrite provides the strided-output-writer abstraction the
// batched kernels use to place one scalar result per pair at
// (base + i*stride), matching a raw pointer-and-stride ABI without
// exposing unsafe.Pointer arithmetic at each call site.
package stridewrite

import "encoding/binary"

// U64Writer writes little-endian uint64 results into Base at byte offset
// i*Stride.
type U64Writer struct {
	Base   []byte
	Stride int
}

func (w U64Writer) Write(i int, v uint64) {
	binary.LittleEndian.PutUint64(w.Base[i*w.Stride:], v)
}

// I64Writer writes little-endian int64 results (as their uint64 bit
// pattern) into Base at byte offset i*Stride.
type I64Writer struct {
	Base   []byte
	Stride int
}

func (w I64Writer) Write(i int, v int64) {
	binary.LittleEndian.PutUint64(w.Base[i*w.Stride:], uint64(v))
}

// U32Writer writes little-endian uint32 results into Base at byte offset
// i*Stride.
type U32Writer struct {
	Base   []byte
	Stride int
}

func (w U32Writer) Write(i int, v uint32) {
	binary.LittleEndian.PutUint32(w.Base[i*w.Stride:], v)
}

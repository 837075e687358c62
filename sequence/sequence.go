// Package sequence provides zero-copy views over batches of byte strings,
// in the three wire layouts callers may already hold data in: an opaque
// per-index callback pair, a u32 offset tape, and a u64 offset tape.
package sequence

import (
	"unsafe"

	"github.com/orneryd/affinity/status"
)

// View is a read-only, random-access batch of byte strings.
type View interface {
	// Count returns the number of strings in the batch.
	Count() int
	// At returns the i'th string. The returned slice aliases the
	// underlying storage and must not be retained past the batch call.
	At(i int) []byte
	// Unified reports whether the storage backing this view is
	// GPU-reachable (unified or pinned) memory. Engines bound to a
	// CUDA-tier or newer backend require every view they operate on to
	// report true here before any compute starts.
	Unified() bool
}

// OpaqueView adapts a foreign, pointer-based representation via two
// callbacks, mirroring a C ABI's (handle, get_start, get_length) triple.
type OpaqueView struct {
	N         int
	Handle    unsafe.Pointer
	GetStart  func(handle unsafe.Pointer, i int) unsafe.Pointer
	GetLength func(handle unsafe.Pointer, i int) int
}

func (v *OpaqueView) Count() int { return v.N }

func (v *OpaqueView) At(i int) []byte {
	n := v.GetLength(v.Handle, i)
	if n == 0 {
		return nil
	}
	p := v.GetStart(v.Handle, i)
	return unsafe.Slice((*byte)(p), n)
}

// Unified reports false: a foreign handle's backing memory is opaque to
// this module, so it can never be assumed GPU-reachable. Wrap with
// AsUnified if the caller knows otherwise.
func (v *OpaqueView) Unified() bool { return false }

// U32Tape is a packed-buffer view addressed by a uint32 offset array.
// Offsets follow the half-open-range convention: off[0] == 0 and
// off[count] == len(Data).
type U32Tape struct {
	Data    []byte
	Offsets []uint32
}

// NewU32Tape validates the tape invariants and returns a ready view.
func NewU32Tape(data []byte, offsets []uint32) (*U32Tape, error) {
	if err := validateU32(data, offsets); err != nil {
		return nil, err
	}
	return &U32Tape{Data: data, Offsets: offsets}, nil
}

func validateU32(data []byte, offsets []uint32) error {
	if len(offsets) == 0 {
		return status.New("sequence.NewU32Tape", status.UnexpectedDimensions, "offsets must have at least one element")
	}
	if offsets[0] != 0 {
		return status.New("sequence.NewU32Tape", status.UnexpectedDimensions, "offsets[0] must be 0, got %d", offsets[0])
	}
	if int(offsets[len(offsets)-1]) != len(data) {
		return status.New("sequence.NewU32Tape", status.UnexpectedDimensions,
			"offsets[last]=%d must equal len(data)=%d", offsets[len(offsets)-1], len(data))
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return status.New("sequence.NewU32Tape", status.UnexpectedDimensions, "offsets must be non-decreasing")
		}
	}
	return nil
}

func (t *U32Tape) Count() int { return len(t.Offsets) - 1 }

func (t *U32Tape) At(i int) []byte { return t.Data[t.Offsets[i]:t.Offsets[i+1]] }

// Unified reports false: Data is plain Go-managed memory unless wrapped
// with AsUnified.
func (t *U32Tape) Unified() bool { return false }

// U64Tape is the same layout as U32Tape with wider offsets, for batches
// whose total byte length can exceed 4 GiB.
type U64Tape struct {
	Data    []byte
	Offsets []uint64
}

// NewU64Tape validates the tape invariants and returns a ready view.
func NewU64Tape(data []byte, offsets []uint64) (*U64Tape, error) {
	if err := validateU64(data, offsets); err != nil {
		return nil, err
	}
	return &U64Tape{Data: data, Offsets: offsets}, nil
}

func validateU64(data []byte, offsets []uint64) error {
	if len(offsets) == 0 {
		return status.New("sequence.NewU64Tape", status.UnexpectedDimensions, "offsets must have at least one element")
	}
	if offsets[0] != 0 {
		return status.New("sequence.NewU64Tape", status.UnexpectedDimensions, "offsets[0] must be 0, got %d", offsets[0])
	}
	if offsets[len(offsets)-1] != uint64(len(data)) {
		return status.New("sequence.NewU64Tape", status.UnexpectedDimensions,
			"offsets[last]=%d must equal len(data)=%d", offsets[len(offsets)-1], len(data))
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return status.New("sequence.NewU64Tape", status.UnexpectedDimensions, "offsets must be non-decreasing")
		}
	}
	return nil
}

func (t *U64Tape) Count() int { return len(t.Offsets) - 1 }

func (t *U64Tape) At(i int) []byte { return t.Data[t.Offsets[i]:t.Offsets[i+1]] }

// Unified reports false: Data is plain Go-managed memory unless wrapped
// with AsUnified.
func (t *U64Tape) Unified() bool { return false }

// unifiedView wraps a View whose backing storage the caller attests is
// GPU-reachable, flipping Unified to true without copying or otherwise
// touching the underlying data.
type unifiedView struct {
	View
}

func (u unifiedView) Unified() bool { return true }

// AsUnified wraps v so it reports Unified() == true, for callers who
// allocated v's storage through alloc.Unified (or an equivalent
// GPU-reachable allocator) and want to run it through a CUDA-tier or
// newer engine.
func AsUnified(v View) View { return unifiedView{View: v} }

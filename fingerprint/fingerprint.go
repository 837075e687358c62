// Package fingerprint implements the MinHash-style fingerprinting kernel:
// a rolling polynomial hash evaluated over sliding windows of several
// widths, taking the minimum per dimension as a locality-sensitive sketch
// of each input string.
//
// Dimensions are grouped into 64-wide slices (the natural width for a
// vectorized vpminud-style reduction); a trailing group smaller than 64 is
// processed by the same scalar body as a remainder, since this module does
// not carry a concrete SIMD implementation (see internal/dispatch's package
// doc for the same non-goal).
package fingerprint

import (
	"context"
	"math"

	"github.com/orneryd/affinity/capability"
	"github.com/orneryd/affinity/engine"
	"github.com/orneryd/affinity/scope"
	"github.com/orneryd/affinity/sequence"
	"github.com/orneryd/affinity/status"
	"github.com/orneryd/affinity/stridewrite"
)

// DefaultWindowWidths are the window widths dimensions cycle through when
// no explicit widths are supplied.
var DefaultWindowWidths = []int{3, 4, 5, 7, 9, 11, 15, 31}

const sliceWidth = 64

// Sentinel is the MinHash value written for a dimension whose window width
// exceeds the input length.
const Sentinel uint32 = math.MaxUint32

// Engine is a configured fingerprinting kernel: a fixed dimension count,
// each dimension bound to a window width (cycling through Widths) and an
// independent seed, bound to a backend variant the same way
// engine.Engine is.
type Engine struct {
	NDim    int
	Widths  []int
	Backend engine.Backend
	seeds   []uint64
}

// New builds a fingerprint engine with ndim dimensions. widths defaults to
// DefaultWindowWidths when nil. Dimension d is assigned widths[d%len(widths)]
// and a distinct seed derived from d, giving independent hash families even
// for dimensions that share a window width. requested == 0 means "any
// capability the process has"; the resolved backend follows the same
// requested-intersect-detected rule engine.Engine uses, falling back to
// serial on an empty intersection.
func New(ndim int, widths []int, requested capability.Mask) (*Engine, error) {
	if ndim <= 0 {
		return nil, status.New("fingerprint.New", status.UnexpectedDimensions, "ndim must be > 0, got %d", ndim)
	}
	if widths == nil {
		widths = DefaultWindowWidths
	}
	if len(widths) == 0 {
		return nil, status.New("fingerprint.New", status.UnexpectedDimensions, "widths must be non-empty")
	}
	for _, w := range widths {
		if w <= 0 {
			return nil, status.New("fingerprint.New", status.UnexpectedDimensions, "window width must be > 0, got %d", w)
		}
	}
	if requested == 0 {
		requested = capability.Any
	}
	seeds := make([]uint64, ndim)
	for d := 0; d < ndim; d++ {
		seeds[d] = dimensionSeed(d)
	}
	backend := engine.SelectBackend("fingerprint.New", requested)
	return &Engine{NDim: ndim, Widths: widths, Backend: backend, seeds: seeds}, nil
}

func dimensionSeed(d int) uint64 {
	// Splitmix64-style avalanche from the dimension index, so adjacent
	// dimensions (which may share a window width) still get unrelated
	// multipliers.
	x := uint64(d)*0x9E3779B97F4A7C15 + 0xD1B54A32D192ED03
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return x | 1 // must be odd to be a valid polynomial multiplier
}

// Run fingerprints every string in strs, writing NDim uint32 MinHash
// values and NDim uint32 window counts per string (row-major: string i's
// dimension d lands at index i*NDim+d).
func (e *Engine) Run(ctx context.Context, sc *scope.Scope, strs sequence.View, values, counts stridewrite.U32Writer) error {
	gpuScope := sc.Kind() == scope.KindGPUDevice
	if e.Backend.IsGPU() != gpuScope {
		return status.New("fingerprint.Run", status.DeviceCodeMismatch,
			"backend %s is incompatible with scope kind %d", e.Backend, sc.Kind())
	}
	if e.Backend.IsGPU() && !strs.Unified() {
		return status.New("fingerprint.Run", status.DeviceMemoryMismatch,
			"backend %s requires a unified-memory view", e.Backend)
	}
	return sc.Run(ctx, strs.Count(), func(i int) error {
		s := strs.At(i)
		e.fingerprintOne(s, i, values, counts)
		return nil
	})
}

func (e *Engine) fingerprintOne(s []byte, row int, values, counts stridewrite.U32Writer) {
	full := (e.NDim / sliceWidth) * sliceWidth
	for base := 0; base < full; base += sliceWidth {
		for lane := 0; lane < sliceWidth; lane++ {
			d := base + lane
			e.writeDimension(s, row, d, values, counts)
		}
	}
	for d := full; d < e.NDim; d++ {
		e.writeDimension(s, row, d, values, counts)
	}
}

func (e *Engine) writeDimension(s []byte, row, d int, values, counts stridewrite.U32Writer) {
	w := e.Widths[d%len(e.Widths)]
	v, c := rollingMinHash(s, w, e.seeds[d])
	idx := row*e.NDim + d
	values.Write(idx, v)
	counts.Write(idx, c)
}

// rollingMinHash evaluates a degree-w rolling polynomial hash (multiplier
// derived from seed) over every window of s and returns the minimum
// 32-bit-folded value, plus the number of windows whose hash tied that
// minimum (not the total number of windows evaluated). When len(s) < w
// there are no windows: the sentinel value and a zero count are returned.
func rollingMinHash(s []byte, w int, seed uint64) (uint32, uint32) {
	l := len(s)
	if l < w {
		return Sentinel, 0
	}

	p := seed
	var pw uint64 = 1
	for i := 0; i < w; i++ {
		pw *= p
	}

	var h uint64
	for i := 0; i < w; i++ {
		h = h*p + uint64(s[i])
	}
	min := h
	var count uint32 = 1

	for i := w; i < l; i++ {
		h = h*p - uint64(s[i-w])*pw + uint64(s[i])
		switch {
		case h < min:
			min = h
			count = 1
		case h == min:
			count++
		}
	}

	return fold64(min), count
}

func fold64(v uint64) uint32 {
	return uint32(v ^ (v >> 32))
}

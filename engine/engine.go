// Package engine builds algorithm engines — Levenshtein (byte and UTF-8),
// Needleman-Wunsch, and Smith-Waterman — parameterized by cost model and
// bound to a concrete backend variant chosen from the caller's requested
// capability mask intersected with what this process actually detected.
// Fingerprint engines are built by package fingerprint, which resolves its
// backend through SelectBackend.
package engine

import (
	"github.com/orneryd/affinity/capability"
	"github.com/orneryd/affinity/cost"
	"github.com/orneryd/affinity/internal/logging"
	"github.com/orneryd/affinity/scope"
	"github.com/orneryd/affinity/sequence"
	"github.com/orneryd/affinity/status"
)

// Algorithm identifies which similarity/alignment algorithm an Engine runs.
type Algorithm int

const (
	AlgoLevenshtein Algorithm = iota
	AlgoLevenshteinUTF8
	AlgoNeedlemanWunsch
	AlgoSmithWaterman
)

func (a Algorithm) String() string {
	switch a {
	case AlgoLevenshtein:
		return "levenshtein"
	case AlgoLevenshteinUTF8:
		return "levenshtein_utf8"
	case AlgoNeedlemanWunsch:
		return "needleman_wunsch"
	case AlgoSmithWaterman:
		return "smith_waterman"
	default:
		return "unknown"
	}
}

// Backend names the concrete compute tier an Engine was bound to.
type Backend int

const (
	BackendSerial Backend = iota
	BackendIce
	BackendCUDA
	BackendKepler
	BackendHopper
)

func (b Backend) String() string {
	switch b {
	case BackendSerial:
		return "serial"
	case BackendIce:
		return "ice"
	case BackendCUDA:
		return "cuda"
	case BackendKepler:
		return "kepler"
	case BackendHopper:
		return "hopper"
	default:
		return "unknown"
	}
}

// IsGPU reports whether b is a device backend, i.e. requires a
// scope.KindGPUDevice scope and GPU-reachable (unified) memory.
func (b Backend) IsGPU() bool {
	switch b {
	case BackendCUDA, BackendKepler, BackendHopper:
		return true
	default:
		return false
	}
}

// GapModel identifies whether an Engine uses linear or affine gap costs.
type GapModel int

const (
	GapLinear GapModel = iota
	GapAffine
)

// Variant is the (gap model, backend) pair an Engine is bound to.
type Variant struct {
	Gap     GapModel
	Backend Backend
}

// Engine is a constructed, ready-to-run algorithm instance. Engines are
// immutable once built and safe for concurrent use by multiple kernel Run
// calls.
type Engine struct {
	Algorithm Algorithm
	Variant   Variant
	Uniform   cost.Uniform
	Matrix    *cost.Matrix
	Gap       cost.GapCost
}

// tierPrecedence lists backend tiers in selection order (ice, cuda,
// kepler, hopper); SelectBackend picks the first tier present in both the
// requested and detected masks, and serial when none is.
var tierPrecedence = []struct {
	bit     capability.Mask
	backend Backend
}{
	{capability.Ice, BackendIce},
	{capability.CUDA, BackendCUDA},
	{capability.Kepler, BackendKepler},
	{capability.Hopper, BackendHopper},
}

// SelectBackend intersects requested with what this process actually
// detected and returns the resolved backend tier. An empty intersection
// is not an error: it substitutes serial, per the spec's worked example
// (detector {serial, haswell}, requested {skylake, ice} resolves to
// {serial}, and construction still succeeds). Shared by Engine
// construction and fingerprint.New, which has no gap model of its own.
func SelectBackend(op string, requested capability.Mask) Backend {
	detected := capability.Detect()
	available := requested & detected

	if available == 0 {
		logging.Debug("capability intersection empty, falling back to serial", map[string]any{
			"op": op, "requested": requested.String(), "detected": detected.String(),
		})
		return BackendSerial
	}
	for _, tier := range tierPrecedence {
		if available.Has(tier.bit) {
			return tier.backend
		}
	}
	return BackendSerial
}

func selectVariant(op string, requested capability.Mask, gap cost.GapCost) (Variant, error) {
	gm := GapLinear
	if !gap.IsLinear() {
		gm = GapAffine
	}
	return Variant{Gap: gm, Backend: SelectBackend(op, requested)}, nil
}

// NewLevenshtein builds a byte-level Levenshtein engine with uniform costs
// and a gap model. requested == 0 means "any capability the process has".
func NewLevenshtein(uniform cost.Uniform, gap cost.GapCost, requested capability.Mask) (*Engine, error) {
	v, err := selectVariant("engine.NewLevenshtein", orAny(requested), gap)
	if err != nil {
		return nil, err
	}
	e := &Engine{Algorithm: AlgoLevenshtein, Variant: v, Uniform: uniform, Gap: gap}
	logConstruct(e)
	return e, nil
}

// NewLevenshteinUTF8 builds a rune-level Levenshtein engine.
func NewLevenshteinUTF8(uniform cost.Uniform, gap cost.GapCost, requested capability.Mask) (*Engine, error) {
	v, err := selectVariant("engine.NewLevenshteinUTF8", orAny(requested), gap)
	if err != nil {
		return nil, err
	}
	e := &Engine{Algorithm: AlgoLevenshteinUTF8, Variant: v, Uniform: uniform, Gap: gap}
	logConstruct(e)
	return e, nil
}

// NewNeedlemanWunsch builds a global-alignment engine over a full
// substitution matrix.
func NewNeedlemanWunsch(matrix *cost.Matrix, gap cost.GapCost, requested capability.Mask) (*Engine, error) {
	v, err := selectVariant("engine.NewNeedlemanWunsch", orAny(requested), gap)
	if err != nil {
		return nil, err
	}
	e := &Engine{Algorithm: AlgoNeedlemanWunsch, Variant: v, Matrix: matrix, Gap: gap}
	logConstruct(e)
	return e, nil
}

// NewSmithWaterman builds a local-alignment engine over a full
// substitution matrix.
func NewSmithWaterman(matrix *cost.Matrix, gap cost.GapCost, requested capability.Mask) (*Engine, error) {
	v, err := selectVariant("engine.NewSmithWaterman", orAny(requested), gap)
	if err != nil {
		return nil, err
	}
	e := &Engine{Algorithm: AlgoSmithWaterman, Variant: v, Matrix: matrix, Gap: gap}
	logConstruct(e)
	return e, nil
}

func orAny(requested capability.Mask) capability.Mask {
	if requested == 0 {
		return capability.Any
	}
	return requested
}

func logConstruct(e *Engine) {
	logging.Debug("engine constructed", map[string]any{
		"algorithm": e.Algorithm.String(),
		"backend":   e.Variant.Backend.String(),
	})
}

// CheckScope enforces the device/backend compatibility matrix: a GPU-tier
// variant must run under a GPU device scope, and vice versa. Kernels call
// this before touching any input, so a mismatched pairing never reaches
// the compute loop.
func (e *Engine) CheckScope(op string, sc *scope.Scope) error {
	gpuScope := sc.Kind() == scope.KindGPUDevice
	if e.Variant.Backend.IsGPU() != gpuScope {
		return status.New(op, status.DeviceCodeMismatch,
			"backend %s is incompatible with scope kind %d", e.Variant.Backend, sc.Kind())
	}
	return nil
}

// CheckUnifiedMemory verifies every view in views reports GPU-reachable
// storage when e's backend requires it (CUDA-tier or newer). It is a
// no-op for backends that don't need unified memory.
func (e *Engine) CheckUnifiedMemory(op string, views ...sequence.View) error {
	if !e.Variant.Backend.IsGPU() {
		return nil
	}
	for _, v := range views {
		if v != nil && !v.Unified() {
			return status.New(op, status.DeviceMemoryMismatch,
				"backend %s requires a unified-memory view", e.Variant.Backend)
		}
	}
	return nil
}

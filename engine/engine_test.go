package engine

import (
	"testing"

	"github.com/orneryd/affinity/capability"
	"github.com/orneryd/affinity/cost"
	"github.com/orneryd/affinity/scope"
	"github.com/orneryd/affinity/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevenshteinDefaultsToLinearGap(t *testing.T) {
	e, err := NewLevenshtein(cost.DefaultUniform, cost.DefaultGap, 0)
	require.NoError(t, err)
	assert.Equal(t, AlgoLevenshtein, e.Algorithm)
	assert.Equal(t, GapLinear, e.Variant.Gap)
}

func TestNewLevenshteinAffineGap(t *testing.T) {
	e, err := NewLevenshtein(cost.DefaultUniform, cost.GapCost{Open: 5, Extend: 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, GapAffine, e.Variant.Gap)
}

// TestRequestedUnavailableCapabilityFallsBackToSerial reproduces the spec's
// worked example: a requested mask with no overlap in the detected mask is
// not an error, it substitutes serial and the engine still constructs.
func TestRequestedUnavailableCapabilityFallsBackToSerial(t *testing.T) {
	e, err := NewLevenshtein(cost.DefaultUniform, cost.DefaultGap, capability.Hopper)
	require.NoError(t, err)
	assert.Equal(t, BackendSerial, e.Variant.Backend)
}

// TestSelectVariantEmptyIntersectionFallsBackToSerial mirrors the spec's
// worked example (detector {serial, haswell}, requested {skylake, ice}
// resolves to {serial}): a GPU-tier request on a host with no GPU
// capability has an empty intersection and must still resolve, to serial.
func TestSelectVariantEmptyIntersectionFallsBackToSerial(t *testing.T) {
	detected := capability.Detect()
	requested := capability.Kepler | capability.Hopper
	require.Zero(t, requested&detected, "test host unexpectedly reports GPU capability")

	v, err := selectVariant("engine.test", requested, cost.DefaultGap)
	require.NoError(t, err)
	assert.Equal(t, BackendSerial, v.Backend)
}

// TestCheckScopeRejectsGPUBackendOnCPUScope reproduces the spec's device
// scope compatibility example: an engine bound to the cuda backend run
// under a plain CPU-cores scope must be rejected before any compute.
func TestCheckScopeRejectsGPUBackendOnCPUScope(t *testing.T) {
	e := &Engine{Algorithm: AlgoLevenshtein, Variant: Variant{Backend: BackendCUDA}}
	sc, err := scope.CPUCores(4)
	require.NoError(t, err)

	err = e.CheckScope("engine.test", sc)
	require.Error(t, err)
}

// TestCheckScopeRejectsCPUBackendOnGPUScope checks the other half of the
// compatibility matrix: a serial-tier engine can't run under a scope that
// claims to be a GPU device.
func TestCheckScopeRejectsCPUBackendOnGPUScope(t *testing.T) {
	e := &Engine{Algorithm: AlgoLevenshtein, Variant: Variant{Backend: BackendSerial}}
	sc := scope.ForTestGPUDevice()

	err := e.CheckScope("engine.test", sc)
	require.Error(t, err)
}

func TestCheckScopeAcceptsMatchingBackend(t *testing.T) {
	e := &Engine{Algorithm: AlgoLevenshtein, Variant: Variant{Backend: BackendSerial}}
	err := e.CheckScope("engine.test", scope.Default())
	assert.NoError(t, err)
}

func TestCheckUnifiedMemoryRejectsNonUnifiedView(t *testing.T) {
	e := &Engine{Algorithm: AlgoLevenshtein, Variant: Variant{Backend: BackendCUDA}}
	tape, err := sequence.NewU32Tape([]byte("ab"), []uint32{0, 2})
	require.NoError(t, err)

	err = e.CheckUnifiedMemory("engine.test", tape)
	require.Error(t, err)
}

func TestCheckUnifiedMemoryAcceptsUnifiedView(t *testing.T) {
	e := &Engine{Algorithm: AlgoLevenshtein, Variant: Variant{Backend: BackendCUDA}}
	tape, err := sequence.NewU32Tape([]byte("ab"), []uint32{0, 2})
	require.NoError(t, err)

	err = e.CheckUnifiedMemory("engine.test", sequence.AsUnified(tape))
	assert.NoError(t, err)
}

func TestCheckUnifiedMemoryNoopForNonGPUBackend(t *testing.T) {
	e := &Engine{Algorithm: AlgoLevenshtein, Variant: Variant{Backend: BackendSerial}}
	tape, err := sequence.NewU32Tape([]byte("ab"), []uint32{0, 2})
	require.NoError(t, err)

	err = e.CheckUnifiedMemory("engine.test", tape)
	assert.NoError(t, err)
}

func TestNewNeedlemanWunsch(t *testing.T) {
	m := cost.UniformMatrix(cost.Uniform{Match: 1, Mismatch: -1})
	e, err := NewNeedlemanWunsch(m, cost.DefaultGap, 0)
	require.NoError(t, err)
	assert.Equal(t, AlgoNeedlemanWunsch, e.Algorithm)
}

func TestNewSmithWaterman(t *testing.T) {
	m := cost.UniformMatrix(cost.Uniform{Match: 2, Mismatch: -1})
	e, err := NewSmithWaterman(m, cost.DefaultGap, 0)
	require.NoError(t, err)
	assert.Equal(t, AlgoSmithWaterman, e.Algorithm)
}

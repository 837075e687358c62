// Package scope implements the device-scope tagged union engines execute
// under: a synchronous default, a fork-join CPU thread pool, or a cached
// GPU device executor.
package scope

import (
	"context"
	"sync"

	"github.com/orneryd/affinity/capability"
	"github.com/orneryd/affinity/gpu"
	"github.com/orneryd/affinity/internal/logging"
	"github.com/orneryd/affinity/internal/workpool"
	"github.com/orneryd/affinity/status"
)

// Kind identifies which scope variant a Scope holds.
type Kind int

const (
	KindDefault Kind = iota
	KindCPUCores
	KindGPUDevice
)

// Scope is the execution context a kernel Run call is bound to.
type Scope struct {
	kind   Kind
	pool   *workpool.Pool
	device *gpu.Device
}

// Kind reports which variant s holds.
func (s *Scope) Kind() Kind { return s.kind }

var (
	defaultOnce sync.Once
	defaultInst *Scope
)

// Default returns the process-wide singleton synchronous scope.
func Default() *Scope {
	defaultOnce.Do(func() {
		defaultInst = &Scope{kind: KindDefault}
	})
	return defaultInst
}

// CPUCores returns a scope backed by n worker goroutines. n == 0 means all
// logical cores; n == 1 collapses to the synchronous Default scope, since a
// one-worker pool has no fan-out to offer.
func CPUCores(n int) (*Scope, error) {
	if n < 0 {
		return nil, status.New("scope.CPUCores", status.UnexpectedDimensions, "n must be >= 0, got %d", n)
	}
	if n == 1 {
		return Default(), nil
	}
	return &Scope{kind: KindCPUCores, pool: workpool.New(n)}, nil
}

var (
	gpuMu    sync.Mutex
	gpuCache = map[int]*Scope{}
)

// GPUDevice returns a scope bound to accelerator id, memoized per id for
// the lifetime of the process. It requires the cuda capability tag to be
// present; callers should check capability.Detect().Has(capability.CUDA)
// before constructing a pipeline that might need this.
func GPUDevice(id int) (*Scope, error) {
	if !capability.Detect().Has(capability.CUDA) {
		return nil, status.New("scope.GPUDevice", status.MissingGPU, "device %d", id)
	}

	gpuMu.Lock()
	defer gpuMu.Unlock()
	if s, ok := gpuCache[id]; ok {
		return s, nil
	}

	dev, err := gpu.Open(id)
	if err != nil {
		return nil, status.New("scope.GPUDevice", status.MissingGPU, "device %d: %v", id, err)
	}
	s := &Scope{kind: KindGPUDevice, device: dev}
	gpuCache[id] = s
	logging.Info("gpu scope opened", map[string]any{"device": id, "name": dev.Name()})
	return s, nil
}

// Run fans fn out across [0, count) according to the scope's kind:
// synchronous for Default, pooled for CPUCores, and serialized-but-device-
// bound for GPUDevice (the accelerator executes one batch index at a time
// behind its own internal pipeline, matching a real device queue's
// single-stream-per-call discipline).
func (s *Scope) Run(ctx context.Context, count int, fn func(i int) error) error {
	switch s.kind {
	case KindCPUCores:
		return s.pool.Run(ctx, count, fn)
	case KindGPUDevice:
		for i := 0; i < count; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	default:
		for i := 0; i < count; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}
}

// Device returns the bound GPU device, or nil if this scope is not
// KindGPUDevice.
func (s *Scope) Device() *gpu.Device { return s.device }

// ForTestGPUDevice returns a scope tagged KindGPUDevice without opening a
// real device, for exercising the engine/kernel device-compatibility
// checks in tests that don't have a simulated GPU registered. Not part of
// the core kernel contract.
func ForTestGPUDevice() *Scope { return &Scope{kind: KindGPUDevice} }

// Close releases resources held by the scope. Default and CPUCores scopes
// have nothing to release; GPUDevice scopes remain cached process-wide and
// are not released by Close (matching the spec's "memoized, read-only
// thereafter" device-scope lifecycle) — Close is provided for symmetry and
// future non-cached scope kinds.
func (s *Scope) Close() error { return nil }

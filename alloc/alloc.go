// Package alloc defines the pluggable allocator pair used by engines to
// acquire scratch buffers, adapted from the object-pool-configuration
// pattern of reusable allocate/release pairs with a global enable switch.
package alloc

import "github.com/orneryd/affinity/status"

// Handle is an opaque token passed back to Free; its meaning is owned by
// the Allocator that produced it.
type Handle any

// Allocator is a pluggable allocate/free pair plus the opaque handle the
// pair shares, mirroring the host-heap-vs-unified-memory split a batched
// kernel needs without hard-coding either.
type Allocator struct {
	Name     string
	Unified  bool
	Allocate func(size int) ([]byte, Handle, error)
	Free     func(buf []byte, h Handle)
}

// Default is the host-heap allocator: plain Go-managed memory.
var Default = Allocator{
	Name: "default",
	Allocate: func(size int) ([]byte, Handle, error) {
		if size < 0 {
			return nil, nil, status.New("alloc.Default.Allocate", status.BadAlloc, "negative size %d", size)
		}
		return make([]byte, size), nil, nil
	},
	Free: func(buf []byte, h Handle) {},
}

var poolEnabled = true
var poolMaxSize = 1000

// Configure records the pooling switch and retention cap reported by
// IsEnabled and MaxSize, mirroring the teacher's object-pool global
// configuration knob. Default does not pool: every Allocate returns a
// fresh slice whatever these settings are.
func Configure(enabled bool, maxSize int) {
	poolEnabled = enabled
	poolMaxSize = maxSize
}

// IsEnabled reports the current pooling configuration.
func IsEnabled() bool { return poolEnabled }

// MaxSize reports the configured retention cap.
func MaxSize() int { return poolMaxSize }

// Unified is the allocator engines request when they want GPU-reachable
// memory. This module has no GPU-backed allocation path, so Unified always
// uses Default's allocate/free pair; it differs from Default only in its
// Name and its Unified flag.
var Unified = Allocator{
	Name:     "unified",
	Unified:  true,
	Allocate: Default.Allocate,
	Free:     Default.Free,
}

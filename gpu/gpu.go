// Package gpu models the device handles that back scope.GPUDevice and the
// cuda/kepler/hopper capability tiers.
//
// Real CUDA/Vulkan driver bindings are outside this module's scope (an
// explicitly excluded collaborator); this package keeps the device/executor
// shape the teacher's cgo bridges used — enumerate, open by id, read a
// compute-capability code, release — while running kernel bodies through
// the same portable Go code path the CPU scopes use. That keeps
// status.MissingGPU (raised here, by Open and scope.GPUDevice) and the
// device mismatch/unified-memory contracts enforced by engine and kernel
// (status.DeviceCodeMismatch, status.DeviceMemoryMismatch) fully testable
// without a physical accelerator.
package gpu

import (
	"sync"

	"github.com/orneryd/affinity/status"
)

// Device represents an opened accelerator handle.
type Device struct {
	id       int
	name     string
	ccMajor  int
	ccMinor  int
	mu       sync.Mutex
	released bool
}

var (
	registryMu sync.Mutex
	// simulated is the set of devices this process pretends to have, keyed
	// by id. Empty by default: Available() is false unless a caller (in
	// this module, only the gpu package's tests) registers a simulated
	// device, matching the non-goal that real GPU discovery is out of scope.
	simulated = map[int]simDevice{}
)

type simDevice struct {
	name    string
	ccMajor int
	ccMinor int
}

// RegisterSimulated installs a fake device for id, for use by tests. It is
// not part of the core kernel contract.
func RegisterSimulated(id int, name string, ccMajor, ccMinor int) {
	registryMu.Lock()
	defer registryMu.Unlock()
	simulated[id] = simDevice{name: name, ccMajor: ccMajor, ccMinor: ccMinor}
}

// ClearSimulated removes all simulated devices.
func ClearSimulated() {
	registryMu.Lock()
	defer registryMu.Unlock()
	simulated = map[int]simDevice{}
}

// Available reports whether any device (simulated or otherwise) exists.
func Available() bool {
	registryMu.Lock()
	defer registryMu.Unlock()
	return len(simulated) > 0
}

// DeviceCount returns the number of available devices.
func DeviceCount() int {
	registryMu.Lock()
	defer registryMu.Unlock()
	return len(simulated)
}

// Open acquires device id, returning status.MissingGPU if it does not exist.
func Open(id int) (*Device, error) {
	registryMu.Lock()
	sd, ok := simulated[id]
	registryMu.Unlock()
	if !ok {
		return nil, status.New("gpu.Open", status.MissingGPU, "device %d", id)
	}
	return &Device{id: id, name: sd.name, ccMajor: sd.ccMajor, ccMinor: sd.ccMinor}, nil
}

// ID returns the device index.
func (d *Device) ID() int { return d.id }

// Name returns the device's reported name.
func (d *Device) Name() string { return d.name }

// ComputeCapability returns the SM code (major*10+minor), matching the
// cuda_get_device_compute_capability convention.
func (d *Device) ComputeCapability() int { return d.ccMajor*10 + d.ccMinor }

// Release marks the device handle closed. Idempotent.
func (d *Device) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.released = true
}

// Released reports whether Release has been called.
func (d *Device) Released() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.released
}

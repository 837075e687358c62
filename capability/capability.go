// Package capability detects the runtime hardware tiers this process can
// dispatch work to and exposes them as a bitmask shared by the dispatch
// table, engine variant selection, and device scopes.
//
// Detection never fails the process: an unrecognized or partially-probed
// host always yields at least Serial.
package capability

import (
	"sort"
	"strings"
	"sync"

	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sys/cpu"

	"github.com/orneryd/affinity/gpu"
	"github.com/orneryd/affinity/internal/logging"
)

// Mask is a bitset of capability tags.
type Mask uint32

const (
	Serial Mask = 1 << iota
	Parallel
	Haswell
	Skylake
	Ice
	Neon
	NeonAES
	SVE
	SVE2
	SVE2AES
	CUDA
	Kepler
	Hopper
)

// Derived aliases, per the tag hierarchy.
const (
	CPUs = Serial | Parallel | Haswell | Skylake | Ice | Neon | NeonAES | SVE | SVE2 | SVE2AES
	CKH  = CUDA | Kepler | Hopper
	CK   = CUDA | Kepler
	Any  = CPUs | CKH
)

var order = []Mask{Serial, Parallel, Haswell, Skylake, Ice, Neon, NeonAES, SVE, SVE2, SVE2AES, CUDA, Kepler, Hopper}

var names = map[Mask]string{
	Serial:   "serial",
	Parallel: "parallel",
	Haswell:  "haswell",
	Skylake:  "skylake",
	Ice:      "ice",
	Neon:     "neon",
	NeonAES:  "neon_aes",
	SVE:      "sve",
	SVE2:     "sve2",
	SVE2AES:  "sve2_aes",
	CUDA:     "cuda",
	Kepler:   "kepler",
	Hopper:   "hopper",
}

var aliases = map[string]Mask{
	"any":  Any,
	"cpus": CPUs,
	"ckh":  CKH,
	"ck":   CK,
}

// Has reports whether every bit in want is set in m.
func (m Mask) Has(want Mask) bool { return m&want == want }

// Any reports whether m has any bit in other set.
func (m Mask) Any(other Mask) bool { return m&other != 0 }

// String renders m as a comma-separated, canonically ordered list of tag
// names, e.g. "serial,haswell".
func (m Mask) String() string {
	var parts []string
	for _, bit := range order {
		if m.Has(bit) {
			parts = append(parts, names[bit])
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ",")
}

// Parse converts a comma-separated tag list (tags or aliases) into a Mask.
func Parse(s string) (Mask, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	var m Mask
	for _, tok := range strings.Split(s, ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		if alias, ok := aliases[tok]; ok {
			m |= alias
			continue
		}
		found := false
		for bit, name := range names {
			if name == tok {
				m |= bit
				found = true
				break
			}
		}
		if !found {
			return 0, &parseError{tok: tok}
		}
	}
	return m, nil
}

type parseError struct{ tok string }

func (e *parseError) Error() string { return "capability: unrecognized tag " + e.tok }

var (
	detectOnce sync.Once
	detected   Mask
)

// Detect probes the host once and returns the memoized capability mask.
// It is safe for concurrent use and never fails.
func Detect() Mask {
	detectOnce.Do(func() {
		detected = detect()
		logging.Info("capability detected", map[string]any{"mask": detected.String()})
	})
	return detected
}

func detect() Mask {
	m := Serial | Parallel
	m |= detectCPU()
	m |= detectGPU()
	return m
}

func detectCPU() Mask {
	var m Mask
	switch cpuid.CPU.Architecture {
	case cpuid.X86:
		if cpuid.CPU.Supports(cpuid.AVX2) {
			m |= Haswell
		}
		if cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512BW, cpuid.AVX512VL, cpuid.VAES) {
			m |= Skylake
		}
		if cpuid.CPU.Supports(cpuid.AVX512VBMI, cpuid.AVX512VBMI2) {
			m |= Ice
		}
	case cpuid.ARM64:
		if cpu.ARM64.HasASIMD {
			m |= Neon
		}
		if cpu.ARM64.HasASIMD && cpu.ARM64.HasAES {
			m |= NeonAES
		}
		if cpu.ARM64.HasSVE {
			m |= SVE
		}
		if cpu.ARM64.HasSVE2 {
			m |= SVE2
			if cpu.ARM64.HasAES {
				m |= SVE2AES
			}
		}
	}
	return m
}

// kepler/hopper thresholds are compute-capability SM codes (major*10+minor):
// Kepler-class hardware starts at SM 30, Hopper-class at SM 90.
const (
	smKepler = 30
	smHopper = 90
)

func detectGPU() Mask {
	if !gpu.Available() {
		return 0
	}
	m := CUDA
	dev, err := gpu.Open(0)
	if err != nil {
		return m
	}
	defer dev.Release()
	sm := dev.ComputeCapability()
	if sm >= smKepler {
		m |= Kepler
	}
	if sm >= smHopper {
		m |= Hopper
	}
	return m
}

// Names returns all primitive tag names (excludes derived aliases) sorted
// alphabetically, useful for diagnostics.
func Names() []string {
	out := make([]string, 0, len(order))
	for _, bit := range order {
		out = append(out, names[bit])
	}
	sort.Strings(out)
	return out
}

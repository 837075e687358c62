// Package kernel implements the batched similarity/alignment algorithms:
// Levenshtein (byte and UTF-8), Needleman-Wunsch, and Smith-Waterman.
// Each Run function fans a pairwise computation out across a scope.Scope
// and writes results through a stridewrite writer, generalizing the
// teacher's single-pair Wagner-Fischer Distance into a weighted,
// optionally-affine, batched kernel.
package kernel

import (
	"context"
	"unicode/utf8"

	"github.com/orneryd/affinity/cost"
	"github.com/orneryd/affinity/engine"
	"github.com/orneryd/affinity/scope"
	"github.com/orneryd/affinity/sequence"
	"github.com/orneryd/affinity/status"
	"github.com/orneryd/affinity/stridewrite"
)

const inf = int64(1) << 40

// RunLevenshtein computes the weighted edit distance for each pair
// (a[i], b[i]) and writes it through out. len(a) must equal len(b).
func RunLevenshtein(ctx context.Context, e *engine.Engine, sc *scope.Scope, a, b sequence.View, out stridewrite.U64Writer) error {
	if e.Algorithm != engine.AlgoLevenshtein {
		return status.New("kernel.RunLevenshtein", status.DeviceCodeMismatch, "engine is not a levenshtein engine")
	}
	if err := e.CheckScope("kernel.RunLevenshtein", sc); err != nil {
		return err
	}
	if err := e.CheckUnifiedMemory("kernel.RunLevenshtein", a, b); err != nil {
		return err
	}
	if a.Count() != b.Count() {
		return status.New("kernel.RunLevenshtein", status.UnexpectedDimensions,
			"batch size mismatch: %d vs %d", a.Count(), b.Count())
	}
	subst := uniformSubst(e.Uniform)
	return sc.Run(ctx, a.Count(), func(i int) error {
		d := weightedEditDistance(a.At(i), b.At(i), subst, e.Gap)
		out.Write(i, uint64(d))
		return nil
	})
}

// RunLevenshteinUTF8 is RunLevenshtein generalized to operate on Unicode
// code points rather than raw bytes. Invalid UTF-8 in either input yields
// status.InvalidUTF8.
func RunLevenshteinUTF8(ctx context.Context, e *engine.Engine, sc *scope.Scope, a, b sequence.View, out stridewrite.U64Writer) error {
	if e.Algorithm != engine.AlgoLevenshteinUTF8 {
		return status.New("kernel.RunLevenshteinUTF8", status.DeviceCodeMismatch, "engine is not a levenshtein_utf8 engine")
	}
	if err := e.CheckScope("kernel.RunLevenshteinUTF8", sc); err != nil {
		return err
	}
	if err := e.CheckUnifiedMemory("kernel.RunLevenshteinUTF8", a, b); err != nil {
		return err
	}
	if a.Count() != b.Count() {
		return status.New("kernel.RunLevenshteinUTF8", status.UnexpectedDimensions,
			"batch size mismatch: %d vs %d", a.Count(), b.Count())
	}
	subst := uniformSubstRune(e.Uniform)
	return sc.Run(ctx, a.Count(), func(i int) error {
		sa, sb := a.At(i), b.At(i)
		if !utf8.Valid(sa) || !utf8.Valid(sb) {
			return status.New("kernel.RunLevenshteinUTF8", status.InvalidUTF8, "pair %d", i)
		}
		ra, rb := decodeRunes(sa), decodeRunes(sb)
		d := weightedEditDistanceRunes(ra, rb, subst, e.Gap)
		out.Write(i, uint64(d))
		return nil
	})
}

func decodeRunes(s []byte) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range string(s) {
		out = append(out, r)
	}
	return out
}

func uniformSubst(u cost.Uniform) func(x, y byte) int64 {
	return func(x, y byte) int64 {
		if x == y {
			return int64(u.Match)
		}
		return int64(u.Mismatch)
	}
}

func uniformSubstRune(u cost.Uniform) func(x, y rune) int64 {
	return func(x, y rune) int64 {
		if x == y {
			return int64(u.Match)
		}
		return int64(u.Mismatch)
	}
}

// weightedEditDistance runs the Gotoh affine-gap DP over bytes. A linear
// gap model (Open == Extend) is the same recurrence with no special case,
// since Gotoh's formulation degenerates correctly when open equals extend.
func weightedEditDistance(a, b []byte, subst func(x, y byte) int64, gap cost.GapCost) int64 {
	n, m := len(a), len(b)
	open, extend := int64(gap.Open), int64(gap.Extend)

	h := make([][]int64, n+1)
	e := make([][]int64, n+1)
	f := make([][]int64, n+1)
	for i := range h {
		h[i] = make([]int64, m+1)
		e[i] = make([]int64, m+1)
		f[i] = make([]int64, m+1)
	}

	h[0][0] = 0
	e[0][0], f[0][0] = inf, inf
	for j := 1; j <= m; j++ {
		e[0][j] = open + int64(j-1)*extend
		f[0][j] = inf
		h[0][j] = e[0][j]
	}
	for i := 1; i <= n; i++ {
		f[i][0] = open + int64(i-1)*extend
		e[i][0] = inf
		h[i][0] = f[i][0]
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			e[i][j] = minI64(h[i][j-1]+open, e[i][j-1]+extend)
			f[i][j] = minI64(h[i-1][j]+open, f[i-1][j]+extend)
			diag := h[i-1][j-1] + subst(a[i-1], b[j-1])
			h[i][j] = minI64(diag, minI64(e[i][j], f[i][j]))
		}
	}
	return h[n][m]
}

func weightedEditDistanceRunes(a, b []rune, subst func(x, y rune) int64, gap cost.GapCost) int64 {
	n, m := len(a), len(b)
	open, extend := int64(gap.Open), int64(gap.Extend)

	h := make([][]int64, n+1)
	e := make([][]int64, n+1)
	f := make([][]int64, n+1)
	for i := range h {
		h[i] = make([]int64, m+1)
		e[i] = make([]int64, m+1)
		f[i] = make([]int64, m+1)
	}

	h[0][0] = 0
	e[0][0], f[0][0] = inf, inf
	for j := 1; j <= m; j++ {
		e[0][j] = open + int64(j-1)*extend
		f[0][j] = inf
		h[0][j] = e[0][j]
	}
	for i := 1; i <= n; i++ {
		f[i][0] = open + int64(i-1)*extend
		e[i][0] = inf
		h[i][0] = f[i][0]
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			e[i][j] = minI64(h[i][j-1]+open, e[i][j-1]+extend)
			f[i][j] = minI64(h[i-1][j]+open, f[i-1][j]+extend)
			diag := h[i-1][j-1] + subst(a[i-1], b[j-1])
			h[i][j] = minI64(diag, minI64(e[i][j], f[i][j]))
		}
	}
	return h[n][m]
}

func minI64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

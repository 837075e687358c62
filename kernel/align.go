package kernel

import (
	"context"

	"github.com/orneryd/affinity/cost"
	"github.com/orneryd/affinity/engine"
	"github.com/orneryd/affinity/scope"
	"github.com/orneryd/affinity/sequence"
	"github.com/orneryd/affinity/status"
	"github.com/orneryd/affinity/stridewrite"
)

const negInf = -(int64(1) << 40)

// RunNeedlemanWunsch computes the global alignment score for each pair
// (a[i], b[i]) under e's substitution matrix and gap cost, writing a
// signed score through out.
func RunNeedlemanWunsch(ctx context.Context, e *engine.Engine, sc *scope.Scope, a, b sequence.View, out stridewrite.I64Writer) error {
	if e.Algorithm != engine.AlgoNeedlemanWunsch {
		return status.New("kernel.RunNeedlemanWunsch", status.DeviceCodeMismatch, "engine is not a needleman_wunsch engine")
	}
	if err := e.CheckScope("kernel.RunNeedlemanWunsch", sc); err != nil {
		return err
	}
	if err := e.CheckUnifiedMemory("kernel.RunNeedlemanWunsch", a, b); err != nil {
		return err
	}
	if a.Count() != b.Count() {
		return status.New("kernel.RunNeedlemanWunsch", status.UnexpectedDimensions,
			"batch size mismatch: %d vs %d", a.Count(), b.Count())
	}
	return sc.Run(ctx, a.Count(), func(i int) error {
		score := globalAlignScore(a.At(i), b.At(i), e.Matrix, e.Gap)
		out.Write(i, score)
		return nil
	})
}

// RunSmithWaterman computes the best local alignment score for each pair
// (a[i], b[i]), clipped at zero, writing a non-negative score through out.
func RunSmithWaterman(ctx context.Context, e *engine.Engine, sc *scope.Scope, a, b sequence.View, out stridewrite.U64Writer) error {
	if e.Algorithm != engine.AlgoSmithWaterman {
		return status.New("kernel.RunSmithWaterman", status.DeviceCodeMismatch, "engine is not a smith_waterman engine")
	}
	if err := e.CheckScope("kernel.RunSmithWaterman", sc); err != nil {
		return err
	}
	if err := e.CheckUnifiedMemory("kernel.RunSmithWaterman", a, b); err != nil {
		return err
	}
	if a.Count() != b.Count() {
		return status.New("kernel.RunSmithWaterman", status.UnexpectedDimensions,
			"batch size mismatch: %d vs %d", a.Count(), b.Count())
	}
	return sc.Run(ctx, a.Count(), func(i int) error {
		score := localAlignScore(a.At(i), b.At(i), e.Matrix, e.Gap)
		out.Write(i, uint64(score))
		return nil
	})
}

// globalAlignScore runs Gotoh's affine-gap recurrence maximizing score
// (Needleman-Wunsch): every cell is reachable, the answer is the bottom
// right corner, and gaps may score negative.
func globalAlignScore(a, b []byte, matrix *cost.Matrix, gap cost.GapCost) int64 {
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
	e[0][0], f[0][0] = negInf, negInf
	for j := 1; j <= m; j++ {
		e[0][j] = open + int64(j-1)*extend
		f[0][j] = negInf
		h[0][j] = e[0][j]
	}
	for i := 1; i <= n; i++ {
		f[i][0] = open + int64(i-1)*extend
		e[i][0] = negInf
		h[i][0] = f[i][0]
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			e[i][j] = maxI64(h[i][j-1]+open, e[i][j-1]+extend)
			f[i][j] = maxI64(h[i-1][j]+open, f[i-1][j]+extend)
			diag := h[i-1][j-1] + int64(matrix[a[i-1]][b[j-1]])
			h[i][j] = maxI64(diag, maxI64(e[i][j], f[i][j]))
		}
	}
	return h[n][m]
}

// localAlignScore is Smith-Waterman: every cell additionally competes
// against 0, and the answer is the maximum cell in the whole matrix, not
// necessarily the bottom right corner.
func localAlignScore(a, b []byte, matrix *cost.Matrix, gap cost.GapCost) int64 {
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
	for i := 0; i <= n; i++ {
		e[i][0] = negInf
	}
	for j := 0; j <= m; j++ {
		f[0][j] = negInf
	}

	var best int64
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			e[i][j] = maxI64(h[i][j-1]+open, e[i][j-1]+extend)
			f[i][j] = maxI64(h[i-1][j]+open, f[i-1][j]+extend)
			diag := h[i-1][j-1] + int64(matrix[a[i-1]][b[j-1]])
			h[i][j] = maxI64(0, maxI64(diag, maxI64(e[i][j], f[i][j])))
			if h[i][j] > best {
				best = h[i][j]
			}
		}
	}
	return best
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

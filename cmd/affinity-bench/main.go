// Package main provides the affinity-bench CLI entry point.
//
// This is a companion tool, not part of the core kernel contract: it
// reports which capability tags and engine variants this process would
// select, and runs a small microbenchmark over a text corpus. Host-language
// wrapping and argument parsing for the core library itself remain outside
// this module's scope; this CLI only drives the Go API directly.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/orneryd/affinity/capability"
	"github.com/orneryd/affinity/cost"
	"github.com/orneryd/affinity/engine"
	"github.com/orneryd/affinity/internal/version"
	"github.com/orneryd/affinity/kernel"
	"github.com/orneryd/affinity/scope"
	"github.com/orneryd/affinity/sequence"
	"github.com/orneryd/affinity/stridewrite"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "affinity-bench",
		Short:   "Inspect and benchmark the affinity string-similarity kernels",
		Version: version.String(),
	}

	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(benchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print detected capability tags and the engine variant they select",
		RunE: func(cmd *cobra.Command, args []string) error {
			mask := capability.Detect()
			fmt.Printf("detected capabilities: %s\n", mask.String())

			e, err := engine.NewLevenshtein(cost.DefaultUniform, cost.DefaultGap, 0)
			if err != nil {
				return err
			}
			fmt.Printf("levenshtein variant: gap=%v backend=%s\n", e.Variant.Gap, e.Variant.Backend)
			return nil
		},
	}
}

func benchCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a Levenshtein microbenchmark over n synthetic pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(n)
		},
	}
	cmd.Flags().IntVarP(&n, "n", "n", 1000, "number of pairs to compare")
	return cmd
}

func runBench(n int) error {
	e, err := engine.NewLevenshtein(cost.DefaultUniform, cost.DefaultGap, 0)
	if err != nil {
		return err
	}

	words := []string{"kitten", "sitting", "saturday", "sunday", "levenshtein", "distance"}
	var data []byte
	offsets := []uint32{0}
	for i := 0; i < n; i++ {
		data = append(data, words[i%len(words)]...)
		offsets = append(offsets, uint32(len(data)))
	}
	a, err := sequence.NewU32Tape(data, offsets)
	if err != nil {
		return err
	}
	b := a

	out := make([]byte, n*8)
	writer := stridewrite.U64Writer{Base: out, Stride: 8}

	sc, err := scope.CPUCores(0)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := kernel.RunLevenshtein(context.Background(), e, sc, a, b, writer); err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("ran %d pairs in %s (%.0f pairs/sec)\n", n, elapsed, float64(n)/elapsed.Seconds())
	return nil
}

package sweep

import (
	"log/slog"

	"github.com/sarchlab/deconvbench/config"
)

// Options holds the global sweep knobs. The zero value enumerates everything
// with the default seed.
type Options struct {
	Seed       int64 // seed recorded with the sweep; synthetic data derives from it
	WeightLow  int   // inclusive synthetic weight range
	WeightHigh int
	Limit      int // cap on enumerated configurations, 0 = unlimited
	DryRun     bool
	MaxPE      int // cap on PE divisor options per configuration, 0 = all
	MaxSIMD    int // cap on SIMD divisor options per configuration, 0 = all
}

// DefaultOptions mirrors the benchmark's historical defaults.
func DefaultOptions() Options {
	return Options{Seed: 1234, WeightLow: 0, WeightHigh: 255}
}

// Enumerate Cartesian-expands the space into an ordered configuration table.
// The expansion order is fixed by the declared dimension order, so the same
// space always yields the same table. Combinations violating the parameter
// constraints (negative padding, zero channels) are skipped and counted, not
// clamped.
func Enumerate(space Space, opts Options) *config.Table {
	dims := [][]int{
		space["input_size"],
		space["in_channels"],
		space["out_channels"],
		space["kernel_size"],
		space["stride"],
	}
	paddings, hasPadding := space[paddingKey]
	if hasPadding {
		dims = append(dims, paddings)
	}

	tbl := &config.Table{}
	combo := make([]int, len(dims))
	var expand func(depth int)
	expand = func(depth int) {
		if opts.Limit > 0 && len(tbl.Configs) >= opts.Limit {
			return
		}
		if depth == len(dims) {
			c := config.New(combo[3], combo[4], combo[0], combo[0], combo[1], combo[2])
			if hasPadding {
				c = c.WithPadding(combo[5])
			}
			if err := c.Validate(); err != nil {
				tbl.Skipped++
				slog.Warn("Skipping configuration", "config", c.String(), "error", err)
				return
			}
			tbl.Configs = append(tbl.Configs, c)
			return
		}
		for _, v := range dims[depth] {
			combo[depth] = v
			expand(depth + 1)
		}
	}
	expand(0)

	return tbl
}

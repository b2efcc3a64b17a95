// Package config defines the deconvolution configuration tuple, its
// hardware-parallelism variants, and the identifier codec shared by every
// pipeline stage.
package config

import "fmt"

// Config holds the shape parameters of one deconvolution instance. A Config
// is a value and is never mutated after construction; the padding P is part
// of its identity and is not recomputed once set.
type Config struct {
	K  int // kernel size
	S  int // stride
	H  int // IFM height
	W  int // IFM width
	CI int // input channels
	CO int // output channels
	P  int // padding
}

// New creates a Config with P derived as K-S.
func New(k, s, h, w, ci, co int) Config {
	return Config{K: k, S: s, H: h, W: w, CI: ci, CO: co, P: k - s}
}

// WithPadding returns a copy with an explicitly supplied padding.
func (c Config) WithPadding(p int) Config {
	c.P = p
	return c
}

// Validate checks the parameter constraints. A violation is reported as a
// ValidationError so callers can skip the row and keep going.
func (c Config) Validate() error {
	if c.K <= 0 || c.S <= 0 || c.H <= 0 || c.W <= 0 {
		return &ValidationError{Config: c, Reason: "kernel, stride and spatial sizes must be positive"}
	}
	if c.CI <= 0 || c.CO <= 0 {
		return &ValidationError{Config: c, Reason: "channel counts must be positive"}
	}
	if c.P < 0 {
		return &ValidationError{Config: c, Reason: fmt.Sprintf("negative padding (K=%d < S=%d)", c.K, c.S)}
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("K=%d, S=%d, H=%d, W=%d, CI=%d, CO=%d, P=%d",
		c.K, c.S, c.H, c.W, c.CI, c.CO, c.P)
}

// DataBase returns the basename used by the experimental data tree, e.g.
// "deconv_3x3_in1_out3_k3_s1_p2". Reference inputs, weights and outputs for
// this Config are stored as {DataBase}_input.csv, {DataBase}_weights.csv and
// {DataBase}_output.csv.
func (c Config) DataBase() string {
	return fmt.Sprintf("deconv_%dx%d_in%d_out%d_k%d_s%d_p%d",
		c.H, c.W, c.CI, c.CO, c.K, c.S, c.P)
}

// Variant pairs a Config with one hardware parallelism factor pair. PE must
// divide CO and SIMD must divide CI.
type Variant struct {
	Config Config
	PE     int
	SIMD   int
}

// Tag returns the identifier-with-suffix string used in artifact filenames,
// e.g. "K3_S1_H3_W3_CI1_CO3_P2_PE1_SIMD1".
func (v Variant) Tag() string {
	return v.Config.Ident() + VariantSuffix(v.PE, v.SIMD)
}

// KernelOuterDim returns the outer dimension of the per-variant weight table,
// (CO/PE) * K * K * (CI/SIMD).
func (v Variant) KernelOuterDim() int {
	return (v.Config.CO / v.PE) * v.Config.K * v.Config.K * (v.Config.CI / v.SIMD)
}

// KernelElems returns the total number of weight elements of the table.
func (v Variant) KernelElems() int {
	return v.KernelOuterDim() * v.PE * v.SIMD
}

// Variants enumerates the parallelism factor pairs of c: all divisor pairs of
// (CO, CI) in ascending order, so (PE=1, SIMD=1) is always first. maxPE and
// maxSIMD cap the number of divisors considered per axis; zero means no cap.
// The Config must have passed Validate; zero channel counts would otherwise
// yield an empty divisor set.
func Variants(c Config, maxPE, maxSIMD int) []Variant {
	pes := divisors(c.CO, maxPE)
	simds := divisors(c.CI, maxSIMD)

	variants := make([]Variant, 0, len(pes)*len(simds))
	for _, pe := range pes {
		for _, simd := range simds {
			variants = append(variants, Variant{Config: c, PE: pe, SIMD: simd})
		}
	}
	return variants
}

func divisors(n, max int) []int {
	var ds []int
	for i := 1; i <= n; i++ {
		if n%i == 0 {
			ds = append(ds, i)
			if max > 0 && len(ds) == max {
				break
			}
		}
	}
	if len(ds) == 0 {
		// Degenerate n<=0 is rejected by Validate, but never leave a Config
		// without its trivial variant.
		ds = []int{1}
	}
	return ds
}

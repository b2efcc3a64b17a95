// Package emit renders the per-variant configuration headers and the selector
// header consumed by the HLS toolchain.
package emit

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/deconvbench/config"
)

// HeaderPrefix is the artifact filename prefix, e.g.
// "deconv_top_K3_S1_H3_W3_CI1_CO3_P2_PE1_SIMD1.hpp".
const HeaderPrefix = "deconv_top"

// Artifact describes one rendered variant header.
type Artifact struct {
	Variant  config.Variant
	Filename string
}

// Result aggregates one emission pass.
type Result struct {
	Artifacts     []Artifact
	Fallbacks     int // configurations that fell back to synthetic weights
	IgnoredTokens int // non-numeric tokens skipped across all weight files
}

// Builder can build Emitters.
type Builder struct {
	outputDir  string
	dataDir    string
	seed       int64
	weightLow  int
	weightHigh int
	maxPE      int
	maxSIMD    int
}

// NewBuilder returns a Builder with the historical weight range defaults.
func NewBuilder() Builder {
	return Builder{seed: 1234, weightLow: 0, weightHigh: 255}
}

// WithOutputDir sets the directory the headers are written to.
func (b Builder) WithOutputDir(dir string) Builder {
	b.outputDir = dir
	return b
}

// WithDataDir sets the experimental data directory searched for reference
// weight files. Empty means synthetic weights for every configuration.
func (b Builder) WithDataDir(dir string) Builder {
	b.dataDir = dir
	return b
}

// WithSeed sets the seed the synthetic fallback sequences derive from.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	return b
}

// WithWeightRange sets the inclusive value range of synthetic weights.
func (b Builder) WithWeightRange(low, high int) Builder {
	b.weightLow = low
	b.weightHigh = high
	return b
}

// WithVariantCaps caps the PE and SIMD divisor options per configuration.
// Zero means no cap.
func (b Builder) WithVariantCaps(maxPE, maxSIMD int) Builder {
	b.maxPE = maxPE
	b.maxSIMD = maxSIMD
	return b
}

// Build creates the Emitter.
func (b Builder) Build() *Emitter {
	return &Emitter{
		outputDir:  b.outputDir,
		dataDir:    b.dataDir,
		seed:       b.seed,
		weightLow:  b.weightLow,
		weightHigh: b.weightHigh,
		maxPE:      b.maxPE,
		maxSIMD:    b.maxSIMD,
	}
}

// Emitter renders configuration headers. Emission is deterministic: the same
// table and data tree always produce byte-identical artifacts.
type Emitter struct {
	outputDir  string
	dataDir    string
	seed       int64
	weightLow  int
	weightHigh int
	maxPE      int
	maxSIMD    int
}

// EmitAll renders every variant header of the table plus the selector header.
// A configuration whose reference weight file is absent degrades to the
// synthetic sequence with a warning; a table with no configurations is fatal.
func (e *Emitter) EmitAll(tbl *config.Table) (*Result, error) {
	if tbl == nil || len(tbl.Configs) == 0 {
		return nil, fmt.Errorf("configuration table is empty, nothing to emit")
	}
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &Result{}
	for position, c := range tbl.Configs {
		weights, ignored := e.weightsFor(c, position, result)
		result.IgnoredTokens += ignored

		for _, v := range config.Variants(c, e.maxPE, e.maxSIMD) {
			filename := fmt.Sprintf("%s_%s.hpp", HeaderPrefix, v.Tag())
			content := renderHeader(v, fitLength(weights, v.KernelElems()))
			path := filepath.Join(e.outputDir, filename)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", filename, err)
			}
			result.Artifacts = append(result.Artifacts, Artifact{Variant: v, Filename: filename})
			slog.Debug("Emitted variant header", "file", filename)
		}
	}

	if err := WriteSelector(e.outputDir, result.Artifacts); err != nil {
		return nil, err
	}
	return result, nil
}

// weightsFor loads the reference weights of c, or falls back to the
// deterministic synthetic sequence when no reference file exists.
func (e *Emitter) weightsFor(c config.Config, position int, result *Result) ([]uint8, int) {
	total := maxKernelElems(c)

	if e.dataDir != "" {
		path := filepath.Join(e.dataDir, c.DataBase()+"_weights.csv")
		values, ignored, err := LoadWeights(path)
		if err == nil && len(values) > 0 {
			return values, ignored
		}
		if err != nil && !os.IsNotExist(err) {
			slog.Warn("Failed to read weight file, using synthetic weights",
				"file", path, "error", err)
		} else {
			slog.Warn("Reference weights absent, using synthetic weights",
				"config", c.Ident())
		}
	}

	result.Fallbacks++
	return syntheticWeights(e.seed, position, total, e.weightLow, e.weightHigh), 0
}

// maxKernelElems is the flat element count of the weight tensor, the same for
// every variant of a configuration (the variants only reshape it).
func maxKernelElems(c config.Config) int {
	return c.K * c.K * c.CO * c.CI
}

// renderHeader produces the full text of one variant header in the layout
// the toolchain testbenches expect.
func renderHeader(v config.Variant, weights []uint8) string {
	c := v.Config
	var sb strings.Builder

	sb.WriteString("#ifndef DECONV_TOP_HPP\n")
	sb.WriteString("#define DECONV_TOP_HPP\n\n")
	sb.WriteString("#include <ap_int.h>\n")
	sb.WriteString("#include <hls_stream.h>\n")
	sb.WriteString("#include <hls_vector.h>\n\n")

	fmt.Fprintf(&sb, "constexpr unsigned  K = %d;\t\t// kernel Size\n", c.K)
	fmt.Fprintf(&sb, "constexpr unsigned  S = %d; \t\t// stride\n", c.S)
	fmt.Fprintf(&sb, "constexpr unsigned  P = %d;\t\t// padding\n", c.P)
	fmt.Fprintf(&sb, "constexpr unsigned  H = %d;\t\t// IFM height\n", c.H)
	fmt.Fprintf(&sb, "constexpr unsigned  W = %d;\t\t// IFM Width\n", c.W)
	fmt.Fprintf(&sb, "constexpr unsigned  CI = %d;\t\t// input channels\n", c.CI)
	fmt.Fprintf(&sb, "constexpr unsigned  CO = %d;\t\t// output channels\n\n", c.CO)

	sb.WriteString("using  TW = ap_uint< 8>;\n")
	sb.WriteString("using  TI = ap_uint< 4>;\n")
	sb.WriteString("using  TO = ap_uint<16>;\n\n")

	fmt.Fprintf(&sb, "constexpr unsigned  PE   = %d;\n", v.PE)
	fmt.Fprintf(&sb, "constexpr unsigned  SIMD = %d;\n\n", v.SIMD)

	sb.WriteString(renderKernelTable(v, weights))

	sb.WriteString("\nvoid deconv_top(\n")
	sb.WriteString("    hls::stream<hls::vector<TI, SIMD>> &src,\n")
	sb.WriteString("    hls::stream<hls::vector<TO, PE>>   &dst\n")
	sb.WriteString(");\n\n")
	sb.WriteString("#endif\n")

	return sb.String()
}

// renderKernelTable lays the flat weight list out as the
// KERNEL[outer][PE][SIMD] initializer, outer-blocked by output-channel group,
// kernel tap and input-channel group to match the parallel hardware layout.
func renderKernelTable(v config.Variant, weights []uint8) string {
	c := v.Config
	var sb strings.Builder

	fmt.Fprintf(&sb, "static TW const  KERNEL[%d][%d][%d] = {\n",
		v.KernelOuterDim(), v.PE, v.SIMD)

	idx := 0
	groups := make([]string, v.PE)
	lanes := make([]string, v.SIMD)
	for coGroup := 0; coGroup < c.CO/v.PE; coGroup++ {
		for tap := 0; tap < c.K*c.K; tap++ {
			for ciGroup := 0; ciGroup < c.CI/v.SIMD; ciGroup++ {
				for p := 0; p < v.PE; p++ {
					for s := 0; s < v.SIMD; s++ {
						lanes[s] = fmt.Sprintf("0x%02x", weights[idx])
						idx++
					}
					groups[p] = "{" + strings.Join(lanes, ",") + ",}"
				}
				fmt.Fprintf(&sb, "\t{%s},\n", strings.Join(groups, ","))
			}
		}
	}

	sb.WriteString("};\n")
	return sb.String()
}

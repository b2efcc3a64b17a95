package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/deconvbench/config"
)

// SelectorFilename is the name of the dispatch header.
const SelectorFilename = HeaderPrefix + ".hpp"

const selectorGuard = "DECONV_TOP_SELECTOR_HPP"

// Selection requests one variant artifact, by position or by tag. The zero
// value selects the primary (first enumerated) variant.
type Selection struct {
	Index int    // 1-based position; 0 means unset
	Tag   string // full variant tag, e.g. "K3_S1_H3_W3_CI1_CO3_P2_PE1_SIMD1"
}

// Resolve maps the selection onto exactly one artifact. Exactly one: the
// toolchain rejects a compilation with two active configuration headers, so
// ambiguity here is a contract violation, not a best-effort pick.
func (s Selection) Resolve(artifacts []Artifact) (Artifact, error) {
	if len(artifacts) == 0 {
		return Artifact{}, fmt.Errorf("no variant artifacts to select from")
	}
	if s.Index != 0 && s.Tag != "" {
		return Artifact{}, fmt.Errorf("selection must use an index or a tag, not both")
	}
	if s.Index != 0 {
		if s.Index < 1 || s.Index > len(artifacts) {
			return Artifact{}, fmt.Errorf("selection index %d out of range [1, %d]",
				s.Index, len(artifacts))
		}
		return artifacts[s.Index-1], nil
	}
	if s.Tag != "" {
		for _, a := range artifacts {
			if a.Variant.Tag() == s.Tag {
				return a, nil
			}
		}
		return Artifact{}, fmt.Errorf("no variant artifact with tag %q", s.Tag)
	}
	return artifacts[0], nil
}

// Macro returns the preprocessor macro that activates artifact a through the
// selector header.
func Macro(a Artifact) string {
	return "DECONV_CFG_" + a.Variant.Tag()
}

// WriteSelector renders the selector header: a mutually exclusive
// #if/#elif/#else chain with one branch per variant artifact. Only one branch
// can ever be active in a compilation, and with no macro defined the chain
// falls through to the first-enumerated variant.
func WriteSelector(outputDir string, artifacts []Artifact) error {
	var lines []string
	lines = append(lines,
		"// Auto-generated selector header for deconvolution configurations",
		"// Usage: define one of the following macros before including this file:")
	for i, a := range artifacts {
		lines = append(lines,
			fmt.Sprintf("//   - DECONV_CFG_IDX_%d", i),
			fmt.Sprintf("//   - %s", Macro(a)))
	}
	lines = append(lines, "", "#ifndef "+selectorGuard, "#define "+selectorGuard, "")

	if len(artifacts) > 0 {
		for i, a := range artifacts {
			branch := "#elif"
			if i == 0 {
				branch = "#if"
			}
			lines = append(lines,
				fmt.Sprintf("%s defined(DECONV_CFG_IDX_%d) || defined(%s)", branch, i, Macro(a)),
				fmt.Sprintf("#include %q", a.Filename))
		}
		lines = append(lines,
			"#else",
			fmt.Sprintf("#include %q", artifacts[0].Filename),
			"#endif")
	} else {
		lines = append(lines,
			`#error "No configuration headers were generated. Please generate configurations first."`)
	}

	lines = append(lines, "", "#endif // "+selectorGuard, "")

	path := filepath.Join(outputDir, SelectorFilename)
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
}

// ParseArtifactName recovers the variant of a rendered header filename. Kept
// next to the writer so the filename layout has a single owner.
func ParseArtifactName(filename string) (config.Variant, error) {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = strings.TrimPrefix(name, HeaderPrefix+"_")

	ident, pe, simd, err := config.SplitVariantSuffix(name)
	if err != nil {
		return config.Variant{}, err
	}
	c, err := config.ParseIdent(ident)
	if err != nil {
		return config.Variant{}, err
	}
	return config.Variant{Config: c, PE: pe, SIMD: simd}, nil
}

package emit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sarchlab/deconvbench/config"
)

func twoVariantArtifacts() []Artifact {
	c := config.New(3, 1, 3, 3, 1, 3)
	return []Artifact{
		{
			Variant:  config.Variant{Config: c, PE: 1, SIMD: 1},
			Filename: "deconv_top_K3_S1_H3_W3_CI1_CO3_P2_PE1_SIMD1.hpp",
		},
		{
			Variant:  config.Variant{Config: c, PE: 3, SIMD: 1},
			Filename: "deconv_top_K3_S1_H3_W3_CI1_CO3_P2_PE3_SIMD1.hpp",
		},
	}
}

func TestSelectionDefaultsToPrimaryVariant(t *testing.T) {
	artifacts := twoVariantArtifacts()

	picked, err := Selection{}.Resolve(artifacts)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if picked.Variant.PE != 1 || picked.Variant.SIMD != 1 {
		t.Errorf("Default selection should be the first enumerated variant, got PE=%d SIMD=%d",
			picked.Variant.PE, picked.Variant.SIMD)
	}
}

func TestSelectionResolvesExactlyOne(t *testing.T) {
	artifacts := twoVariantArtifacts()

	byIndex, err := Selection{Index: 2}.Resolve(artifacts)
	if err != nil {
		t.Fatalf("Resolve by index failed: %v", err)
	}
	if byIndex.Variant.PE != 3 {
		t.Errorf("Index 2 should pick PE=3, got PE=%d", byIndex.Variant.PE)
	}

	byTag, err := Selection{Tag: "K3_S1_H3_W3_CI1_CO3_P2_PE3_SIMD1"}.Resolve(artifacts)
	if err != nil {
		t.Fatalf("Resolve by tag failed: %v", err)
	}
	if byTag != byIndex {
		t.Error("Tag and index selections disagree on the same variant")
	}

	if _, err := (Selection{Index: 1, Tag: "x"}).Resolve(artifacts); err == nil {
		t.Error("Ambiguous selection (index and tag) must fail")
	}
	if _, err := (Selection{Index: 3}).Resolve(artifacts); err == nil {
		t.Error("Out-of-range index must fail")
	}
	if _, err := (Selection{Tag: "K9_S9_H9_W9_CI9_CO9_P0_PE1_SIMD1"}).Resolve(artifacts); err == nil {
		t.Error("Unknown tag must fail")
	}
}

func TestSelectorHeaderIsMutuallyExclusive(t *testing.T) {
	outDir := t.TempDir()
	artifacts := twoVariantArtifacts()
	if err := WriteSelector(outDir, artifacts); err != nil {
		t.Fatalf("WriteSelector failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(outDir, SelectorFilename))
	if err != nil {
		t.Fatal(err)
	}
	content := string(raw)

	// One #if chain: a single #if, one #elif per extra variant, one #else
	// defaulting to the first artifact. The chain guarantees only one
	// header can be active per compilation.
	if strings.Count(content, "\n#if defined(") != 1 {
		t.Error("Selector must open exactly one #if chain")
	}
	if strings.Count(content, "\n#elif defined(") != len(artifacts)-1 {
		t.Error("Selector must have one #elif per additional variant")
	}
	if !strings.Contains(content,
		"#else\n#include \""+artifacts[0].Filename+"\"\n#endif") {
		t.Error("Selector must default to the first enumerated variant")
	}
	for i, a := range artifacts {
		if !strings.Contains(content, Macro(a)) {
			t.Errorf("Selector is missing the macro for artifact %d", i)
		}
		if !strings.Contains(content, "#include \""+a.Filename+"\"") {
			t.Errorf("Selector is missing the include for artifact %d", i)
		}
	}
}

func TestParseArtifactName(t *testing.T) {
	v, err := ParseArtifactName("deconv_top_K3_S1_H3_W3_CI1_CO3_P2_PE3_SIMD1.hpp")
	if err != nil {
		t.Fatalf("ParseArtifactName failed: %v", err)
	}
	if v.Config != config.New(3, 1, 3, 3, 1, 3) {
		t.Errorf("Parsed wrong configuration: %s", v.Config)
	}
	if v.PE != 3 || v.SIMD != 1 {
		t.Errorf("Parsed wrong parallelism: PE=%d SIMD=%d", v.PE, v.SIMD)
	}

	if _, err := ParseArtifactName("deconv_top.hpp"); err == nil {
		t.Error("Selector filename must not parse as a variant artifact")
	}
}

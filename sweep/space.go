// Package sweep expands a parameter-space description into the ordered
// configuration table that drives the rest of the benchmark pipeline.
package sweep

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Space maps parameter names to their candidate values. Keys become Cartesian
// product dimensions during enumeration.
type Space map[string][]int

// The dimensions a space must declare, in enumeration order. The order is
// load-bearing: it fixes the configuration table order, which in turn fixes
// downstream processing order and the position-seeded synthetic weights.
var requiredKeys = []string{
	"input_size", "in_channels", "out_channels", "kernel_size", "stride",
}

// The padding dimension is optional; when absent, padding is derived as K-S
// per combination.
const paddingKey = "padding"

// LoadSpace reads a parameter-space file. The file is YAML; the JSON files
// used by earlier revisions of the benchmark parse identically. A malformed
// file or a missing required dimension is fatal, with no partial output.
func LoadSpace(path string) (Space, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter space %s: %w", path, err)
	}

	var space Space
	if err := yaml.Unmarshal(raw, &space); err != nil {
		return nil, fmt.Errorf("malformed parameter space %s: %w", path, err)
	}

	for _, key := range requiredKeys {
		vals, ok := space[key]
		if !ok {
			return nil, fmt.Errorf("parameter space %s: missing required key %q", path, key)
		}
		if len(vals) == 0 {
			return nil, fmt.Errorf("parameter space %s: key %q has no values", path, key)
		}
	}
	return space, nil
}

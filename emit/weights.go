package emit

import (
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/deconvbench/valgen"
)

// weightBits is the declared bit width of a weight element (TW = ap_uint<8>).
const weightBits = 8

const weightMax = 1<<weightBits - 1

// LoadWeights reads a flat weight list from a CSV file. Tokens may be comma
// or whitespace separated, decimal or 0x-prefixed hex. Non-numeric tokens
// (headers etc.) are ignored and counted. Out-of-range values saturate to the
// declared bit width; they never wrap around.
func LoadWeights(path string) (values []uint8, ignored int, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}

	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.ReplaceAll(line, ",", " ")
		for _, tok := range strings.Fields(line) {
			v, ok := parseToken(tok)
			if !ok {
				ignored++
				continue
			}
			values = append(values, clampWeight(v))
		}
	}
	return values, ignored, nil
}

func parseToken(tok string) (int64, bool) {
	if strings.HasPrefix(strings.ToLower(tok), "0x") {
		v, err := strconv.ParseInt(tok[2:], 16, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	if v, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return v, true
	}
	// The reference data occasionally carries integral floats like "5.0".
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}

func clampWeight(v int64) uint8 {
	if v < 0 {
		return 0
	}
	if v > weightMax {
		return weightMax
	}
	return uint8(v)
}

// fitLength pads the weight list with zeros or truncates it so that exactly n
// elements are available for the kernel table.
func fitLength(values []uint8, n int) []uint8 {
	if len(values) >= n {
		return values[:n]
	}
	fitted := make([]uint8, n)
	copy(fitted, values)
	return fitted
}

// syntheticWeights yields the deterministic fallback sequence for a
// configuration that has no reference weight file. The sequence depends only
// on the sweep seed and the configuration's position in the enumeration, so
// re-running emission reproduces it byte for byte.
func syntheticWeights(seed int64, position, n, low, high int) []uint8 {
	gen := valgen.MakeSeededGen(seed+int64(position), low, high)
	values := make([]uint8, n)
	for i := range values {
		values[i] = clampWeight(int64(gen()))
	}
	return values
}

package config

import (
	"fmt"
	"regexp"
	"strconv"
)

// The canonical identifier grammar. Every stage joins artifacts, simulation
// outputs and golden data through this one codec; nothing else in the module
// may split these strings by hand.
var identRe = regexp.MustCompile(
	`^K(\d+)_S(\d+)_H(\d+)_W(\d+)_CI(\d+)_CO(\d+)_P(\d+)$`)

var suffixRe = regexp.MustCompile(`^(.*)_PE(\d+)_SIMD(\d+)$`)

var dataBaseRe = regexp.MustCompile(
	`^deconv_(\d+)x(\d+)_in(\d+)_out(\d+)_k(\d+)_s(\d+)_p(\d+)$`)

// Ident encodes c as the canonical identifier string, e.g.
// "K3_S1_H3_W3_CI1_CO3_P2". ParseIdent inverts it exactly.
func (c Config) Ident() string {
	return fmt.Sprintf("K%d_S%d_H%d_W%d_CI%d_CO%d_P%d",
		c.K, c.S, c.H, c.W, c.CI, c.CO, c.P)
}

// ParseIdent decodes an identifier string back into a Config. The string must
// match the canonical grammar with the fields in exactly this order:
// K<uint>_S<uint>_H<uint>_W<uint>_CI<uint>_CO<uint>_P<uint>.
func ParseIdent(s string) (Config, error) {
	m := identRe.FindStringSubmatch(s)
	if m == nil {
		return Config{}, &ParseError{Input: s, Reason: "does not match K_S_H_W_CI_CO_P grammar"}
	}

	fields := make([]int, 7)
	for i := 0; i < 7; i++ {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Config{}, &ParseError{Input: s, Reason: err.Error()}
		}
		fields[i] = v
	}

	return Config{
		K:  fields[0],
		S:  fields[1],
		H:  fields[2],
		W:  fields[3],
		CI: fields[4],
		CO: fields[5],
		P:  fields[6],
	}, nil
}

// ParseDataBase decodes an experimental-data basename (see Config.DataBase)
// back into a Config. The reference data tree and the simulation outputs are
// both keyed by this form.
func ParseDataBase(s string) (Config, error) {
	m := dataBaseRe.FindStringSubmatch(s)
	if m == nil {
		return Config{}, &ParseError{Input: s, Reason: "does not match deconv_{H}x{W}_in{CI}_out{CO}_k{K}_s{S}_p{P} grammar"}
	}

	fields := make([]int, 7)
	for i := 0; i < 7; i++ {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Config{}, &ParseError{Input: s, Reason: err.Error()}
		}
		fields[i] = v
	}

	return Config{
		H:  fields[0],
		W:  fields[1],
		CI: fields[2],
		CO: fields[3],
		K:  fields[4],
		S:  fields[5],
		P:  fields[6],
	}, nil
}

// VariantSuffix encodes a parallelism pair as the filename suffix appended to
// gathered simulation outputs, e.g. "_PE1_SIMD1".
func VariantSuffix(pe, simd int) string {
	return fmt.Sprintf("_PE%d_SIMD%d", pe, simd)
}

// SplitVariantSuffix splits a name of the form "{base}_PE{pe}_SIMD{simd}" into
// its base and parallelism pair. Names without the suffix fail with a
// ParseError.
func SplitVariantSuffix(name string) (base string, pe, simd int, err error) {
	m := suffixRe.FindStringSubmatch(name)
	if m == nil {
		return "", 0, 0, &ParseError{Input: name, Reason: "missing _PE{n}_SIMD{n} suffix"}
	}
	pe, err = strconv.Atoi(m[2])
	if err != nil {
		return "", 0, 0, &ParseError{Input: name, Reason: err.Error()}
	}
	simd, err = strconv.Atoi(m[3])
	if err != nil {
		return "", 0, 0, &ParseError{Input: name, Reason: err.Error()}
	}
	return m[1], pe, simd, nil
}

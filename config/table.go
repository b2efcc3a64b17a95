package config

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// TableColumns is the header of the configuration table CSV.
var TableColumns = []string{
	"kernel_size", "stride", "input_size", "in_channels", "out_channels", "padding",
}

// Table is the ordered list of configurations produced by one sweep
// enumeration. Order is significant: it fixes the processing order of every
// later stage and the position-seeded synthetic weights.
type Table struct {
	Configs []Config
	Skipped int // malformed or invalid rows dropped while loading
}

// WriteTable writes the table to path in the configuration CSV schema.
func WriteTable(path string, tbl *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write configuration table: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(TableColumns); err != nil {
		return err
	}
	for _, c := range tbl.Configs {
		row := []string{
			strconv.Itoa(c.K),
			strconv.Itoa(c.S),
			strconv.Itoa(c.H),
			strconv.Itoa(c.CI),
			strconv.Itoa(c.CO),
			strconv.Itoa(c.P),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// LoadTable reads a configuration table CSV. A missing file is fatal; a
// malformed row is skipped and counted. The padding column may be blank, in
// which case P is derived as K-S.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &MissingPrerequisiteError{
			Missing: path,
			Remedy:  "deconvbench validate --param-file <space>",
		}
	}
	defer f.Close()

	return ReadTable(f)
}

// ReadTable parses the configuration table from r. The first record must be
// the header; its column order fixes the field positions for the data rows.
func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration table header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, want := range TableColumns[:5] {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("configuration table is missing column %q", want)
		}
	}

	tbl := &Table{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			tbl.Skipped++
			slog.Warn("Skipping unreadable configuration row", "error", err)
			continue
		}

		c, err := rowToConfig(record, col)
		if err != nil {
			tbl.Skipped++
			slog.Warn("Skipping invalid configuration row", "row", record, "error", err)
			continue
		}
		tbl.Configs = append(tbl.Configs, c)
	}
	return tbl, nil
}

func rowToConfig(record []string, col map[string]int) (Config, error) {
	get := func(name string) (int, error) {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return 0, fmt.Errorf("missing column %q", name)
		}
		return strconv.Atoi(strings.TrimSpace(record[i]))
	}

	k, err := get("kernel_size")
	if err != nil {
		return Config{}, err
	}
	s, err := get("stride")
	if err != nil {
		return Config{}, err
	}
	size, err := get("input_size")
	if err != nil {
		return Config{}, err
	}
	ci, err := get("in_channels")
	if err != nil {
		return Config{}, err
	}
	co, err := get("out_channels")
	if err != nil {
		return Config{}, err
	}

	c := New(k, s, size, size, ci, co)
	if i, ok := col["padding"]; ok && i < len(record) && strings.TrimSpace(record[i]) != "" {
		p, err := strconv.Atoi(strings.TrimSpace(record[i]))
		if err != nil {
			return Config{}, fmt.Errorf("bad padding value: %w", err)
		}
		c = c.WithPadding(p)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

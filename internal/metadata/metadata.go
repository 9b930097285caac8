// Package metadata attaches per-sample attribute tables (typically genus and
// species calls from the species-identification step) to discovered samples.
// The table is an optional side channel; core discovery never depends on it.
package metadata

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// defaultRelPath is the conventional location of the species multireport
// inside assembly-pipeline output.
var defaultRelPath = filepath.Join("identify_species", "top1_species_multireport.csv")

// sampleColumn is the column that keys the table by sample name.
const sampleColumn = "sample"

// SchemaError reports a metadata table missing one or more expected columns.
type SchemaError struct {
	Path    string
	Missing []string
	Columns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf(
		"the metadata file %s does not contain the expected column(s) %s (found: %s); check the capitalization of the column names",
		e.Path, strings.Join(e.Missing, ", "), strings.Join(e.Columns, ", "),
	)
}

// Table maps sample names to their attribute key/value pairs. Sample names
// are opaque strings, never coerced, so purely numeric identifiers survive.
type Table map[string]map[string]string

// Load reads a per-sample metadata CSV keyed by the "sample" column.
//
// When path is empty, the conventional default location under inputDir is
// probed; an absent default yields a nil table without error. An explicitly
// given path must exist. Every column in expectedCols must be present in the
// header or the load fails with a SchemaError.
func Load(path, inputDir string, expectedCols []string) (Table, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(inputDir, defaultRelPath)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open metadata file %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse metadata file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, &SchemaError{Path: path, Missing: append([]string{sampleColumn}, expectedCols...)}
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}

	var missing []string
	reported := make(map[string]bool)
	for _, col := range append([]string{sampleColumn}, expectedCols...) {
		if _, ok := index[col]; ok || reported[col] {
			continue
		}
		reported[col] = true
		missing = append(missing, col)
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Path: path, Missing: missing, Columns: header}
	}

	table := make(Table, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(header) {
			continue
		}
		name := record[index[sampleColumn]]
		attrs := make(map[string]string, len(header)-1)
		for col, i := range index {
			if col == sampleColumn {
				continue
			}
			attrs[col] = record[i]
		}
		table[name] = attrs
	}
	return table, nil
}

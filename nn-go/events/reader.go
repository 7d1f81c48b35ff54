package events

import (
	"sort"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
)

// Reader reads the named columns of an event file into a Table. A column the
// source does not provide is a schema error; a source that cannot be opened or
// decoded is an I/O error.
type Reader interface {
	Read(path string, columns []string) (*Table, error)
}

// Format names an input file type.
type Format string

const (
	// ROOT is a ROOT file holding a TTree of events.
	ROOT Format = "root"
	// CSV is a comma separated file with a header row.
	CSV Format = "csv"
	// JSONLines is a stream of JSON objects, one per event, optionally gzipped.
	JSONLines Format = "jsonl"
)

// Options configures format adapters.
type Options struct {
	// TreeName is the ROOT tree to read; empty selects the first tree in the file.
	TreeName string
}

// Formats lists the supported formats.
func Formats() []string {
	names := []string{string(ROOT), string(CSV), string(JSONLines)}
	sort.Strings(names)
	return names
}

// NewReader returns the adapter for the given format.
func NewReader(format Format, opts Options) (Reader, error) {
	switch format {
	case ROOT:
		return rootReader{tree: opts.TreeName}, nil
	case CSV:
		return csvReader{}, nil
	case JSONLines:
		return jsonlReader{}, nil
	}
	return nil, errors.Config(nil, "unknown input format %q, expected one of %v", format, Formats())
}

// collector accumulates rows for a fixed set of requested columns.
type collector struct {
	table *Table
	row   []float64
}

func newCollector(columns []string) (*collector, error) {
	t, err := NewTable(columns...)
	if err != nil {
		return nil, err
	}
	return &collector{table: t, row: make([]float64, len(columns))}, nil
}

func (c *collector) flush() error {
	return c.table.AppendRow(c.row)
}

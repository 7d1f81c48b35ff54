package events

import (
	"strconv"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/fileutil"
	"github.com/gocarina/gocsv"
)

type csvReader struct{}

// Read implements Reader for CSV files with a header row. Cells are parsed as
// float64; "true"/"false" cells are accepted as 1/0.
func (csvReader) Read(path string, columns []string) (t *Table, err error) {
	r, err := fileutil.NewDecompressedReader(path)
	if err != nil {
		return nil, errors.IO(err, "opening %s", path)
	}
	defer errors.Defer(&err, r.Close)

	records, err := gocsv.CSVToMaps(r)
	if err != nil {
		return nil, errors.IO(err, "reading %s", path)
	}

	c, err := newCollector(columns)
	if err != nil {
		return nil, err
	}
	for i, rec := range records {
		for j, name := range columns {
			cell, ok := rec[name]
			if !ok {
				return nil, errors.Schema(nil, "%s has no column %q", path, name)
			}
			v, err := parseCell(cell)
			if err != nil {
				return nil, errors.IO(err, "%s row %d column %q", path, i+1, name)
			}
			c.row[j] = v
		}
		if err := c.flush(); err != nil {
			return nil, err
		}
	}
	if len(records) == 0 {
		// an empty body still has to carry the requested header
		if err := checkHeader(path, columns); err != nil {
			return nil, err
		}
	}
	return c.table, nil
}

func parseCell(cell string) (float64, error) {
	switch cell {
	case "true", "True":
		return 1, nil
	case "false", "False":
		return 0, nil
	}
	return strconv.ParseFloat(cell, 64)
}

func checkHeader(path string, columns []string) (err error) {
	r, err := fileutil.NewDecompressedReader(path)
	if err != nil {
		return errors.IO(err, "opening %s", path)
	}
	defer errors.Defer(&err, r.Close)

	header, err := gocsv.LazyCSVReader(r).Read()
	if err != nil {
		return errors.IO(err, "reading header of %s", path)
	}
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	for _, name := range columns {
		if !have[name] {
			return errors.Schema(nil, "%s has no column %q", path, name)
		}
	}
	return nil
}

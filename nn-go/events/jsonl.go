package events

import (
	"strings"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/serialization"
)

type jsonlReader struct{}

// Read implements Reader for JSON-lines files. Only the requested fields are
// converted, so events may carry other fields of any type. A requested field
// that is missing or not a number or boolean is a schema error.
func (jsonlReader) Read(path string, columns []string) (*Table, error) {
	c, err := newCollector(columns)
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(strings.TrimSuffix(path, ".gz"), ".sz")
	if !strings.HasSuffix(base, ".jsonl") && !strings.HasSuffix(base, ".json") {
		return nil, errors.Config(nil, "JSON-lines input %s must end in .jsonl or .json", path)
	}

	var n int
	err = serialization.Each(path, func(ev *map[string]interface{}) error {
		n++
		for j, name := range columns {
			raw, ok := (*ev)[name]
			if !ok {
				return errors.Schema(nil, "%s event %d has no field %q", path, n, name)
			}
			v, err := jsonNumber(raw)
			if err != nil {
				return errors.Schema(err, "%s event %d field %q", path, n, name)
			}
			c.row[j] = v
		}
		return c.flush()
	})
	switch {
	case errors.IsSchema(err):
		return nil, err
	case err != nil:
		return nil, errors.IO(err, "reading %s", path)
	}
	return c.table, nil
}

func jsonNumber(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}
	return 0, errors.Errorf("%v is a %T, not a number", raw, raw)
}

package serialization

import (
	"bytes"
	"compress/gzip"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	Q2V1  float64
	Evtwt float64
}

func gzipString(x string) []byte {
	var b bytes.Buffer
	w := gzip.NewWriter(&b)
	w.Write([]byte(x))
	w.Close()
	return b.Bytes()
}

func TestJSONLines(t *testing.T) {
	var events []*event
	d := []byte("{\"Q2V1\": 0.1, \"Evtwt\": 1}\n{\"Q2V1\": 0.2, \"Evtwt\": 2}\n")
	err := each(bytes.NewBuffer(d), "embed.jsonl", func(e *event) error {
		events = append(events, e)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 0.2, events[1].Q2V1)
}

func TestGzippedMaps(t *testing.T) {
	var rows []map[string]float64
	d := gzipString(`{"a": 1}{"a": 2, "b": 3}`)
	err := each(bytes.NewBuffer(d), "s3://hep-data/embed.jsonl.gz", func(m *map[string]float64) error {
		rows = append(rows, *m)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 3.0, rows[1]["b"])
}

func TestStop(t *testing.T) {
	var n int
	d := []byte(`{"Q2V1": 1}{"Q2V1": 2}{"Q2V1": 3}`)
	err := each(bytes.NewBuffer(d), "x.json", func(e *event) error {
		n++
		if n == 2 {
			return ErrStop
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestHandlerError(t *testing.T) {
	boom := errors.New("boom")
	err := each(bytes.NewBufferString(`{"Q2V1": 1}`), "x.json", func(e *event) error { return boom })
	assert.Equal(t, boom, err)

	err = each(bytes.NewBufferString(`{"Q2V1": `), "x.json", func(e *event) error { return nil })
	assert.Error(t, err)
}

func TestUnknownEncoding(t *testing.T) {
	err := decodeOne(bytes.NewBufferString("x"), "x.hdf5", &event{})
	assert.True(t, errors.IsConfig(err))

	_, err = NewEncoder(filepath.Join(os.TempDir(), "x.hdf5"))
	assert.True(t, errors.IsConfig(err))
}

func TestEncodeDecodeFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "serialization")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	for _, name := range []string{"m.json", "m.json.gz", "m.gob", "m.yaml", "m.yml.gz", "m.json.sz", "m.gob.sz"} {
		path := filepath.Join(dir, "models", name)
		in := event{Q2V1: 0.25, Evtwt: 1.5}
		require.NoError(t, Encode(path, in), name)

		var out event
		require.NoError(t, Decode(path, &out), name)
		assert.Equal(t, in, out, name)
	}

	err = Decode(filepath.Join(dir, "missing.json"), &event{})
	assert.True(t, errors.IsIO(err))
}

func TestFailedEncodeKeepsPreviousFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "serialization")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	for _, name := range []string{"m.json", "m.json.gz"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Encode(path, event{Q2V1: 0.25}), name)

		err := Encode(path, map[string]float64{"Q2V1": math.Inf(1)})
		assert.Error(t, err, name)

		var out event
		require.NoError(t, Decode(path, &out), name)
		assert.Equal(t, 0.25, out.Q2V1, name)
	}

	entries, err := ioutil.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

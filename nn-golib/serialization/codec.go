package serialization

import (
	"compress/gzip"
	"encoding/gob"
	"encoding/json"
	"io"
	"strings"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
	"github.com/golang/snappy"
	yaml "gopkg.in/yaml.v2"
)

// Decoder matches gob.Decoder, json.Decoder and yaml.Decoder.
type Decoder interface {
	Decode(interface{}) error
}

// Encoder matches gob.Encoder, json.Encoder and yaml.Encoder.
type Encoder interface {
	Encode(interface{}) error
}

type codec struct {
	exts       []string
	newDecoder func(io.Reader) Decoder
	// newEncoder may return a closer that must run before the stream closes
	newEncoder func(io.Writer) (Encoder, io.Closer)
}

var codecs = []codec{
	{
		exts:       []string{".json", ".jsonl"},
		newDecoder: func(r io.Reader) Decoder { return json.NewDecoder(r) },
		newEncoder: func(w io.Writer) (Encoder, io.Closer) {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc, nil
		},
	},
	{
		exts:       []string{".gob"},
		newDecoder: func(r io.Reader) Decoder { return gob.NewDecoder(r) },
		newEncoder: func(w io.Writer) (Encoder, io.Closer) { return gob.NewEncoder(w), nil },
	},
	{
		exts:       []string{".yml", ".yaml"},
		newDecoder: func(r io.Reader) Decoder { return yaml.NewDecoder(r) },
		newEncoder: func(w io.Writer) (Encoder, io.Closer) {
			enc := yaml.NewEncoder(w)
			return enc, enc
		},
	},
}

// Compression suffixes understood after the encoding extension.
const (
	gzipExt   = ".gz"
	snappyExt = ".sz"
)

func compressionOf(path string) string {
	for _, ext := range []string{gzipExt, snappyExt} {
		if strings.HasSuffix(path, ext) {
			return ext
		}
	}
	return ""
}

// lookup finds the codec for path, which may carry a compression suffix.
func lookup(path string) (codec, string, error) {
	compression := compressionOf(path)
	base := strings.TrimSuffix(path, compression)
	for _, c := range codecs {
		for _, ext := range c.exts {
			if strings.HasSuffix(base, ext) {
				return c, compression, nil
			}
		}
	}
	return codec{}, "", errors.Config(nil, "no encoding known for %s", path)
}

// newStreamDecoder wraps r according to the extensions of path.
func newStreamDecoder(r io.Reader, path string) (Decoder, func() error, error) {
	c, compression, err := lookup(path)
	if err != nil {
		return nil, nil, err
	}
	done := func() error { return nil }
	switch compression {
	case gzipExt:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, errors.IO(err, "opening gzip stream %s", path)
		}
		r, done = zr, zr.Close
	case snappyExt:
		r = snappy.NewReader(r)
	}
	return c.newDecoder(r), done, nil
}

package serialization

import (
	"io"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/fileutil"
)

// ErrStop can be returned from an Each handler to end decoding early.
var ErrStop = errors.New("stop decoding")

// Decode reads a single object from path into dst. The encoding follows the
// file extension (.json, .jsonl, .gob, .yml, .yaml), optionally followed by
// .gz or .sz.
func Decode(path string, dst interface{}) (err error) {
	r, err := fileutil.NewReader(path)
	if err != nil {
		return errors.IO(err, "opening %s", path)
	}
	defer errors.Defer(&err, r.Close)
	return decodeOne(r, path, dst)
}

func decodeOne(r io.Reader, path string, dst interface{}) (err error) {
	d, done, err := newStreamDecoder(r, path)
	if err != nil {
		return err
	}
	defer errors.Defer(&err, done)
	if err := d.Decode(dst); err != nil {
		return errors.Wrapf(err, "decoding %s", path)
	}
	return nil
}

// Each decodes a stream of objects from path, such as JSON lines, and passes
// each one to handle until the stream ends or handle returns ErrStop.
//
//	err := serialization.Each("embed.jsonl.gz", func(ev *map[string]float64) error {
//		rows = append(rows, *ev)
//		return nil
//	})
func Each[T any](path string, handle func(*T) error) (err error) {
	r, err := fileutil.NewReader(path)
	if err != nil {
		return errors.IO(err, "opening %s", path)
	}
	defer errors.Defer(&err, r.Close)
	return each(r, path, handle)
}

func each[T any](r io.Reader, path string, handle func(*T) error) (err error) {
	d, done, err := newStreamDecoder(r, path)
	if err != nil {
		return err
	}
	defer errors.Defer(&err, done)

	for {
		elem := new(T)
		switch err := d.Decode(elem); {
		case err == io.EOF:
			return nil
		case err != nil:
			return errors.Wrapf(err, "decoding %s", path)
		}
		switch err := handle(elem); {
		case err == ErrStop:
			return nil
		case err != nil:
			return err
		}
	}
}

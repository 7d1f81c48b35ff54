package serialization

import (
	"compress/gzip"
	"io"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/fileutil"
	"github.com/golang/snappy"
)

// Encode writes obj to path (local or s3) in the encoding named by its
// extension. A trailing .gz or .sz compresses the stream with gzip or snappy;
// parent directories are created as needed.
func Encode(path string, obj interface{}) (err error) {
	enc, err := NewEncoder(path)
	if err != nil {
		return err
	}
	if err := enc.Encode(obj); err != nil {
		enc.Abort()
		return errors.Wrapf(err, "encoding %s", path)
	}
	return enc.Close()
}

// EncodeCloser is an Encoder that owns the stream it writes to.
type EncodeCloser struct {
	Encoder
	// innermost first
	closers []io.Closer
}

// Close flushes the encoder and any compression, then closes the file.
func (e *EncodeCloser) Close() error {
	var err error
	for _, c := range e.closers {
		err = errors.Combine(err, c.Close())
	}
	return err
}

// Abort releases the stream without publishing it. Writers that cannot
// discard their output are closed instead.
func (e *EncodeCloser) Abort() error {
	last := len(e.closers) - 1
	for _, c := range e.closers[:last] {
		c.Close()
	}
	if a, ok := e.closers[last].(fileutil.Aborter); ok {
		return a.Abort()
	}
	return e.closers[last].Close()
}

// NewEncoder opens path for writing and returns an encoder for its extension.
func NewEncoder(path string) (*EncodeCloser, error) {
	c, compression, err := lookup(path)
	if err != nil {
		return nil, err
	}
	f, err := fileutil.NewBufferedWriter(path)
	if err != nil {
		return nil, errors.IO(err, "creating %s", path)
	}

	var w io.Writer = f
	closers := []io.Closer{f}
	switch compression {
	case gzipExt:
		zw := gzip.NewWriter(f)
		w = zw
		closers = append([]io.Closer{zw}, closers...)
	case snappyExt:
		sw := snappy.NewBufferedWriter(f)
		w = sw
		closers = append([]io.Closer{sw}, closers...)
	}
	enc, flush := c.newEncoder(w)
	if flush != nil {
		closers = append([]io.Closer{flush}, closers...)
	}
	return &EncodeCloser{Encoder: enc, closers: closers}, nil
}

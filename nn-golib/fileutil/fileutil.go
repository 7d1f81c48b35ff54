package fileutil

import (
	"compress/gzip"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/awsutil"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
)

// NewReader opens path for reading. Paths of the form s3://bucket/key are
// streamed from S3, http(s) URLs are fetched, and anything else is read from
// the local filesystem.
func NewReader(path string) (io.ReadCloser, error) {
	switch {
	case awsutil.IsS3URI(path):
		return awsutil.NewS3Reader(path)
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		resp, err := http.Get(path)
		if err != nil {
			return nil, errors.IO(err, "getting %s", path)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, errors.IO(nil, "getting %s: %s", path, resp.Status)
		}
		return resp.Body, nil
	case strings.Contains(path, "://"):
		return nil, errors.Config(nil, "cannot read %s: unsupported scheme", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IO(err, "opening %s", path)
	}
	return f, nil
}

type gzipReadCloser struct {
	*gzip.Reader
	underlying io.Closer
}

func (g gzipReadCloser) Close() error {
	return errors.Combine(g.Reader.Close(), g.underlying.Close())
}

// NewDecompressedReader is NewReader, gunzipping paths that end in ".gz".
func NewDecompressedReader(path string) (io.ReadCloser, error) {
	r, err := NewReader(path)
	if err != nil || !strings.HasSuffix(path, ".gz") {
		return r, err
	}
	gz, err := gzip.NewReader(r)
	if err != nil {
		r.Close()
		return nil, errors.IO(err, "opening gzip stream %s", path)
	}
	return gzipReadCloser{Reader: gz, underlying: r}, nil
}

// LocalPath returns a path on local disk holding the contents of path, which
// is needed for formats read with random access. S3 objects are downloaded to
// the cache.
func LocalPath(path string) (string, error) {
	if awsutil.IsS3URI(path) {
		return awsutil.Download(path)
	}
	if strings.Contains(path, "://") {
		return "", errors.Config(nil, "cannot localize %s: only s3 and local paths can be localized", path)
	}
	if _, err := os.Stat(path); err != nil {
		return "", errors.IO(err, "locating %s", path)
	}
	return path, nil
}

// NamedWriteCloser is an io.WriteCloser that reports where it writes, like
// os.File.Name().
type NamedWriteCloser = awsutil.NamedWriteCloser

// Aborter is implemented by writers that can discard everything written so
// far instead of publishing it on Close.
type Aborter interface {
	Abort() error
}

// atomicFile writes to a temporary file next to path and renames it into
// place on Close, so readers never see a partial file and a failed write
// leaves the previous contents alone.
type atomicFile struct {
	*os.File
	path string
}

func (a atomicFile) Name() string {
	return a.path
}

func (a atomicFile) Close() error {
	tmp := a.File.Name()
	if err := a.File.Close(); err != nil {
		os.Remove(tmp)
		return errors.IO(err, "writing %s", a.path)
	}
	if err := os.Rename(tmp, a.path); err != nil {
		os.Remove(tmp)
		return errors.IO(err, "replacing %s", a.path)
	}
	return nil
}

func (a atomicFile) Abort() error {
	a.File.Close()
	return os.Remove(a.File.Name())
}

// NewBufferedWriter opens path for writing. S3 paths are spooled locally and
// uploaded on Close. Local paths get their parent directories created and are
// replaced atomically on Close. Call Abort (see Aborter) to drop the write.
func NewBufferedWriter(path string) (NamedWriteCloser, error) {
	if awsutil.IsS3URI(path) {
		return awsutil.NewBufferedS3Writer(path)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.IO(err, "creating directory for %s", path)
	}
	f, err := ioutil.TempFile(dir, "."+filepath.Base(path)+".tmp")
	if err != nil {
		return nil, errors.IO(err, "creating %s", path)
	}
	if err := f.Chmod(0644); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, errors.IO(err, "creating %s", path)
	}
	return atomicFile{File: f, path: path}, nil
}

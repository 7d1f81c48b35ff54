package awsutil

import (
	"io"
	"io/ioutil"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/envutil"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const scheme = "s3://"

var (
	// region used to look up bucket locations
	defaultRegion = envutil.GetenvDefault("AWS_REGION", "us-east-1")
	// downloaded ntuples are kept here between runs
	cacheroot = envutil.GetenvDefault("NN_S3CACHE", filepath.Join(os.TempDir(), "nn-s3cache"))

	regionsMu sync.Mutex
	regions   = make(map[string]string)
)

// IsS3URI returns true if the path is an s3 uri.
func IsS3URI(path string) bool {
	return strings.HasPrefix(path, scheme)
}

// SetCacheRoot changes where Download keeps its copies.
func SetCacheRoot(path string) {
	cacheroot = path
}

// Object is a parsed s3://bucket/key location.
type Object struct {
	Bucket string
	Key    string
}

// ParseObject splits an s3 uri into bucket and key.
func ParseObject(uri string) (Object, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Object{}, errors.Config(err, "parsing %s", uri)
	}
	obj := Object{Bucket: u.Host, Key: strings.TrimPrefix(u.Path, "/")}
	if u.Scheme != "s3" || obj.Bucket == "" || obj.Key == "" {
		return Object{}, errors.Config(nil, "%s: expected s3://bucket/key", uri)
	}
	return obj, nil
}

func (o Object) String() string {
	return scheme + o.Bucket + "/" + o.Key
}

// CachePath is where Download stores the object on local disk.
func (o Object) CachePath() string {
	return filepath.Join(cacheroot, o.Bucket, filepath.FromSlash(o.Key))
}

func newClient(region string) (*s3.S3, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, errors.IO(err, "creating aws session")
	}
	return s3.New(sess, aws.NewConfig().WithRegion(region)), nil
}

// client returns a client for the region the bucket lives in. Regions are
// looked up once per bucket.
func (o Object) client() (*s3.S3, error) {
	regionsMu.Lock()
	region, ok := regions[o.Bucket]
	regionsMu.Unlock()
	if ok {
		return newClient(region)
	}

	c, err := newClient(defaultRegion)
	if err != nil {
		return nil, err
	}
	out, err := c.GetBucketLocation(&s3.GetBucketLocationInput{Bucket: aws.String(o.Bucket)})
	if err != nil {
		return nil, errors.IO(err, "locating bucket %s", o.Bucket)
	}
	// an empty constraint means the classic region
	region = "us-east-1"
	if out.LocationConstraint != nil && *out.LocationConstraint != "" {
		region = *out.LocationConstraint
	}

	regionsMu.Lock()
	regions[o.Bucket] = region
	regionsMu.Unlock()
	return newClient(region)
}

// NewS3Reader streams the object at uri.
func NewS3Reader(uri string) (io.ReadCloser, error) {
	obj, err := ParseObject(uri)
	if err != nil {
		return nil, err
	}
	c, err := obj.client()
	if err != nil {
		return nil, err
	}
	out, err := c.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(obj.Bucket),
		Key:    aws.String(obj.Key),
	})
	if err != nil {
		return nil, errors.IO(err, "getting %s", uri)
	}
	return out.Body, nil
}

// Download copies the object at uri into the local cache and returns the
// local path. A cached copy with the object's size is reused.
func Download(uri string) (string, error) {
	obj, err := ParseObject(uri)
	if err != nil {
		return "", err
	}
	c, err := obj.client()
	if err != nil {
		return "", err
	}
	head, err := c.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(obj.Bucket),
		Key:    aws.String(obj.Key),
	})
	if err != nil {
		return "", errors.IO(err, "stat %s", uri)
	}

	local := obj.CachePath()
	if fi, err := os.Stat(local); err == nil && fi.Size() == aws.Int64Value(head.ContentLength) {
		return local, nil
	}
	if err := os.MkdirAll(filepath.Dir(local), os.ModePerm); err != nil {
		return "", errors.IO(err, "creating cache directory for %s", uri)
	}

	// write next to the destination so the rename stays on one filesystem
	tmp, err := ioutil.TempFile(filepath.Dir(local), "download")
	if err != nil {
		return "", errors.IO(err, "creating cache file for %s", uri)
	}
	defer os.Remove(tmp.Name())

	out, err := c.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(obj.Bucket),
		Key:    aws.String(obj.Key),
	})
	if err != nil {
		tmp.Close()
		return "", errors.IO(err, "getting %s", uri)
	}
	_, err = io.Copy(tmp, out.Body)
	err = errors.Combine(err, out.Body.Close())
	err = errors.Combine(err, tmp.Close())
	if err != nil {
		return "", errors.IO(err, "downloading %s", uri)
	}
	if err := os.Rename(tmp.Name(), local); err != nil {
		return "", errors.IO(err, "caching %s", uri)
	}
	return local, nil
}

// NamedWriteCloser is an io.WriteCloser that reports its destination.
type NamedWriteCloser interface {
	io.WriteCloser
	Name() string
}

// uploader spools writes to a temporary file and uploads it on Close.
type uploader struct {
	*os.File
	obj Object
}

func (u uploader) Name() string {
	return u.obj.String()
}

// Abort drops the spooled data without uploading it.
func (u uploader) Abort() error {
	u.File.Close()
	return os.Remove(u.File.Name())
}

func (u uploader) Close() (err error) {
	defer os.Remove(u.File.Name())
	defer errors.Defer(&err, u.File.Close)

	if _, err := u.File.Seek(0, io.SeekStart); err != nil {
		return errors.IO(err, "rewinding spool for %s", u.obj)
	}
	c, err := u.obj.client()
	if err != nil {
		return err
	}
	_, err = c.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(u.obj.Bucket),
		Key:    aws.String(u.obj.Key),
		Body:   u.File,
	})
	if err != nil {
		return errors.IO(err, "uploading %s", u.obj)
	}
	return nil
}

// NewBufferedS3Writer returns a writer whose contents are uploaded to uri
// when it is closed.
func NewBufferedS3Writer(uri string) (NamedWriteCloser, error) {
	obj, err := ParseObject(uri)
	if err != nil {
		return nil, err
	}
	f, err := ioutil.TempFile("", "s3spool")
	if err != nil {
		return nil, errors.IO(err, "creating spool for %s", uri)
	}
	return uploader{File: f, obj: obj}, nil
}

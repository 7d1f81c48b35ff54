package fileutil

import (
	"net/url"
	"path"
)

// Join is a url.URL scheme-safe join method. This allows for joining of local
// files as well as URI's such as s3://bucket/prefix.
func Join(parts ...string) string {
	if len(parts) == 0 {
		return ""
	}

	u, err := url.Parse(parts[0])
	if err != nil || u.Scheme == "" {
		return path.Join(parts...)
	}

	elems := append([]string{u.Path}, parts[1:]...)
	u.Path = path.Join(elems...)
	return u.String()
}

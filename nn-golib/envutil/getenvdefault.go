package envutil

import (
	"os"
	"strconv"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
)

// GetenvDefault gets the value of an environment variable, or returns the
// specified default value if that variable is not set.
func GetenvDefault(name, defaultValue string) string {
	val, found := os.LookupEnv(name)
	if !found {
		return defaultValue
	}
	return val
}

// GetenvDefaultInt64 gets an environment variable as an int64, or else returns the default.
// A set but malformed value is a configuration error.
func GetenvDefaultInt64(name string, defaultVal int64) (int64, error) {
	val, found := os.LookupEnv(name)
	if !found {
		return defaultVal, nil
	}
	intVal, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, errors.Config(err, "environment variable %s should be an integer", name)
	}
	return intVal, nil
}

package errors

import "strings"

// Errors is a non-empty list of errors. A nil Errors means no error, so callers
// can compare against nil as usual.
type Errors interface {
	error
	// Slice returns a copy of the underlying (non-nil) errors.
	Slice() []error
	// Len is always > 0.
	Len() int
}

type errorSlice []error

func (m errorSlice) Slice() []error { return append([]error(nil), m...) }

func (m errorSlice) Len() int { return len(m) }

func (m errorSlice) Error() string {
	msgs := make([]string, 0, len(m))
	for _, err := range m {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "\n")
}

// Append appends the (possibly nil) err to the (possibly nil) errs, flattening
// nested lists.
func Append(errs Errors, err error) Errors {
	if err == nil {
		return errs
	}
	var out errorSlice
	if errs != nil {
		out = errorSlice(errs.Slice())
	}
	if nested, ok := err.(Errors); ok {
		return append(out, nested.Slice()...)
	}
	return append(out, err)
}

// Combine combines e and f into a single error, dropping nils. When only one
// of them is non-nil it is returned unchanged, which keeps its kind visible to
// KindOf.
func Combine(e, f error) error {
	switch {
	case e == nil:
		return f
	case f == nil:
		return e
	}
	var errs Errors
	errs = Append(errs, e)
	errs = Append(errs, f)
	return errs
}

// Defer is a helper for deferring error-returning cleanup such as Close:
//
//	defer errors.Defer(&err, f.Close)
func Defer(err *error, f func() error) {
	*err = Combine(*err, f())
}

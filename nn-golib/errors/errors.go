package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Errorf is re-exported from fmt
var Errorf = fmt.Errorf

// New is an alias to Errorf
var New = Errorf

// WrapfOrNil is WithMessagef re-exported from github.com/pkg/errors
func WrapfOrNil(err error, format string, args ...interface{}) error {
	// do this check here to avoid the excessive format below
	if err == nil {
		return nil
	}
	return errors.WithMessage(err, fmt.Sprintf(format, args...))
}

// Wrapf is WrapfOrNil if err != nil, and Errorf otherwise: it never returns nil
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return Errorf(format, args...)
	}
	return WrapfOrNil(err, format, args...)
}

// WithStack is re-exported from github.com/pkg/errors
var WithStack = errors.WithStack

// Cause is re-exported from github.com/pkg/errors
var Cause = errors.Cause

// Kind classifies the fatal errors a run can end with.
type Kind int

const (
	// KindUnknown is any error not created through this package's kind helpers.
	KindUnknown Kind = iota
	// KindIO marks a missing, unreadable, or corrupt input or output.
	KindIO
	// KindSchema marks a requested column that the source does not provide.
	KindSchema
	// KindConfig marks invalid run configuration.
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindSchema:
		return "schema"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

type kindError struct {
	kind Kind
	err  error
}

func (e *kindError) Error() string { return e.err.Error() }

// Cause lets github.com/pkg/errors unwrap through the kind marker.
func (e *kindError) Cause() error { return e.err }

func (e *kindError) Unwrap() error { return e.err }

func withKind(kind Kind, err error, format string, args ...interface{}) error {
	return &kindError{kind: kind, err: Wrapf(err, format, args...)}
}

// IO marks err (which may be nil) as an I/O failure, with a message.
func IO(err error, format string, args ...interface{}) error {
	return withKind(KindIO, err, format, args...)
}

// Schema marks err (which may be nil) as a schema failure, with a message.
func Schema(err error, format string, args ...interface{}) error {
	return withKind(KindSchema, err, format, args...)
}

// Config marks err (which may be nil) as a configuration failure, with a message.
func Config(err error, format string, args ...interface{}) error {
	return withKind(KindConfig, err, format, args...)
}

// KindOf returns the outermost kind found while unwrapping err.
func KindOf(err error) Kind {
	for err != nil {
		if ke, ok := err.(*kindError); ok {
			return ke.kind
		}
		switch e := err.(type) {
		case interface{ Unwrap() error }:
			err = e.Unwrap()
		case interface{ Cause() error }:
			err = e.Cause()
		default:
			return KindUnknown
		}
	}
	return KindUnknown
}

// IsIO reports whether err carries KindIO.
func IsIO(err error) bool { return KindOf(err) == KindIO }

// IsSchema reports whether err carries KindSchema.
func IsSchema(err error) bool { return KindOf(err) == KindSchema }

// IsConfig reports whether err carries KindConfig.
func IsConfig(err error) bool { return KindOf(err) == KindConfig }

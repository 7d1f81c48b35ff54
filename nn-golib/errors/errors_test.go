package errors

import (
	"io"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendNil(t *testing.T) {
	err := New("error")
	errs := Append(nil, err)
	require.Equal(t, 1, errs.Len())
	require.Equal(t, err, errs.Slice()[0])

	errs = Append(errs, nil)
	require.Equal(t, 1, errs.Len())
}

func TestAppendFlattens(t *testing.T) {
	var errs01, errs23 Errors
	errs01 = Append(errs01, New("error0"))
	errs01 = Append(errs01, New("error1"))
	errs23 = Append(errs23, New("error2"))
	errs23 = Append(errs23, New("error3"))

	errs := Append(errs01, errs23)
	require.Equal(t, 4, errs.Len())
	assert.Equal(t, "error0\nerror1\nerror2\nerror3", errs.Error())
	// the inputs are left alone
	assert.Equal(t, 2, errs01.Len())
}

func TestCombineNil(t *testing.T) {
	err := New("error")
	require.Equal(t, err, Combine(err, nil))
	require.Equal(t, err, Combine(nil, err))
	require.Nil(t, Combine(nil, nil))
}

func TestCombineBasic(t *testing.T) {
	err0 := New("error0")
	err1 := New("error1")

	errs := Combine(err0, err1).(Errors).Slice()
	require.Len(t, errs, 2)
	require.Equal(t, err0, errs[0])
	require.Equal(t, err1, errs[1])
}

func TestDefer(t *testing.T) {
	run := func(closeErr error) (err error) {
		defer Defer(&err, func() error { return closeErr })
		return nil
	}
	require.NoError(t, run(nil))
	require.Equal(t, io.ErrClosedPipe, run(io.ErrClosedPipe))
}

func TestKinds(t *testing.T) {
	err := IO(io.ErrUnexpectedEOF, "reading %s", "embed.root")
	assert.True(t, IsIO(err))
	assert.False(t, IsSchema(err))
	assert.Equal(t, "reading embed.root: unexpected EOF", err.Error())
	assert.Equal(t, io.ErrUnexpectedEOF, Cause(err))

	// kinds survive further wrapping by either wrapper
	wrapped := Wrapf(err, "loading signal")
	assert.True(t, IsIO(wrapped))
	assert.True(t, IsIO(pkgerrors.Wrap(err, "outer")))

	schema := Schema(nil, "column %q not found", "Q2V1")
	assert.True(t, IsSchema(schema))
	assert.Equal(t, "schema", KindOf(schema).String())

	assert.Equal(t, KindUnknown, KindOf(New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.True(t, IsConfig(Config(nil, "bad")))
}

package runlog

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLevelsSplit(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWithWriters(&out, &errOut, false)
	l.Debugw("hidden", "epoch", 1)
	l.Infow("No. Signal", "count", 60)
	l.Errorw("cannot open", "path", "embed.root")
	l.Sync()

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "No. Signal")
	assert.NotContains(t, out.String(), "cannot open")
	assert.Contains(t, errOut.String(), "cannot open")
}

func TestVerboseEnablesDebug(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWithWriters(&out, &errOut, true)
	l.Debugw("epoch done", "loss", 0.5)
	l.Sync()
	assert.Contains(t, out.String(), "epoch done")
}

func TestDurations(t *testing.T) {
	var out bytes.Buffer
	l := NewWithWriters(&out, &out, false)

	l.Durations.Record("assemble", 2*time.Second)
	l.Time("fit")()
	assert.Len(t, l.Durations, 2)
	assert.Contains(t, l.Durations.String(), "assemble")

	l.FlushDurations()
	l.Sync()
	assert.Empty(t, l.Durations)
	assert.Contains(t, out.String(), "stage durations")
	assert.Contains(t, out.String(), "2s")
}

package runlog

import (
	"bytes"
	"fmt"
	"text/tabwriter"
	"time"
)

type duration struct {
	name     string
	duration time.Duration
}

// Durations tracks how long each stage of a run took
type Durations []duration

// Record records a duration
func (t *Durations) Record(name string, d time.Duration) {
	*t = append(*t, duration{name, d})
}

// String renders the recorded durations as an aligned table.
func (t Durations) String() string {
	var b bytes.Buffer
	tw := tabwriter.NewWriter(&b, 4, 4, 0, ' ', 0)
	for _, entry := range t {
		fmt.Fprintf(tw, "   %s\t%s\n", entry.name, entry.duration)
	}
	tw.Flush()
	return b.String()
}

// Time starts timing the named stage; call the returned func when it ends.
//
//	defer logger.Time("assemble")()
func (l *Logger) Time(name string) func() {
	start := time.Now()
	return func() {
		l.Durations.Record(name, time.Since(start))
	}
}

// FlushDurations logs the recorded durations and clears them.
func (l *Logger) FlushDurations() {
	if len(l.Durations) == 0 {
		return
	}
	l.Infof("stage durations:\n%s", l.Durations.String())
	l.Durations = nil
}

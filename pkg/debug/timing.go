// Package debug provides phase timing instrumentation for the analyzers.
package debug

import (
	"fmt"
	"io"
	"time"

	"github.com/danpilch/gfxprof/pkg/output"
)

// PhaseTiming records the duration of one named processing phase.
type PhaseTiming struct {
	Name     string
	Duration time.Duration
}

// Timer accumulates phase timings in the order they were recorded.
type Timer struct {
	now     func() time.Time
	timings []PhaseTiming
}

// NewTimer returns an empty Timer.
func NewTimer() *Timer {
	return &Timer{now: time.Now}
}

// Track runs fn and records its duration under name. The error from fn is
// returned unchanged.
func (t *Timer) Track(name string, fn func() error) error {
	start := t.now()
	err := fn()
	t.timings = append(t.timings, PhaseTiming{
		Name:     name,
		Duration: t.now().Sub(start),
	})
	return err
}

// Timings returns the recorded phases.
func (t *Timer) Timings() []PhaseTiming {
	return t.timings
}

// TimingReport prints a styled timing summary for all recorded phases.
func TimingReport(w io.Writer, timings []PhaseTiming) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, output.Title.Render("Phase Timing Report"))
	fmt.Fprintln(w, output.Rule("═", 50))
	fmt.Fprintf(w, "  %s  %s\n",
		output.Header.Render(fmt.Sprintf("%-28s", "PHASE")),
		output.Header.Render(fmt.Sprintf("%-12s", "DURATION")))
	fmt.Fprintln(w, "  "+output.Rule("─", 50))

	var total time.Duration
	for _, t := range timings {
		fmt.Fprintf(w, "  %-30s %v\n", output.Truncate(t.Name, 30), t.Duration)
		total += t.Duration
	}
	fmt.Fprintln(w, "  "+output.Rule("─", 50))
	fmt.Fprintf(w, "  %-30s %v\n", "TOTAL", total)
}

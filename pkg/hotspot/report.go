package hotspot

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/danpilch/gfxprof/pkg/cpuprofile"
	"github.com/danpilch/gfxprof/pkg/output"
)

const reportWidth = 100

// Options configures a hotspot report.
type Options struct {
	Top             int // rows in the flat profile
	TimelineBuckets int // sparkline width, 0 disables the activity line
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Top:             DefaultTop,
		TimelineBuckets: 60,
	}
}

// Render writes the full report for one trace. Bottlenecks, call tree and
// flat profile percentages are relative to active time, matching Chrome
// DevTools; the context section is relative to the whole profile.
func Render(w io.Writer, tracePath string, p *cpuprofile.Profile, a *cpuprofile.Analysis, opts Options) {
	active := a.ActiveTimeUs()

	fmt.Fprintln(w)
	fmt.Fprintln(w, output.Rule("#", reportWidth))
	fmt.Fprintln(w, output.Title.Render("# CPU Profile Analysis: "+filepath.Base(tracePath)))
	fmt.Fprintln(w, output.Rule("#", reportWidth))

	interval := a.TotalTimeUs
	if a.SampleCount > 0 {
		interval /= int64(a.SampleCount)
	}
	fmt.Fprintf(w, "Total samples: %s\n", output.Thousands(int64(a.SampleCount)))
	fmt.Fprintf(w, "Total time: %s\n", output.FormatMicros(a.TotalTimeUs))
	fmt.Fprintf(w, "Active time: %s (%.1f%% - excludes idle)\n",
		output.FormatMicros(active), output.Percent(active, a.TotalTimeUs))
	fmt.Fprintf(w, "Sample interval: ~%dµs\n", interval)
	if opts.TimelineBuckets > 0 {
		fmt.Fprintf(w, "Activity: %s\n",
			output.SparklineRange(cpuprofile.Timeline(p, opts.TimelineBuckets), 0, 1))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, output.Dim.Render("NOTE: Percentages below are relative to ACTIVE time (matching Chrome DevTools)"))

	RenderBottlenecks(w, ClassifyBottlenecks(a, active))
	RenderCallTree(w, BuildCallTree(a, active))
	RenderFlatProfile(w, BuildFlatProfile(a, active, opts.Top))
	RenderContext(w, a)
}

// Summary is a one-line description of where the active time went, used in
// log output.
func Summary(a *cpuprofile.Analysis) string {
	top := cpuprofile.Ranked(a.SelfTime,
		cpuprofile.IdleName, cpuprofile.ProgramName, cpuprofile.RootName, cpuprofile.GCName)
	if len(top) > 3 {
		top = top[:3]
	}
	parts := make([]string, len(top))
	for i, name := range top {
		parts[i] = fmt.Sprintf("%s %.1f%%", output.DisplayName(name), output.Percent(a.SelfTime[name], a.ActiveTimeUs()))
	}
	return strings.Join(parts, ", ")
}

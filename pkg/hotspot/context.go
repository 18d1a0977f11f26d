package hotspot

import (
	"fmt"
	"io"

	"github.com/danpilch/gfxprof/pkg/cpuprofile"
	"github.com/danpilch/gfxprof/pkg/output"
)

// RenderContext writes the idle and overhead time as a share of the whole
// profile, not of active time.
func RenderContext(w io.Writer, a *cpuprofile.Analysis) {
	output.Section(w, "CONTEXT (Idle/Overhead)", reportWidth)

	for _, name := range []string{cpuprofile.IdleName, cpuprofile.ProgramName, cpuprofile.GCName} {
		t, ok := a.SelfTime[name]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %10s %6.1f%%  %s\n",
			output.FormatMicros(t), output.Percent(t, a.TotalTimeUs), name)
	}
}

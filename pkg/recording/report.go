package recording

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/danpilch/gfxprof/pkg/output"
)

const reportWidth = 70

// DefaultWorkgroupSize is the assumed @workgroup_size used to estimate
// thread counts.
const DefaultWorkgroupSize = 256

// Options configures the recording report.
type Options struct {
	WorkgroupSize int64
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{WorkgroupSize: DefaultWorkgroupSize}
}

// Report writes the analysis of one recording.
func Report(w io.Writer, path string, rec *Recording, opts Options) {
	s := Summarize(rec)

	fmt.Fprintln(w, output.Rule("═", reportWidth))
	fmt.Fprintln(w, output.Title.Render("WebGPU Inspector Analysis: "+filepath.Base(path)))
	fmt.Fprintln(w, output.Rule("═", reportWidth))

	output.Section(w, "OVERVIEW", 50)
	fmt.Fprintf(w, "  Frames captured: %d\n", s.FrameCount)
	fmt.Fprintf(w, "  Draw calls: %d\n", s.DrawCalls)
	fmt.Fprintf(w, "  Dispatch calls: %d\n", s.DispatchCalls)
	if s.DrawsPerFrame != nil {
		fmt.Fprintf(w, "  Draws/frame: %.1f\n", *s.DrawsPerFrame)
	}
	if s.DispatchesPerFrame != nil {
		fmt.Fprintf(w, "  Dispatches/frame: %.1f\n", *s.DispatchesPerFrame)
	}

	output.Section(w, "DRAW CALLS", 50)
	if s.DrawCalls > 0 {
		fmt.Fprintf(w, "  Direct draws: %d\n", s.DirectDraws)
		fmt.Fprintf(w, "  Indirect draws: %d\n", s.IndirectDraws)

		if s.DirectDraws > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "  Draw configurations:")
			for _, c := range s.DrawConfigs {
				fmt.Fprintf(w, "    %dx: vertices=%d, instances=%d\n", c.Count, c.VertexCount, c.InstanceCount)
			}
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  Total instances drawn: %s\n", output.Thousands(s.TotalInstances))
			fmt.Fprintf(w, "  Total vertices processed: %s\n", output.Thousands(s.TotalVerticesDrawn))
		}
	}

	output.Section(w, "COMPUTE DISPATCHES", 50)
	for _, d := range s.DispatchShapes {
		wg := d.Dispatch.TotalWorkgroups()
		fmt.Fprintf(w, "  %dx: dispatchWorkgroups(%s) = %d workgroups (~%s threads)\n",
			d.Count, d.Dispatch.Shape(), wg, output.Thousands(mulSat(wg, opts.WorkgroupSize)))
	}

	output.Section(w, "BUFFERS", 50)
	if len(s.Buffers) > 0 {
		fmt.Fprintf(w, "  Total GPU memory: %.2f MB\n", float64(s.TotalBufferMemory)/(1024*1024))
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Buffer breakdown:")
		for _, b := range s.Buffers {
			fmt.Fprintf(w, "    %s: %s\n", b.Label, output.FormatBytes(b.Size))
		}
	}

	output.Section(w, "PIPELINES", 50)
	if len(rec.Pipelines) > 0 {
		fmt.Fprintf(w, "  Compute pipelines: %d\n", s.ComputePipelines)
		fmt.Fprintf(w, "  Render pipelines: %d\n", s.RenderPipelines)
		for _, p := range rec.Pipelines {
			fmt.Fprintf(w, "    %s %s\n", output.Dim.Render(fmt.Sprintf("[%s]", p.Kind)), p.Label)
		}
	}

	output.Section(w, "INSIGHTS", 50)
	for _, in := range Insights(rec, s) {
		tag := output.Minor.Render("[INFO]")
		if in.Level == InsightWarn {
			tag = output.Warn.Render("[WARN]")
		}
		fmt.Fprintf(w, "  %s %s\n", tag, in.Message)
		if in.Hint != "" {
			fmt.Fprintf(w, "  %s %s\n", strings.Repeat(" ", 6), in.Hint)
		}
	}
	fmt.Fprintln(w)
}

// analyze-trace reports CPU hotspots in Chrome DevTools performance traces.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/danpilch/gfxprof/pkg/baseline"
	"github.com/danpilch/gfxprof/pkg/config"
	"github.com/danpilch/gfxprof/pkg/cpuprofile"
	"github.com/danpilch/gfxprof/pkg/debug"
	"github.com/danpilch/gfxprof/pkg/flamegraph"
	"github.com/danpilch/gfxprof/pkg/hotspot"
	"github.com/danpilch/gfxprof/pkg/pprofconv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var errTraceFailed = errors.New("trace analysis failed")

type options struct {
	top          int
	compare      bool
	saveBaseline string
	baseline     string
	baselineDir  string
	folded       string
	flamegraph   string
	pprof        string
	timing       bool
	logLevel     string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.LogLevel)
	logger.SetOutput(os.Stderr)

	if err := newRootCmd(cfg, logger).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config, logger *logrus.Logger) *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "analyze-trace [flags] trace.json [trace2.json ...]",
		Short: "Report CPU hotspots in Chrome DevTools performance traces",
		Long: `analyze-trace extracts the V8 CPU profile from Chrome DevTools performance
traces and prints bottleneck categories, a call tree and a flat self-time
profile. Percentages are relative to active time (idle excluded).

Examples:
  analyze-trace Trace-1.json                       # Hotspot report
  analyze-trace --compare before.json after.json   # Drift against the first trace
  analyze-trace --save-baseline main Trace.json    # Save a snapshot for later runs
  analyze-trace --baseline main Trace.json         # Compare against a saved snapshot
  analyze-trace --flamegraph out.svg Trace.json    # Write an SVG flame graph`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := logrus.ParseLevel(opts.logLevel)
			if err != nil {
				return fmt.Errorf("invalid --log-level: %w", err)
			}
			logger.SetLevel(lvl)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.top <= 0 {
				return fmt.Errorf("--top must be positive, got %d", opts.top)
			}
			r := &runner{
				out:    cmd.OutOrStdout(),
				logger: logger,
				opts:   opts,
				timer:  debug.NewTimer(),
			}
			err := r.run(args)
			if opts.timing {
				debug.TimingReport(cmd.ErrOrStderr(), r.timer.Timings())
			}
			return err
		},
	}

	f := rootCmd.Flags()
	f.IntVarP(&opts.top, "top", "n", cfg.Top, "rows in the flat profile")
	f.BoolVar(&opts.compare, "compare", false, "compare each trace against the first one")
	f.StringVar(&opts.saveBaseline, "save-baseline", "", "save a hotspot snapshot of the last trace under `NAME`")
	f.StringVar(&opts.baseline, "baseline", "", "compare each trace against the saved snapshot `NAME`")
	f.StringVar(&opts.folded, "folded", "", "write folded stacks to `FILE`")
	f.StringVar(&opts.flamegraph, "flamegraph", "", "write an SVG flame graph to `FILE`")
	f.StringVar(&opts.pprof, "pprof", "", "write a gzipped pprof profile to `FILE`")
	f.BoolVar(&opts.timing, "timing", false, "print a phase timing report to stderr")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.baselineDir, "baseline-dir", cfg.BaselineDir, "snapshot directory (default ~/.gfxprof/baselines)")
	pf.StringVar(&opts.logLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "baselines",
		Short: "List saved hotspot snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := baseline.List(opts.baselineDir)
			if err != nil {
				return fmt.Errorf("cannot list baselines: %w", err)
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	})

	return rootCmd
}

type runner struct {
	out    io.Writer
	logger *logrus.Logger
	opts   options
	timer  *debug.Timer
}

func (r *runner) run(paths []string) error {
	var saved *baseline.Snapshot
	if r.opts.baseline != "" {
		var err error
		if saved, err = baseline.Load(r.opts.baseline, r.opts.baselineDir); err != nil {
			return err
		}
	}

	var first, last *baseline.Snapshot
	for i, path := range paths {
		log := r.logger.WithField("file", path)

		snap, err := r.analyze(path, i, len(paths), log)
		if errors.Is(err, cpuprofile.ErrNoSamples) {
			log.Warn("No CPU profile samples found, skipping")
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %w", errTraceFailed, path, err)
		}

		if saved != nil {
			baseline.RenderComparison(r.out, saved, snap, baseline.Compare(saved, snap), r.opts.top)
		}
		if r.opts.compare {
			if first == nil {
				first = snap
			} else {
				baseline.RenderComparison(r.out, first, snap, baseline.Compare(first, snap), r.opts.top)
			}
		}
		last = snap
	}

	if r.opts.saveBaseline != "" {
		if last == nil {
			return errors.New("no trace with samples to save as baseline")
		}
		last.Name = r.opts.saveBaseline
		if err := last.Save(r.opts.baselineDir); err != nil {
			return err
		}
		r.logger.WithFields(logrus.Fields{
			"name":   last.Name,
			"source": last.Source,
		}).Info("Baseline saved")
	}
	return nil
}

// analyze runs the full pipeline for the trace at path and returns its
// hotspot snapshot.
func (r *runner) analyze(path string, index, count int, log *logrus.Entry) (*baseline.Snapshot, error) {
	base := filepath.Base(path)

	var p *cpuprofile.Profile
	if err := r.timer.Track("load "+base, func() (err error) {
		p, err = cpuprofile.Load(path)
		return err
	}); err != nil {
		return nil, err
	}

	var a *cpuprofile.Analysis
	_ = r.timer.Track("analyze "+base, func() error {
		a = cpuprofile.Analyze(p)
		cpuprofile.LogSanity(r.logger, log.Data, cpuprofile.Check(p, a))
		return nil
	})

	_ = r.timer.Track("render "+base, func() error {
		opts := hotspot.DefaultOptions()
		opts.Top = r.opts.top
		hotspot.Render(r.out, path, p, a, opts)
		return nil
	})

	log.WithFields(logrus.Fields{
		"samples":  a.SampleCount,
		"hotspots": hotspot.Summary(a),
	}).Info("Trace analyzed")

	if err := r.timer.Track("export "+base, func() error {
		return r.export(p, index, count, log)
	}); err != nil {
		return nil, err
	}

	return baseline.NewSnapshot(base, path, a), nil
}

func (r *runner) export(p *cpuprofile.Profile, index, count int, log *logrus.Entry) error {
	if r.opts.folded == "" && r.opts.flamegraph == "" && r.opts.pprof == "" {
		return nil
	}

	stacks := flamegraph.Collapse(p)

	if r.opts.folded != "" {
		out := indexedPath(r.opts.folded, index, count)
		if err := writeFile(out, func(w io.Writer) error {
			return flamegraph.WriteFolded(w, stacks)
		}); err != nil {
			return err
		}
		log.WithField("output", out).Info("Folded stacks written")
	}

	if r.opts.flamegraph != "" {
		out := indexedPath(r.opts.flamegraph, index, count)
		svgOpts := flamegraph.DefaultSVGOptions()
		svgOpts.Title = "CPU Flame Graph"
		if err := writeFile(out, func(w io.Writer) error {
			return flamegraph.GenerateSVG(stacks, w, svgOpts)
		}); err != nil {
			return err
		}
		log.WithField("output", out).Info("Flame graph written")
	}

	if r.opts.pprof != "" {
		out := indexedPath(r.opts.pprof, index, count)
		if err := writeFile(out, func(w io.Writer) error {
			return pprofconv.Write(w, p)
		}); err != nil {
			return err
		}
		log.WithField("output", out).Info("pprof profile written")
	}
	return nil
}

// indexedPath suffixes path with the 1-based trace index when several traces
// are processed: out.svg becomes out.2.svg.
func indexedPath(path string, index, count int) string {
	if count <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s.%d%s", strings.TrimSuffix(path, ext), index+1, ext)
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cannot close %s: %w", path, cerr)
		}
	}()
	return write(f)
}

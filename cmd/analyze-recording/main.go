// analyze-recording summarizes draw, dispatch and buffer activity in WebGPU
// Inspector recordings.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/danpilch/gfxprof/pkg/config"
	"github.com/danpilch/gfxprof/pkg/recording"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

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
	var (
		workgroupSize int64
		logLevel      string
	)

	rootCmd := &cobra.Command{
		Use:   "analyze-recording [flags] recording.html",
		Short: "Summarize a WebGPU Inspector recording",
		Long: `analyze-recording scans a WebGPU Inspector HTML recording for draw calls,
compute dispatches, buffer and pipeline creations and prints per-frame rates,
histograms and heuristic insights.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid --log-level: %w", err)
			}
			logger.SetLevel(lvl)
			if workgroupSize <= 0 {
				return fmt.Errorf("--workgroup-size must be positive, got %d", workgroupSize)
			}
			opts := recording.DefaultOptions()
			opts.WorkgroupSize = workgroupSize
			return run(cmd.OutOrStdout(), logger, args[0], opts)
		},
	}

	f := rootCmd.Flags()
	f.Int64Var(&workgroupSize, "workgroup-size", cfg.WorkgroupSize, "threads per workgroup used for the thread estimate")
	f.StringVar(&logLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	return rootCmd
}

func run(w io.Writer, logger *logrus.Logger, path string, opts recording.Options) error {
	log := logger.WithField("file", path)

	rec, err := recording.ParseFile(path)
	if errors.Is(err, recording.ErrNotFound) {
		return fmt.Errorf("File not found: %s", path)
	}
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"frames":     rec.FrameCount,
		"draws":      len(rec.Draws),
		"dispatches": len(rec.Dispatches),
		"buffers":    len(rec.Buffers),
		"pipelines":  len(rec.Pipelines),
	}).Debug("Recording parsed")

	recording.Report(w, path, rec, opts)
	return nil
}

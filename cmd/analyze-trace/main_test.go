package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danpilch/gfxprof/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const trace = `{"traceEvents": [
  {"name": "ProfileChunk", "ph": "P", "args": {"data": {
    "cpuProfile": {
      "nodes": [
        {"id": 1, "callFrame": {"functionName": "(root)"}},
        {"id": 2, "callFrame": {"functionName": "(idle)"}, "parent": 1},
        {"id": 3, "callFrame": {"functionName": "frame", "url": "app.js"}, "parent": 1},
        {"id": 4, "callFrame": {"functionName": "__wbg_createBindGroup_abc", "url": "app.js"}, "parent": 3}
      ],
      "samples": [2, 3, 4, 4]
    },
    "timeDeltas": [1000, 1000, 1000, 1000]
  }}}
]}`

const emptyTrace = `{"traceEvents": [{"name": "TracingStartedInBrowser", "args": {}}]}`

func writeTrace(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := &config.Config{LogLevel: "warn", Top: 40, WorkgroupSize: 256}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cmd := newRootCmd(cfg, logger)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestIndexedPath(t *testing.T) {
	tests := []struct {
		path         string
		index, count int
		want         string
	}{
		{"out.svg", 0, 1, "out.svg"},
		{"out.svg", 0, 2, "out.1.svg"},
		{"dir/out.svg", 1, 2, "dir/out.2.svg"},
		{"stacks", 2, 3, "stacks.3"},
	}
	for _, tt := range tests {
		if got := indexedPath(tt.path, tt.index, tt.count); got != tt.want {
			t.Errorf("indexedPath(%q, %d, %d) = %q, want %q", tt.path, tt.index, tt.count, got, tt.want)
		}
	}
}

func TestRunReport(t *testing.T) {
	dir := t.TempDir()
	path := writeTrace(t, dir, "Trace-1.json", trace)

	out, err := execute(t, path)
	require.NoError(t, err)

	for _, want := range []string{
		"# CPU Profile Analysis: Trace-1.json",
		"[Bind Group Creation]",
		"CALL TREE",
		"__wbg_createBindGroup_abc",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRunExportsAndBaselines(t *testing.T) {
	dir := t.TempDir()
	first := writeTrace(t, dir, "a.json", trace)
	second := writeTrace(t, dir, "b.json", trace)
	baselines := filepath.Join(dir, "baselines")

	_, err := execute(t,
		"--baseline-dir", baselines,
		"--save-baseline", "main",
		"--compare",
		"--folded", filepath.Join(dir, "out.folded"),
		"--flamegraph", filepath.Join(dir, "out.svg"),
		"--pprof", filepath.Join(dir, "out.pb.gz"),
		first, second)
	require.NoError(t, err)

	for _, name := range []string{"out.1.folded", "out.2.folded", "out.1.svg", "out.2.svg", "out.pb.1.gz", "out.pb.2.gz"} {
		require.FileExists(t, filepath.Join(dir, name))
	}
	folded, err := os.ReadFile(filepath.Join(dir, "out.1.folded"))
	require.NoError(t, err)
	require.Equal(t, "frame 1000\nframe;__wbg_createBindGroup_abc 2000\n", string(folded))

	out, err := execute(t, "--baseline-dir", baselines, "baselines")
	require.NoError(t, err)
	require.Equal(t, "main\n", out)

	out, err = execute(t, "--baseline-dir", baselines, "--baseline", "main", first)
	require.NoError(t, err)
	require.Contains(t, out, "No significant changes detected.")
}

func TestRunSkipsEmptyTrace(t *testing.T) {
	dir := t.TempDir()
	empty := writeTrace(t, dir, "empty.json", emptyTrace)
	full := writeTrace(t, dir, "full.json", trace)

	out, err := execute(t, empty, full)
	require.NoError(t, err)
	require.Contains(t, out, "# CPU Profile Analysis: full.json")
	require.NotContains(t, out, "empty.json")
}

func TestRunMalformedTraceFails(t *testing.T) {
	dir := t.TempDir()
	bad := writeTrace(t, dir, "bad.json", "{not json")
	full := writeTrace(t, dir, "full.json", trace)

	out, err := execute(t, bad, full)
	if !errors.Is(err, errTraceFailed) {
		t.Fatalf("Execute() error = %v, want errTraceFailed", err)
	}
	require.ErrorContains(t, err, bad)
	require.ErrorContains(t, err, "cannot parse trace")
	require.NotContains(t, out, "full.json")
}

func TestRunFailureCarriesPathAtAnyLogLevel(t *testing.T) {
	bad := writeTrace(t, t.TempDir(), "bad.json", "[{")

	_, err := execute(t, "--log-level", "panic", bad)
	require.ErrorIs(t, err, errTraceFailed)
	require.ErrorContains(t, err, bad)
}

func TestRunRequiresTrace(t *testing.T) {
	_, err := execute(t)
	require.Error(t, err)
}

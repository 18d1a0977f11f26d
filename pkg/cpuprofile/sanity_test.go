package cpuprofile

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	p := table(
		Node{ID: 1, FunctionName: "(root)"},
		Node{ID: 2, FunctionName: "main", Parent: 1},
	)
	p.Samples = []int64{2, 9, 2}
	p.TimeDeltas = []int64{10, -5}

	results := Check(p, Analyze(p))
	passed := make(map[string]bool)
	for _, r := range results {
		passed[r.Check] = r.Passed
	}

	require.Equal(t, map[string]bool{
		"time deltas match samples":   false,
		"time deltas non-negative":    false,
		"sampled nodes resolved":      false,
		"total time covers self time": true,
	}, passed)
}

func TestCheckClean(t *testing.T) {
	p := table(Node{ID: 1, FunctionName: "f"})
	p.Samples = []int64{1}
	p.TimeDeltas = []int64{1}

	for _, r := range Check(p, Analyze(p)) {
		require.True(t, r.Passed, r.Check)
	}
}

func TestLogSanity(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	LogSanity(logger, logrus.Fields{"file": "Trace-1.json"}, []SanityResult{
		{Check: "ok", Passed: true},
		{Check: "broken", Details: "2 missing"},
	})

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	require.Equal(t, logrus.DebugLevel, entries[0].Level)
	require.Equal(t, logrus.WarnLevel, entries[1].Level)
	require.Equal(t, "broken", entries[1].Data["check"])
	require.Equal(t, "Trace-1.json", entries[1].Data["file"])
}

func TestLogSanityNilLogger(t *testing.T) {
	require.NotPanics(t, func() {
		LogSanity(nil, nil, []SanityResult{{Check: "x"}})
	})
}

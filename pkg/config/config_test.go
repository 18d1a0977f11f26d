package config

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"GFXPROF_LOG_LEVEL", "GFXPROF_TOP", "GFXPROF_BASELINE_DIR", "GFXPROF_WORKGROUP_SIZE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load()
	require.NoError(t, err)

	want := &Config{LogLevel: "warn", Top: 40, WorkgroupSize: 256}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GFXPROF_LOG_LEVEL", "debug")
	t.Setenv("GFXPROF_TOP", "10")
	t.Setenv("GFXPROF_BASELINE_DIR", "/tmp/baselines")
	t.Setenv("GFXPROF_WORKGROUP_SIZE", "64")

	cfg, err := Load()
	require.NoError(t, err)

	want := &Config{LogLevel: "debug", Top: 10, BaselineDir: "/tmp/baselines", WorkgroupSize: 64}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad level", Config{LogLevel: "loud", Top: 1, WorkgroupSize: 1}},
		{"zero top", Config{LogLevel: "info", Top: 0, WorkgroupSize: 1}},
		{"negative workgroup", Config{LogLevel: "info", Top: 1, WorkgroupSize: -4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.cfg.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	require.Equal(t, logrus.DebugLevel, NewLogger("debug").GetLevel())
	require.Equal(t, logrus.WarnLevel, NewLogger("nonsense").GetLevel())
}

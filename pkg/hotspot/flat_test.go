package hotspot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/danpilch/gfxprof/pkg/cpuprofile"
	"github.com/google/go-cmp/cmp"
)

func TestBuildFlatProfile(t *testing.T) {
	a := &cpuprofile.Analysis{
		SelfTime: map[string]int64{
			"(idle)":              900,
			"(program)":           800,
			"(garbage collector)": 700,
			"draw":                300,
			"upload":              200,
			"encode":              100,
		},
		TotalTime: map[string]int64{
			"draw":   400,
			"upload": 200,
			"encode": 100,
		},
	}

	got := BuildFlatProfile(a, 1000, 2)
	want := []FlatRow{
		{Name: "draw", SelfUs: 300, TotalUs: 400, SelfPct: 30, TotalPct: 40},
		{Name: "upload", SelfUs: 200, TotalUs: 200, SelfPct: 20, TotalPct: 20},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Fatalf("BuildFlatProfile() mismatch (-want +got):\n%s", diff)
	}

	if got := BuildFlatProfile(a, 1000, DefaultTop); len(got) != 3 {
		t.Fatalf("BuildFlatProfile(top=%d) returned %d rows, want 3", DefaultTop, len(got))
	}
}

func TestRenderFlatProfile(t *testing.T) {
	var buf bytes.Buffer
	RenderFlatProfile(&buf, []FlatRow{
		{Name: "draw[0123456789abcdef]", SelfUs: 2_500_000, TotalUs: 3_000_000, SelfPct: 25, TotalPct: 30},
	})
	out := buf.String()
	for _, want := range []string{"FLAT PROFILE", "FUNCTION", "2.50s", "3.00s", "25.00%", "30.00%", "draw"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "0123456789abcdef") {
		t.Errorf("hash suffix not stripped:\n%s", out)
	}
}

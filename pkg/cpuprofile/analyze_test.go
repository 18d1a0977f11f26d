package cpuprofile

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAnalyze(t *testing.T) {
	p := table(
		Node{ID: 1, FunctionName: "(root)"},
		Node{ID: 2, FunctionName: "main", Parent: 1},
		Node{ID: 3, FunctionName: "draw", Parent: 2},
		Node{ID: 4, FunctionName: "(idle)", Parent: 1},
	)
	p.Samples = []int64{3, 3, 4, 2}
	p.TimeDeltas = []int64{100, 200, 50}

	a := Analyze(p)

	want := &Analysis{
		SelfSamples:  map[string]int64{"draw": 2, "(idle)": 1, "main": 1},
		SelfTime:     map[string]int64{"draw": 300, "(idle)": 50, "main": 0},
		TotalSamples: map[string]int64{"draw": 2, "main": 3, "(root)": 4, "(idle)": 1},
		TotalTime:    map[string]int64{"draw": 300, "main": 300, "(root)": 350, "(idle)": 50},
		CallTree: map[string]map[string]int64{
			"main":   {"draw": 2},
			"(root)": {"main": 3, "(idle)": 1},
		},
		SampleCount: 4,
		TotalTimeUs: 350,
	}
	if diff := cmp.Diff(want, a); diff != "" {
		t.Fatalf("Analyze() mismatch (-want +got):\n%s", diff)
	}
	if got := a.IdleTimeUs(); got != 50 {
		t.Errorf("IdleTimeUs() = %d, want 50", got)
	}
	if got := a.ActiveTimeUs(); got != 300 {
		t.Errorf("ActiveTimeUs() = %d, want 300", got)
	}
}

func TestAnalyzeSharedLeafSelfTime(t *testing.T) {
	p := table(
		Node{ID: 1, FunctionName: "(root)"},
		Node{ID: 2, FunctionName: "leaf", Parent: 1},
	)
	p.Samples = []int64{2, 2}
	p.TimeDeltas = []int64{100, 200}

	if got := Analyze(p).SelfTime["leaf"]; got != 300 {
		t.Fatalf("SelfTime[leaf] = %d, want 300", got)
	}
}

func TestAnalyzeRecursionCountsOnce(t *testing.T) {
	p := table(
		Node{ID: 1, FunctionName: "(root)"},
		Node{ID: 2, FunctionName: "walk", Parent: 1},
		Node{ID: 3, FunctionName: "walk", Parent: 2},
		Node{ID: 4, FunctionName: "walk", Parent: 3},
	)
	p.Samples = []int64{4}
	p.TimeDeltas = []int64{10}

	a := Analyze(p)
	if got := a.TotalSamples["walk"]; got != 1 {
		t.Errorf("TotalSamples[walk] = %d, want 1", got)
	}
	if got := a.TotalTime["walk"]; got != 10 {
		t.Errorf("TotalTime[walk] = %d, want 10", got)
	}
	if got := a.CallTree["walk"]["walk"]; got != 2 {
		t.Errorf("CallTree[walk][walk] = %d, want 2", got)
	}
}

func TestAnalyzeSkipsUnresolvedSamples(t *testing.T) {
	p := table(Node{ID: 1, FunctionName: "(root)"})
	p.Samples = []int64{99, 0}
	p.TimeDeltas = []int64{500, 500}

	a := Analyze(p)
	if len(a.SelfTime) != 0 || len(a.TotalTime) != 0 || len(a.CallTree) != 0 {
		t.Fatalf("unresolved samples contributed: %+v", a)
	}
	if a.SampleCount != 2 || a.TotalTimeUs != 1000 {
		t.Fatalf("SampleCount=%d TotalTimeUs=%d, want 2 and 1000", a.SampleCount, a.TotalTimeUs)
	}
}

func TestAnalyzeNegativeDeltaClamped(t *testing.T) {
	p := table(Node{ID: 1, FunctionName: "f"})
	p.Samples = []int64{1, 1}
	p.TimeDeltas = []int64{-20, 30}

	a := Analyze(p)
	if got := a.SelfTime["f"]; got != 30 {
		t.Fatalf("SelfTime[f] = %d, want 30", got)
	}
}

func TestAnalyzeTotalCoversSelf(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	names := []string{"a", "b", "c", "d"}

	for round := 0; round < 50; round++ {
		p := table()
		size := 1 + rng.Intn(20)
		for id := int64(1); id <= int64(size); id++ {
			p.Nodes[id] = Node{
				ID:           id,
				FunctionName: names[rng.Intn(len(names))],
				Parent:       int64(rng.Intn(size + 1)),
			}
		}
		for i := 0; i < 100; i++ {
			p.Samples = append(p.Samples, int64(rng.Intn(size+2)))
			p.TimeDeltas = append(p.TimeDeltas, int64(rng.Intn(1000)))
		}

		a := Analyze(p)
		for name, self := range a.SelfTime {
			if a.TotalTime[name] < self {
				t.Fatalf("round %d: %s total %d < self %d", round, name, a.TotalTime[name], self)
			}
		}
		for name, self := range a.SelfSamples {
			if a.TotalSamples[name] < self {
				t.Fatalf("round %d: %s total samples %d < self %d", round, name, a.TotalSamples[name], self)
			}
		}
	}
}

func TestRanked(t *testing.T) {
	m := map[string]int64{"b": 5, "a": 5, "c": 9, "(idle)": 100}
	got := Ranked(m, IdleName)
	want := []string{"c", "a", "b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Ranked() mismatch (-want +got):\n%s", diff)
	}
}

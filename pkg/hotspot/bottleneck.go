// Package hotspot renders CPU profile analyses as text reports: bottleneck
// categories, a cumulative call tree, a flat self-time profile and the
// idle/overhead context.
package hotspot

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/danpilch/gfxprof/pkg/cpuprofile"
	"github.com/danpilch/gfxprof/pkg/output"
)

// MinBottleneckPct is the share of active time below which a function is not
// considered for bottleneck classification.
const MinBottleneckPct = 0.5

// category is a known source of overhead in wasm + WebGPU applications.
type category struct {
	name   string
	advice string
	match  func(name, lower string) bool
}

func contains(sub string) func(string, string) bool {
	return func(name, _ string) bool { return strings.Contains(name, sub) }
}

func containsFold(sub string) func(string, string) bool {
	return func(_, lower string) bool { return strings.Contains(lower, sub) }
}

// categories are tried in order; the first match wins.
var categories = []category{
	{"WASM→JS Memory Copy", "Reuse typed-array views instead of copying slices across the boundary", contains("new_from_slice")},
	{"GPU Buffer Upload", "Batch writeBuffer calls or upload through one staging buffer per frame", containsFold("write_buffer")},
	{"Dirty Buffer Sync", "Track dirty ranges and upload only what changed", containsFold("sync_dirty")},
	{"Bind Group Creation", "Cache bind groups per resource set instead of creating them per draw", contains("createBindGroup")},
	{"Command Encoder Creation", "Record more passes per command encoder", contains("createCommandEncoder")},
	{"WASM→JS Call", "Batch commands before crossing into JS", containsFold("wasm-to-js")},
	{"JS→WASM Call", "Move hot loops into wasm to avoid per-call transitions", containsFold("js-to-wasm")},
	{"GPU Submit", "Submit once per frame", func(name, lower string) bool {
		return strings.Contains(lower, "submit") && strings.Contains(name, "wbg")
	}},
	{"Shader Compilation (Naga)", "Create pipelines up front and cache shader modules", containsFold("naga")},
}

// Contributor is a function attributed to a bottleneck category.
type Contributor struct {
	Name    string
	TimeUs  int64
	Pct     float64
	SelfPct float64
}

// Bottleneck is a category with the functions that fell into it.
type Bottleneck struct {
	Category  string
	Advice    string
	Pct       float64
	Functions []Contributor
}

// classify returns the first category whose pattern matches name, or nil.
func classify(name string) *category {
	lower := strings.ToLower(name)
	for i := range categories {
		if categories[i].match(name, lower) {
			return &categories[i]
		}
	}
	return nil
}

// ClassifyBottlenecks groups every function holding at least
// MinBottleneckPct of denom total time into its category. Categories are
// ranked by summed percentage and their functions by percentage.
func ClassifyBottlenecks(a *cpuprofile.Analysis, denom int64) []Bottleneck {
	index := make(map[string]int)
	var result []Bottleneck

	for _, name := range cpuprofile.Ranked(a.TotalTime) {
		t := a.TotalTime[name]
		pct := output.Percent(t, denom)
		if pct < MinBottleneckPct {
			continue
		}
		c := classify(name)
		if c == nil {
			continue
		}

		i, ok := index[c.name]
		if !ok {
			i = len(result)
			index[c.name] = i
			result = append(result, Bottleneck{Category: c.name, Advice: c.advice})
		}
		result[i].Pct += pct
		result[i].Functions = append(result[i].Functions, Contributor{
			Name:    name,
			TimeUs:  t,
			Pct:     pct,
			SelfPct: output.Percent(a.SelfTime[name], denom),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Pct > result[j].Pct
	})
	return result
}

// RenderBottlenecks writes the bottleneck section with the top three
// contributors per category.
func RenderBottlenecks(w io.Writer, bottlenecks []Bottleneck) {
	output.Banner(w, "BOTTLENECK ANALYSIS", reportWidth)

	if len(bottlenecks) == 0 {
		fmt.Fprintln(w, "  No specific bottleneck patterns detected.")
		return
	}

	for _, b := range bottlenecks {
		fmt.Fprintf(w, "\n  %s - %.1f%% total\n", output.Warn.Render("["+b.Category+"]"), b.Pct)
		for i, f := range b.Functions {
			if i == 3 {
				break
			}
			fmt.Fprintf(w, "    %10s (%.1f%% total, %.1f%% self) %s\n",
				output.FormatMicros(f.TimeUs), f.Pct, f.SelfPct,
				output.Truncate(output.DisplayName(f.Name), 60))
		}
		fmt.Fprintf(w, "    %s\n", output.Dim.Render("→ "+b.Advice))
	}
}

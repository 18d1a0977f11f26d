// Package pprofconv converts CPU profiles extracted from Chrome traces into
// the pprof format so they can be inspected with `go tool pprof`.
package pprofconv

import (
	"fmt"
	"io"
	"sort"

	"github.com/danpilch/gfxprof/pkg/cpuprofile"
	"github.com/google/pprof/profile"
)

type funcKey struct {
	name string
	url  string
	line int64
}

// FromProfile builds a pprof profile with one sample per sampled node,
// valued in sample count and microseconds. Every node on a sampled stack
// becomes a Location, listed leaf first.
func FromProfile(p *cpuprofile.Profile) (*profile.Profile, error) {
	res := &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "samples", Unit: "count"},
			{Type: "cpu", Unit: "microseconds"},
		},
		PeriodType:    &profile.ValueType{Type: "cpu", Unit: "microseconds"},
		DurationNanos: p.Duration() * 1000,
	}
	if n := int64(len(p.Samples)); n > 0 {
		res.Period = p.Duration() / n
	}

	counts := make(map[int64]int64)
	times := make(map[int64]int64)
	for i, id := range p.Samples {
		counts[id]++
		times[id] += p.Delta(i)
	}

	ids := make([]int64, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	locations := make(map[int64]*profile.Location)
	functions := make(map[funcKey]*profile.Function)

	for _, id := range ids {
		stack := p.Stack(id)
		if len(stack) == 0 {
			continue
		}

		sample := &profile.Sample{Value: []int64{counts[id], times[id]}}
		for _, f := range stack {
			loc, ok := locations[f.ID]
			if !ok {
				node := p.Nodes[f.ID]
				key := funcKey{name: node.FunctionName, url: node.URL, line: sourceLine(node.LineNumber)}
				fn, ok := functions[key]
				if !ok {
					fn = &profile.Function{
						ID:         1 + uint64(len(res.Function)),
						Name:       key.name,
						SystemName: key.name,
						Filename:   key.url,
						StartLine:  key.line,
					}
					functions[key] = fn
					res.Function = append(res.Function, fn)
				}
				loc = &profile.Location{
					ID: 1 + uint64(len(res.Location)),
					Line: []profile.Line{{
						Function: fn,
						Line:     key.line,
					}},
				}
				locations[f.ID] = loc
				res.Location = append(res.Location, loc)
			}
			sample.Location = append(sample.Location, loc)
		}
		res.Sample = append(res.Sample, sample)
	}

	if err := res.CheckValid(); err != nil {
		return nil, fmt.Errorf("cannot build pprof profile: %w", err)
	}
	return res, nil
}

// sourceLine converts a zero-based line number to pprof's one-based form.
func sourceLine(zeroBased int64) int64 {
	if zeroBased < 0 {
		return 0
	}
	return zeroBased + 1
}

// Write converts p and writes it gzip-compressed to w.
func Write(w io.Writer, p *cpuprofile.Profile) error {
	prof, err := FromProfile(p)
	if err != nil {
		return err
	}
	if err := prof.Write(w); err != nil {
		return fmt.Errorf("cannot write pprof profile: %w", err)
	}
	return nil
}

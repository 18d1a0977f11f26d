package cpuprofile

import "sort"

// Analysis holds the per-function aggregates of a profile. All times are in
// microseconds.
type Analysis struct {
	SelfSamples  map[string]int64
	SelfTime     map[string]int64
	TotalSamples map[string]int64
	TotalTime    map[string]int64

	// CallTree counts caller -> callee edges across all sampled stacks.
	CallTree map[string]map[string]int64

	SampleCount int
	TotalTimeUs int64
}

// Analyze attributes every sample of p to the functions on its stack.
//
// Self metrics go to the leaf frame only. Total metrics go to every distinct
// function name on the stack exactly once, so recursion does not inflate
// them. Samples whose stack cannot be resolved contribute to nothing.
func Analyze(p *Profile) *Analysis {
	a := &Analysis{
		SelfSamples:  make(map[string]int64),
		SelfTime:     make(map[string]int64),
		TotalSamples: make(map[string]int64),
		TotalTime:    make(map[string]int64),
		CallTree:     make(map[string]map[string]int64),
		SampleCount:  len(p.Samples),
		TotalTimeUs:  p.Duration(),
	}

	stacks := make(map[int64][]Frame)
	for i, id := range p.Samples {
		delta := p.Delta(i)

		stack, ok := stacks[id]
		if !ok {
			stack = p.Stack(id)
			stacks[id] = stack
		}
		if len(stack) == 0 {
			continue
		}

		leaf := stack[0].Name
		a.SelfSamples[leaf]++
		a.SelfTime[leaf] += delta

		seen := make(map[string]struct{}, len(stack))
		for j, f := range stack {
			if _, dup := seen[f.Name]; !dup {
				seen[f.Name] = struct{}{}
				a.TotalSamples[f.Name]++
				a.TotalTime[f.Name] += delta
			}

			if j+1 < len(stack) {
				parent := stack[j+1].Name
				children, ok := a.CallTree[parent]
				if !ok {
					children = make(map[string]int64)
					a.CallTree[parent] = children
				}
				children[f.Name]++
			}
		}
	}
	return a
}

// IdleTimeUs is the self time of the synthetic idle, program and root nodes.
func (a *Analysis) IdleTimeUs() int64 {
	return a.SelfTime[IdleName] + a.SelfTime[ProgramName] + a.SelfTime[RootName]
}

// ActiveTimeUs is the total time spent outside the synthetic idle nodes. It
// is the denominator Chrome DevTools uses for its percentages.
func (a *Analysis) ActiveTimeUs() int64 {
	return a.TotalTimeUs - a.IdleTimeUs()
}

// Ranked returns the keys of m sorted by descending value, ties broken by
// name, leaving out any name in exclude.
func Ranked(m map[string]int64, exclude ...string) []string {
	skip := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		skip[name] = struct{}{}
	}

	names := make([]string, 0, len(m))
	for name := range m {
		if _, ok := skip[name]; ok {
			continue
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if m[names[i]] != m[names[j]] {
			return m[names[i]] > m[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

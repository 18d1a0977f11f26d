// Package flamegraph folds CPU profile stacks and renders them as SVG flame
// graphs.
package flamegraph

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/danpilch/gfxprof/pkg/cpuprofile"
)

// Collapse folds every sample of p into a root-first "a;b;c" stack keyed by
// its accumulated time in microseconds. The synthetic root frame is dropped
// and samples that land on idle or program nodes are skipped.
func Collapse(p *cpuprofile.Profile) map[string]int64 {
	stacks := make(map[string]int64)
	keys := make(map[int64]string)

	for i, id := range p.Samples {
		delta := p.Delta(i)
		if delta == 0 {
			continue
		}

		key, ok := keys[id]
		if !ok {
			key = foldStack(p.Stack(id))
			keys[id] = key
		}
		if key == "" {
			continue
		}
		stacks[key] += delta
	}
	return stacks
}

func foldStack(stack []cpuprofile.Frame) string {
	if len(stack) == 0 {
		return ""
	}
	switch stack[0].Name {
	case cpuprofile.IdleName, cpuprofile.ProgramName:
		return ""
	}

	names := make([]string, 0, len(stack))
	for i := len(stack) - 1; i >= 0; i-- {
		name := stack[i].Name
		if name == cpuprofile.RootName {
			continue
		}
		// ';' separates frames in the folded format
		names = append(names, strings.ReplaceAll(name, ";", ":"))
	}
	return strings.Join(names, ";")
}

// WriteFolded writes stacks in folded format, one "stack weight" line each,
// sorted by stack.
func WriteFolded(w io.Writer, stacks map[string]int64) error {
	keys := make([]string, 0, len(stacks))
	for k := range stacks {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s %d\n", k, stacks[k]); err != nil {
			return fmt.Errorf("cannot write folded stacks: %w", err)
		}
	}
	return nil
}

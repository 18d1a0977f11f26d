// Package cpuprofile loads the V8 CPU profile embedded in Chrome DevTools
// performance traces and aggregates its samples per function.
package cpuprofile

// Synthetic node names emitted by V8 that do not correspond to user code.
const (
	IdleName    = "(idle)"
	ProgramName = "(program)"
	RootName    = "(root)"
	GCName      = "(garbage collector)"
)

// Node is a single entry of the profiler node table.
type Node struct {
	ID           int64
	FunctionName string
	URL          string
	LineNumber   int64 // zero-based, -1 when unknown
	ColumnNumber int64 // zero-based, -1 when unknown
	CodeType     string
	Parent       int64 // 0 for the root
}

// Profile is the merged CPU profile of every ProfileChunk in a trace.
// Samples and TimeDeltas are parallel: TimeDeltas[i] is the time in
// microseconds attributed to Samples[i].
type Profile struct {
	Nodes      map[int64]Node
	Samples    []int64
	TimeDeltas []int64
}

// Delta returns the time attributed to sample i. A missing delta counts as
// zero and negative deltas are clamped to zero.
func (p *Profile) Delta(i int) int64 {
	if i >= len(p.TimeDeltas) {
		return 0
	}
	if d := p.TimeDeltas[i]; d > 0 {
		return d
	}
	return 0
}

// Duration is the sum of all time deltas, negative deltas clamped to zero.
func (p *Profile) Duration() int64 {
	var total int64
	for i := range p.TimeDeltas {
		total += p.Delta(i)
	}
	return total
}

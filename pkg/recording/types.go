// Package recording extracts GPU commands from WebGPU Inspector HTML
// recordings and summarizes draw, dispatch and buffer activity.
package recording

import (
	"fmt"
	"math"
	"math/bits"
)

// DrawKind distinguishes direct draws from indirect ones.
type DrawKind string

const (
	DrawDirect   DrawKind = "direct"
	DrawIndirect DrawKind = "indirect"
)

// DrawCall is a recorded draw. Indirect draws only carry the byte offset into
// their indirect buffer.
type DrawCall struct {
	Kind          DrawKind
	VertexCount   int64
	InstanceCount int64
	FirstVertex   int64
	FirstInstance int64
	Offset        int64
}

// DispatchCall is a recorded dispatchWorkgroups call.
type DispatchCall struct {
	X, Y, Z int64
}

// TotalWorkgroups returns x * y * z, saturating at math.MaxInt64.
func (d DispatchCall) TotalWorkgroups() int64 {
	return mulSat(mulSat(d.X, d.Y), d.Z)
}

// Shape returns the dispatch dimensions as "XxYxZ".
func (d DispatchCall) Shape() string {
	return fmt.Sprintf("%dx%dx%d", d.X, d.Y, d.Z)
}

// BufferRecord is a recorded createBuffer call.
type BufferRecord struct {
	Size  int64
	Label string
}

// PipelineKind is the kind of a created pipeline.
type PipelineKind string

const (
	PipelineCompute PipelineKind = "compute"
	PipelineRender  PipelineKind = "render"
)

// PipelineRecord is a recorded create*Pipeline call.
type PipelineRecord struct {
	Kind  PipelineKind
	Label string
}

// Recording holds every command extracted from a recording, in match order
// per pattern.
type Recording struct {
	Draws      []DrawCall
	Dispatches []DispatchCall
	Buffers    []BufferRecord
	Pipelines  []PipelineRecord
	FrameCount int
}

// mulSat multiplies two non-negative counts, saturating at math.MaxInt64.
func mulSat(a, b int64) int64 {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(lo)
}

// addSat adds two non-negative counts, saturating at math.MaxInt64.
func addSat(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

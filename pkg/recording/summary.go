package recording

import "sort"

// DrawConfig counts direct draws sharing a vertex and instance count.
type DrawConfig struct {
	VertexCount   int64
	InstanceCount int64
	Count         int
}

// DispatchShape counts dispatches sharing the same dimensions.
type DispatchShape struct {
	Dispatch DispatchCall
	Count    int
}

// Summary holds statistics derived from a Recording. Per-frame rates are nil
// when the recording has no frame markers or nothing to rate.
type Summary struct {
	FrameCount int

	DrawCalls          int
	DirectDraws        int
	IndirectDraws      int
	TotalVerticesDrawn int64
	TotalInstances     int64
	DrawsPerFrame      *float64
	InstancesPerFrame  *float64
	DrawConfigs        []DrawConfig

	DispatchCalls      int
	DispatchesPerFrame *float64
	DispatchShapes     []DispatchShape

	// Buffers holds one entry per unique label with its first-seen size,
	// largest first.
	Buffers           []BufferRecord
	TotalBufferMemory int64

	ComputePipelines int
	RenderPipelines  int
}

// Summarize derives a Summary from rec without modifying it.
func Summarize(rec *Recording) Summary {
	s := Summary{FrameCount: rec.FrameCount}
	perFrame := func(n float64) *float64 {
		if rec.FrameCount <= 0 {
			return nil
		}
		v := n / float64(rec.FrameCount)
		return &v
	}

	s.DrawCalls = len(rec.Draws)
	configIndex := make(map[[2]int64]int)
	for _, d := range rec.Draws {
		if d.Kind == DrawIndirect {
			s.IndirectDraws++
			continue
		}
		s.DirectDraws++
		s.TotalVerticesDrawn = addSat(s.TotalVerticesDrawn, mulSat(d.VertexCount, d.InstanceCount))
		s.TotalInstances = addSat(s.TotalInstances, d.InstanceCount)

		key := [2]int64{d.VertexCount, d.InstanceCount}
		i, ok := configIndex[key]
		if !ok {
			i = len(s.DrawConfigs)
			configIndex[key] = i
			s.DrawConfigs = append(s.DrawConfigs, DrawConfig{VertexCount: d.VertexCount, InstanceCount: d.InstanceCount})
		}
		s.DrawConfigs[i].Count++
	}
	sort.SliceStable(s.DrawConfigs, func(i, j int) bool {
		return s.DrawConfigs[i].Count > s.DrawConfigs[j].Count
	})
	if s.DirectDraws > 0 {
		s.DrawsPerFrame = perFrame(float64(s.DirectDraws))
		s.InstancesPerFrame = perFrame(float64(s.TotalInstances))
	}

	s.DispatchCalls = len(rec.Dispatches)
	shapeIndex := make(map[DispatchCall]int)
	for _, d := range rec.Dispatches {
		i, ok := shapeIndex[d]
		if !ok {
			i = len(s.DispatchShapes)
			shapeIndex[d] = i
			s.DispatchShapes = append(s.DispatchShapes, DispatchShape{Dispatch: d})
		}
		s.DispatchShapes[i].Count++
	}
	sort.SliceStable(s.DispatchShapes, func(i, j int) bool {
		return s.DispatchShapes[i].Count > s.DispatchShapes[j].Count
	})
	if s.DispatchCalls > 0 {
		s.DispatchesPerFrame = perFrame(float64(s.DispatchCalls))
	}

	seen := make(map[string]bool)
	for _, b := range rec.Buffers {
		if seen[b.Label] {
			continue
		}
		seen[b.Label] = true
		s.Buffers = append(s.Buffers, b)
		s.TotalBufferMemory = addSat(s.TotalBufferMemory, b.Size)
	}
	sort.SliceStable(s.Buffers, func(i, j int) bool {
		return s.Buffers[i].Size > s.Buffers[j].Size
	})

	for _, p := range rec.Pipelines {
		switch p.Kind {
		case PipelineCompute:
			s.ComputePipelines++
		case PipelineRender:
			s.RenderPipelines++
		}
	}

	return s
}

// DispatchCount returns how many dispatches had the given dimensions.
func (s Summary) DispatchCount(x, y, z int64) int {
	for _, d := range s.DispatchShapes {
		if d.Dispatch == (DispatchCall{X: x, Y: y, Z: z}) {
			return d.Count
		}
	}
	return 0
}

package recording

import "fmt"

// InsightLevel is the severity of a heuristic finding.
type InsightLevel string

const (
	InsightWarn InsightLevel = "warn"
	InsightInfo InsightLevel = "info"
)

// Insight is a heuristic performance finding about a recording.
type Insight struct {
	Level   InsightLevel
	Message string
	Hint    string
}

// Insights derives heuristic findings from a recording and its summary.
func Insights(rec *Recording, s Summary) []Insight {
	var insights []Insight

	if n, uniform := uniformInstanceCount(rec.Draws); uniform {
		insights = append(insights, Insight{
			Level:   InsightWarn,
			Message: fmt.Sprintf("All draws use %d instances (no GPU culling benefit)", n),
			Hint:    "Consider: indirect draw with dynamic instance count",
		})
	}

	if s.IndirectDraws > 0 {
		insights = append(insights, Insight{
			Level:   InsightInfo,
			Message: fmt.Sprintf("%d indirect draws (instance counts decided on the GPU)", s.IndirectDraws),
		})
	}

	if n := s.DispatchCount(1, 1, 1); n > 0 {
		insights = append(insights, Insight{
			Level:   InsightInfo,
			Message: fmt.Sprintf("%d single-workgroup dispatches (likely reset passes)", n),
		})
	}

	return insights
}

// uniformInstanceCount reports whether every direct draw uses the same
// instance count, and which.
func uniformInstanceCount(draws []DrawCall) (int64, bool) {
	var (
		count int64
		found bool
	)
	for _, d := range draws {
		if d.Kind != DrawDirect {
			continue
		}
		if !found {
			count, found = d.InstanceCount, true
			continue
		}
		if d.InstanceCount != count {
			return 0, false
		}
	}
	return count, found
}

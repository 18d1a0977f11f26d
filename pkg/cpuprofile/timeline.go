package cpuprofile

// Timeline splits the profile duration into buckets of equal length and
// returns, per bucket, the fraction of sampled time spent outside the idle
// nodes. Buckets with no sampled time report zero.
func Timeline(p *Profile, buckets int) []float64 {
	if buckets <= 0 {
		return nil
	}
	activity := make([]float64, buckets)
	duration := p.Duration()
	if duration == 0 {
		return activity
	}

	active := make([]int64, buckets)
	sampled := make([]int64, buckets)
	var elapsed int64
	for i, id := range p.Samples {
		delta := p.Delta(i)
		b := int(elapsed * int64(buckets) / duration)
		if b >= buckets {
			b = buckets - 1
		}
		elapsed += delta

		node, ok := p.Nodes[id]
		if !ok {
			continue
		}
		sampled[b] += delta
		switch node.FunctionName {
		case IdleName, ProgramName, RootName:
		default:
			active[b] += delta
		}
	}

	for b := range activity {
		if sampled[b] > 0 {
			activity[b] = float64(active[b]) / float64(sampled[b])
		}
	}
	return activity
}

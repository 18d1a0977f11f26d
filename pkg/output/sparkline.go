package output

import "strings"

// sparkline block characters from lowest to highest
var sparkBlocks = []rune{
	'\u2581', // ▁
	'\u2582', // ▂
	'\u2583', // ▃
	'\u2584', // ▄
	'\u2585', // ▅
	'\u2586', // ▆
	'\u2587', // ▇
	'\u2588', // █
}

// SparklineRange renders values scaled against a fixed [min, max] range.
// Values outside the range are clamped to the lowest or highest block.
func SparklineRange(values []float64, min, max float64) string {
	var b strings.Builder
	rng := max - min
	for _, v := range values {
		idx := 0
		if rng > 0 {
			idx = int((v - min) / rng * float64(len(sparkBlocks)-1))
		}
		if idx >= len(sparkBlocks) {
			idx = len(sparkBlocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

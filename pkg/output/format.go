package output

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ianlancetaylor/demangle"
)

// FormatMicros renders a microsecond count as µs, ms or s.
func FormatMicros(us int64) string {
	switch {
	case us >= 1_000_000:
		return fmt.Sprintf("%.2fs", float64(us)/1_000_000)
	case us >= 1_000:
		return fmt.Sprintf("%.2fms", float64(us)/1_000)
	default:
		return fmt.Sprintf("%dµs", us)
	}
}

// FormatBytes renders a byte count as B, KB or MB (binary units) with a
// fixed number of decimals per unit.
func FormatBytes(b int64) string {
	const (
		kb = 1024
		mb = 1024 * 1024
	)
	switch {
	case b >= mb:
		return fmt.Sprintf("%.2f MB", float64(b)/mb)
	case b >= kb:
		return fmt.Sprintf("%.1f KB", float64(b)/kb)
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// Thousands formats n with comma group separators.
func Thousands(n int64) string {
	return humanize.Comma(n)
}

// Truncate shortens s to at most max runes, ending in "..." when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

var hashSuffix = regexp.MustCompile(`\[[0-9a-f]{16}\]`)

var simplifications = strings.NewReplacer(
	"core::ops::function::", "",
	"alloc::vec::Vec<", "Vec<",
	"alloc::boxed::Box<", "Box<",
)

// DisplayName makes a profiler function name readable: mangled symbols are
// demangled, wasm hash suffixes dropped and common std paths shortened.
func DisplayName(name string) string {
	name = demangle.Filter(name, demangle.NoParams)
	name = hashSuffix.ReplaceAllString(name, "")
	return simplifications.Replace(name)
}

// Percent returns part as a percentage of whole, or 0 when whole is zero.
func Percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

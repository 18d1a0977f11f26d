package hotspot

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/danpilch/gfxprof/pkg/cpuprofile"
	"github.com/danpilch/gfxprof/pkg/output"
)

// DefaultTop is the default number of rows in the flat profile.
const DefaultTop = 40

// FlatRow is one function of the flat profile.
type FlatRow struct {
	Name     string
	SelfUs   int64
	TotalUs  int64
	SelfPct  float64
	TotalPct float64
}

// BuildFlatProfile returns the top functions by self time, leaving out the
// synthetic idle, program, root and garbage collector nodes.
func BuildFlatProfile(a *cpuprofile.Analysis, denom int64, top int) []FlatRow {
	names := cpuprofile.Ranked(a.SelfTime,
		cpuprofile.IdleName, cpuprofile.ProgramName, cpuprofile.RootName, cpuprofile.GCName)
	if top >= 0 && len(names) > top {
		names = names[:top]
	}

	rows := make([]FlatRow, len(names))
	for i, name := range names {
		rows[i] = FlatRow{
			Name:     name,
			SelfUs:   a.SelfTime[name],
			TotalUs:  a.TotalTime[name],
			SelfPct:  output.Percent(a.SelfTime[name], denom),
			TotalPct: output.Percent(a.TotalTime[name], denom),
		}
	}
	return rows
}

// RenderFlatProfile writes the flat profile section as a table.
func RenderFlatProfile(w io.Writer, rows []FlatRow) {
	output.Banner(w, "FLAT PROFILE (Self Time - where CPU was directly executing, NOT in children)", reportWidth)

	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{
			output.FormatMicros(r.SelfUs),
			output.FormatMicros(r.TotalUs),
			fmt.Sprintf("%.2f%%", r.SelfPct),
			fmt.Sprintf("%.2f%%", r.TotalPct),
			output.Truncate(output.DisplayName(r.Name), 60),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(output.Dim).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return output.Header
			}
			if col < 4 {
				return output.Cell.Align(lipgloss.Right)
			}
			return output.Cell
		}).
		Headers("SELF", "TOTAL", "SELF%", "TOTAL%", "FUNCTION").
		Rows(data...)

	fmt.Fprintln(w, t)
}

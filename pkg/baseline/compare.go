package baseline

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/danpilch/gfxprof/pkg/output"
)

// Severity indicates the magnitude of a function's drift.
type Severity string

const (
	SeverityNone        Severity = "none"
	SeverityMinor       Severity = "minor"
	SeverityModerate    Severity = "moderate"
	SeverityImprovement Severity = "improvement"
	SeverityRegress     Severity = "regression"
)

// Comparison holds the drift of a single function's share of active time,
// in percentage points.
type Comparison struct {
	Function    string
	BaselinePct float64
	CurrentPct  float64
	Delta       float64
	Severity    Severity
}

// Compare matches functions by name and calculates the drift of their total
// time share. Functions missing on one side count as 0%. Results are ordered
// by the size of the change.
func Compare(base, current *Snapshot) []Comparison {
	names := make(map[string]struct{})
	for fn := range base.Functions {
		names[fn] = struct{}{}
	}
	for fn := range current.Functions {
		names[fn] = struct{}{}
	}

	comparisons := make([]Comparison, 0, len(names))
	for fn := range names {
		b := base.Functions[fn].TotalPct
		c := current.Functions[fn].TotalPct
		delta := c - b
		comparisons = append(comparisons, Comparison{
			Function:    fn,
			BaselinePct: b,
			CurrentPct:  c,
			Delta:       delta,
			Severity:    classifySeverity(delta),
		})
	}

	sort.Slice(comparisons, func(i, j int) bool {
		di, dj := math.Abs(comparisons[i].Delta), math.Abs(comparisons[j].Delta)
		if di != dj {
			return di > dj
		}
		return comparisons[i].Function < comparisons[j].Function
	})
	return comparisons
}

func classifySeverity(delta float64) Severity {
	abs := math.Abs(delta)
	if abs < 0.5 {
		return SeverityNone
	}
	if abs < 2 {
		return SeverityMinor
	}
	if abs < 5 {
		return SeverityModerate
	}
	if delta > 0 {
		return SeverityRegress
	}
	return SeverityImprovement
}

// RenderComparison writes up to limit changed functions as a styled table.
func RenderComparison(w io.Writer, base, current *Snapshot, comparisons []Comparison, limit int) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, output.Title.Render("Baseline Comparison"))
	fmt.Fprintln(w, output.Rule("═", 90))
	fmt.Fprintf(w, "Comparing %s against %s (from %s)\n",
		output.Bold.Render(current.Source),
		output.Bold.Render(fmt.Sprintf("%q", base.Name)),
		output.Dim.Render(base.Timestamp.Format("2006-01-02 15:04:05")))
	fmt.Fprintf(w, "Active time: %s -> %s\n\n",
		output.FormatMicros(base.ActiveTimeUs), output.FormatMicros(current.ActiveTimeUs))

	var rows [][]string
	regressions := 0
	for _, c := range comparisons {
		if c.Severity == SeverityNone {
			continue
		}
		if c.Severity == SeverityRegress {
			regressions++
		}
		if limit > 0 && len(rows) >= limit {
			continue
		}
		rows = append(rows, []string{
			output.Truncate(output.DisplayName(c.Function), 60),
			fmt.Sprintf("%.2f%%", c.BaselinePct),
			fmt.Sprintf("%.2f%%", c.CurrentPct),
			fmt.Sprintf("%+.2f", c.Delta),
			severityLabel(c.Severity),
		})
	}

	if len(rows) == 0 {
		fmt.Fprintf(w, "  %s\n", output.OK.Render("No significant changes detected."))
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(output.Dim).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return output.Header
			}
			return output.Cell
		}).
		Headers("FUNCTION", "BASELINE", "CURRENT", "DELTA (pp)", "SEVERITY").
		Rows(rows...)
	fmt.Fprintln(w, t)

	fmt.Fprintln(w)
	if regressions > 0 {
		fmt.Fprintf(w, "  %s\n", output.Err.Render(fmt.Sprintf("%d potential regressions detected.", regressions)))
	} else {
		fmt.Fprintf(w, "  %s\n", output.OK.Render("No significant regressions detected."))
	}
}

func severityLabel(s Severity) string {
	switch s {
	case SeverityRegress:
		return output.Err.Render("REGRESSION")
	case SeverityImprovement:
		return output.OK.Render("improvement")
	case SeverityModerate:
		return output.Warn.Render("moderate")
	case SeverityMinor:
		return output.Minor.Render("minor")
	default:
		return output.OK.Render("none")
	}
}

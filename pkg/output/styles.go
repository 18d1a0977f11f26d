// Package output provides the shared styling and formatting helpers used by
// the trace and recording reports.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Title  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	Cell   = lipgloss.NewStyle().Padding(0, 1)
	Dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	Bold   = lipgloss.NewStyle().Bold(true)
	OK     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true) // Green
	Warn   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true) // Yellow
	Err    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)  // Red
	Minor  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// Rule returns a dimmed horizontal rule of the given width.
func Rule(ch string, width int) string {
	return Dim.Render(strings.Repeat(ch, width))
}

// Banner writes a double-ruled section heading.
func Banner(w io.Writer, title string, width int) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, Rule("═", width))
	fmt.Fprintln(w, Title.Render(title))
	fmt.Fprintln(w, Rule("═", width))
}

// Section writes a single-ruled sub-heading.
func Section(w io.Writer, title string, width int) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, Title.Render(title))
	fmt.Fprintln(w, Rule("─", width))
}

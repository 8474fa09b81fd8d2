package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"
)

var (
	primaryColor = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}
	successColor = lipgloss.AdaptiveColor{Light: "#40A02B", Dark: "#A6E3A1"}
	warningColor = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#8C8FA1", Dark: "#6C7086"}
	accentColor  = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"}
)

// printer renders panels, tables and status lines. Colors are only emitted
// when out is a terminal.
type printer struct {
	out   io.Writer
	width int

	title   lipgloss.Style
	panel   lipgloss.Style
	label   lipgloss.Style
	name    lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
}

func newPrinter(out io.Writer) *printer {
	r := lipgloss.NewRenderer(out)
	p := &printer{
		out:     out,
		width:   terminalWidth(out),
		title:   r.NewStyle().Bold(true).Foreground(primaryColor),
		panel:   r.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(primaryColor).Padding(0, 1),
		label:   r.NewStyle().Bold(true),
		name:    r.NewStyle().Foreground(primaryColor),
		success: r.NewStyle().Foreground(successColor),
		warning: r.NewStyle().Foreground(warningColor),
		failure: r.NewStyle().Foreground(errorColor),
		muted:   r.NewStyle().Foreground(mutedColor),
		header:  r.NewStyle().Bold(true).Foreground(accentColor).Padding(0, 1),
		cell:    r.NewStyle().Padding(0, 1),
	}
	return p
}

// terminalWidth is the column count of out, or 0 when out is not a terminal.
func terminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}

func (p *printer) println(a ...any) {
	_, _ = fmt.Fprintln(p.out, a...)
}

func (p *printer) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(p.out, format, a...)
}

// printPanel draws a bordered box with a title line and labelled rows.
func (p *printer) printPanel(title string, lines ...string) {
	body := p.title.Render(title) + "\n\n" + strings.Join(lines, "\n")
	p.println(p.panel.Render(body))
}

// field renders "label: value" for panels.
func (p *printer) field(label, value string) string {
	return p.label.Render(label+":") + " " + value
}

// printTable draws rows under a header. Columns listed in right are right-aligned.
func (p *printer) printTable(headers []string, rows [][]string, right ...int) {
	alignRight := make(map[int]bool, len(right))
	for _, c := range right {
		alignRight[c] = true
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.muted).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := p.cell
			if row == table.HeaderRow {
				s = p.header
			}
			if alignRight[col] {
				s = s.Align(lipgloss.Right)
			}
			return s
		})
	if p.width > 0 {
		t = t.Width(p.width)
	}
	p.println(t.String())
}

func (p *printer) ok(format string, a ...any) {
	p.println(p.success.Render("✓ " + fmt.Sprintf(format, a...)))
}

func (p *printer) warn(format string, a ...any) {
	p.println(p.warning.Render(fmt.Sprintf(format, a...)))
}

func (p *printer) fail(format string, a ...any) {
	p.println(p.failure.Render("✗ " + fmt.Sprintf(format, a...)))
}

func (p *printer) dim(format string, a ...any) {
	p.println(p.muted.Render(fmt.Sprintf(format, a...)))
}

// formatCount adds thousands separators: 12345 -> "12,345".
func formatCount(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// checkMark is the table marker for tables with a registered schema.
func checkMark(ok bool) string {
	if ok {
		return "✓"
	}
	return "○"
}

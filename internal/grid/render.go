package grid

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Width(12).Align(lipgloss.Center)
	hourStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(13)
	freeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Width(12).Align(lipgloss.Center)
	occupiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Width(12).Align(lipgloss.Center)
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
)

// Cursor addresses a cell of the edit grid.
type Cursor struct {
	Row, Col int
}

// Render draws the grid. With a cursor the selected cell is highlighted.
func (g Grid) Render(cursor *Cursor) string {
	var b strings.Builder

	header := []string{hourStyle.Render("")}
	for _, f := range g.Fields {
		header = append(header, headerStyle.Render(truncate(f, 12)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))
	b.WriteString("\n")

	for row, hour := range g.Hours {
		line := []string{hourStyle.Render(hour + "-" + NextHourLabel(hour))}
		for col, f := range g.Fields {
			var cell string
			if booking, ok := g.At(f, hour); ok {
				cell = occupiedStyle.Render(truncate(ClientShortName(booking.Client), 12))
			} else {
				cell = freeStyle.Render("-")
			}
			if cursor != nil && cursor.Row == row && cursor.Col == col {
				cell = cursorStyle.Render(cell)
			}
			line = append(line, cell)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, line...))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

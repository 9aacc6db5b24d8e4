package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2).
			Width(22)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	titleStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func card(label, value string) string {
	return cardStyle.Render(labelStyle.Render(label) + "\n" + valueStyle.Render(value))
}

// Money formats an amount as "$12.000", dot-grouped like the admin panel.
func Money(amount float64) string {
	whole := fmt.Sprintf("%.0f", amount)
	neg := strings.HasPrefix(whole, "-")
	whole = strings.TrimPrefix(whole, "-")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

// Render draws the summary cards and the upcoming list.
func (s Summary) Render() string {
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Canchas activas", fmt.Sprint(s.ActiveFields)),
		card("Reservas hoy", fmt.Sprint(s.TodayCount)),
		card("Últimos 7 días", fmt.Sprint(s.WeekCount)),
		card("Ingresos estimados hoy", Money(s.RevenueToday)),
	)

	var b strings.Builder
	b.WriteString(cards)
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Próximas reservas"))
	b.WriteString("\n")
	if len(s.Upcoming) == 0 {
		b.WriteString(mutedStyle.Render("No hay reservas para hoy"))
		b.WriteString("\n")
		return b.String()
	}
	for _, u := range s.Upcoming {
		fmt.Fprintf(&b, "  %-14s %-14s %s\n", u.Hours, u.Field, u.Client)
	}
	return b.String()
}

package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/b2p/b2p-admin/internal/constants"
	"github.com/b2p/b2p-admin/internal/dashboard"
	"github.com/b2p/b2p-admin/internal/grid"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateLogin:
		content = m.viewLogin()
	case constants.StateDashboard:
		content = m.viewDashboard()
	case constants.StateFields:
		content = docStyle.Render(m.fieldList.View())
	case constants.StateBookings:
		content = m.viewBookings()
	case constants.StateAddField, constants.StateEditField, constants.StateEditBooking:
		content = m.viewForm()
	case constants.StateConfirmDelete:
		content = m.viewConfirm(fmt.Sprintf("¿Eliminar la reserva de %s?", m.bookingToDeleteClient), "")
	case constants.StateConfirmDeactivate:
		content = m.viewConfirm(fmt.Sprintf("¿Desactivar la cancha %s?", m.fieldToDeactivateName),
			"Dejará de aparecer como disponible para nuevas reservas.")
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewBanner(),
		content,
		m.help.View(m),
	)
	return ui
}

func (m Model) viewTabs() string {
	var parts []string
	for i, title := range []string{"Dashboard", "Canchas", "Reservas"} {
		if mainState(m.state) && m.state == tabs[i] {
			parts = append(parts, activeTabStyle.Render(title))
		} else {
			parts = append(parts, inactiveTabStyle.Render(title))
		}
	}
	if m.pending > 0 {
		parts = append(parts, " "+m.spinner.View())
	}
	if m.user != nil {
		parts = append(parts, userStyle.Render(m.user.Email))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) viewBanner() string {
	var lines []string
	if m.errMsg != "" {
		lines = append(lines, bannerStyle.Render("✗ "+m.errMsg+"  [x] cerrar"))
	}
	if m.offline != "" {
		lines = append(lines, warningStyle.Render("⚠ "+m.offline))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewLogin() string {
	if m.form == nil {
		return docStyle.Render(m.spinner.View() + " Iniciando sesión...")
	}
	return docStyle.Render(m.form.View())
}

func (m Model) viewDashboard() string {
	summary := dashboard.Compute(m.app.Fields.All(), m.app.Bookings.Items(), m.app.Now())
	return docStyle.Render(summary.Render())
}

func (m Model) viewBookings() string {
	date, t := m.selectedDay()
	header := dayStyle.Render("← " + grid.DateLabel(t) + " →")

	if !m.showGrid {
		return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, m.bookingList.View()))
	}

	day := m.app.Bookings.ForDate(date)
	names := grid.ResolveFieldNames(m.app.Fields.All(), day)
	g := grid.Project(date, day, names, grid.DefaultHours())
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, m.bookingList.View(), "", g.Render(nil)))
}

func (m Model) viewForm() string {
	title := "Nueva cancha"
	switch {
	case m.state == constants.StateEditField:
		title = "Editar cancha"
	case m.state == constants.StateEditBooking && m.bookingForm != nil && m.bookingForm.ID == "":
		title = "Nueva reserva"
	case m.state == constants.StateEditBooking:
		title = "Editar reserva"
	}

	parts := []string{dayStyle.Render(title), ""}
	if m.formError != "" {
		parts = append(parts, dangerStyle.Render(m.formError), "")
	}
	parts = append(parts, m.form.View())
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) viewConfirm(question, detail string) string {
	lines := []string{dangerStyle.Render(question)}
	if detail != "" {
		lines = append(lines, detail)
	}
	lines = append(lines, "", "[y] Sí", "[n] No")
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, lines...),
	)
}

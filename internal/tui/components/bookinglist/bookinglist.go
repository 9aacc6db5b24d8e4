package bookinglist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/b2p/b2p-admin/internal/models"
)

type AddBookingMsg struct{}

type EditBookingMsg struct {
	Booking models.Booking
}

type DeleteBookingMsg struct {
	ID     string
	Client string
}

type Item struct {
	Booking models.Booking
}

func (i Item) Title() string {
	return fmt.Sprintf("%s-%s  %s", i.Booking.StartTime, i.Booking.EndTime, i.Booking.Client)
}

func (i Item) Description() string {
	desc := i.Booking.Field
	if i.Booking.Tel != "" {
		desc += " | " + i.Booking.Tel
	}
	return desc
}

func (i Item) FilterValue() string { return i.Booking.Client + " " + i.Booking.Field }

type KeyMap struct {
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "nueva"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "editar"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "eliminar"),
		),
	}
}

// Model lists the bookings of the selected day.
type Model struct {
	list list.Model
	keys KeyMap
}

func New(bookings []models.Booking, width, height int) Model {
	delegate := list.NewDefaultDelegate()
	l := list.New(items(bookings), delegate, width, height)
	l.Title = "Reservas"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

func items(bookings []models.Booking) []list.Item {
	out := make([]list.Item, len(bookings))
	for i, b := range bookings {
		out[i] = Item{Booking: b}
	}
	return out
}

func (m *Model) SetBookings(bookings []models.Booking) {
	m.list.SetItems(items(bookings))
	if m.list.Index() >= len(bookings) {
		m.list.Select(0)
	}
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddBookingMsg{} }
		case key.Matches(msg, m.keys.Edit):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return EditBookingMsg(i) }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteBookingMsg{ID: i.Booking.ID, Client: i.Booking.Client} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No hay reservas para este día.\n  Presiona 'a' para crear una."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

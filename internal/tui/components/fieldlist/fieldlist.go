package fieldlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/b2p/b2p-admin/internal/dashboard"
	"github.com/b2p/b2p-admin/internal/models"
)

type AddFieldMsg struct{}

type EditFieldMsg struct {
	Field models.Field
}

type DeactivateFieldMsg struct {
	ID   string
	Name string
}

type Item struct {
	Field models.Field
}

func (i Item) Title() string {
	if !i.Field.IsActive {
		return i.Field.Name + " (inactiva)"
	}
	return i.Field.Name
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s | %s/h", i.Field.Type, dashboard.Money(i.Field.PricePerHour))
	if i.Field.Description != "" {
		desc += " | " + i.Field.Description
	}
	return desc
}

func (i Item) FilterValue() string { return i.Field.Name + " " + string(i.Field.Type) }

type KeyMap struct {
	Add        key.Binding
	Edit       key.Binding
	Deactivate key.Binding
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
		Deactivate: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "desactivar"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(fields []models.Field, width, height int) Model {
	l := list.New(items(fields), list.NewDefaultDelegate(), width, height)
	l.Title = "Canchas"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Deactivate}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Deactivate}
	}

	return Model{list: l, keys: keys}
}

func items(fields []models.Field) []list.Item {
	out := make([]list.Item, len(fields))
	for i, f := range fields {
		out[i] = Item{Field: f}
	}
	return out
}

func (m *Model) SetFields(fields []models.Field) {
	m.list.SetItems(items(fields))
}

// Filtering reports whether the filter input has the keyboard.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
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
			return m, func() tea.Msg { return AddFieldMsg{} }
		case key.Matches(msg, m.keys.Edit):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return EditFieldMsg(i) }
			}
		case key.Matches(msg, m.keys.Deactivate):
			if i, ok := m.list.SelectedItem().(Item); ok && i.Field.IsActive {
				return m, func() tea.Msg { return DeactivateFieldMsg{ID: i.Field.ID, Name: i.Field.Name} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No hay canchas registradas.\n  Presiona 'a' para crear una."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

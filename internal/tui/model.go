package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/b2p/b2p-admin/internal/cli"
	"github.com/b2p/b2p-admin/internal/constants"
	"github.com/b2p/b2p-admin/internal/models"
	"github.com/b2p/b2p-admin/internal/session"
	"github.com/b2p/b2p-admin/internal/tui/components/bookinglist"
	"github.com/b2p/b2p-admin/internal/tui/components/fieldlist"
)

type Model struct {
	app           *cli.Context
	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	spinner       spinner.Model
	fieldList     fieldlist.Model
	bookingList   bookinglist.Model
	form          *huh.Form
	loginForm     *LoginFormModel
	fieldForm     *FieldFormModel
	bookingForm   *BookingFormModel
	editingField  *models.Field
	user          *models.User
	events        <-chan session.Event
	cancelEvents  func()
	pending       int    // in-flight backend calls
	errMsg        string // dismissible banner, loaded data stays on screen
	formError     string
	offline       string
	dayOffset     int
	showGrid      bool
	quitting      bool
	width         int
	height        int

	fieldToDeactivateID   string
	fieldToDeactivateName string
	bookingToDeleteID     string
	bookingToDeleteClient string
}

func NewModel(app *cli.Context) Model {
	events, cancel := app.Session.Subscribe()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		app:          app,
		state:        constants.StateLogin,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		spinner:      sp,
		fieldList:    fieldlist.New(nil, 0, 0),
		bookingList:  bookinglist.New(nil, 0, 0),
		events:       events,
		cancelEvents: cancel,
		showGrid:     true,
		pending:      1,
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateFields:
		keys = append(keys, fieldlist.DefaultKeyMap().Add, fieldlist.DefaultKeyMap().Edit, fieldlist.DefaultKeyMap().Deactivate)
	case constants.StateBookings:
		keys = append(keys, m.keys.PrevDay, m.keys.NextDay, m.keys.Grid)
		keys = append(keys, bookinglist.DefaultKeyMap().Add, bookinglist.DefaultKeyMap().Edit, bookinglist.DefaultKeyMap().Delete)
	}
	if m.errMsg != "" {
		keys = append(keys, m.keys.Dismiss)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh, m.keys.Dismiss, m.keys.Logout}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.PrevDay, m.keys.NextDay, m.keys.Today, m.keys.Grid}

	var actions []key.Binding
	switch m.state {
	case constants.StateFields:
		k := fieldlist.DefaultKeyMap()
		actions = []key.Binding{k.Add, k.Edit, k.Deactivate}
	case constants.StateBookings:
		k := bookinglist.DefaultKeyMap()
		actions = []key.Binding{k.Add, k.Edit, k.Delete}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		restoreCmd(m.app),
		waitForSession(m.app.Context(), m.events),
	)
}

// mainState reports whether s is one of the tabs.
func mainState(s constants.SessionState) bool {
	return s == constants.StateDashboard || s == constants.StateFields || s == constants.StateBookings
}

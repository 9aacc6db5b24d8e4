package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/b2p/b2p-admin/internal/cli"
	"github.com/b2p/b2p-admin/internal/constants"
	apperrors "github.com/b2p/b2p-admin/internal/errors"
	"github.com/b2p/b2p-admin/internal/grid"
	"github.com/b2p/b2p-admin/internal/logger"
	"github.com/b2p/b2p-admin/internal/models"
	"github.com/b2p/b2p-admin/internal/session"
	"github.com/b2p/b2p-admin/internal/tui/components/bookinglist"
	"github.com/b2p/b2p-admin/internal/tui/components/fieldlist"
	"github.com/b2p/b2p-admin/internal/validation"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionRestoredMsg:
		m.pending--
		if msg.err != nil {
			if !apperrors.Is(msg.err, apperrors.ErrNoSession) {
				m.errMsg = apperrors.Message(msg.err, constants.MsgLoginFailed)
			}
			cmd := m.showLogin("")
			return m, cmd
		}
		m.user = &msg.user
		m.state = constants.StateDashboard
		cmd := m.load()
		return m, cmd

	case loggedInMsg:
		m.pending--
		if msg.err != nil {
			m.errMsg = apperrors.Message(msg.err, constants.MsgLoginFailed)
			email := ""
			if m.loginForm != nil {
				email = m.loginForm.Email
			}
			cmd := m.showLogin(email)
			return m, cmd
		}
		m.user = &msg.user
		m.errMsg = ""
		m.state = constants.StateDashboard
		cmd := m.load()
		return m, cmd

	case dataLoadedMsg:
		m.pending--
		if msg.err != nil {
			m.errMsg = apperrors.Message(msg.err, constants.MsgFetchBookings)
			return m, nil
		}
		m.offline = ""
		if msg.src.Cached {
			m.offline = "Sin conexión: datos en caché del " + msg.src.FetchedAt.Local().Format("2006-01-02 15:04")
		}
		m.refreshLists()
		if m.bookingForm != nil {
			m.bookingForm.CatalogLoaded(m.app.Schedules.Catalog())
		}
		return m, nil

	case fieldSavedMsg:
		m.pending--
		if msg.err != nil {
			m.errMsg = apperrors.Message(msg.err, constants.MsgUpdateField)
			return m, nil
		}
		m.refreshLists()
		return m, nil

	case fieldDeactivatedMsg:
		m.pending--
		if msg.err != nil {
			m.errMsg = apperrors.Message(msg.err, constants.MsgDeleteField)
			return m, nil
		}
		m.refreshLists()
		return m, nil

	case bookingSavedMsg:
		m.pending--
		if msg.err != nil {
			m.errMsg = apperrors.Message(msg.err, constants.MsgUpdateBooking)
			return m, nil
		}
		m.refreshLists()
		return m, nil

	case bookingDeletedMsg:
		m.pending--
		if msg.err != nil {
			m.errMsg = apperrors.Message(msg.err, constants.MsgDeleteBooking)
			return m, nil
		}
		m.refreshLists()
		return m, nil

	case sessionEventMsg:
		if !msg.ok {
			return m, nil
		}
		next := waitForSession(m.app.Context(), m.events)
		if msg.event.Kind == session.Revoked && m.state != constants.StateLogin {
			m.user = nil
			login := m.showLogin("")
			return m, tea.Batch(next, login)
		}
		return m, next
	}

	switch m.state {
	case constants.StateLogin:
		return m.updateLogin(msg)
	case constants.StateAddField, constants.StateEditField:
		return m.updateFieldForm(msg)
	case constants.StateEditBooking:
		return m.updateBookingForm(msg)
	case constants.StateConfirmDelete, constants.StateConfirmDeactivate:
		return m.updateConfirm(msg)
	}

	return m.updateMain(msg)
}

func (m Model) updateMain(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		filtering := (m.state == constants.StateFields && m.fieldList.Filtering()) ||
			(m.state == constants.StateBookings && m.bookingList.Filtering())
		if filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.keys.Tab):
			m.state = nextTab(m.state, 1)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = nextTab(m.state, -1)
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Dismiss):
			m.errMsg = ""
			m.app.Fields.ClearError()
			m.app.Bookings.ClearError()
			m.app.Schedules.ClearError()
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			cmd := m.load()
			return m, cmd
		case key.Matches(msg, m.keys.Logout):
			m.app.Auth.Logout()
			m.user = nil
			cmd := m.showLogin("")
			return m, cmd
		}

		if m.state == constants.StateBookings {
			switch {
			case key.Matches(msg, m.keys.PrevDay):
				m.dayOffset--
				m.refreshLists()
				return m, nil
			case key.Matches(msg, m.keys.NextDay):
				m.dayOffset++
				m.refreshLists()
				return m, nil
			case key.Matches(msg, m.keys.Today):
				m.dayOffset = 0
				m.refreshLists()
				return m, nil
			case key.Matches(msg, m.keys.Grid):
				m.showGrid = !m.showGrid
				m.resize()
				return m, nil
			}
		}

	case fieldlist.AddFieldMsg:
		m.editingField = nil
		m.fieldForm = fieldFormFrom(nil)
		m.formError = ""
		m.form = NewFieldForm(m.fieldForm)
		m.previousState = m.state
		m.state = constants.StateAddField
		return m, m.form.Init()

	case fieldlist.EditFieldMsg:
		field := msg.Field
		m.editingField = &field
		m.fieldForm = fieldFormFrom(&field)
		m.formError = ""
		m.form = NewFieldForm(m.fieldForm)
		m.previousState = m.state
		m.state = constants.StateEditField
		return m, m.form.Init()

	case fieldlist.DeactivateFieldMsg:
		m.fieldToDeactivateID = msg.ID
		m.fieldToDeactivateName = msg.Name
		m.previousState = m.state
		m.state = constants.StateConfirmDeactivate
		return m, nil

	case bookinglist.AddBookingMsg:
		cmd := m.openBookingForm(nil)
		return m, cmd

	case bookinglist.EditBookingMsg:
		booking := msg.Booking
		cmd := m.openBookingForm(&booking)
		return m, cmd

	case bookinglist.DeleteBookingMsg:
		m.bookingToDeleteID = msg.ID
		m.bookingToDeleteClient = msg.Client
		m.previousState = m.state
		m.state = constants.StateConfirmDelete
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateFields:
		m.fieldList, cmd = m.fieldList.Update(msg)
	case constants.StateBookings:
		m.bookingList, cmd = m.bookingList.Update(msg)
	}
	return m, cmd
}

func (m Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Quit) {
			return m.quit()
		}
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.errMsg = ""
		m.form = nil
		m.pending++
		loginForm := validation.LoginForm{Email: m.loginForm.Email, Password: m.loginForm.Password}
		return m, tea.Batch(cmd, m.spinner.Tick, loginCmd(m.app, loginForm))
	case huh.StateAborted:
		return m.quit()
	}
	return m, cmd
}

func (m Model) updateFieldForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		var save tea.Cmd
		if m.editingField == nil {
			in, err := m.fieldForm.create(m.app.Validator)
			if err != nil {
				return m.retryForm(err, NewFieldForm(m.fieldForm))
			}
			save = createFieldCmd(m.app, in)
		} else {
			patch, err := m.fieldForm.patch(m.app.Validator, *m.editingField)
			if err != nil {
				return m.retryForm(err, NewFieldForm(m.fieldForm))
			}
			save = updateFieldCmd(m.app, m.editingField.ID, patch)
		}
		m.state = m.previousState
		m.formError = ""
		m.pending++
		return m, tea.Batch(cmd, m.spinner.Tick, save)
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

func (m Model) updateBookingForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		m.bookingForm = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		update, err := m.bookingForm.Submit(m.app.Validator)
		if err != nil {
			return m.retryForm(err, NewBookingForm(m.bookingForm, m.fieldNames()))
		}
		id := m.bookingForm.ID
		m.bookingForm = nil
		m.state = m.previousState
		m.formError = ""
		m.pending++
		return m, tea.Batch(cmd, m.spinner.Tick, saveBookingCmd(m.app, id, update))
	case huh.StateAborted:
		m.bookingForm = nil
		m.state = m.previousState
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		var cmd tea.Cmd
		if m.state == constants.StateConfirmDelete {
			cmd = deleteBookingCmd(m.app, m.bookingToDeleteID)
			m.bookingToDeleteID = ""
		} else {
			cmd = deactivateFieldCmd(m.app, m.fieldToDeactivateID)
			m.fieldToDeactivateID = ""
		}
		m.state = m.previousState
		m.pending++
		return m, tea.Batch(m.spinner.Tick, cmd)
	case key.Matches(keyMsg, m.keys.Cancel):
		m.bookingToDeleteID = ""
		m.fieldToDeactivateID = ""
		m.state = m.previousState
	}
	return m, nil
}

// retryForm keeps the user in the form with the validation message shown.
func (m Model) retryForm(err error, form *huh.Form) (tea.Model, tea.Cmd) {
	if errs, ok := validation.AsErrors(err); ok {
		m.formError = errs.Error()
	} else {
		m.formError = apperrors.Message(err, err.Error())
	}
	m.form = form
	return m, m.form.Init()
}

func (m *Model) showLogin(email string) tea.Cmd {
	m.state = constants.StateLogin
	m.loginForm = &LoginFormModel{Email: email}
	m.form = NewLoginForm(m.loginForm)
	return m.form.Init()
}

func (m *Model) openBookingForm(b *models.Booking) tea.Cmd {
	date, _ := m.selectedDay()
	m.bookingForm = newBookingForm(b, m.app.Schedules.Catalog(), date)
	m.formError = ""
	m.form = NewBookingForm(m.bookingForm, m.fieldNames())
	m.previousState = m.state
	m.state = constants.StateEditBooking
	return m.form.Init()
}

func (m *Model) load() tea.Cmd {
	m.pending++
	return tea.Batch(m.spinner.Tick, loadCmd(m.app))
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.cancelEvents != nil {
		m.cancelEvents()
	}
	return m, tea.Quit
}

func (m Model) selectedDay() (string, time.Time) {
	return grid.DateWithOffset(m.app.Now(), m.dayOffset)
}

func (m Model) fieldNames() []string {
	active := m.app.Fields.Active()
	names := make([]string, 0, len(active))
	for _, f := range active {
		names = append(names, f.Name)
	}
	return names
}

func (m *Model) refreshLists() {
	m.fieldList.SetFields(m.app.Fields.All())
	date, _ := m.selectedDay()
	m.bookingList.SetBookings(m.app.Bookings.ForDate(date))
	if errMsg := firstError(m.app); errMsg != "" && m.errMsg == "" {
		m.errMsg = errMsg
	}
}

// firstError surfaces a failure recorded by a store outside the TUI's own calls.
func firstError(app *cli.Context) string {
	for _, e := range []string{app.Fields.State().Error, app.Bookings.State().Error, app.Schedules.State().Error} {
		if e != "" {
			logger.Debug("Store error", "error", e)
			return e
		}
	}
	return ""
}

func (m *Model) resize() {
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	m.fieldList.SetSize(m.width-4, h)
	if m.showGrid {
		h = h / 3
		if h < 4 {
			h = 4
		}
	}
	m.bookingList.SetSize(m.width-4, h)
}

var tabs = []constants.SessionState{constants.StateDashboard, constants.StateFields, constants.StateBookings}

func nextTab(s constants.SessionState, step int) constants.SessionState {
	for i, t := range tabs {
		if t == s {
			return tabs[(i+step+len(tabs))%len(tabs)]
		}
	}
	return s
}

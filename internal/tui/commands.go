package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/b2p/b2p-admin/internal/cli"
	"github.com/b2p/b2p-admin/internal/models"
	"github.com/b2p/b2p-admin/internal/session"
	"github.com/b2p/b2p-admin/internal/validation"
)

type sessionRestoredMsg struct {
	user models.User
	err  error
}

type loggedInMsg struct {
	user models.User
	err  error
}

type dataLoadedMsg struct {
	src cli.Source
	err error
}

type fieldSavedMsg struct {
	field   models.Field
	created bool
	err     error
}

type fieldDeactivatedMsg struct {
	id  string
	err error
}

type bookingSavedMsg struct {
	booking models.Booking
	created bool
	err     error
}

type bookingDeletedMsg struct {
	id  string
	err error
}

type sessionEventMsg struct {
	event session.Event
	ok    bool
}

func restoreCmd(app *cli.Context) tea.Cmd {
	return func() tea.Msg {
		user, err := app.RequireSession()
		return sessionRestoredMsg{user: user, err: err}
	}
}

func loginCmd(app *cli.Context, form validation.LoginForm) tea.Cmd {
	return func() tea.Msg {
		user, err := app.Auth.Login(app.Context(), form)
		return loggedInMsg{user: user, err: err}
	}
}

// loadCmd refreshes every list. Bookings pull fields and schedules along.
func loadCmd(app *cli.Context) tea.Cmd {
	return func() tea.Msg {
		_, src, err := app.LoadBookings(false)
		if err == nil && src.Cached {
			_, _, _ = app.LoadSchedules(true)
		}
		return dataLoadedMsg{src: src, err: err}
	}
}

func createFieldCmd(app *cli.Context, in models.FieldInput) tea.Cmd {
	return func() tea.Msg {
		field, err := app.Fields.Create(app.Context(), in)
		return fieldSavedMsg{field: field, created: true, err: err}
	}
}

func updateFieldCmd(app *cli.Context, id string, patch models.FieldPatch) tea.Cmd {
	return func() tea.Msg {
		field, err := app.Fields.Update(app.Context(), id, patch)
		return fieldSavedMsg{field: field, err: err}
	}
}

func deactivateFieldCmd(app *cli.Context, id string) tea.Cmd {
	return func() tea.Msg {
		err := app.Fields.SoftDelete(app.Context(), id)
		return fieldDeactivatedMsg{id: id, err: err}
	}
}

func saveBookingCmd(app *cli.Context, id string, in models.BookingUpdate) tea.Cmd {
	return func() tea.Msg {
		ctx := app.Context()
		if id == "" {
			booking, err := app.Bookings.Create(ctx, in)
			return bookingSavedMsg{booking: booking, created: true, err: err}
		}
		booking, err := app.Bookings.Update(ctx, id, in)
		return bookingSavedMsg{booking: booking, err: err}
	}
}

func deleteBookingCmd(app *cli.Context, id string) tea.Cmd {
	return func() tea.Msg {
		err := app.Bookings.Delete(app.Context(), id)
		return bookingDeletedMsg{id: id, err: err}
	}
}

// waitForSession delivers the next session transition.
func waitForSession(ctx context.Context, events <-chan session.Event) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev, ok := <-events:
			return sessionEventMsg{event: ev, ok: ok}
		case <-ctx.Done():
			return sessionEventMsg{}
		}
	}
}

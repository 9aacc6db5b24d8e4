package bookings

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/b2p/b2p-admin/internal/cli"
	"github.com/b2p/b2p-admin/internal/constants"
	"github.com/b2p/b2p-admin/internal/models"
	"github.com/b2p/b2p-admin/internal/reconcile"
	"github.com/b2p/b2p-admin/internal/validation"
)

// FormFlags are the booking form members that can be given on the command line.
type FormFlags struct {
	Field       string `short:"f" help:"Field name."`
	Date        string `short:"d" help:"Booking date (YYYY-MM-DD or DD/MM/YYYY)."`
	Time        string `short:"t" help:"Start time of the slot (HH:MM)."`
	Client      string `short:"c" help:"Client name."`
	Tel         string `help:"Client phone."`
	Interactive bool   `short:"i" help:"Fill in the form interactively."`
}

func (f FormFlags) empty() bool {
	return f.Field == "" && f.Date == "" && f.Time == "" && f.Client == "" && f.Tel == ""
}

// draft is a booking form being filled in. The slot selection always goes
// through the reducer so it stays consistent with the field and the date.
type draft struct {
	state   reconcile.State
	details reconcile.Details
	status  constants.BookingStatus
}

func newDraft(booking *models.Booking, catalog []models.Schedule, today string) draft {
	d := draft{
		state:  reconcile.Reduce(reconcile.State{}, reconcile.Init{Booking: booking, Catalog: catalog, Today: today}),
		status: constants.StatusConfirmed,
	}
	if booking != nil {
		d.details = reconcile.Details{Client: booking.Client, Tel: booking.Tel}
		if booking.Status != "" {
			d.status = booking.Status
		}
	}
	return d
}

func (d draft) reduce(ev reconcile.Event) draft {
	d.state = reconcile.Reduce(d.state, ev)
	return d
}

// apply feeds the given flags to the reducer. A start time picks the slot of
// that time among the current options.
func (d draft) apply(f FormFlags) (draft, error) {
	if f.Field != "" {
		d = d.reduce(reconcile.FieldSelected{Name: strings.TrimSpace(f.Field)})
	}
	if f.Date != "" {
		d = d.reduce(reconcile.DateChanged{Date: normalizeDate(f.Date)})
	}
	if f.Time != "" {
		id := ""
		for _, slot := range d.state.Options {
			if slot.Time == f.Time {
				id = slot.ID
				break
			}
		}
		if id == "" {
			return d, fmt.Errorf("no hay un horario disponible a las %s para %s el %s", f.Time, d.state.FieldName, d.state.Day)
		}
		d = d.reduce(reconcile.ScheduleSelected{ID: id})
	}
	if f.Client != "" {
		d.details.Client = f.Client
	}
	if f.Tel != "" {
		d.details.Tel = f.Tel
	}
	return d, nil
}

// submit validates the draft and returns the body for the backend.
func (d draft) submit(v *validation.Validator) (models.BookingUpdate, error) {
	update, err := reconcile.Submit(d.state, d.details)
	if err != nil {
		return models.BookingUpdate{}, err
	}

	form, err := v.Booking(validation.BookingForm{
		Field:     d.state.FieldName,
		Client:    d.details.Client,
		Tel:       d.details.Tel,
		Date:      d.state.Date,
		StartTime: d.state.StartTime,
		EndTime:   d.state.EndTime,
		Status:    string(d.status),
	})
	if err != nil {
		return models.BookingUpdate{}, cli.ValidationError(err)
	}
	update.PlayerName = form.Client
	update.Tel = form.Tel
	return update, nil
}

// summary is the one-line description printed before sending.
func (d draft) summary() string {
	return fmt.Sprintf("%s · %s (%s) · %s-%s · %s", d.state.FieldName, d.state.Date, d.state.Day,
		d.state.StartTime, d.state.EndTime, d.details.Client)
}

// prompt asks for the form in two steps: field and date first, then the slot
// among the options they leave, and the client details.
func (d draft) prompt(fieldNames []string) (draft, error) {
	fieldName := d.state.FieldName
	date := d.state.Date

	fieldOptions := huh.NewOptions(reconcile.FieldOptions(fieldNames, fieldName)...)
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Cancha").
				Options(fieldOptions...).
				Value(&fieldName),
			huh.NewInput().
				Title("Fecha").
				Placeholder(constants.DateFormat).
				Value(&date),
		),
	).Run()
	if err != nil {
		return d, err
	}

	if fieldName != d.state.FieldName {
		d = d.reduce(reconcile.FieldSelected{Name: fieldName})
	}
	if date = normalizeDate(date); date != d.state.Date {
		d = d.reduce(reconcile.DateChanged{Date: date})
	}
	if len(d.state.Options) == 0 {
		return d, reconcile.ErrNoValidSchedule
	}

	scheduleID := d.state.ScheduleID
	slotOptions := make([]huh.Option[string], 0, len(d.state.Options))
	for _, slot := range d.state.Options {
		label := slot.Time + " - " + models.EndTime(slot.Time)
		slotOptions = append(slotOptions, huh.NewOption(label, slot.ID))
	}
	client, tel := d.details.Client, d.details.Tel

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("Horario (%s)", d.state.Day)).
				Options(slotOptions...).
				Value(&scheduleID),
			huh.NewInput().
				Title("Cliente").
				Value(&client),
			huh.NewInput().
				Title("Teléfono").
				Value(&tel),
		),
	).Run()
	if err != nil {
		return d, err
	}

	d = d.reduce(reconcile.ScheduleSelected{ID: scheduleID})
	d.details = reconcile.Details{Client: client, Tel: tel}
	return d, nil
}

// normalizeDate turns DD/MM/YYYY into YYYY-MM-DD. Anything else is returned
// trimmed and left to validation.
func normalizeDate(date string) string {
	date = strings.TrimSpace(date)
	if t, err := time.Parse(constants.SlashDateFormat, date); err == nil {
		return t.Format(constants.DateFormat)
	}
	return date
}

// load fetches what the form needs: fields for the selector, the schedule
// catalog for the slots, and the bookings for edits.
func load(ctx *cli.Context) ([]string, error) {
	if _, err := ctx.RequireSession(); err != nil {
		return nil, err
	}
	fields, err := ctx.Fields.Fetch(ctx.Context(), models.FieldFilter{})
	if err != nil {
		return nil, err
	}
	if _, err := ctx.Schedules.Fetch(ctx.Context()); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.IsActive {
			names = append(names, f.Name)
		}
	}
	return names, nil
}

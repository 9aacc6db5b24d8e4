package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/b2p/b2p-admin/internal/constants"
	"github.com/b2p/b2p-admin/internal/models"
	"github.com/b2p/b2p-admin/internal/reconcile"
	"github.com/b2p/b2p-admin/internal/validation"
)

type LoginFormModel struct {
	Email    string
	Password string
}

func NewLoginForm(f *LoginFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&f.Email),
			huh.NewInput().
				Title("Contraseña").
				EchoMode(huh.EchoModePassword).
				Value(&f.Password),
		).Title("B2-P · Panel de administración"),
	)
}

type FieldFormModel struct {
	Name        string
	Type        string
	Price       string
	Active      bool
	Description string
}

func fieldFormFrom(f *models.Field) *FieldFormModel {
	if f == nil {
		return &FieldFormModel{Type: string(constants.FieldType5), Active: true}
	}
	return &FieldFormModel{
		Name:        f.Name,
		Type:        string(f.Type),
		Price:       strconv.FormatFloat(f.PricePerHour, 'f', -1, 64),
		Active:      f.IsActive,
		Description: f.Description,
	}
}

func NewFieldForm(f *FieldFormModel) *huh.Form {
	types := make([]huh.Option[string], 0, len(constants.FieldTypes))
	for _, t := range constants.FieldTypes {
		types = append(types, huh.NewOption(string(t), string(t)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Nombre").
				Value(&f.Name),
			huh.NewSelect[string]().
				Title("Tipo").
				Options(types...).
				Value(&f.Type),
			huh.NewInput().
				Title("Precio por hora").
				Value(&f.Price),
			huh.NewConfirm().
				Title("Activa").
				Value(&f.Active),
			huh.NewText().
				Title("Descripción").
				Value(&f.Description),
		),
	)
}

func (f *FieldFormModel) price() (*float64, validation.Errors) {
	p, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(f.Price, ",", ".")), 64)
	if err != nil {
		return nil, validation.Errors{{Path: "pricePerHour", Message: "El precio debe ser un número"}}
	}
	return &p, nil
}

// create validates the form as a new field.
func (f *FieldFormModel) create(v *validation.Validator) (models.FieldInput, error) {
	price, errs := f.price()
	if errs != nil {
		return models.FieldInput{}, errs
	}
	active := f.Active
	return v.FieldCreate(validation.FieldForm{
		Name:         f.Name,
		Type:         f.Type,
		PricePerHour: price,
		IsActive:     &active,
		Description:  f.Description,
	})
}

// patch validates the members that differ from the original field.
func (f *FieldFormModel) patch(v *validation.Validator, orig models.Field) (models.FieldPatch, error) {
	var form validation.FieldUpdateForm
	if f.Name != orig.Name {
		form.Name = &f.Name
	}
	if f.Type != string(orig.Type) {
		form.Type = &f.Type
	}
	price, errs := f.price()
	if errs != nil {
		return models.FieldPatch{}, errs
	}
	if *price != orig.PricePerHour {
		form.PricePerHour = price
	}
	if f.Active != orig.IsActive {
		form.IsActive = &f.Active
	}
	if f.Description != orig.Description {
		form.Description = &f.Description
	}
	return v.FieldUpdate(form)
}

// BookingFormModel binds the huh form to the reconciled booking state. The
// slot options are recomputed through the reducer whenever the field or the
// date changes.
type BookingFormModel struct {
	ID    string
	State reconcile.State

	FieldName  string
	Date       string
	ScheduleID string
	Client     string
	Tel        string
	Status     constants.BookingStatus
}

func newBookingForm(b *models.Booking, catalog []models.Schedule, today string) *BookingFormModel {
	f := &BookingFormModel{
		State:  reconcile.Reduce(reconcile.State{}, reconcile.Init{Booking: b, Catalog: catalog, Today: today}),
		Status: constants.StatusConfirmed,
	}
	if b != nil {
		f.ID = b.ID
		f.Client = b.Client
		f.Tel = b.Tel
		if b.Status != "" {
			f.Status = b.Status
		}
	}
	f.pull()
	return f
}

// pull copies the reconciled selections into the bound form values.
func (f *BookingFormModel) pull() {
	f.FieldName = f.State.FieldName
	f.Date = f.State.Date
	f.ScheduleID = f.State.ScheduleID
}

// sync feeds edits of the bound values to the reducer.
func (f *BookingFormModel) sync() {
	if f.FieldName != f.State.FieldName {
		f.State = reconcile.Reduce(f.State, reconcile.FieldSelected{Name: f.FieldName})
	}
	if date := strings.TrimSpace(f.Date); date != f.State.Date {
		f.State = reconcile.Reduce(f.State, reconcile.DateChanged{Date: date})
	}
	if f.ScheduleID != "" && f.ScheduleID != f.State.ScheduleID {
		f.State = reconcile.Reduce(f.State, reconcile.ScheduleSelected{ID: f.ScheduleID})
	}
	f.ScheduleID = f.State.ScheduleID
}

// CatalogLoaded hands a freshly fetched catalog to the reducer.
func (f *BookingFormModel) CatalogLoaded(catalog []models.Schedule) {
	f.sync()
	f.State = reconcile.Reduce(f.State, reconcile.CatalogLoaded{Catalog: catalog})
	f.pull()
}

func (f *BookingFormModel) slotOptions() []huh.Option[string] {
	f.sync()
	if len(f.State.Options) == 0 {
		return []huh.Option[string]{huh.NewOption(reconcile.ErrNoValidSchedule.Error(), "")}
	}
	out := make([]huh.Option[string], 0, len(f.State.Options))
	for _, slot := range f.State.Options {
		out = append(out, huh.NewOption(slot.Time+" - "+models.EndTime(slot.Time), slot.ID))
	}
	return out
}

func (f *BookingFormModel) slotTitle() string {
	if f.State.DayFallback {
		return fmt.Sprintf("Horario (%s, fecha ilegible)", f.State.Day)
	}
	return fmt.Sprintf("Horario (%s)", f.State.Day)
}

// Submit validates the form and returns the backend body.
func (f *BookingFormModel) Submit(v *validation.Validator) (models.BookingUpdate, error) {
	f.sync()
	details := reconcile.Details{Client: f.Client, Tel: f.Tel}
	update, err := reconcile.Submit(f.State, details)
	if err != nil {
		return models.BookingUpdate{}, err
	}
	form, err := v.Booking(validation.BookingForm{
		Field:     f.State.FieldName,
		Client:    f.Client,
		Tel:       f.Tel,
		Date:      f.State.Date,
		StartTime: f.State.StartTime,
		EndTime:   f.State.EndTime,
		Status:    string(f.Status),
	})
	if err != nil {
		return models.BookingUpdate{}, err
	}
	update.PlayerName = form.Client
	update.Tel = form.Tel
	return update, nil
}

func NewBookingForm(f *BookingFormModel, fieldNames []string) *huh.Form {
	names := reconcile.FieldOptions(fieldNames, f.FieldName)
	slices.Sort(names)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Cancha").
				Options(huh.NewOptions(names...)...).
				Value(&f.FieldName),
			huh.NewInput().
				Title("Fecha").
				Placeholder(constants.DateFormat).
				Value(&f.Date),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				TitleFunc(f.slotTitle, f).
				OptionsFunc(f.slotOptions, f).
				Value(&f.ScheduleID),
			huh.NewInput().
				Title("Cliente").
				Value(&f.Client),
			huh.NewInput().
				Title("Teléfono").
				Value(&f.Tel),
		),
	)
}

package validation

import (
	"strings"

	"github.com/b2p/b2p-admin/internal/constants"
	"github.com/b2p/b2p-admin/internal/models"
)

type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type FieldForm struct {
	Name         string   `json:"name" validate:"required,min=3,max=100"`
	Type         string   `json:"type" validate:"required,fieldtype"`
	PricePerHour *float64 `json:"pricePerHour" validate:"required,gt=0,precision2"`
	IsActive     *bool    `json:"isActive" validate:"required"`
	Description  string   `json:"description" validate:"max=500"`
}

type FieldUpdateForm struct {
	Name         *string  `json:"name" validate:"omitnil,min=3,max=100"`
	Type         *string  `json:"type" validate:"omitnil,fieldtype"`
	PricePerHour *float64 `json:"pricePerHour" validate:"omitnil,gt=0,precision2"`
	IsActive     *bool    `json:"isActive"`
	Description  *string  `json:"description" validate:"omitnil,max=500"`
}

type BookingForm struct {
	Field     string `json:"field" validate:"required"`
	Client    string `json:"client" validate:"required,min=2,max=100"`
	Tel       string `json:"tel" validate:"max=30"`
	Date      string `json:"date" validate:"required,ymd"`
	StartTime string `json:"startTime" validate:"required,hhmm"`
	EndTime   string `json:"endTime" validate:"required,hhmm"`
	Status    string `json:"status" validate:"required,bookingstatus"`
}

// Login validates the login form. Nothing is sent anywhere on failure.
func (v *Validator) Login(in LoginForm) (models.LoginInput, error) {
	in.Email = strings.TrimSpace(in.Email)
	if errs := v.check(&in, nil); len(errs) > 0 {
		return models.LoginInput{}, errs
	}
	return models.LoginInput{Email: in.Email, Password: in.Password}, nil
}

// FieldCreate validates a new field and returns the sanitized body.
func (v *Validator) FieldCreate(in FieldForm) (models.FieldInput, error) {
	return v.fieldCreate(in, nil)
}

func (v *Validator) fieldCreate(in FieldForm, pre Errors) (models.FieldInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if errs := v.check(&in, pre); len(errs) > 0 {
		return models.FieldInput{}, errs
	}
	return models.FieldInput{
		Name:         in.Name,
		Type:         constants.FieldType(in.Type),
		PricePerHour: *in.PricePerHour,
		IsActive:     *in.IsActive,
		Description:  in.Description,
	}, nil
}

// FieldUpdate validates a partial update. At least one member must be set.
func (v *Validator) FieldUpdate(in FieldUpdateForm) (models.FieldPatch, error) {
	return v.fieldUpdate(in, nil)
}

func (v *Validator) fieldUpdate(in FieldUpdateForm, pre Errors) (models.FieldPatch, error) {
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
	}
	if in.Description != nil {
		trimmed := strings.TrimSpace(*in.Description)
		in.Description = &trimmed
	}

	errs := v.check(&in, pre)
	patch := models.FieldPatch{
		Name:         in.Name,
		PricePerHour: in.PricePerHour,
		IsActive:     in.IsActive,
		Description:  in.Description,
	}
	if in.Type != nil {
		t := constants.FieldType(*in.Type)
		patch.Type = &t
	}
	if patch.Empty() && len(pre) == 0 {
		errs = append(errs, FieldError{Message: message("", "min1")})
	}
	if len(errs) > 0 {
		return models.FieldPatch{}, errs
	}
	return patch, nil
}

// Booking validates the booking form and returns it trimmed.
func (v *Validator) Booking(in BookingForm) (BookingForm, error) {
	return v.booking(in, nil)
}

func (v *Validator) booking(in BookingForm, pre Errors) (BookingForm, error) {
	in.Field = strings.TrimSpace(in.Field)
	in.Client = strings.TrimSpace(in.Client)
	in.Tel = strings.TrimSpace(in.Tel)
	if errs := v.check(&in, pre); len(errs) > 0 {
		return BookingForm{}, errs
	}
	return in, nil
}

// DecodeFieldCreate validates a loosely-typed field payload. Unknown keys are dropped.
func (v *Validator) DecodeFieldCreate(raw map[string]any) (models.FieldInput, error) {
	var form FieldForm
	pre := decode(raw, &form)
	return v.fieldCreate(form, pre)
}

// DecodeFieldUpdate validates a loosely-typed partial update. Unknown keys are dropped.
func (v *Validator) DecodeFieldUpdate(raw map[string]any) (models.FieldPatch, error) {
	var form FieldUpdateForm
	pre := decode(raw, &form)
	return v.fieldUpdate(form, pre)
}

// DecodeBooking validates a loosely-typed booking payload. Unknown keys are dropped.
func (v *Validator) DecodeBooking(raw map[string]any) (BookingForm, error) {
	var form BookingForm
	pre := decode(raw, &form)
	return v.booking(form, pre)
}

package fields

import (
	"fmt"

	"github.com/b2p/b2p-admin/internal/cli"
	"github.com/b2p/b2p-admin/internal/validation"
)

// UpdateCmd sends only the flags that were given.
type UpdateCmd struct {
	ID          string  `arg:"" help:"Field ID."`
	Name        string  `short:"n" help:"New name."`
	Type        string  `short:"t" help:"New type (CANCHA 5|CANCHA 7|CANCHA 11|PADEL)."`
	Price       float64 `short:"p" help:"New price per hour."`
	Status      string  `short:"s" help:"New status (active|inactive)."`
	Description string  `short:"d" help:"New description."`
}

func (c *UpdateCmd) Validate() error {
	if c.Status != "" && c.Status != "active" && c.Status != "inactive" {
		return fmt.Errorf("status must be active or inactive, got %q", c.Status)
	}
	return nil
}

func (c *UpdateCmd) form() validation.FieldUpdateForm {
	var form validation.FieldUpdateForm
	if c.Name != "" {
		form.Name = &c.Name
	}
	if c.Type != "" {
		form.Type = &c.Type
	}
	if c.Price != 0 {
		form.PricePerHour = &c.Price
	}
	if c.Status != "" {
		active := c.Status == "active"
		form.IsActive = &active
	}
	if c.Description != "" {
		form.Description = &c.Description
	}
	return form
}

func (c *UpdateCmd) Run(ctx *cli.Context) error {
	patch, err := ctx.Validator.FieldUpdate(c.form())
	if err != nil {
		return cli.ValidationError(err)
	}

	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	field, err := ctx.Fields.Update(ctx.Context(), c.ID, patch)
	if err != nil {
		return err
	}

	ctx.Printf("✓ Cancha actualizada: %s (ID: %s)\n", field.Name, field.ID)
	return nil
}

package models

import (
	"encoding/json"
	"time"

	"github.com/b2p/b2p-admin/internal/constants"
)

// Field is a physical playing surface offered for hourly rental.
type Field struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Type         constants.FieldType `json:"type"`
	PricePerHour float64             `json:"pricePerHour"`
	IsActive     bool                `json:"isActive"`
	Description  string              `json:"description,omitempty"`
	CreatedAt    *time.Time          `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time          `json:"updatedAt,omitempty"`
}

func (f *Field) Identifier() string {
	return f.ID
}

// UnmarshalJSON accepts both "id" and the document store "_id".
func (f *Field) UnmarshalJSON(data []byte) error {
	type alias Field
	var wire struct {
		alias
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*f = Field(wire.alias)
	if f.ID == "" {
		f.ID = wire.MongoID
	}
	return nil
}

// FieldFilter narrows GET /fields.
type FieldFilter struct {
	Name string
	Type constants.FieldType
}

// FieldInput is the sanitized body of a field creation.
type FieldInput struct {
	Name         string              `json:"name"`
	Type         constants.FieldType `json:"type"`
	PricePerHour float64             `json:"pricePerHour"`
	IsActive     bool                `json:"isActive"`
	Description  string              `json:"description,omitempty"`
}

// FieldPatch is a partial field update. Nil members are left untouched.
type FieldPatch struct {
	Name         *string              `json:"name,omitempty"`
	Type         *constants.FieldType `json:"type,omitempty"`
	PricePerHour *float64             `json:"pricePerHour,omitempty"`
	IsActive     *bool                `json:"isActive,omitempty"`
	Description  *string              `json:"description,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p FieldPatch) Empty() bool {
	return p.Name == nil && p.Type == nil && p.PricePerHour == nil && p.IsActive == nil && p.Description == nil
}

// Apply returns a copy of f with the patch applied.
func (p FieldPatch) Apply(f Field) Field {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Type != nil {
		f.Type = *p.Type
	}
	if p.PricePerHour != nil {
		f.PricePerHour = *p.PricePerHour
	}
	if p.IsActive != nil {
		f.IsActive = *p.IsActive
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	return f
}

// FieldStats counts fields per type.
type FieldStats struct {
	Total    int
	Active   int
	Inactive int
	ByType   map[constants.FieldType]int
}

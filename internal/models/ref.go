package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Identifiable is implemented by embedded objects that carry their own id.
type Identifiable interface {
	Identifier() string
}

// Ref is a reference the backend sends either as a bare identifier string
// or as the expanded object. Both forms decode into the same value; Expanded
// is nil for the bare form.
type Ref[T any] struct {
	ID       string
	Expanded *T
}

// RefTo builds an unexpanded reference.
func RefTo[T any](id string) Ref[T] {
	return Ref[T]{ID: id}
}

// Expand builds a reference holding the full object.
func Expand[T any](v T) Ref[T] {
	r := Ref[T]{Expanded: &v}
	if idr, ok := any(&v).(Identifiable); ok {
		r.ID = idr.Identifier()
	}
	return r
}

// IsExpanded reports whether the reference carries the full object.
func (r Ref[T]) IsExpanded() bool {
	return r.Expanded != nil
}

// IsZero reports whether the reference is absent.
func (r Ref[T]) IsZero() bool {
	return r.ID == "" && r.Expanded == nil
}

func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = Ref[T]{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}

	if data[0] != '{' {
		return fmt.Errorf("reference must be a string or an object, got %s", data)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("failed to decode expanded reference: %w", err)
	}
	*r = Expand(v)
	return nil
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Expanded != nil {
		return json.Marshal(r.Expanded)
	}
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

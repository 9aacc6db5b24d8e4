package models

import "encoding/json"

// FieldSummary is the expanded field reference nested in schedules and bookings.
type FieldSummary struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

func (f *FieldSummary) Identifier() string {
	return f.ID
}

// Schedule is one bookable hour on one field on one weekday.
type Schedule struct {
	ID        string            `json:"_id"`
	Field     Ref[FieldSummary] `json:"field"`
	Day       string            `json:"day"`
	Time      string            `json:"time"`
	Available bool              `json:"available"`
}

func (s *Schedule) Identifier() string {
	return s.ID
}

// FieldName returns the owning field name when the reference is expanded.
func (s Schedule) FieldName() string {
	if s.Field.Expanded != nil {
		return s.Field.Expanded.Name
	}
	return ""
}

// UnmarshalJSON accepts both "_id" and "id".
func (s *Schedule) UnmarshalJSON(data []byte) error {
	type alias Schedule
	var wire struct {
		alias
		PlainID string `json:"id"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*s = Schedule(wire.alias)
	if s.ID == "" {
		s.ID = wire.PlainID
	}
	return nil
}

// ScheduleSummary is the expanded schedule reference nested in bookings.
type ScheduleSummary struct {
	ID   string `json:"_id"`
	Day  string `json:"day"`
	Time string `json:"time"`
}

func (s *ScheduleSummary) Identifier() string {
	return s.ID
}

// BulkSchedules is the body of POST /schedules/bulk.
type BulkSchedules struct {
	FieldID string   `json:"fieldId"`
	Days    []string `json:"days"`
	Times   []string `json:"times"`
}

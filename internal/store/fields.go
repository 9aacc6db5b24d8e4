package store

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/b2p/b2p-admin/internal/constants"
	"github.com/b2p/b2p-admin/internal/logger"
	"github.com/b2p/b2p-admin/internal/models"
)

// FieldAPI is the part of the backend client the field store needs.
type FieldAPI interface {
	ListFields(ctx context.Context, filter models.FieldFilter) ([]models.Field, error)
	CreateField(ctx context.Context, in models.FieldInput) (models.Field, error)
	UpdateField(ctx context.Context, id string, patch models.FieldPatch) (models.Field, error)
	SoftDeleteField(ctx context.Context, id string) error
	BulkCreateSchedules(ctx context.Context, in models.BulkSchedules) error
}

type FieldStore struct {
	*Container[models.Field]
	api  FieldAPI
	snap Snapshotter
	log  *log.Logger
}

func NewFieldStore(api FieldAPI, snap Snapshotter) *FieldStore {
	return &FieldStore{
		Container: NewContainer[models.Field]("fields"),
		api:       api,
		snap:      snap,
		log:       logger.Named("store/fields"),
	}
}

func fieldID(f models.Field) string { return f.ID }

// Fetch replaces the list with the backend's. Only unfiltered lists are
// written to the snapshot.
func (s *FieldStore) Fetch(ctx context.Context, filter models.FieldFilter) ([]models.Field, error) {
	ticket := s.begin("fetch")
	fields, err := s.api.ListFields(ctx, filter)
	applied := s.finish("fetch", ticket, err, constants.MsgFetchFields, func([]models.Field) []models.Field {
		return fields
	})
	if err != nil {
		return nil, err
	}
	if applied && s.snap != nil && filter == (models.FieldFilter{}) {
		if err := s.snap.SaveFields(fields); err != nil {
			s.log.Warn("failed to snapshot fields", "err", err)
		}
	}
	return fields, nil
}

// Create adds a field and then seeds its weekly schedule. A failure seeding
// the schedule is logged and does not undo the field.
func (s *FieldStore) Create(ctx context.Context, in models.FieldInput) (models.Field, error) {
	ticket := s.begin("")
	field, err := s.api.CreateField(ctx, in)
	s.finish("", ticket, err, constants.MsgCreateField, func(items []models.Field) []models.Field {
		return append(items, field)
	})
	if err != nil {
		return models.Field{}, err
	}

	bulk := models.BulkSchedules{
		FieldID: field.ID,
		Days:    slices.Clone(constants.Days),
		Times:   constants.SlotTimes(),
	}
	if err := s.api.BulkCreateSchedules(ctx, bulk); err != nil {
		s.log.Warn("field created but schedule seeding failed", "field", field.ID, "err", err)
	} else {
		s.log.Info("seeded schedules", "field", field.ID, "slots", len(bulk.Days)*len(bulk.Times))
	}
	return field, nil
}

func (s *FieldStore) Update(ctx context.Context, id string, patch models.FieldPatch) (models.Field, error) {
	key := "update:" + id
	ticket := s.begin(key)
	field, err := s.api.UpdateField(ctx, id, patch)
	s.finish(key, ticket, err, constants.MsgUpdateField, func(items []models.Field) []models.Field {
		return replaceByID(items, id, fieldID, field)
	})
	if err != nil {
		return models.Field{}, err
	}
	return field, nil
}

// SoftDelete deactivates a field. The entry stays in the list, flagged inactive.
func (s *FieldStore) SoftDelete(ctx context.Context, id string) error {
	key := "delete:" + id
	ticket := s.begin(key)
	err := s.api.SoftDeleteField(ctx, id)
	s.finish(key, ticket, err, constants.MsgDeleteField, func(items []models.Field) []models.Field {
		for i := range items {
			if items[i].ID == id {
				items[i].IsActive = false
			}
		}
		return items
	})
	return err
}

func (s *FieldStore) All() []models.Field {
	return s.Items()
}

func (s *FieldStore) Active() []models.Field {
	return filterFields(s.Items(), func(f models.Field) bool { return f.IsActive })
}

func (s *FieldStore) Inactive() []models.Field {
	return filterFields(s.Items(), func(f models.Field) bool { return !f.IsActive })
}

func (s *FieldStore) ByType(t constants.FieldType) []models.Field {
	return filterFields(s.Items(), func(f models.Field) bool { return f.Type == t })
}

// Find looks a field up by id.
func (s *FieldStore) Find(id string) (models.Field, bool) {
	for _, f := range s.Items() {
		if f.ID == id {
			return f, true
		}
	}
	return models.Field{}, false
}

func (s *FieldStore) Stats() models.FieldStats {
	return FieldStats(s.Items())
}

// FieldStats counts fields by activity and type.
func FieldStats(fields []models.Field) models.FieldStats {
	stats := models.FieldStats{ByType: make(map[constants.FieldType]int)}
	for _, f := range fields {
		stats.Total++
		if f.IsActive {
			stats.Active++
		} else {
			stats.Inactive++
		}
		stats.ByType[f.Type]++
	}
	return stats
}

func filterFields(fields []models.Field, keep func(models.Field) bool) []models.Field {
	out := make([]models.Field, 0, len(fields))
	for _, f := range fields {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

package store

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/b2p/b2p-admin/internal/constants"
	"github.com/b2p/b2p-admin/internal/logger"
	"github.com/b2p/b2p-admin/internal/models"
)

type ScheduleAPI interface {
	ListSchedules(ctx context.Context) ([]models.Schedule, error)
}

// ScheduleStore holds the slot catalog. It is read-only from this client.
type ScheduleStore struct {
	*Container[models.Schedule]
	api  ScheduleAPI
	snap Snapshotter
	log  *log.Logger
}

func NewScheduleStore(api ScheduleAPI, snap Snapshotter) *ScheduleStore {
	return &ScheduleStore{
		Container: NewContainer[models.Schedule]("schedules"),
		api:       api,
		snap:      snap,
		log:       logger.Named("store/schedules"),
	}
}

func (s *ScheduleStore) Fetch(ctx context.Context) ([]models.Schedule, error) {
	ticket := s.begin("fetch")
	schedules, err := s.api.ListSchedules(ctx)
	applied := s.finish("fetch", ticket, err, constants.MsgFetchSchedules, func([]models.Schedule) []models.Schedule {
		return schedules
	})
	if err != nil {
		return nil, err
	}
	if applied && s.snap != nil {
		if err := s.snap.SaveSchedules(schedules); err != nil {
			s.log.Warn("failed to snapshot schedules", "err", err)
		}
	}
	return schedules, nil
}

func (s *ScheduleStore) Catalog() []models.Schedule {
	return s.Items()
}

// ForField returns the slots of one field, optionally narrowed to a weekday.
func (s *ScheduleStore) ForField(name, day string) []models.Schedule {
	var out []models.Schedule
	for _, sc := range s.Items() {
		if name != "" && sc.FieldName() != name {
			continue
		}
		if day != "" && sc.Day != day {
			continue
		}
		out = append(out, sc)
	}
	return out
}

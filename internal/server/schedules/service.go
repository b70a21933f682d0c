package schedules

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophcal/internal/logging"
	"github.com/dmitrijs2005/gophcal/internal/server/events"
)

// Event types published after a successful mutation.
const (
	EventAdded   = "schedule.added"
	EventDeleted = "schedule.deleted"
)

type Event struct {
	Type     string    `json:"type"`
	Schedule Schedule  `json:"schedule"`
	At       time.Time `json:"at"`
}

// EventKey is the broker key for an event, e.g. schedule-added-7.
func EventKey(action string, id int) string {
	return fmt.Sprintf("schedule-%s-%d", action, id)
}

type Service struct {
	repo      Repository
	publisher events.Publisher
	logger    logging.Logger
	now       func() time.Time
}

func NewService(repo Repository, publisher events.Publisher, logger logging.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With("module", "schedules_service"),
		now:       time.Now,
	}
}

// Add creates a schedule owned by ownerID.
func (s *Service) Add(ctx context.Context, ownerID int, title, date string) (*Schedule, error) {
	sc, err := s.repo.Create(ctx, Schedule{UserID: ownerID, Title: title, Date: date})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventAdded, "added", *sc)
	return sc, nil
}

// List returns the caller's own schedules.
func (s *Service) List(ctx context.Context, ownerID int) ([]Schedule, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// FriendSchedules returns any user's schedules. There is no relationship
// check; knowing the id is enough.
func (s *Service) FriendSchedules(ctx context.Context, friendID int) ([]Schedule, error) {
	return s.repo.ListByOwner(ctx, friendID)
}

// Delete removes the schedule if requesterID owns it.
func (s *Service) Delete(ctx context.Context, id, requesterID int) error {
	sc, err := s.repo.Delete(ctx, id, requesterID)
	if err != nil {
		return err
	}

	s.publish(ctx, EventDeleted, "deleted", *sc)
	return nil
}

func (s *Service) publish(ctx context.Context, eventType, action string, sc Schedule) {
	evt := Event{Type: eventType, Schedule: sc, At: s.now().UTC().Truncate(time.Second)}

	if err := s.publisher.Publish(ctx, EventKey(action, sc.ID), evt); err != nil {
		s.logger.Warn(ctx, "event publish failed", "type", eventType, "schedule_id", sc.ID, "error", err)
	}
}

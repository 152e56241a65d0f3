package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/huddleapp/huddle/internal/apperror"
	"github.com/huddleapp/huddle/internal/model"
	"github.com/huddleapp/huddle/internal/repository"
)

// EventService owns events and their attachment to groups.
type EventService struct {
	events repository.EventRepository
	groups repository.GroupRepository
	logger *slog.Logger
}

// NewEventService creates an EventService.
func NewEventService(events repository.EventRepository, groups repository.GroupRepository, logger *slog.Logger) *EventService {
	return &EventService{events: events, groups: groups, logger: logger}
}

// Create validates and persists a new event, attaching it to its group.
//
// The write is two-phase: insert the event, then push its ID onto the
// group's eventIDs. If the push fails, the just-inserted event is deleted
// again so no event ever persists without its group referencing it.
func (s *EventService) Create(ctx context.Context, event model.Event) (*model.Event, error) {
	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" {
		return nil, apperror.ValidationFailed("title", "Event title is required!")
	}
	if event.Group == "" {
		return nil, apperror.ValidationFailed("group", "Event group is required!")
	}
	if event.Date.IsZero() {
		return nil, apperror.ValidationFailed("date", "Event date is required!")
	}
	if !event.Repeat.Valid() {
		return nil, apperror.ValidationFailed("repeat", "Unrecognised repeat value!")
	}

	group, err := s.groups.GetByName(ctx, event.Group)
	if err != nil {
		return nil, err
	}

	if err := s.events.Create(ctx, &event); err != nil {
		return nil, fmt.Errorf("service/event: creating event %q: %w", event.Title, err)
	}

	if err := s.groups.PushEventID(ctx, group.ID, event.ID); err != nil {
		// Compensate: without the group reference the event would violate
		// the integrity invariant, so take it back out.
		if delErr := s.events.Delete(ctx, event.ID); delErr != nil {
			s.logger.Error("failed to roll back detached event",
				slog.String("eventID", event.ID),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, fmt.Errorf("service/event: attaching event %s to group %q: %w", event.ID, event.Group, err)
	}

	s.logger.Info("event created",
		slog.String("id", event.ID),
		slog.String("title", event.Title),
		slog.String("group", event.Group),
		slog.String("repeat", string(event.Repeat)),
	)

	return &event, nil
}

// Get returns an event by ID.
func (s *EventService) Get(ctx context.Context, eventID string) (*model.Event, error) {
	return s.events.GetByID(ctx, eventID)
}

// List returns all events; empty is NotFound, matching the API's
// historical behaviour.
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/event: listing events: %w", err)
	}
	if len(events) == 0 {
		return nil, apperror.NotFound("There are no events!")
	}
	return events, nil
}

// ListForUser returns every event the user is invited to.
func (s *EventService) ListForUser(ctx context.Context, username string) ([]model.Event, error) {
	events, err := s.events.ListForUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("service/event: listing events for %q: %w", username, err)
	}
	if len(events) == 0 {
		return nil, apperror.NotFound("This user has no events!")
	}
	return events, nil
}

// ListForGroup returns every event tied to the named group.
func (s *EventService) ListForGroup(ctx context.Context, groupName string) ([]model.Event, error) {
	events, err := s.events.ListForGroup(ctx, groupName)
	if err != nil {
		return nil, fmt.Errorf("service/event: listing events for group %q: %w", groupName, err)
	}
	if len(events) == 0 {
		return nil, apperror.NotFound("There are no events for this group!")
	}
	return events, nil
}

// UpdateEventParams carries the mutable event fields. Zero values mean
// "leave unchanged". The group reference is not patchable — group
// attachment changes only through delete and re-create.
type UpdateEventParams struct {
	Title    string
	Date     time.Time
	Repeat   model.Repeat
	Location string
}

// Update applies the patch and returns the updated event. Repeat values
// are validated here as on create, so unrecognised policies never reach
// the recurrence engine through the API.
func (s *EventService) Update(ctx context.Context, eventID string, params UpdateEventParams) (*model.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(params.Title); title != "" {
		event.Title = title
	}
	if !params.Date.IsZero() {
		event.Date = params.Date
	}
	if params.Repeat != "" {
		if !params.Repeat.Valid() {
			return nil, apperror.ValidationFailed("repeat", "Unrecognised repeat value!")
		}
		event.Repeat = params.Repeat
	}
	if params.Location != "" {
		event.Location = params.Location
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("event updated", slog.String("id", event.ID), slog.String("title", event.Title))

	return event, nil
}

// Delete detaches the event from its group and removes it. The group is
// resolved by name equality against the event's denormalized group field —
// if that reference is stale the whole operation fails with NotFound.
func (s *EventService) Delete(ctx context.Context, eventID string) error {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	if err := s.groups.PullEventIDByName(ctx, event.Group, eventID); err != nil {
		return err
	}

	if err := s.events.Delete(ctx, eventID); err != nil {
		return err
	}

	s.logger.Info("event deleted",
		slog.String("id", eventID),
		slog.String("title", event.Title),
		slog.String("group", event.Group),
	)

	return nil
}

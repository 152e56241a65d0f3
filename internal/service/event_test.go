package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/huddleapp/huddle/internal/apperror"
	"github.com/huddleapp/huddle/internal/model"
)

func newTestEventService(t *testing.T) (*EventService, *mockGroupRepo, *mockEventRepo) {
	t.Helper()
	groups := newMockGroupRepo()
	events := newMockEventRepo()
	svc := NewEventService(events, groups, testLogger())
	return svc, groups, events
}

func seedGroup(t *testing.T, groups *mockGroupRepo, name string) *model.Group {
	t.Helper()
	group := &model.Group{
		Name:    name,
		Owner:   "alice",
		Members: []model.Member{{Username: "alice", Rank: model.RankOwner}},
	}
	if err := groups.Create(context.Background(), group); err != nil {
		t.Fatalf("setup: creating group: %v", err)
	}
	return group
}

func validEvent(groupName string) model.Event {
	return model.Event{
		Title:  "dinner",
		Group:  groupName,
		Owner:  "alice",
		Date:   time.Date(2026, time.October, 1, 19, 0, 0, 0, time.UTC),
		Repeat: model.RepeatNever,
	}
}

func TestEventCreate_AttachesToGroup(t *testing.T) {
	svc, groups, _ := newTestEventService(t)
	group := seedGroup(t, groups, "dinner club")

	event, err := svc.Create(context.Background(), validEvent(group.Name))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if event.ID == "" {
		t.Fatal("expected event to have an ID")
	}

	reloaded, err := groups.GetByID(context.Background(), group.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(reloaded.EventIDs) != 1 || reloaded.EventIDs[0] != event.ID {
		t.Errorf("EventIDs = %v, want [%s]", reloaded.EventIDs, event.ID)
	}
}

func TestEventCreate_UnknownGroup(t *testing.T) {
	svc, _, _ := newTestEventService(t)

	_, err := svc.Create(context.Background(), validEvent("no such group"))
	if err == nil {
		t.Fatal("Create() should error on unknown group")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestEventCreate_InvalidRepeat(t *testing.T) {
	svc, groups, _ := newTestEventService(t)
	group := seedGroup(t, groups, "dinner club")

	event := validEvent(group.Name)
	event.Repeat = model.Repeat("fortnightly")

	_, err := svc.Create(context.Background(), event)
	if err == nil {
		t.Fatal("Create() should error on unrecognised repeat")
	}
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestEventCreate_MissingDate(t *testing.T) {
	svc, groups, _ := newTestEventService(t)
	group := seedGroup(t, groups, "dinner club")

	event := validEvent(group.Name)
	event.Date = time.Time{}

	_, err := svc.Create(context.Background(), event)
	if err == nil {
		t.Fatal("Create() should error on missing date")
	}
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestEventCreate_RollsBackWhenAttachFails(t *testing.T) {
	svc, groups, events := newTestEventService(t)
	group := seedGroup(t, groups, "dinner club")

	groups.errPushEventID = errors.New("store unavailable")

	_, err := svc.Create(context.Background(), validEvent(group.Name))
	if err == nil {
		t.Fatal("Create() should fail when the group attach fails")
	}

	// The inserted event must have been compensated away.
	all, listErr := events.List(context.Background())
	if listErr != nil {
		t.Fatalf("List() error = %v", listErr)
	}
	if len(all) != 0 {
		t.Errorf("store holds %d events after failed create, want 0", len(all))
	}
}

func TestEventList_Empty(t *testing.T) {
	svc, _, _ := newTestEventService(t)

	_, err := svc.List(context.Background())
	if err == nil {
		t.Fatal("List() should error when there are no events")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestEventListForUser_Empty(t *testing.T) {
	svc, _, _ := newTestEventService(t)

	_, err := svc.ListForUser(context.Background(), "alice")
	if err == nil {
		t.Fatal("ListForUser() should error when the user has no events")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestEventListForGroup(t *testing.T) {
	svc, groups, _ := newTestEventService(t)
	group := seedGroup(t, groups, "dinner club")
	other := seedGroup(t, groups, "book club")

	if _, err := svc.Create(context.Background(), validEvent(group.Name)); err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}
	if _, err := svc.Create(context.Background(), validEvent(group.Name)); err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	listed, err := svc.ListForGroup(context.Background(), group.Name)
	if err != nil {
		t.Fatalf("ListForGroup() error = %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("ListForGroup() returned %d events, want 2", len(listed))
	}

	if _, err := svc.ListForGroup(context.Background(), other.Name); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("ListForGroup() for empty group: error = %v, want ErrNotFound", err)
	}
}

func TestEventUpdate_InvalidRepeat(t *testing.T) {
	svc, groups, _ := newTestEventService(t)
	group := seedGroup(t, groups, "dinner club")

	event, err := svc.Create(context.Background(), validEvent(group.Name))
	if err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	_, err = svc.Update(context.Background(), event.ID, UpdateEventParams{Repeat: model.Repeat("sometimes")})
	if err == nil {
		t.Fatal("Update() should error on unrecognised repeat")
	}
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestEventUpdate_PatchesFields(t *testing.T) {
	svc, groups, _ := newTestEventService(t)
	group := seedGroup(t, groups, "dinner club")

	event, err := svc.Create(context.Background(), validEvent(group.Name))
	if err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	newDate := event.Date.Add(48 * time.Hour)
	updated, err := svc.Update(context.Background(), event.ID, UpdateEventParams{
		Title:  "brunch",
		Date:   newDate,
		Repeat: model.RepeatWeekly,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Title != "brunch" {
		t.Errorf("Title = %q, want %q", updated.Title, "brunch")
	}
	if !updated.Date.Equal(newDate) {
		t.Errorf("Date = %v, want %v", updated.Date, newDate)
	}
	if updated.Repeat != model.RepeatWeekly {
		t.Errorf("Repeat = %q, want %q", updated.Repeat, model.RepeatWeekly)
	}
	if updated.Group != group.Name {
		t.Errorf("Group = %q, want unchanged %q", updated.Group, group.Name)
	}
}

func TestEventDelete_DetachesFromGroup(t *testing.T) {
	svc, groups, events := newTestEventService(t)
	group := seedGroup(t, groups, "dinner club")

	event, err := svc.Create(context.Background(), validEvent(group.Name))
	if err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	if err := svc.Delete(context.Background(), event.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := events.GetByID(context.Background(), event.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("event lookup after delete: error = %v, want ErrNotFound", err)
	}

	reloaded, err := groups.GetByID(context.Background(), group.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(reloaded.EventIDs) != 0 {
		t.Errorf("EventIDs = %v, want empty after delete", reloaded.EventIDs)
	}
}

func TestEventDelete_NotFound(t *testing.T) {
	svc, _, _ := newTestEventService(t)

	err := svc.Delete(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

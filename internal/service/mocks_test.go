package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/huddleapp/huddle/internal/apperror"
	"github.com/huddleapp/huddle/internal/model"
	"github.com/huddleapp/huddle/internal/repository"
)

// In-memory mock repositories. Same interfaces as the mongodb package, no
// store required. Each mock stores copies so tests can't be tripped up by
// shared pointers, and exposes err* hooks to simulate store failures.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ---------------------------------------------------------------------------
// users

type mockUserRepo struct {
	users  map[string]*model.User // keyed by username
	nextID int
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	stored := *user
	m.users[user.AccountData.Username] = &stored
	return nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	user, ok := m.users[username]
	if !ok {
		return nil, apperror.NotFound("User not found!")
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, nil
}

func (m *mockUserRepo) UpdatePerson(_ context.Context, username string, person model.PersonData) error {
	user, ok := m.users[username]
	if !ok {
		return apperror.NotFound("User not found!")
	}
	user.PersonData = person
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, username, passwordHash string) error {
	user, ok := m.users[username]
	if !ok {
		return apperror.NotFound("User not found!")
	}
	user.AccountData.Password = passwordHash
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, username string) error {
	if _, ok := m.users[username]; !ok {
		return apperror.NotFound("User not found!")
	}
	delete(m.users, username)
	return nil
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.AccountData.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := m.users[username]
	return ok, nil
}

// ---------------------------------------------------------------------------
// groups

type mockGroupRepo struct {
	groups map[string]*model.Group // keyed by ID
	nextID int

	errPushEventID error // returned by PushEventID when set
}

var _ repository.GroupRepository = (*mockGroupRepo)(nil)

func newMockGroupRepo() *mockGroupRepo {
	return &mockGroupRepo{groups: make(map[string]*model.Group)}
}

func (m *mockGroupRepo) Create(_ context.Context, group *model.Group) error {
	m.nextID++
	group.ID = fmt.Sprintf("group-%d", m.nextID)
	if group.EventIDs == nil {
		group.EventIDs = []string{}
	}
	if group.Members == nil {
		group.Members = []model.Member{}
	}
	stored := *group
	m.groups[group.ID] = &stored
	return nil
}

func (m *mockGroupRepo) GetByID(_ context.Context, id string) (*model.Group, error) {
	group, ok := m.groups[id]
	if !ok {
		return nil, apperror.NotFound("Group not found")
	}
	result := copyGroup(group)
	return &result, nil
}

func (m *mockGroupRepo) GetByName(_ context.Context, name string) (*model.Group, error) {
	for _, g := range m.groups {
		if g.Name == name {
			result := copyGroup(g)
			return &result, nil
		}
	}
	return nil, apperror.NotFound("Group not found")
}

func (m *mockGroupRepo) List(_ context.Context) ([]model.Group, error) {
	result := make([]model.Group, 0, len(m.groups))
	for _, g := range m.groups {
		result = append(result, copyGroup(g))
	}
	return result, nil
}

func (m *mockGroupRepo) ListForMember(_ context.Context, username string) ([]model.Group, error) {
	var result []model.Group
	for _, g := range m.groups {
		for _, member := range g.Members {
			if member.Username == username {
				result = append(result, copyGroup(g))
				break
			}
		}
	}
	return result, nil
}

func (m *mockGroupRepo) Update(_ context.Context, group *model.Group) error {
	if _, ok := m.groups[group.ID]; !ok {
		return apperror.NotFound("Group not found")
	}
	stored := copyGroup(group)
	m.groups[group.ID] = &stored
	return nil
}

func (m *mockGroupRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.groups[id]; !ok {
		return apperror.NotFound("Group not found")
	}
	delete(m.groups, id)
	return nil
}

func (m *mockGroupRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, g := range m.groups {
		if g.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockGroupRepo) AddMember(_ context.Context, groupID string, member model.Member) error {
	group, ok := m.groups[groupID]
	if !ok {
		return apperror.NotFound("Group not found")
	}
	group.Members = append(group.Members, member)
	return nil
}

func (m *mockGroupRepo) RemoveMember(_ context.Context, groupID, username string) error {
	group, ok := m.groups[groupID]
	if !ok {
		return apperror.NotFound("Group not found")
	}
	kept := group.Members[:0]
	for _, member := range group.Members {
		if member.Username != username {
			kept = append(kept, member)
		}
	}
	group.Members = kept
	return nil
}

func (m *mockGroupRepo) PushEventID(_ context.Context, groupID, eventID string) error {
	if m.errPushEventID != nil {
		return m.errPushEventID
	}
	group, ok := m.groups[groupID]
	if !ok {
		return apperror.NotFound("Group not found")
	}
	group.EventIDs = append(group.EventIDs, eventID)
	return nil
}

func (m *mockGroupRepo) PullEventIDByName(_ context.Context, groupName, eventID string) error {
	for _, g := range m.groups {
		if g.Name != groupName {
			continue
		}
		kept := g.EventIDs[:0]
		for _, id := range g.EventIDs {
			if id != eventID {
				kept = append(kept, id)
			}
		}
		g.EventIDs = kept
		return nil
	}
	return apperror.NotFound("Group not found")
}

func copyGroup(g *model.Group) model.Group {
	result := *g
	result.EventIDs = append([]string(nil), g.EventIDs...)
	result.Members = append([]model.Member(nil), g.Members...)
	return result
}

// ---------------------------------------------------------------------------
// events

type mockEventRepo struct {
	events map[string]*model.Event // keyed by ID
	nextID int

	errRemoveInvite error // returned by RemoveInvite when set
}

var _ repository.EventRepository = (*mockEventRepo)(nil)

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[string]*model.Event)}
}

func (m *mockEventRepo) Create(_ context.Context, event *model.Event) error {
	m.nextID++
	event.ID = fmt.Sprintf("event-%d", m.nextID)
	if event.Users == nil {
		event.Users = []model.InvitedUser{}
	}
	stored := copyEvent(event)
	m.events[event.ID] = &stored
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*model.Event, error) {
	event, ok := m.events[id]
	if !ok {
		return nil, apperror.NotFound("Event not found!")
	}
	result := copyEvent(event)
	return &result, nil
}

func (m *mockEventRepo) List(_ context.Context) ([]model.Event, error) {
	result := make([]model.Event, 0, len(m.events))
	for _, e := range m.events {
		result = append(result, copyEvent(e))
	}
	return result, nil
}

func (m *mockEventRepo) ListForUser(_ context.Context, username string) ([]model.Event, error) {
	var result []model.Event
	for _, e := range m.events {
		for _, invited := range e.Users {
			if invited.Username == username {
				result = append(result, copyEvent(e))
				break
			}
		}
	}
	return result, nil
}

func (m *mockEventRepo) ListForGroup(_ context.Context, groupName string) ([]model.Event, error) {
	var result []model.Event
	for _, e := range m.events {
		if e.Group == groupName {
			result = append(result, copyEvent(e))
		}
	}
	return result, nil
}

func (m *mockEventRepo) Update(_ context.Context, event *model.Event) error {
	if _, ok := m.events[event.ID]; !ok {
		return apperror.NotFound("Event not found!")
	}
	stored := copyEvent(event)
	m.events[event.ID] = &stored
	return nil
}

func (m *mockEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return apperror.NotFound("Event not found!")
	}
	delete(m.events, id)
	return nil
}

func (m *mockEventRepo) DeleteByIDs(_ context.Context, ids []string) error {
	for _, id := range ids {
		delete(m.events, id)
	}
	return nil
}

func (m *mockEventRepo) AddInvite(_ context.Context, eventID string, user model.InvitedUser) error {
	event, ok := m.events[eventID]
	if !ok {
		return apperror.NotFound("Event not found!")
	}
	event.Users = append(event.Users, user)
	return nil
}

func (m *mockEventRepo) RemoveInvite(_ context.Context, eventID, username string) error {
	if m.errRemoveInvite != nil {
		return m.errRemoveInvite
	}
	event, ok := m.events[eventID]
	if !ok {
		return apperror.NotFound("Event not found!")
	}
	kept := event.Users[:0]
	for _, invited := range event.Users {
		if invited.Username != username {
			kept = append(kept, invited)
		}
	}
	event.Users = kept
	return nil
}

func (m *mockEventRepo) SetDate(_ context.Context, eventID string, date time.Time) error {
	event, ok := m.events[eventID]
	if !ok {
		return apperror.NotFound("Event not found!")
	}
	event.Date = date
	return nil
}

func (m *mockEventRepo) SetGroupName(_ context.Context, oldName, newName string) (int64, error) {
	var n int64
	for _, e := range m.events {
		if e.Group == oldName {
			e.Group = newName
			n++
		}
	}
	return n, nil
}

func copyEvent(e *model.Event) model.Event {
	result := *e
	result.Users = append([]model.InvitedUser(nil), e.Users...)
	return result
}

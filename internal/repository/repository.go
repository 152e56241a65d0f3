// Package repository declares the storage interfaces the services depend
// on. The concrete implementation lives in repository/mongodb; tests use
// in-memory mocks.
//
// All "missing document" conditions surface as apperror.ErrNotFound. The
// store is not assumed to enforce uniqueness — the service layer checks
// with the Exists* methods before inserting.
package repository

import (
	"context"
	"time"

	"github.com/huddleapp/huddle/internal/model"
)

// UserRepository persists user accounts, keyed by username.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)

	// UpdatePerson replaces the user's profile data.
	UpdatePerson(ctx context.Context, username string, person model.PersonData) error
	// UpdatePassword replaces the stored bcrypt hash.
	UpdatePassword(ctx context.Context, username, passwordHash string) error

	Delete(ctx context.Context, username string) error

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// GroupRepository persists groups and their membership/event lists.
// AddMember, RemoveMember and the eventID mutators are single-document
// atomic updates; multi-document consistency is the service layer's job.
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetByID(ctx context.Context, id string) (*model.Group, error)
	GetByName(ctx context.Context, name string) (*model.Group, error)
	List(ctx context.Context) ([]model.Group, error)
	// ListForMember returns every group that has a member with the given
	// username.
	ListForMember(ctx context.Context, username string) ([]model.Group, error)
	Update(ctx context.Context, group *model.Group) error
	Delete(ctx context.Context, id string) error
	ExistsByName(ctx context.Context, name string) (bool, error)

	AddMember(ctx context.Context, groupID string, member model.Member) error
	// RemoveMember filters the member out by username; removing an absent
	// member is a no-op.
	RemoveMember(ctx context.Context, groupID, username string) error

	PushEventID(ctx context.Context, groupID, eventID string) error
	// PullEventIDByName removes the eventID from the group matched by
	// name — the group is resolved through the event's denormalized group
	// name, not its ID.
	PullEventIDByName(ctx context.Context, groupName, eventID string) error
}

// EventRepository persists events and their invitation lists.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	// ListForUser returns every event with an invitation entry for the
	// given username.
	ListForUser(ctx context.Context, username string) ([]model.Event, error)
	ListForGroup(ctx context.Context, groupName string) ([]model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id string) error
	// DeleteByIDs removes all listed events in one batch. Missing IDs are
	// not an error.
	DeleteByIDs(ctx context.Context, ids []string) error

	AddInvite(ctx context.Context, eventID string, user model.InvitedUser) error
	// RemoveInvite filters the invitation out by username; removing an
	// absent invitation is a no-op.
	RemoveInvite(ctx context.Context, eventID, username string) error

	// SetDate persists a new occurrence date (recurrence engine).
	SetDate(ctx context.Context, eventID string, date time.Time) error
	// SetGroupName rewrites the denormalized group name on every event
	// currently tied to oldName (rename fan-out). Returns the number of
	// events updated.
	SetGroupName(ctx context.Context, oldName, newName string) (int64, error)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/huddleapp/huddle/internal/apperror"
	"github.com/huddleapp/huddle/internal/model"
	"github.com/huddleapp/huddle/internal/repository"
)

// GroupService owns groups and keeps group membership and event
// invitation lists mutually consistent (the membership coordinator).
//
// The store offers no multi-document transactions: each group or event
// write is atomic on its own, and the coordinator fans changes out
// document by document. Events that vanish mid-operation (the recurrence
// engine deletes due one-off events concurrently) are skipped and logged —
// a vanished event trivially satisfies the post-condition of both Join and
// Leave. Any other store failure aborts the operation.
type GroupService struct {
	groups repository.GroupRepository
	events repository.EventRepository
	logger *slog.Logger
}

// NewGroupService creates a GroupService.
func NewGroupService(groups repository.GroupRepository, events repository.EventRepository, logger *slog.Logger) *GroupService {
	return &GroupService{groups: groups, events: events, logger: logger}
}

// Create validates and persists a new group. The group name must be
// unique.
func (s *GroupService) Create(ctx context.Context, group model.Group) (*model.Group, error) {
	group.Name = strings.TrimSpace(group.Name)
	if group.Name == "" {
		return nil, apperror.ValidationFailed("name", "Group name is required!")
	}
	if group.Owner == "" {
		return nil, apperror.ValidationFailed("owner", "Group owner is required!")
	}

	taken, err := s.groups.ExistsByName(ctx, group.Name)
	if err != nil {
		return nil, fmt.Errorf("service/group: checking name %q: %w", group.Name, err)
	}
	if taken {
		return nil, apperror.Conflict("This name is already taken!")
	}

	if err := s.groups.Create(ctx, &group); err != nil {
		return nil, fmt.Errorf("service/group: creating group %q: %w", group.Name, err)
	}

	s.logger.Info("group created",
		slog.String("id", group.ID),
		slog.String("name", group.Name),
		slog.String("owner", group.Owner),
	)

	return &group, nil
}

// Get returns a group by ID.
func (s *GroupService) Get(ctx context.Context, groupID string) (*model.Group, error) {
	return s.groups.GetByID(ctx, groupID)
}

// List returns all groups; an empty result is a NotFound, matching the
// API's historical behaviour.
func (s *GroupService) List(ctx context.Context) ([]model.Group, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/group: listing groups: %w", err)
	}
	if len(groups) == 0 {
		return nil, apperror.NotFound("There are no groups!")
	}
	return groups, nil
}

// ListForMember returns every group the user belongs to.
func (s *GroupService) ListForMember(ctx context.Context, username string) ([]model.Group, error) {
	groups, err := s.groups.ListForMember(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("service/group: listing groups for %q: %w", username, err)
	}
	if len(groups) == 0 {
		return nil, apperror.NotFound("This user has no groups!")
	}
	return groups, nil
}

// UpdateGroupParams carries the mutable group fields. Empty strings mean
// "leave unchanged".
type UpdateGroupParams struct {
	Name        string
	Description string
	IconURL     string
}

// Update applies the patch. A name change is the consistency-critical
// path: the new name is conflict-checked, then the denormalized group name
// is rewritten on every event currently tied to the old name before the
// group's own record changes. The fan-out is a single bulk update, so
// readers never observe a half-renamed event set.
func (s *GroupService) Update(ctx context.Context, groupID string, params UpdateGroupParams) (*model.Group, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	newName := strings.TrimSpace(params.Name)
	if newName != "" && newName != group.Name {
		taken, err := s.groups.ExistsByName(ctx, newName)
		if err != nil {
			return nil, fmt.Errorf("service/group: checking name %q: %w", newName, err)
		}
		if taken {
			return nil, apperror.Conflict("This name is already taken!")
		}

		updated, err := s.events.SetGroupName(ctx, group.Name, newName)
		if err != nil {
			return nil, fmt.Errorf("service/group: renaming %q to %q on events: %w", group.Name, newName, err)
		}

		s.logger.Info("group renamed",
			slog.String("id", group.ID),
			slog.String("from", group.Name),
			slog.String("to", newName),
			slog.Int64("eventsUpdated", updated),
		)

		group.Name = newName
	}

	if params.Description != "" {
		group.Description = params.Description
	}
	if params.IconURL != "" {
		group.IconURL = params.IconURL
	}

	if err := s.groups.Update(ctx, group); err != nil {
		return nil, err
	}

	return group, nil
}

// Join appends the member to the group, then invites them to every event
// the group references. Each event update is independent: events that no
// longer exist are skipped and logged, any other failure aborts.
func (s *GroupService) Join(ctx context.Context, groupID, username string, rank model.Rank, profilePic string) (*model.Group, error) {
	if username == "" {
		return nil, apperror.ValidationFailed("username", "Username is required!")
	}
	if rank == "" {
		rank = model.RankMember
	}
	if !rank.Valid() {
		return nil, apperror.ValidationFailed("rank", "Unrecognised rank!")
	}

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	member := model.Member{Username: username, Rank: rank, ProfilePic: profilePic}
	if err := s.groups.AddMember(ctx, groupID, member); err != nil {
		return nil, err
	}

	invite := model.InvitedUser{
		Username:   username,
		Attendance: model.AttendanceInvited,
		ProfilePic: profilePic,
	}
	for _, eventID := range group.EventIDs {
		if err := s.events.AddInvite(ctx, eventID, invite); err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				s.logger.Warn("join: event no longer exists, skipping",
					slog.String("group", group.Name),
					slog.String("eventID", eventID),
				)
				continue
			}
			return nil, fmt.Errorf("service/group: inviting %q to event %s: %w", username, eventID, err)
		}
	}

	s.logger.Info("member joined",
		slog.String("group", group.Name),
		slog.String("username", username),
		slog.String("rank", string(rank)),
	)

	return s.groups.GetByID(ctx, groupID)
}

// Leave removes the member from the group and withdraws their invitation
// from every referenced event. Removing an absent member is a no-op, and
// — symmetrically with Join — events that no longer exist are skipped.
func (s *GroupService) Leave(ctx context.Context, groupID, username string) (*model.Group, error) {
	if username == "" {
		return nil, apperror.ValidationFailed("username", "Username is required!")
	}

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if err := s.groups.RemoveMember(ctx, groupID, username); err != nil {
		return nil, err
	}

	for _, eventID := range group.EventIDs {
		if err := s.events.RemoveInvite(ctx, eventID, username); err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				s.logger.Warn("leave: event no longer exists, skipping",
					slog.String("group", group.Name),
					slog.String("eventID", eventID),
				)
				continue
			}
			return nil, fmt.Errorf("service/group: removing %q from event %s: %w", username, eventID, err)
		}
	}

	s.logger.Info("member left",
		slog.String("group", group.Name),
		slog.String("username", username),
	)

	return s.groups.GetByID(ctx, groupID)
}

// Delete removes the group and cascades into its events: everything in
// eventIDs is bulk-deleted first, then the group record itself.
func (s *GroupService) Delete(ctx context.Context, groupID string) error {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return err
	}

	if err := s.events.DeleteByIDs(ctx, group.EventIDs); err != nil {
		return fmt.Errorf("service/group: cascading delete of %d events: %w", len(group.EventIDs), err)
	}

	if err := s.groups.Delete(ctx, groupID); err != nil {
		return err
	}

	s.logger.Info("group deleted",
		slog.String("id", groupID),
		slog.String("name", group.Name),
		slog.Int("events", len(group.EventIDs)),
	)

	return nil
}

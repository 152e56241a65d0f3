package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/xid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/huddleapp/huddle/internal/apperror"
	"github.com/huddleapp/huddle/internal/model"
	"github.com/huddleapp/huddle/internal/repository"
)

var _ repository.GroupRepository = (*Groups)(nil)

// Groups implements repository.GroupRepository on the groups collection.
type Groups struct {
	coll *mongo.Collection
}

func (r *Groups) Create(ctx context.Context, group *model.Group) error {
	group.ID = xid.New().String()
	if group.EventIDs == nil {
		group.EventIDs = []string{}
	}
	if group.Members == nil {
		group.Members = []model.Member{}
	}

	if _, err := r.coll.InsertOne(ctx, group); err != nil {
		return fmt.Errorf("mongodb: creating group: %w", err)
	}
	return nil
}

func (r *Groups) GetByID(ctx context.Context, id string) (*model.Group, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *Groups) GetByName(ctx context.Context, name string) (*model.Group, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *Groups) findOne(ctx context.Context, filter bson.M) (*model.Group, error) {
	var group model.Group
	err := r.coll.FindOne(ctx, filter).Decode(&group)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("Group not found")
		}
		return nil, fmt.Errorf("mongodb: finding group %v: %w", filter, err)
	}
	return &group, nil
}

func (r *Groups) List(ctx context.Context) ([]model.Group, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *Groups) ListForMember(ctx context.Context, username string) ([]model.Group, error) {
	return r.findMany(ctx, bson.M{"members.username": username})
}

func (r *Groups) findMany(ctx context.Context, filter bson.M) ([]model.Group, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongodb: listing groups %v: %w", filter, err)
	}
	defer cursor.Close(ctx)

	var groups []model.Group
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("mongodb: decoding groups: %w", err)
	}
	return groups, nil
}

func (r *Groups) Update(ctx context.Context, group *model.Group) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": group.ID}, group)
	if err != nil {
		return fmt.Errorf("mongodb: updating group %s: %w", group.ID, err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("Group not found")
	}
	return nil
}

func (r *Groups) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongodb: deleting group %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("Group not found")
	}
	return nil
}

func (r *Groups) ExistsByName(ctx context.Context, name string) (bool, error) {
	err := r.coll.FindOne(ctx, bson.M{"name": name}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, fmt.Errorf("mongodb: checking group name %q: %w", name, err)
}

func (r *Groups) AddMember(ctx context.Context, groupID string, member model.Member) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": groupID},
		bson.M{"$push": bson.M{"members": member}},
	)
	if err != nil {
		return fmt.Errorf("mongodb: adding member to group %s: %w", groupID, err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("Group not found")
	}
	return nil
}

func (r *Groups) RemoveMember(ctx context.Context, groupID, username string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": groupID},
		bson.M{"$pull": bson.M{"members": bson.M{"username": username}}},
	)
	if err != nil {
		return fmt.Errorf("mongodb: removing member from group %s: %w", groupID, err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("Group not found")
	}
	return nil
}

func (r *Groups) PushEventID(ctx context.Context, groupID, eventID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": groupID},
		bson.M{"$push": bson.M{"eventIDs": eventID}},
	)
	if err != nil {
		return fmt.Errorf("mongodb: pushing event onto group %s: %w", groupID, err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("Group not found")
	}
	return nil
}

func (r *Groups) PullEventIDByName(ctx context.Context, groupName, eventID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"name": groupName},
		bson.M{"$pull": bson.M{"eventIDs": eventID}},
	)
	if err != nil {
		return fmt.Errorf("mongodb: pulling event from group %q: %w", groupName, err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("Group not found")
	}
	return nil
}

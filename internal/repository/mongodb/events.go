package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/huddleapp/huddle/internal/apperror"
	"github.com/huddleapp/huddle/internal/model"
	"github.com/huddleapp/huddle/internal/repository"
)

var _ repository.EventRepository = (*Events)(nil)

// Events implements repository.EventRepository on the events collection.
type Events struct {
	coll *mongo.Collection
}

func (r *Events) Create(ctx context.Context, event *model.Event) error {
	event.ID = xid.New().String()
	if event.Users == nil {
		event.Users = []model.InvitedUser{}
	}

	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("mongodb: creating event: %w", err)
	}
	return nil
}

func (r *Events) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("Event not found!")
		}
		return nil, fmt.Errorf("mongodb: finding event %s: %w", id, err)
	}
	return &event, nil
}

func (r *Events) List(ctx context.Context) ([]model.Event, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *Events) ListForUser(ctx context.Context, username string) ([]model.Event, error) {
	return r.findMany(ctx, bson.M{"users.username": username})
}

func (r *Events) ListForGroup(ctx context.Context, groupName string) ([]model.Event, error) {
	return r.findMany(ctx, bson.M{"group": groupName})
}

func (r *Events) findMany(ctx context.Context, filter bson.M) ([]model.Event, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongodb: listing events %v: %w", filter, err)
	}
	defer cursor.Close(ctx)

	var events []model.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("mongodb: decoding events: %w", err)
	}
	return events, nil
}

func (r *Events) Update(ctx context.Context, event *model.Event) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": event.ID}, event)
	if err != nil {
		return fmt.Errorf("mongodb: updating event %s: %w", event.ID, err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("Event not found!")
	}
	return nil
}

func (r *Events) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongodb: deleting event %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("Event not found!")
	}
	return nil
}

func (r *Events) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return fmt.Errorf("mongodb: bulk-deleting %d events: %w", len(ids), err)
	}
	return nil
}

func (r *Events) AddInvite(ctx context.Context, eventID string, user model.InvitedUser) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": eventID},
		bson.M{"$push": bson.M{"users": user}},
	)
	if err != nil {
		return fmt.Errorf("mongodb: adding invite to event %s: %w", eventID, err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("Event not found!")
	}
	return nil
}

func (r *Events) RemoveInvite(ctx context.Context, eventID, username string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": eventID},
		bson.M{"$pull": bson.M{"users": bson.M{"username": username}}},
	)
	if err != nil {
		return fmt.Errorf("mongodb: removing invite from event %s: %w", eventID, err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("Event not found!")
	}
	return nil
}

func (r *Events) SetDate(ctx context.Context, eventID string, date time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": eventID},
		bson.M{"$set": bson.M{"date": date}},
	)
	if err != nil {
		return fmt.Errorf("mongodb: setting date on event %s: %w", eventID, err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("Event not found!")
	}
	return nil
}

func (r *Events) SetGroupName(ctx context.Context, oldName, newName string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"group": oldName},
		bson.M{"$set": bson.M{"group": newName}},
	)
	if err != nil {
		return 0, fmt.Errorf("mongodb: renaming group %q on events: %w", oldName, err)
	}
	return res.ModifiedCount, nil
}

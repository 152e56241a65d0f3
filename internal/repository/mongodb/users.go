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

// Compile-time check that *Users satisfies the interface.
var _ repository.UserRepository = (*Users)(nil)

// Users implements repository.UserRepository on the users collection.
// Users are looked up by "accountData.username", the identity key.
type Users struct {
	coll *mongo.Collection
}

func (r *Users) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("mongodb: creating user: %w", err)
	}
	return nil
}

func (r *Users) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.coll.FindOne(ctx, bson.M{"accountData.username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("User not found!")
		}
		return nil, fmt.Errorf("mongodb: finding user %q: %w", username, err)
	}
	return &user, nil
}

func (r *Users) List(ctx context.Context) ([]model.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("mongodb: listing users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("mongodb: decoding users: %w", err)
	}
	return users, nil
}

func (r *Users) UpdatePerson(ctx context.Context, username string, person model.PersonData) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"accountData.username": username},
		bson.M{"$set": bson.M{"personData": person}},
	)
	if err != nil {
		return fmt.Errorf("mongodb: updating person data for %q: %w", username, err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("User not found!")
	}
	return nil
}

func (r *Users) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"accountData.username": username},
		bson.M{"$set": bson.M{"accountData.password": passwordHash}},
	)
	if err != nil {
		return fmt.Errorf("mongodb: updating password for %q: %w", username, err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("User not found!")
	}
	return nil
}

func (r *Users) Delete(ctx context.Context, username string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"accountData.username": username})
	if err != nil {
		return fmt.Errorf("mongodb: deleting user %q: %w", username, err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("User not found!")
	}
	return nil
}

func (r *Users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"accountData.email": email})
}

func (r *Users) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, bson.M{"accountData.username": username})
}

func (r *Users) exists(ctx context.Context, filter bson.M) (bool, error) {
	err := r.coll.FindOne(ctx, filter).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, fmt.Errorf("mongodb: existence check %v: %w", filter, err)
}

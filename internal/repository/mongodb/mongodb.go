// Package mongodb implements the repository interfaces on MongoDB.
//
// The application treats MongoDB as a plain document store: find-by-id,
// find-by-filter, atomic single-document updates ($set/$push/$pull) and
// deletes. There are no multi-document transactions — cross-document
// consistency is maintained by the service layer.
//
// Document IDs are xid strings generated here on insert, so _id stays a
// plain string throughout the model types.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collUsers  = "users"
	collGroups = "groups"
	collEvents = "events"
)

// Store owns the client connection and hands out per-collection
// repositories.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to MongoDB, pings it to verify the connection actually
// works, and returns a Store bound to the given database.
func New(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb: connecting: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb: pinging: %w", err)
	}

	return &Store{
		client: client,
		db:     client.Database(database),
	}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Users returns the user repository.
func (s *Store) Users() *Users {
	return &Users{coll: s.db.Collection(collUsers)}
}

// Groups returns the group repository.
func (s *Store) Groups() *Groups {
	return &Groups{coll: s.db.Collection(collGroups)}
}

// Events returns the event repository.
func (s *Store) Events() *Events {
	return &Events{coll: s.db.Collection(collEvents)}
}

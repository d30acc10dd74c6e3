package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RemoteStore backs collections with a cloud document database. Every record
// is an independently addressed document keyed by its id field, so single
// document writes are atomic under concurrent writers without cross-document
// transactions.
type RemoteStore struct {
	database *mongo.Database
}

func NewRemoteStore(database *mongo.Database) *RemoteStore {
	return &RemoteStore{database: database}
}

func (s *RemoteStore) Load(ctx context.Context, collection string, out any) error {
	cursor, err := s.database.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to retrieve %s: %v", collection, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode %s: %v", collection, err)
	}
	return nil
}

func (s *RemoteStore) Upsert(ctx context.Context, collection, id string, doc any) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.database.Collection(collection).ReplaceOne(ctx, bson.M{"id": id}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert %s/%s: %v", collection, id, err)
	}
	return nil
}

// Delete removes the document keyed by id. Success is reported
// unconditionally once the server accepts the delete, whether or not a
// document existed.
func (s *RemoteStore) Delete(ctx context.Context, collection, id string) (bool, error) {
	_, err := s.database.Collection(collection).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete %s/%s: %v", collection, id, err)
	}
	return true, nil
}

func (s *RemoteStore) PatchField(ctx context.Context, collection, id, field string, value any) error {
	update := bson.M{"$set": bson.M{field: value}}
	_, err := s.database.Collection(collection).UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to patch %s/%s.%s: %v", collection, id, field, err)
	}
	return nil
}

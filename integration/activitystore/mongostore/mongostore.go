// Package mongostore implements activity.Store on a MongoDB collection.
//
// Each session is one document keyed by session ID. Touch is an upsert with
// $max, so the stored time only ever moves forward. MongoDB dates carry
// millisecond precision; sub-millisecond parts are dropped on write.
package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/idlesession/core/activity"
)

// DefaultCollection is used when New is given an empty name.
const DefaultCollection = "session_activity"

type record struct {
	SessionID    string    `bson:"_id"`
	LastActivity time.Time `bson:"last_activity"`
}

// Store implements activity.Store.
type Store struct {
	coll *mongo.Collection
}

// New creates a Store over the named collection of db.
func New(db *mongo.Database, collection string) *Store {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Store{coll: db.Collection(collection)}
}

var _ activity.Store = (*Store)(nil)

// EnsureIndexes creates a TTL index on last_activity so MongoDB removes
// abandoned records. A non-positive ttl skips index creation. ttl should
// exceed timeout+grace.
func (s *Store) EnsureIndexes(ctx context.Context, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "last_activity", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(ttl / time.Second)),
	})
	if err != nil {
		return errors.Join(activity.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) LastActivity(ctx context.Context, sessionID string) (time.Time, error) {
	if sessionID == "" {
		return time.Time{}, activity.ErrEmptySessionID
	}

	var rec record
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: sessionID}}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, errors.Join(activity.ErrUnavailable, err)
	}
	return rec.LastActivity.UTC(), nil
}

func (s *Store) Touch(ctx context.Context, sessionID string, t time.Time) error {
	if sessionID == "" {
		return activity.ErrEmptySessionID
	}

	_, err := s.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: sessionID}},
		bson.D{{Key: "$max", Value: bson.D{{Key: "last_activity", Value: t.UTC()}}}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return errors.Join(activity.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return activity.ErrEmptySessionID
	}
	if _, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: sessionID}}); err != nil {
		return errors.Join(activity.ErrUnavailable, err)
	}
	return nil
}

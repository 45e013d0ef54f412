// Package docstore keeps comments and comment likes in MongoDB.
//
// It is the document-store alternative to the relational repositories and is selected with
// STORE_DRIVER=mongo. Identifiers stay numeric: each collection draws ids from a counters
// document so the HTTP layer and the thread engine see the same shapes as with Postgres.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RahulLalwani5726/Stream-X/internal/observability"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	commentsCollection = "comments"
	likesCollection    = "likes"
	countersCollection = "counters"
)

var (
	ErrConnectDB       = errors.New("unable to establish document store connection")
	ErrDBNotResponding = errors.New("document store not responding")
)

// Storage owns the client and the database handle.
type Storage struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

// Config selects the deployment and database.
type Config struct {
	URI    string
	DBName string
}

// Options builds the client options.
func (c Config) Options() *options.ClientOptions {
	return options.Client().
		ApplyURI(c.URI).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)
}

// New connects, pings and creates the indexes the stores rely on.
func New(ctx context.Context, conf Config) (*Storage, error) {
	client, err := mongo.Connect(ctx, conf.Options())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectDB, err)
	}
	s := &Storage{client: client, db: client.Database(conf.DBName), now: time.Now}

	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: %v", ErrDBNotResponding, err)
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Comments returns the comment store.
func (s *Storage) Comments() *CommentStore {
	return &CommentStore{s: s, coll: s.db.Collection(commentsCollection), likes: s.db.Collection(likesCollection)}
}

// Likes returns the like store.
func (s *Storage) Likes() *LikeStore {
	return &LikeStore{s: s, coll: s.db.Collection(likesCollection)}
}

func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(commentsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "target_kind", Value: 1}, {Key: "target_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create comment indexes: %w", err)
	}
	_, err = s.db.Collection(likesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "target_kind", Value: 1}, {Key: "target_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("likes_user_target"),
		},
		{Keys: bson.D{{Key: "target_kind", Value: 1}, {Key: "target_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create like indexes: %w", err)
	}
	return nil
}

// nextID atomically increments the named counter and returns the new value.
func (s *Storage) nextID(ctx context.Context, name string) (uint, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate %s id: %w", name, err)
	}
	return uint(counter.Seq), nil
}

// track opens a repository span and records latency for one store call.
func track(ctx context.Context, method, collection string) (context.Context, func(error)) {
	ctx, span := observability.StartRepositorySpan(ctx, "mongodb", method, collection)
	done := observability.TrackQuery(method, collection)
	return ctx, func(err error) {
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			observability.RecordErrorInContext(ctx, err)
		}
		done()
		span.End()
	}
}

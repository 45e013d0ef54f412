package docstore

import (
	"context"
	"time"

	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ repository.LikeRepository = (*LikeStore)(nil)

type likeDoc struct {
	ID         uint              `bson:"_id"`
	UserID     uint              `bson:"user_id"`
	TargetKind models.TargetKind `bson:"target_kind"`
	TargetID   uint              `bson:"target_id"`
	CreatedAt  time.Time         `bson:"created_at"`
}

// LikeStore implements repository.LikeRepository on a MongoDB collection.
type LikeStore struct {
	s    *Storage
	coll *mongo.Collection
}

func likeFilter(userID uint, target models.Ref) bson.M {
	return bson.M{"user_id": userID, "target_kind": target.Kind, "target_id": target.ID}
}

// Toggle deletes the like when present and inserts it otherwise. The unique index on
// (user_id, target_kind, target_id) turns a racing insert into a duplicate-key error, which
// still means "liked".
func (l *LikeStore) Toggle(ctx context.Context, userID uint, target models.Ref) (_ bool, err error) {
	ctx, done := track(ctx, "toggle", likesCollection)
	defer func() { done(err) }()

	res, err := l.coll.DeleteOne(ctx, likeFilter(userID, target))
	if err != nil {
		return false, err
	}
	if res.DeletedCount > 0 {
		return false, nil
	}

	id, err := l.s.nextID(ctx, likesCollection)
	if err != nil {
		return false, err
	}
	_, err = l.coll.InsertOne(ctx, likeDoc{
		ID:         id,
		UserID:     userID,
		TargetKind: target.Kind,
		TargetID:   target.ID,
		CreatedAt:  l.s.now().UTC(),
	})
	if mongo.IsDuplicateKeyError(err) {
		err = nil
	}
	return err == nil, err
}

func (l *LikeStore) Count(ctx context.Context, target models.Ref) (_ int64, err error) {
	ctx, done := track(ctx, "countDocuments", likesCollection)
	defer func() { done(err) }()
	return l.coll.CountDocuments(ctx, bson.M{"target_kind": target.Kind, "target_id": target.ID})
}

func (l *LikeStore) HasLiked(ctx context.Context, userID uint, target models.Ref) (_ bool, err error) {
	if userID == 0 {
		return false, nil
	}
	ctx, done := track(ctx, "countDocuments", likesCollection)
	defer func() { done(err) }()
	n, err := l.coll.CountDocuments(ctx, likeFilter(userID, target))
	return n > 0, err
}

func (l *LikeStore) CountByTargets(ctx context.Context, kind models.TargetKind, ids []uint) (_ map[uint]int64, err error) {
	ctx, done := track(ctx, "aggregate", likesCollection)
	defer func() { done(err) }()
	return countByTarget(ctx, l.coll, bson.M{"target_kind": kind, "target_id": bson.M{"$in": ids}}, len(ids))
}

func (l *LikeStore) LikedTargets(ctx context.Context, userID uint, kind models.TargetKind, ids []uint) (_ map[uint]bool, err error) {
	liked := make(map[uint]bool)
	if userID == 0 || len(ids) == 0 {
		return liked, nil
	}
	ctx, done := track(ctx, "find", likesCollection)
	defer func() { done(err) }()

	cur, err := l.coll.Find(ctx, bson.M{"user_id": userID, "target_kind": kind, "target_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var docs []likeDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		liked[d.TargetID] = true
	}
	return liked, nil
}

func (l *LikeStore) DeleteByTargets(ctx context.Context, kind models.TargetKind, ids []uint) (err error) {
	if len(ids) == 0 {
		return nil
	}
	ctx, done := track(ctx, "deleteMany", likesCollection)
	defer func() { done(err) }()
	_, err = l.coll.DeleteMany(ctx, bson.M{"target_kind": kind, "target_id": bson.M{"$in": ids}})
	return err
}

func (l *LikeStore) DeleteByUser(ctx context.Context, userID uint) (err error) {
	ctx, done := track(ctx, "deleteMany", likesCollection)
	defer func() { done(err) }()
	_, err = l.coll.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}

package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repository.CommentRepository = (*CommentStore)(nil)

type commentDoc struct {
	ID         uint              `bson:"_id"`
	Content    string            `bson:"content"`
	OwnerID    uint              `bson:"owner_id"`
	TargetKind models.TargetKind `bson:"target_kind"`
	TargetID   uint              `bson:"target_id"`
	CreatedAt  time.Time         `bson:"created_at"`
	UpdatedAt  time.Time         `bson:"updated_at"`
}

func (d commentDoc) model() models.Comment {
	return models.Comment{
		ID:         d.ID,
		Content:    d.Content,
		OwnerID:    d.OwnerID,
		TargetKind: d.TargetKind,
		TargetID:   d.TargetID,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// CommentStore implements repository.CommentRepository on a MongoDB collection.
type CommentStore struct {
	s     *Storage
	coll  *mongo.Collection
	likes *mongo.Collection
}

func (c *CommentStore) Create(ctx context.Context, comment *models.Comment) (err error) {
	ctx, done := track(ctx, "insert", commentsCollection)
	defer func() { done(err) }()

	id, err := c.s.nextID(ctx, commentsCollection)
	if err != nil {
		return err
	}
	now := c.s.now().UTC().Truncate(time.Millisecond)
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now
	}
	comment.UpdatedAt = comment.CreatedAt
	comment.ID = id

	_, err = c.coll.InsertOne(ctx, commentDoc{
		ID:         comment.ID,
		Content:    comment.Content,
		OwnerID:    comment.OwnerID,
		TargetKind: comment.TargetKind,
		TargetID:   comment.TargetID,
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
	})
	return err
}

func (c *CommentStore) GetByID(ctx context.Context, id uint) (_ *models.Comment, err error) {
	ctx, done := track(ctx, "findOne", commentsCollection)
	defer func() { done(err) }()

	var doc commentDoc
	if err = c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, err
	}
	m := doc.model()
	return &m, nil
}

func (c *CommentStore) UpdateContent(ctx context.Context, id uint, content string) (_ *models.Comment, err error) {
	ctx, done := track(ctx, "findOneAndUpdate", commentsCollection)
	defer func() { done(err) }()

	var doc commentDoc
	err = c.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"content": content, "updated_at": c.s.now().UTC().Truncate(time.Millisecond)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, err
	}
	m := doc.model()
	return &m, nil
}

func (c *CommentStore) find(ctx context.Context, filter bson.M, sort bson.D) ([]models.Comment, error) {
	cur, err := c.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	var docs []commentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Comment, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (c *CommentStore) ListTopLevel(ctx context.Context, entityID uint, kinds []models.TargetKind) (_ []models.Comment, err error) {
	ctx, done := track(ctx, "find", commentsCollection)
	defer func() { done(err) }()

	return c.find(ctx,
		bson.M{"target_kind": bson.M{"$in": kinds}, "target_id": entityID},
		bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
	)
}

func (c *CommentStore) ListReplies(ctx context.Context, parentIDs []uint) (_ []models.Comment, err error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	ctx, done := track(ctx, "find", commentsCollection)
	defer func() { done(err) }()

	return c.find(ctx,
		bson.M{"target_kind": models.TargetComment, "target_id": bson.M{"$in": parentIDs}},
		bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
	)
}

func (c *CommentStore) ids(ctx context.Context, filter bson.M) ([]uint, error) {
	cur, err := c.coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var docs []struct {
		ID uint `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]uint, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out, nil
}

func (c *CommentStore) CollectDescendants(ctx context.Context, rootIDs []uint) (_ []uint, err error) {
	ctx, done := track(ctx, "collectDescendants", commentsCollection)
	defer func() { done(err) }()

	seen := make(map[uint]struct{}, len(rootIDs))
	all := make([]uint, 0, len(rootIDs))
	for _, id := range rootIDs {
		if _, ok := seen[id]; ok || id == 0 {
			continue
		}
		seen[id] = struct{}{}
		all = append(all, id)
	}

	frontier := append([]uint(nil), all...)
	for len(frontier) > 0 {
		next, err := c.ids(ctx, bson.M{"target_kind": models.TargetComment, "target_id": bson.M{"$in": frontier}})
		if err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, id := range next {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			all = append(all, id)
			frontier = append(frontier, id)
		}
	}
	return all, nil
}

func (c *CommentStore) CountByTargets(ctx context.Context, kind models.TargetKind, ids []uint) (_ map[uint]int64, err error) {
	ctx, done := track(ctx, "aggregate", commentsCollection)
	defer func() { done(err) }()
	return countByTarget(ctx, c.coll, bson.M{"target_kind": kind, "target_id": bson.M{"$in": ids}}, len(ids))
}

func (c *CommentStore) TopLevelIDs(ctx context.Context, target models.Ref) ([]uint, error) {
	return c.ids(ctx, bson.M{"target_kind": target.Kind, "target_id": target.ID})
}

func (c *CommentStore) IDsByOwner(ctx context.Context, ownerID uint) ([]uint, error) {
	return c.ids(ctx, bson.M{"owner_id": ownerID})
}

// DeleteByIDs removes the likes first so a failure never leaves likes on missing comments.
// Without a replica set there is no multi-document transaction to lean on.
func (c *CommentStore) DeleteByIDs(ctx context.Context, ids []uint) (err error) {
	if len(ids) == 0 {
		return nil
	}
	ctx, done := track(ctx, "deleteMany", commentsCollection)
	defer func() { done(err) }()

	if _, err = c.likes.DeleteMany(ctx, bson.M{"target_kind": models.TargetComment, "target_id": bson.M{"$in": ids}}); err != nil {
		return err
	}
	_, err = c.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

// countByTarget groups matching documents by target_id.
func countByTarget(ctx context.Context, coll *mongo.Collection, match bson.M, hint int) (map[uint]int64, error) {
	counts := make(map[uint]int64, hint)
	if hint == 0 {
		return counts, nil
	}
	cur, err := coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$target_id"}, {Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}}}},
	})
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID    uint  `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.ID] = r.Count
	}
	return counts, nil
}

// Package thread assembles nested comment threads for videos and tweets.
//
// A thread is built in four passes: fetch the top-level comments of an entity, walk the reply
// levels in batched queries up to a depth cap, enrich every collected comment with owner and like
// data, then link the flat set into a tree and order it. Store failures abort the build; enrichment
// failures degrade the affected fields and are logged.
package thread

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultMaxDepth is the deepest reply level collected. A direct reply has depth 1.
const DefaultMaxDepth = 10

// DefaultTimeout bounds a whole build.
const DefaultTimeout = 10 * time.Second

// Store reads comments.
type Store interface {
	ListTopLevel(ctx context.Context, entityID uint, kinds []models.TargetKind) ([]models.Comment, error)
	ListReplies(ctx context.Context, parentIDs []uint) ([]models.Comment, error)
}

// LikeAggregator answers batched like questions.
type LikeAggregator interface {
	CountByTargets(ctx context.Context, kind models.TargetKind, ids []uint) (map[uint]int64, error)
	LikedTargets(ctx context.Context, userID uint, kind models.TargetKind, ids []uint) (map[uint]bool, error)
}

// IdentityResolver maps user ids to public summaries.
type IdentityResolver interface {
	Summaries(ctx context.Context, ids []uint) (map[uint]models.OwnerSummary, error)
}

// Options tunes the engine. Zero values select the defaults.
type Options struct {
	MaxDepth     int
	Timeout      time.Duration
	DefaultOrder Order
}

// Query selects a thread.
type Query struct {
	EntityID uint
	// Kind restricts top-level comments to one entity kind. Empty means video or tweet.
	Kind     models.TargetKind
	ViewerID uint
	Order    Order
}

// Engine builds comment threads.
type Engine struct {
	store      Store
	likes      LikeAggregator
	identities IdentityResolver
	opts       Options
}

// NewEngine wires an engine to its collaborators.
func NewEngine(store Store, likes LikeAggregator, identities IdentityResolver, opts Options) *Engine {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.DefaultOrder == "" {
		opts.DefaultOrder = OrderRecent
	}
	return &Engine{store: store, likes: likes, identities: identities, opts: opts}
}

// DefaultOrder is the ordering used when a query does not name one.
func (e *Engine) DefaultOrder() Order {
	return e.opts.DefaultOrder
}

// collected is the flat result of the traversal.
type collected struct {
	top      []models.Comment
	replies  []models.Comment
	ids      []uint
	owners   []uint
	maxDepth int
}

// Build returns the enriched, ordered top-level nodes for q. An entity without comments yields
// an empty, non-nil slice.
func (e *Engine) Build(ctx context.Context, q Query) (nodes []*models.CommentNode, err error) {
	if q.EntityID == 0 {
		return nil, models.NewValidationError("Invalid ID")
	}
	kinds, err := topLevelKinds(q.Kind)
	if err != nil {
		return nil, err
	}
	order := q.Order
	if order == "" {
		order = e.opts.DefaultOrder
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	span, ctx := observability.NewSpan(ctx, "thread.Build")
	span.AddAttributes(
		attribute.Int64("thread.entity_id", int64(q.EntityID)),
		attribute.String("thread.kind", string(q.Kind)),
		attribute.String("thread.order", string(order)),
	)
	defer func() {
		span.SetError(err)
		span.End()
		observability.ThreadBuildLatency.WithLabelValues(observability.Outcome(err)).Observe(time.Since(start).Seconds())
	}()

	c, err := e.collect(ctx, q.EntityID, kinds)
	if err != nil {
		return nil, err
	}

	nodes = e.assemble(ctx, c, q.ViewerID, order)

	observability.ThreadNodes.Observe(float64(len(c.ids)))
	observability.ThreadDepthReached.Observe(float64(c.maxDepth))
	span.AddAttributes(
		attribute.Int("thread.nodes", len(c.ids)),
		attribute.Int("thread.depth", c.maxDepth),
	)
	return nodes, nil
}

func topLevelKinds(kind models.TargetKind) ([]models.TargetKind, error) {
	switch kind {
	case "":
		return []models.TargetKind{models.TargetVideo, models.TargetTweet}, nil
	case models.TargetVideo, models.TargetTweet:
		return []models.TargetKind{kind}, nil
	default:
		return nil, models.NewValidationError("Invalid type. Must be 'video' or 'tweet'")
	}
}

// collect fetches the top level and then one batched query per reply level.
func (e *Engine) collect(ctx context.Context, entityID uint, kinds []models.TargetKind) (*collected, error) {
	top, err := e.store.ListTopLevel(ctx, entityID, kinds)
	if err != nil {
		return nil, storeError(ctx, err)
	}

	c := &collected{top: top}
	seen := make(map[uint]struct{}, len(top))
	ownerSeen := make(map[uint]struct{})
	addOwner := func(id uint) {
		if _, ok := ownerSeen[id]; !ok {
			ownerSeen[id] = struct{}{}
			c.owners = append(c.owners, id)
		}
	}

	frontier := make([]uint, 0, len(top))
	for i := range top {
		if _, dup := seen[top[i].ID]; dup {
			continue
		}
		seen[top[i].ID] = struct{}{}
		c.ids = append(c.ids, top[i].ID)
		addOwner(top[i].OwnerID)
		frontier = append(frontier, top[i].ID)
	}

	for depth := 1; depth <= e.opts.MaxDepth && len(frontier) > 0; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, storeError(ctx, err)
		}
		level, err := e.store.ListReplies(ctx, frontier)
		if err != nil {
			return nil, storeError(ctx, err)
		}

		next := make([]uint, 0, len(level))
		for i := range level {
			r := level[i]
			if !r.IsReply() {
				continue
			}
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			c.replies = append(c.replies, r)
			c.ids = append(c.ids, r.ID)
			addOwner(r.OwnerID)
			next = append(next, r.ID)
		}
		if len(next) > 0 {
			c.maxDepth = depth
		}
		frontier = next
	}
	return c, nil
}

func storeError(ctx context.Context, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	observability.GlobalLogger.ErrorContext(ctx, "comment store failed", "error", err.Error())
	return models.NewDependencyError("Comment store", err)
}

// assemble enriches every collected comment and links the tree.
func (e *Engine) assemble(ctx context.Context, c *collected, viewerID uint, order Order) []*models.CommentNode {
	owners := e.resolveOwners(ctx, c.owners)
	counts, liked := e.resolveLikes(ctx, c.ids, viewerID)

	arena := make(map[uint]*models.CommentNode, len(c.ids))
	newNode := func(cm *models.Comment) *models.CommentNode {
		owner, ok := owners[cm.OwnerID]
		if !ok {
			owner = models.UnknownOwner(cm.OwnerID)
		}
		n := &models.CommentNode{
			ID:        cm.ID,
			Content:   cm.Content,
			Owner:     owner,
			CreatedAt: cm.CreatedAt,
			UpdatedAt: cm.UpdatedAt,
			Likes:     counts[cm.ID],
			IsLiked:   liked[cm.ID],
			Replies:   []*models.CommentNode{},
		}
		arena[cm.ID] = n
		return n
	}

	roots := make([]*models.CommentNode, 0, len(c.top))
	for i := range c.top {
		if _, dup := arena[c.top[i].ID]; dup {
			continue
		}
		roots = append(roots, newNode(&c.top[i]))
	}
	for i := range c.replies {
		newNode(&c.replies[i])
	}
	// Link after the arena is complete so store order never matters.
	for i := range c.replies {
		r := &c.replies[i]
		parent, ok := arena[r.TargetID]
		if !ok {
			continue
		}
		parent.Replies = append(parent.Replies, arena[r.ID])
	}

	for _, root := range roots {
		finish(root)
	}
	sortTopLevel(roots, order)
	return roots
}

// finish orders replies oldest first and fills in descendant counts.
func finish(n *models.CommentNode) int {
	sort.SliceStable(n.Replies, func(i, j int) bool {
		a, b := n.Replies[i], n.Replies[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	total := 0
	for _, child := range n.Replies {
		total += 1 + finish(child)
	}
	n.RepliesCount = total
	return total
}

func (e *Engine) resolveOwners(ctx context.Context, ids []uint) map[uint]models.OwnerSummary {
	if len(ids) == 0 {
		return nil
	}
	owners, err := e.identities.Summaries(ctx, ids)
	if err != nil {
		observability.LogDegraded(ctx, "identity", err, map[string]any{"owners": len(ids)})
		return nil
	}
	return owners
}

func (e *Engine) resolveLikes(ctx context.Context, ids []uint, viewerID uint) (map[uint]int64, map[uint]bool) {
	if len(ids) == 0 {
		return nil, nil
	}
	counts, err := e.likes.CountByTargets(ctx, models.TargetComment, ids)
	if err != nil {
		observability.LogDegraded(ctx, "likes", err, map[string]any{"comments": len(ids)})
		counts = nil
	}
	if viewerID == 0 {
		return counts, nil
	}
	liked, err := e.likes.LikedTargets(ctx, viewerID, models.TargetComment, ids)
	if err != nil {
		observability.LogDegraded(ctx, "liked_set", err, map[string]any{"comments": len(ids), "viewer_id": viewerID})
		liked = nil
	}
	return counts, liked
}

package thread

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/RahulLalwani5726/Stream-X/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store that can be told to return rows in reverse order.
type memStore struct {
	mu          sync.Mutex
	comments    []models.Comment
	reverse     bool
	replyCalls  int
	failTop     error
	failReplies error
	block       bool
}

func (s *memStore) ListTopLevel(ctx context.Context, entityID uint, kinds []models.TargetKind) ([]models.Comment, error) {
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.failTop != nil {
		return nil, s.failTop
	}
	var out []models.Comment
	for _, c := range s.comments {
		if c.TargetID != entityID {
			continue
		}
		for _, k := range kinds {
			if c.TargetKind == k {
				out = append(out, c)
			}
		}
	}
	return s.order(out), nil
}

func (s *memStore) ListReplies(_ context.Context, parentIDs []uint) ([]models.Comment, error) {
	s.mu.Lock()
	s.replyCalls++
	s.mu.Unlock()
	if s.failReplies != nil {
		return nil, s.failReplies
	}
	parents := make(map[uint]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}
	var out []models.Comment
	for _, c := range s.comments {
		if c.TargetKind == models.TargetComment && parents[c.TargetID] {
			out = append(out, c)
		}
	}
	return s.order(out), nil
}

func (s *memStore) order(in []models.Comment) []models.Comment {
	if !s.reverse {
		return in
	}
	out := make([]models.Comment, len(in))
	for i := range in {
		out[len(in)-1-i] = in[i]
	}
	return out
}

func (s *memStore) add(id, owner uint, kind models.TargetKind, target uint, at time.Time) {
	s.comments = append(s.comments, models.Comment{
		ID: id, Content: "c", OwnerID: owner, TargetKind: kind, TargetID: target, CreatedAt: at, UpdatedAt: at,
	})
}

type memLikes struct {
	likes []models.Like
	err   error
}

func (l *memLikes) CountByTargets(_ context.Context, kind models.TargetKind, ids []uint) (map[uint]int64, error) {
	if l.err != nil {
		return nil, l.err
	}
	want := make(map[uint]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := map[uint]int64{}
	for _, lk := range l.likes {
		if lk.TargetKind == kind && want[lk.TargetID] {
			out[lk.TargetID]++
		}
	}
	return out, nil
}

func (l *memLikes) LikedTargets(_ context.Context, userID uint, kind models.TargetKind, ids []uint) (map[uint]bool, error) {
	if l.err != nil {
		return nil, l.err
	}
	want := make(map[uint]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := map[uint]bool{}
	for _, lk := range l.likes {
		if lk.UserID == userID && lk.TargetKind == kind && want[lk.TargetID] {
			out[lk.TargetID] = true
		}
	}
	return out, nil
}

type memIdentities struct {
	users map[uint]models.OwnerSummary
	err   error
	calls int
}

func (m *memIdentities) Summaries(_ context.Context, ids []uint) (map[uint]models.OwnerSummary, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[uint]models.OwnerSummary, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func newIdentities() *memIdentities {
	return &memIdentities{users: map[uint]models.OwnerSummary{
		1: {ID: 1, Username: "u1", Avatar: "a1"},
		2: {ID: 2, Username: "u2", Avatar: "a2"},
	}}
}

var t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestBuild_NestedScenario(t *testing.T) {
	store := &memStore{}
	store.add(1, 1, models.TargetVideo, 100, t0)                    // C1 by U1 on V
	store.add(2, 2, models.TargetComment, 1, t0.Add(time.Minute))   // R1 by U2 on C1
	store.add(3, 1, models.TargetComment, 2, t0.Add(2*time.Minute)) // R2 by U1 on R1
	likes := &memLikes{likes: []models.Like{{UserID: 1, TargetKind: models.TargetComment, TargetID: 1}}}
	engine := NewEngine(store, likes, newIdentities(), Options{})

	nodes, err := engine.Build(context.Background(), Query{EntityID: 100, Kind: models.TargetVideo, ViewerID: 2})
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	c1 := nodes[0]
	assert.Equal(t, uint(1), c1.ID)
	assert.Equal(t, "u1", c1.Owner.Username)
	assert.Equal(t, int64(1), c1.Likes)
	assert.False(t, c1.IsLiked, "U2 did not like C1")
	assert.Equal(t, 2, c1.RepliesCount)
	require.Len(t, c1.Replies, 1)

	r1 := c1.Replies[0]
	assert.Equal(t, uint(2), r1.ID)
	assert.Equal(t, "u2", r1.Owner.Username)
	assert.Equal(t, 1, r1.RepliesCount)
	require.Len(t, r1.Replies, 1)
	assert.Equal(t, uint(3), r1.Replies[0].ID)
	assert.Empty(t, r1.Replies[0].Replies)
	assert.NotNil(t, r1.Replies[0].Replies)

	asOwner, err := engine.Build(context.Background(), Query{EntityID: 100, ViewerID: 1})
	require.NoError(t, err)
	assert.True(t, asOwner[0].IsLiked)

	anonymous, err := engine.Build(context.Background(), Query{EntityID: 100})
	require.NoError(t, err)
	assert.False(t, anonymous[0].IsLiked)
}

func TestBuild_DepthCap(t *testing.T) {
	store := &memStore{}
	store.add(1, 1, models.TargetTweet, 5, t0)
	// Chain of 11 replies: ids 2..12, depth(id) = id-1.
	for id := uint(2); id <= 12; id++ {
		store.add(id, 2, models.TargetComment, id-1, t0.Add(time.Duration(id)*time.Second))
	}
	engine := NewEngine(store, &memLikes{}, newIdentities(), Options{})

	nodes, err := engine.Build(context.Background(), Query{EntityID: 5})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, 10, nodes[0].RepliesCount)

	deepest := nodes[0]
	depth := 0
	for len(deepest.Replies) > 0 {
		deepest = deepest.Replies[0]
		depth++
	}
	assert.Equal(t, 10, depth)
	assert.Equal(t, uint(11), deepest.ID, "depth 11 reply (id 12) must be excluded")
	assert.LessOrEqual(t, store.replyCalls, DefaultMaxDepth)
}

func TestBuild_CustomDepth(t *testing.T) {
	store := &memStore{}
	store.add(1, 1, models.TargetVideo, 5, t0)
	store.add(2, 1, models.TargetComment, 1, t0)
	store.add(3, 1, models.TargetComment, 2, t0)
	engine := NewEngine(store, &memLikes{}, newIdentities(), Options{MaxDepth: 1})

	nodes, err := engine.Build(context.Background(), Query{EntityID: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, nodes[0].RepliesCount)
}

func TestBuild_WideFanOutIsBatchedPerLevel(t *testing.T) {
	store := &memStore{}
	id := uint(1)
	for top := 0; top < 20; top++ {
		topID := id
		store.add(topID, 1, models.TargetVideo, 9, t0.Add(time.Duration(top)*time.Second))
		id++
		for r := 0; r < 30; r++ {
			store.add(id, 2, models.TargetComment, topID, t0)
			id++
		}
	}
	identities := newIdentities()
	engine := NewEngine(store, &memLikes{}, identities, Options{})

	nodes, err := engine.Build(context.Background(), Query{EntityID: 9})
	require.NoError(t, err)
	require.Len(t, nodes, 20)
	for _, n := range nodes {
		assert.Len(t, n.Replies, 30)
	}
	assert.Equal(t, 2, store.replyCalls, "one call for the reply level, one that finds nothing")
	assert.Equal(t, 1, identities.calls)
}

func TestBuild_OrphansExcluded(t *testing.T) {
	store := &memStore{}
	store.add(1, 1, models.TargetVideo, 3, t0)
	store.add(2, 1, models.TargetComment, 1, t0)
	store.add(3, 1, models.TargetComment, 77, t0) // parent 77 was deleted
	store.add(4, 1, models.TargetComment, 3, t0)  // hangs off the orphan
	engine := NewEngine(store, &memLikes{}, newIdentities(), Options{})

	nodes, err := engine.Build(context.Background(), Query{EntityID: 3})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, 1, nodes[0].RepliesCount)
	assert.Equal(t, uint(2), nodes[0].Replies[0].ID)
}

func TestBuild_RepliesAscendingRegardlessOfStoreOrder(t *testing.T) {
	store := &memStore{reverse: true}
	store.add(1, 1, models.TargetVideo, 3, t0)
	store.add(2, 1, models.TargetComment, 1, t0.Add(3*time.Minute))
	store.add(3, 1, models.TargetComment, 1, t0.Add(1*time.Minute))
	store.add(4, 1, models.TargetComment, 1, t0.Add(2*time.Minute))
	store.add(5, 1, models.TargetComment, 1, t0.Add(1*time.Minute)) // tie with 3, broken by id
	engine := NewEngine(store, &memLikes{}, newIdentities(), Options{})

	nodes, err := engine.Build(context.Background(), Query{EntityID: 3})
	require.NoError(t, err)

	var got []uint
	for _, r := range nodes[0].Replies {
		got = append(got, r.ID)
	}
	assert.Equal(t, []uint{3, 5, 4, 2}, got)
}

func TestBuild_TopLevelOrders(t *testing.T) {
	store := &memStore{}
	store.add(1, 1, models.TargetVideo, 8, t0)
	store.add(2, 1, models.TargetVideo, 8, t0.Add(time.Hour))
	store.add(3, 1, models.TargetVideo, 8, t0.Add(time.Hour)) // same instant as 2
	store.add(4, 1, models.TargetTweet, 8, t0.Add(2*time.Hour))
	likes := &memLikes{likes: []models.Like{
		{UserID: 1, TargetKind: models.TargetComment, TargetID: 1},
		{UserID: 2, TargetKind: models.TargetComment, TargetID: 1},
		{UserID: 1, TargetKind: models.TargetComment, TargetID: 2},
	}}
	engine := NewEngine(store, likes, newIdentities(), Options{})

	ids := func(nodes []*models.CommentNode) []uint {
		out := make([]uint, 0, len(nodes))
		for _, n := range nodes {
			out = append(out, n.ID)
		}
		return out
	}

	recent, err := engine.Build(context.Background(), Query{EntityID: 8})
	require.NoError(t, err)
	assert.Equal(t, []uint{4, 3, 2, 1}, ids(recent), "both kinds when kind is empty")

	popular, err := engine.Build(context.Background(), Query{EntityID: 8, Kind: models.TargetVideo, Order: OrderPopular})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, ids(popular))

	popularDefault := NewEngine(store, likes, newIdentities(), Options{DefaultOrder: OrderPopular})
	assert.Equal(t, OrderPopular, popularDefault.DefaultOrder())
	byDefault, err := popularDefault.Build(context.Background(), Query{EntityID: 8, Kind: models.TargetVideo})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, ids(byDefault))
}

func TestBuild_EmptyIsNotAnError(t *testing.T) {
	engine := NewEngine(&memStore{}, &memLikes{}, newIdentities(), Options{})
	nodes, err := engine.Build(context.Background(), Query{EntityID: 42})
	require.NoError(t, err)
	assert.NotNil(t, nodes)
	assert.Empty(t, nodes)
}

func TestBuild_Validation(t *testing.T) {
	engine := NewEngine(&memStore{}, &memLikes{}, newIdentities(), Options{})

	_, err := engine.Build(context.Background(), Query{})
	assert.True(t, models.IsCode(err, models.CodeValidation))

	_, err = engine.Build(context.Background(), Query{EntityID: 1, Kind: models.TargetComment})
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestBuild_EnrichmentDegradesPerField(t *testing.T) {
	store := &memStore{}
	store.add(1, 1, models.TargetVideo, 3, t0)
	store.add(2, 99, models.TargetComment, 1, t0) // owner 99 no longer exists

	t.Run("missing owner gets placeholder", func(t *testing.T) {
		engine := NewEngine(store, &memLikes{}, newIdentities(), Options{})
		nodes, err := engine.Build(context.Background(), Query{EntityID: 3})
		require.NoError(t, err)
		assert.Equal(t, "u1", nodes[0].Owner.Username)
		assert.Equal(t, models.UnknownOwner(99), nodes[0].Replies[0].Owner)
	})

	t.Run("identity failure", func(t *testing.T) {
		engine := NewEngine(store, &memLikes{}, &memIdentities{err: errors.New("redis down")}, Options{})
		nodes, err := engine.Build(context.Background(), Query{EntityID: 3})
		require.NoError(t, err)
		assert.Equal(t, "unknown", nodes[0].Owner.Username)
		assert.Equal(t, uint(1), nodes[0].Owner.ID)
	})

	t.Run("like failure", func(t *testing.T) {
		engine := NewEngine(store, &memLikes{err: errors.New("timeout")}, newIdentities(), Options{})
		nodes, err := engine.Build(context.Background(), Query{EntityID: 3, ViewerID: 1})
		require.NoError(t, err)
		assert.Zero(t, nodes[0].Likes)
		assert.False(t, nodes[0].IsLiked)
		assert.Equal(t, 1, nodes[0].RepliesCount)
	})
}

func TestBuild_StoreFailuresAreDependencyErrors(t *testing.T) {
	boom := errors.New("connection refused")

	engine := NewEngine(&memStore{failTop: boom}, &memLikes{}, newIdentities(), Options{})
	_, err := engine.Build(context.Background(), Query{EntityID: 3})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeDependency))
	assert.ErrorIs(t, err, boom)

	store := &memStore{failReplies: boom}
	store.add(1, 1, models.TargetVideo, 3, t0)
	engine = NewEngine(store, &memLikes{}, newIdentities(), Options{})
	_, err = engine.Build(context.Background(), Query{EntityID: 3})
	assert.True(t, models.IsCode(err, models.CodeDependency))
}

func TestBuild_Timeout(t *testing.T) {
	engine := NewEngine(&memStore{block: true}, &memLikes{}, newIdentities(), Options{Timeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := engine.Build(context.Background(), Query{EntityID: 3})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeDependency))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("", OrderPopular)
	require.NoError(t, err)
	assert.Equal(t, OrderPopular, o)

	o, err = ParseOrder(" Recent ", OrderPopular)
	require.NoError(t, err)
	assert.Equal(t, OrderRecent, o)

	_, err = ParseOrder("hot", OrderRecent)
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

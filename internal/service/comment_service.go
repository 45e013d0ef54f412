package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/observability"
	"github.com/RahulLalwani5726/Stream-X/internal/repository"
	"github.com/RahulLalwani5726/Stream-X/internal/thread"
)

const maxCommentLen = 10000

type CommentService struct {
	commentRepo repository.CommentRepository
	targets     targetResolver
	engine      *thread.Engine
	cascade     bool
}

type ThreadInput struct {
	EntityID uint
	// Kind is "video", "tweet" or empty for both.
	Kind     string
	ViewerID uint
	Sort     string
}

type CreateCommentInput struct {
	UserID   uint
	EntityID uint
	Kind     string
	Content  string
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

// NewCommentService wires the comment rules. With cascade disabled a delete
// removes only the addressed comment and leaves its replies unreachable.
func NewCommentService(
	commentRepo repository.CommentRepository,
	videoRepo repository.VideoRepository,
	tweetRepo repository.TweetRepository,
	engine *thread.Engine,
	cascade bool,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		targets:     targetResolver{videos: videoRepo, tweets: tweetRepo, comments: commentRepo},
		engine:      engine,
		cascade:     cascade,
	}
}

func (s *CommentService) GetThread(ctx context.Context, in ThreadInput) ([]*models.CommentNode, error) {
	var kind models.TargetKind
	if strings.TrimSpace(in.Kind) != "" {
		k, ok := models.ParseTargetKind(in.Kind)
		if !ok || !k.IsTopLevel() {
			return nil, models.NewValidationError("Invalid type. Must be 'video' or 'tweet'")
		}
		kind = k
	}
	order, err := thread.ParseOrder(in.Sort, s.engine.DefaultOrder())
	if err != nil {
		return nil, err
	}
	return s.engine.Build(ctx, thread.Query{
		EntityID: in.EntityID,
		Kind:     kind,
		ViewerID: in.ViewerID,
		Order:    order,
	})
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.UserID == 0 {
		return nil, models.NewAuthenticationError("User Must be Logged In")
	}
	kind, ok := models.ParseTargetKind(in.Kind)
	if !ok {
		return nil, models.NewValidationError("Comment type is not Defined or Invalid")
	}
	if in.EntityID == 0 {
		return nil, models.NewValidationError("Invalid ID")
	}
	content, err := normalizeCommentContent(in.Content)
	if err != nil {
		return nil, err
	}

	target := models.Ref{Kind: kind, ID: in.EntityID}
	if err := s.targets.ensureExists(ctx, target); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:    content,
		OwnerID:    in.UserID,
		TargetKind: target.Kind,
		TargetID:   target.ID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.OwnerID != in.UserID {
		return nil, models.NewAuthorizationError("You can only update your own comments")
	}
	content, err := normalizeCommentContent(in.Content)
	if err != nil {
		return nil, err
	}
	return s.commentRepo.UpdateContent(ctx, comment.ID, content)
}

func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if comment.OwnerID != in.UserID {
		return models.NewAuthorizationError("You can only delete your own comments")
	}
	return s.deleteTrees(ctx, []uint{comment.ID})
}

// DeleteThreads removes every thread hanging off target. It is a no-op when
// cascading is disabled.
func (s *CommentService) DeleteThreads(ctx context.Context, target models.Ref) error {
	if !s.cascade {
		return nil
	}
	roots, err := s.commentRepo.TopLevelIDs(ctx, target)
	if err != nil {
		return err
	}
	return s.deleteTrees(ctx, roots)
}

// DeleteByOwner removes a user's comments and, when cascading, the replies below them.
func (s *CommentService) DeleteByOwner(ctx context.Context, ownerID uint) error {
	ids, err := s.commentRepo.IDsByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	return s.deleteTrees(ctx, ids)
}

func (s *CommentService) deleteTrees(ctx context.Context, roots []uint) error {
	if len(roots) == 0 {
		return nil
	}
	ids := roots
	if s.cascade {
		var err error
		if ids, err = s.commentRepo.CollectDescendants(ctx, roots); err != nil {
			return err
		}
	}
	observability.LogServiceCall(ctx, "comments", "delete", map[string]any{
		"roots":   len(roots),
		"removed": len(ids),
		"cascade": s.cascade,
	})
	return s.commentRepo.DeleteByIDs(ctx, ids)
}

// CommentCounts returns the number of top-level comments per entity.
func (s *CommentService) CommentCounts(ctx context.Context, kind models.TargetKind, ids []uint) (map[uint]int64, error) {
	if len(ids) == 0 {
		return map[uint]int64{}, nil
	}
	return s.commentRepo.CountByTargets(ctx, kind, ids)
}

func normalizeCommentContent(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return "", models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return "", models.NewValidationError(fmt.Sprintf("Comment too long (max %d characters)", maxCommentLen))
	}
	return content, nil
}

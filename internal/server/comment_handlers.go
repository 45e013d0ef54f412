package server

import (
	"github.com/RahulLalwani5726/Stream-X/internal/middleware"
	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetThread returns the nested comment tree of a video or tweet.
// @Summary List comment thread
// @Description Top-level comments of an entity with their replies nested up to the configured depth.
// @Tags comments
// @Produce json
// @Param entityId path int true "Video or tweet ID"
// @Param type query string false "video or tweet; both when omitted"
// @Param sort query string false "recent or popular"
// @Success 200 {object} models.Envelope{Data=[]models.CommentNode}
// @Failure 400 {object} models.Envelope
// @Router /Videos/comment/{entityId} [get]
// @Router /tweets/comment/{entityId} [get]
func (s *Server) GetThread(c *fiber.Ctx) error {
	entityID, err := s.parseIDAs(c, "entityId", "Invalid ID")
	if err != nil {
		return nil
	}

	nodes, err := s.commentService.GetThread(c.UserContext(), service.ThreadInput{
		EntityID: entityID,
		Kind:     c.Query("type"),
		ViewerID: middleware.UserID(c),
		Sort:     c.Query("sort"),
	})
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Comments List Fetched", nodes)
}

// CreateComment adds a comment to a video or tweet, or a reply to a comment.
// @Summary Create comment
// @Tags comments
// @Accept json
// @Produce json
// @Param entityId path int true "Target ID"
// @Param body body object{content=string,type=string} true "Comment"
// @Success 201 {object} models.Envelope{Data=models.Comment}
// @Failure 400 {object} models.Envelope
// @Failure 401 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /Videos/comment/create/{entityId} [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	entityID, err := s.parseIDAs(c, "entityId", "Invalid ID")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content" form:"content"`
		Type    string `json:"type" form:"type"`
	}
	if err := bind(c, &req); err != nil {
		return nil
	}

	created, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:   middleware.UserID(c),
		EntityID: entityID,
		Kind:     req.Type,
		Content:  req.Content,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, "Comment Created", created)
}

// EditComment replaces the content of the caller's comment.
// @Summary Edit comment
// @Tags comments
// @Accept json
// @Produce json
// @Param commentId path int true "Comment ID"
// @Param body body object{content=string} true "New content"
// @Success 200 {object} models.Envelope{Data=models.Comment}
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /Videos/comment/edit/{commentId} [patch]
func (s *Server) EditComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content" form:"content"`
	}
	if err := bind(c, &req); err != nil {
		return nil
	}

	updated, err := s.commentService.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		UserID:    middleware.UserID(c),
		CommentID: commentID,
		Content:   req.Content,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Comment Updated", updated)
}

// DeleteComment removes the caller's comment.
// @Summary Delete comment
// @Tags comments
// @Produce json
// @Param commentId path int true "Comment ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /Videos/comment/delete/{commentId} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		UserID:    middleware.UserID(c),
		CommentID: commentID,
	}); err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Comment Deleted", fiber.Map{"commentId": commentID})
}

// ToggleLike likes or unlikes the target named by the body's type.
// @Summary Toggle like
// @Tags likes
// @Accept json
// @Produce json
// @Param id path int true "Target ID"
// @Param body body object{type=string} true "video, tweet or comment"
// @Success 200 {object} models.Envelope{Data=models.LikeState}
// @Failure 400 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /Videos/Likes/{id} [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	return s.toggleLike(c, "")
}

// ToggleCommentLike likes or unlikes a comment.
// @Summary Toggle comment like
// @Tags likes
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {object} models.Envelope{Data=models.LikeState}
// @Router /Videos/comment/Likes/{id} [post]
func (s *Server) ToggleCommentLike(c *fiber.Ctx) error {
	return s.toggleLike(c, string(models.TargetComment))
}

// toggleLike resolves the target kind from the body, falling back to
// defaultKind only when the route itself names the kind.
func (s *Server) toggleLike(c *fiber.Ctx, defaultKind string) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Type string `json:"type" form:"type"`
	}
	if err := bind(c, &req); err != nil {
		return nil
	}
	if req.Type == "" {
		req.Type = defaultKind
	}

	state, err := s.likeService.Toggle(c.UserContext(), service.ToggleLikeInput{
		UserID:   middleware.UserID(c),
		TargetID: targetID,
		Kind:     req.Type,
	})
	if err != nil {
		return s.fail(c, err)
	}
	msg := "Unliked successfully"
	if state.IsLiked {
		msg = "Liked successfully"
	}
	return models.Respond(c, fiber.StatusOK, msg, state)
}

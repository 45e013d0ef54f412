package server

import (
	"github.com/RahulLalwani5726/Stream-X/internal/middleware"
	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListTweets handles GET /api/v1/tweets
// @Summary List tweets
// @Tags tweets
// @Produce json
// @Param sort query string false "popular (default) or recent"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} models.Envelope{Data=[]models.Tweet}
// @Router /tweets [get]
func (s *Server) ListTweets(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPageSize)
	tweets, err := s.tweetService.List(c.UserContext(), middleware.UserID(c), c.Query("sort"), page.Limit, page.Offset)
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Tweets Fetched", tweets)
}

// MyTweets lists the caller's tweets.
// @Summary Own tweets
// @Tags tweets
// @Produce json
// @Success 200 {object} models.Envelope{Data=[]models.Tweet}
// @Router /tweets/get-user-tweet-list [get]
func (s *Server) MyTweets(c *fiber.Ctx) error {
	uid := middleware.UserID(c)
	page := parsePagination(c, defaultPageSize)
	tweets, err := s.tweetService.ListByOwner(c.UserContext(), uid, uid, page.Limit, page.Offset)
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "User Tweets Fetched", tweets)
}

// ChannelTweets lists tweets of another channel.
// @Summary Channel tweets
// @Tags tweets
// @Produce json
// @Param id path int true "Channel owner ID"
// @Success 200 {object} models.Envelope{Data=[]models.Tweet}
// @Router /tweets/get-channel-tweets/{id} [get]
func (s *Server) ChannelTweets(c *fiber.Ctx) error {
	ownerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, defaultPageSize)
	tweets, err := s.tweetService.ListByOwner(c.UserContext(), ownerID, middleware.UserID(c), page.Limit, page.Offset)
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Channel Tweets Fetched", tweets)
}

// GetTweet returns one tweet with its counters.
// @Summary Get tweet
// @Tags tweets
// @Produce json
// @Param tweetId path int true "Tweet ID"
// @Success 200 {object} models.Envelope{Data=models.Tweet}
// @Failure 400 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /tweets/{tweetId} [get]
func (s *Server) GetTweet(c *fiber.Ctx) error {
	tweetID, err := s.parseIDAs(c, "tweetId", "Invalid Tweet ID")
	if err != nil {
		return nil
	}
	tweet, err := s.tweetService.Get(c.UserContext(), tweetID, middleware.UserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Tweet Fetched", tweet)
}

// CreateTweet handles POST /api/v1/tweets/create
// @Summary Create tweet
// @Tags tweets
// @Accept multipart/form-data
// @Produce json
// @Param content formData string false "Text"
// @Param image formData file false "Image"
// @Success 201 {object} models.Envelope{Data=models.Tweet}
// @Failure 400 {object} models.Envelope
// @Router /tweets/create [post]
func (s *Server) CreateTweet(c *fiber.Ctx) error {
	image, imageType, err := formFile(c, "image")
	if err != nil {
		return s.fail(c, err)
	}
	content := c.FormValue("content")
	if content == "" && image == nil {
		var req struct {
			Content string `json:"content"`
		}
		if err := bind(c, &req); err != nil {
			return nil
		}
		content = req.Content
	}

	tweet, err := s.tweetService.Create(c.UserContext(), service.CreateTweetInput{
		OwnerID:   middleware.UserID(c),
		Content:   content,
		Image:     image,
		ImageType: imageType,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, "Tweet Created", tweet)
}

// UpdateTweet replaces the text of the caller's tweet.
// @Summary Update tweet
// @Tags tweets
// @Accept json
// @Produce json
// @Param tweetId path int true "Tweet ID"
// @Param request body object{content=string} true "New content"
// @Success 200 {object} models.Envelope{Data=models.Tweet}
// @Failure 403 {object} models.Envelope
// @Router /tweets/update/{tweetId} [patch]
func (s *Server) UpdateTweet(c *fiber.Ctx) error {
	tweetID, err := s.parseIDAs(c, "tweetId", "Invalid Tweet ID")
	if err != nil {
		return nil
	}
	var req struct {
		Content string `json:"content" form:"content"`
	}
	if err := bind(c, &req); err != nil {
		return nil
	}

	tweet, err := s.tweetService.Update(c.UserContext(), service.UpdateTweetInput{
		UserID:  middleware.UserID(c),
		TweetID: tweetID,
		Content: req.Content,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Tweet Updated", tweet)
}

// DeleteTweet removes the caller's tweet with its image, likes and threads.
// @Summary Delete tweet
// @Tags tweets
// @Produce json
// @Param tweetId path int true "Tweet ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /tweets/delete/{tweetId} [delete]
func (s *Server) DeleteTweet(c *fiber.Ctx) error {
	tweetID, err := s.parseIDAs(c, "tweetId", "Invalid Tweet ID")
	if err != nil {
		return nil
	}
	if err := s.tweetService.Delete(c.UserContext(), tweetID, middleware.UserID(c)); err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Tweet Deleted", fiber.Map{"tweetId": tweetID})
}

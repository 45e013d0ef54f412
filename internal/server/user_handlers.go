package server

import (
	"github.com/RahulLalwani5726/Stream-X/internal/media"
	"github.com/RahulLalwani5726/Stream-X/internal/middleware"
	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CurrentUser returns the authenticated account.
// @Summary Current user
// @Tags users
// @Produce json
// @Success 200 {object} models.Envelope{Data=models.User}
// @Failure 401 {object} models.Envelope
// @Router /users/current-user [get]
func (s *Server) CurrentUser(c *fiber.Ctx) error {
	user, err := s.userService.GetByID(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Current User Fetched", user)
}

// UpdateAccount changes the full name and/or email.
// @Summary Update account
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{fullname=string,email=string} true "Fields"
// @Success 200 {object} models.Envelope{Data=models.User}
// @Failure 400 {object} models.Envelope
// @Failure 409 {object} models.Envelope
// @Router /users/update-account [patch]
func (s *Server) UpdateAccount(c *fiber.Ctx) error {
	var req struct {
		FullName string `json:"fullname" form:"fullname"`
		Email    string `json:"email" form:"email"`
	}
	if err := bind(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.UpdateAccount(c.UserContext(), service.UpdateAccountInput{
		UserID:   middleware.UserID(c),
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Account Updated", user)
}

// DeleteAccount removes the caller and everything they own.
// @Summary Delete account
// @Tags users
// @Produce json
// @Success 200 {object} models.Envelope
// @Router /users/delete [delete]
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	if err := s.userService.DeleteAccount(c.UserContext(), middleware.UserID(c)); err != nil {
		return s.fail(c, err)
	}
	s.clearAuthCookies(c)
	return models.Respond(c, fiber.StatusOK, "Account Deleted", fiber.Map{})
}

// UpdateAvatar replaces the avatar image.
// @Summary Update avatar
// @Tags users
// @Accept multipart/form-data
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} models.Envelope{Data=models.User}
// @Router /users/avatar [patch]
func (s *Server) UpdateAvatar(c *fiber.Ctx) error {
	return s.updateImage(c, "avatar", media.ImageAvatar, "Avatar Updated")
}

// UpdateCoverImage replaces the cover image.
// @Summary Update cover image
// @Tags users
// @Accept multipart/form-data
// @Param coverImage formData file true "Cover image"
// @Success 200 {object} models.Envelope{Data=models.User}
// @Router /users/cover-image [patch]
func (s *Server) UpdateCoverImage(c *fiber.Ctx) error {
	return s.updateImage(c, "coverImage", media.ImageCover, "Cover Image Updated")
}

func (s *Server) updateImage(c *fiber.Ctx, field string, kind media.ImageKind, msg string) error {
	content, contentType, err := formFile(c, field)
	if err != nil {
		return s.fail(c, err)
	}
	user, err := s.userService.UpdateImage(c.UserContext(), middleware.UserID(c), kind, content, contentType)
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, msg, user)
}

// ChannelProfile returns a channel page with subscription counters.
// @Summary Channel profile
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.Envelope{Data=models.ChannelProfile}
// @Failure 404 {object} models.Envelope
// @Router /users/channel/{username} [get]
func (s *Server) ChannelProfile(c *fiber.Ctx) error {
	profile, err := s.userService.Channel(c.UserContext(), c.Params("username"), middleware.UserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "User Channel Fetched", profile)
}

// WatchHistory lists the caller's watched videos, most recent first.
// @Summary Watch history
// @Tags users
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} models.Envelope
// @Router /users/history [get]
func (s *Server) WatchHistory(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPageSize)
	items, err := s.historyService.List(c.UserContext(), middleware.UserID(c), page.Limit, page.Offset)
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Watch History Fetched", items)
}

// RecordWatch adds a video to the caller's history.
// @Summary Record watch
// @Tags users
// @Produce json
// @Param videoId path int true "Video ID"
// @Success 200 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /users/update-watch-history/{videoId} [get]
func (s *Server) RecordWatch(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "videoId")
	if err != nil {
		return nil
	}
	if err := s.historyService.Record(c.UserContext(), middleware.UserID(c), videoID); err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Watch History Updated", fiber.Map{"videoId": videoID})
}

// ToggleSubscription subscribes to or unsubscribes from a channel.
// @Summary Toggle subscription
// @Tags subscriptions
// @Produce json
// @Param username path string true "Channel username"
// @Success 200 {object} models.Envelope
// @Failure 400 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /users/subscribe/{username} [post]
func (s *Server) ToggleSubscription(c *fiber.Ctx) error {
	subscribed, err := s.subscriptionService.Toggle(c.UserContext(), middleware.UserID(c), c.Params("username"))
	if err != nil {
		return s.fail(c, err)
	}
	msg := "Unsubscribed"
	if subscribed {
		msg = "Subscribed"
	}
	return models.Respond(c, fiber.StatusOK, msg, fiber.Map{"isSubscribed": subscribed})
}

// SubscriberCount returns how many users follow the caller.
// @Summary Subscriber count
// @Tags subscriptions
// @Produce json
// @Success 200 {object} models.Envelope
// @Router /users/subscribers/count [get]
func (s *Server) SubscriberCount(c *fiber.Ctx) error {
	n, err := s.subscriptionService.CountSubscribers(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Subscribers Count Fetched", fiber.Map{"subscribersCount": n})
}

// SubscriberList lists the caller's subscribers.
// @Summary Subscribers
// @Tags subscriptions
// @Produce json
// @Success 200 {object} models.Envelope{Data=[]models.SubscriberEntry}
// @Router /users/subscribers/list [get]
func (s *Server) SubscriberList(c *fiber.Ctx) error {
	entries, err := s.subscriptionService.Subscribers(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Subscribers Fetched", entries)
}

// SubscriptionList lists the channels the caller follows.
// @Summary Subscriptions
// @Tags subscriptions
// @Produce json
// @Success 200 {object} models.Envelope{Data=[]models.SubscriberEntry}
// @Router /users/subscription/list [get]
func (s *Server) SubscriptionList(c *fiber.Ctx) error {
	entries, err := s.subscriptionService.Subscriptions(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Subscriptions Fetched", entries)
}

package server

import (
	"mime/multipart"
	"strings"

	"github.com/RahulLalwani5726/Stream-X/internal/middleware"
	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadVideo handles POST /api/v1/Videos/upload
// @Summary Upload video
// @Description Stores the video file, probes its duration and re-encodes the thumbnail.
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param isPublish formData bool false "Publish immediately"
// @Param video formData file true "Video file"
// @Param thumbnail formData file true "Thumbnail image"
// @Success 201 {object} models.Envelope{Data=models.Video}
// @Failure 400 {object} models.Envelope
// @Failure 503 {object} models.Envelope
// @Router /Videos/upload [post]
func (s *Server) UploadVideo(c *fiber.Ctx) error {
	thumb, thumbType, err := formFile(c, "thumbnail")
	if err != nil {
		return s.fail(c, err)
	}
	publish, _ := formBool(c.FormValue("isPublish"))

	in := service.UploadVideoInput{
		OwnerID:       middleware.UserID(c),
		Title:         c.FormValue("title"),
		Description:   c.FormValue("description"),
		IsPublished:   publish,
		Thumbnail:     thumb,
		ThumbnailType: thumbType,
	}
	if fh, ferr := c.FormFile("video"); ferr == nil {
		f, err := fh.Open()
		if err != nil {
			return s.fail(c, models.NewValidationError("Unreadable video upload"))
		}
		defer func() { _ = f.Close() }()
		in.Video = f
		in.VideoName = fh.Filename
		in.VideoType = fh.Header.Get(fiber.HeaderContentType)
	}

	video, err := s.videoService.Upload(c.UserContext(), in)
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, "Video Upload Success", video)
}

// VideoFeed lists published videos, newest first.
// @Summary Video feed
// @Tags videos
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} models.Envelope{Data=[]models.Video}
// @Router /Videos [get]
func (s *Server) VideoFeed(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPageSize)
	videos, err := s.videoService.Feed(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Videos Fetched", videos)
}

// MyVideos lists the caller's videos including drafts.
// @Summary Own videos
// @Tags videos
// @Produce json
// @Success 200 {object} models.Envelope{Data=[]models.Video}
// @Router /Videos/get-user-video-list [get]
func (s *Server) MyVideos(c *fiber.Ctx) error {
	uid := middleware.UserID(c)
	page := parsePagination(c, defaultPageSize)
	videos, err := s.videoService.ListByOwner(c.UserContext(), uid, uid, page.Limit, page.Offset)
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "User Videos Fetched", videos)
}

// ChannelVideos lists a channel's videos visible to the caller.
// @Summary Channel videos
// @Tags videos
// @Produce json
// @Param id path int true "Channel owner ID"
// @Success 200 {object} models.Envelope{Data=[]models.Video}
// @Router /Videos/get-channel-videos/{id} [get]
func (s *Server) ChannelVideos(c *fiber.Ctx) error {
	ownerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, defaultPageSize)
	videos, err := s.videoService.ListByOwner(c.UserContext(), ownerID, middleware.UserID(c), page.Limit, page.Offset)
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Channel Videos Fetched", videos)
}

// WatchVideo returns a video with its owner, like and view counters.
// @Summary Watch video
// @Tags videos
// @Produce json
// @Param videoId path int true "Video ID"
// @Success 200 {object} models.Envelope{Data=models.WatchView}
// @Failure 404 {object} models.Envelope
// @Router /Videos/watch/{videoId} [get]
func (s *Server) WatchVideo(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "videoId")
	if err != nil {
		return nil
	}
	view, err := s.videoService.Watch(c.UserContext(), videoID, middleware.UserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Video Fetched", view)
}

// UpdateVideo edits metadata and optionally swaps the thumbnail.
// @Summary Update video
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Param videoId path int true "Video ID"
// @Param title formData string false "Title"
// @Param description formData string false "Description"
// @Param isPublish formData bool false "Published"
// @Param thumbnail formData file false "New thumbnail"
// @Success 200 {object} models.Envelope{Data=models.Video}
// @Failure 403 {object} models.Envelope
// @Router /Videos/updatefields/{videoId} [patch]
func (s *Server) UpdateVideo(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "videoId")
	if err != nil {
		return nil
	}

	in := service.UpdateVideoInput{UserID: middleware.UserID(c), VideoID: videoID}
	if form, ferr := c.MultipartForm(); ferr == nil {
		in.Title = formValue(form, "title")
		in.Description = formValue(form, "description")
		if raw := formValue(form, "isPublish"); raw != nil {
			if v, ok := formBool(*raw); ok {
				in.IsPublished = &v
			}
		}
		if in.Thumbnail, in.ThumbnailType, err = formFile(c, "thumbnail"); err != nil {
			return s.fail(c, err)
		}
	} else {
		var req struct {
			Title       *string `json:"title"`
			Description *string `json:"description"`
			IsPublish   *bool   `json:"isPublish"`
		}
		if err := bind(c, &req); err != nil {
			return nil
		}
		in.Title, in.Description, in.IsPublished = req.Title, req.Description, req.IsPublish
	}

	video, err := s.videoService.Update(c.UserContext(), in)
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Video Updated", video)
}

// DeleteVideo removes a video with its media, likes and comment threads.
// @Summary Delete video
// @Tags videos
// @Produce json
// @Param videoId path int true "Video ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /Videos/delete/{videoId} [delete]
func (s *Server) DeleteVideo(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "videoId")
	if err != nil {
		return nil
	}
	if err := s.videoService.Delete(c.UserContext(), videoID, middleware.UserID(c)); err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Video Deleted", fiber.Map{"videoId": videoID})
}

// formValue returns the first value of key, or nil when the field was not sent.
func formValue(form *multipart.Form, key string) *string {
	vs, ok := form.Value[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	v := strings.TrimSpace(vs[0])
	return &v
}

package server

import (
	"github.com/RahulLalwani5726/Stream-X/internal/middleware"
	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListPlaylists returns public playlists plus the caller's own.
// @Summary List playlists
// @Tags playlists
// @Produce json
// @Success 200 {object} models.Envelope{Data=[]models.Playlist}
// @Router /playlist [get]
func (s *Server) ListPlaylists(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPageSize)
	lists, err := s.playlistService.ListVisible(c.UserContext(), middleware.UserID(c), page.Limit, page.Offset)
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Playlists Fetched", lists)
}

// UserPlaylists lists one user's playlists visible to the caller.
// @Summary User playlists
// @Tags playlists
// @Produce json
// @Param userId path int true "Owner ID"
// @Success 200 {object} models.Envelope{Data=[]models.Playlist}
// @Router /playlist/user/{userId} [get]
func (s *Server) UserPlaylists(c *fiber.Ctx) error {
	ownerID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	lists, err := s.playlistService.ListByOwner(c.UserContext(), ownerID, middleware.UserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "User Playlists Fetched", lists)
}

// ViewPlaylist returns a playlist with its videos in order.
// @Summary View playlist
// @Tags playlists
// @Produce json
// @Param playlistId path int true "Playlist ID"
// @Success 200 {object} models.Envelope{Data=models.Playlist}
// @Failure 404 {object} models.Envelope
// @Router /playlist/view/{playlistId} [get]
func (s *Server) ViewPlaylist(c *fiber.Ctx) error {
	playlistID, err := s.parseID(c, "playlistId")
	if err != nil {
		return nil
	}
	pl, err := s.playlistService.View(c.UserContext(), playlistID, middleware.UserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Playlist Fetched", pl)
}

// CreatePlaylist handles POST /api/v1/playlist/create
// @Summary Create playlist
// @Tags playlists
// @Accept json
// @Produce json
// @Param request body object{name=string,description=string,isPrivate=bool} true "Playlist"
// @Success 201 {object} models.Envelope{Data=models.Playlist}
// @Failure 400 {object} models.Envelope
// @Router /playlist/create [post]
func (s *Server) CreatePlaylist(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name" form:"name"`
		Description string `json:"description" form:"description"`
		IsPrivate   bool   `json:"isPrivate" form:"isPrivate"`
	}
	if err := bind(c, &req); err != nil {
		return nil
	}

	pl, err := s.playlistService.Create(c.UserContext(), service.CreatePlaylistInput{
		OwnerID:     middleware.UserID(c),
		Name:        req.Name,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, "Playlist Created", pl)
}

// EditPlaylist changes name, description or visibility.
// @Summary Edit playlist
// @Tags playlists
// @Accept json
// @Produce json
// @Param playlistId path int true "Playlist ID"
// @Param request body object{name=string,description=string,isPrivate=bool} true "Fields"
// @Success 200 {object} models.Envelope{Data=models.Playlist}
// @Router /playlist/edit/{playlistId} [patch]
func (s *Server) EditPlaylist(c *fiber.Ctx) error {
	playlistID, err := s.parseID(c, "playlistId")
	if err != nil {
		return nil
	}
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IsPrivate   *bool   `json:"isPrivate"`
	}
	if err := bind(c, &req); err != nil {
		return nil
	}

	pl, err := s.playlistService.Edit(c.UserContext(), service.EditPlaylistInput{
		UserID:      middleware.UserID(c),
		PlaylistID:  playlistID,
		Name:        req.Name,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Playlist Updated", pl)
}

// DeletePlaylist removes the caller's playlist.
// @Summary Delete playlist
// @Tags playlists
// @Produce json
// @Param playlistId path int true "Playlist ID"
// @Success 200 {object} models.Envelope
// @Router /playlist/delete/{playlistId} [delete]
func (s *Server) DeletePlaylist(c *fiber.Ctx) error {
	playlistID, err := s.parseID(c, "playlistId")
	if err != nil {
		return nil
	}
	if err := s.playlistService.Delete(c.UserContext(), playlistID, middleware.UserID(c)); err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Playlist Deleted", fiber.Map{"playlistId": playlistID})
}

// AddToPlaylist appends a video to the caller's playlist.
// @Summary Add video to playlist
// @Tags playlists
// @Produce json
// @Param playlistId path int true "Playlist ID"
// @Param videoId path int true "Video ID"
// @Success 200 {object} models.Envelope
// @Router /playlist/add/{playlistId}/{videoId} [patch]
func (s *Server) AddToPlaylist(c *fiber.Ctx) error {
	in, ok := s.playlistVideoInput(c)
	if !ok {
		return nil
	}
	added, err := s.playlistService.AddVideo(c.UserContext(), in)
	if err != nil {
		return s.fail(c, err)
	}
	msg := "Video Already In Playlist"
	if added {
		msg = "Video Added To Playlist"
	}
	return models.Respond(c, fiber.StatusOK, msg, fiber.Map{"added": added})
}

// RemoveFromPlaylist drops a video from the caller's playlist.
// @Summary Remove video from playlist
// @Tags playlists
// @Produce json
// @Param playlistId path int true "Playlist ID"
// @Param videoId path int true "Video ID"
// @Success 200 {object} models.Envelope
// @Router /playlist/remove/{playlistId}/{videoId} [patch]
func (s *Server) RemoveFromPlaylist(c *fiber.Ctx) error {
	in, ok := s.playlistVideoInput(c)
	if !ok {
		return nil
	}
	if err := s.playlistService.RemoveVideo(c.UserContext(), in); err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Video Removed From Playlist", fiber.Map{})
}

func (s *Server) playlistVideoInput(c *fiber.Ctx) (service.PlaylistVideoInput, bool) {
	playlistID, err := s.parseID(c, "playlistId")
	if err != nil {
		return service.PlaylistVideoInput{}, false
	}
	videoID, err := s.parseID(c, "videoId")
	if err != nil {
		return service.PlaylistVideoInput{}, false
	}
	return service.PlaylistVideoInput{
		UserID:     middleware.UserID(c),
		PlaylistID: playlistID,
		VideoID:    videoID,
	}, true
}

// Search handles GET /api/v1/search
// @Summary Search
// @Description Case-insensitive match over users, published videos, tweets and visible playlists.
// @Tags search
// @Produce json
// @Param query query string true "Search text"
// @Success 200 {object} models.Envelope{Data=models.SearchResults}
// @Failure 400 {object} models.Envelope
// @Router /search [get]
func (s *Server) Search(c *fiber.Ctx) error {
	results, err := s.searchService.Search(c.UserContext(), c.Query("query"), middleware.UserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Search Results", results)
}

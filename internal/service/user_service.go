package service

import (
	"context"
	"strings"

	"github.com/RahulLalwani5726/Stream-X/internal/cache"
	"github.com/RahulLalwani5726/Stream-X/internal/media"
	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/repository"
	"github.com/RahulLalwani5726/Stream-X/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo     repository.UserRepository
	subRepo      repository.SubscriptionRepository
	historyRepo  repository.HistoryRepository
	playlistRepo repository.PlaylistRepository
	likeRepo     repository.LikeRepository
	comments     *CommentService
	videos       *VideoService
	tweets       *TweetService
	media        MediaUploader
}

// UserServiceDeps groups the collaborators of UserService.
type UserServiceDeps struct {
	Users     repository.UserRepository
	Subs      repository.SubscriptionRepository
	History   repository.HistoryRepository
	Playlists repository.PlaylistRepository
	Likes     repository.LikeRepository
	Comments  *CommentService
	Videos    *VideoService
	Tweets    *TweetService
	Media     MediaUploader
}

type RegisterInput struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	Avatar     []byte
	AvatarType string
	Cover      []byte
	CoverType  string
}

type UpdateAccountInput struct {
	UserID   uint
	FullName string
	Email    string
}

type ChangePasswordInput struct {
	UserID      uint
	OldPassword string
	NewPassword string
}

func NewUserService(d UserServiceDeps) *UserService {
	return &UserService{
		userRepo:     d.Users,
		subRepo:      d.Subs,
		historyRepo:  d.History,
		playlistRepo: d.Playlists,
		likeRepo:     d.Likes,
		comments:     d.Comments,
		videos:       d.Videos,
		tweets:       d.Tweets,
		media:        d.Media,
	}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))
	fullName := strings.TrimSpace(in.FullName)

	if username == "" || email == "" || fullName == "" || in.Password == "" {
		return nil, models.NewValidationError("All fields are required")
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateFullName(fullName); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if len(in.Avatar) == 0 {
		return nil, models.NewValidationError("Avatar is required")
	}

	existing, err := s.userRepo.GetByLogin(ctx, username)
	if err == nil && existing == nil {
		existing, err = s.userRepo.GetByLogin(ctx, email)
	}
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("User with email or username already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	// Images are stored under owner 0 until the account has an id.
	avatar, err := s.media.UploadImage(ctx, 0, media.ImageAvatar, in.Avatar, in.AvatarType)
	if err != nil {
		return nil, err
	}
	var cover string
	if len(in.Cover) > 0 {
		if cover, err = s.media.UploadImage(ctx, 0, media.ImageCover, in.Cover, in.CoverType); err != nil {
			s.media.Delete(ctx, avatar)
			return nil, err
		}
	}

	user := &models.User{
		Username:   username,
		Email:      email,
		FullName:   fullName,
		Password:   string(hashed),
		Avatar:     avatar,
		CoverImage: cover,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.media.Delete(ctx, avatar, cover)
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateAccount(ctx context.Context, in UpdateAccountInput) (*models.User, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if fullName == "" && email == "" {
		return nil, models.NewValidationError("Full name or email is required")
	}

	user, err := s.userRepo.GetCredentials(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if fullName != "" {
		if err := validation.ValidateFullName(fullName); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.FullName = fullName
	}
	if email != "" {
		if err := validation.ValidateEmail(email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = email
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if in.OldPassword == "" || in.NewPassword == "" {
		return models.NewValidationError("Old and new passwords are required")
	}
	user, err := s.userRepo.GetCredentials(ctx, in.UserID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.OldPassword)) != nil {
		return models.NewValidationError("Invalid old password")
	}
	if err := validation.ValidatePassword(in.NewPassword); err != nil {
		return models.NewValidationError(err.Error())
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = string(hashed)
	return s.userRepo.Update(ctx, user)
}

// UpdateImage replaces the avatar or cover image and deletes the previous object.
func (s *UserService) UpdateImage(ctx context.Context, userID uint, kind media.ImageKind, content []byte, contentType string) (*models.User, error) {
	if kind != media.ImageAvatar && kind != media.ImageCover {
		return nil, models.NewValidationError("Unknown image kind")
	}
	if len(content) == 0 {
		if kind == media.ImageAvatar {
			return nil, models.NewValidationError("Avatar file is missing")
		}
		return nil, models.NewValidationError("Cover Image file is missing")
	}

	user, err := s.userRepo.GetCredentials(ctx, userID)
	if err != nil {
		return nil, err
	}
	url, err := s.media.UploadImage(ctx, userID, kind, content, contentType)
	if err != nil {
		return nil, err
	}

	var previous string
	if kind == media.ImageAvatar {
		previous, user.Avatar = user.Avatar, url
	} else {
		previous, user.CoverImage = user.CoverImage, url
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.media.Delete(ctx, url)
		return nil, err
	}
	s.media.Delete(ctx, previous)
	return user, nil
}

// Channel returns the public profile of username as seen by viewerID.
func (s *UserService) Channel(ctx context.Context, username string, viewerID uint) (*models.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, models.NewValidationError("Username is required")
	}

	var profile models.ChannelProfile
	err := cache.Aside(ctx, cache.ChannelKey(username), &profile, cache.ChannelTTL, func() error {
		user, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if user == nil {
			return models.NewNotFoundMessage("Channel Not Found")
		}
		subscribers, err := s.subRepo.CountSubscribers(ctx, user.ID)
		if err != nil {
			return err
		}
		subscribedTo, err := s.subRepo.CountSubscriptions(ctx, user.ID)
		if err != nil {
			return err
		}
		profile = models.ChannelProfile{
			ID:                        user.ID,
			Username:                  user.Username,
			FullName:                  user.FullName,
			Email:                     user.Email,
			Avatar:                    user.Avatar,
			CoverImage:                user.CoverImage,
			SubscribersCount:          subscribers,
			ChannelsSubscribedToCount: subscribedTo,
			CreatedAt:                 user.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if viewerID != 0 && viewerID != profile.ID {
		ok, err := s.subRepo.IsSubscribed(ctx, viewerID, profile.ID)
		if err != nil {
			return nil, err
		}
		profile.IsSubscribed = ok
	}
	return &profile, nil
}

// DeleteAccount removes the user and everything they own.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetCredentials(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.videos.DeleteByOwner(ctx, userID); err != nil {
		return err
	}
	if err := s.tweets.DeleteByOwner(ctx, userID); err != nil {
		return err
	}
	if err := s.comments.DeleteByOwner(ctx, userID); err != nil {
		return err
	}
	if err := s.likeRepo.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	if err := s.playlistRepo.DeleteForOwner(ctx, userID); err != nil {
		return err
	}
	if err := s.subRepo.DeleteForUser(ctx, userID); err != nil {
		return err
	}
	if err := s.historyRepo.DeleteForUser(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, user); err != nil {
		return err
	}
	s.media.Delete(ctx, user.Avatar, user.CoverImage)
	return nil
}

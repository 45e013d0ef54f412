package server

import (
	"time"

	"github.com/RahulLalwani5726/Stream-X/internal/middleware"
	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Register handles POST /api/v1/users/register
// @Summary Register
// @Description Create an account. Avatar is required, cover image optional.
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param username formData string true "Username"
// @Param email formData string true "Email"
// @Param fullname formData string true "Full name"
// @Param password formData string true "Password"
// @Param avatar formData file true "Avatar image"
// @Param coverImage formData file false "Cover image"
// @Success 201 {object} models.Envelope{Data=models.User}
// @Failure 400 {object} models.Envelope
// @Failure 409 {object} models.Envelope
// @Router /users/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	avatar, avatarType, err := formFile(c, "avatar")
	if err != nil {
		return s.fail(c, err)
	}
	cover, coverType, err := formFile(c, "coverImage")
	if err != nil {
		return s.fail(c, err)
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Username:   c.FormValue("username"),
		Email:      c.FormValue("email"),
		FullName:   c.FormValue("fullname"),
		Password:   c.FormValue("password"),
		Avatar:     avatar,
		AvatarType: avatarType,
		Cover:      cover,
		CoverType:  coverType,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, "User Registered", user)
}

// Login handles POST /api/v1/users/login
// @Summary Log in
// @Description Authenticate by username or email. Tokens are returned and set as httpOnly cookies.
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{email=string,username=string,password=string} true "Credentials"
// @Success 200 {object} models.Envelope
// @Failure 401 {object} models.Envelope
// @Router /users/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email" form:"email"`
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}
	if err := bind(c, &req); err != nil {
		return nil
	}

	identifier := req.Email
	if identifier == "" {
		identifier = req.Username
	}
	user, pair, err := s.authService.Login(c.UserContext(), identifier, req.Password)
	if err != nil {
		return s.fail(c, err)
	}

	s.setAuthCookies(c, pair)
	return models.Respond(c, fiber.StatusOK, "User Logged In", fiber.Map{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// RefreshToken handles POST /api/v1/users/refresh-token
// @Summary Rotate tokens
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{refreshToken=string} false "Refresh token when no cookie is sent"
// @Success 200 {object} models.Envelope
// @Failure 401 {object} models.Envelope
// @Router /users/refresh-token [post]
func (s *Server) RefreshToken(c *fiber.Ctx) error {
	token := c.Cookies(middleware.RefreshTokenCookie)
	if token == "" {
		var req struct {
			RefreshToken string `json:"refreshToken" form:"refreshToken"`
		}
		if err := bind(c, &req); err != nil {
			return nil
		}
		token = req.RefreshToken
	}

	_, pair, err := s.authService.Refresh(c.UserContext(), token)
	if err != nil {
		return s.fail(c, err)
	}

	s.setAuthCookies(c, pair)
	return models.Respond(c, fiber.StatusOK, "Access Token Refreshed", pair)
}

// Logout handles POST /api/v1/users/logout
// @Summary Log out
// @Description Revokes the current access token and the refresh token.
// @Tags users
// @Produce json
// @Success 200 {object} models.Envelope
// @Router /users/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	in := service.LogoutInput{RefreshToken: c.Cookies(middleware.RefreshTokenCookie)}
	if jti, ok := c.Locals("tokenJTI").(string); ok {
		in.AccessJTI = jti
	}
	if claims, ok := c.Locals("tokenClaims").(jwt.MapClaims); ok {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			in.AccessExpiry = exp.Time
		}
	}
	if in.RefreshToken == "" {
		var req struct {
			RefreshToken string `json:"refreshToken" form:"refreshToken"`
		}
		if err := bind(c, &req); err != nil {
			return nil
		}
		in.RefreshToken = req.RefreshToken
	}

	if err := s.authService.Logout(c.UserContext(), in); err != nil {
		return s.fail(c, err)
	}

	s.clearAuthCookies(c)
	return models.Respond(c, fiber.StatusOK, "User Logged Out", fiber.Map{})
}

// ChangePassword handles POST /api/v1/users/change-password
// @Summary Change password
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{oldPassword=string,newPassword=string} true "Passwords"
// @Success 200 {object} models.Envelope
// @Failure 400 {object} models.Envelope
// @Router /users/change-password [post]
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	var req struct {
		OldPassword string `json:"oldPassword" form:"oldPassword"`
		NewPassword string `json:"newPassword" form:"newPassword"`
	}
	if err := bind(c, &req); err != nil {
		return nil
	}

	if err := s.userService.ChangePassword(c.UserContext(), service.ChangePasswordInput{
		UserID:      middleware.UserID(c),
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	}); err != nil {
		return s.fail(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Password Changed Successfully", fiber.Map{})
}

func (s *Server) setAuthCookies(c *fiber.Ctx, pair *service.TokenPair) {
	s.setCookie(c, middleware.AccessTokenCookie, pair.AccessToken, pair.AccessExpiresAt)
	s.setCookie(c, middleware.RefreshTokenCookie, pair.RefreshToken, pair.RefreshExpiresAt)
}

func (s *Server) clearAuthCookies(c *fiber.Ctx) {
	past := time.Unix(0, 0)
	s.setCookie(c, middleware.AccessTokenCookie, "", past)
	s.setCookie(c, middleware.RefreshTokenCookie, "", past)
}

func (s *Server) setCookie(c *fiber.Ctx, name, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

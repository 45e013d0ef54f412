package models

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Status(t *testing.T) {
	t.Parallel()

	cases := map[*AppError]int{
		NewValidationError("bad"):                     fiber.StatusBadRequest,
		NewAuthenticationError("who"):                 fiber.StatusUnauthorized,
		NewAuthorizationError("nope"):                 fiber.StatusForbidden,
		NewUnauthorizedError("legacy"):                fiber.StatusForbidden,
		NewNotFoundError("Comment", 7):                fiber.StatusNotFound,
		NewConflictError("dup"):                       fiber.StatusConflict,
		NewDependencyError("store", errors.New("x")):  fiber.StatusServiceUnavailable,
		NewInternalError(errors.New("boom")):          fiber.StatusInternalServerError,
		{Code: "SOMETHING_NEW", Message: "unmapped"}:  fiber.StatusInternalServerError,
	}
	for appErr, want := range cases {
		assert.Equal(t, want, appErr.Status(), appErr.Code)
	}
}

func TestStatusOf_WrappedAppError(t *testing.T) {
	t.Parallel()

	wrapped := errors.Join(errors.New("context"), NewNotFoundError("Video", 3))
	assert.Equal(t, fiber.StatusNotFound, StatusOf(wrapped))
	assert.True(t, IsCode(wrapped, CodeNotFound))
	assert.Equal(t, fiber.StatusInternalServerError, StatusOf(errors.New("plain")))
}

func TestParseTargetKind(t *testing.T) {
	t.Parallel()

	kind, ok := ParseTargetKind(" Video ")
	require.True(t, ok)
	assert.Equal(t, TargetVideo, kind)
	assert.True(t, kind.IsTopLevel())

	kind, ok = ParseTargetKind("comment")
	require.True(t, ok)
	assert.False(t, kind.IsTopLevel())

	_, ok = ParseTargetKind("playlist")
	assert.False(t, ok)
}

func TestRespondWithError_HidesInternalCause(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Get("/dep", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusServiceUnavailable,
			NewDependencyError("comment store", errors.New("dial tcp 10.0.0.1: refused")))
	})
	app.Get("/raw", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError, errors.New("pq: secret detail"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/dep", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	var env map[string]any
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Equal(t, float64(503), env["statusCode"])
	assert.Equal(t, "comment store unavailable", env["message"])
	assert.Equal(t, CodeDependency, env["code"])
	assert.Nil(t, env["Data"])
	assert.NotContains(t, string(body), "10.0.0.1")

	resp, err = app.Test(httptest.NewRequest("GET", "/raw", nil))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "secret detail")
}

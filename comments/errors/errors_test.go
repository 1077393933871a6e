package errors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusFor(t *testing.T, err error) int {
	t.Helper()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return HandleServiceError(c, err)
	})

	resp, reqErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, reqErr)
	return resp.StatusCode
}

func TestHandleServiceError_StatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(t, ErrCommentNotFound))
	assert.Equal(t, http.StatusNotFound, statusFor(t, ErrCopilotNotFound))
	assert.Equal(t, http.StatusForbidden, statusFor(t, ErrCommentOwnershipRequired))
	assert.Equal(t, http.StatusBadRequest, statusFor(t, ErrInvalidCommentText))
	assert.Equal(t, http.StatusBadRequest, statusFor(t, ErrInvalidRating))
	assert.Equal(t, http.StatusBadRequest, statusFor(t, ErrInvalidCommentId))
	assert.Equal(t, http.StatusBadRequest, statusFor(t, ErrInvalidCopilotId))
	assert.Equal(t, http.StatusInternalServerError, statusFor(t, assert.AnError))
}

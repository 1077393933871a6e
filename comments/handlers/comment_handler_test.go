package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	commenterrors "github.com/YuumiDiary/MaaBackendCenter/comments/errors"
	"github.com/YuumiDiary/MaaBackendCenter/comments/models"
	"github.com/YuumiDiary/MaaBackendCenter/comments/services"
	"github.com/YuumiDiary/MaaBackendCenter/comments/services/mocks"
	"github.com/YuumiDiary/MaaBackendCenter/internal/types"
)

var _ services.CommentService = (*mocks.MockCommentService)(nil)

// withUser injects a user context the way the auth middleware does.
func withUser(user types.UserContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(types.UserCtxName, user)
		return c.Next()
	}
}

func newTestApp(svc services.CommentService, user *types.UserContext) *fiber.App {
	app := fiber.New()
	h := NewCommentHandler(svc)

	group := app.Group("/comments")
	if user != nil {
		group.Use(withUser(*user))
	}
	group.Get("/", h.GetThreads)
	group.Get("/:commentId", h.GetComment)
	group.Post("/", h.CreateComment)
	group.Put("/rating", h.RateComment)
	group.Delete("/:commentId", h.DeleteComment)

	return app
}

func testUser() types.UserContext {
	userID, _ := uuid.NewV4()
	return types.UserContext{UserID: userID, Username: "tester@example.com", SystemRole: "user"}
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	payload, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(payload)
}

func TestGetThreads_ValidQuery_ReturnsPage(t *testing.T) {
	svc := new(mocks.MockCommentService)
	copilotID, _ := uuid.NewV4()

	svc.On("QueryThreads", mock.Anything, mock.MatchedBy(func(f *models.ThreadQueryFilter) bool {
		return f.CopilotId == copilotID && f.Page == 2 && f.OrderBy == "hot" && f.Descending
	})).Return(&models.ThreadListResponse{
		HasNext: true,
		Page:    3,
		Total:   25,
		Threads: []models.CommentInfo{},
	}, nil)

	app := newTestApp(svc, nil)
	req := httptest.NewRequest(http.MethodGet,
		"/comments/?copilotId="+copilotID.String()+"&page=2&limit=10&orderBy=hot&desc=true", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.ThreadListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.HasNext)
	assert.Equal(t, 3, body.Page)
	assert.Equal(t, int64(25), body.Total)
	svc.AssertExpectations(t)
}

func TestGetThreads_MalformedCopilotID_ReturnsBadRequest(t *testing.T) {
	svc := new(mocks.MockCommentService)
	app := newTestApp(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/comments/?copilotId=not-a-uuid", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	svc.AssertNotCalled(t, "QueryThreads", mock.Anything, mock.Anything)
}

func TestCreateComment_Authorized_ReturnsCreated(t *testing.T) {
	svc := new(mocks.MockCommentService)
	user := testUser()
	copilotID, _ := uuid.NewV4()
	commentID, _ := uuid.NewV4()

	svc.On("CreateComment", mock.Anything, mock.AnythingOfType("*models.CreateCommentRequest"), user).
		Return(&models.Comment{
			ObjectId:    commentID,
			CopilotId:   copilotID,
			OwnerUserId: user.UserID,
			Text:        "nice work",
		}, nil)

	app := newTestApp(svc, &user)
	req := httptest.NewRequest(http.MethodPost, "/comments/", jsonBody(t, models.CreateCommentRequest{
		CopilotId: copilotID,
		Text:      "nice work",
	}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestCreateComment_NoUserContext_ReturnsUnauthorized(t *testing.T) {
	svc := new(mocks.MockCommentService)
	copilotID, _ := uuid.NewV4()

	app := newTestApp(svc, nil)
	req := httptest.NewRequest(http.MethodPost, "/comments/", jsonBody(t, models.CreateCommentRequest{
		CopilotId: copilotID,
		Text:      "anonymous",
	}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	svc.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything, mock.Anything)
}

func TestRateComment_InvalidRating_ReturnsBadRequest(t *testing.T) {
	svc := new(mocks.MockCommentService)
	user := testUser()
	commentID, _ := uuid.NewV4()

	svc.On("RateComment", mock.Anything, mock.AnythingOfType("*models.RateCommentRequest"), user).
		Return(nil, commenterrors.ErrInvalidRating)

	app := newTestApp(svc, &user)
	req := httptest.NewRequest(http.MethodPut, "/comments/rating", jsonBody(t, models.RateCommentRequest{
		CommentId: commentID,
		Rating:    "Sideways",
	}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body commenterrors.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, commenterrors.CodeInvalidRating, body.Code)
}

func TestDeleteComment_NotOwner_ReturnsForbidden(t *testing.T) {
	svc := new(mocks.MockCommentService)
	user := testUser()
	commentID, _ := uuid.NewV4()

	svc.On("DeleteComment", mock.Anything, commentID, user).
		Return(commenterrors.ErrCommentOwnershipRequired)

	app := newTestApp(svc, &user)
	req := httptest.NewRequest(http.MethodDelete, "/comments/"+commentID.String(), nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDeleteComment_Owner_ReturnsNoContent(t *testing.T) {
	svc := new(mocks.MockCommentService)
	user := testUser()
	commentID, _ := uuid.NewV4()

	svc.On("DeleteComment", mock.Anything, commentID, user).Return(nil)

	app := newTestApp(svc, &user)
	req := httptest.NewRequest(http.MethodDelete, "/comments/"+commentID.String(), nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestGetComment_NotFound_ReturnsNotFound(t *testing.T) {
	svc := new(mocks.MockCommentService)
	commentID, _ := uuid.NewV4()

	svc.On("GetComment", mock.Anything, commentID).Return(nil, commenterrors.ErrCommentNotFound)

	app := newTestApp(svc, nil)
	req := httptest.NewRequest(http.MethodGet, "/comments/"+commentID.String(), nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

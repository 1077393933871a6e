package validation

import (
	"strings"

	"github.com/YuumiDiary/MaaBackendCenter/comments/errors"
	"github.com/YuumiDiary/MaaBackendCenter/comments/models"
	uuid "github.com/gofrs/uuid"
)

const maxCommentTextLength = 1000

// ValidateCreateCommentRequest validates the fields of a create request.
func ValidateCreateCommentRequest(req *models.CreateCommentRequest) error {
	if req.CopilotId == uuid.Nil {
		return errors.ErrInvalidCopilotId
	}
	if err := ValidateCommentText(req.Text); err != nil {
		return err
	}
	return nil
}

// ValidateCommentText checks the comment body for emptiness and length.
func ValidateCommentText(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return errors.ErrInvalidCommentText
	}
	if len(text) > maxCommentTextLength {
		return errors.ErrInvalidCommentText
	}
	return nil
}

// ValidateRateCommentRequest validates the fields of a rating request.
func ValidateRateCommentRequest(req *models.RateCommentRequest) error {
	if req.CommentId == uuid.Nil {
		return errors.ErrInvalidCommentId
	}
	if !models.IsValidRating(req.Rating) {
		return errors.ErrInvalidRating
	}
	return nil
}

// SanitizeThreadQueryFilter applies page and limit defaults and bounds.
func SanitizeThreadQueryFilter(filter *models.ThreadQueryFilter) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
}

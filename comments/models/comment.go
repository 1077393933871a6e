package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	uuid "github.com/gofrs/uuid"
)

// Rating values a user may assign to a comment. Only RatingLike counts
// toward a comment's like tally.
const (
	RatingLike    = "Like"
	RatingDislike = "Dislike"
	RatingNone    = "None"
)

// IsValidRating reports whether the given value is an accepted rating.
func IsValidRating(rating string) bool {
	switch rating {
	case RatingLike, RatingDislike, RatingNone:
		return true
	}
	return false
}

// RaterMap maps a rater's user id to their rating value. It is persisted as
// a single JSONB column so a comment's ratings travel with the record.
type RaterMap map[string]string

// LikeTally counts entries whose value equals RatingLike.
func (m RaterMap) LikeTally() int64 {
	var tally int64
	for _, rating := range m {
		if rating == RatingLike {
			tally++
		}
	}
	return tally
}

// Value implements driver.Valuer for JSONB storage.
func (m RaterMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB storage.
func (m *RaterMap) Scan(src interface{}) error {
	if src == nil {
		*m = RaterMap{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported raters column type %T", src)
	}

	if len(data) == 0 {
		*m = RaterMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// Comment represents the complete comment entity in the database
type Comment struct {
	ObjectId         uuid.UUID  `json:"objectId" db:"id"`
	CopilotId        uuid.UUID  `json:"copilotId" db:"copilot_id"`
	OwnerUserId      uuid.UUID  `json:"ownerUserId" db:"owner_user_id"`
	MainCommentId    *uuid.UUID `json:"mainCommentId,omitempty" db:"main_comment_id"`
	ReplyToCommentId *uuid.UUID `json:"replyToCommentId,omitempty" db:"reply_to_comment_id"`
	Text             string     `json:"text" db:"text"`
	Raters           RaterMap   `json:"raters" db:"raters"`
	LikeCount        int64      `json:"likeCount" db:"like_count"`
	Deleted          bool       `json:"deleted" db:"is_deleted"`
	DeletedDate      int64      `json:"deletedDate" db:"deleted_date"`
	CreatedDate      int64      `json:"createdDate" db:"created_date"`
	LastUpdated      int64      `json:"lastUpdated" db:"last_updated"`
}

// IsRoot reports whether the comment is a top-level comment.
func (c *Comment) IsRoot() bool {
	return c.MainCommentId == nil || *c.MainCommentId == uuid.Nil
}

// CreateCommentRequest represents the request payload for creating a comment
type CreateCommentRequest struct {
	CopilotId        uuid.UUID  `json:"copilotId" validate:"required"`
	Text             string     `json:"text" validate:"required,min=1,max=1000"`
	ReplyToCommentId *uuid.UUID `json:"replyToCommentId,omitempty"`
}

// RateCommentRequest represents the request payload for rating a comment
type RateCommentRequest struct {
	CommentId uuid.UUID `json:"commentId" validate:"required"`
	Rating    string    `json:"rating" validate:"required"`
}

// ThreadQueryFilter represents query parameters for listing comment threads
type ThreadQueryFilter struct {
	CopilotId  uuid.UUID `json:"copilotId" schema:"copilotId"`
	Page       int       `json:"page,omitempty" schema:"page"`
	Limit      int       `json:"limit" schema:"limit"`
	OrderBy    string    `json:"orderBy,omitempty" schema:"orderBy"`
	Descending bool      `json:"desc,omitempty" schema:"desc"`
}

// SubCommentInfo is the read model for a reply inside a thread.
type SubCommentInfo struct {
	ObjectId         string `json:"objectId"`
	CopilotId        string `json:"copilotId"`
	OwnerUserId      string `json:"ownerUserId"`
	MainCommentId    string `json:"mainCommentId"`
	ReplyToCommentId string `json:"replyToCommentId,omitempty"`
	ReplyTo          string `json:"replyTo"`
	Uploader         string `json:"uploader"`
	Text             string `json:"text"`
	LikeCount        int64  `json:"likeCount"`
	CreatedDate      int64  `json:"createdDate"`
}

// CommentInfo is the read model for a top-level comment and its replies.
type CommentInfo struct {
	ObjectId    string           `json:"objectId"`
	CopilotId   string           `json:"copilotId"`
	OwnerUserId string           `json:"ownerUserId"`
	Uploader    string           `json:"uploader"`
	Text        string           `json:"text"`
	LikeCount   int64            `json:"likeCount"`
	CreatedDate int64            `json:"createdDate"`
	SubComments []SubCommentInfo `json:"subComments"`
}

// ThreadListResponse is the paginated response for thread queries. Page
// carries the total page count for the query, not the requested page index.
type ThreadListResponse struct {
	HasNext bool          `json:"hasNext"`
	Page    int           `json:"page"`
	Total   int64         `json:"total"`
	Threads []CommentInfo `json:"data"`
}

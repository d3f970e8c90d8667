package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxTitleLength is counted in characters, not bytes.
const MaxTitleLength = 80

type Post struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Title          string    `json:"title" db:"title"`
	Content        string    `json:"content" db:"content"`
	ImageURL       *string   `json:"image_url" db:"image_url"`
	AuthorID       uuid.UUID `json:"author_id" db:"author_id"`
	AuthorUsername string    `json:"author_username" db:"author_username"` // Joined from users
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	LikeCount      int       `json:"like_count" db:"like_count"`
	ViewCount      int       `json:"view_count" db:"view_count"`
}

// PostDetail is the single-post read model: the stored post plus the caller's engagement.
type PostDetail struct {
	Post
	IsLiked  bool `json:"is_liked"`
	IsViewed bool `json:"is_viewed"`
}

// PostUpdate carries the optional fields of a post edit. Nil means unchanged.
type PostUpdate struct {
	Title    *string
	Content  *string
	ImageURL *string
}

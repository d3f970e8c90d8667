package api

import "boom-blog/internal/models"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by login; the refresh token travels only in its cookie.
type AuthResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	IsActive *bool   `json:"is_active"`
	IsAdmin  *bool   `json:"is_admin"`
}

type PostRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ImageURL *string `json:"image_url"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

type ImageUploadResponse struct {
	ImageURL string `json:"image_url"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	Database   string `json:"database"`
	ServerTime string `json:"server_time"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

const TokenTypeBearer = "bearer"

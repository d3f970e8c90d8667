package engine

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"boom-blog/internal/models"
	"boom-blog/internal/utils"
)

const (
	maxUsernameLength = 50
	maxEmailLength    = 255
	maxContentLength  = 20000
	maxCommentLength  = 2000
)

var usernameUnsafe = regexp.MustCompile(`[^a-z0-9._-]+`)

// normalizeEmail lower-cases and trims, then requires a bare address (no display name).
func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", utils.NewInvalidInputError("email is required")
	}
	if len(email) > maxEmailLength {
		return "", utils.NewInvalidInputError("email is too long")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", utils.NewInvalidInputError("invalid email address")
	}
	return email, nil
}

func validateUsername(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", utils.NewInvalidInputError("username must not be empty")
	}
	if utf8.RuneCountInString(name) > maxUsernameLength {
		return "", utils.NewInvalidInputError("username is too long")
	}
	return name, nil
}

func validateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", utils.NewInvalidInputError("title must not be empty")
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLength {
		return "", utils.NewInvalidInputError("title must be at most 80 characters")
	}
	return title, nil
}

func validateBody(raw, what string, max int) (string, error) {
	body := strings.TrimSpace(raw)
	if body == "" {
		return "", utils.NewInvalidInputError(what + " must not be empty")
	}
	if utf8.RuneCountInString(body) > max {
		return "", utils.NewInvalidInputError(what + " is too long")
	}
	return body, nil
}

// usernameFromEmail derives a handle from the local part of an address.
func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	name := strings.Trim(usernameUnsafe.ReplaceAllString(local, ""), "._-")
	if name == "" {
		name = "user"
	}
	if len(name) > 30 {
		name = name[:30]
	}
	return name
}

package auth

import (
	"errors"

	"boom-blog/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is fixed so hashes are comparable in cost across deployments.
const PasswordCost = bcrypt.DefaultCost

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", utils.NewInvalidInputError("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", utils.NewInvalidInputError("password must be at most 72 bytes")
		}
		return "", utils.NewAppError(utils.ErrInternal, "failed to hash password", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
// A mismatch is (false, nil); only a malformed hash is an error.
func CheckPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, utils.NewAppError(utils.ErrInternal, "failed to compare password hash", err)
		}
	}
	return true, nil
}

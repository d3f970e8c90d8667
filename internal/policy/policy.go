// Package policy holds the authorization rules. Every check is a pure function of the
// caller's identity and the already-loaded target, so existence is always checked first.
package policy

import (
	"boom-blog/internal/auth"
	"boom-blog/internal/models"
	"boom-blog/internal/utils"

	"github.com/google/uuid"
)

const (
	msgNotAuthenticated = "Not authenticated"
	msgInactive         = "Inactive account"
	msgAdminRequired    = "Admin privileges required"
	msgNotEnough        = "Not enough permissions"
	msgSelf             = "Cannot perform this action on your own account"
)

func requireAuthenticated(actor auth.Identity) error {
	if actor.IsAnonymous() {
		return utils.NewUnauthorizedError(msgNotAuthenticated)
	}
	return nil
}

// requireActive allows only authenticated, active accounts.
func requireActive(actor auth.Identity) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.IsActive() {
		return utils.NewForbiddenError(msgInactive)
	}
	return nil
}

// requireAdmin is default-deny: anything short of an active admin account is refused.
func requireAdmin(actor auth.Identity) error {
	if err := requireActive(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return utils.NewForbiddenError(msgAdminRequired)
	}
	return nil
}

func requireOwnerOrAdmin(actor auth.Identity, ownerID uuid.UUID) error {
	if err := requireActive(actor); err != nil {
		return err
	}
	if actor.UserID() != ownerID && !actor.IsAdmin() {
		return utils.NewForbiddenError(msgNotEnough)
	}
	return nil
}

// ReadUser: self or admin. An inactive account may still read its own profile.
func ReadUser(actor auth.Identity, targetID uuid.UUID) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	if actor.UserID() == targetID || actor.IsAdmin() {
		return nil
	}
	return utils.NewForbiddenError(msgNotEnough)
}

func ListUsers(actor auth.Identity) error {
	return requireAdmin(actor)
}

// UpdateUser: self or admin. Status flags are admin-only and never on the caller's own account.
func UpdateUser(actor auth.Identity, targetID uuid.UUID, update models.UserUpdate) error {
	if err := requireOwnerOrAdmin(actor, targetID); err != nil {
		return err
	}
	if update.IsActive != nil || update.IsAdmin != nil {
		if !actor.IsAdmin() {
			return utils.NewForbiddenError(msgAdminRequired)
		}
		if actor.UserID() == targetID {
			return utils.NewForbiddenError(msgSelf)
		}
	}
	return nil
}

// DeleteUser deactivates an account: admin only, never the caller's own.
func DeleteUser(actor auth.Identity, targetID uuid.UUID) error {
	return adminOnOther(actor, targetID)
}

func ToggleUserActive(actor auth.Identity, targetID uuid.UUID) error {
	return adminOnOther(actor, targetID)
}

func adminOnOther(actor auth.Identity, targetID uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if actor.UserID() == targetID {
		return utils.NewForbiddenError(msgSelf)
	}
	return nil
}

func CreatePost(actor auth.Identity) error {
	return requireActive(actor)
}

// ModifyPost covers update and delete: author or admin.
func ModifyPost(actor auth.Identity, post *models.Post) error {
	return requireOwnerOrAdmin(actor, post.AuthorID)
}

func TogglePostActive(actor auth.Identity) error {
	return requireAdmin(actor)
}

func CreateComment(actor auth.Identity) error {
	return requireActive(actor)
}

// ModifyComment covers edit and delete: owner or admin.
func ModifyComment(actor auth.Identity, comment *models.Comment) error {
	return requireOwnerOrAdmin(actor, comment.UserID)
}

// Moderate gates the admin listings of users and posts.
func Moderate(actor auth.Identity) error {
	return requireAdmin(actor)
}

// ModerateComments covers approving, hard-deleting and listing comments for review.
func ModerateComments(actor auth.Identity) error {
	return requireAdmin(actor)
}

// Engage covers likes and views.
func Engage(actor auth.Identity) error {
	return requireActive(actor)
}

// SeesInactivePosts reports whether listings should include deactivated posts.
func SeesInactivePosts(actor auth.Identity) bool {
	return actor.IsAdmin()
}

// SeesComment: admins see everything, owners see their own, everyone else only approved comments.
func SeesComment(actor auth.Identity, comment *models.Comment) bool {
	if comment.IsApproved || actor.IsAdmin() {
		return true
	}
	return !actor.IsAnonymous() && actor.UserID() == comment.UserID
}

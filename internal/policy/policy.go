// Package policy holds the stateless access-control predicates for the API.
//
// Every predicate takes the caller identity explicitly; a nil *domain.User
// means an anonymous caller. Predicates that return an error distinguish
// errors.ErrUnauthorized (no identity where one is required) from
// errors.ErrForbidden (identity present but insufficient role/ownership),
// so the transport layer can map them to 401 and 403 respectively.
//
// Collection-level checks are evaluated before object-level checks; a
// collection-level failure short-circuits and the object is never consulted.
package policy

import (
	"github.com/critiqueapp/critique-server/internal/domain"
	"github.com/critiqueapp/critique-server/internal/errors"
)

// CanReadCatalog reports whether the caller may read categories, genres,
// titles, reviews, and comments. Reads are public, anonymous included.
func CanReadCatalog(_ *domain.User) bool {
	return true
}

// CanWriteCatalog reports whether the caller may create, update, or delete
// categories, genres, and titles.
func CanWriteCatalog(u *domain.User) bool {
	return u != nil && u.IsAdmin()
}

// CanCreatePublication reports whether the caller may create a review or
// comment. Any authenticated user qualifies, regardless of role.
func CanCreatePublication(u *domain.User) bool {
	return u != nil
}

// CanModeratePublication reports whether the caller may edit or delete a
// review or comment authored by authorID. The author, moderators, and
// admins (superusers included) all qualify.
func CanModeratePublication(u *domain.User, authorID string) bool {
	if u == nil {
		return false
	}
	return u.IsAdmin() || u.IsModerator() || u.ID == authorID
}

// CanManageUsers reports whether the caller may administer user accounts.
func CanManageUsers(u *domain.User) bool {
	return u != nil && u.IsAdmin()
}

// RequireAuthenticated returns an error unless the caller is authenticated.
func RequireAuthenticated(u *domain.User) error {
	if u == nil {
		return errors.Unauthorized("authentication required")
	}
	return nil
}

// RequireCatalogWrite gates catalogue mutations behind admin rights.
func RequireCatalogWrite(u *domain.User) error {
	if u == nil {
		return errors.Unauthorized("authentication required")
	}
	if !CanWriteCatalog(u) {
		return errors.Forbidden("administrator rights required")
	}
	return nil
}

// RequirePublicationCreate gates review/comment creation behind authentication.
func RequirePublicationCreate(u *domain.User) error {
	if !CanCreatePublication(u) {
		return errors.Unauthorized("authentication required")
	}
	return nil
}

// RequirePublicationModify gates review/comment edits behind the
// object-level ownership rule. The collection-level authentication check
// must already have passed; this only decides ownership and role.
func RequirePublicationModify(u *domain.User, authorID string) error {
	if u == nil {
		return errors.Unauthorized("authentication required")
	}
	if !CanModeratePublication(u, authorID) {
		return errors.Forbidden("moderator, administrator, or author rights required")
	}
	return nil
}

// RequireUserAdmin gates the user administration surface.
func RequireUserAdmin(u *domain.User) error {
	if u == nil {
		return errors.Unauthorized("authentication required")
	}
	if !CanManageUsers(u) {
		return errors.Forbidden("administrator rights required")
	}
	return nil
}

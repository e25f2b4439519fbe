package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critiqueapp/critique-server/internal/domain"
	"github.com/critiqueapp/critique-server/internal/errors"
)

func TestUserAdminSurfaceRequiresAdmin(t *testing.T) {
	st := newTestStore(t)
	svc := NewUserService(st, testLogger)
	ctx := context.Background()

	plain := seedUser(t, st, "plain", domain.RoleUser)
	moderator := seedUser(t, st, "mod", domain.RoleModerator)

	_, err := svc.ListUsers(ctx, nil)
	assert.ErrorIs(t, err, errors.ErrUnauthorized)

	_, err = svc.ListUsers(ctx, plain)
	assert.ErrorIs(t, err, errors.ErrForbidden)

	// Moderation rights do not extend to account administration.
	_, err = svc.GetUser(ctx, moderator, "plain")
	assert.ErrorIs(t, err, errors.ErrForbidden)

	err = svc.DeleteUser(ctx, plain, "mod")
	assert.ErrorIs(t, err, errors.ErrForbidden)
}

func TestSuperuserActsAsAdmin(t *testing.T) {
	st := newTestStore(t)
	svc := NewUserService(st, testLogger)
	ctx := context.Background()

	root := seedUser(t, st, "root", domain.RoleUser)
	root.IsSuperuser = true
	require.NoError(t, st.UpdateUser(ctx, root))

	users, err := svc.ListUsers(ctx, root)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAdminCreateUser(t *testing.T) {
	st := newTestStore(t)
	svc := NewUserService(st, testLogger)
	ctx := context.Background()

	admin := seedUser(t, st, "admin", domain.RoleAdmin)

	created, err := svc.CreateUser(ctx, admin, CreateUserRequest{
		Username: "carol",
		Email:    "carol@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, created.Role, "role defaults to user")

	mod, err := svc.CreateUser(ctx, admin, CreateUserRequest{
		Username: "dave",
		Email:    "dave@example.com",
		Role:     "moderator",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleModerator, mod.Role)

	_, err = svc.CreateUser(ctx, admin, CreateUserRequest{
		Username: "eve",
		Email:    "eve@example.com",
		Role:     "overlord",
	})
	assert.ErrorIs(t, err, errors.ErrValidation)

	_, err = svc.CreateUser(ctx, admin, CreateUserRequest{
		Username: "carol",
		Email:    "other@example.com",
	})
	assert.ErrorIs(t, err, errors.ErrConflict)
}

func TestAdminUpdateUserRole(t *testing.T) {
	st := newTestStore(t)
	svc := NewUserService(st, testLogger)
	ctx := context.Background()

	admin := seedUser(t, st, "admin", domain.RoleAdmin)
	seedUser(t, st, "carol", domain.RoleUser)

	role := "moderator"
	updated, err := svc.UpdateUser(ctx, admin, "carol", UpdateUserRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleModerator, updated.Role)

	bad := "overlord"
	_, err = svc.UpdateUser(ctx, admin, "carol", UpdateUserRequest{Role: &bad})
	assert.ErrorIs(t, err, errors.ErrValidation)

	_, err = svc.UpdateUser(ctx, admin, "ghost", UpdateUserRequest{Role: &role})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestMe(t *testing.T) {
	st := newTestStore(t)
	svc := NewUserService(st, testLogger)
	ctx := context.Background()

	u := seedUser(t, st, "alice", domain.RoleUser)

	me, err := svc.Me(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	_, err = svc.Me(ctx, nil)
	assert.ErrorIs(t, err, errors.ErrUnauthorized)

	// Token outliving the account yields 401, not a stale profile.
	require.NoError(t, st.DeleteUser(ctx, u.ID))
	_, err = svc.Me(ctx, u)
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
}

func TestUpdateMe(t *testing.T) {
	st := newTestStore(t)
	svc := NewUserService(st, testLogger)
	ctx := context.Background()

	u := seedUser(t, st, "alice", domain.RoleUser)

	bio := "reads everything twice"
	first := "Alice"
	updated, err := svc.UpdateMe(ctx, u, UpdateMeRequest{Bio: &bio, FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "reads everything twice", updated.Bio)
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, domain.RoleUser, updated.Role)

	empty := ""
	_, err = svc.UpdateMe(ctx, u, UpdateMeRequest{Username: &empty})
	assert.ErrorIs(t, err, errors.ErrValidation)

	reserved := "me"
	_, err = svc.UpdateMe(ctx, u, UpdateMeRequest{Username: &reserved})
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestUpdateMeConflict(t *testing.T) {
	st := newTestStore(t)
	svc := NewUserService(st, testLogger)
	ctx := context.Background()

	alice := seedUser(t, st, "alice", domain.RoleUser)
	seedUser(t, st, "bob", domain.RoleUser)

	taken := "bob"
	_, err := svc.UpdateMe(ctx, alice, UpdateMeRequest{Username: &taken})
	assert.ErrorIs(t, err, errors.ErrConflict)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleIsValid(t *testing.T) {
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleModerator.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("root").IsValid())
	assert.False(t, Role("").IsValid())
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name        string
		role        Role
		isSuperuser bool
		want        bool
	}{
		{"plain user", RoleUser, false, false},
		{"moderator", RoleModerator, false, false},
		{"admin by role", RoleAdmin, false, true},
		{"superuser with user role", RoleUser, true, true},
		{"superuser with moderator role", RoleModerator, true, true},
		{"superuser admin", RoleAdmin, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Role: tt.role, IsSuperuser: tt.isSuperuser}
			assert.Equal(t, tt.want, u.IsAdmin())
		})
	}
}

func TestRolePredicatesAreDisjoint(t *testing.T) {
	mod := &User{Role: RoleModerator}
	assert.True(t, mod.IsModerator())
	assert.False(t, mod.IsUser())
	assert.False(t, mod.IsAdmin())
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{FirstName: "Ada", LastName: "Lovelace"}).FullName())
	assert.Equal(t, "Ada", (&User{FirstName: "Ada"}).FullName())
	assert.Equal(t, "Lovelace", (&User{LastName: "Lovelace"}).FullName())
	assert.Equal(t, "", (&User{}).FullName())
}

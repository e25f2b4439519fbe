package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critiqueapp/critique-server/internal/domain"
)

const testKeyHex = "707172737475767778797a7b7c7d7e7f808182838485868788898a8b8c8d8e8f"

func TestNewTokenServiceRejectsBadKeys(t *testing.T) {
	_, err := NewTokenService("tooshort", time.Minute)
	assert.Error(t, err)

	_, err = NewTokenService(strings.Repeat("zz", 32), time.Minute)
	assert.Error(t, err)
}

func TestMintAndVerifyBearer(t *testing.T) {
	svc, err := NewTokenService(testKeyHex, 15*time.Minute)
	require.NoError(t, err)

	user := &domain.User{
		ID:       "user-abc",
		Username: "alice",
		Role:     domain.RoleModerator,
	}

	token, err := svc.MintBearer(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyBearer(token)
	require.NoError(t, err)
	assert.Equal(t, "user-abc", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, string(domain.RoleModerator), claims.Role)
	assert.Equal(t, "user-abc", claims.Subject)
}

func TestVerifyBearerRejectsGarbage(t *testing.T) {
	svc, err := NewTokenService(testKeyHex, 15*time.Minute)
	require.NoError(t, err)

	_, err = svc.VerifyBearer("v4.local.not-a-real-token")
	assert.Error(t, err)
}

func TestVerifyBearerRejectsExpired(t *testing.T) {
	svc, err := NewTokenService(testKeyHex, -time.Minute)
	require.NoError(t, err)

	token, err := svc.MintBearer(&domain.User{ID: "user-abc", Username: "alice", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = svc.VerifyBearer(token)
	assert.Error(t, err)
}

func TestVerifyBearerRejectsForeignKey(t *testing.T) {
	a, err := NewTokenService(testKeyHex, 15*time.Minute)
	require.NoError(t, err)
	b, err := NewTokenService(strings.Repeat("ab", 32), 15*time.Minute)
	require.NoError(t, err)

	token, err := a.MintBearer(&domain.User{ID: "user-abc", Username: "alice", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = b.VerifyBearer(token)
	assert.Error(t, err)
}

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/critiqueapp/critique-server/internal/domain"
)

// ConfirmationService issues and verifies registration confirmation codes.
//
// Codes are not stored. A code is an HMAC over the identity-bearing state
// of the user record (id, username, email, role) plus an expiry timestamp,
// so any profile edit invalidates every previously issued code and a code
// can only ever be exchanged for the exact record it was minted against.
type ConfirmationService struct {
	key []byte
	ttl time.Duration
}

// NewConfirmationService creates a confirmation code service.
// The key is independent from the bearer-token key; ttl bounds code lifetime.
func NewConfirmationService(key []byte, ttl time.Duration) (*ConfirmationService, error) {
	if len(key) < 32 {
		return nil, fmt.Errorf("confirmation key must be at least 32 bytes, got %d", len(key))
	}
	return &ConfirmationService{key: key, ttl: ttl}, nil
}

// Issue generates a confirmation code for the user's current record state.
// Format: base64url(expiry-unix) "." base64url(mac).
func (s *ConfirmationService) Issue(user *domain.User) string {
	expiry := time.Now().Add(s.ttl).Unix()
	mac := s.sign(user, expiry)

	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(expiry, 10))) +
		"." + base64.RawURLEncoding.EncodeToString(mac)
}

// Verify reports whether code is a live confirmation code for the user's
// current record state. Comparison is constant-time; the result never
// reveals whether the code was malformed, expired, or minted for a
// different record.
func (s *ConfirmationService) Verify(user *domain.User, code string) bool {
	expiryPart, macPart, ok := strings.Cut(code, ".")
	if !ok {
		return false
	}

	expiryBytes, err := base64.RawURLEncoding.DecodeString(expiryPart)
	if err != nil {
		return false
	}
	expiry, err := strconv.ParseInt(string(expiryBytes), 10, 64)
	if err != nil {
		return false
	}
	if time.Now().Unix() > expiry {
		return false
	}

	mac, err := base64.RawURLEncoding.DecodeString(macPart)
	if err != nil {
		return false
	}

	return hmac.Equal(mac, s.sign(user, expiry))
}

// sign computes the MAC binding a user record's state to an expiry instant.
func (s *ConfirmationService) sign(user *domain.User, expiry int64) []byte {
	h := hmac.New(sha256.New, s.key)
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00%d",
		user.ID, user.Username, user.Email, user.Role, expiry)
	return h.Sum(nil)
}

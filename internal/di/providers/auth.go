package providers

import (
	"encoding/hex"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/critiqueapp/critique-server/internal/auth"
	"github.com/critiqueapp/critique-server/internal/config"
	"github.com/critiqueapp/critique-server/internal/logger"
)

// TokenKey wraps the PASETO symmetric key bytes.
type TokenKey []byte

// ConfirmationKey wraps the confirmation code HMAC key bytes.
type ConfirmationKey []byte

// ProvideTokenKey loads or generates the bearer token key. A key in the
// environment wins; otherwise one is persisted next to the database.
func ProvideTokenKey(i do.Injector) (TokenKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Auth.TokenKeyHex != "" {
		key, err := hex.DecodeString(cfg.Auth.TokenKeyHex)
		if err != nil {
			return nil, err
		}
		return TokenKey(key), nil
	}

	key, err := auth.LoadOrGenerateKey(filepath.Dir(cfg.Database.Path), "token.key")
	if err != nil {
		return nil, err
	}
	cfg.Auth.TokenKeyHex = hex.EncodeToString(key)

	log.Info("Token key loaded", "access_token_duration", cfg.Auth.AccessTokenDuration)
	return TokenKey(key), nil
}

// ProvideConfirmationKey loads or generates the confirmation code key.
// Deliberately a separate key from the bearer token one.
func ProvideConfirmationKey(i do.Injector) (ConfirmationKey, error) {
	cfg := do.MustInvoke[*config.Config](i)

	if cfg.Auth.ConfirmationKey != "" {
		return ConfirmationKey(cfg.Auth.ConfirmationKey), nil
	}

	key, err := auth.LoadOrGenerateKey(filepath.Dir(cfg.Database.Path), "confirm.key")
	if err != nil {
		return nil, err
	}
	return ConfirmationKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	tokenKey := do.MustInvoke[TokenKey](i)

	keyHex := hex.EncodeToString([]byte(tokenKey))
	return auth.NewTokenService(keyHex, cfg.Auth.AccessTokenDuration)
}

// ProvideConfirmationService provides the confirmation code service.
func ProvideConfirmationService(i do.Injector) (*auth.ConfirmationService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	confirmationKey := do.MustInvoke[ConfirmationKey](i)

	return auth.NewConfirmationService([]byte(confirmationKey), cfg.Auth.ConfirmationTTL)
}

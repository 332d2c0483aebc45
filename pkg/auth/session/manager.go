package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/tradelink-backend/pkg/config"
	pkgredis "github.com/angelmondragon/tradelink-backend/pkg/redis"
)

const refreshTokenBytes = 32

var (
	// ErrInvalidRefreshToken covers unknown, revoked and mismatched refresh tokens.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	errMissingAccessID = errors.New("access id is required")
)

type store interface {
	SaveRefresh(ctx context.Context, accessID, refreshToken string, ttl time.Duration) error
	LoadRefresh(ctx context.Context, accessID string) (string, bool, error)
	DropRefresh(ctx context.Context, accessIDs ...string) error
}

// Checker is the read-only view the auth middleware needs.
type Checker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// Manager keeps one refresh token per issued access token. A JWT whose jti has
// no session is treated as logged out even before it expires.
type Manager struct {
	store store
	ttl   time.Duration
}

// NewManager requires the refresh TTL to outlive the access token.
func NewManager(client *pkgredis.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	return newManager(client, cfg)
}

func newManager(s store, cfg config.JWTConfig) (*Manager, error) {
	ttl := cfg.RefreshTokenTTL()
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	switch {
	case ttl <= 0:
		return nil, errors.New("refresh token ttl must be positive")
	case ttl <= accessTTL:
		return nil, fmt.Errorf("refresh token ttl %s must exceed access token ttl %s", ttl, accessTTL)
	}
	return &Manager{store: s, ttl: ttl}, nil
}

// NewAccessID returns a fresh jti.
func NewAccessID() string {
	return uuid.NewString()
}

// Issue opens a session for accessID and returns its refresh token.
func (m *Manager) Issue(ctx context.Context, accessID string) (string, error) {
	if strings.TrimSpace(accessID) == "" {
		return "", errMissingAccessID
	}
	token, err := newRefreshToken()
	if err != nil {
		return "", err
	}
	if err := m.store.SaveRefresh(ctx, accessID, token, m.ttl); err != nil {
		return "", fmt.Errorf("saving session: %w", err)
	}
	return token, nil
}

// Rotate trades a valid refresh token for a new access id and refresh token.
// The old session is dropped only once the new one is stored.
func (m *Manager) Rotate(ctx context.Context, oldAccessID, provided string) (accessID, token string, err error) {
	if strings.TrimSpace(oldAccessID) == "" || strings.TrimSpace(provided) == "" {
		return "", "", ErrInvalidRefreshToken
	}

	stored, found, err := m.store.LoadRefresh(ctx, oldAccessID)
	if err != nil {
		return "", "", fmt.Errorf("loading session: %w", err)
	}
	if !found || subtle.ConstantTimeCompare([]byte(stored), []byte(provided)) != 1 {
		return "", "", ErrInvalidRefreshToken
	}

	accessID = NewAccessID()
	if token, err = m.Issue(ctx, accessID); err != nil {
		return "", "", err
	}
	if err := m.store.DropRefresh(ctx, oldAccessID); err != nil {
		return "", "", fmt.Errorf("dropping rotated session: %w", err)
	}
	return accessID, token, nil
}

// Revoke ends the session bound to accessID.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return errMissingAccessID
	}
	return m.store.DropRefresh(ctx, accessID)
}

// HasSession reports whether accessID is still logged in.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, errMissingAccessID
	}
	_, found, err := m.store.LoadRefresh(ctx, accessID)
	return found, err
}

func newRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

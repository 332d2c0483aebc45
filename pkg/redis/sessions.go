package redis

import (
	"context"
	"errors"
	"time"
)

func sessionKey(accessID string) string {
	return key("session", accessID)
}

// SaveRefresh binds a refresh token to the access token id (JWT jti) that was issued with it.
func (c *Client) SaveRefresh(ctx context.Context, accessID, refreshToken string, ttl time.Duration) error {
	if c == nil || c.cmd == nil {
		return errNotInitialized
	}
	if ttl <= 0 {
		return errors.New("session ttl must be positive")
	}
	return c.cmd.Set(ctx, sessionKey(accessID), refreshToken, ttl).Err()
}

// LoadRefresh returns the refresh token stored for accessID. found is false once
// the session expired or was revoked.
func (c *Client) LoadRefresh(ctx context.Context, accessID string) (token string, found bool, err error) {
	return c.lookup(ctx, sessionKey(accessID))
}

// DropRefresh revokes the given sessions. Unknown ids are ignored.
func (c *Client) DropRefresh(ctx context.Context, accessIDs ...string) error {
	if c == nil || c.cmd == nil {
		return errNotInitialized
	}
	if len(accessIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(accessIDs))
	for _, id := range accessIDs {
		keys = append(keys, sessionKey(id))
	}
	return c.cmd.Del(ctx, keys...).Err()
}

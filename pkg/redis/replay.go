package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ReplayStore keeps the first response written for an idempotency key.
type ReplayStore interface {
	LoadReplay(ctx context.Context, scope, idempotencyKey string) ([]byte, bool, error)
	SaveReplay(ctx context.Context, scope, idempotencyKey string, payload []byte, ttl time.Duration) (bool, error)
}

// replayKey hashes the caller supplied parts so arbitrary header values stay out of the keyspace.
func replayKey(scope, idempotencyKey string) string {
	sum := sha256.Sum256([]byte(scope + "\x00" + idempotencyKey))
	return key("replay", hex.EncodeToString(sum[:]))
}

// LoadReplay returns the stored payload for scope and key, if any.
func (c *Client) LoadReplay(ctx context.Context, scope, idempotencyKey string) ([]byte, bool, error) {
	value, found, err := c.lookup(ctx, replayKey(scope, idempotencyKey))
	if err != nil || !found {
		return nil, false, err
	}
	return []byte(value), true, nil
}

// SaveReplay stores payload only when nothing is stored yet. It reports whether
// this call won the write.
func (c *Client) SaveReplay(ctx context.Context, scope, idempotencyKey string, payload []byte, ttl time.Duration) (bool, error) {
	if c == nil || c.cmd == nil {
		return false, errNotInitialized
	}
	return c.cmd.SetNX(ctx, replayKey(scope, idempotencyKey), string(payload), ttl).Result()
}

package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/tradelink-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]string)}
}

func (m *memoryStore) SaveRefresh(_ context.Context, accessID, token string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[accessID] = token
	return nil
}

func (m *memoryStore) LoadRefresh(_ context.Context, accessID string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.data[accessID]
	return token, ok, nil
}

func (m *memoryStore) DropRefresh(_ context.Context, accessIDs ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range accessIDs {
		delete(m.data, id)
	}
	return nil
}

func newTestManager(t *testing.T) (*Manager, *memoryStore) {
	t.Helper()
	store := newMemoryStore()
	manager, err := newManager(store, config.JWTConfig{ExpirationMinutes: 15, RefreshTokenTTLMinutes: 60})
	require.NoError(t, err)
	return manager, store
}

func TestIssueAndRotate(t *testing.T) {
	manager, store := newTestManager(t)
	ctx := context.Background()

	token, err := manager.Issue(ctx, "access-1")
	require.NoError(t, err)
	assert.Equal(t, token, store.data["access-1"])

	_, _, err = manager.Rotate(ctx, "access-1", "wrong")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	newID, newToken, err := manager.Rotate(ctx, "access-1", token)
	require.NoError(t, err)
	assert.NotEqual(t, "access-1", newID)
	assert.NotContains(t, store.data, "access-1")
	assert.Equal(t, newToken, store.data[newID])

	_, _, err = manager.Rotate(ctx, "access-1", token)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken, "a rotated token cannot be replayed")
}

func TestRevokeEndsSession(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	_, err := manager.Issue(ctx, "access-2")
	require.NoError(t, err)

	ok, err := manager.HasSession(ctx, "access-2")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, manager.Revoke(ctx, "access-2"))
	ok, err = manager.HasSession(ctx, "access-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewManagerValidatesTTL(t *testing.T) {
	_, err := newManager(newMemoryStore(), config.JWTConfig{ExpirationMinutes: 60, RefreshTokenTTLMinutes: 30})
	assert.Error(t, err)

	_, err = NewManager(nil, config.JWTConfig{ExpirationMinutes: 15, RefreshTokenTTLMinutes: 60})
	assert.Error(t, err)
}

func TestHasSessionRequiresAccessID(t *testing.T) {
	manager, _ := newTestManager(t)
	_, err := manager.HasSession(context.Background(), " ")
	assert.Error(t, err)
	assert.Error(t, manager.Revoke(context.Background(), ""))
}

package l2

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"go-page-cache/internal/config"
	"go-page-cache/internal/interfaces/mock"
	"go-page-cache/internal/models"
)

func testKeyDBConfig() *config.KeyDBConfig {
	return &config.KeyDBConfig{
		Connection: config.ConnectionConfig{ConnectTimeout: 100, SendTimeout: 100, ReadTimeout: 100},
		KeyPrefix:  "page:",
	}
}

func TestNewKeyDBStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockKeyDbClient(ctrl)
	cfg := testKeyDBConfig()
	logger := zap.NewNop()

	store := NewKeyDBStore(cfg, mockClient, logger)

	assert.NotNil(t, store)
	keydbStore, ok := store.(*KeyDBStore)
	assert.True(t, ok)
	assert.Equal(t, mockClient, keydbStore.client)
	assert.Equal(t, cfg, keydbStore.config)
	assert.Equal(t, logger, keydbStore.logger)
}

func TestKeyDBStore_Read_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockKeyDbClient(ctrl)
	store := NewKeyDBStore(testKeyDBConfig(), mockClient, zap.NewNop())

	storedAt := time.Unix(1_700_000_000, 0).UTC()
	entryJSON, _ := json.Marshal(models.CacheEntry{Data: []byte("test-data"), StoredAt: storedAt})

	mockClient.EXPECT().Get(gomock.Any(), "page:test-key").Return(redis.NewStringResult(string(entryJSON), nil))

	entry, err := store.Read(context.Background(), "test-key")

	require.NoError(t, err)
	assert.Equal(t, []byte("test-data"), entry.Data)
	assert.True(t, entry.StoredAt.Equal(storedAt))
}

func TestKeyDBStore_Read_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockKeyDbClient(ctrl)
	store := NewKeyDBStore(testKeyDBConfig(), mockClient, zap.NewNop())

	mockClient.EXPECT().Get(gomock.Any(), "page:missing").Return(redis.NewStringResult("", redis.Nil))

	entry, err := store.Read(context.Background(), "missing")

	assert.ErrorIs(t, err, models.ErrEntryNotFound)
	assert.Nil(t, entry)
}

func TestKeyDBStore_Read_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockKeyDbClient(ctrl)
	store := NewKeyDBStore(testKeyDBConfig(), mockClient, zap.NewNop())

	connErr := errors.New("connection refused")
	mockClient.EXPECT().Get(gomock.Any(), "page:test-key").Return(redis.NewStringResult("", connErr))

	entry, err := store.Read(context.Background(), "test-key")

	assert.ErrorIs(t, err, connErr)
	assert.NotErrorIs(t, err, models.ErrEntryNotFound)
	assert.Nil(t, entry)
}

func TestKeyDBStore_Read_CorruptedEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockKeyDbClient(ctrl)
	store := NewKeyDBStore(testKeyDBConfig(), mockClient, zap.NewNop())

	mockClient.EXPECT().Get(gomock.Any(), "page:test-key").Return(redis.NewStringResult("invalid-json", nil))
	mockClient.EXPECT().Del(gomock.Any(), "page:test-key").Return(redis.NewIntResult(1, nil))

	entry, err := store.Read(context.Background(), "test-key")

	assert.Error(t, err)
	assert.Nil(t, entry)
}

func TestKeyDBStore_Write_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockKeyDbClient(ctrl)
	store := NewKeyDBStore(testKeyDBConfig(), mockClient, zap.NewNop())

	entry := &models.CacheEntry{Data: []byte("test-data"), StoredAt: time.Unix(1_700_000_000, 0).UTC()}
	expected, _ := json.Marshal(entry)

	mockClient.EXPECT().
		Set(gomock.Any(), "page:test-key", expected, time.Duration(0)).
		Return(redis.NewStatusResult("OK", nil))

	assert.NoError(t, store.Write(context.Background(), "test-key", entry))
}

func TestKeyDBStore_Write_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockKeyDbClient(ctrl)
	store := NewKeyDBStore(testKeyDBConfig(), mockClient, zap.NewNop())

	mockClient.EXPECT().
		Set(gomock.Any(), "page:test-key", gomock.Any(), time.Duration(0)).
		Return(redis.NewStatusResult("", errors.New("set failed")))

	err := store.Write(context.Background(), "test-key", &models.CacheEntry{Data: []byte("x")})
	assert.EqualError(t, err, "set failed")
}

func TestKeyDBStore_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockKeyDbClient(ctrl)
	store := NewKeyDBStore(testKeyDBConfig(), mockClient, zap.NewNop())

	mockClient.EXPECT().Del(gomock.Any(), "page:a").Return(redis.NewIntResult(1, nil))
	mockClient.EXPECT().Del(gomock.Any(), "page:b").Return(redis.NewIntResult(0, errors.New("delete failed")))

	assert.NoError(t, store.Delete(context.Background(), "a"))
	assert.Error(t, store.Delete(context.Background(), "b"))
}

func TestKeyDBStore_Init(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockKeyDbClient(ctrl)
	store := NewKeyDBStore(testKeyDBConfig(), mockClient, zap.NewNop())

	mockClient.EXPECT().Ping(gomock.Any()).Return(redis.NewStatusResult("PONG", nil))
	assert.NoError(t, store.Init(context.Background()))

	mockClient.EXPECT().Ping(gomock.Any()).Return(redis.NewStatusResult("", errors.New("down")))
	assert.Error(t, store.Init(context.Background()))
}

func TestKeyDBStore_Close(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockKeyDbClient(ctrl)
	store := NewKeyDBStore(testKeyDBConfig(), mockClient, zap.NewNop())

	mockClient.EXPECT().Close().Return(nil)
	assert.NoError(t, store.Close())
}

package multi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"go-page-cache/internal/interfaces/mock"
	"go-page-cache/internal/models"
)

func testEntry() *models.CacheEntry {
	return &models.CacheEntry{Data: []byte("test-value"), StoredAt: time.Unix(1_700_000_000, 0)}
}

func TestNewMultiStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tiers := []Tier{
		{Name: "bigcache", Store: mock.NewMockStore(ctrl)},
		{Name: "file", Store: mock.NewMockStore(ctrl)},
	}
	logger := zap.NewNop()

	store := NewMultiStore(tiers, true, logger)

	multiStore, ok := store.(*MultiStore)
	assert.True(t, ok)
	assert.Equal(t, tiers, multiStore.tiers)
	assert.True(t, multiStore.enablePropagation)
	assert.Equal(t, 2, multiStore.GetTierCount())
}

func TestMultiStore_Read_FirstTierHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := mock.NewMockStore(ctrl)
	second := mock.NewMockStore(ctrl)
	store := NewMultiStore([]Tier{{"bigcache", first}, {"file", second}}, true, zap.NewNop())

	entry := testEntry()
	first.EXPECT().Read(gomock.Any(), "test-key").Return(entry, nil)
	// second tier is never consulted

	result, err := store.Read(context.Background(), "test-key")

	assert.NoError(t, err)
	assert.Equal(t, entry, result)
}

func TestMultiStore_Read_SecondTierHit_Propagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := mock.NewMockStore(ctrl)
	second := mock.NewMockStore(ctrl)
	store := NewMultiStore([]Tier{{"bigcache", first}, {"file", second}}, true, zap.NewNop())

	entry := testEntry()
	gomock.InOrder(
		first.EXPECT().Read(gomock.Any(), "test-key").Return(nil, models.ErrEntryNotFound),
		second.EXPECT().Read(gomock.Any(), "test-key").Return(entry, nil),
		first.EXPECT().Write(gomock.Any(), "test-key", entry).Return(nil),
	)

	result, err := store.Read(context.Background(), "test-key")

	assert.NoError(t, err)
	assert.Equal(t, entry, result)
}

func TestMultiStore_Read_SecondTierHit_NoPropagation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := mock.NewMockStore(ctrl)
	second := mock.NewMockStore(ctrl)
	store := NewMultiStore([]Tier{{"bigcache", first}, {"file", second}}, false, zap.NewNop())

	entry := testEntry()
	first.EXPECT().Read(gomock.Any(), "test-key").Return(nil, models.ErrEntryNotFound)
	second.EXPECT().Read(gomock.Any(), "test-key").Return(entry, nil)

	result, err := store.Read(context.Background(), "test-key")

	assert.NoError(t, err)
	assert.Equal(t, entry, result)
}

func TestMultiStore_Read_PropagationFailureStillHits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := mock.NewMockStore(ctrl)
	second := mock.NewMockStore(ctrl)
	store := NewMultiStore([]Tier{{"bigcache", first}, {"file", second}}, true, zap.NewNop())

	entry := testEntry()
	first.EXPECT().Read(gomock.Any(), "test-key").Return(nil, models.ErrEntryNotFound)
	second.EXPECT().Read(gomock.Any(), "test-key").Return(entry, nil)
	first.EXPECT().Write(gomock.Any(), "test-key", entry).Return(errors.New("full"))

	result, err := store.Read(context.Background(), "test-key")

	assert.NoError(t, err)
	assert.Equal(t, entry, result)
}

func TestMultiStore_Read_AllTiersMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := mock.NewMockStore(ctrl)
	second := mock.NewMockStore(ctrl)
	store := NewMultiStore([]Tier{{"bigcache", first}, {"file", second}}, true, zap.NewNop())

	first.EXPECT().Read(gomock.Any(), "test-key").Return(nil, models.ErrEntryNotFound)
	second.EXPECT().Read(gomock.Any(), "test-key").Return(nil, models.ErrEntryNotFound)

	result, err := store.Read(context.Background(), "test-key")

	assert.ErrorIs(t, err, models.ErrEntryNotFound)
	assert.Nil(t, result)
}

func TestMultiStore_Read_ErrorThenHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := mock.NewMockStore(ctrl)
	second := mock.NewMockStore(ctrl)
	store := NewMultiStore([]Tier{{"keydb", first}, {"file", second}}, false, zap.NewNop())

	entry := testEntry()
	first.EXPECT().Read(gomock.Any(), "test-key").Return(nil, errors.New("connection refused"))
	second.EXPECT().Read(gomock.Any(), "test-key").Return(entry, nil)

	result, err := store.Read(context.Background(), "test-key")

	assert.NoError(t, err)
	assert.Equal(t, entry, result)
}

func TestMultiStore_Read_ErrorAndMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := mock.NewMockStore(ctrl)
	second := mock.NewMockStore(ctrl)
	store := NewMultiStore([]Tier{{"keydb", first}, {"file", second}}, false, zap.NewNop())

	connErr := errors.New("connection refused")
	first.EXPECT().Read(gomock.Any(), "test-key").Return(nil, connErr)
	second.EXPECT().Read(gomock.Any(), "test-key").Return(nil, models.ErrEntryNotFound)

	result, err := store.Read(context.Background(), "test-key")

	assert.ErrorIs(t, err, connErr)
	assert.NotErrorIs(t, err, models.ErrEntryNotFound)
	assert.Nil(t, result)
}

func TestMultiStore_Read_NoTiers(t *testing.T) {
	store := NewMultiStore(nil, true, zap.NewNop())

	result, err := store.Read(context.Background(), "test-key")

	assert.ErrorIs(t, err, models.ErrEntryNotFound)
	assert.Nil(t, result)
}

func TestMultiStore_Write_AllTiers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := mock.NewMockStore(ctrl)
	second := mock.NewMockStore(ctrl)
	store := NewMultiStore([]Tier{{"bigcache", first}, {"file", second}}, true, zap.NewNop())

	entry := testEntry()
	first.EXPECT().Write(gomock.Any(), "test-key", entry).Return(nil)
	second.EXPECT().Write(gomock.Any(), "test-key", entry).Return(nil)

	assert.NoError(t, store.Write(context.Background(), "test-key", entry))
}

func TestMultiStore_Write_PartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := mock.NewMockStore(ctrl)
	second := mock.NewMockStore(ctrl)
	store := NewMultiStore([]Tier{{"bigcache", first}, {"file", second}}, true, zap.NewNop())

	entry := testEntry()
	writeErr := errors.New("disk full")
	first.EXPECT().Write(gomock.Any(), "test-key", entry).Return(nil)
	second.EXPECT().Write(gomock.Any(), "test-key", entry).Return(writeErr)

	err := store.Write(context.Background(), "test-key", entry)
	assert.ErrorIs(t, err, writeErr)
}

func TestMultiStore_Delete_AllTiers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := mock.NewMockStore(ctrl)
	second := mock.NewMockStore(ctrl)
	store := NewMultiStore([]Tier{{"bigcache", first}, {"file", second}}, true, zap.NewNop())

	firstErr := errors.New("first")
	first.EXPECT().Delete(gomock.Any(), "test-key").Return(firstErr)
	second.EXPECT().Delete(gomock.Any(), "test-key").Return(nil)

	err := store.Delete(context.Background(), "test-key")
	assert.ErrorIs(t, err, firstErr)
}

func TestMultiStore_InitAndClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := mock.NewMockStore(ctrl)
	second := mock.NewMockStore(ctrl)
	store := NewMultiStore([]Tier{{"bigcache", first}, {"file", second}}, true, zap.NewNop())

	initErr := errors.New("cannot create directory")
	first.EXPECT().Init(gomock.Any()).Return(nil)
	second.EXPECT().Init(gomock.Any()).Return(initErr)
	first.EXPECT().Close().Return(nil)
	second.EXPECT().Close().Return(nil)

	assert.ErrorIs(t, store.Init(context.Background()), initErr)
	assert.NoError(t, store.Close())
}

package settings_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/C4T-BuT-S4D/metla/internal/models"
	"github.com/C4T-BuT-S4D/metla/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu      sync.Mutex
	records map[int64]*models.GroupSettings

	getErr    error
	upsertErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[int64]*models.GroupSettings)}
}

func (m *memoryStore) GetSettings(_ context.Context, chatID int64) (*models.GroupSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[chatID]
	if !ok {
		return nil, nil
	}
	clone := *record
	clone.MediaTypes = record.MediaTypes.Clone()
	return &clone, nil
}

func (m *memoryStore) UpsertSettings(_ context.Context, s *models.GroupSettings) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *s
	clone.MediaTypes = s.MediaTypes.Clone()
	m.records[s.ChatID] = &clone
	return nil
}

func testDefaults() settings.Defaults {
	return settings.Defaults{
		TTLSeconds:   300,
		Enabled:      true,
		DeleteAdmins: false,
		MediaTypes:   models.NewMediaKindSet(models.MediaPhoto, models.MediaVideo),
	}
}

func TestResolveFallsBackToDefaults(t *testing.T) {
	resolver := settings.NewResolver(newMemoryStore(), testDefaults())

	resolved, err := resolver.Resolve(context.Background(), 42)
	require.NoError(t, err)

	assert.EqualValues(t, 42, resolved.ChatID)
	assert.Equal(t, 300, resolved.TTLSeconds)
	assert.True(t, resolved.Enabled)
	assert.False(t, resolved.DeleteAdmins)
	assert.True(t, resolved.MediaTypes.Has(models.MediaPhoto))
}

func TestResolveDoesNotAliasDefaultSet(t *testing.T) {
	resolver := settings.NewResolver(newMemoryStore(), testDefaults())

	first, err := resolver.Resolve(context.Background(), 1)
	require.NoError(t, err)
	first.MediaTypes[models.MediaSticker] = struct{}{}

	second, err := resolver.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, second.MediaTypes.Has(models.MediaSticker))
}

func TestUpdateChangesOnlyTargetedField(t *testing.T) {
	resolver := settings.NewResolver(newMemoryStore(), testDefaults())

	_, err := resolver.Update(context.Background(), 42, func(s *models.GroupSettings) {
		s.TTLSeconds = 60
	})
	require.NoError(t, err)

	resolved, err := resolver.Resolve(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 60, resolved.TTLSeconds)
	assert.True(t, resolved.Enabled)
	assert.False(t, resolved.DeleteAdmins)
	assert.True(t, resolved.MediaTypes.Has(models.MediaVideo))
}

func TestUpdatePersistsFullRecord(t *testing.T) {
	store := newMemoryStore()
	resolver := settings.NewResolver(store, testDefaults())

	_, err := resolver.Update(context.Background(), 7, func(s *models.GroupSettings) {
		s.Enabled = false
	})
	require.NoError(t, err)

	stored, err := store.GetSettings(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.Enabled)
	assert.Equal(t, 300, stored.TTLSeconds)
}

func TestResolvePropagatesStoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.getErr = errors.New("connection refused")
	resolver := settings.NewResolver(store, testDefaults())

	_, err := resolver.Resolve(context.Background(), 1)
	assert.ErrorContains(t, err, "connection refused")

	_, err = resolver.Update(context.Background(), 1, func(*models.GroupSettings) {})
	assert.ErrorContains(t, err, "connection refused")
}

func TestUpdatePropagatesUpsertFailure(t *testing.T) {
	store := newMemoryStore()
	store.upsertErr = errors.New("disk full")
	resolver := settings.NewResolver(store, testDefaults())

	_, err := resolver.Update(context.Background(), 1, func(*models.GroupSettings) {})
	assert.ErrorContains(t, err, "disk full")
}

func TestConcurrentUpdatesForDifferentGroups(t *testing.T) {
	store := newMemoryStore()
	resolver := settings.NewResolver(store, testDefaults())

	const groups = 20
	var wg sync.WaitGroup
	for i := 0; i < groups; i++ {
		chatID := int64(i + 1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := resolver.Update(context.Background(), chatID, func(s *models.GroupSettings) {
				s.TTLSeconds = int(chatID) * 10
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	for i := 0; i < groups; i++ {
		chatID := int64(i + 1)
		resolved, err := resolver.Resolve(context.Background(), chatID)
		require.NoError(t, err)
		assert.Equal(t, int(chatID)*10, resolved.TTLSeconds, fmt.Sprintf("chat %d", chatID))
	}
}

package snapshot

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TooEinfach/PlexSearch/internal/domain"
)

type fakeCatalog struct {
	sections     []domain.SectionDescriptor
	sectionsErr  error
	items        map[string][]domain.MediaItem
	itemsErr     map[string]error
	libraryCalls int
	itemCalls    int
}

func (f *fakeCatalog) Libraries(ctx context.Context) ([]domain.SectionDescriptor, error) {
	f.libraryCalls++
	if f.sectionsErr != nil {
		return nil, f.sectionsErr
	}
	return f.sections, nil
}

func (f *fakeCatalog) Search(ctx context.Context, query, mediaType string) ([]domain.MediaItem, error) {
	return nil, nil
}

func (f *fakeCatalog) SearchSection(ctx context.Context, sectionID, query string) ([]domain.MediaItem, error) {
	return nil, nil
}

func (f *fakeCatalog) SectionItems(ctx context.Context, sectionID string) ([]domain.MediaItem, error) {
	f.itemCalls++
	if err := f.itemsErr[sectionID]; err != nil {
		return nil, err
	}
	return f.items[sectionID], nil
}

func twoSectionCatalog() *fakeCatalog {
	return &fakeCatalog{
		sections: []domain.SectionDescriptor{
			{ID: "1", Title: "Movies", Type: "movie"},
			{ID: "2", Title: "Shows", Type: "show"},
		},
		items: map[string][]domain.MediaItem{
			"1": {{ID: "100", Title: "Jurassic Park", Year: 1993, Type: "movie"}},
			"2": {{ID: "200", Title: "Mr. Robot", Year: 2015, Type: "show"}},
		},
		itemsErr: map[string]error{},
	}
}

func newTestManager(t *testing.T, catalog *fakeCatalog) (*Manager, *Store) {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "cache.json"), nil)
	return NewManager(store, catalog, 6*time.Hour, nil), store
}

func TestFresh_RebuildsWhenNeverCached(t *testing.T) {
	catalog := twoSectionCatalog()
	manager, _ := newTestManager(t, catalog)

	snap := manager.Fresh(context.Background(), false)

	require.Len(t, snap.Sections, 2)
	assert.Equal(t, "Jurassic Park", snap.Sections["1"].Items[0].Title)
	assert.NotZero(t, snap.UpdatedAt)
	assert.Equal(t, 1, catalog.libraryCalls)
	assert.Equal(t, 2, catalog.itemCalls)
}

func TestFresh_WithinTTLMakesNoServiceCalls(t *testing.T) {
	catalog := twoSectionCatalog()
	manager, _ := newTestManager(t, catalog)

	first := manager.Fresh(context.Background(), false)
	second := manager.Fresh(context.Background(), false)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, catalog.libraryCalls)
	assert.Equal(t, 2, catalog.itemCalls)
}

func TestFresh_StaleSnapshotTriggersRebuild(t *testing.T) {
	catalog := twoSectionCatalog()
	manager, store := newTestManager(t, catalog)

	// Snapshot 7 hours old against a 6 hour TTL
	stale := domain.Snapshot{
		UpdatedAt: time.Now().Add(-7 * time.Hour).Unix(),
		Sections:  map[string]domain.Section{"9": {ID: "9", Title: "Old"}},
	}
	require.NoError(t, store.Save(stale))

	snap := manager.Fresh(context.Background(), false)

	assert.Equal(t, 1, catalog.libraryCalls)
	assert.NotContains(t, snap.Sections, "9")
	require.Contains(t, snap.Sections, "1")
}

func TestFresh_ForceAlwaysRebuilds(t *testing.T) {
	catalog := twoSectionCatalog()
	manager, _ := newTestManager(t, catalog)

	manager.Fresh(context.Background(), false)
	manager.Fresh(context.Background(), true)

	assert.Equal(t, 2, catalog.libraryCalls)
}

func TestFresh_SectionListFailureReturnsStale(t *testing.T) {
	catalog := twoSectionCatalog()
	manager, store := newTestManager(t, catalog)

	stale := domain.Snapshot{
		UpdatedAt: time.Now().Add(-48 * time.Hour).Unix(),
		Sections: map[string]domain.Section{
			"1": {ID: "1", Title: "Movies", Items: []domain.MediaItem{{ID: "100", Title: "Jurassic Park"}}},
		},
	}
	require.NoError(t, store.Save(stale))
	catalog.sectionsErr = errors.New("connection refused")

	snap := manager.Fresh(context.Background(), false)

	// Better a stale answer than none
	assert.Equal(t, stale, snap)
	assert.Equal(t, 0, catalog.itemCalls)
}

func TestFresh_SingleSectionFailureSkipsIt(t *testing.T) {
	catalog := twoSectionCatalog()
	catalog.itemsErr["1"] = errors.New("timeout")
	manager, _ := newTestManager(t, catalog)

	snap := manager.Fresh(context.Background(), false)

	assert.NotContains(t, snap.Sections, "1")
	require.Contains(t, snap.Sections, "2")
	assert.Equal(t, "Mr. Robot", snap.Sections["2"].Items[0].Title)
}

func TestFresh_PersistsRebuiltSnapshot(t *testing.T) {
	catalog := twoSectionCatalog()
	manager, store := newTestManager(t, catalog)

	built := manager.Fresh(context.Background(), false)

	assert.Equal(t, built, store.Load())
}

func TestFresh_LogsInitialBuildDistinctly(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	catalog := twoSectionCatalog()
	store := NewStore(filepath.Join(t.TempDir(), "cache.json"), logger)
	manager := NewManager(store, catalog, 6*time.Hour, logger)

	manager.Fresh(context.Background(), false)
	assert.Contains(t, buf.String(), "building initial snapshot")

	buf.Reset()
	manager.Fresh(context.Background(), true)
	assert.Contains(t, buf.String(), "refreshing library snapshot")
}

func TestFresh_StampsRebuildTime(t *testing.T) {
	catalog := twoSectionCatalog()
	manager, _ := newTestManager(t, catalog)
	fixed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return fixed }

	snap := manager.Fresh(context.Background(), true)

	assert.Equal(t, fixed.Unix(), snap.UpdatedAt)
}

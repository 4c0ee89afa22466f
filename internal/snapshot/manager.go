package snapshot

import (
	"context"
	"log/slog"
	"time"

	"github.com/TooEinfach/PlexSearch/internal/domain"
)

// DefaultTTL is the snapshot age at which a rebuild is triggered
const DefaultTTL = 6 * time.Hour

// Manager decides when the snapshot is stale and rebuilds it from the
// catalog. TTL is the sole staleness signal; remote catalog changes inside
// the window are not detected.
type Manager struct {
	store  *Store
	client domain.CatalogClient
	ttl    time.Duration
	logger *slog.Logger

	now func() time.Time // test hook
}

// NewManager creates a cache manager. A non-positive ttl falls back to
// DefaultTTL.
func NewManager(store *Store, client domain.CatalogClient, ttl time.Duration, logger *slog.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		client: client,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Fresh returns a snapshot no older than the TTL, rebuilding it from the
// server when needed. With force set the rebuild happens regardless of
// age. A rebuild that cannot enumerate sections at all returns the stale
// snapshot unchanged; a section that fails to enumerate is skipped.
func (m *Manager) Fresh(ctx context.Context, force bool) domain.Snapshot {
	snap := m.store.Load()
	now := m.now().Unix()

	if !force && now-snap.UpdatedAt < int64(m.ttl.Seconds()) {
		return snap
	}

	if snap.Empty() {
		m.logger.Info("no snapshot on disk, building initial snapshot")
	} else {
		m.logger.Info("refreshing library snapshot from server")
	}

	sections, err := m.client.Libraries(ctx)
	if err != nil {
		m.logger.Error("failed to list library sections", "error", err)
		return snap
	}

	rebuilt := domain.Snapshot{
		UpdatedAt: now,
		Sections:  make(map[string]domain.Section, len(sections)),
	}

	for _, sec := range sections {
		items, err := m.client.SectionItems(ctx, sec.ID)
		if err != nil {
			m.logger.Warn("failed to read section, skipping", "section", sec.Title, "id", sec.ID, "error", err)
			continue
		}
		rebuilt.Sections[sec.ID] = domain.Section{
			ID:    sec.ID,
			Title: sec.Title,
			Type:  sec.Type,
			Items: items,
		}
	}

	if err := m.store.Save(rebuilt); err != nil {
		// Search proceeds against the in-memory snapshot either way
		m.logger.Warn("failed to persist snapshot", "error", err)
	}

	return rebuilt
}

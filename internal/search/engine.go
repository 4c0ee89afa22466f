package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/TooEinfach/PlexSearch/internal/domain"
)

// DefaultThreshold is the fuzzy cut-off applied when the caller does not
// supply one.
const DefaultThreshold = 80

// Engine performs exact matching against the live server and fuzzy
// matching against a cached snapshot.
type Engine struct {
	client      domain.CatalogClient
	defaultType string // media type restriction for unscoped exact search
	logger      *slog.Logger
}

// NewEngine creates a match engine. defaultType restricts unscoped exact
// searches to one media type; empty disables the restriction.
func NewEngine(client domain.CatalogClient, defaultType string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		client:      client,
		defaultType: defaultType,
		logger:      logger,
	}
}

// Exact issues a live search and filters the results down to titles that
// equal the query after trimming and lower-casing. The server's own search
// is substring based, so the equality filter is applied client side.
// Results are deduplicated by item identity.
//
// A failed scoped request (for example an invalid section id) is retried
// as an unrestricted server-wide search; if that also fails the error is
// logged and an empty result returned.
func (e *Engine) Exact(ctx context.Context, query, sectionID string) []domain.MatchResult {
	norm := Normalize(query)

	var (
		results []domain.MediaItem
		err     error
	)
	if sectionID != "" {
		results, err = e.client.SearchSection(ctx, sectionID, query)
	} else {
		results, err = e.client.Search(ctx, query, e.defaultType)
	}
	if err != nil {
		e.logger.Warn("scoped search failed, retrying server-wide", "section", sectionID, "error", err)
		results, err = e.client.Search(ctx, query, "")
		if err != nil {
			e.logger.Error("search failed", "error", err)
			return nil
		}
	}

	var matches []domain.MatchResult
	for _, item := range results {
		if Normalize(item.Title) != norm {
			continue
		}
		if containsItem(matches, item) {
			continue
		}
		matches = append(matches, domain.MatchResult{
			Item:    item,
			Library: item.Library,
		})
	}
	return matches
}

// Fuzzy scores snapshot items against the query with TokenSortRatio and
// returns everything at or above threshold, best first. Ties keep the
// candidate iteration order: items in cached section order, sections in
// sorted id order. A section id that is not in the snapshot yields no
// candidates rather than an error. threshold <= 0 falls back to
// DefaultThreshold.
func (e *Engine) Fuzzy(query string, threshold int, sectionID string, snap domain.Snapshot) []domain.MatchResult {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	var items []domain.MediaItem
	if sectionID != "" {
		if sec, ok := snap.Sections[sectionID]; ok {
			items = sec.Items
		}
	} else {
		ids := make([]string, 0, len(snap.Sections))
		for id := range snap.Sections {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			items = append(items, snap.Sections[id].Items...)
		}
	}

	var found []domain.MatchResult
	for _, item := range items {
		if item.Title == "" {
			continue
		}
		score := TokenSortRatio(query, item.Title)
		if score < threshold {
			continue
		}
		found = append(found, domain.MatchResult{
			Item:    item,
			Score:   score,
			Library: item.Library,
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Score > found[j].Score
	})
	return found
}

func containsItem(matches []domain.MatchResult, item domain.MediaItem) bool {
	for _, m := range matches {
		if m.Item.SameItem(item) {
			return true
		}
	}
	return false
}

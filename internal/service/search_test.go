package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TooEinfach/PlexSearch/internal/domain"
	"github.com/TooEinfach/PlexSearch/internal/search"
)

type fakeCatalog struct {
	libraries    []domain.SectionDescriptor
	librariesErr error

	searchFn        func(query, mediaType string) ([]domain.MediaItem, error)
	searchSectionFn func(sectionID, query string) ([]domain.MediaItem, error)

	searchCalls int
}

func (f *fakeCatalog) Libraries(ctx context.Context) ([]domain.SectionDescriptor, error) {
	if f.librariesErr != nil {
		return nil, f.librariesErr
	}
	return f.libraries, nil
}

func (f *fakeCatalog) Search(ctx context.Context, query, mediaType string) ([]domain.MediaItem, error) {
	f.searchCalls++
	if f.searchFn == nil {
		return nil, nil
	}
	return f.searchFn(query, mediaType)
}

func (f *fakeCatalog) SearchSection(ctx context.Context, sectionID, query string) ([]domain.MediaItem, error) {
	if f.searchSectionFn == nil {
		return nil, nil
	}
	return f.searchSectionFn(sectionID, query)
}

func (f *fakeCatalog) SectionItems(ctx context.Context, sectionID string) ([]domain.MediaItem, error) {
	return nil, nil
}

var heat = domain.MediaItem{ID: "300", Title: "Heat", Year: 1995, Type: "movie", Library: "Movies"}

func snapWith(items ...domain.MediaItem) domain.Snapshot {
	return domain.Snapshot{
		UpdatedAt: 1000,
		Sections: map[string]domain.Section{
			"1": {ID: "1", Title: "Movies", Type: "movie", Items: items},
		},
	}
}

func newService(catalog *fakeCatalog) *SearchService {
	engine := search.NewEngine(catalog, "movie", nil)
	return NewSearchService(engine, catalog, nil)
}

func TestRun_ExactFoundIsTerminal(t *testing.T) {
	catalog := &fakeCatalog{
		searchFn: func(query, mediaType string) ([]domain.MediaItem, error) {
			return []domain.MediaItem{heat}, nil
		},
	}
	svc := newService(catalog)

	out := svc.Run(context.Background(), "heat", snapWith(heat), Options{Fuzzy: true, Threshold: 85})

	assert.Equal(t, ExactFound, out.Kind)
	require.Len(t, out.Matches, 1)
	assert.Equal(t, "Heat", out.Matches[0].Item.Title)
	// Exact search only; no fallback traffic
	assert.Equal(t, 1, catalog.searchCalls)
}

func TestRun_FuzzyFoundWhenExactEmpty(t *testing.T) {
	catalog := &fakeCatalog{}
	svc := newService(catalog)

	// One typo away from the cached title
	out := svc.Run(context.Background(), "heaat", snapWith(heat), Options{Fuzzy: true, Threshold: 50})

	assert.Equal(t, FuzzyFound, out.Kind)
	require.NotEmpty(t, out.Matches)
	assert.Equal(t, 50, out.Threshold)
	assert.NotZero(t, out.Matches[0].Score)
}

func TestRun_FuzzyEmptyNeverFallsThroughToRaw(t *testing.T) {
	catalog := &fakeCatalog{}
	svc := newService(catalog)

	out := svc.Run(context.Background(), "zzz unmatched", snapWith(heat), Options{Fuzzy: true, Threshold: 85})

	assert.Equal(t, FuzzyEmpty, out.Kind)
	// One exact attempt; the raw fallback must not run once fuzzy was requested
	assert.Equal(t, 1, catalog.searchCalls)
}

func TestRun_RawFallbackWhenFuzzyNotRequested(t *testing.T) {
	raw := []domain.MediaItem{
		{Title: "Heat", Year: 1995, Type: "movie"},
		{Title: "Heat Wave", Type: "show"},
	}
	catalog := &fakeCatalog{
		searchFn: func(query, mediaType string) ([]domain.MediaItem, error) {
			if mediaType == "" {
				return raw, nil
			}
			return nil, nil // exact attempt finds nothing
		},
	}
	svc := newService(catalog)

	out := svc.Run(context.Background(), "heat wav", snapWith(heat), Options{})

	assert.Equal(t, RawResults, out.Kind)
	assert.Equal(t, raw, out.Raw)
}

func TestRun_RawFallbackFailureIsReported(t *testing.T) {
	cause := errors.New("connection refused")
	catalog := &fakeCatalog{
		searchFn: func(query, mediaType string) ([]domain.MediaItem, error) {
			return nil, cause
		},
	}
	svc := newService(catalog)

	out := svc.Run(context.Background(), "heat", snapWith(), Options{})

	assert.Equal(t, RawFailed, out.Kind)
	assert.ErrorIs(t, out.Err, cause)
}

func TestRender_ExactOutcome(t *testing.T) {
	var sb strings.Builder
	Render(&sb, Outcome{Kind: ExactFound, Matches: []domain.MatchResult{{Item: heat, Library: "Movies"}}}, 20)

	got := sb.String()
	assert.Contains(t, got, "Exact match found (1)")
	assert.Contains(t, got, "Heat")
	assert.Contains(t, got, "1995")
	assert.Contains(t, got, "Movies")
}

func TestRender_FuzzyEmptyOutcome(t *testing.T) {
	var sb strings.Builder
	Render(&sb, Outcome{Kind: FuzzyEmpty, Threshold: 85}, 20)

	assert.Contains(t, sb.String(), "No fuzzy matches found.")
}

func TestRender_RawNoResults(t *testing.T) {
	var sb strings.Builder
	Render(&sb, Outcome{Kind: RawResults}, 20)

	assert.Contains(t, sb.String(), "No results from server search.")
}

func TestRender_RawDefensivePlaceholders(t *testing.T) {
	var sb strings.Builder
	Render(&sb, Outcome{Kind: RawResults, Raw: []domain.MediaItem{{}}}, 20)

	got := sb.String()
	assert.Contains(t, got, "<unknown>")
	assert.Contains(t, got, "n/a")
}

func TestRender_RawCappedAtLimit(t *testing.T) {
	items := make([]domain.MediaItem, 30)
	for i := range items {
		items[i] = domain.MediaItem{Title: "Result", ID: string(rune('a' + i))}
	}
	var sb strings.Builder
	Render(&sb, Outcome{Kind: RawResults, Raw: items}, 20)

	assert.Equal(t, 20, strings.Count(sb.String(), "Result"))
}

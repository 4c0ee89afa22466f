package service

import (
	"context"
	"log/slog"

	"github.com/TooEinfach/PlexSearch/internal/domain"
	"github.com/TooEinfach/PlexSearch/internal/search"
)

// OutcomeKind is the terminal state of one query
type OutcomeKind int

const (
	// ExactFound: the live server returned at least one exact title match
	ExactFound OutcomeKind = iota
	// FuzzyFound: no exact match, fuzzy matching against the snapshot hit
	FuzzyFound
	// FuzzyEmpty: fuzzy was requested and found nothing; no further fallback
	FuzzyEmpty
	// RawResults: no exact match and fuzzy not requested; raw server results
	RawResults
	// RawFailed: the raw fallback search itself failed
	RawFailed
)

// Outcome is the result of running one query through the search pipeline
type Outcome struct {
	Kind      OutcomeKind
	Matches   []domain.MatchResult // ExactFound / FuzzyFound
	Raw       []domain.MediaItem   // RawResults
	Threshold int                  // threshold used, for FuzzyFound/FuzzyEmpty
	Err       error                // RawFailed
}

// Options control one query run
type Options struct {
	SectionID string
	Fuzzy     bool
	Threshold int
}

// SearchService sequences exact, fuzzy, and raw-fallback matching for a
// single query. A failing query produces a failure outcome, never an
// aborted session.
type SearchService struct {
	engine *search.Engine
	client domain.CatalogClient
	logger *slog.Logger
}

// NewSearchService creates the search orchestrator
func NewSearchService(engine *search.Engine, client domain.CatalogClient, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		engine: engine,
		client: client,
		logger: logger,
	}
}

// Run executes the pipeline for one query: exact first, then fuzzy if
// requested (terminal either way), then one raw server-wide search.
func (s *SearchService) Run(ctx context.Context, query string, snap domain.Snapshot, opts Options) Outcome {
	s.logger.Debug("running query", "query", query, "section", opts.SectionID, "fuzzy", opts.Fuzzy)

	exact := s.engine.Exact(ctx, query, opts.SectionID)
	if len(exact) > 0 {
		return Outcome{Kind: ExactFound, Matches: exact}
	}

	if opts.Fuzzy {
		matches := s.engine.Fuzzy(query, opts.Threshold, opts.SectionID, snap)
		if len(matches) > 0 {
			return Outcome{Kind: FuzzyFound, Matches: matches, Threshold: opts.Threshold}
		}
		return Outcome{Kind: FuzzyEmpty, Threshold: opts.Threshold}
	}

	raw, err := s.client.Search(ctx, query, "")
	if err != nil {
		s.logger.Error("fallback search failed", "query", query, "error", err)
		return Outcome{Kind: RawFailed, Err: err}
	}
	return Outcome{Kind: RawResults, Raw: raw}
}

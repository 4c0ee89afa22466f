package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/TooEinfach/PlexSearch/internal/domain"
)

// sectionIndex implements fuzzy.Source over section titles
type sectionIndex struct {
	sections    []domain.SectionDescriptor
	lowerTitles []string
}

func (idx *sectionIndex) String(i int) string { return idx.lowerTitles[i] }
func (idx *sectionIndex) Len() int            { return len(idx.sections) }

// LibraryService resolves user-supplied section references against the
// server's section list.
type LibraryService struct {
	client domain.CatalogClient
	logger *slog.Logger
}

// NewLibraryService creates a library service
func NewLibraryService(client domain.CatalogClient, logger *slog.Logger) *LibraryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LibraryService{client: client, logger: logger}
}

// ResolveSection turns a --section argument into a section id. Numeric
// references are treated as ids and passed through untouched; anything
// else is matched against library names, exact (case-insensitive) first,
// then fuzzily.
func (s *LibraryService) ResolveSection(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	if isNumeric(ref) {
		return ref, nil
	}

	sections, err := s.client.Libraries(ctx)
	if err != nil {
		return "", err
	}

	idx := &sectionIndex{
		sections:    sections,
		lowerTitles: make([]string, len(sections)),
	}
	for i, sec := range sections {
		idx.lowerTitles[i] = strings.ToLower(sec.Title)
	}

	lower := strings.ToLower(ref)
	for i, title := range idx.lowerTitles {
		if title == lower {
			return idx.sections[i].ID, nil
		}
	}

	matches := fuzzy.FindFrom(lower, idx)
	if len(matches) == 0 {
		return "", domain.ErrSectionNotFound
	}

	best := idx.sections[matches[0].Index]
	s.logger.Debug("resolved section by name", "ref", ref, "section", best.Title, "id", best.ID)
	return best.ID, nil
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

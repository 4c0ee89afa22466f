package domain

import (
	"context"
)

// SectionDescriptor identifies a library section without its items.
type SectionDescriptor struct {
	ID    string
	Title string
	Type  string
}

// CatalogClient provides read access to the media server catalog.
// All calls are live network requests; any of them may fail.
type CatalogClient interface {
	// Libraries returns all library sections on the server
	Libraries(ctx context.Context) ([]SectionDescriptor, error)

	// Search performs a server-wide search, optionally restricted
	// to one media type ("" means no restriction)
	Search(ctx context.Context, query, mediaType string) ([]MediaItem, error)

	// SearchSection searches within a single library section
	SearchSection(ctx context.Context, sectionID, query string) ([]MediaItem, error)

	// SectionItems returns every item in a section (handles pagination internally)
	SectionItems(ctx context.Context, sectionID string) ([]MediaItem, error)
}

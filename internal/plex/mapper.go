package plex

import (
	"github.com/TooEinfach/PlexSearch/internal/domain"
)

// MapSections converts Plex directories to section descriptors
func MapSections(dirs []Directory) []domain.SectionDescriptor {
	sections := make([]domain.SectionDescriptor, 0, len(dirs))
	for _, d := range dirs {
		sections = append(sections, domain.SectionDescriptor{
			ID:    d.Key,
			Title: d.Title,
			Type:  d.Type,
		})
	}
	return sections
}

// MapItems converts Plex metadata to media items. Remote shapes vary by
// type (movies vs shows vs actor hubs); absent fields map to zero values
// and alternate name fields stand in for a missing title.
func MapItems(metadata []Metadata) []domain.MediaItem {
	items := make([]domain.MediaItem, 0, len(metadata))
	for _, m := range metadata {
		items = append(items, mapItem(m))
	}
	return items
}

func mapItem(m Metadata) domain.MediaItem {
	title := m.Title
	if title == "" {
		title = m.Name
	}
	if title == "" {
		title = m.Tag
	}
	return domain.MediaItem{
		ID:      m.RatingKey,
		Title:   title,
		Year:    m.Year,
		Type:    m.Type,
		Library: m.LibrarySectionTitle,
	}
}

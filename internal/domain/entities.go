package domain

// MediaItem is one catalog entry as cached in a snapshot or returned from
// a live search. Identity is ID when the server provided one; otherwise
// best-effort equality on (Title, Year, Type).
type MediaItem struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Year    int    `json:"year,omitempty"`
	Type    string `json:"type,omitempty"` // "movie", "show", ...
	Library string `json:"library,omitempty"`
}

// SameItem reports whether two items refer to the same catalog entry.
func (m MediaItem) SameItem(o MediaItem) bool {
	if m.ID != "" && o.ID != "" {
		return m.ID == o.ID
	}
	return m.Title == o.Title && m.Year == o.Year && m.Type == o.Type
}

// Section is one library grouping on the server (a movie library, a show
// library, ...) with its full item listing.
type Section struct {
	ID    string      `json:"id"`
	Title string      `json:"title"`
	Type  string      `json:"type"`
	Items []MediaItem `json:"items"`
}

// Snapshot is a timestamped, immutable copy of every section's items.
// The zero value (UpdatedAt == 0, no sections) means "never cached",
// which is distinct from a snapshot that legitimately has zero sections.
type Snapshot struct {
	UpdatedAt int64              `json:"updatedAt"`
	Sections  map[string]Section `json:"sections"`
}

// Empty reports whether this snapshot has never been taken.
func (s Snapshot) Empty() bool {
	return s.UpdatedAt == 0 && len(s.Sections) == 0
}

// MatchResult is a single search hit. Score is populated only for fuzzy
// results (0-100); exact results carry the item and its source library.
type MatchResult struct {
	Item    MediaItem
	Score   int
	Library string
}

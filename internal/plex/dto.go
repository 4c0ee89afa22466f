package plex

// MediaContainer is the root container for Plex API responses
type MediaContainer struct {
	Size      int         `json:"size"`
	TotalSize int         `json:"totalSize,omitempty"`
	Offset    int         `json:"offset,omitempty"`
	Directory []Directory `json:"Directory,omitempty"`
	Metadata  []Metadata  `json:"Metadata,omitempty"`
}

// Directory represents a library section
type Directory struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

// Metadata represents a media item (movie, show, episode, or anything else
// the server decides to return). Every field is optional on the wire.
type Metadata struct {
	RatingKey           string `json:"ratingKey,omitempty"`
	Key                 string `json:"key,omitempty"`
	Type                string `json:"type,omitempty"`
	Title               string `json:"title,omitempty"`
	Year                int    `json:"year,omitempty"`
	LibrarySectionID    int    `json:"librarySectionID,omitempty"`
	LibrarySectionTitle string `json:"librarySectionTitle,omitempty"`

	// Non-video results (actors, tags) surface alternate name fields
	Name string `json:"name,omitempty"`
	Tag  string `json:"tag,omitempty"`
}

// APIResponse wraps the MediaContainer for JSON unmarshaling
type APIResponse struct {
	MediaContainer MediaContainer `json:"MediaContainer"`
}

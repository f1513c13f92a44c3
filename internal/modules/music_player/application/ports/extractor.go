package ports

import (
	"context"

	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
)

// ExtractResult is the metadata an extractor found for one identifier.
type ExtractResult struct {
	StreamURL string
	Title     string
	PageURL   string
	Uploader  string
}

// Extractor turns a source identifier into a playable stream. It performs
// network I/O and may take seconds.
type Extractor interface {
	Extract(ctx context.Context, id domain.SourceIdentifier) (*ExtractResult, error)
}

// SearchResult is a single search hit.
type SearchResult struct {
	Title    string
	PageURL  string
	Uploader string
}

// Searcher finds page URLs for free-text queries.
type Searcher interface {
	// Search returns hits in relevance order. An empty slice means no results.
	Search(ctx context.Context, query domain.SearchQuery) ([]SearchResult, error)
}

// TrackMetadata is the title and artist a link's page advertises.
type TrackMetadata struct {
	Title  string
	Artist string
}

// TrackMetadataLookup reads track metadata from a link whose audio cannot be
// extracted directly.
type TrackMetadataLookup interface {
	Lookup(ctx context.Context, pageURL string) (*TrackMetadata, error)
}

package domain

import (
	"net/url"
	"strings"
)

// SearchSource represents the catalogue a non-URL identifier is searched in.
type SearchSource string

const (
	// SourceYouTube searches YouTube.
	SourceYouTube SearchSource = "ytsearch"
	// SourceYouTubeMusic searches YouTube Music.
	SourceYouTubeMusic SearchSource = "ytmsearch"
	// SourceDirect indicates a direct URL (no search).
	SourceDirect SearchSource = ""
	// SourceSpotify is a Spotify track link. Its audio is not fetchable, so
	// the track's title and artist are looked up and searched on YouTube.
	SourceSpotify SearchSource = "spotify"
)

// searchPrefixes maps user-facing query prefixes to their search source.
var searchPrefixes = []struct {
	prefix string
	source SearchSource
}{
	{"ytmsearch:", SourceYouTubeMusic},
	{"ytm:", SourceYouTubeMusic},
	{"ytsearch:", SourceYouTube},
	{"yt:", SourceYouTube},
}

// SearchQuery represents how an identifier should be turned into a page URL.
type SearchQuery struct {
	Query  string       // The search term or URL
	Source SearchSource // The search source
	IsURL  bool         // Whether the query is a direct URL
}

// NewSearchQuery creates a SearchQuery from an identifier.
// URLs are used as-is. A known prefix selects the search source; anything
// else is searched on YouTube.
func NewSearchQuery(id SourceIdentifier) SearchQuery {
	input := id.String()

	if isURL(input) {
		if isSpotifyTrackURL(input) {
			return SearchQuery{
				Query:  input,
				Source: SourceSpotify,
				IsURL:  true,
			}
		}
		return SearchQuery{
			Query:  input,
			Source: SourceDirect,
			IsURL:  true,
		}
	}

	lower := strings.ToLower(input)
	for _, p := range searchPrefixes {
		if strings.HasPrefix(lower, p.prefix) {
			return SearchQuery{
				Query:  strings.TrimSpace(input[len(p.prefix):]),
				Source: p.source,
			}
		}
	}

	return SearchQuery{
		Query:  input,
		Source: SourceYouTube,
	}
}

// YtdlpQuery returns the query string formatted for yt-dlp's own search
// extractor, which only understands YouTube search.
func (q SearchQuery) YtdlpQuery() string {
	if q.IsURL {
		return q.Query
	}
	return "ytsearch1:" + q.Query
}

// NeedsMetadataLookup reports whether the query is a link whose title and
// artist must be looked up before it can be searched.
func (q SearchQuery) NeedsMetadataLookup() bool {
	return q.Source == SourceSpotify
}

// MetadataSearchQuery builds the "title - artist" YouTube query for a
// looked-up track.
func MetadataSearchQuery(title, artist string) SearchQuery {
	query := strings.TrimSpace(title)
	if artist = strings.TrimSpace(artist); artist != "" {
		query += " - " + artist
	}
	return SearchQuery{
		Query:  query,
		Source: SourceYouTube,
	}
}

// IsValid returns true if the query is not empty.
func (q SearchQuery) IsValid() bool {
	return q.Query != ""
}

// isURL checks if the input looks like a URL.
func isURL(input string) bool {
	return strings.HasPrefix(input, "http://") ||
		strings.HasPrefix(input, "https://") ||
		strings.HasPrefix(input, "www.")
}

// isSpotifyTrackURL matches open.spotify.com/track/<id>, with or without a
// locale segment such as /intl-ja/.
func isSpotifyTrackURL(input string) bool {
	if strings.HasPrefix(input, "www.") {
		input = "https://" + input
	}
	u, err := url.Parse(input)
	if err != nil || !strings.EqualFold(u.Hostname(), "open.spotify.com") {
		return false
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) > 0 && strings.HasPrefix(segments[0], "intl-") {
		segments = segments[1:]
	}
	return len(segments) == 2 && segments[0] == "track" && segments[1] != ""
}

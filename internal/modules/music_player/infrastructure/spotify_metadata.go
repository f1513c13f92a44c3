package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
)

const (
	spotifyLookupTimeout = 10 * time.Second
	// spotifyPageLimit caps how much of a track page is read; the Open Graph
	// tags are in the head.
	spotifyPageLimit = 1 << 20
	spotifyUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// spotifyTitleSuffixes are trimmed from og:title.
var spotifyTitleSuffixes = []string{" - song and lyrics by", " | Spotify"}

// SpotifyMetadataLookup reads a Spotify track page's Open Graph tags.
type SpotifyMetadataLookup struct {
	client *http.Client
}

// NewSpotifyMetadataLookup creates a SpotifyMetadataLookup. A nil client gets
// one with a short timeout.
func NewSpotifyMetadataLookup(client *http.Client) *SpotifyMetadataLookup {
	if client == nil {
		client = &http.Client{Timeout: spotifyLookupTimeout}
	}
	return &SpotifyMetadataLookup{client: client}
}

// Lookup fetches the page and returns the track title and first artist.
func (l *SpotifyMetadataLookup) Lookup(
	ctx context.Context,
	pageURL string,
) (*ports.TrackMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build spotify request: %w", err)
	}
	req.Header.Set("User-Agent", spotifyUserAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spotify page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch spotify page: HTTP %d", resp.StatusCode)
	}

	return parseSpotifyPage(io.LimitReader(resp.Body, spotifyPageLimit))
}

func parseSpotifyPage(r io.Reader) (*ports.TrackMetadata, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse spotify page: %w", err)
	}

	title := strings.TrimSpace(doc.Find(`meta[property="og:title"]`).First().AttrOr("content", ""))
	for _, suffix := range spotifyTitleSuffixes {
		if i := strings.Index(title, suffix); i >= 0 {
			title = strings.TrimSpace(title[:i])
		}
	}
	if title == "" {
		return nil, domain.ErrNoMetadata
	}

	// og:description reads "Artist · Album · Song · Year".
	var artist string
	desc := doc.Find(`meta[property="og:description"]`).First().AttrOr("content", "")
	if first, _, found := strings.Cut(desc, " · "); found {
		artist = strings.TrimSpace(first)
	}

	return &ports.TrackMetadata{Title: title, Artist: artist}, nil
}

var _ ports.TrackMetadataLookup = (*SpotifyMetadataLookup)(nil)

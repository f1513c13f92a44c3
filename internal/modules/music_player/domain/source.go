package domain

import (
	"net/url"
	"strings"
)

// SourceIdentifier is the user-supplied string naming what to play: a URL or
// an opaque search query. It is the cache key for resolutions.
type SourceIdentifier string

// NewSourceIdentifier canonicalises raw user input. Only surrounding
// whitespace is trimmed, so two different spellings of the same query are two
// different identifiers.
func NewSourceIdentifier(raw string) SourceIdentifier {
	return SourceIdentifier(strings.TrimSpace(raw))
}

// String returns the identifier as a plain string.
func (s SourceIdentifier) String() string {
	return string(s)
}

// IsEmpty returns true if nothing is left after canonicalisation.
func (s SourceIdentifier) IsEmpty() bool {
	return s == ""
}

// TrackSource represents the platform a resolved stream comes from.
type TrackSource string

const (
	TrackSourceYouTube    TrackSource = "youtube"
	TrackSourceSoundCloud TrackSource = "soundcloud"
	TrackSourceBandcamp   TrackSource = "bandcamp"
	TrackSourceTwitch     TrackSource = "twitch"
	TrackSourceOther      TrackSource = "other"
)

// ParseTrackSource derives the TrackSource from a page URL's host.
func ParseTrackSource(pageURL string) TrackSource {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return TrackSourceOther
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch {
	case host == "youtu.be" || host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		return TrackSourceYouTube
	case host == "soundcloud.com" || strings.HasSuffix(host, ".soundcloud.com"):
		return TrackSourceSoundCloud
	case strings.HasSuffix(host, "bandcamp.com"):
		return TrackSourceBandcamp
	case host == "twitch.tv" || strings.HasSuffix(host, ".twitch.tv"):
		return TrackSourceTwitch
	default:
		return TrackSourceOther
	}
}

// Color returns the embed accent color used for the source.
func (s TrackSource) Color() int {
	switch s {
	case TrackSourceYouTube:
		return 0xFF0000
	case TrackSourceSoundCloud:
		return 0xFF5500
	case TrackSourceBandcamp:
		return 0x1DA0C3
	case TrackSourceTwitch:
		return 0x9146FF
	default:
		return 0x5865F2
	}
}

// IconURL returns a small logo for the source, or "" if there is none.
func (s TrackSource) IconURL() string {
	switch s {
	case TrackSourceYouTube:
		return "https://www.youtube.com/s/desktop/favicon_144x144.png"
	case TrackSourceSoundCloud:
		return "https://a-v2.sndcdn.com/assets/images/sc-icons/favicon-2cadd14bdb.ico"
	case TrackSourceTwitch:
		return "https://static.twitchcdn.net/assets/favicon-32-e29e246c157142c94346.png"
	default:
		return ""
	}
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSearchQuery(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		expectedQuery  string
		expectedSource SearchSource
		expectedIsURL  bool
	}{
		{
			name:           "search term",
			input:          "never gonna give you up",
			expectedQuery:  "never gonna give you up",
			expectedSource: SourceYouTube,
		},
		{
			name:           "search term with whitespace",
			input:          "  hello world  ",
			expectedQuery:  "hello world",
			expectedSource: SourceYouTube,
		},
		{
			name:           "https URL",
			input:          "https://youtube.com/watch?v=dQw4w9WgXcQ",
			expectedQuery:  "https://youtube.com/watch?v=dQw4w9WgXcQ",
			expectedSource: SourceDirect,
			expectedIsURL:  true,
		},
		{
			name:           "http URL",
			input:          "http://example.com/audio.mp3",
			expectedQuery:  "http://example.com/audio.mp3",
			expectedSource: SourceDirect,
			expectedIsURL:  true,
		},
		{
			name:           "www URL",
			input:          "www.youtube.com/watch?v=abc",
			expectedQuery:  "www.youtube.com/watch?v=abc",
			expectedSource: SourceDirect,
			expectedIsURL:  true,
		},
		{
			name:           "youtube music prefix",
			input:          "ytm: daft punk",
			expectedQuery:  "daft punk",
			expectedSource: SourceYouTubeMusic,
		},
		{
			name:           "ytmsearch prefix",
			input:          "YTMSEARCH:daft punk",
			expectedQuery:  "daft punk",
			expectedSource: SourceYouTubeMusic,
		},
		{
			name:           "spotify track link",
			input:          "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC?si=abc",
			expectedQuery:  "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC?si=abc",
			expectedSource: SourceSpotify,
			expectedIsURL:  true,
		},
		{
			name:           "spotify track link with locale",
			input:          "https://open.spotify.com/intl-ja/track/4uLU6hMCjMI75M1A2tKUQC",
			expectedQuery:  "https://open.spotify.com/intl-ja/track/4uLU6hMCjMI75M1A2tKUQC",
			expectedSource: SourceSpotify,
			expectedIsURL:  true,
		},
		{
			name:           "spotify album link is a plain url",
			input:          "https://open.spotify.com/album/1DFixLWuPkv3KT3TnV35m3",
			expectedQuery:  "https://open.spotify.com/album/1DFixLWuPkv3KT3TnV35m3",
			expectedSource: SourceDirect,
			expectedIsURL:  true,
		},
		{
			name:           "explicit youtube prefix",
			input:          "ytsearch:lofi",
			expectedQuery:  "lofi",
			expectedSource: SourceYouTube,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewSearchQuery(NewSourceIdentifier(tt.input))

			assert.Equal(t, tt.expectedQuery, q.Query)
			assert.Equal(t, tt.expectedSource, q.Source)
			assert.Equal(t, tt.expectedIsURL, q.IsURL)
		})
	}
}

func TestSearchQuery_YtdlpQuery(t *testing.T) {
	assert.Equal(t, "ytsearch1:lofi", NewSearchQuery("lofi").YtdlpQuery())
	assert.Equal(t, "https://x.test/a", NewSearchQuery("https://x.test/a").YtdlpQuery())
}

func TestSourceIdentifier(t *testing.T) {
	assert.Equal(t, SourceIdentifier("a  b"), NewSourceIdentifier("  a  b \n"))
	assert.True(t, NewSourceIdentifier("   ").IsEmpty())
	assert.NotEqual(t, NewSourceIdentifier("Song"), NewSourceIdentifier("song"))
}

func TestParseTrackSource(t *testing.T) {
	tests := []struct {
		pageURL  string
		expected TrackSource
	}{
		{"https://www.youtube.com/watch?v=x", TrackSourceYouTube},
		{"https://music.youtube.com/watch?v=x", TrackSourceYouTube},
		{"https://youtu.be/x", TrackSourceYouTube},
		{"https://soundcloud.com/a/b", TrackSourceSoundCloud},
		{"https://artist.bandcamp.com/track/x", TrackSourceBandcamp},
		{"https://www.twitch.tv/x", TrackSourceTwitch},
		{"https://example.com/a.mp3", TrackSourceOther},
		{"not a url", TrackSourceOther},
		{"", TrackSourceOther},
	}

	for _, tt := range tests {
		t.Run(tt.pageURL, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseTrackSource(tt.pageURL))
		})
	}
}

func TestParseCodecHint(t *testing.T) {
	assert.Equal(t, CodecHintOpus, ParseCodecHint("opus"))
	assert.Equal(t, CodecHintOther, ParseCodecHint("other"))
	assert.Equal(t, CodecHintUnknown, ParseCodecHint(""))
	assert.Equal(t, CodecHintUnknown, ParseCodecHint("garbage"))
	assert.False(t, CodecHintUnknown.IsKnown())
	assert.True(t, CodecHintOpus.IsKnown())
}

func TestTrackEndReason_ShouldAdvanceQueue(t *testing.T) {
	assert.True(t, TrackEndFinished.ShouldAdvanceQueue())
	assert.True(t, TrackEndLoadFailed.ShouldAdvanceQueue())
	assert.True(t, TrackEndStopped.ShouldAdvanceQueue())
	assert.False(t, TrackEndReplaced.ShouldAdvanceQueue())
	assert.False(t, TrackEndCleanup.ShouldAdvanceQueue())
}

func TestSearchQuery_NeedsMetadataLookup(t *testing.T) {
	assert.True(t, NewSearchQuery(NewSourceIdentifier("https://open.spotify.com/track/abc")).NeedsMetadataLookup())
	assert.False(t, NewSearchQuery(NewSourceIdentifier("https://youtu.be/abc")).NeedsMetadataLookup())
	assert.False(t, NewSearchQuery(NewSourceIdentifier("open spotify track")).NeedsMetadataLookup())
}

func TestMetadataSearchQuery(t *testing.T) {
	q := MetadataSearchQuery(" Never Gonna Give You Up ", "Rick Astley")
	assert.Equal(t, "Never Gonna Give You Up - Rick Astley", q.Query)
	assert.Equal(t, SourceYouTube, q.Source)
	assert.False(t, q.IsURL)

	assert.Equal(t, "Song", MetadataSearchQuery("Song", " ").Query)
}

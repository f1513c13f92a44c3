package infrastructure

import (
	"testing"
	"time"

	"github.com/sglre6355/jukebot/internal/modules/music_player/application/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYouTubeVideoID(t *testing.T) {
	tests := []struct {
		pageURL  string
		expected string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/abc123", "abc123"},
		{"https://music.youtube.com/watch?v=xyz&list=1", "xyz"},
		{"https://example.com/a.mp3", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.pageURL, func(t *testing.T) {
			assert.Equal(t, tt.expected, youTubeVideoID(tt.pageURL))
		})
	}
}

func TestBuildNowPlayingEmbed(t *testing.T) {
	embed := buildNowPlayingEmbed(&ports.NowPlayingInfo{
		Title:         "Song",
		Uploader:      "Band",
		PageURL:       "https://www.youtube.com/watch?v=x",
		SourceName:    "youtube",
		Volume:        "80%",
		RequesterName: "Alice",
		EnqueuedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})

	assert.Equal(t, "Song", embed.Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=x", embed.URL)
	assert.Equal(t, 0xFF0000, embed.Color)
	assert.Equal(t, "2026-01-02T03:04:05Z", embed.Timestamp)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "Band", embed.Fields[0].Value)
	assert.Equal(t, "80%", embed.Fields[1].Value)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "Requested by Alice", embed.Footer.Text)
}

func TestBuildNowPlayingEmbed_Minimal(t *testing.T) {
	embed := buildNowPlayingEmbed(&ports.NowPlayingInfo{Title: "https://x.test/a.mp3"})

	assert.Empty(t, embed.Fields)
	assert.Nil(t, embed.Footer)
	assert.Empty(t, embed.Timestamp)
}

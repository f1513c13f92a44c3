package discord

import (
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/jukebot/internal/bot"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutocomplete_Play(t *testing.T) {
	searcher := &mockSearcher{results: []ports.SearchResult{
		{Title: "Song", Uploader: "Band", PageURL: "https://www.youtube.com/watch?v=1"},
		{Title: "No URL"},
		{Title: strings.Repeat("x", 150), PageURL: "https://www.youtube.com/watch?v=2"},
	}}
	h := NewAutocompleteHandler(searcher)
	r := &bot.MockResponder{}

	require.NoError(t, h.handlePlay(t.Context(), "some song", r))

	require.NotNil(t, r.LastResponse)
	assert.Equal(t, discordgo.InteractionApplicationCommandAutocompleteResult, r.LastResponse.Type)
	choices := r.LastResponse.Data.Choices
	require.Len(t, choices, 2)
	assert.Equal(t, "Song - Band", choices[0].Name)
	assert.Equal(t, "https://www.youtube.com/watch?v=1", choices[0].Value)
	assert.Len(t, []rune(choices[1].Name), maxChoiceLength)
	assert.True(t, strings.HasSuffix(choices[1].Name, "..."))
}

func TestAutocomplete_SkipsShortQueriesAndURLs(t *testing.T) {
	searcher := &mockSearcher{}
	h := NewAutocompleteHandler(searcher)

	for _, query := range []string{"", "a", "ytm:a", "https://example.com/a.mp3"} {
		r := &bot.MockResponder{}
		require.NoError(t, h.handlePlay(t.Context(), query, r))
		assert.Empty(t, r.LastResponse.Data.Choices, query)
	}
	assert.Equal(t, 0, searcher.calls)
}

func TestAutocomplete_SearchError(t *testing.T) {
	h := NewAutocompleteHandler(&mockSearcher{err: errors.New("down")})
	r := &bot.MockResponder{}

	require.NoError(t, h.handlePlay(t.Context(), "some song", r))
	assert.NotNil(t, r.LastResponse.Data.Choices)
	assert.Empty(t, r.LastResponse.Data.Choices)
}

package discord

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/jukebot/internal/bot"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
)

const (
	// Discord drops autocomplete answers that take longer than three seconds.
	autocompleteTimeout  = 2500 * time.Millisecond
	autocompleteMinQuery = 2
	maxChoices           = 25
	maxChoiceLength      = 100
)

// AutocompleteHandler suggests tracks for /play.
type AutocompleteHandler struct {
	searcher ports.Searcher
}

// NewAutocompleteHandler creates a new AutocompleteHandler.
func NewAutocompleteHandler(searcher ports.Searcher) *AutocompleteHandler {
	return &AutocompleteHandler{searcher: searcher}
}

// HandleInteraction answers autocomplete interactions for /play.
func (h *AutocompleteHandler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommandAutocomplete {
		return
	}
	if i.ApplicationCommandData().Name != "play" {
		return
	}

	var query string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "query" && opt.Focused {
			query = opt.StringValue()
			break
		}
	}

	if err := h.handlePlay(context.Background(), query, bot.NewDiscordResponder(s, i.Interaction)); err != nil {
		slog.Warn("failed to respond to autocomplete", "error", err)
	}
}

func (h *AutocompleteHandler) handlePlay(ctx context.Context, query string, r bot.Responder) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: h.choices(ctx, query),
		},
	})
}

func (h *AutocompleteHandler) choices(
	ctx context.Context,
	query string,
) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0)

	searchQuery := domain.NewSearchQuery(domain.NewSourceIdentifier(query))
	// Don't search for very short queries or URLs
	if h.searcher == nil || searchQuery.IsURL || len(searchQuery.Query) < autocompleteMinQuery {
		return choices
	}

	ctx, cancel := context.WithTimeout(ctx, autocompleteTimeout)
	defer cancel()

	results, err := h.searcher.Search(ctx, searchQuery)
	if err != nil {
		slog.Debug("autocomplete search failed", "query", query, "error", err)
		return choices
	}

	for _, result := range results {
		if len(choices) == maxChoices {
			break
		}
		if result.PageURL == "" || len(result.PageURL) > maxChoiceLength {
			continue
		}
		name := result.Title
		if result.Uploader != "" {
			name += " - " + result.Uploader
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  truncate(strings.TrimSpace(name), maxChoiceLength),
			Value: result.PageURL,
		})
	}

	return choices
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

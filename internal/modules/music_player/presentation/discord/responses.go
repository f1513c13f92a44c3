package discord

import (
	"errors"
	"fmt"
	"log/slog"
	"unicode"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/jukebot/internal/bot"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

const genericErrorMessage = "An error occurred while processing your command."

// userErrors are shown to the user as they are. Anything else is logged and
// answered with a generic message.
var userErrors = []error{
	errGuildOnly,
	errNotSameChannel,
	errUnknownCommand,
	usecases.ErrNotConnected,
	usecases.ErrUserNotInVoice,
	usecases.ErrNothingPlaying,
	usecases.ErrAlreadyPaused,
	usecases.ErrNotPaused,
	usecases.ErrQueueEmpty,
	usecases.ErrInvalidVolume,
	usecases.ErrEmptyIdentifier,
	usecases.ErrShutdown,
}

// errorMessage converts an error into the text shown in the error embed.
func errorMessage(err error) string {
	var resolutionErr *domain.ResolutionError
	switch {
	case errors.As(err, &resolutionErr):
		if errors.Is(err, domain.ErrNoResults) {
			return fmt.Sprintf("No results found for `%s`.", resolutionErr.Identifier)
		}
		return fmt.Sprintf("Could not load `%s`.", resolutionErr.Identifier)
	case errors.Is(err, usecases.ErrPlaybackFailed):
		return "Could not start playback of that track."
	}

	for _, known := range userErrors {
		if errors.Is(err, known) {
			return sentence(known.Error())
		}
	}

	slog.Error("failed to handle command", "error", err)
	return genericErrorMessage
}

// sentence capitalizes msg and ends it with a period.
func sentence(msg string) string {
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:] + "."
}

func errorEmbed(err error) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Error",
		Description: errorMessage(err),
		Color:       colorError,
	}
}

func successEmbed(description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Description: description,
		Color:       colorSuccess,
	}
}

// Response helpers.

func respondEmbed(r bot.Responder, embed *discordgo.MessageEmbed) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

func respondSuccess(r bot.Responder, description string) error {
	return respondEmbed(r, successEmbed(description))
}

func respondError(r bot.Responder, err error) error {
	return respondEmbed(r, errorEmbed(err))
}

func editEmbed(r bot.Responder, embed *discordgo.MessageEmbed) error {
	embeds := []*discordgo.MessageEmbed{embed}
	return r.Edit(&discordgo.WebhookEdit{Embeds: &embeds})
}

func editSuccess(r bot.Responder, description string) error {
	return editEmbed(r, successEmbed(description))
}

func editError(r bot.Responder, err error) error {
	return editEmbed(r, errorEmbed(err))
}

package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/jukebot/internal/bot"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
)

// Coordinator is the playback surface the commands drive.
type Coordinator interface {
	Status(ctx context.Context, input usecases.StatusInput) (*usecases.StatusOutput, error)
	Join(ctx context.Context, input usecases.JoinInput) (*usecases.JoinOutput, error)
	Stop(ctx context.Context, input usecases.StopInput) (*usecases.StopOutput, error)
	Enqueue(ctx context.Context, input usecases.EnqueueInput) (*usecases.EnqueueOutput, error)
	Skip(ctx context.Context, input usecases.SkipInput) (*usecases.SkipOutput, error)
	Pause(ctx context.Context, input usecases.PauseInput) error
	Resume(ctx context.Context, input usecases.ResumeInput) error
	SetVolume(ctx context.Context, input usecases.SetVolumeInput) (*usecases.SetVolumeOutput, error)
	NowPlaying(ctx context.Context, input usecases.NowPlayingInput) (*usecases.NowPlayingOutput, error)
	QueueList(ctx context.Context, input usecases.QueueListInput) (*usecases.QueueListOutput, error)
	QueueClear(ctx context.Context, input usecases.QueueClearInput) (*usecases.QueueClearOutput, error)
}

// Resolver turns a play request into a track.
type Resolver interface {
	Resolve(ctx context.Context, input usecases.ResolveInput) (*usecases.ResolveOutput, error)
}

// Compile-time checks that the use cases satisfy the command surface.
var (
	_ Coordinator = (*usecases.PlaybackCoordinator)(nil)
	_ Resolver    = (*usecases.StreamResolver)(nil)
)

// CommandHandlers holds all the command handlers.
type CommandHandlers struct {
	coordinator Coordinator
	resolver    Resolver
	voiceState  ports.VoiceStateProvider
	table       map[string]command
}

// NewCommandHandlers creates new CommandHandlers.
func NewCommandHandlers(
	coordinator Coordinator,
	resolver Resolver,
	voiceState ports.VoiceStateProvider,
) *CommandHandlers {
	h := &CommandHandlers{
		coordinator: coordinator,
		resolver:    resolver,
		voiceState:  voiceState,
	}
	h.table = h.commandTable()
	return h
}

func (h *CommandHandlers) handleJoin(
	ctx context.Context,
	req *commandRequest,
	r bot.Responder,
) error {
	voiceChannelID, err := req.channelOption("channel")
	if err != nil {
		return respondError(r, err)
	}

	output, err := h.coordinator.Join(ctx, usecases.JoinInput{
		GuildID:               req.guildID,
		UserID:                req.userID,
		NotificationChannelID: req.channelID,
		VoiceChannelID:        voiceChannelID,
	})
	if err != nil {
		return respondError(r, err)
	}

	var description string
	switch {
	case output.AlreadyJoined:
		description = fmt.Sprintf("Already connected to <#%d>.", output.VoiceChannelID)
	case output.Moved:
		description = fmt.Sprintf("Moved to <#%d>.", output.VoiceChannelID)
	default:
		description = fmt.Sprintf("Connected to <#%d>.", output.VoiceChannelID)
	}

	return respondSuccess(r, description)
}

// handleStop serves both /stop and /leave.
func (h *CommandHandlers) handleStop(
	ctx context.Context,
	req *commandRequest,
	r bot.Responder,
) error {
	if _, err := h.coordinator.Stop(ctx, usecases.StopInput{GuildID: req.guildID}); err != nil {
		return respondError(r, err)
	}

	return respondSuccess(r, "Stopped playback and disconnected.")
}

// handlePlay resolves the query, joins the user's channel when the bot is not
// connected yet and enqueues the track. A connected bot is never moved by a
// play request. Resolution may take seconds, so the response is deferred.
func (h *CommandHandlers) handlePlay(
	ctx context.Context,
	req *commandRequest,
	r bot.Responder,
) error {
	query := req.stringOption("query")
	if strings.TrimSpace(query) == "" {
		return respondError(r, usecases.ErrEmptyIdentifier)
	}

	status, err := h.coordinator.Status(ctx, usecases.StatusInput{GuildID: req.guildID})
	if err != nil {
		return respondError(r, err)
	}
	if !status.Connected {
		userChannel, err := h.voiceState.GetUserVoiceChannel(req.guildID, req.userID)
		if err != nil {
			return respondError(r, err)
		}
		if userChannel == nil {
			return respondError(r, usecases.ErrUserNotInVoice)
		}
	}

	if err := r.Defer(); err != nil {
		return err
	}

	// 1. Resolve through the cache
	resolved, err := h.resolver.Resolve(ctx, usecases.ResolveInput{
		Identifier:  query,
		RequesterID: req.userID,
	})
	if err != nil {
		return editError(r, err)
	}

	// 2. Join if idle, otherwise only update the notification channel
	_, err = h.coordinator.Join(ctx, usecases.JoinInput{
		GuildID:               req.guildID,
		UserID:                req.userID,
		NotificationChannelID: req.channelID,
		KeepConnected:         true,
	})
	if err != nil {
		return editError(r, err)
	}

	// 3. Enqueue (starts playback if nothing is playing)
	output, err := h.coordinator.Enqueue(ctx, usecases.EnqueueInput{
		GuildID:               req.guildID,
		Track:                 resolved.Track,
		NotificationChannelID: req.channelID,
	})
	if err != nil {
		return editError(r, err)
	}

	var description string
	if output.StartedPlaying {
		description = fmt.Sprintf("Playing %s.", trackLink(resolved.Track))
	} else {
		description = fmt.Sprintf(
			"Added %s to the queue at position %d.",
			trackLink(resolved.Track),
			output.Position,
		)
	}

	return editSuccess(r, description)
}

func (h *CommandHandlers) handleSkip(
	ctx context.Context,
	req *commandRequest,
	r bot.Responder,
) error {
	output, err := h.coordinator.Skip(ctx, usecases.SkipInput{
		GuildID:               req.guildID,
		NotificationChannelID: req.channelID,
	})
	if err != nil {
		return respondError(r, err)
	}

	// "Now Playing" for the next track is sent by the notification handler.
	return respondSuccess(r, fmt.Sprintf("Skipped %s.", trackLink(output.SkippedTrack)))
}

func (h *CommandHandlers) handlePause(
	ctx context.Context,
	req *commandRequest,
	r bot.Responder,
) error {
	err := h.coordinator.Pause(ctx, usecases.PauseInput{
		GuildID:               req.guildID,
		NotificationChannelID: req.channelID,
	})
	if err != nil {
		return respondError(r, err)
	}

	return respondSuccess(r, "Paused playback.")
}

func (h *CommandHandlers) handleResume(
	ctx context.Context,
	req *commandRequest,
	r bot.Responder,
) error {
	err := h.coordinator.Resume(ctx, usecases.ResumeInput{
		GuildID:               req.guildID,
		NotificationChannelID: req.channelID,
	})
	if err != nil {
		return respondError(r, err)
	}

	return respondSuccess(r, "Resumed playback.")
}

func (h *CommandHandlers) handleVolume(
	ctx context.Context,
	req *commandRequest,
	r bot.Responder,
) error {
	percent, ok := req.intOption("percent")
	if !ok {
		return respondError(r, usecases.ErrInvalidVolume)
	}

	output, err := h.coordinator.SetVolume(ctx, usecases.SetVolumeInput{
		GuildID:               req.guildID,
		Percent:               percent,
		NotificationChannelID: req.channelID,
	})
	if err != nil {
		return respondError(r, err)
	}

	return respondSuccess(r, fmt.Sprintf("Volume set to %s.", output.Track.FormattedVolume()))
}

func (h *CommandHandlers) handleQueue(
	ctx context.Context,
	req *commandRequest,
	r bot.Responder,
) error {
	page, _ := req.intOption("page")

	output, err := h.coordinator.QueueList(ctx, usecases.QueueListInput{
		GuildID: req.guildID,
		Page:    page,
	})
	if err != nil {
		return respondError(r, err)
	}

	return respondEmbed(r, buildQueueEmbed(output))
}

func (h *CommandHandlers) handleNowPlaying(
	ctx context.Context,
	req *commandRequest,
	r bot.Responder,
) error {
	output, err := h.coordinator.NowPlaying(ctx, usecases.NowPlayingInput{GuildID: req.guildID})
	if err != nil {
		return respondError(r, err)
	}

	return respondEmbed(r, buildNowPlayingEmbed(output))
}

func (h *CommandHandlers) handleClear(
	ctx context.Context,
	req *commandRequest,
	r bot.Responder,
) error {
	output, err := h.coordinator.QueueClear(ctx, usecases.QueueClearInput{
		GuildID:               req.guildID,
		NotificationChannelID: req.channelID,
	})
	if err != nil {
		return respondError(r, err)
	}

	return respondSuccess(r, fmt.Sprintf("Cleared %d tracks from the queue.", output.ClearedCount))
}

func buildQueueEmbed(output *usecases.QueueListOutput) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Queue",
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d", output.CurrentPage, output.TotalPages),
		},
	}

	var sb strings.Builder

	if output.CurrentTrack != nil {
		if output.IsPaused {
			sb.WriteString("### Now Playing (paused)\n")
		} else {
			sb.WriteString("### Now Playing\n")
		}
		fmt.Fprintf(&sb, "%s\n", trackLine(output.CurrentTrack))
	}

	if output.TotalTracks == 0 {
		sb.WriteString("Queue is empty.")
		embed.Description = sb.String()
		return embed
	}

	sb.WriteString("### Up Next\n")
	for idx, track := range output.Tracks {
		writeTrackLine(&sb, output.PageStart+idx+1, track)
	}
	fmt.Fprintf(&sb, "\n%d tracks queued.", output.TotalTracks)

	embed.Description = sb.String()
	return embed
}

func buildNowPlayingEmbed(output *usecases.NowPlayingOutput) *discordgo.MessageEmbed {
	track := output.Track
	source := track.Descriptor.Source()

	status := "Playing"
	if output.IsPaused {
		status = "Paused"
	}

	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    "Now Playing",
			IconURL: source.IconURL(),
		},
		Title: track.Descriptor.DisplayTitle(),
		URL:   track.Descriptor.PageURL,
		Color: source.Color(),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Status", Value: status, Inline: true},
			{Name: "Volume", Value: track.FormattedVolume(), Inline: true},
		},
	}
	if track.Descriptor.Uploader != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Uploader",
			Value:  track.Descriptor.Uploader,
			Inline: true,
		})
	}
	if track.RequesterID != 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Requested by",
			Value:  fmt.Sprintf("<@%d>", track.RequesterID),
			Inline: true,
		})
	}

	return embed
}

// trackLink renders a track title, linked to its page when one is known.
func trackLink(track *domain.Track) string {
	if track == nil {
		return "the track"
	}
	title := escapeMarkdown(track.Descriptor.DisplayTitle())
	if track.Descriptor.PageURL != "" {
		return fmt.Sprintf("[%s](%s)", title, track.Descriptor.PageURL)
	}
	return fmt.Sprintf("**%s**", title)
}

func trackLine(track *domain.Track) string {
	if track.Descriptor.Uploader != "" {
		return fmt.Sprintf("%s - %s", trackLink(track), escapeMarkdown(track.Descriptor.Uploader))
	}
	return trackLink(track)
}

// writeTrackLine writes a single track line to the string builder.
// Escapes period to prevent Discord markdown list formatting.
func writeTrackLine(sb *strings.Builder, displayIndex int, track *domain.Track) {
	fmt.Fprintf(sb, "%d\\. %s\n", displayIndex, trackLine(track))
}

var markdownEscaper = strings.NewReplacer(
	"[", "\\[",
	"]", "\\]",
	"*", "\\*",
	"_", "\\_",
	"`", "\\`",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

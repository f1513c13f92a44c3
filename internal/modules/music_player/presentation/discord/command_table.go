package discord

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/jukebot/internal/bot"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application/usecases"
)

// Capability is a precondition a command needs before its handler runs.
type Capability uint8

const (
	// RequireGuild rejects commands used outside a guild.
	RequireGuild Capability = 1 << iota
	// RequireConnected rejects commands while the bot is not in a voice channel.
	RequireConnected
	// RequirePlaying rejects commands while nothing is playing.
	RequirePlaying
	// RequireSameChannel rejects users who are not in the bot's voice channel.
	RequireSameChannel
)

// Has reports whether all capabilities in other are set.
func (c Capability) Has(other Capability) bool {
	return c&other == other
}

// needsStatus reports whether checking c needs the player's status.
func (c Capability) needsStatus() bool {
	return c&(RequireConnected|RequirePlaying|RequireSameChannel) != 0
}

var (
	errGuildOnly      = errors.New("this command can only be used in a server")
	errNotSameChannel = errors.New("you must be in the same voice channel as me")
	errUnknownCommand = errors.New("this command is not recognized")
)

// commandFunc handles a command whose preconditions already hold.
type commandFunc func(ctx context.Context, req *commandRequest, r bot.Responder) error

// command is one entry of the command table.
type command struct {
	handler  commandFunc
	requires Capability
}

// commandRequest is a parsed slash command invocation.
type commandRequest struct {
	interaction *discordgo.InteractionCreate
	guildID     snowflake.ID
	userID      snowflake.ID
	channelID   snowflake.ID
	options     map[string]*discordgo.ApplicationCommandInteractionDataOption
	status      *usecases.StatusOutput
}

func newCommandRequest(i *discordgo.InteractionCreate) *commandRequest {
	req := &commandRequest{
		interaction: i,
		options:     make(map[string]*discordgo.ApplicationCommandInteractionDataOption),
	}

	// Unparseable IDs stay zero and fail RequireGuild.
	req.guildID, _ = snowflake.Parse(i.GuildID)
	req.channelID, _ = snowflake.Parse(i.ChannelID)
	if i.Member != nil && i.Member.User != nil {
		req.userID, _ = snowflake.Parse(i.Member.User.ID)
	}

	for _, opt := range i.ApplicationCommandData().Options {
		req.options[opt.Name] = opt
	}

	return req
}

func (req *commandRequest) stringOption(name string) string {
	opt, ok := req.options[name]
	if !ok || opt.Type != discordgo.ApplicationCommandOptionString {
		return ""
	}
	return opt.StringValue()
}

func (req *commandRequest) intOption(name string) (int, bool) {
	opt, ok := req.options[name]
	if !ok || opt.Type != discordgo.ApplicationCommandOptionInteger {
		return 0, false
	}
	return int(opt.IntValue()), true
}

func (req *commandRequest) channelOption(name string) (snowflake.ID, error) {
	opt, ok := req.options[name]
	if !ok {
		return 0, nil
	}
	value, ok := opt.Value.(string)
	if !ok {
		return 0, errors.New("invalid voice channel")
	}
	return snowflake.Parse(value)
}

func (h *CommandHandlers) commandTable() map[string]command {
	return map[string]command{
		"join":       {h.handleJoin, RequireGuild},
		"leave":      {h.handleStop, RequireGuild | RequireConnected | RequireSameChannel},
		"stop":       {h.handleStop, RequireGuild | RequireConnected | RequireSameChannel},
		"play":       {h.handlePlay, RequireGuild},
		"skip":       {h.handleSkip, RequireGuild | RequirePlaying | RequireSameChannel},
		"pause":      {h.handlePause, RequireGuild | RequirePlaying | RequireSameChannel},
		"resume":     {h.handleResume, RequireGuild | RequirePlaying | RequireSameChannel},
		"volume":     {h.handleVolume, RequireGuild | RequirePlaying | RequireSameChannel},
		"queue":      {h.handleQueue, RequireGuild | RequireConnected},
		"nowplaying": {h.handleNowPlaying, RequireGuild | RequirePlaying},
		"clear":      {h.handleClear, RequireGuild | RequireConnected | RequireSameChannel},
	}
}

// CommandNames returns the names of all commands in the table.
func (h *CommandHandlers) CommandNames() []string {
	names := make([]string, 0, len(h.table))
	for name := range h.table {
		names = append(names, name)
	}
	return names
}

// Dispatch checks the command's preconditions and runs its handler.
func (h *CommandHandlers) Dispatch(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	cmd, ok := h.table[i.ApplicationCommandData().Name]
	if !ok {
		return respondError(r, errUnknownCommand)
	}

	req := newCommandRequest(i)
	if err := h.check(ctx, cmd.requires, req); err != nil {
		return respondError(r, err)
	}

	return cmd.handler(ctx, req, r)
}

// check verifies requires against the request, filling in req.status when
// the player state had to be read.
func (h *CommandHandlers) check(ctx context.Context, requires Capability, req *commandRequest) error {
	if requires.Has(RequireGuild) && (req.guildID == 0 || req.userID == 0) {
		return errGuildOnly
	}
	if !requires.needsStatus() {
		return nil
	}

	status, err := h.coordinator.Status(ctx, usecases.StatusInput{GuildID: req.guildID})
	if err != nil {
		return err
	}
	req.status = status

	if requires.Has(RequireConnected) && !status.Connected {
		return usecases.ErrNotConnected
	}
	if requires.Has(RequirePlaying) {
		if !status.Connected {
			return usecases.ErrNotConnected
		}
		if !status.Playing {
			return usecases.ErrNothingPlaying
		}
	}
	if requires.Has(RequireSameChannel) {
		userChannel, err := h.voiceState.GetUserVoiceChannel(req.guildID, req.userID)
		if err != nil {
			return err
		}
		if userChannel == nil {
			return usecases.ErrUserNotInVoice
		}
		if *userChannel != status.VoiceChannelID {
			return errNotSameChannel
		}
	}

	return nil
}

package usecases

import (
	"context"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
)

// JoinInput contains the input for the Join use case.
type JoinInput struct {
	GuildID               snowflake.ID
	UserID                snowflake.ID
	NotificationChannelID snowflake.ID
	VoiceChannelID        snowflake.ID // Optional: specific channel to join (0 means use user's channel)
	// KeepConnected leaves a connected bot where it is and only updates the
	// notification channel.
	KeepConnected bool
}

// JoinOutput contains the result of the Join use case.
type JoinOutput struct {
	VoiceChannelID snowflake.ID
	AlreadyJoined  bool
	Moved          bool
}

// StopInput contains the input for the Stop use case.
type StopInput struct {
	GuildID snowflake.ID
}

// StopOutput contains the result of the Stop use case.
type StopOutput struct {
	ClearedCount int // queued tracks dropped, excluding now playing
}

// BotVoiceStateChangeInput contains the input for handling bot voice state changes.
type BotVoiceStateChangeInput struct {
	GuildID      snowflake.ID
	NewChannelID *snowflake.ID // nil means disconnected
}

// Join joins the bot to a voice channel.
// Joining the channel the bot is already in only updates the notification
// channel. Joining another channel moves the bot and keeps the queue, unless
// KeepConnected is set.
func (c *PlaybackCoordinator) Join(ctx context.Context, input JoinInput) (*JoinOutput, error) {
	var out *JoinOutput
	err := c.mailboxes.exec(ctx, input.GuildID, func() error {
		state := c.playerStates.Get(input.GuildID)

		if state != nil && input.KeepConnected {
			if input.NotificationChannelID != 0 {
				state.SetNotificationChannelID(input.NotificationChannelID)
			}
			out = &JoinOutput{VoiceChannelID: state.GetVoiceChannelID(), AlreadyJoined: true}
			return nil
		}

		voiceChannelID := input.VoiceChannelID
		if voiceChannelID == 0 {
			userChannel, err := c.voiceState.GetUserVoiceChannel(input.GuildID, input.UserID)
			if err != nil {
				return err
			}
			if userChannel == nil {
				return ErrUserNotInVoice
			}
			voiceChannelID = *userChannel
		}

		if state != nil && state.GetVoiceChannelID() == voiceChannelID {
			if input.NotificationChannelID != 0 {
				state.SetNotificationChannelID(input.NotificationChannelID)
			}
			out = &JoinOutput{VoiceChannelID: voiceChannelID, AlreadyJoined: true}
			return nil
		}

		if err := c.joinChannel(ctx, input.GuildID, voiceChannelID); err != nil {
			return err
		}

		if state != nil {
			state.SetVoiceChannelID(voiceChannelID)
			if input.NotificationChannelID != 0 {
				state.SetNotificationChannelID(input.NotificationChannelID)
			}
			out = &JoinOutput{VoiceChannelID: voiceChannelID, Moved: true}
			return nil
		}

		c.playerStates.Save(
			domain.NewPlayerState(input.GuildID, voiceChannelID, input.NotificationChannelID),
		)
		c.metrics.SetActivePlayers(c.playerStates.Count())
		out = &JoinOutput{VoiceChannelID: voiceChannelID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// joinChannel connects to voice, marking the guild as joining meanwhile.
func (c *PlaybackCoordinator) joinChannel(ctx context.Context, guildID, channelID snowflake.ID) error {
	c.joiningMu.Lock()
	c.joining[guildID]++
	c.joiningMu.Unlock()

	defer func() {
		c.joiningMu.Lock()
		c.joining[guildID]--
		if c.joining[guildID] <= 0 {
			delete(c.joining, guildID)
		}
		c.joiningMu.Unlock()
	}()

	return c.voiceConnection.JoinChannel(ctx, guildID, channelID)
}

func (c *PlaybackCoordinator) isJoining(guildID snowflake.ID) bool {
	c.joiningMu.Lock()
	defer c.joiningMu.Unlock()
	return c.joining[guildID] > 0
}

// Stop clears the queue and the current track, leaves the voice channel and
// returns the guild to idle.
func (c *PlaybackCoordinator) Stop(ctx context.Context, input StopInput) (*StopOutput, error) {
	var out *StopOutput
	err := c.mailboxes.exec(ctx, input.GuildID, func() error {
		state := c.playerStates.Get(input.GuildID)
		if state == nil {
			return ErrNotConnected
		}

		cleared := state.QueueLen()
		c.finishNowPlaying(state)
		state.Reset()

		// Leaving destroys the sink's player; a completion signal for the
		// dropped track may still arrive and is ignored as stale.
		c.disconnect(ctx, state)

		out = &StopOutput{ClearedCount: cleared}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// HandleBotVoiceStateChange reconciles state with the bot's real voice state.
// A disconnect not initiated by the bot drops the guild's state; a move
// updates the stored voice channel. A disconnect seen while a join is in
// flight belongs to the previous connection and is ignored.
func (c *PlaybackCoordinator) HandleBotVoiceStateChange(input BotVoiceStateChangeInput) {
	if input.NewChannelID == nil && c.isJoining(input.GuildID) {
		slog.Debug("ignored voice disconnect during join", "guild", input.GuildID)
		return
	}

	ok := c.mailboxes.post(input.GuildID, func() {
		state := c.playerStates.Get(input.GuildID)
		if state == nil {
			return
		}

		if input.NewChannelID == nil {
			slog.Info("bot disconnected from voice channel", "guild", input.GuildID)
			c.finishNowPlaying(state)
			state.Reset()
			c.dropState(input.GuildID)
			return
		}

		if *input.NewChannelID != state.GetVoiceChannelID() {
			slog.Info(
				"bot moved to another voice channel",
				"guild", input.GuildID,
				"channel", *input.NewChannelID,
			)
			state.SetVoiceChannelID(*input.NewChannelID)
		}
	})
	if !ok {
		slog.Debug("dropped voice state change after shutdown", "guild", input.GuildID)
	}
}

package usecases

import (
	"context"
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
)

// PlaybackCoordinator owns the playback state of every guild.
// All reads and writes of a guild's state run inside that guild's mailbox,
// so commands and completion signals for one guild never interleave.
type PlaybackCoordinator struct {
	playerStates    domain.PlayerStateRepository
	player          ports.AudioPlayer
	voiceConnection ports.VoiceConnection
	voiceState      ports.VoiceStateProvider
	publisher       ports.EventPublisher
	metrics         ports.PlaybackMetrics

	mailboxes *mailboxes

	joiningMu sync.Mutex
	joining   map[snowflake.ID]int // voice joins in flight per guild
}

// NewPlaybackCoordinator creates a new PlaybackCoordinator.
// metrics may be nil.
func NewPlaybackCoordinator(
	playerStates domain.PlayerStateRepository,
	player ports.AudioPlayer,
	voiceConnection ports.VoiceConnection,
	voiceState ports.VoiceStateProvider,
	publisher ports.EventPublisher,
	metrics ports.PlaybackMetrics,
) *PlaybackCoordinator {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &PlaybackCoordinator{
		playerStates:    playerStates,
		player:          player,
		voiceConnection: voiceConnection,
		voiceState:      voiceState,
		publisher:       publisher,
		metrics:         metrics,
		mailboxes:       newMailboxes(),
		joining:         make(map[snowflake.ID]int),
	}
}

// Shutdown stops every guild mailbox. Operations submitted afterwards fail
// with ErrShutdown.
func (c *PlaybackCoordinator) Shutdown() {
	c.mailboxes.close()
}

// StatusInput contains the input for the Status use case.
type StatusInput struct {
	GuildID snowflake.ID
}

// StatusOutput describes a guild's player as seen by command preconditions.
type StatusOutput struct {
	Connected      bool
	Playing        bool
	Paused         bool
	VoiceChannelID snowflake.ID
}

// Status returns a snapshot of the guild's player.
func (c *PlaybackCoordinator) Status(ctx context.Context, input StatusInput) (*StatusOutput, error) {
	var out StatusOutput
	err := c.mailboxes.exec(ctx, input.GuildID, func() error {
		state := c.playerStates.Get(input.GuildID)
		if state == nil {
			return nil
		}
		out = StatusOutput{
			Connected:      true,
			Playing:        state.IsPlaying(),
			Paused:         state.IsPaused(),
			VoiceChannelID: state.GetVoiceChannelID(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// startTrack hands the current track to the sink. If the sink refuses, the
// refusal is handled as the track's completion and the returned error is the
// sink's.
func (c *PlaybackCoordinator) startTrack(ctx context.Context, state *domain.PlayerState) error {
	track := state.NowPlaying()
	if track == nil {
		return nil
	}

	if err := c.player.Play(ctx, state.GetGuildID(), track); err != nil {
		slog.Warn(
			"failed to play track",
			"guild", state.GetGuildID(),
			"track", track.ID,
			"error", err,
		)
		c.advance(ctx, state)
		return err
	}

	c.metrics.TrackStarted()
	c.publish(domain.PlaybackStartedEvent{
		GuildID:               state.GetGuildID(),
		Track:                 track,
		NotificationChannelID: state.GetNotificationChannelID(),
	})
	return nil
}

// advance discards the current track and starts the next one.
// With nothing left to play the guild is disconnected and returns to idle.
func (c *PlaybackCoordinator) advance(ctx context.Context, state *domain.PlayerState) {
	c.finishNowPlaying(state)

	if state.Advance() == nil {
		c.disconnect(ctx, state)
		return
	}

	// A refused track is treated as completed; startTrack advances again.
	_ = c.startTrack(ctx, state)
}

// finishNowPlaying publishes PlaybackFinished for the current track, if any.
func (c *PlaybackCoordinator) finishNowPlaying(state *domain.PlayerState) {
	current := state.NowPlaying()
	msg := state.TakeNowPlayingMessage()
	if current == nil && msg == nil {
		return
	}

	event := domain.PlaybackFinishedEvent{
		GuildID:       state.GetGuildID(),
		LastMessageID: msg,
	}
	if current != nil {
		event.TrackID = current.ID
	}
	c.publish(event)
}

// disconnect leaves the voice channel and drops the guild's state.
func (c *PlaybackCoordinator) disconnect(ctx context.Context, state *domain.PlayerState) {
	guildID := state.GetGuildID()

	if err := c.voiceConnection.LeaveChannel(ctx, guildID); err != nil {
		slog.Warn("failed to leave voice channel", "guild", guildID, "error", err)
	}

	c.dropState(guildID)
}

// dropState removes the guild's state and returns it to idle.
func (c *PlaybackCoordinator) dropState(guildID snowflake.ID) {
	c.playerStates.Delete(guildID)
	c.metrics.SetActivePlayers(c.playerStates.Count())
	c.publish(domain.PlayerDisconnectedEvent{GuildID: guildID})
}

func (c *PlaybackCoordinator) publish(event domain.Event) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(event); err != nil {
		slog.Warn("failed to publish event", "guild", event.EventGuildID(), "error", err)
	}
}

type noopMetrics struct{}

func (noopMetrics) CacheHit()            {}
func (noopMetrics) CacheMiss()           {}
func (noopMetrics) Extraction()          {}
func (noopMetrics) ExtractionFailed()    {}
func (noopMetrics) CacheWriteFailed()    {}
func (noopMetrics) TrackStarted()        {}
func (noopMetrics) SetActivePlayers(int) {}

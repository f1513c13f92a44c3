package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
)

// EnqueueInput contains the input for the Enqueue use case.
type EnqueueInput struct {
	GuildID               snowflake.ID
	Track                 *domain.Track
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
}

// EnqueueOutput contains the result of the Enqueue use case.
type EnqueueOutput struct {
	StartedPlaying bool
	Position       int // 1-indexed position in queue; 0 when playing immediately
}

// PauseInput contains the input for the Pause use case.
type PauseInput struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
}

// ResumeInput contains the input for the Resume use case.
type ResumeInput struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
}

// SkipInput contains the input for the Skip use case.
type SkipInput struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
}

// SkipOutput contains the result of the Skip use case.
type SkipOutput struct {
	SkippedTrack *domain.Track
	NextTrack    *domain.Track // nil if queue is empty
}

// SetVolumeInput contains the input for the SetVolume use case.
type SetVolumeInput struct {
	GuildID               snowflake.ID
	Percent               int
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
}

// SetVolumeOutput contains the result of the SetVolume use case.
type SetVolumeOutput struct {
	Track *domain.Track
}

// NowPlayingInput contains the input for the NowPlaying use case.
type NowPlayingInput struct {
	GuildID snowflake.ID
}

// NowPlayingOutput contains the result of the NowPlaying use case.
type NowPlayingOutput struct {
	Track    *domain.Track
	IsPaused bool
}

// SetNowPlayingMessageInput contains the input for the SetNowPlayingMessage use case.
type SetNowPlayingMessageInput struct {
	GuildID snowflake.ID
	TrackID domain.TrackID
	Message domain.NowPlayingMessage
}

// Enqueue plays the track immediately when the slot is free, otherwise
// appends it to the queue. If the sink refuses the track it is treated as
// completed and the error is returned wrapped in ErrPlaybackFailed.
func (c *PlaybackCoordinator) Enqueue(ctx context.Context, input EnqueueInput) (*EnqueueOutput, error) {
	if !input.Track.IsValid() {
		return nil, ErrInvalidTrack
	}

	var out *EnqueueOutput
	err := c.mailboxes.exec(ctx, input.GuildID, func() error {
		state := c.playerStates.Get(input.GuildID)
		if state == nil {
			return ErrNotConnected
		}

		if input.NotificationChannelID != 0 {
			state.SetNotificationChannelID(input.NotificationChannelID)
		}

		result := state.Enqueue(input.Track)
		out = &EnqueueOutput{
			StartedPlaying: result.StartedPlaying,
			Position:       result.Position,
		}
		if !result.StartedPlaying {
			return nil
		}

		if err := c.startTrack(ctx, state); err != nil {
			return fmt.Errorf("%w: %w", ErrPlaybackFailed, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// HandleTrackEnded processes a completion signal from the sink. It may be
// called from any goroutine and does not wait for the signal to be handled.
// Signals for a track that is no longer current are ignored.
func (c *PlaybackCoordinator) HandleTrackEnded(ctx context.Context, event domain.TrackEndedEvent) {
	ok := c.mailboxes.post(event.GuildID, func() {
		state := c.playerStates.Get(event.GuildID)
		if state == nil || !state.IsNowPlaying(event.TrackID) {
			slog.Debug(
				"ignored stale track end",
				"guild", event.GuildID,
				"track", event.TrackID,
				"reason", event.Reason,
			)
			return
		}

		if !event.Reason.ShouldAdvanceQueue() {
			return
		}

		if event.Err != nil {
			slog.Warn(
				"track ended with error",
				"guild", event.GuildID,
				"track", event.TrackID,
				"error", event.Err,
			)
		}

		c.advance(ctx, state)
	})
	if !ok {
		slog.Debug("dropped track end after shutdown", "guild", event.GuildID)
	}
}

// Skip stops the current track. The sink's completion signal for it then
// advances the queue like a natural end.
func (c *PlaybackCoordinator) Skip(ctx context.Context, input SkipInput) (*SkipOutput, error) {
	var out *SkipOutput
	err := c.mailboxes.exec(ctx, input.GuildID, func() error {
		state := c.playerStates.Get(input.GuildID)
		if state == nil {
			return ErrNotConnected
		}

		if input.NotificationChannelID != 0 {
			state.SetNotificationChannelID(input.NotificationChannelID)
		}

		current := state.NowPlaying()
		if current == nil {
			return ErrNothingPlaying
		}

		if err := c.player.Stop(ctx, input.GuildID); err != nil {
			return err
		}

		out = &SkipOutput{
			SkippedTrack: current,
			NextTrack:    state.PeekNext(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Pause pauses the current playback.
func (c *PlaybackCoordinator) Pause(ctx context.Context, input PauseInput) error {
	return c.mailboxes.exec(ctx, input.GuildID, func() error {
		state, err := c.playingState(input.GuildID, input.NotificationChannelID)
		if err != nil {
			return err
		}
		if state.IsPaused() {
			return ErrAlreadyPaused
		}

		if err := c.player.Pause(ctx, input.GuildID); err != nil {
			return err
		}

		state.SetPaused(true)
		return nil
	})
}

// Resume resumes the paused playback.
func (c *PlaybackCoordinator) Resume(ctx context.Context, input ResumeInput) error {
	return c.mailboxes.exec(ctx, input.GuildID, func() error {
		state, err := c.playingState(input.GuildID, input.NotificationChannelID)
		if err != nil {
			return err
		}
		if !state.IsPaused() {
			return ErrNotPaused
		}

		if err := c.player.Resume(ctx, input.GuildID); err != nil {
			return err
		}

		state.SetPaused(false)
		return nil
	})
}

// SetVolume sets the volume of the current track from a 0-100 percentage.
func (c *PlaybackCoordinator) SetVolume(ctx context.Context, input SetVolumeInput) (*SetVolumeOutput, error) {
	if input.Percent < 0 || input.Percent > 100 {
		return nil, ErrInvalidVolume
	}

	var out *SetVolumeOutput
	err := c.mailboxes.exec(ctx, input.GuildID, func() error {
		state, err := c.playingState(input.GuildID, input.NotificationChannelID)
		if err != nil {
			return err
		}

		volume := domain.VolumeFromPercent(input.Percent)
		if err := c.player.SetVolume(ctx, input.GuildID, volume); err != nil {
			return err
		}

		state.SetNowPlayingVolume(volume)
		out = &SetVolumeOutput{Track: state.NowPlaying()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// NowPlaying returns the current track.
func (c *PlaybackCoordinator) NowPlaying(ctx context.Context, input NowPlayingInput) (*NowPlayingOutput, error) {
	var out *NowPlayingOutput
	err := c.mailboxes.exec(ctx, input.GuildID, func() error {
		state, err := c.playingState(input.GuildID, 0)
		if err != nil {
			return err
		}
		out = &NowPlayingOutput{
			Track:    state.NowPlaying(),
			IsPaused: state.IsPaused(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetNowPlayingMessage records the "Now Playing" message posted for a track.
// It returns false if the track is no longer current, in which case the
// caller owns the message and should delete it.
func (c *PlaybackCoordinator) SetNowPlayingMessage(ctx context.Context, input SetNowPlayingMessageInput) (bool, error) {
	var stored bool
	err := c.mailboxes.exec(ctx, input.GuildID, func() error {
		state := c.playerStates.Get(input.GuildID)
		if state == nil || !state.IsNowPlaying(input.TrackID) {
			return nil
		}
		state.SetNowPlayingMessage(input.Message)
		stored = true
		return nil
	})
	return stored, err
}

// playingState returns the guild's state if a track is playing.
// Must run inside the guild's mailbox.
func (c *PlaybackCoordinator) playingState(
	guildID, notificationChannelID snowflake.ID,
) (*domain.PlayerState, error) {
	state := c.playerStates.Get(guildID)
	if state == nil {
		return nil, ErrNotConnected
	}

	if notificationChannelID != 0 {
		state.SetNotificationChannelID(notificationChannelID)
	}

	if !state.IsPlaying() {
		return nil, ErrNothingPlaying
	}
	return state, nil
}

package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
)

// AudioPlayer is the playback sink. Every successful Play is eventually
// followed by exactly one completion signal for that track, published as a
// domain.TrackEndedEvent.
type AudioPlayer interface {
	// Play starts playback of the given track at the track's volume.
	Play(ctx context.Context, guildID snowflake.ID, track *domain.Track) error

	// Stop stops the current playback. The sink still emits a completion signal.
	Stop(ctx context.Context, guildID snowflake.ID) error

	// Pause pauses the current playback.
	Pause(ctx context.Context, guildID snowflake.ID) error

	// Resume resumes the paused playback.
	Resume(ctx context.Context, guildID snowflake.ID) error

	// SetVolume changes the gain of the current playback. volume is in [0, 1].
	SetVolume(ctx context.Context, guildID snowflake.ID, volume float64) error
}

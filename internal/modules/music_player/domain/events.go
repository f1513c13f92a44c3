package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// Event is implemented by everything published on the event bus.
type Event interface {
	EventGuildID() snowflake.ID
}

// TrackEndReason represents why a track ended.
type TrackEndReason string

const (
	// TrackEndFinished means the track finished normally.
	TrackEndFinished TrackEndReason = "finished"
	// TrackEndLoadFailed means the track failed to load or play.
	TrackEndLoadFailed TrackEndReason = "load_failed"
	// TrackEndStopped means the sink was told to stop the track.
	TrackEndStopped TrackEndReason = "stopped"
	// TrackEndReplaced means the track was replaced by another.
	TrackEndReplaced TrackEndReason = "replaced"
	// TrackEndCleanup means the sink cleaned up the player.
	TrackEndCleanup TrackEndReason = "cleanup"
)

// ShouldAdvanceQueue returns true if this end reason should advance the queue.
func (r TrackEndReason) ShouldAdvanceQueue() bool {
	return r == TrackEndFinished || r == TrackEndLoadFailed || r == TrackEndStopped
}

// TrackEndedEvent is the completion signal published by the playback sink.
type TrackEndedEvent struct {
	GuildID snowflake.ID
	TrackID TrackID
	Reason  TrackEndReason
	Err     error // set when the sink failed mid-stream
}

func (e TrackEndedEvent) EventGuildID() snowflake.ID { return e.GuildID }

// PlaybackStartedEvent is published when a track starts playing.
type PlaybackStartedEvent struct {
	GuildID               snowflake.ID
	Track                 *Track
	NotificationChannelID snowflake.ID
}

func (e PlaybackStartedEvent) EventGuildID() snowflake.ID { return e.GuildID }

// PlaybackFinishedEvent is published when a track leaves the playback slot.
// This signals that the "Now Playing" message should be deleted.
type PlaybackFinishedEvent struct {
	GuildID       snowflake.ID
	TrackID       TrackID
	LastMessageID *NowPlayingMessage // "Now Playing" message to delete
}

func (e PlaybackFinishedEvent) EventGuildID() snowflake.ID { return e.GuildID }

// PlayerDisconnectedEvent is published when a guild returns to idle.
type PlayerDisconnectedEvent struct {
	GuildID snowflake.ID
}

func (e PlayerDisconnectedEvent) EventGuildID() snowflake.ID { return e.GuildID }

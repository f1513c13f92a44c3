package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// PlayerStatus is the externally visible status of a guild's player.
// A guild without a PlayerState is idle.
type PlayerStatus string

const (
	PlayerStatusConnectedIdle PlayerStatus = "connected_idle"
	PlayerStatusPlaying       PlayerStatus = "playing"
)

// EnqueueResult describes where an enqueued track ended up.
type EnqueueResult struct {
	StartedPlaying bool // true if the track became now playing
	Position       int  // 1-indexed queue position; 0 when StartedPlaying
}

// PlayerState represents the state of a music player for a connected guild.
// It is owned by exactly one goroutine at a time.
type PlayerState struct {
	guildID               snowflake.ID
	voiceChannelID        snowflake.ID       // Voice channel the bot is connected to
	notificationChannelID snowflake.ID       // Text channel for notifications
	nowPlayingMessage     *NowPlayingMessage // "Now Playing" message info (for deletion)
	queue                 Queue
	nowPlaying            *Track
	isPaused              bool
}

// NewPlayerState creates a connected-idle PlayerState for the given guild and channels.
func NewPlayerState(guildID, voiceChannelID, notificationChannelID snowflake.ID) *PlayerState {
	return &PlayerState{
		guildID:               guildID,
		voiceChannelID:        voiceChannelID,
		notificationChannelID: notificationChannelID,
		queue:                 NewQueue(),
	}
}

// GetGuildID returns the guild ID.
func (p *PlayerState) GetGuildID() snowflake.ID {
	return p.guildID
}

// Status returns connected-idle or playing.
func (p *PlayerState) Status() PlayerStatus {
	if p.nowPlaying == nil {
		return PlayerStatusConnectedIdle
	}
	return PlayerStatusPlaying
}

// IsPlaying returns true if a track occupies the playback slot.
func (p *PlayerState) IsPlaying() bool {
	return p.nowPlaying != nil
}

// NowPlaying returns a copy of the current track, or nil.
func (p *PlayerState) NowPlaying() *Track {
	if p.nowPlaying == nil {
		return nil
	}
	return p.nowPlaying.Clone()
}

// IsNowPlaying returns true if the given track ID is the current track.
func (p *PlayerState) IsNowPlaying(id TrackID) bool {
	return p.nowPlaying != nil && p.nowPlaying.ID == id
}

// Enqueue puts the track in the playback slot when it is free,
// otherwise appends it to the tail of the queue.
func (p *PlayerState) Enqueue(track *Track) EnqueueResult {
	if p.nowPlaying == nil {
		p.nowPlaying = track
		p.isPaused = false
		return EnqueueResult{StartedPlaying: true}
	}

	p.queue.Push(track)
	return EnqueueResult{Position: p.queue.Len()}
}

// Advance discards the current track and moves the head of the queue into
// the playback slot. It returns the new current track, or nil when the queue
// was empty and the player is now connected-idle.
func (p *PlayerState) Advance() *Track {
	p.nowPlaying = p.queue.Pop()
	p.isPaused = false
	return p.NowPlaying()
}

// PeekNext returns a copy of the next queued track, or nil.
func (p *PlayerState) PeekNext() *Track {
	next := p.queue.Peek()
	if next == nil {
		return nil
	}
	return next.Clone()
}

// Queued returns copies of the queued tracks (excluding now playing).
func (p *PlayerState) Queued() []*Track {
	return p.queue.List()
}

// QueueLen returns the number of queued tracks (excluding now playing).
func (p *PlayerState) QueueLen() int {
	return p.queue.Len()
}

// ClearQueue removes all queued tracks but keeps now playing.
// Returns the number of removed tracks.
func (p *PlayerState) ClearQueue() int {
	return p.queue.Clear()
}

// Reset clears the queue and the playback slot.
func (p *PlayerState) Reset() {
	p.queue.Clear()
	p.nowPlaying = nil
	p.isPaused = false
}

// SetNowPlayingVolume replaces the current track with a copy at the new volume.
// Returns false if nothing is playing.
func (p *PlayerState) SetNowPlayingVolume(volume float64) bool {
	if p.nowPlaying == nil {
		return false
	}
	p.nowPlaying = p.nowPlaying.WithVolume(volume)
	return true
}

// IsPaused returns true if playback is paused.
func (p *PlayerState) IsPaused() bool {
	return p.isPaused
}

// SetPaused sets the paused flag.
func (p *PlayerState) SetPaused(isPaused bool) {
	p.isPaused = isPaused
}

// GetVoiceChannelID returns the current voice channel ID.
func (p *PlayerState) GetVoiceChannelID() snowflake.ID {
	return p.voiceChannelID
}

// SetVoiceChannelID updates the voice channel ID.
func (p *PlayerState) SetVoiceChannelID(channelID snowflake.ID) {
	p.voiceChannelID = channelID
}

// GetNotificationChannelID returns the text channel used for notifications.
func (p *PlayerState) GetNotificationChannelID() snowflake.ID {
	return p.notificationChannelID
}

// SetNotificationChannelID updates the notification channel ID.
func (p *PlayerState) SetNotificationChannelID(channelID snowflake.ID) {
	p.notificationChannelID = channelID
}

// GetNowPlayingMessage returns a copy of the "Now Playing" message info.
func (p *PlayerState) GetNowPlayingMessage() *NowPlayingMessage {
	if p.nowPlayingMessage == nil {
		return nil
	}
	msg := *p.nowPlayingMessage
	return &msg
}

// SetNowPlayingMessage stores the "Now Playing" message info for later deletion.
func (p *PlayerState) SetNowPlayingMessage(msg NowPlayingMessage) {
	p.nowPlayingMessage = &msg
}

// TakeNowPlayingMessage returns and clears the "Now Playing" message info.
func (p *PlayerState) TakeNowPlayingMessage() *NowPlayingMessage {
	msg := p.nowPlayingMessage
	p.nowPlayingMessage = nil
	return msg
}

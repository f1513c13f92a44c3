package usecases

import "errors"

// Errors returned by the music player use cases.
var (
	// ErrNotConnected is returned when an operation requires the bot to be in a voice channel.
	ErrNotConnected = errors.New("not connected to a voice channel")

	// ErrUserNotInVoice is returned when the user is not in a voice channel.
	ErrUserNotInVoice = errors.New("you must be in a voice channel")

	// ErrNothingPlaying is returned when no track is currently playing.
	ErrNothingPlaying = errors.New("nothing is currently playing")

	// ErrAlreadyPaused is returned when trying to pause while already paused.
	ErrAlreadyPaused = errors.New("playback is already paused")

	// ErrNotPaused is returned when trying to resume while not paused.
	ErrNotPaused = errors.New("playback is not paused")

	// ErrQueueEmpty is returned when the queue is empty.
	ErrQueueEmpty = errors.New("the queue is empty")

	// ErrInvalidVolume is returned when a volume outside 0-100 is requested.
	ErrInvalidVolume = errors.New("volume must be between 0 and 100")

	// ErrEmptyIdentifier is returned when a play request has nothing to resolve.
	ErrEmptyIdentifier = errors.New("nothing to play")

	// ErrInvalidTrack is returned when a track without a playable stream is enqueued.
	ErrInvalidTrack = errors.New("track has no playable stream")

	// ErrPlaybackFailed is returned when the sink refused to play a track.
	ErrPlaybackFailed = errors.New("failed to start playback")

	// ErrShutdown is returned for operations submitted after Shutdown.
	ErrShutdown = errors.New("player is shutting down")
)

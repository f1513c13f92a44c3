package application

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
)

// TrackEndHandler receives completion signals from the playback sink.
type TrackEndHandler interface {
	HandleTrackEnded(ctx context.Context, event domain.TrackEndedEvent)
}

// NowPlayingRecorder stores the "Now Playing" message posted for a track.
type NowPlayingRecorder interface {
	SetNowPlayingMessage(ctx context.Context, input usecases.SetNowPlayingMessageInput) (bool, error)
}

// PlaybackEventHandler forwards sink completion signals to the coordinator.
type PlaybackEventHandler struct {
	coordinator TrackEndHandler
	subscriber  ports.EventSubscriber
}

// NewPlaybackEventHandler creates a new PlaybackEventHandler.
func NewPlaybackEventHandler(
	coordinator TrackEndHandler,
	subscriber ports.EventSubscriber,
) *PlaybackEventHandler {
	return &PlaybackEventHandler{
		coordinator: coordinator,
		subscriber:  subscriber,
	}
}

// Start registers event handlers with the subscriber.
func (h *PlaybackEventHandler) Start() error {
	err := h.subscriber.Subscribe(
		reflect.TypeFor[domain.TrackEndedEvent](),
		func(ctx context.Context, e domain.Event) {
			event := e.(domain.TrackEndedEvent)
			slog.Debug(
				"track ended",
				"guild", event.GuildID,
				"track", event.TrackID,
				"reason", event.Reason,
			)
			h.coordinator.HandleTrackEnded(ctx, event)
		},
	)
	if err != nil {
		return err
	}

	slog.Debug("playback event handlers properly registered")

	return nil
}

// NotificationEventHandler posts and deletes "Now Playing" messages.
type NotificationEventHandler struct {
	recorder         NowPlayingRecorder
	subscriber       ports.EventSubscriber
	notifier         ports.NotificationSender
	userInfoProvider ports.UserInfoProvider
}

// NewNotificationEventHandler creates a new NotificationEventHandler.
func NewNotificationEventHandler(
	recorder NowPlayingRecorder,
	subscriber ports.EventSubscriber,
	notifier ports.NotificationSender,
	userInfoProvider ports.UserInfoProvider,
) *NotificationEventHandler {
	return &NotificationEventHandler{
		recorder:         recorder,
		subscriber:       subscriber,
		notifier:         notifier,
		userInfoProvider: userInfoProvider,
	}
}

// Start registers event handlers with the subscriber.
func (h *NotificationEventHandler) Start() error {
	err := h.subscriber.Subscribe(
		reflect.TypeFor[domain.PlaybackStartedEvent](),
		func(ctx context.Context, e domain.Event) {
			h.handlePlaybackStarted(ctx, e.(domain.PlaybackStartedEvent))
		},
	)
	if err != nil {
		return err
	}

	err = h.subscriber.Subscribe(
		reflect.TypeFor[domain.PlaybackFinishedEvent](),
		func(ctx context.Context, e domain.Event) {
			h.handlePlaybackFinished(ctx, e.(domain.PlaybackFinishedEvent))
		},
	)
	if err != nil {
		return err
	}

	slog.Debug("notification event handlers properly registered")

	return nil
}

func (h *NotificationEventHandler) handlePlaybackStarted(
	ctx context.Context,
	event domain.PlaybackStartedEvent,
) {
	if event.Track == nil || event.NotificationChannelID == 0 {
		return
	}

	info := h.nowPlayingInfo(event)
	messageID, err := h.notifier.SendNowPlaying(event.NotificationChannelID, info)
	if err != nil {
		slog.Error(
			"failed to send now playing notification",
			"guild", event.GuildID,
			"error", err,
		)
		return
	}

	msg := domain.NewNowPlayingMessage(event.NotificationChannelID, messageID)
	stored, err := h.recorder.SetNowPlayingMessage(ctx, usecases.SetNowPlayingMessageInput{
		GuildID: event.GuildID,
		TrackID: event.Track.ID,
		Message: msg,
	})
	if err != nil {
		slog.Warn("failed to record now playing message", "guild", event.GuildID, "error", err)
	}
	if stored {
		return
	}

	// The track already finished; nobody else will delete this message.
	h.deleteMessage(event.GuildID, &msg)
}

func (h *NotificationEventHandler) handlePlaybackFinished(
	_ context.Context,
	event domain.PlaybackFinishedEvent,
) {
	if event.LastMessageID == nil {
		return
	}
	h.deleteMessage(event.GuildID, event.LastMessageID)
}

func (h *NotificationEventHandler) deleteMessage(
	guildID snowflake.ID,
	msg *domain.NowPlayingMessage,
) {
	if err := h.notifier.DeleteMessage(msg.ChannelID, msg.MessageID); err != nil {
		slog.Warn(
			"failed to delete now playing message",
			"guild", guildID,
			"message", msg.MessageID,
			"error", err,
		)
	}
}

func (h *NotificationEventHandler) nowPlayingInfo(event domain.PlaybackStartedEvent) *ports.NowPlayingInfo {
	track := event.Track
	info := &ports.NowPlayingInfo{
		Title:       track.Descriptor.DisplayTitle(),
		Uploader:    track.Descriptor.Uploader,
		PageURL:     track.Descriptor.PageURL,
		SourceName:  string(track.Descriptor.Source()),
		CodecHint:   string(track.Descriptor.CodecHint),
		Volume:      track.FormattedVolume(),
		RequesterID: track.RequesterID,
		EnqueuedAt:  track.EnqueuedAt,
	}

	if h.userInfoProvider == nil || track.RequesterID == 0 {
		return info
	}

	user, err := h.userInfoProvider.GetUserInfo(event.GuildID, track.RequesterID)
	if err != nil {
		slog.Debug("failed to fetch requester info", "guild", event.GuildID, "error", err)
		return info
	}
	info.RequesterName = user.DisplayName
	info.RequesterAvatarURL = user.AvatarURL
	return info
}

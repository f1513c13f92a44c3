package usecases

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
)

const DefaultPageSize = 10

// QueueListInput contains the input for the QueueList use case.
type QueueListInput struct {
	GuildID  snowflake.ID
	Page     int // 1-indexed page number
	PageSize int // Items per page (optional, defaults to 10)
}

// QueueListOutput contains the result of the QueueList use case.
type QueueListOutput struct {
	CurrentTrack *domain.Track
	IsPaused     bool
	Tracks       []*domain.Track
	PageStart    int // 0-indexed queue position of Tracks[0]
	TotalTracks  int // queued tracks, excluding now playing
	CurrentPage  int
	TotalPages   int
}

// QueueClearInput contains the input for the QueueClear use case.
type QueueClearInput struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
}

// QueueClearOutput contains the result of the QueueClear use case.
type QueueClearOutput struct {
	ClearedCount int
}

// QueueList returns one page of the queue.
func (c *PlaybackCoordinator) QueueList(ctx context.Context, input QueueListInput) (*QueueListOutput, error) {
	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var out *QueueListOutput
	err := c.mailboxes.exec(ctx, input.GuildID, func() error {
		state := c.playerStates.Get(input.GuildID)
		if state == nil {
			return ErrNotConnected
		}

		queued := state.Queued()
		total := len(queued)
		totalPages := max((total+pageSize-1)/pageSize, 1)
		page := min(max(input.Page, 1), totalPages)

		start := min((page-1)*pageSize, total)
		end := min(start+pageSize, total)

		out = &QueueListOutput{
			CurrentTrack: state.NowPlaying(),
			IsPaused:     state.IsPaused(),
			Tracks:       queued[start:end],
			PageStart:    start,
			TotalTracks:  total,
			CurrentPage:  page,
			TotalPages:   totalPages,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// QueueClear removes every queued track but keeps the current one playing.
func (c *PlaybackCoordinator) QueueClear(ctx context.Context, input QueueClearInput) (*QueueClearOutput, error) {
	var out *QueueClearOutput
	err := c.mailboxes.exec(ctx, input.GuildID, func() error {
		state := c.playerStates.Get(input.GuildID)
		if state == nil {
			return ErrNotConnected
		}

		if input.NotificationChannelID != 0 {
			state.SetNotificationChannelID(input.NotificationChannelID)
		}

		if state.QueueLen() == 0 {
			return ErrQueueEmpty
		}

		out = &QueueClearOutput{ClearedCount: state.ClearQueue()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

package discord

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
)

const (
	testGuildID        = "100"
	testChannelID      = "200"
	testUserID         = "300"
	testVoiceChannelID = snowflake.ID(400)
)

// mockCoordinator records calls and returns configured results.
type mockCoordinator struct {
	mu    sync.Mutex
	calls []string

	status     usecases.StatusOutput
	statusErr  error
	joinOut    *usecases.JoinOutput
	joinErr    error
	enqueueOut *usecases.EnqueueOutput
	enqueueErr error
	opErr      error

	lastJoin    usecases.JoinInput
	lastEnqueue usecases.EnqueueInput
	lastVolume  usecases.SetVolumeInput
	lastList    usecases.QueueListInput

	current *domain.Track
	list    *usecases.QueueListOutput
}

func (m *mockCoordinator) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockCoordinator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockCoordinator) Status(
	context.Context,
	usecases.StatusInput,
) (*usecases.StatusOutput, error) {
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	status := m.status
	return &status, nil
}

func (m *mockCoordinator) Join(
	_ context.Context,
	input usecases.JoinInput,
) (*usecases.JoinOutput, error) {
	m.record("join")
	m.lastJoin = input
	if m.joinErr != nil {
		return nil, m.joinErr
	}
	if m.joinOut != nil {
		return m.joinOut, nil
	}
	return &usecases.JoinOutput{VoiceChannelID: testVoiceChannelID}, nil
}

func (m *mockCoordinator) Stop(context.Context, usecases.StopInput) (*usecases.StopOutput, error) {
	m.record("stop")
	if m.opErr != nil {
		return nil, m.opErr
	}
	return &usecases.StopOutput{}, nil
}

func (m *mockCoordinator) Enqueue(
	_ context.Context,
	input usecases.EnqueueInput,
) (*usecases.EnqueueOutput, error) {
	m.record("enqueue")
	m.lastEnqueue = input
	if m.enqueueErr != nil {
		return nil, m.enqueueErr
	}
	if m.enqueueOut != nil {
		return m.enqueueOut, nil
	}
	return &usecases.EnqueueOutput{StartedPlaying: true}, nil
}

func (m *mockCoordinator) Skip(context.Context, usecases.SkipInput) (*usecases.SkipOutput, error) {
	m.record("skip")
	if m.opErr != nil {
		return nil, m.opErr
	}
	return &usecases.SkipOutput{SkippedTrack: m.current}, nil
}

func (m *mockCoordinator) Pause(context.Context, usecases.PauseInput) error {
	m.record("pause")
	return m.opErr
}

func (m *mockCoordinator) Resume(context.Context, usecases.ResumeInput) error {
	m.record("resume")
	return m.opErr
}

func (m *mockCoordinator) SetVolume(
	_ context.Context,
	input usecases.SetVolumeInput,
) (*usecases.SetVolumeOutput, error) {
	m.record("volume")
	m.lastVolume = input
	if m.opErr != nil {
		return nil, m.opErr
	}
	return &usecases.SetVolumeOutput{
		Track: m.current.WithVolume(domain.VolumeFromPercent(input.Percent)),
	}, nil
}

func (m *mockCoordinator) NowPlaying(
	context.Context,
	usecases.NowPlayingInput,
) (*usecases.NowPlayingOutput, error) {
	m.record("nowplaying")
	if m.opErr != nil {
		return nil, m.opErr
	}
	return &usecases.NowPlayingOutput{Track: m.current, IsPaused: m.status.Paused}, nil
}

func (m *mockCoordinator) QueueList(
	_ context.Context,
	input usecases.QueueListInput,
) (*usecases.QueueListOutput, error) {
	m.record("queue")
	m.lastList = input
	if m.opErr != nil {
		return nil, m.opErr
	}
	return m.list, nil
}

func (m *mockCoordinator) QueueClear(
	context.Context,
	usecases.QueueClearInput,
) (*usecases.QueueClearOutput, error) {
	m.record("clear")
	if m.opErr != nil {
		return nil, m.opErr
	}
	return &usecases.QueueClearOutput{ClearedCount: 3}, nil
}

type mockResolver struct {
	track *domain.Track
	err   error
	input usecases.ResolveInput
}

func (m *mockResolver) Resolve(
	_ context.Context,
	input usecases.ResolveInput,
) (*usecases.ResolveOutput, error) {
	m.input = input
	if m.err != nil {
		return nil, m.err
	}
	return &usecases.ResolveOutput{Track: m.track}, nil
}

type mockVoiceState struct {
	channel *snowflake.ID
	err     error
}

func (m *mockVoiceState) GetUserVoiceChannel(_, _ snowflake.ID) (*snowflake.ID, error) {
	return m.channel, m.err
}

var _ ports.VoiceStateProvider = (*mockVoiceState)(nil)

type mockSearcher struct {
	results []ports.SearchResult
	err     error
	calls   int
}

func (m *mockSearcher) Search(context.Context, domain.SearchQuery) ([]ports.SearchResult, error) {
	m.calls++
	return m.results, m.err
}

func voiceChannel(id snowflake.ID) *snowflake.ID {
	return &id
}

func newTestTrack(title string) *domain.Track {
	return domain.NewTrack(domain.StreamDescriptor{
		StreamURL: "https://cdn.test/" + title,
		Title:     title,
		PageURL:   "https://www.youtube.com/watch?v=" + title,
		Uploader:  "Uploader",
	}, domain.DefaultVolume, snowflake.ID(300))
}

func newInteraction(
	name string,
	options ...*discordgo.ApplicationCommandInteractionDataOption,
) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   testGuildID,
			ChannelID: testChannelID,
			Member: &discordgo.Member{
				User: &discordgo.User{ID: testUserID},
			},
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: options,
			},
		},
	}
}

func stringOpt(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func intOpt(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(value),
	}
}

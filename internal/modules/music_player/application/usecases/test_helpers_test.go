package usecases

import (
	"context"
	"errors"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
)

const (
	testGuildID        = snowflake.ID(1)
	testVoiceChannelID = snowflake.ID(10)
	testTextChannelID  = snowflake.ID(20)
	testUserID         = snowflake.ID(30)
)

func mockTrack(title string) *domain.Track {
	return domain.NewTrack(domain.StreamDescriptor{
		StreamURL: "https://cdn.example.com/" + title,
		Title:     title,
		PageURL:   "https://www.youtube.com/watch?v=" + title,
		CodecHint: domain.CodecHintUnknown,
	}, domain.DefaultVolume, testUserID)
}

type mockRepository struct {
	mu      sync.Mutex
	states  map[snowflake.ID]*domain.PlayerState
	deleted []snowflake.ID
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		states: make(map[snowflake.ID]*domain.PlayerState),
	}
}

func (m *mockRepository) Get(guildID snowflake.ID) *domain.PlayerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[guildID]
}

func (m *mockRepository) Save(state *domain.PlayerState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.GetGuildID()] = state
}

func (m *mockRepository) Delete(guildID snowflake.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, guildID)
	delete(m.states, guildID)
}

func (m *mockRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.states)
}

type mockAudioPlayer struct {
	mu        sync.Mutex
	played    []*domain.Track
	stops     int
	pauses    int
	resumes   int
	volumes   []float64
	playErrs  map[string]error // by track title
	stopErr   error
	pauseErr  error
	resumeErr error
}

func newMockAudioPlayer() *mockAudioPlayer {
	return &mockAudioPlayer{playErrs: make(map[string]error)}
}

func (m *mockAudioPlayer) Play(_ context.Context, _ snowflake.ID, track *domain.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.playErrs[track.Descriptor.Title]; err != nil {
		return err
	}
	m.played = append(m.played, track)
	return nil
}

func (m *mockAudioPlayer) Stop(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopErr != nil {
		return m.stopErr
	}
	m.stops++
	return nil
}

func (m *mockAudioPlayer) Pause(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pauseErr != nil {
		return m.pauseErr
	}
	m.pauses++
	return nil
}

func (m *mockAudioPlayer) Resume(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resumeErr != nil {
		return m.resumeErr
	}
	m.resumes++
	return nil
}

func (m *mockAudioPlayer) SetVolume(_ context.Context, _ snowflake.ID, volume float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volumes = append(m.volumes, volume)
	return nil
}

func (m *mockAudioPlayer) playedTitles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	titles := make([]string, len(m.played))
	for i, t := range m.played {
		titles[i] = t.Descriptor.Title
	}
	return titles
}

func (m *mockAudioPlayer) lastPlayed() *domain.Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.played) == 0 {
		return nil
	}
	return m.played[len(m.played)-1]
}

type mockVoiceConnection struct {
	mu       sync.Mutex
	joins    []snowflake.ID
	leaves   int
	joinErr  error
	leaveErr error
	entered  chan struct{} // receives once per join, if set
	release  chan struct{} // blocks each join until closed, if set
}

func (m *mockVoiceConnection) JoinChannel(ctx context.Context, _, channelID snowflake.ID) error {
	m.mu.Lock()
	entered, release := m.entered, m.release
	m.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.joinErr != nil {
		return m.joinErr
	}
	m.joins = append(m.joins, channelID)
	return nil
}

func (m *mockVoiceConnection) LeaveChannel(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves++
	return m.leaveErr
}

func (m *mockVoiceConnection) leaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.leaves
}

func (m *mockVoiceConnection) joinCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.joins)
}

type mockVoiceStateProvider struct {
	channels map[snowflake.ID]snowflake.ID // userID -> channelID
	err      error
}

func (m *mockVoiceStateProvider) GetUserVoiceChannel(_, userID snowflake.ID) (*snowflake.ID, error) {
	if m.err != nil {
		return nil, m.err
	}
	channelID, ok := m.channels[userID]
	if !ok {
		return nil, nil
	}
	return &channelID, nil
}

type mockEventPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (m *mockEventPublisher) Publish(event domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventPublisher) started() []domain.PlaybackStartedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.PlaybackStartedEvent
	for _, e := range m.events {
		if s, ok := e.(domain.PlaybackStartedEvent); ok {
			out = append(out, s)
		}
	}
	return out
}

func (m *mockEventPublisher) finished() []domain.PlaybackFinishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.PlaybackFinishedEvent
	for _, e := range m.events {
		if f, ok := e.(domain.PlaybackFinishedEvent); ok {
			out = append(out, f)
		}
	}
	return out
}

type mockMetrics struct {
	mu              sync.Mutex
	cacheHits       int
	cacheMisses     int
	extractions     int
	extractionFails int
	cacheWriteFails int
	tracksStarted   int
	activePlayers   int
}

func (m *mockMetrics) CacheHit()         { m.mu.Lock(); m.cacheHits++; m.mu.Unlock() }
func (m *mockMetrics) CacheMiss()        { m.mu.Lock(); m.cacheMisses++; m.mu.Unlock() }
func (m *mockMetrics) Extraction()       { m.mu.Lock(); m.extractions++; m.mu.Unlock() }
func (m *mockMetrics) ExtractionFailed() { m.mu.Lock(); m.extractionFails++; m.mu.Unlock() }
func (m *mockMetrics) CacheWriteFailed() { m.mu.Lock(); m.cacheWriteFails++; m.mu.Unlock() }
func (m *mockMetrics) TrackStarted()     { m.mu.Lock(); m.tracksStarted++; m.mu.Unlock() }
func (m *mockMetrics) SetActivePlayers(n int) {
	m.mu.Lock()
	m.activePlayers = n
	m.mu.Unlock()
}

type mockCache struct {
	mu        sync.Mutex
	entries   map[domain.SourceIdentifier]domain.StreamDescriptor
	getCalls  int
	putCalls  int
	putErr    error
	getErr    error
	hintCalls []string
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[domain.SourceIdentifier]domain.StreamDescriptor)}
}

func (m *mockCache) Get(_ context.Context, id domain.SourceIdentifier) (domain.StreamDescriptor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.getErr != nil {
		return domain.StreamDescriptor{}, m.getErr
	}
	d, ok := m.entries[id]
	if !ok {
		return domain.StreamDescriptor{}, domain.ErrCacheMiss
	}
	return d, nil
}

func (m *mockCache) Put(_ context.Context, id domain.SourceIdentifier, d domain.StreamDescriptor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	if m.putErr != nil {
		return &domain.CacheWriteError{Op: "put", Identifier: id.String(), Err: m.putErr}
	}
	m.entries[id] = d
	return nil
}

func (m *mockCache) UpdateCodecHint(_ context.Context, key string, hint domain.CodecHint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hintCalls = append(m.hintCalls, key)
	found := false
	for id, d := range m.entries {
		if id.String() == key || d.StreamURL == key {
			d.CodecHint = hint
			m.entries[id] = d
			found = true
		}
	}
	if !found {
		return domain.ErrCacheEntryNotFound
	}
	return nil
}

func (m *mockCache) LookupCodecHint(_ context.Context, streamURL string) (domain.CodecHint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.entries {
		if d.StreamURL == streamURL {
			return d.CodecHint, nil
		}
	}
	return domain.CodecHintUnknown, domain.ErrCacheMiss
}

func (m *mockCache) Close() error { return nil }

func (m *mockCache) entry(id string) (domain.StreamDescriptor, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.entries[domain.SourceIdentifier(id)]
	return d, ok
}

func (m *mockCache) hintUpdates() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.hintCalls...)
}

type mockExtractor struct {
	mu      sync.Mutex
	calls   []domain.SourceIdentifier
	results map[domain.SourceIdentifier]*ports.ExtractResult
	err     error
	entered chan struct{} // receives once per call, if set
	release chan struct{} // blocks each call until closed, if set
}

func newMockExtractor() *mockExtractor {
	return &mockExtractor{results: make(map[domain.SourceIdentifier]*ports.ExtractResult)}
}

func (m *mockExtractor) Extract(ctx context.Context, id domain.SourceIdentifier) (*ports.ExtractResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, id)
	entered, release := m.entered, m.release
	m.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if r, ok := m.results[id]; ok {
		return r, nil
	}
	return &ports.ExtractResult{
		StreamURL: "https://cdn.example.com/" + id.String(),
		Title:     "Title of " + id.String(),
		PageURL:   "https://www.youtube.com/watch?v=" + id.String(),
		Uploader:  "uploader",
	}, nil
}

func (m *mockExtractor) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockProber struct {
	mu    sync.Mutex
	calls int
	hint  domain.CodecHint
	err   error
}

func (m *mockProber) Probe(_ context.Context, _ string) (domain.CodecHint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.hint, m.err
}

func (m *mockProber) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var errBoom = errors.New("boom")

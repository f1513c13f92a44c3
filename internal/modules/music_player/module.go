package music_player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/jukebot/internal/bot"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/jukebot/internal/modules/music_player/infrastructure"
	"github.com/sglre6355/jukebot/internal/modules/music_player/presentation/discord"
)

func init() {
	bot.Register(&MusicPlayerModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*MusicPlayerModule)(nil)

var errNoSession = errors.New("music_player requires an open Discord session")

// MusicPlayerModule provides music playback commands.
type MusicPlayerModule struct {
	config          *Config
	commandHandlers *discord.CommandHandlers
	autocomplete    *discord.AutocompleteHandler
	eventHandlers   *discord.EventHandlers
	lavalinkAdapter *infrastructure.LavalinkAdapter
	cache           *infrastructure.SQLiteCache
	coordinator     *usecases.PlaybackCoordinator

	// Event-driven components
	eventBus            *infrastructure.ChannelEventBus
	playbackHandler     *application.PlaybackEventHandler
	notificationHandler *application.NotificationEventHandler
}

// Name returns the module name.
func (m *MusicPlayerModule) Name() string {
	return "music_player"
}

// Commands returns the slash commands for this module.
func (m *MusicPlayerModule) Commands() []*discordgo.ApplicationCommand {
	return discord.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *MusicPlayerModule) CommandHandlers() map[string]bot.InteractionHandler {
	handlers := make(map[string]bot.InteractionHandler)
	if m.commandHandlers == nil {
		return handlers
	}
	for _, name := range m.commandHandlers.CommandNames() {
		handlers[name] = m.commandHandlers.Dispatch
	}
	return handlers
}

// EventHandlers returns the event handlers for this module.
func (m *MusicPlayerModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(s *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			m.handleVoiceServerUpdate(s, event)
		},
		func(s *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			m.handleVoiceStateUpdate(s, event)
		},
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			m.handleInteractionCreate(s, i)
		},
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *MusicPlayerModule) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *MusicPlayerModule) Init(deps bot.ModuleDependencies) error {
	if deps.Session == nil || deps.Session.State == nil || deps.Session.State.User == nil {
		return errNoSession
	}
	if m.config == nil {
		if err := m.LoadConfig(); err != nil {
			return err
		}
	}

	ctx := context.Background()

	// Create event bus (needed by Lavalink adapter for publishing events)
	m.eventBus = infrastructure.NewChannelEventBus(infrastructure.DefaultEventBufferSize)

	lavalinkAdapter, err := infrastructure.NewLavalinkAdapter(
		ctx,
		deps.Session,
		infrastructure.LavalinkConfig{
			Address:  m.config.LavalinkAddress,
			Password: m.config.LavalinkPassword,
			Secure:   m.config.LavalinkSecure,
		},
		m.eventBus,
	)
	if err != nil {
		return err
	}
	m.lavalinkAdapter = lavalinkAdapter

	cache, err := infrastructure.NewSQLiteCache(ctx, m.config.CachePath)
	if err != nil {
		return fmt.Errorf("failed to open resolution cache: %w", err)
	}
	m.cache = cache

	// Create infrastructure
	repo := infrastructure.NewMemoryRepository()
	voiceState := infrastructure.NewVoiceStateProvider(deps.Session)
	userInfoProv := infrastructure.NewDiscordUserInfoProvider(deps.Session)
	notifier := infrastructure.NewNotifier(deps.Session)
	searcher := infrastructure.NewSourceSearcher(
		infrastructure.NewYouTubeSearcher(infrastructure.DefaultSearchLimit),
		infrastructure.NewYouTubeMusicSearcher(infrastructure.DefaultSearchLimit),
	)
	extractor := infrastructure.NewYtdlpExtractor(infrastructure.YtdlpConfig{
		Path:        m.config.YtdlpPath,
		CookiesFile: m.config.YtdlpCookiesFile,
	}, searcher, infrastructure.NewSpotifyMetadataLookup(nil))

	var playbackMetrics ports.PlaybackMetrics
	resolverOpts := m.resolverOptions(cache)
	if deps.Metrics != nil {
		resolverOpts = append(resolverOpts, usecases.WithResolverMetrics(deps.Metrics))
		playbackMetrics = deps.Metrics
	}

	resolver := usecases.NewStreamResolver(cache, extractor, resolverOpts...)
	m.coordinator = usecases.NewPlaybackCoordinator(
		repo,
		lavalinkAdapter,
		lavalinkAdapter,
		voiceState,
		m.eventBus,
		playbackMetrics,
	)

	// Create application event handlers
	m.playbackHandler = application.NewPlaybackEventHandler(m.coordinator, m.eventBus)
	m.notificationHandler = application.NewNotificationEventHandler(
		m.coordinator,
		m.eventBus,
		notifier,
		userInfoProv,
	)

	// Register event handlers
	if err := m.playbackHandler.Start(); err != nil {
		return err
	}
	if err := m.notificationHandler.Start(); err != nil {
		return err
	}

	// Create presentation handlers
	botID, err := snowflake.Parse(deps.Session.State.User.ID)
	if err != nil {
		return err
	}
	m.commandHandlers = discord.NewCommandHandlers(m.coordinator, resolver, voiceState)
	m.autocomplete = discord.NewAutocompleteHandler(searcher)
	m.eventHandlers = discord.NewEventHandlers(botID, m.coordinator)

	slog.Info("music_player module initialized",
		"cache", m.config.CachePath,
		"codec_probe", m.config.CodecProbe,
	)

	return nil
}

// resolverOptions translates the module config into StreamResolver options.
func (m *MusicPlayerModule) resolverOptions(cache *infrastructure.SQLiteCache) []usecases.StreamResolverOption {
	opts := []usecases.StreamResolverOption{
		usecases.WithDefaultVolume(m.config.defaultVolume()),
	}
	if m.config.ResolveSingleFlight {
		opts = append(opts, usecases.WithSingleFlight())
	}
	if m.config.ExtractionRate > 0 {
		opts = append(opts, usecases.WithRateLimit(m.config.ExtractionRate, max(m.config.ExtractionBurst, 1)))
	}
	if m.config.CodecProbe && cache != nil {
		probe := usecases.NewCodecProbeService(
			cache,
			infrastructure.NewAstiavProber(infrastructure.DefaultProbeTimeout),
		)
		opts = append(opts, usecases.WithCodecProbe(probe))
	}
	return opts
}

// Shutdown cleans up module resources.
func (m *MusicPlayerModule) Shutdown() error {
	// Stop the guild mailboxes first so no new events are published
	if m.coordinator != nil {
		m.coordinator.Shutdown()
	}

	if m.eventBus != nil {
		m.eventBus.Close()
	}

	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.Close()
	}

	if m.cache != nil {
		if err := m.cache.Close(); err != nil {
			return fmt.Errorf("failed to close resolution cache: %w", err)
		}
	}

	return nil
}

// Event handlers.

func (m *MusicPlayerModule) handleVoiceServerUpdate(
	_ *discordgo.Session,
	event *discordgo.VoiceServerUpdate,
) {
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.OnVoiceServerUpdate(event)
	}
}

func (m *MusicPlayerModule) handleVoiceStateUpdate(
	s *discordgo.Session,
	event *discordgo.VoiceStateUpdate,
) {
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.OnVoiceStateUpdate(event)
	}
	if m.eventHandlers != nil {
		m.eventHandlers.HandleVoiceStateUpdate(s, event)
	}
}

func (m *MusicPlayerModule) handleInteractionCreate(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
) {
	if m.autocomplete != nil {
		m.autocomplete.HandleInteraction(s, i)
	}
}

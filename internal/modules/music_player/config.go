package music_player

// Config holds the music player module configuration.
type Config struct {
	LavalinkAddress  string `env:"LAVALINK_ADDRESS,notEmpty"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD,notEmpty"`
	LavalinkSecure   bool   `env:"LAVALINK_SECURE"             envDefault:"false"`

	// CachePath is the SQLite file backing the resolution cache.
	CachePath string `env:"CACHE_PATH" envDefault:"cache.db"`

	YtdlpPath        string `env:"YTDLP_PATH"`
	YtdlpCookiesFile string `env:"YTDLP_COOKIES_FILE"`

	ResolveSingleFlight bool `env:"RESOLVE_SINGLE_FLIGHT" envDefault:"true"`
	// ExtractionRate limits yt-dlp runs per second. Zero disables the limit.
	ExtractionRate  float64 `env:"EXTRACTION_RATE"  envDefault:"0"`
	ExtractionBurst int     `env:"EXTRACTION_BURST" envDefault:"1"`
	CodecProbe      bool    `env:"CODEC_PROBE"      envDefault:"false"`
	// DefaultVolume is the percentage new tracks start at.
	DefaultVolume int `env:"DEFAULT_VOLUME" envDefault:"80"`
}

func (c *Config) defaultVolume() float64 {
	return float64(min(max(c.DefaultVolume, 0), 100)) / 100
}

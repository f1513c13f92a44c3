package bot

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the bot configuration loaded from environment variables.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,notEmpty"`
	LogLevel     string `env:"LOG_LEVEL"    envDefault:"info"`
	LogFormat    string `env:"LOG_FORMAT"   envDefault:"json"`
	// MetricsAddr is where /metrics and /healthz are served. Empty disables the server.
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`
}

// LoadDotEnv loads variables from the given .env files into the environment
// without overriding ones that are already set. Missing files are ignored.
func LoadDotEnv(filenames ...string) {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		_ = godotenv.Load(name)
	}
}

// LoadConfig loads configuration from environment variables.
// Returns an error if required fields are missing.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

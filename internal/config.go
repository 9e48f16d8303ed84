package internal

import (
	"fmt"
	"log/slog"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

type Config struct {
	StreamBufferSize int    `env:"STREAM_BUFFER_SIZE,default=64"`
	ReplayDepth      int    `env:"REPLAY_DEPTH,default=32"`
	BadgerFilepath   string `env:"BADGER_FILEPATH"`
	PebbleFilepath   string `env:"PEBBLE_FILEPATH"`
	LogLevel         string `env:"LOG_LEVEL,default=info"`
}

// Load reads the configuration from the environment, after a best-effort
// load of a local .env file.
func Load() (Config, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	return config, nil
}

func (c Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
}

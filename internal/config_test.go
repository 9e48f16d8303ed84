package internal

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsApply(t *testing.T) {
	req := require.New(t)

	config, err := Load()

	req.NoError(err)
	req.Equal(64, config.StreamBufferSize)
	req.Equal(32, config.ReplayDepth)
	req.Equal("info", config.LogLevel)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	req := require.New(t)
	t.Setenv("STREAM_BUFFER_SIZE", "128")
	t.Setenv("BADGER_FILEPATH", "/tmp/chat-badger")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := Load()

	req.NoError(err)
	req.Equal(128, config.StreamBufferSize)
	req.Equal("/tmp/chat-badger", config.BadgerFilepath)
	req.Equal("debug", config.LogLevel)
}

func TestSlogLevel(t *testing.T) {
	req := require.New(t)

	level, err := Config{LogLevel: "WARN"}.SlogLevel()
	req.NoError(err)
	req.Equal(slog.LevelWarn, level)

	_, err = Config{LogLevel: "verbose"}.SlogLevel()
	req.Error(err)
}

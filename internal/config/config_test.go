package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := fromLookup(lookupFrom(nil))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, int64(16*1024*1024), cfg.MaxMessageBytes)
}

func TestParsesEveryVariable(t *testing.T) {
	cfg, err := fromLookup(lookupFrom(map[string]string{
		"HTTP_HOST":         "127.0.0.1",
		"PORT":              "9090",
		"LOG_LEVEL":         "debug",
		"STORAGE_TYPE":      "redis",
		"REDIS_URL":         "redis://localhost:6379/1",
		"WORDS_PATH":        "data/words.yaml",
		"DEFAULT_CATEGORY":  "Meslekler",
		"MAX_PLAYERS":       "10",
		"MIN_PLAYERS":       "4",
		"PING_INTERVAL":     "15s",
		"MAX_MESSAGE_BYTES": "65536",
		"HISTORY_TTL":       "2h",
	}))

	require.NoError(t, err)
	assert.Equal(t, Config{
		HTTPHost:        "127.0.0.1",
		Port:            9090,
		LogLevel:        slog.LevelDebug,
		StorageType:     StorageTypeRedis,
		RedisURL:        "redis://localhost:6379/1",
		WordsPath:       "data/words.yaml",
		DefaultCategory: "Meslekler",
		MaxPlayers:      10,
		MinPlayers:      4,
		PingInterval:    15 * time.Second,
		MaxMessageBytes: 65536,
		HistoryTTL:      2 * time.Hour,
	}, cfg)
}

func TestInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"non-numeric port", map[string]string{"PORT": "http"}},
		{"port out of range", map[string]string{"PORT": "70000"}},
		{"bad level", map[string]string{"LOG_LEVEL": "loud"}},
		{"bad duration", map[string]string{"PING_INTERVAL": "often"}},
		{"unknown storage", map[string]string{"STORAGE_TYPE": "postgres"}},
		{"redis without url", map[string]string{"STORAGE_TYPE": "redis"}},
		{"too few players", map[string]string{"MIN_PLAYERS": "2"}},
		{"capacity below minimum", map[string]string{"MAX_PLAYERS": "2"}},
		{"negative message limit", map[string]string{"MAX_MESSAGE_BYTES": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromLookup(lookupFrom(tt.vars))
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "casus.env")
	require.NoError(t, os.WriteFile(path, []byte("CASUS_TEST_UNUSED=1\nMIN_PLAYERS=5\nMAX_PLAYERS=12\n"), 0o600))
	t.Setenv("MAX_PLAYERS", "9")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MinPlayers)
	assert.Equal(t, 9, cfg.MaxPlayers, "environment wins over the file")
	_, set := os.LookupEnv("MIN_PLAYERS")
	assert.False(t, set, "the file must not leak into the process environment")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

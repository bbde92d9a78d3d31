package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// DefaultEnvFile is read when no env file is given explicitly and it exists
const DefaultEnvFile = ".env"

// Config is the server configuration
type Config struct {
	HTTPHost        string
	Port            int
	LogLevel        slog.Level
	StorageType     string
	RedisURL        string
	WordsPath       string
	DefaultCategory string
	MaxPlayers      int
	MinPlayers      int
	PingInterval    time.Duration
	MaxMessageBytes int64
	HistoryTTL      time.Duration
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Port:            8080,
		LogLevel:        slog.LevelInfo,
		StorageType:     StorageTypeMemory,
		DefaultCategory: "Hayvanlar",
		MaxPlayers:      8,
		MinPlayers:      3,
		PingInterval:    30 * time.Second,
		MaxMessageBytes: 16 << 20,
		HistoryTTL:      24 * time.Hour,
	}
}

// Load reads configuration from the process environment, falling back to the env file.
// Variables already set in the environment win over the file.
// An empty path reads DefaultEnvFile if it exists.
func Load(path string) (Config, error) {
	fileVars, err := readEnvFile(path)
	if err != nil {
		return Config{}, err
	}
	return fromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	})
}

func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		if _, err := os.Stat(DefaultEnvFile); errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		path = DefaultEnvFile
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return vars, nil
}

type parser struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (p *parser) string(key string, target *string) {
	if v, ok := p.lookup(key); ok {
		*target = strings.TrimSpace(v)
	}
}

func (p *parser) int(key string, target *int) {
	v, ok := p.lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*target = n
}

func (p *parser) duration(key string, target *time.Duration) {
	v, ok := p.lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*target = d
}

func (p *parser) level(key string, target *slog.Level) {
	v, ok := p.lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return
	}
	if err := target.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
	}
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	p := &parser{lookup: lookup}

	p.string("HTTP_HOST", &cfg.HTTPHost)
	p.int("PORT", &cfg.Port)
	p.level("LOG_LEVEL", &cfg.LogLevel)
	p.string("STORAGE_TYPE", &cfg.StorageType)
	p.string("REDIS_URL", &cfg.RedisURL)
	p.string("WORDS_PATH", &cfg.WordsPath)
	p.string("DEFAULT_CATEGORY", &cfg.DefaultCategory)
	p.int("MAX_PLAYERS", &cfg.MaxPlayers)
	p.int("MIN_PLAYERS", &cfg.MinPlayers)
	p.duration("PING_INTERVAL", &cfg.PingInterval)
	p.duration("HISTORY_TTL", &cfg.HistoryTTL)

	var maxBytes int
	p.int("MAX_MESSAGE_BYTES", &maxBytes)
	if maxBytes != 0 {
		cfg.MaxMessageBytes = int64(maxBytes)
	}

	if len(p.errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %w", errors.Join(p.errs...))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and cross-field requirements
func (c Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	switch c.StorageType {
	case StorageTypeMemory:
	case StorageTypeRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when STORAGE_TYPE is redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_TYPE must be %q or %q, got %q", StorageTypeMemory, StorageTypeRedis, c.StorageType))
	}
	if c.DefaultCategory == "" {
		errs = append(errs, errors.New("DEFAULT_CATEGORY must not be empty"))
	}
	if c.MinPlayers < 3 {
		errs = append(errs, fmt.Errorf("MIN_PLAYERS must be at least 3, got %d", c.MinPlayers))
	}
	if c.MaxPlayers < c.MinPlayers {
		errs = append(errs, fmt.Errorf("MAX_PLAYERS (%d) must not be below MIN_PLAYERS (%d)", c.MaxPlayers, c.MinPlayers))
	}
	if c.PingInterval <= 0 {
		errs = append(errs, errors.New("PING_INTERVAL must be positive"))
	}
	if c.MaxMessageBytes <= 0 {
		errs = append(errs, errors.New("MAX_MESSAGE_BYTES must be positive"))
	}
	if c.HistoryTTL <= 0 {
		errs = append(errs, errors.New("HISTORY_TTL must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

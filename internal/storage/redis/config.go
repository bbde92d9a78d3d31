package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// HistoryTTL is how long a room's game history survives after its last finished game
	HistoryTTL time.Duration

	// MaxSummariesPerRoom bounds the history list of a single room code
	MaxSummariesPerRoom int64
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:                 "redis://localhost:6379",
		PoolSize:            10,
		MinIdleConns:        2,
		HistoryTTL:          24 * time.Hour,
		MaxSummariesPerRoom: 50,
	}
}

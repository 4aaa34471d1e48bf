package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// HistoryTTL bounds how long finished-session summaries are kept.
	// Zero means keep forever.
	HistoryTTL time.Duration

	// HistoryMax caps the number of retained summaries. Zero means
	// unbounded.
	HistoryMax int64
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		HistoryTTL:   0,
		HistoryMax:   10000,
	}
}

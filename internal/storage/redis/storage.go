package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Word pack operations

// SaveCategories replaces the whole word pack in one transaction
func (s *Storage) SaveCategories(ctx context.Context, categories []model.Category) error {
	previous, err := s.client.LRange(ctx, categoryIndexKey(), 0, -1).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	for _, name := range previous {
		pipe.Del(ctx, categoryKey(name))
	}
	pipe.Del(ctx, categoryIndexKey())
	for _, c := range categories {
		if len(c.Words) == 0 {
			continue
		}
		pipe.RPush(ctx, categoryIndexKey(), c.Name)
		pipe.RPush(ctx, categoryKey(c.Name), toArgs(c.Words)...)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetCategories(ctx context.Context) ([]model.Category, error) {
	names, err := s.client.LRange(ctx, categoryIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, model.ErrNoCategories
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringSliceCmd, len(names))
	for i, name := range names {
		cmds[i] = pipe.LRange(ctx, categoryKey(name), 0, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	categories := make([]model.Category, 0, len(names))
	for i, name := range names {
		words := cmds[i].Val()
		if len(words) == 0 {
			continue // Category list may have been removed out of band
		}
		categories = append(categories, model.Category{Name: name, Words: words})
	}
	if len(categories) == 0 {
		return nil, model.ErrNoCategories
	}
	return categories, nil
}

// Game history operations

func (s *Storage) SaveGameSummary(ctx context.Context, summary *model.GameSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	key := historyKey(summary.RoomCode)

	// Use pipeline for atomic push + trim + TTL refresh
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	if s.cfg.MaxSummariesPerRoom > 0 {
		pipe.LTrim(ctx, key, 0, s.cfg.MaxSummariesPerRoom-1)
	}
	if s.cfg.HistoryTTL > 0 {
		pipe.Expire(ctx, key, s.cfg.HistoryTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// ListGameSummaries returns summaries newest first. A limit <= 0 returns all of them.
func (s *Storage) ListGameSummaries(ctx context.Context, code model.RoomCode, limit int) ([]*model.GameSummary, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	values, err := s.client.LRange(ctx, historyKey(code), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	summaries := make([]*model.GameSummary, 0, len(values))
	for _, val := range values {
		var summary model.GameSummary
		if err := json.Unmarshal([]byte(val), &summary); err != nil {
			continue // Skip invalid data
		}
		summaries = append(summaries, &summary)
	}
	return summaries, nil
}

func toArgs(words []string) []any {
	args := make([]any, len(words))
	for i, w := range words {
		args[i] = w
	}
	return args
}

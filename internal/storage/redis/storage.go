package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fakeout-io/fakeout/internal/model"
	"github.com/fakeout-io/fakeout/internal/storage"
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

// Question bank operations

func (s *Storage) SaveQuestions(ctx context.Context, topic string, questions []model.Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}

	// Pipeline the value write and the topic index update together
	pipe := s.client.Pipeline()
	pipe.Set(ctx, questionsKey(topic), data, 0)
	pipe.SAdd(ctx, topicsIndexKey(), topic)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetQuestionsByTopic(ctx context.Context, topic string) ([]model.Question, error) {
	data, err := s.client.Get(ctx, questionsKey(topic)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrTopicNotFound
		}
		return nil, err
	}

	var questions []model.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (s *Storage) Topics(ctx context.Context) ([]string, error) {
	topics, err := s.client.SMembers(ctx, topicsIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(topics)
	return topics, nil
}

// Session history operations

func (s *Storage) SaveSessionSummary(ctx context.Context, summary *model.SessionSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.LPush(ctx, historyKey(), data)
	if s.cfg.HistoryMax > 0 {
		pipe.LTrim(ctx, historyKey(), 0, s.cfg.HistoryMax-1)
	}
	if s.cfg.HistoryTTL > 0 {
		pipe.Expire(ctx, historyKey(), s.cfg.HistoryTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// GetSessionSummary scans the history list for the given id. The list
// is capped by HistoryMax, so a full scan stays bounded.
func (s *Storage) GetSessionSummary(ctx context.Context, id string) (*model.SessionSummary, error) {
	entries, err := s.client.LRange(ctx, historyKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		var summary model.SessionSummary
		if err := json.Unmarshal([]byte(entry), &summary); err != nil {
			return nil, err
		}
		if summary.ID == id {
			return &summary, nil
		}
	}
	return nil, model.ErrSummaryNotFound
}

func (s *Storage) ListSessionSummaries(ctx context.Context, limit, offset int) ([]*model.SessionSummary, error) {
	if limit <= 0 {
		return []*model.SessionSummary{}, nil
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.client.LRange(ctx, historyKey(), int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, err
	}

	summaries := make([]*model.SessionSummary, 0, len(entries))
	for _, entry := range entries {
		var summary model.SessionSummary
		if err := json.Unmarshal([]byte(entry), &summary); err != nil {
			return nil, err
		}
		summaries = append(summaries, &summary)
	}
	return summaries, nil
}

func (s *Storage) CountSessionSummaries(ctx context.Context) (int, error) {
	count, err := s.client.LLen(ctx, historyKey()).Result()
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

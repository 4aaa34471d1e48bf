package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fakeout-io/fakeout/internal/model"
	"github.com/fakeout-io/fakeout/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	questions map[string][]model.Question
	summaries []*model.SessionSummary // newest first
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		questions: make(map[string][]model.Question),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Question bank operations

func (s *Storage) SaveQuestions(ctx context.Context, topic string, questions []model.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]model.Question, len(questions))
	copy(stored, questions)
	s.questions[topic] = stored
	return nil
}

func (s *Storage) GetQuestionsByTopic(ctx context.Context, topic string) ([]model.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	questions, ok := s.questions[topic]
	if !ok {
		return nil, model.ErrTopicNotFound
	}
	result := make([]model.Question, len(questions))
	copy(result, questions)
	return result, nil
}

func (s *Storage) Topics(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	topics := make([]string, 0, len(s.questions))
	for topic := range s.questions {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics, nil
}

// Session history operations

func (s *Storage) SaveSessionSummary(ctx context.Context, summary *model.SessionSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append([]*model.SessionSummary{summary}, s.summaries...)
	return nil
}

func (s *Storage) GetSessionSummary(ctx context.Context, id string) (*model.SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, summary := range s.summaries {
		if summary.ID == id {
			return summary, nil
		}
	}
	return nil, model.ErrSummaryNotFound
}

func (s *Storage) ListSessionSummaries(ctx context.Context, limit, offset int) ([]*model.SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if offset < 0 {
		offset = 0
	}
	if offset >= len(s.summaries) || limit <= 0 {
		return []*model.SessionSummary{}, nil
	}
	end := offset + limit
	if end > len(s.summaries) {
		end = len(s.summaries)
	}
	result := make([]*model.SessionSummary, end-offset)
	copy(result, s.summaries[offset:end])
	return result, nil
}

func (s *Storage) CountSessionSummaries(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.summaries), nil
}

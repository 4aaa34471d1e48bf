package storage

import (
	"context"

	"github.com/fakeout-io/fakeout/internal/model"
)

// Storage defines the interface for data persistence. Rooms are
// deliberately absent: live game state is owned by the in-memory
// registry and never persisted.
type Storage interface {
	// Question bank operations
	SaveQuestions(ctx context.Context, topic string, questions []model.Question) error
	GetQuestionsByTopic(ctx context.Context, topic string) ([]model.Question, error)
	Topics(ctx context.Context) ([]string, error)

	// Session history operations
	SaveSessionSummary(ctx context.Context, summary *model.SessionSummary) error
	GetSessionSummary(ctx context.Context, id string) (*model.SessionSummary, error)
	ListSessionSummaries(ctx context.Context, limit, offset int) ([]*model.SessionSummary, error)
	CountSessionSummaries(ctx context.Context) (int, error)
}

package questions

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/fakeout-io/fakeout/internal/dependencies/random"
	"github.com/fakeout-io/fakeout/internal/model"
	"github.com/fakeout-io/fakeout/internal/storage"
)

// Service is the question source: it owns the topic-keyed question
// bank and draws ordered question lists for new game sessions
type Service struct {
	storage storage.Storage
	random  random.Random
	logger  *slog.Logger
}

// New creates a new question service
func New(storage storage.Storage, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		random:  rnd,
		logger:  logger.With(slog.String("component", "questions")),
	}
}

// questionFile is the on-disk layout of a question bank file
type questionFile struct {
	Topics map[string][]model.Question `json:"topics"`
}

// LoadFromFile loads a JSON question bank into storage
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file questionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return err
	}

	total := 0
	for topic, qs := range file.Topics {
		for i := range qs {
			qs[i].Topic = topic
		}
		if err := s.storage.SaveQuestions(ctx, topic, qs); err != nil {
			return err
		}
		total += len(qs)
	}

	s.logger.Info("question bank loaded",
		slog.String("path", path),
		slog.Int("topics", len(file.Topics)),
		slog.Int("questions", total),
	)
	return nil
}

// LoadQuestions stores a topic's question set directly
func (s *Service) LoadQuestions(ctx context.Context, topic string, qs []model.Question) error {
	for i := range qs {
		qs[i].Topic = topic
	}
	return s.storage.SaveQuestions(ctx, topic, qs)
}

// Topics lists the known topics
func (s *Service) Topics(ctx context.Context) ([]string, error) {
	return s.storage.Topics(ctx)
}

// QuestionsForTopic draws up to n questions for a topic in random
// order. A topic with fewer than n questions yields all of them.
func (s *Service) QuestionsForTopic(ctx context.Context, topic string, n int) ([]model.Question, error) {
	bank, err := s.storage.GetQuestionsByTopic(ctx, topic)
	if err != nil {
		return nil, err
	}
	if len(bank) == 0 {
		return nil, model.ErrQuestionBankEmpty
	}

	s.random.Shuffle(len(bank), func(i, j int) {
		bank[i], bank[j] = bank[j], bank[i]
	})

	if n > 0 && n < len(bank) {
		bank = bank[:n]
	}
	return bank, nil
}

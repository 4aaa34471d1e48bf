package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/fakeout-io/fakeout/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.HistoryTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) sampleQuestions() []model.Question {
	return []model.Question{
		{ID: "q1", Topic: "geography", Text: "Capital of Italy?", Answer: "Rome"},
		{ID: "q2", Topic: "geography", Text: "Capital of Australia?", Answer: "Canberra"},
	}
}

func (s *StorageSuite) sampleSummary(id string) *model.SessionSummary {
	return &model.SessionSummary{
		ID:          id,
		RoomID:      model.RoomID("room-" + id),
		Rounds:      2,
		CompletedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Participants: []model.RankedParticipant{
			{ConnID: "p1", Identity: model.GuestIdentity(), DisplayName: "Alice", Score: 3, Rank: 1},
			{ConnID: "p2", Identity: model.RegisteredIdentity(42), DisplayName: "Bob", Score: 1, Rank: 2},
		},
	}
}

// Question bank tests

func (s *StorageSuite) TestSaveAndGetQuestions() {
	err := s.storage.SaveQuestions(s.ctx, "geography", s.sampleQuestions())
	s.Require().NoError(err)

	got, err := s.storage.GetQuestionsByTopic(s.ctx, "geography")
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("q1", got[0].ID)
	s.Equal("Rome", got[0].Answer)
}

func (s *StorageSuite) TestGetQuestionsUnknownTopic() {
	_, err := s.storage.GetQuestionsByTopic(s.ctx, "philosophy")
	s.ErrorIs(err, model.ErrTopicNotFound)
}

func (s *StorageSuite) TestSaveQuestionsUpdatesTopicIndex() {
	s.Require().NoError(s.storage.SaveQuestions(s.ctx, "science", s.sampleQuestions()))
	s.Require().NoError(s.storage.SaveQuestions(s.ctx, "geography", s.sampleQuestions()))

	topics, err := s.storage.Topics(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"geography", "science"}, topics)
}

func (s *StorageSuite) TestSaveQuestionsOverwritesTopic() {
	s.Require().NoError(s.storage.SaveQuestions(s.ctx, "geography", s.sampleQuestions()))
	s.Require().NoError(s.storage.SaveQuestions(s.ctx, "geography", s.sampleQuestions()[:1]))

	got, err := s.storage.GetQuestionsByTopic(s.ctx, "geography")
	s.Require().NoError(err)
	s.Len(got, 1)
}

// Session history tests

func (s *StorageSuite) TestSaveAndListSummaries() {
	s.Require().NoError(s.storage.SaveSessionSummary(s.ctx, s.sampleSummary("s1")))
	s.Require().NoError(s.storage.SaveSessionSummary(s.ctx, s.sampleSummary("s2")))

	got, err := s.storage.ListSessionSummaries(s.ctx, 10, 0)
	s.Require().NoError(err)
	s.Require().Len(got, 2)

	// Newest first
	s.Equal("s2", got[0].ID)
	s.Equal("s1", got[1].ID)

	s.Require().Len(got[0].Participants, 2)
	s.True(got[0].Participants[0].Identity.IsGuest())
	s.Equal(int64(42), got[0].Participants[1].Identity.AccountID)
}

func (s *StorageSuite) TestListSummariesPagination() {
	for i := 0; i < 5; i++ {
		s.Require().NoError(s.storage.SaveSessionSummary(s.ctx, s.sampleSummary(fmt.Sprintf("s%d", i))))
	}

	page, err := s.storage.ListSessionSummaries(s.ctx, 2, 1)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal("s3", page[0].ID)
	s.Equal("s2", page[1].ID)
}

func (s *StorageSuite) TestHistoryTrimmedToMax() {
	cfg := s.storage.cfg
	cfg.HistoryMax = 3
	s.storage.cfg = cfg

	for i := 0; i < 5; i++ {
		s.Require().NoError(s.storage.SaveSessionSummary(s.ctx, s.sampleSummary(fmt.Sprintf("s%d", i))))
	}

	count, err := s.storage.CountSessionSummaries(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, count)

	got, err := s.storage.ListSessionSummaries(s.ctx, 10, 0)
	s.Require().NoError(err)
	s.Equal("s4", got[0].ID)
}

func (s *StorageSuite) TestHistoryKeyHasTTL() {
	s.Require().NoError(s.storage.SaveSessionSummary(s.ctx, s.sampleSummary("s1")))

	ttl := s.mini.TTL(historyKey())
	s.Equal(time.Hour, ttl)
}

func (s *StorageSuite) TestGetSessionSummary() {
	s.Require().NoError(s.storage.SaveSessionSummary(s.ctx, s.sampleSummary("s1")))
	s.Require().NoError(s.storage.SaveSessionSummary(s.ctx, s.sampleSummary("s2")))

	got, err := s.storage.GetSessionSummary(s.ctx, "s1")
	s.Require().NoError(err)
	s.Equal("s1", got.ID)

	_, err = s.storage.GetSessionSummary(s.ctx, "missing")
	s.ErrorIs(err, model.ErrSummaryNotFound)
}

func (s *StorageSuite) TestCountSessionSummaries() {
	count, err := s.storage.CountSessionSummaries(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, count)

	s.Require().NoError(s.storage.SaveSessionSummary(s.ctx, s.sampleSummary("s1")))

	count, err = s.storage.CountSessionSummaries(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

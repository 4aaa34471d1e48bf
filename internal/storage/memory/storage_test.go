package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/fakeout-io/fakeout/internal/model"
)

type MemoryStorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestMemoryStorageSuite(t *testing.T) {
	suite.Run(t, new(MemoryStorageSuite))
}

func (s *MemoryStorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *MemoryStorageSuite) sampleQuestions() []model.Question {
	return []model.Question{
		{ID: "q1", Topic: "geography", Text: "Capital of Italy?", Answer: "Rome"},
		{ID: "q2", Topic: "geography", Text: "Capital of Australia?", Answer: "Canberra"},
	}
}

func (s *MemoryStorageSuite) sampleSummary(id string, completedAt time.Time) *model.SessionSummary {
	return &model.SessionSummary{
		ID:          id,
		RoomID:      model.RoomID("room-" + id),
		Rounds:      2,
		CompletedAt: completedAt,
		Participants: []model.RankedParticipant{
			{ConnID: "p1", DisplayName: "Alice", Score: 3, Rank: 1},
		},
	}
}

func (s *MemoryStorageSuite) TestSaveAndGetQuestions() {
	err := s.storage.SaveQuestions(s.ctx, "geography", s.sampleQuestions())
	s.Require().NoError(err)

	got, err := s.storage.GetQuestionsByTopic(s.ctx, "geography")
	s.Require().NoError(err)
	s.Len(got, 2)
	s.Equal("Rome", got[0].Answer)
}

func (s *MemoryStorageSuite) TestGetQuestionsUnknownTopic() {
	_, err := s.storage.GetQuestionsByTopic(s.ctx, "philosophy")
	s.ErrorIs(err, model.ErrTopicNotFound)
}

func (s *MemoryStorageSuite) TestGetQuestionsReturnsCopy() {
	s.Require().NoError(s.storage.SaveQuestions(s.ctx, "geography", s.sampleQuestions()))

	got, _ := s.storage.GetQuestionsByTopic(s.ctx, "geography")
	got[0].Answer = "mutated"

	again, _ := s.storage.GetQuestionsByTopic(s.ctx, "geography")
	s.Equal("Rome", again[0].Answer)
}

func (s *MemoryStorageSuite) TestTopicsAreSorted() {
	s.Require().NoError(s.storage.SaveQuestions(s.ctx, "science", s.sampleQuestions()))
	s.Require().NoError(s.storage.SaveQuestions(s.ctx, "geography", s.sampleQuestions()))

	topics, err := s.storage.Topics(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"geography", "science"}, topics)
}

func (s *MemoryStorageSuite) TestSummariesNewestFirst() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		summary := s.sampleSummary(fmt.Sprintf("s%d", i), base.Add(time.Duration(i)*time.Hour))
		s.Require().NoError(s.storage.SaveSessionSummary(s.ctx, summary))
	}

	got, err := s.storage.ListSessionSummaries(s.ctx, 10, 0)
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Equal("s2", got[0].ID)
	s.Equal("s0", got[2].ID)
}

func (s *MemoryStorageSuite) TestSummariesPagination() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s.Require().NoError(s.storage.SaveSessionSummary(s.ctx, s.sampleSummary(fmt.Sprintf("s%d", i), base)))
	}

	page, err := s.storage.ListSessionSummaries(s.ctx, 2, 1)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal("s3", page[0].ID)
	s.Equal("s2", page[1].ID)

	past, err := s.storage.ListSessionSummaries(s.ctx, 10, 99)
	s.Require().NoError(err)
	s.Empty(past)
}

func (s *MemoryStorageSuite) TestGetSessionSummary() {
	s.Require().NoError(s.storage.SaveSessionSummary(s.ctx, s.sampleSummary("s1", time.Now())))

	got, err := s.storage.GetSessionSummary(s.ctx, "s1")
	s.Require().NoError(err)
	s.Equal("s1", got.ID)

	_, err = s.storage.GetSessionSummary(s.ctx, "missing")
	s.ErrorIs(err, model.ErrSummaryNotFound)
}

func (s *MemoryStorageSuite) TestCountSessionSummaries() {
	count, err := s.storage.CountSessionSummaries(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, count)

	s.Require().NoError(s.storage.SaveSessionSummary(s.ctx, s.sampleSummary("s1", time.Now())))

	count, err = s.storage.CountSessionSummaries(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

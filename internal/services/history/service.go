package history

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/fakeout-io/fakeout/internal/dependencies/clock"
	"github.com/fakeout-io/fakeout/internal/model"
	"github.com/fakeout-io/fakeout/internal/storage"
)

// Service records finished game sessions and serves paginated reads
// of past games
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new history service
func New(storage storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clk,
		logger:  logger.With(slog.String("component", "history")),
	}
}

// Rank orders players by descending score and assigns ranks. The sort
// is stable, so ties keep the players' join order.
func Rank(players []*model.Player) []model.RankedParticipant {
	ordered := make([]*model.Player, len(players))
	copy(ordered, players)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	participants := make([]model.RankedParticipant, len(ordered))
	for i, p := range ordered {
		participants[i] = model.RankedParticipant{
			ConnID:      p.ConnID,
			Identity:    p.Identity,
			DisplayName: p.DisplayName,
			Score:       p.Score,
			Rank:        i + 1,
		}
	}
	return participants
}

// Record persists a finished session's summary
func (s *Service) Record(ctx context.Context, roomID model.RoomID, rounds int, participants []model.RankedParticipant) (*model.SessionSummary, error) {
	summary := &model.SessionSummary{
		ID:           uuid.NewString(),
		RoomID:       roomID,
		Rounds:       rounds,
		Participants: participants,
		CompletedAt:  s.clock.Now(),
	}

	if err := s.storage.SaveSessionSummary(ctx, summary); err != nil {
		s.logger.Error("failed to save session summary",
			slog.String("room_id", string(roomID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("session recorded",
		slog.String("room_id", string(roomID)),
		slog.Int("rounds", rounds),
		slog.Int("participants", len(participants)),
	)

	return summary, nil
}

// Get returns a single session summary by id
func (s *Service) Get(ctx context.Context, id string) (*model.SessionSummary, error) {
	return s.storage.GetSessionSummary(ctx, id)
}

// List returns a page of session summaries, newest first
func (s *Service) List(ctx context.Context, limit, offset int) ([]*model.SessionSummary, error) {
	return s.storage.ListSessionSummaries(ctx, limit, offset)
}

// Count returns the total number of recorded sessions
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.storage.CountSessionSummaries(ctx)
}

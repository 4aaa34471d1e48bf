package response

import (
	"time"

	"github.com/fakeout-io/fakeout/internal/model"
)

// Player represents a room member in API responses
type Player struct {
	ConnID      string `json:"conn_id"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar,omitempty"`
	IsGuest     bool   `json:"is_guest"`
	Score       int    `json:"score"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ConnID:      string(p.ConnID),
		DisplayName: p.DisplayName,
		Avatar:      p.Avatar,
		IsGuest:     p.Identity.IsGuest(),
		Score:       p.Score,
	}
}

// Room is the pre-game room summary
type Room struct {
	ID             string   `json:"id"`
	Kind           string   `json:"kind"`
	Code           string   `json:"code,omitempty"`
	Phase          string   `json:"phase"`
	TotalQuestions int      `json:"total_questions"`
	Players        []Player `json:"players"`
}

// RoomFromModel converts a model.Room. The caller must hold the
// room's lock.
func RoomFromModel(r *model.Room) Room {
	players := make([]Player, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, PlayerFromModel(p))
	}
	return Room{
		ID:             string(r.ID),
		Kind:           string(r.Kind),
		Code:           r.Code,
		Phase:          string(r.Phase),
		TotalQuestions: r.TotalQuestions,
		Players:        players,
	}
}

// JoinResponse confirms membership and issues the connection id the
// client must present on subsequent game actions
type JoinResponse struct {
	ConnID string `json:"conn_id"`
	Room   Room   `json:"room"`
}

// SessionSummary represents a finished game in history responses
type SessionSummary struct {
	ID           string        `json:"id"`
	RoomID       string        `json:"room_id"`
	Rounds       int           `json:"rounds"`
	Participants []Participant `json:"participants"`
	CompletedAt  time.Time     `json:"completed_at"`
}

// Participant is one ranked player in a session summary
type Participant struct {
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
	AccountID   int64  `json:"account_id,omitempty"`
	Score       int    `json:"score"`
	Rank        int    `json:"rank"`
}

// SummaryFromModel converts a model.SessionSummary
func SummaryFromModel(s *model.SessionSummary) SessionSummary {
	participants := make([]Participant, 0, len(s.Participants))
	for _, p := range s.Participants {
		participants = append(participants, Participant{
			DisplayName: p.DisplayName,
			IsGuest:     p.Identity.IsGuest(),
			AccountID:   p.Identity.AccountID,
			Score:       p.Score,
			Rank:        p.Rank,
		})
	}
	return SessionSummary{
		ID:           s.ID,
		RoomID:       string(s.RoomID),
		Rounds:       s.Rounds,
		Participants: participants,
		CompletedAt:  s.CompletedAt,
	}
}

// HistoryPage is a paginated slice of session summaries
type HistoryPage struct {
	Total     int              `json:"total"`
	Limit     int              `json:"limit"`
	Offset    int              `json:"offset"`
	Summaries []SessionSummary `json:"summaries"`
}

// TopicsResponse lists the question-bank topics
type TopicsResponse struct {
	Topics []string `json:"topics"`
}

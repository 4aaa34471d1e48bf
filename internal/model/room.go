package model

import (
	"sync"
	"time"
)

// RoomID uniquely identifies a room
type RoomID string

// RoomKind distinguishes publicly listed rooms from code-joined ones
type RoomKind string

const (
	RoomKindPublic  RoomKind = "public"
	RoomKindPrivate RoomKind = "private"
)

// Phase represents the room's position in the game state machine
type Phase string

const (
	PhaseLobby             Phase = "lobby"              // Waiting for players to join
	PhaseCollectingAnswers Phase = "collecting_answers" // Players submitting fake answers
	PhaseChoosingAnswer    Phase = "choosing_answer"    // Players picking from the shuffled choices
	PhaseShowingRanking    Phase = "showing_ranking"    // Round scored, standings on display
	PhaseGameEnded         Phase = "game_ended"         // Terminal
)

// Room is one isolated live game instance. All mutation happens under
// the room's lock, held by the engine for the duration of each call.
type Room struct {
	mu sync.Mutex

	ID   RoomID
	Kind RoomKind
	Code string // 6 digits, private rooms only

	Phase          Phase
	TotalQuestions int
	Questions      []Question
	CurrentIndex   int

	// Players in join order
	Players []*Player

	// Round-scoped state, cleared at the start of every round
	FakeAnswers   map[ConnID]string
	ChosenAnswers map[ConnID]string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Lock acquires the room's mutation lock
func (r *Room) Lock() { r.mu.Lock() }

// Unlock releases the room's mutation lock
func (r *Room) Unlock() { r.mu.Unlock() }

// CurrentQuestion returns the question for the current round, or nil
// before the game has started
func (r *Room) CurrentQuestion() *Question {
	if r.CurrentIndex < 0 || r.CurrentIndex >= len(r.Questions) {
		return nil
	}
	return &r.Questions[r.CurrentIndex]
}

// GetPlayer returns the member with the given connection id, or nil
func (r *Room) GetPlayer(connID ConnID) *Player {
	for _, p := range r.Players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

// AllFakesSubmitted reports whether every current member has a fake
// answer on record. Count-based: thresholds are re-evaluated whenever
// membership changes mid-round.
func (r *Room) AllFakesSubmitted() bool {
	return len(r.Players) > 0 && len(r.FakeAnswers) >= len(r.Players)
}

// AllChoicesSubmitted reports whether every current member has chosen
func (r *Room) AllChoicesSubmitted() bool {
	return len(r.Players) > 0 && len(r.ChosenAnswers) >= len(r.Players)
}

// OnFinalQuestion reports whether the current round is the last one
func (r *Room) OnFinalQuestion() bool {
	last := r.TotalQuestions
	if len(r.Questions) < last {
		last = len(r.Questions)
	}
	return r.CurrentIndex >= last-1
}

// ResetRound clears both round-scoped answer maps
func (r *Room) ResetRound() {
	r.FakeAnswers = make(map[ConnID]string)
	r.ChosenAnswers = make(map[ConnID]string)
}

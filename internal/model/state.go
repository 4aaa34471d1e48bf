package model

import "time"

// QuestionView is the client-facing projection of the current question.
// The correct answer is included only once the round has been scored.
type QuestionView struct {
	ID     string `json:"id"`
	Topic  string `json:"topic"`
	Text   string `json:"text"`
	Answer string `json:"answer,omitempty"`
}

// PlayerStanding is one member's entry in a game-state snapshot
type PlayerStanding struct {
	ConnID      ConnID `json:"conn_id"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar,omitempty"`
	IsGuest     bool   `json:"is_guest"`
	Score       int    `json:"score"`
}

// GameState is the canonical "what should the client render" payload,
// regenerated on demand for every broadcast
type GameState struct {
	RoomID         RoomID           `json:"room_id"`
	Kind           RoomKind         `json:"kind"`
	Code           string           `json:"code,omitempty"`
	Phase          Phase            `json:"phase"`
	QuestionIndex  int              `json:"question_index"`
	TotalQuestions int              `json:"total_questions"`
	Question       *QuestionView    `json:"question,omitempty"`
	FinalRound     bool             `json:"final_round"`
	Players        []PlayerStanding `json:"players"`

	// AnswerChoices is populated only during the choosing phase
	AnswerChoices []string `json:"answer_choices"`
}

// RankedParticipant is one player's final placement in a finished session
type RankedParticipant struct {
	ConnID      ConnID   `json:"conn_id"`
	Identity    Identity `json:"identity"`
	DisplayName string   `json:"display_name"`
	Score       int      `json:"score"`
	Rank        int      `json:"rank"`
}

// SessionSummary is the end-of-game record handed to persistence
type SessionSummary struct {
	ID           string              `json:"id"`
	RoomID       RoomID              `json:"room_id"`
	Rounds       int                 `json:"rounds"`
	Participants []RankedParticipant `json:"participants"`
	CompletedAt  time.Time           `json:"completed_at"`
}

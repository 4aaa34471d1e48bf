package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound   = errors.New("room not found")
	ErrGameInProgress = errors.New("game has already started")
	ErrNotInRoom      = errors.New("player is not in room")
	ErrAlreadyInRoom  = errors.New("player is already in room")
	ErrNoPlayers      = errors.New("room has no players")

	// Returned when private-room code generation keeps colliding; only
	// reachable when the random source has degraded
	ErrJoinCodeExhausted = errors.New("could not allocate a unique join code")

	// Game errors
	ErrWrongPhase           = errors.New("operation not valid in current phase")
	ErrFakeMatchesAnswer    = errors.New("fake answer matches the correct answer")
	ErrNoQuestions          = errors.New("question list is empty")
	ErrGameEnded            = errors.New("game has ended")
	ErrInvalidRoomKind      = errors.New("invalid room kind")
	ErrInvalidQuestionCount = errors.New("invalid question count")

	// Question bank errors
	ErrTopicNotFound     = errors.New("topic not found")
	ErrQuestionBankEmpty = errors.New("question bank is empty")

	// History errors
	ErrSummaryNotFound = errors.New("session summary not found")
)

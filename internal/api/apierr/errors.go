package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fakeout-io/fakeout/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeRoomNotFound         = "ROOM_NOT_FOUND"
	CodeTopicNotFound        = "TOPIC_NOT_FOUND"
	CodeGameInProgress       = "GAME_IN_PROGRESS"
	CodeNotInRoom            = "NOT_IN_ROOM"
	CodeAlreadyInRoom        = "ALREADY_IN_ROOM"
	CodeWrongPhase           = "WRONG_PHASE"
	CodeGameEnded            = "GAME_ENDED"
	CodeFakeMatchesAnswer    = "FAKE_MATCHES_ANSWER"
	CodeNoQuestions          = "NO_QUESTIONS"
	CodeNoPlayers            = "NO_PLAYERS"
	CodeInvalidRoomKind      = "INVALID_ROOM_KIND"
	CodeInvalidQuestionCount = "INVALID_QUESTION_COUNT"
	CodeSummaryNotFound      = "SUMMARY_NOT_FOUND"
	CodeJoinCodeExhausted    = "JOIN_CODE_EXHAUSTED"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrTopicNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeTopicNotFound, "Topic not found"}}
	case errors.Is(err, model.ErrQuestionBankEmpty):
		return &httpError{http.StatusNotFound, APIError{CodeTopicNotFound, "No questions for this topic"}}
	case errors.Is(err, model.ErrGameInProgress):
		return &httpError{http.StatusConflict, APIError{CodeGameInProgress, "Game has already started"}}
	case errors.Is(err, model.ErrNotInRoom):
		return &httpError{http.StatusNotFound, APIError{CodeNotInRoom, "Not a member of this room"}}
	case errors.Is(err, model.ErrAlreadyInRoom):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInRoom, "Already in this room"}}
	case errors.Is(err, model.ErrWrongPhase):
		return &httpError{http.StatusConflict, APIError{CodeWrongPhase, "Operation not valid in the current phase"}}
	case errors.Is(err, model.ErrGameEnded):
		return &httpError{http.StatusConflict, APIError{CodeGameEnded, "Game has ended"}}
	case errors.Is(err, model.ErrSummaryNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSummaryNotFound, "Session summary not found"}}
	case errors.Is(err, model.ErrFakeMatchesAnswer):
		return &httpError{http.StatusBadRequest, APIError{CodeFakeMatchesAnswer, "Fake answer matches the correct answer"}}
	case errors.Is(err, model.ErrNoQuestions):
		return &httpError{http.StatusBadRequest, APIError{CodeNoQuestions, "Question list is empty"}}
	case errors.Is(err, model.ErrNoPlayers):
		return &httpError{http.StatusConflict, APIError{CodeNoPlayers, "Room has no players"}}
	case errors.Is(err, model.ErrInvalidRoomKind):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRoomKind, "Room kind must be public or private"}}
	case errors.Is(err, model.ErrInvalidQuestionCount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidQuestionCount, "Question count must be at least 1"}}
	case errors.Is(err, model.ErrJoinCodeExhausted):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeJoinCodeExhausted, "Could not allocate a join code"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Player identity required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

package request

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	Kind           string `json:"kind"`
	TotalQuestions int    `json:"total_questions"`
}

// JoinRoomRequest is the request body for joining a room
type JoinRoomRequest struct {
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar,omitempty"`

	// AccountID links the player to a registered account; omitted or
	// zero means guest
	AccountID int64 `json:"account_id,omitempty"`
}

// StartGameRequest is the request body for starting a game
type StartGameRequest struct {
	Topic string `json:"topic"`
}

// SubmitFakeRequest is the request body for submitting a fake answer
type SubmitFakeRequest struct {
	Text string `json:"text"`
}

// SubmitChoiceRequest is the request body for choosing an answer
type SubmitChoiceRequest struct {
	Answer string `json:"answer"`
}

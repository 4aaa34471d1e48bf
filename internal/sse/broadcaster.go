package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/fakeout-io/fakeout/internal/model"
)

// Event names pushed to room members. Clients drive their rendering
// off these plus the embedded game-state payload.
const (
	EventRoomUpdate      = "room-update"
	EventGameStarted     = "game-started"
	EventFakeSubmitted   = "fake-submitted"
	EventChoicesReady    = "choices-ready"
	EventChoiceSubmitted = "choice-submitted"
	EventRoundScored     = "round-scored"
	EventNextRound       = "next-round"
	EventGameEnded       = "game-ended"
)

// Broadcaster pushes game-state snapshots to a room's SSE clients
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// BroadcastState sends a named event carrying the full game-state
// snapshot to every client in the room
func (b *Broadcaster) BroadcastState(event string, state *model.GameState) {
	hub := b.hubManager.GetHub(state.RoomID)
	if hub == nil {
		return
	}

	data, err := json.Marshal(state)
	if err != nil {
		b.logger.Error("sse failed to marshal game state",
			slog.String("room_id", string(state.RoomID)),
			slog.Any("error", err))
		return
	}

	hub.BroadcastEvent(event, string(data))
}

// progressPayload is the lightweight payload for mid-collection events
type progressPayload struct {
	Submitted int `json:"submitted"`
	Total     int `json:"total"`
}

// BroadcastProgress sends a submitted/total counter without the full
// snapshot, used while a collection phase is still underway
func (b *Broadcaster) BroadcastProgress(event string, roomID model.RoomID, submitted, total int) {
	hub := b.hubManager.GetHub(roomID)
	if hub == nil {
		return
	}

	data, _ := json.Marshal(progressPayload{Submitted: submitted, Total: total})
	hub.BroadcastEvent(event, string(data))
}

// BroadcastGameEnded signals the end of the session with its final state
func (b *Broadcaster) BroadcastGameEnded(state *model.GameState) {
	b.BroadcastState(EventGameEnded, state)
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fakeout-io/fakeout/internal/api/apierr"
	"github.com/fakeout-io/fakeout/internal/api/middleware"
	"github.com/fakeout-io/fakeout/internal/api/request"
	"github.com/fakeout-io/fakeout/internal/api/response"
	"github.com/fakeout-io/fakeout/internal/model"
	"github.com/fakeout-io/fakeout/internal/registry"
	"github.com/fakeout-io/fakeout/internal/services/engine"
	"github.com/fakeout-io/fakeout/internal/services/questions"
	"github.com/fakeout-io/fakeout/internal/sse"
)

// GameHandler handles in-game endpoints
type GameHandler struct {
	registry    *registry.Registry
	engine      *engine.Engine
	questions   *questions.Service
	broadcaster *sse.Broadcaster
	hubManager  *sse.HubManager
}

// NewGameHandler creates a new game handler
func NewGameHandler(reg *registry.Registry, eng *engine.Engine, qs *questions.Service, hubManager *sse.HubManager, broadcaster *sse.Broadcaster) *GameHandler {
	return &GameHandler{
		registry:    reg,
		engine:      eng,
		questions:   qs,
		broadcaster: broadcaster,
		hubManager:  hubManager,
	}
}

// Start handles POST /api/v1/rooms/{id}/start. It draws the room's
// question list from the bank for the requested topic and kicks off
// the first round.
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["id"])
	connID := middleware.MustGetConnID(r.Context())

	var req request.StartGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Topic == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("topic is required"))
		return
	}

	room, err := h.registry.GetRoom(roomID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	room.Lock()
	if room.GetPlayer(connID) == nil {
		room.Unlock()
		apierr.WriteError(w, model.ErrNotInRoom)
		return
	}
	total := room.TotalQuestions
	room.Unlock()

	qs, err := h.questions.QuestionsForTopic(r.Context(), req.Topic, total)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.engine.Start(r.Context(), roomID, qs); err != nil {
		apierr.WriteError(w, err)
		return
	}

	state, err := h.engine.Snapshot(r.Context(), roomID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	h.broadcaster.BroadcastState(sse.EventGameStarted, state)
	response.JSON(w, http.StatusOK, state)
}

// Fake handles POST /api/v1/rooms/{id}/fake
func (h *GameHandler) Fake(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["id"])
	connID := middleware.MustGetConnID(r.Context())

	var req request.SubmitFakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Text == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("text is required"))
		return
	}

	if err := h.engine.SubmitFake(r.Context(), roomID, connID, req.Text); err != nil {
		apierr.WriteError(w, err)
		return
	}

	progress, err := h.engine.Progress(r.Context(), roomID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	// Crossing the threshold moved the room into the choosing phase;
	// that snapshot carries the shuffled answer list
	if progress.Phase == model.PhaseChoosingAnswer {
		h.broadcastState(r, roomID, sse.EventChoicesReady)
	} else {
		h.broadcaster.BroadcastProgress(sse.EventFakeSubmitted, roomID, progress.FakesSubmitted, progress.Members)
	}

	response.NoContent(w)
}

// Choose handles POST /api/v1/rooms/{id}/choose
func (h *GameHandler) Choose(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["id"])
	connID := middleware.MustGetConnID(r.Context())

	var req request.SubmitChoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Answer == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("answer is required"))
		return
	}

	if err := h.engine.SubmitChoice(r.Context(), roomID, connID, req.Answer); err != nil {
		apierr.WriteError(w, err)
		return
	}

	progress, err := h.engine.Progress(r.Context(), roomID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if progress.Phase == model.PhaseShowingRanking {
		h.broadcastState(r, roomID, sse.EventRoundScored)
	} else {
		h.broadcaster.BroadcastProgress(sse.EventChoiceSubmitted, roomID, progress.ChoicesSubmitted, progress.Members)
	}

	response.NoContent(w)
}

// Advance handles POST /api/v1/rooms/{id}/advance
func (h *GameHandler) Advance(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["id"])
	connID := middleware.MustGetConnID(r.Context())

	room, err := h.registry.GetRoom(roomID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	room.Lock()
	member := room.GetPlayer(connID) != nil
	room.Unlock()
	if !member {
		apierr.WriteError(w, model.ErrNotInRoom)
		return
	}

	nextRound, err := h.engine.Advance(r.Context(), roomID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	state, err := h.engine.Snapshot(r.Context(), roomID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if nextRound {
		h.broadcaster.BroadcastState(sse.EventNextRound, state)
	} else {
		h.broadcaster.BroadcastGameEnded(state)
	}

	response.JSON(w, http.StatusOK, state)
}

// State handles GET /api/v1/rooms/{id}/state
func (h *GameHandler) State(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["id"])

	state, err := h.engine.Snapshot(r.Context(), roomID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, state)
}

// Events handles GET /api/v1/rooms/{id}/events, the SSE stream
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["id"])
	connID := middleware.MustGetConnID(r.Context())

	if _, err := h.registry.GetRoom(roomID); err != nil {
		apierr.WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(roomID)
	sse.ServeSSE(w, r, hub, connID)
}

func (h *GameHandler) broadcastState(r *http.Request, roomID model.RoomID, event string) {
	state, err := h.engine.Snapshot(r.Context(), roomID)
	if err != nil {
		return
	}
	h.broadcaster.BroadcastState(event, state)
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/fakeout-io/fakeout/internal/api/apierr"
	"github.com/fakeout-io/fakeout/internal/api/middleware"
	"github.com/fakeout-io/fakeout/internal/api/request"
	"github.com/fakeout-io/fakeout/internal/api/response"
	"github.com/fakeout-io/fakeout/internal/model"
	"github.com/fakeout-io/fakeout/internal/registry"
	"github.com/fakeout-io/fakeout/internal/services/engine"
	"github.com/fakeout-io/fakeout/internal/sse"
)

// RoomHandler handles pre-game room endpoints
type RoomHandler struct {
	registry    *registry.Registry
	engine      *engine.Engine
	broadcaster *sse.Broadcaster
	hubManager  *sse.HubManager
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(reg *registry.Registry, eng *engine.Engine, hubManager *sse.HubManager, broadcaster *sse.Broadcaster) *RoomHandler {
	return &RoomHandler{
		registry:    reg,
		engine:      eng,
		broadcaster: broadcaster,
		hubManager:  hubManager,
	}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	room, err := h.registry.CreateRoom(model.RoomKind(req.Kind), req.TotalQuestions)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	room.Lock()
	resp := response.RoomFromModel(room)
	room.Unlock()

	response.JSON(w, http.StatusCreated, resp)
}

// Get handles GET /api/v1/rooms/{id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["id"])

	room, err := h.registry.GetRoom(roomID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	room.Lock()
	resp := response.RoomFromModel(room)
	room.Unlock()

	response.JSON(w, http.StatusOK, resp)
}

// GetByCode handles GET /api/v1/rooms/code/{code}. Code lookup is
// speculative but a miss still renders as a not-found to the client.
func (h *RoomHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	room, ok := h.registry.GetRoomByCode(code)
	if !ok {
		apierr.WriteError(w, model.ErrRoomNotFound)
		return
	}

	room.Lock()
	resp := response.RoomFromModel(room)
	room.Unlock()

	response.JSON(w, http.StatusOK, resp)
}

// Join handles POST /api/v1/rooms/{id}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["id"])

	var req request.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.DisplayName == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("display_name is required"))
		return
	}

	identity := model.GuestIdentity()
	if req.AccountID > 0 {
		identity = model.RegisteredIdentity(req.AccountID)
	}

	player := &model.Player{
		ConnID:      model.ConnID(uuid.NewString()),
		Identity:    identity,
		DisplayName: req.DisplayName,
		Avatar:      req.Avatar,
	}

	if err := h.engine.Join(r.Context(), roomID, player); err != nil {
		apierr.WriteError(w, err)
		return
	}

	room, err := h.registry.GetRoom(roomID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	room.Lock()
	resp := response.JoinResponse{
		ConnID: string(player.ConnID),
		Room:   response.RoomFromModel(room),
	}
	room.Unlock()

	h.broadcastState(r, roomID, sse.EventRoomUpdate)

	response.JSON(w, http.StatusOK, resp)
}

// Leave handles POST /api/v1/rooms/{id}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["id"])
	connID := middleware.MustGetConnID(r.Context())

	if err := h.engine.Leave(r.Context(), roomID, connID); err != nil {
		apierr.WriteError(w, err)
		return
	}

	// The departure may have emptied the room and removed it
	if _, err := h.registry.GetRoom(roomID); err != nil {
		h.hubManager.RemoveHub(roomID)
	} else {
		h.broadcastState(r, roomID, sse.EventRoomUpdate)
	}

	response.NoContent(w)
}

// broadcastState pushes a fresh snapshot to the room's SSE clients
func (h *RoomHandler) broadcastState(r *http.Request, roomID model.RoomID, event string) {
	state, err := h.engine.Snapshot(r.Context(), roomID)
	if err != nil {
		return
	}
	h.broadcaster.BroadcastState(event, state)
}

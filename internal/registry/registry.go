package registry

import (
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fakeout-io/fakeout/internal/dependencies/clock"
	"github.com/fakeout-io/fakeout/internal/dependencies/random"
	"github.com/fakeout-io/fakeout/internal/model"
)

const (
	// Join codes are 6-digit numbers drawn uniformly from [100000, 999999]
	joinCodeMin  = 100000
	joinCodeSpan = 900000

	// Collision retries before giving up; a healthy RNG over 900k codes
	// never comes close, so hitting the bound means the RNG is degraded
	joinCodeMaxAttempts = 100
)

// Registry is the single source of truth for which rooms currently
// exist. It is purely in-memory: rooms vanish on process restart.
type Registry struct {
	mu    sync.RWMutex
	rooms map[model.RoomID]*model.Room
	codes map[string]model.RoomID // join code -> room, private rooms only

	clock  clock.Clock
	random random.Random
	logger *slog.Logger
}

// New creates an empty Registry
func New(clk clock.Clock, rnd random.Random, logger *slog.Logger) *Registry {
	return &Registry{
		rooms:  make(map[model.RoomID]*model.Room),
		codes:  make(map[string]model.RoomID),
		clock:  clk,
		random: rnd,
		logger: logger.With(slog.String("component", "registry")),
	}
}

// CreateRoom allocates a new room in the lobby phase. Private rooms
// get a join code, regenerated until it does not collide with a live
// room's code.
func (g *Registry) CreateRoom(kind model.RoomKind, totalQuestions int) (*model.Room, error) {
	if kind != model.RoomKindPublic && kind != model.RoomKindPrivate {
		return nil, model.ErrInvalidRoomKind
	}
	if totalQuestions < 1 {
		return nil, model.ErrInvalidQuestionCount
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	room := &model.Room{
		ID:             model.RoomID(uuid.NewString()),
		Kind:           kind,
		Phase:          model.PhaseLobby,
		TotalQuestions: totalQuestions,
		CurrentIndex:   0,
		FakeAnswers:    make(map[model.ConnID]string),
		ChosenAnswers:  make(map[model.ConnID]string),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if kind == model.RoomKindPrivate {
		for attempt := 0; ; attempt++ {
			if attempt == joinCodeMaxAttempts {
				return nil, model.ErrJoinCodeExhausted
			}
			code := strconv.Itoa(joinCodeMin + g.random.Intn(joinCodeSpan))
			if _, taken := g.codes[code]; !taken {
				room.Code = code
				g.codes[code] = room.ID
				break
			}
		}
	}

	g.rooms[room.ID] = room

	g.logger.Info("room created",
		slog.String("room_id", string(room.ID)),
		slog.String("kind", string(kind)),
		slog.Int("total_questions", totalQuestions),
	)

	return room, nil
}

// GetRoom returns the room with the given id
func (g *Registry) GetRoom(id model.RoomID) (*model.Room, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return room, nil
}

// GetRoomByCode looks up a room by join code. Code lookup is
// speculative, so a miss is reported as ok=false rather than an error.
func (g *Registry) GetRoomByCode(code string) (*model.Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	id, ok := g.codes[code]
	if !ok {
		return nil, false
	}
	room, ok := g.rooms[id]
	return room, ok
}

// RemoveRoom deletes a room and releases its join code
func (g *Registry) RemoveRoom(id model.RoomID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeLocked(id)
}

func (g *Registry) removeLocked(id model.RoomID) {
	room, ok := g.rooms[id]
	if !ok {
		return
	}
	if room.Code != "" {
		delete(g.codes, room.Code)
	}
	delete(g.rooms, id)
}

// RoomCount returns the number of live rooms
func (g *Registry) RoomCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// Reap removes ended rooms and rooms idle past maxIdle, returning the
// removed ids so callers can tear down the matching fan-out channels.
// Room locks are never taken while the registry lock is held, so a
// concurrent engine operation on any room cannot wedge the sweep.
func (g *Registry) Reap(maxIdle time.Duration) []model.RoomID {
	g.mu.RLock()
	candidates := make([]*model.Room, 0, len(g.rooms))
	for _, room := range g.rooms {
		candidates = append(candidates, room)
	}
	g.mu.RUnlock()

	now := g.clock.Now()
	var dead []model.RoomID
	for _, room := range candidates {
		room.Lock()
		if room.Phase == model.PhaseGameEnded || now.Sub(room.UpdatedAt) > maxIdle {
			dead = append(dead, room.ID)
		}
		room.Unlock()
	}
	if len(dead) == 0 {
		return nil
	}

	g.mu.Lock()
	removed := make([]model.RoomID, 0, len(dead))
	for _, id := range dead {
		// Skip rooms already removed since the sweep started
		if _, ok := g.rooms[id]; ok {
			g.removeLocked(id)
			removed = append(removed, id)
		}
	}
	g.mu.Unlock()

	if len(removed) > 0 {
		g.logger.Info("rooms reaped", slog.Int("removed", len(removed)))
	}
	return removed
}

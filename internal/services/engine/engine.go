package engine

import (
	"context"
	"log/slog"
	"sort"

	"github.com/fakeout-io/fakeout/internal/dependencies/clock"
	"github.com/fakeout-io/fakeout/internal/dependencies/random"
	"github.com/fakeout-io/fakeout/internal/model"
	"github.com/fakeout-io/fakeout/internal/registry"
	"github.com/fakeout-io/fakeout/internal/services/history"
)

// Points awarded by scoreRound. A correct guess is worth twice a
// successful deception; this 2/1 scale is the single source of truth
// for session scoring.
const (
	CorrectAnswerPoints = 2
	DeceptionPoints     = 1
)

// Engine owns the game rules: join admission, the phase state
// machine, answer collection, scoring and round advancement. Every
// operation locks the target room for its full duration, so player
// actions on the same room are serialized.
type Engine struct {
	registry *registry.Registry
	history  *history.Service
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
}

// New creates a new game engine
func New(reg *registry.Registry, hist *history.Service, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Engine {
	return &Engine{
		registry: reg,
		history:  hist,
		clock:    clk,
		random:   rnd,
		logger:   logger.With(slog.String("component", "engine")),
	}
}

// Join admits a player into a room's membership. Joining is only
// permitted while the room is still in the lobby phase.
func (e *Engine) Join(ctx context.Context, roomID model.RoomID, player *model.Player) error {
	room, err := e.registry.GetRoom(roomID)
	if err != nil {
		return err
	}

	room.Lock()
	defer room.Unlock()

	if room.Phase != model.PhaseLobby {
		return model.ErrGameInProgress
	}
	if room.GetPlayer(player.ConnID) != nil {
		return model.ErrAlreadyInRoom
	}

	player.Score = 0
	player.JoinedAt = e.clock.Now()
	room.Players = append(room.Players, player)
	room.UpdatedAt = player.JoinedAt

	e.logger.Info("player joined",
		slog.String("room_id", string(roomID)),
		slog.String("conn_id", string(player.ConnID)),
		slog.Int("member_count", len(room.Players)),
	)
	return nil
}

// Leave removes a player from a room. Any fake or chosen answer the
// player had on record for the current round is purged, and the
// completion thresholds are re-evaluated against the shrunken
// membership, which can itself advance the phase. An emptied room is
// dropped from the registry.
func (e *Engine) Leave(ctx context.Context, roomID model.RoomID, connID model.ConnID) error {
	room, err := e.registry.GetRoom(roomID)
	if err != nil {
		return err
	}

	room.Lock()

	idx := -1
	for i, p := range room.Players {
		if p.ConnID == connID {
			idx = i
			break
		}
	}
	if idx == -1 {
		room.Unlock()
		return model.ErrNotInRoom
	}

	room.Players = append(room.Players[:idx], room.Players[idx+1:]...)
	delete(room.FakeAnswers, connID)
	delete(room.ChosenAnswers, connID)
	room.UpdatedAt = e.clock.Now()
	empty := len(room.Players) == 0

	e.logger.Info("player left",
		slog.String("room_id", string(roomID)),
		slog.String("conn_id", string(connID)),
		slog.Int("member_count", len(room.Players)),
	)

	if !empty {
		// A departure can be the event that completes the round
		e.checkRoundProgress(ctx, room)
	}

	// The registry lock must never be taken while a room lock is held
	room.Unlock()

	if empty {
		e.registry.RemoveRoom(roomID)
	}
	return nil
}

// Start begins the game with the given question list. The list must
// be non-empty and the room must still be in the lobby phase.
func (e *Engine) Start(ctx context.Context, roomID model.RoomID, qs []model.Question) error {
	room, err := e.registry.GetRoom(roomID)
	if err != nil {
		return err
	}

	room.Lock()
	defer room.Unlock()

	if room.Phase != model.PhaseLobby {
		return model.ErrGameInProgress
	}
	if len(qs) == 0 {
		return model.ErrNoQuestions
	}
	if len(room.Players) == 0 {
		return model.ErrNoPlayers
	}

	room.Questions = qs
	room.CurrentIndex = 0
	room.ResetRound()
	room.Phase = model.PhaseCollectingAnswers
	room.UpdatedAt = e.clock.Now()

	e.logger.Info("game started",
		slog.String("room_id", string(roomID)),
		slog.Int("questions", len(qs)),
		slog.Int("member_count", len(room.Players)),
	)
	return nil
}

// SubmitFake records a player's decoy answer for the current round.
// A fake that matches the correct answer exactly is rejected before
// any state changes. Resubmission overwrites: last write wins. Once
// every member has a fake on record the room moves to the choosing
// phase.
func (e *Engine) SubmitFake(ctx context.Context, roomID model.RoomID, connID model.ConnID, fakeText string) error {
	room, err := e.registry.GetRoom(roomID)
	if err != nil {
		return err
	}

	room.Lock()
	defer room.Unlock()

	if room.Phase == model.PhaseGameEnded {
		return model.ErrGameEnded
	}
	if room.Phase != model.PhaseCollectingAnswers {
		return model.ErrWrongPhase
	}
	if room.GetPlayer(connID) == nil {
		return model.ErrNotInRoom
	}

	question := room.CurrentQuestion()
	if question == nil {
		return model.ErrNoQuestions
	}
	if fakeText == question.Answer {
		return model.ErrFakeMatchesAnswer
	}

	room.FakeAnswers[connID] = fakeText
	room.UpdatedAt = e.clock.Now()

	e.checkRoundProgress(ctx, room)
	return nil
}

// SubmitChoice records a player's chosen answer. Only valid during
// the choosing phase. Once every member has chosen, the round is
// scored and the room moves to the ranking phase.
func (e *Engine) SubmitChoice(ctx context.Context, roomID model.RoomID, connID model.ConnID, answer string) error {
	room, err := e.registry.GetRoom(roomID)
	if err != nil {
		return err
	}

	room.Lock()
	defer room.Unlock()

	if room.Phase == model.PhaseGameEnded {
		return model.ErrGameEnded
	}
	if room.Phase != model.PhaseChoosingAnswer {
		return model.ErrWrongPhase
	}
	if room.GetPlayer(connID) == nil {
		return model.ErrNotInRoom
	}

	room.ChosenAnswers[connID] = answer
	room.UpdatedAt = e.clock.Now()

	e.checkRoundProgress(ctx, room)
	return nil
}

// checkRoundProgress applies the count-based phase transitions. Called
// with the room lock held after any mutation that could complete a
// collection threshold.
func (e *Engine) checkRoundProgress(ctx context.Context, room *model.Room) {
	switch room.Phase {
	case model.PhaseCollectingAnswers:
		if room.AllFakesSubmitted() {
			room.Phase = model.PhaseChoosingAnswer
		}
	case model.PhaseChoosingAnswer:
		if room.AllChoicesSubmitted() {
			e.scoreRound(room)
			room.Phase = model.PhaseShowingRanking
		}
	}
}

// scoreRound applies the round's points. Called exactly once per
// round, on the transition into the ranking phase.
func (e *Engine) scoreRound(room *model.Room) {
	question := room.CurrentQuestion()
	if question == nil {
		return
	}

	for _, p := range room.Players {
		chosen, ok := room.ChosenAnswers[p.ConnID]
		if ok && chosen == question.Answer {
			p.Score += CorrectAnswerPoints
		}
	}

	// Every member fooled by a fake earns its author a point; choosing
	// your own fake earns nothing
	for author, fakeText := range room.FakeAnswers {
		authorPlayer := room.GetPlayer(author)
		if authorPlayer == nil {
			continue
		}
		for _, p := range room.Players {
			if p.ConnID == author {
				continue
			}
			if chosen, ok := room.ChosenAnswers[p.ConnID]; ok && chosen == fakeText {
				authorPlayer.Score += DeceptionPoints
			}
		}
	}

	e.logger.Info("round scored",
		slog.String("room_id", string(room.ID)),
		slog.Int("question_index", room.CurrentIndex),
	)
}

// Advance moves the room to the next round, or ends the game when no
// questions remain. Returns true when another round begins. On game
// end the finished session is handed to the history collaborator
// after the in-memory transition is applied.
func (e *Engine) Advance(ctx context.Context, roomID model.RoomID) (bool, error) {
	room, err := e.registry.GetRoom(roomID)
	if err != nil {
		return false, err
	}

	room.Lock()
	defer room.Unlock()

	if room.Phase == model.PhaseGameEnded {
		return false, model.ErrGameEnded
	}
	if room.Phase == model.PhaseLobby {
		return false, model.ErrWrongPhase
	}

	room.CurrentIndex++
	room.UpdatedAt = e.clock.Now()

	if room.CurrentIndex < room.TotalQuestions && room.CurrentIndex < len(room.Questions) {
		room.ResetRound()
		room.Phase = model.PhaseCollectingAnswers
		return true, nil
	}

	rounds := room.CurrentIndex
	room.Phase = model.PhaseGameEnded

	participants := history.Rank(room.Players)
	if _, err := e.history.Record(ctx, room.ID, rounds, participants); err != nil {
		// The room's own state stays consistent; the summary is lost
		e.logger.Error("failed to record finished session",
			slog.String("room_id", string(room.ID)),
			slog.String("error", err.Error()),
		)
	}

	e.logger.Info("game ended",
		slog.String("room_id", string(room.ID)),
		slog.Int("rounds", rounds),
	)
	return false, nil
}

// RoundProgress reports how far the current round's collections have
// gotten, for lightweight progress broadcasts
type RoundProgress struct {
	Phase            model.Phase
	FakesSubmitted   int
	ChoicesSubmitted int
	Members          int
}

// Progress returns the current round's submission counts
func (e *Engine) Progress(ctx context.Context, roomID model.RoomID) (RoundProgress, error) {
	room, err := e.registry.GetRoom(roomID)
	if err != nil {
		return RoundProgress{}, err
	}

	room.Lock()
	defer room.Unlock()

	return RoundProgress{
		Phase:            room.Phase,
		FakesSubmitted:   len(room.FakeAnswers),
		ChoicesSubmitted: len(room.ChosenAnswers),
		Members:          len(room.Players),
	}, nil
}

// buildAnswerChoices collects the round's fakes plus the correct
// answer and shuffles them. Duplicates are kept as-is. Called with
// the room lock held.
func (e *Engine) buildAnswerChoices(room *model.Room) []string {
	question := room.CurrentQuestion()
	if question == nil {
		return []string{}
	}

	// Collect fakes in a stable order before shuffling so the result
	// depends only on the RNG
	conns := make([]string, 0, len(room.FakeAnswers))
	for conn := range room.FakeAnswers {
		conns = append(conns, string(conn))
	}
	sort.Strings(conns)

	choices := make([]string, 0, len(conns)+1)
	for _, conn := range conns {
		choices = append(choices, room.FakeAnswers[model.ConnID(conn)])
	}
	choices = append(choices, question.Answer)

	e.random.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	return choices
}

// Snapshot assembles the read-only game-state projection broadcast to
// all room members. It is rebuilt on every call: answer choices are
// freshly shuffled each time they are requested, and the correct
// answer is revealed only once the round has been scored.
func (e *Engine) Snapshot(ctx context.Context, roomID model.RoomID) (*model.GameState, error) {
	room, err := e.registry.GetRoom(roomID)
	if err != nil {
		return nil, err
	}

	room.Lock()
	defer room.Unlock()

	state := &model.GameState{
		RoomID:         room.ID,
		Kind:           room.Kind,
		Code:           room.Code,
		Phase:          room.Phase,
		QuestionIndex:  room.CurrentIndex,
		TotalQuestions: room.TotalQuestions,
		FinalRound:     room.Phase != model.PhaseLobby && room.OnFinalQuestion(),
		Players:        make([]model.PlayerStanding, 0, len(room.Players)),
		AnswerChoices:  []string{},
	}

	for _, p := range room.Players {
		state.Players = append(state.Players, model.PlayerStanding{
			ConnID:      p.ConnID,
			DisplayName: p.DisplayName,
			Avatar:      p.Avatar,
			IsGuest:     p.Identity.IsGuest(),
			Score:       p.Score,
		})
	}

	if q := room.CurrentQuestion(); q != nil && room.Phase != model.PhaseLobby {
		view := &model.QuestionView{
			ID:    q.ID,
			Topic: q.Topic,
			Text:  q.Text,
		}
		if room.Phase == model.PhaseShowingRanking || room.Phase == model.PhaseGameEnded {
			view.Answer = q.Answer
		}
		state.Question = view
	}

	if room.Phase == model.PhaseChoosingAnswer {
		state.AnswerChoices = e.buildAnswerChoices(room)
	}

	return state, nil
}

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakeout-io/fakeout/internal/api"
	"github.com/fakeout-io/fakeout/internal/api/response"
	"github.com/fakeout-io/fakeout/internal/factory"
	"github.com/fakeout-io/fakeout/internal/model"
	"github.com/fakeout-io/fakeout/internal/storage/memory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	storage *memory.Storage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)
	err = app.Questions.LoadFromFile(context.Background(), "../../data/questions.json")
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		Registry:    app.Registry,
		Engine:      app.Engine,
		Questions:   app.Questions,
		History:     app.History,
		HubManager:  app.HubManager,
		Broadcaster: app.Broadcaster,
	})

	return &testServer{
		handler: router,
		storage: app.Storage.(*memory.Storage),
	}
}

func (ts *testServer) request(method, path string, body any, connID string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if connID != "" {
		req.Header.Set("X-Player-ID", connID)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) createRoom(t *testing.T, kind string, questions int) response.Room {
	t.Helper()
	body := map[string]any{"kind": kind, "total_questions": questions}
	rr := ts.request(http.MethodPost, "/api/v1/rooms", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var room response.Room
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &room))
	return room
}

func (ts *testServer) join(t *testing.T, roomID, name string) response.JoinResponse {
	t.Helper()
	body := map[string]string{"display_name": name}
	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+roomID+"/join", body, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.JoinResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestTopics(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/topics", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.TopicsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Topics, "geography")
	assert.Contains(t, resp.Topics, "science")
}

func TestCreatePublicRoom(t *testing.T) {
	ts := newTestServer(t)

	room := ts.createRoom(t, "public", 3)

	assert.NotEmpty(t, room.ID)
	assert.Equal(t, "public", room.Kind)
	assert.Empty(t, room.Code)
	assert.Equal(t, "lobby", room.Phase)
	assert.Equal(t, 3, room.TotalQuestions)
}

func TestCreatePrivateRoomAndFindByCode(t *testing.T) {
	ts := newTestServer(t)

	room := ts.createRoom(t, "private", 3)
	require.Len(t, room.Code, 6)

	rr := ts.request(http.MethodGet, "/api/v1/rooms/code/"+room.Code, nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var found response.Room
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &found))
	assert.Equal(t, room.ID, found.ID)
}

func TestCreateRoomInvalidKind(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]any{"kind": "ranked", "total_questions": 3}
	rr := ts.request(http.MethodPost, "/api/v1/rooms", body, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestJoinRoom(t *testing.T) {
	ts := newTestServer(t)
	room := ts.createRoom(t, "public", 3)

	resp := ts.join(t, room.ID, "Alice")

	assert.NotEmpty(t, resp.ConnID)
	require.Len(t, resp.Room.Players, 1)
	assert.Equal(t, "Alice", resp.Room.Players[0].DisplayName)
	assert.True(t, resp.Room.Players[0].IsGuest)
}

func TestJoinRequiresDisplayName(t *testing.T) {
	ts := newTestServer(t)
	room := ts.createRoom(t, "public", 3)

	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/join", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLeaveRequiresIdentity(t *testing.T) {
	ts := newTestServer(t)
	room := ts.createRoom(t, "public", 3)
	ts.join(t, room.ID, "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/leave", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestStartRejectedForUnknownTopic(t *testing.T) {
	ts := newTestServer(t)
	room := ts.createRoom(t, "public", 2)
	alice := ts.join(t, room.ID, "Alice")

	body := map[string]string{"topic": "philosophy"}
	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/start", body, alice.ConnID)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFullGameFlow(t *testing.T) {
	ts := newTestServer(t)
	room := ts.createRoom(t, "public", 2)

	alice := ts.join(t, room.ID, "Alice")
	bob := ts.join(t, room.ID, "Bob")

	// Start with geography questions
	body := map[string]string{"topic": "geography"}
	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/start", body, alice.ConnID)
	require.Equal(t, http.StatusOK, rr.Code)

	var state model.GameState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, model.PhaseCollectingAnswers, state.Phase)
	require.NotNil(t, state.Question)
	assert.Empty(t, state.Question.Answer)
	correctAnswer := answerFor(t, ts, state.Question.ID)

	// Joining mid-game is rejected
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/join", map[string]string{"display_name": "Carol"}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	// Submitting the correct answer as a fake is rejected
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/fake", map[string]string{"text": correctAnswer}, alice.ConnID)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Both players submit fakes
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/fake", map[string]string{"text": "fake-alice"}, alice.ConnID)
	require.Equal(t, http.StatusNoContent, rr.Code)
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/fake", map[string]string{"text": "fake-bob"}, bob.ConnID)
	require.Equal(t, http.StatusNoContent, rr.Code)

	// State now offers shuffled choices
	rr = ts.request(http.MethodGet, "/api/v1/rooms/"+room.ID+"/state", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, model.PhaseChoosingAnswer, state.Phase)
	assert.ElementsMatch(t, []string{"fake-alice", "fake-bob", correctAnswer}, state.AnswerChoices)

	// Alice chooses correctly, Bob falls for Alice's fake
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/choose", map[string]string{"answer": correctAnswer}, alice.ConnID)
	require.Equal(t, http.StatusNoContent, rr.Code)
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/choose", map[string]string{"answer": "fake-alice"}, bob.ConnID)
	require.Equal(t, http.StatusNoContent, rr.Code)

	// Ranking phase reveals the answer and the scores
	rr = ts.request(http.MethodGet, "/api/v1/rooms/"+room.ID+"/state", nil, "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, model.PhaseShowingRanking, state.Phase)
	assert.Equal(t, correctAnswer, state.Question.Answer)
	assert.Equal(t, 3, scoreOf(state, alice.ConnID))
	assert.Equal(t, 0, scoreOf(state, bob.ConnID))

	// Advance to round two
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/advance", nil, alice.ConnID)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, model.PhaseCollectingAnswers, state.Phase)
	assert.Equal(t, 1, state.QuestionIndex)
	assert.Empty(t, state.AnswerChoices)

	// Play out the final round
	correctAnswer = answerFor(t, ts, state.Question.ID)
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/fake", map[string]string{"text": "fake-alice-2"}, alice.ConnID)
	require.Equal(t, http.StatusNoContent, rr.Code)
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/fake", map[string]string{"text": "fake-bob-2"}, bob.ConnID)
	require.Equal(t, http.StatusNoContent, rr.Code)
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/choose", map[string]string{"answer": correctAnswer}, alice.ConnID)
	require.Equal(t, http.StatusNoContent, rr.Code)
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/choose", map[string]string{"answer": correctAnswer}, bob.ConnID)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/advance", nil, alice.ConnID)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, model.PhaseGameEnded, state.Phase)

	// The finished session shows up in history
	rr = ts.request(http.MethodGet, "/api/v1/history", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var page response.HistoryPage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	require.Equal(t, 1, page.Total)
	require.Len(t, page.Summaries, 1)
	assert.Equal(t, room.ID, page.Summaries[0].RoomID)
	assert.Equal(t, 2, page.Summaries[0].Rounds)
	assert.Equal(t, "Alice", page.Summaries[0].Participants[0].DisplayName)
	assert.Equal(t, 1, page.Summaries[0].Participants[0].Rank)

	// And can be fetched individually
	rr = ts.request(http.MethodGet, "/api/v1/history/"+page.Summaries[0].ID, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var summary response.SessionSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	assert.Equal(t, page.Summaries[0].ID, summary.ID)

	// Post-game actions are rejected with a game-ended error
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/advance", nil, alice.ConnID)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "GAME_ENDED")
}

func TestHistoryGetNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/history/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdvanceRejectedInLobby(t *testing.T) {
	ts := newTestServer(t)
	room := ts.createRoom(t, "public", 2)
	alice := ts.join(t, room.ID, "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/advance", nil, alice.ConnID)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestRoomNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/rooms/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// answerFor looks up the correct answer for a question id in the
// loaded bank, since the API deliberately never exposes it mid-round
func answerFor(t *testing.T, ts *testServer, questionID string) string {
	t.Helper()
	for _, topic := range []string{"geography", "science", "history"} {
		qs, err := ts.storage.GetQuestionsByTopic(context.Background(), topic)
		require.NoError(t, err)
		for _, q := range qs {
			if q.ID == questionID {
				return q.Answer
			}
		}
	}
	t.Fatalf("question %s not in bank", questionID)
	return ""
}

func scoreOf(state model.GameState, connID string) int {
	for _, p := range state.Players {
		if string(p.ConnID) == connID {
			return p.Score
		}
	}
	return -1
}

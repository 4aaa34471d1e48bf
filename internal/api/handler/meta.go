package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fakeout-io/fakeout/internal/api/apierr"
	"github.com/fakeout-io/fakeout/internal/api/response"
	"github.com/fakeout-io/fakeout/internal/services/history"
	"github.com/fakeout-io/fakeout/internal/services/questions"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// MetaHandler handles the endpoints outside any single room: topic
// discovery, past-game history and health
type MetaHandler struct {
	questions *questions.Service
	history   *history.Service
}

// NewMetaHandler creates a new meta handler
func NewMetaHandler(qs *questions.Service, hist *history.Service) *MetaHandler {
	return &MetaHandler{
		questions: qs,
		history:   hist,
	}
}

// Topics handles GET /api/v1/topics
func (h *MetaHandler) Topics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.questions.Topics(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TopicsResponse{Topics: topics})
}

// History handles GET /api/v1/history with limit/offset pagination
func (h *MetaHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultHistoryLimit)
	offset := queryInt(r, "offset", 0)
	if limit < 1 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	summaries, err := h.history.List(r.Context(), limit, offset)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	total, err := h.history.Count(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	page := response.HistoryPage{
		Total:     total,
		Limit:     limit,
		Offset:    offset,
		Summaries: make([]response.SessionSummary, 0, len(summaries)),
	}
	for _, s := range summaries {
		page.Summaries = append(page.Summaries, response.SummaryFromModel(s))
	}

	response.JSON(w, http.StatusOK, page)
}

// HistoryGet handles GET /api/v1/history/{id}
func (h *MetaHandler) HistoryGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	summary, err := h.history.Get(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SummaryFromModel(summary))
}

// Health handles GET /api/v1/health
func (h *MetaHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Room:
		o.printRoom(v)
	case JoinResult:
		o.printJoinResult(v)
	case GameState:
		o.printGameState(v)
	case TopicsResult:
		o.printTopicsResult(v)
	case HistoryPage:
		o.printHistoryPage(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ConnID      string `json:"conn_id"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar,omitempty"`
	IsGuest     bool   `json:"is_guest"`
	Score       int    `json:"score"`
}

// Room response type
type Room struct {
	ID             string   `json:"id"`
	Kind           string   `json:"kind"`
	Code           string   `json:"code,omitempty"`
	Phase          string   `json:"phase"`
	TotalQuestions int      `json:"total_questions"`
	Players        []Player `json:"players"`
}

// JoinResult combines the room and the issued connection id
type JoinResult struct {
	ConnID string `json:"conn_id"`
	Room   Room   `json:"room"`
}

// Question response type
type Question struct {
	ID     string `json:"id"`
	Topic  string `json:"topic"`
	Text   string `json:"text"`
	Answer string `json:"answer,omitempty"`
}

// GameState response type
type GameState struct {
	RoomID         string    `json:"room_id"`
	Kind           string    `json:"kind"`
	Code           string    `json:"code,omitempty"`
	Phase          string    `json:"phase"`
	QuestionIndex  int       `json:"question_index"`
	TotalQuestions int       `json:"total_questions"`
	Question       *Question `json:"question,omitempty"`
	FinalRound     bool      `json:"final_round"`
	Players        []Player  `json:"players"`
	AnswerChoices  []string  `json:"answer_choices"`
}

// TopicsResult response type
type TopicsResult struct {
	Topics []string `json:"topics"`
}

// Participant response type
type Participant struct {
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
	AccountID   int64  `json:"account_id,omitempty"`
	Score       int    `json:"score"`
	Rank        int    `json:"rank"`
}

// SessionSummary response type
type SessionSummary struct {
	ID           string        `json:"id"`
	RoomID       string        `json:"room_id"`
	Rounds       int           `json:"rounds"`
	Participants []Participant `json:"participants"`
	CompletedAt  time.Time     `json:"completed_at"`
}

// HistoryPage response type
type HistoryPage struct {
	Total     int              `json:"total"`
	Limit     int              `json:"limit"`
	Offset    int              `json:"offset"`
	Summaries []SessionSummary `json:"summaries"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.ID)
	fmt.Printf("Kind: %s\n", r.Kind)
	if r.Code != "" {
		fmt.Printf("Join Code: %s\n", r.Code)
	}
	fmt.Printf("Phase: %s\n", r.Phase)
	fmt.Printf("Questions: %d\n", r.TotalQuestions)
	fmt.Printf("Players (%d):\n", len(r.Players))
	for _, p := range r.Players {
		guestStr := ""
		if p.IsGuest {
			guestStr = " [guest]"
		}
		fmt.Printf("  - %s (%s) - %d pts%s\n", p.DisplayName, p.ConnID, p.Score, guestStr)
	}
}

func (o *Output) printJoinResult(j JoinResult) {
	fmt.Printf("Joined as: %s\n", j.ConnID)
	o.printRoom(j.Room)
}

func (o *Output) printGameState(g GameState) {
	fmt.Printf("Room: %s\n", g.RoomID)
	fmt.Printf("Phase: %s\n", g.Phase)
	fmt.Printf("Round: %d of %d\n", g.QuestionIndex+1, g.TotalQuestions)

	if g.Question != nil {
		fmt.Printf("\nQuestion: %s\n", g.Question.Text)
		if g.Question.Answer != "" {
			fmt.Printf("Answer: %s\n", g.Question.Answer)
		}
	}

	if len(g.AnswerChoices) > 0 {
		fmt.Println("\nChoices:")
		for i, choice := range g.AnswerChoices {
			fmt.Printf("  %d. %s\n", i+1, choice)
		}
	}

	if len(g.Players) > 0 {
		fmt.Println("\nScores:")
		for _, p := range g.Players {
			fmt.Printf("  %s: %d points\n", p.DisplayName, p.Score)
		}
	}
}

func (o *Output) printTopicsResult(t TopicsResult) {
	if len(t.Topics) == 0 {
		fmt.Println("No topics loaded")
		return
	}
	fmt.Printf("Topics (%d):\n", len(t.Topics))
	for _, topic := range t.Topics {
		fmt.Printf("  - %s\n", topic)
	}
}

func (o *Output) printHistoryPage(h HistoryPage) {
	fmt.Printf("Sessions: %d total (showing %d from offset %d)\n", h.Total, len(h.Summaries), h.Offset)
	for _, s := range h.Summaries {
		fmt.Printf("\n%s - %d rounds, finished %s\n", s.ID, s.Rounds, s.CompletedAt.Format(time.RFC3339))
		names := make([]string, 0, len(s.Participants))
		for _, p := range s.Participants {
			names = append(names, fmt.Sprintf("#%d %s (%d pts)", p.Rank, p.DisplayName, p.Score))
		}
		fmt.Printf("  %s\n", strings.Join(names, ", "))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

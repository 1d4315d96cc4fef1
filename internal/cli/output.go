package cli

import (
	"encoding/json"
	"fmt"
	"os"
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
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case Session:
		o.printSession(v)
	case Question:
		o.printQuestion(v)
	case HostQuestion:
		o.printHostQuestion(v)
	case Answer:
		o.printAnswer(v)
	case Scores:
		o.printScores(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player Player `json:"player"`
	Token  string `json:"token"`
}

// SessionPlayer response type
type SessionPlayer struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"name"`
	Score       int    `json:"score"`
	Answered    bool   `json:"answered"`
}

// Session response type
type Session struct {
	Code            string          `json:"code"`
	State           string          `json:"state"`
	HostID          string          `json:"host_id"`
	Players         []SessionPlayer `json:"players"`
	CurrentQuestion int             `json:"current_question"`
	TotalQuestions  int             `json:"total_questions"`
}

// Question response type
type Question struct {
	ID             string   `json:"id"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	TimeLimit      int      `json:"time_limit"`
	QuestionNumber int      `json:"question_number"`
	TotalQuestions int      `json:"total_questions"`
	Finished       bool     `json:"finished"`
}

// HostQuestion response type
type HostQuestion struct {
	ID           string   `json:"id"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	TimeLimit    int      `json:"time_limit"`
}

// Answer response type
type Answer struct {
	Correct       bool `json:"correct"`
	CorrectAnswer int  `json:"correct_answer"`
	Points        int  `json:"points"`
	NewScore      int  `json:"new_score"`
}

// ScoreEntry response type
type ScoreEntry struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Score       int    `json:"score"`
}

// Scores response type
type Scores struct {
	Scores          []ScoreEntry `json:"scores"`
	CurrentQuestion int          `json:"current_question"`
	TotalQuestions  int          `json:"total_questions"`
	State           string       `json:"state"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Printf("Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Printf("Token: %s\n", a.Token)
}

func (o *Output) printSession(s Session) {
	fmt.Printf("Session: %s\n", s.Code)
	fmt.Printf("State: %s\n", s.State)
	fmt.Printf("Question: %d/%d\n", s.CurrentQuestion+1, s.TotalQuestions)
	fmt.Printf("Players (%d):\n", len(s.Players))
	for _, p := range s.Players {
		hostStr := ""
		if p.PlayerID == s.HostID {
			hostStr = " [host]"
		}
		answeredStr := ""
		if p.Answered {
			answeredStr = " (answered)"
		}
		fmt.Printf("  - %s (%s) - %d pts%s%s\n", p.DisplayName, p.PlayerID, p.Score, answeredStr, hostStr)
	}
}

func (o *Output) printQuestion(q Question) {
	if q.Finished {
		fmt.Println("Quiz finished!")
		fmt.Printf("Questions: %d\n", q.TotalQuestions)
		return
	}
	fmt.Printf("Question %d/%d (%ds):\n", q.QuestionNumber, q.TotalQuestions, q.TimeLimit)
	fmt.Printf("  %s\n", q.Question)
	for i, opt := range q.Options {
		fmt.Printf("  [%d] %s\n", i, opt)
	}
}

func (o *Output) printHostQuestion(q HostQuestion) {
	fmt.Printf("Question (%ds):\n", q.TimeLimit)
	fmt.Printf("  %s\n", q.Question)
	for i, opt := range q.Options {
		marker := ""
		if i == q.CorrectIndex {
			marker = " *"
		}
		fmt.Printf("  [%d] %s%s\n", i, opt, marker)
	}
}

func (o *Output) printAnswer(a Answer) {
	if a.Correct {
		fmt.Printf("Correct! +%d points\n", a.Points)
	} else {
		fmt.Printf("Incorrect. The correct answer was [%d]\n", a.CorrectAnswer)
	}
	fmt.Printf("Score: %d\n", a.NewScore)
}

func (o *Output) printScores(s Scores) {
	fmt.Printf("State: %s\n", s.State)
	if s.State == "finished" {
		fmt.Printf("Questions: %d\n", s.TotalQuestions)
	} else {
		fmt.Printf("Question: %d/%d\n", s.CurrentQuestion+1, s.TotalQuestions)
	}
	fmt.Println("Leaderboard:")
	for i, e := range s.Scores {
		fmt.Printf("  %d. %s - %d pts\n", i+1, e.DisplayName, e.Score)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

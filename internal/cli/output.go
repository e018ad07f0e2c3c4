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
	case Session:
		o.printSession(v)
	case Room:
		o.printRoom(v)
	case ReadyResult:
		o.printReadyResult(v)
	case SubmissionAck:
		o.printSubmissionAck(v)
	case PlayerStats:
		o.printPlayerStats(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Session response type (matches API)
type Session struct {
	SessionToken string `json:"session_token"`
	Identity     string `json:"identity"`
	PlayerID     string `json:"player_id,omitempty"`
	DisplayName  string `json:"display_name"`
	IsGuest      bool   `json:"is_guest"`
}

// Puzzle response type
type Puzzle struct {
	CenterLetter string   `json:"center_letter"`
	OuterLetters []string `json:"outer_letters"`
	ValidWords   []string `json:"valid_words"`
	Pangrams     []string `json:"pangrams"`
}

// Participant response type
type Participant struct {
	Identity     string `json:"identity"`
	DisplayName  string `json:"display_name"`
	Connected    bool   `json:"connected"`
	Ready        bool   `json:"ready"`
	HasSubmitted bool   `json:"has_submitted"`
	TotalScore   int    `json:"total_score"`
}

// WordResult is one word within a round result
type WordResult struct {
	Word      string `json:"word"`
	Points    int    `json:"points"`
	IsPangram bool   `json:"is_pangram"`
}

// RoundResult is one participant's result within a round summary
type RoundResult struct {
	Identity    string       `json:"identity"`
	DisplayName string       `json:"display_name"`
	Words       []WordResult `json:"words"`
	RoundScore  int          `json:"round_score"`
	TotalScore  int          `json:"total_score"`
}

// RoundSummary response type
type RoundSummary struct {
	Round   int           `json:"round"`
	EndedAt time.Time     `json:"ended_at"`
	Results []RoundResult `json:"results"`
}

// MatchOutcome response type
type MatchOutcome struct {
	Winner      string         `json:"winner,omitempty"`
	IsTie       bool           `json:"is_tie"`
	FinalScores map[string]int `json:"final_scores"`
	FinishedAt  time.Time      `json:"finished_at"`
}

// Room response type
type Room struct {
	Code          string         `json:"code"`
	MatchStatus   string         `json:"match_status"`
	RoundStatus   string         `json:"round_status"`
	CurrentRound  int            `json:"current_round"`
	TotalRounds   int            `json:"total_rounds"`
	RoundDeadline *time.Time     `json:"round_deadline,omitempty"`
	Puzzle        *Puzzle        `json:"puzzle,omitempty"`
	Participants  []Participant  `json:"participants"`
	RoundHistory  []RoundSummary `json:"round_history,omitempty"`
	FinalOutcome  *MatchOutcome  `json:"final_outcome,omitempty"`
}

// ReadyResult response type
type ReadyResult struct {
	Room     Room `json:"room"`
	AllReady bool `json:"all_ready"`
}

// SubmissionAck response type
type SubmissionAck struct {
	AcceptedWords int `json:"accepted_words"`
	RoundScore    int `json:"round_score"`
}

// PlayerStats response type
type PlayerStats struct {
	PlayerID      string `json:"player_id"`
	MatchesPlayed int    `json:"matches_played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Ties          int    `json:"ties"`
	TotalPoints   int    `json:"total_points"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printSession(s Session) {
	guestStr := "no"
	if s.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("Session: %s (%s)\n", s.DisplayName, s.Identity)
	if s.PlayerID != "" {
		fmt.Printf("Player ID: %s\n", s.PlayerID)
	}
	fmt.Printf("Guest: %s\n", guestStr)
	fmt.Printf("Token: %s\n", s.SessionToken)
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.Code)
	fmt.Printf("Match: %s\n", r.MatchStatus)
	if r.CurrentRound > 0 {
		fmt.Printf("Round: %d/%d (%s)\n", r.CurrentRound, r.TotalRounds, r.RoundStatus)
	}
	if r.RoundDeadline != nil {
		fmt.Printf("Deadline: %s\n", r.RoundDeadline.Format(time.RFC3339))
	}
	if r.Puzzle != nil {
		fmt.Printf("Letters: %s [%s]\n",
			strings.ToUpper(r.Puzzle.CenterLetter),
			strings.ToUpper(strings.Join(r.Puzzle.OuterLetters, " ")))
	}

	fmt.Printf("Participants (%d):\n", len(r.Participants))
	for _, p := range r.Participants {
		flags := []string{}
		if !p.Connected {
			flags = append(flags, "disconnected")
		}
		if p.Ready {
			flags = append(flags, "ready")
		}
		if p.HasSubmitted {
			flags = append(flags, "submitted")
		}
		flagStr := ""
		if len(flags) > 0 {
			flagStr = " [" + strings.Join(flags, ", ") + "]"
		}
		fmt.Printf("  - %s (%s) - %d pts%s\n", p.DisplayName, p.Identity, p.TotalScore, flagStr)
	}

	for _, summary := range r.RoundHistory {
		fmt.Printf("\nRound %d results:\n", summary.Round)
		for _, result := range summary.Results {
			fmt.Printf("  %s: %d pts (total %d)\n", result.DisplayName, result.RoundScore, result.TotalScore)
			for _, w := range result.Words {
				pangram := ""
				if w.IsPangram {
					pangram = " [pangram]"
				}
				fmt.Printf("    - %s (%d pts)%s\n", w.Word, w.Points, pangram)
			}
		}
	}

	if r.FinalOutcome != nil {
		fmt.Println()
		if r.FinalOutcome.IsTie {
			fmt.Println("Result: tie")
		} else {
			fmt.Printf("Winner: %s\n", r.FinalOutcome.Winner)
		}
		for id, score := range r.FinalOutcome.FinalScores {
			fmt.Printf("  %s: %d pts\n", id, score)
		}
	}
}

func (o *Output) printReadyResult(r ReadyResult) {
	if r.AllReady {
		fmt.Println("All participants ready")
	}
	o.printRoom(r.Room)
}

func (o *Output) printSubmissionAck(a SubmissionAck) {
	fmt.Printf("Submitted %d words for %d points\n", a.AcceptedWords, a.RoundScore)
}

func (o *Output) printPlayerStats(s PlayerStats) {
	fmt.Printf("Player: %s\n", s.PlayerID)
	fmt.Printf("Matches: %d (W%d / L%d / T%d)\n", s.MatchesPlayed, s.Wins, s.Losses, s.Ties)
	fmt.Printf("Total Points: %d\n", s.TotalPoints)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

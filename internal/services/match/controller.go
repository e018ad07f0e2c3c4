package match

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/mcoot/spellduel-go/internal/dependencies/clock"
	"github.com/mcoot/spellduel-go/internal/model"
	"github.com/mcoot/spellduel-go/internal/services/puzzle"
	"github.com/mcoot/spellduel-go/internal/services/registry"
	"github.com/mcoot/spellduel-go/internal/services/stats"
	"github.com/mcoot/spellduel-go/internal/services/timer"
)

// Controller owns the per-room match state machine: round start and
// end, submission aggregation, match completion and restart. All round
// completion routes through EndRound, whose idempotence makes the race
// between the round timer and the submission aggregator harmless.
type Controller struct {
	registry    *registry.Service
	puzzles     puzzle.Provider
	timer       timer.RoundTimer
	stats       *stats.Service
	broadcaster model.Broadcaster
	clock       clock.Clock
	logger      *slog.Logger
}

// NewController creates a new match controller
func NewController(
	registry *registry.Service,
	puzzles puzzle.Provider,
	roundTimer timer.RoundTimer,
	statsService *stats.Service,
	broadcaster model.Broadcaster,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		registry:    registry,
		puzzles:     puzzles,
		timer:       roundTimer,
		stats:       statsService,
		broadcaster: broadcaster,
		clock:       clock,
		logger:      logger.With(slog.String("component", "match")),
	}
}

// CanStartMatch reports whether the very first round may begin:
// a waiting match with a full room, everyone connected and ready.
func (c *Controller) CanStartMatch(room *model.Room) bool {
	return room.MatchStatus == model.MatchStatusWaiting &&
		len(room.Participants) == room.Config.MaxPlayers &&
		room.ConnectedCount() == room.Config.MaxPlayers &&
		room.AllConnectedReady()
}

// CanRestartMatch reports whether a finished match may be replayed
func (c *Controller) CanRestartMatch(room *model.Room) bool {
	return room.MatchStatus == model.MatchStatusFinished &&
		room.ConnectedCount() == room.Config.MaxPlayers &&
		room.AllConnectedReady()
}

// StartRound begins the next round. Round 1 reuses the puzzle chosen
// at room creation so both players always have a puzzle even if the
// call races with match start; later rounds fetch a fresh one.
func (c *Controller) StartRound(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	var room *model.Room
	var payload model.RoundStartedPayload

	err := c.registry.WithRoom(ctx, code, func(r *model.Room) error {
		if r.MatchStatus != model.MatchStatusWaiting && r.MatchStatus != model.MatchStatusBetweenRounds {
			return model.ErrRoundNotStartable
		}
		if r.CurrentRound >= r.Config.TotalRounds {
			return model.ErrMaxRoundsReached
		}

		next := r.CurrentRound + 1

		// Fetch the puzzle before mutating anything so a provider
		// failure leaves the room untouched
		p := r.Puzzle
		if next > 1 {
			fresh, err := c.puzzles.GetRandomPuzzle(ctx)
			if err != nil {
				return err
			}
			p = fresh
		}

		r.CurrentRound = next
		if next > 1 {
			r.Puzzle = p
			r.PuzzleHistory = append(r.PuzzleHistory, p)
		}
		r.MatchStatus = model.MatchStatusPlaying
		r.RoundStatus = model.RoundStatusActive

		deadline := c.clock.Now().Add(r.Config.RoundDuration)
		r.RoundDeadline = &deadline

		for _, part := range r.Participants {
			part.ResetRound()
		}

		payload = model.RoundStartedPayload{
			Round:    next,
			Puzzle:   p,
			Deadline: deadline,
		}
		room = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The callback carries the round it was armed for; a stale fire
	// surviving past this round can then never end a later one
	round := payload.Round
	c.timer.Schedule(code, room.Config.RoundDuration, func(code model.RoomCode) {
		c.handleRoundExpiry(code, round)
	})
	c.broadcast(code, model.EventRoundStarted, payload)

	c.logger.Info("round started",
		slog.String("room", string(code)),
		slog.Int("round", payload.Round),
	)

	return room, nil
}

// RecordSubmission stores a participant's round result. Acceptance is
// unconditional and last-write-wins: a submission landing just as the
// timer fires is still recorded, it just cannot re-trigger completion
// once the round has ended. Scores arrive pre-computed; word validity
// is the submitting client's responsibility.
func (c *Controller) RecordSubmission(ctx context.Context, code model.RoomCode, identity model.IdentityID, words []model.WordSubmission, totalScore int) (*model.SubmissionAck, error) {
	var ack model.SubmissionAck
	var complete bool

	err := c.registry.WithRoom(ctx, code, func(r *model.Room) error {
		p := r.GetParticipant(identity)
		if p == nil {
			return model.ErrParticipantNotFound
		}

		p.SubmittedWords = words
		p.RoundScore = totalScore
		p.HasSubmitted = true

		ack = model.SubmissionAck{
			AcceptedWords: len(words),
			RoundScore:    totalScore,
		}
		complete = r.RoundStatus == model.RoundStatusActive && r.AllConnectedSubmitted()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if complete {
		if _, err := c.EndRound(ctx, code); err != nil {
			c.logger.Error("aggregation-driven round end failed",
				slog.String("room", string(code)),
				slog.String("error", err.Error()),
			)
		}
	}

	return &ack, nil
}

// EndRound is the single point of truth for round completion. It is
// idempotent: once the round is ended, further calls return the same
// RoundSummary without re-crediting scores or re-broadcasting, so the
// timer-fired and all-submitted paths may race freely.
func (c *Controller) EndRound(ctx context.Context, code model.RoomCode) (*model.RoundSummary, error) {
	return c.endRound(ctx, code, 0)
}

// endRound implements round completion. A non-zero expectedRound
// restricts the call to that specific round: the timer path passes the
// round its callback was armed for, so a callback that runs after the
// match has moved on is a no-op with a nil summary.
func (c *Controller) endRound(ctx context.Context, code model.RoomCode, expectedRound int) (*model.RoundSummary, error) {
	var summary model.RoundSummary
	var stale, replay, finished bool
	var outcome model.MatchOutcome
	var results []stats.MatchResult

	err := c.registry.WithRoom(ctx, code, func(r *model.Room) error {
		if expectedRound != 0 && r.CurrentRound != expectedRound {
			stale = true
			return nil
		}
		if r.RoundStatus == model.RoundStatusEnded {
			replay = true
			summary = r.RoundHistory[len(r.RoundHistory)-1]
			return nil
		}
		if r.RoundStatus != model.RoundStatusActive {
			return model.ErrNoActiveRound
		}

		// Cancel here so an end not originating from the timer can
		// never leave a stale timer armed against a later round
		c.timer.Cancel(code)

		r.RoundStatus = model.RoundStatusEnded
		r.RoundDeadline = nil

		for _, p := range r.Participants {
			p.TotalScore += p.RoundScore
		}

		summary = buildSummary(r, c.clock.Now())
		r.RoundHistory = append(r.RoundHistory, summary)

		if r.IsFinalRound() {
			c.finishMatch(r)
			finished = true
			outcome = *r.FinalOutcome
			results = statsResults(r)
		} else {
			r.MatchStatus = model.MatchStatusBetweenRounds
			for _, p := range r.Participants {
				p.Ready = false
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if stale {
		return nil, nil
	}
	if replay {
		return &summary, nil
	}

	c.broadcast(code, model.EventRoundEnded, model.RoundEndedPayload{Summary: summary})

	c.logger.Info("round ended",
		slog.String("room", string(code)),
		slog.Int("round", summary.Round),
	)

	if finished {
		c.broadcast(code, model.EventMatchFinished, model.MatchFinishedPayload{Outcome: outcome})
		// Best-effort: stats failures are logged by the service and
		// never affect match state
		c.stats.RecordMatch(ctx, results)

		c.logger.Info("match finished",
			slog.String("room", string(code)),
			slog.String("winner", string(outcome.Winner)),
			slog.Bool("tie", outcome.IsTie),
		)
	}

	return &summary, nil
}

// finishMatch computes the final outcome. Idempotent: a finished match
// is never recomputed. Caller must hold the room lock.
func (c *Controller) finishMatch(r *model.Room) {
	if r.MatchStatus == model.MatchStatusFinished {
		return
	}

	finalScores := make(map[model.IdentityID]int, len(r.Participants))
	var winner model.IdentityID
	top, tieCount := 0, 0
	first := true
	for id, p := range r.Participants {
		finalScores[id] = p.TotalScore
		switch {
		case first || p.TotalScore > top:
			top = p.TotalScore
			winner = id
			tieCount = 1
			first = false
		case p.TotalScore == top:
			tieCount++
		}
	}

	outcome := &model.MatchOutcome{
		FinalScores: finalScores,
		FinishedAt:  c.clock.Now(),
	}
	if tieCount > 1 {
		outcome.IsTie = true
	} else {
		outcome.Winner = winner
	}

	r.MatchStatus = model.MatchStatusFinished
	r.FinalOutcome = outcome
}

// ReadyResult reports the room's readiness after a ready-flag change
type ReadyResult struct {
	Room     *model.Room
	AllReady bool

	// StartFirstRound is set when the waiting match may now begin
	StartFirstRound bool
	// StartNextRound is set when a between-rounds match may advance
	StartNextRound bool
	// CanRestart is set when a finished match may be replayed
	CanRestart bool
}

// SetParticipantReady flips a participant's ready flag and reports
// which start path, if any, the caller should trigger next.
func (c *Controller) SetParticipantReady(ctx context.Context, code model.RoomCode, identity model.IdentityID, ready bool) (*ReadyResult, error) {
	var result ReadyResult

	err := c.registry.WithRoom(ctx, code, func(r *model.Room) error {
		p := r.GetParticipant(identity)
		if p == nil {
			return model.ErrParticipantNotFound
		}
		p.Ready = ready

		result = ReadyResult{
			Room:            r,
			AllReady:        r.AllConnectedReady(),
			StartFirstRound: c.CanStartMatch(r),
			StartNextRound:  r.AllConnectedReady() && r.MatchStatus == model.MatchStatusBetweenRounds,
			CanRestart:      c.CanRestartMatch(r),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.broadcast(code, model.EventParticipantReadyChanged, model.ReadyChangedPayload{
		Identity: identity,
		Ready:    ready,
	})

	return &result, nil
}

// RestartMatch resets a finished match for a rematch, preserving the
// participants but nothing else. Requires both participants connected
// and ready (their consent to replay).
func (c *Controller) RestartMatch(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	var room *model.Room

	err := c.registry.WithRoom(ctx, code, func(r *model.Room) error {
		if !c.CanRestartMatch(r) {
			return model.ErrMatchNotFinished
		}

		fresh, err := c.puzzles.GetRandomPuzzle(ctx)
		if err != nil {
			return err
		}

		// A stale timer from the previous match must never fire into
		// the new one
		c.timer.Cancel(code)

		r.Puzzle = fresh
		r.PuzzleHistory = []*model.Puzzle{fresh}
		r.MatchStatus = model.MatchStatusWaiting
		r.RoundStatus = model.RoundStatusWaiting
		r.CurrentRound = 0
		r.RoundDeadline = nil
		r.RoundHistory = []model.RoundSummary{}
		r.FinalOutcome = nil

		for _, p := range r.Participants {
			p.ResetRound()
			p.TotalScore = 0
		}

		room = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.broadcast(code, model.EventMatchRestarted, nil)

	c.logger.Info("match restarted", slog.String("room", string(code)))
	return room, nil
}

// handleRoundExpiry is the timer-fired path into round completion.
// round is the round the timer was armed for.
func (c *Controller) handleRoundExpiry(code model.RoomCode, round int) {
	if _, err := c.endRound(context.Background(), code, round); err != nil {
		c.logger.Error("timer-driven round end failed",
			slog.String("room", string(code)),
			slog.Int("round", round),
			slog.String("error", err.Error()),
		)
	}
}

func (c *Controller) broadcast(code model.RoomCode, eventType model.EventType, payload any) {
	c.broadcaster.Broadcast(code, model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		RoomCode:  code,
		Payload:   payload,
	})
}

// buildSummary snapshots every participant's round result, ordered by
// round score descending then identity for determinism
func buildSummary(r *model.Room, endedAt time.Time) model.RoundSummary {
	results := make([]model.ParticipantRoundResult, 0, len(r.Participants))
	for _, p := range r.Participants {
		words := make([]model.WordSubmission, len(p.SubmittedWords))
		copy(words, p.SubmittedWords)
		results = append(results, model.ParticipantRoundResult{
			Identity:    p.Identity,
			DisplayName: p.DisplayName,
			Words:       words,
			RoundScore:  p.RoundScore,
			TotalScore:  p.TotalScore,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].RoundScore != results[j].RoundScore {
			return results[i].RoundScore > results[j].RoundScore
		}
		return results[i].Identity < results[j].Identity
	})

	return model.RoundSummary{
		Round:   r.CurrentRound,
		EndedAt: endedAt,
		Puzzle:  r.Puzzle,
		Results: results,
	}
}

// statsResults converts a finished room into per-player stat updates
func statsResults(r *model.Room) []stats.MatchResult {
	results := make([]stats.MatchResult, 0, len(r.Participants))
	for id, p := range r.Participants {
		results = append(results, stats.MatchResult{
			PlayerID: p.ExternalID,
			Won:      !r.FinalOutcome.IsTie && r.FinalOutcome.Winner == id,
			Tied:     r.FinalOutcome.IsTie,
			Points:   p.TotalScore,
		})
	}
	return results
}

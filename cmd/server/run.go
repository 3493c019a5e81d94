package main

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/minhkhoango/Minesweeper/internal/knowledge"
	"github.com/minhkhoango/Minesweeper/internal/solver"
)

// SolverRun is one stored engine run: the board parameters, the outcome
// and the full move transcript.
type SolverRun struct {
	RunId      int
	PlayerId   *int
	Height     int
	Width      int
	MineCount  int
	Seed       *int64
	Result     solver.Result
	StartedAt  time.Time
	FinishedAt time.Time
}

func (r SolverRun) guessCount() int {
	count := 0
	for _, m := range r.Result.Moves {
		if m.Guess {
			count++
		}
	}
	return count
}

type solverRunJSON struct {
	RunId      string           `json:"run_id"`
	Height     int              `json:"height"`
	Width      int              `json:"width"`
	MineCount  int              `json:"mine_count"`
	Seed       *int64           `json:"seed,omitempty"`
	Outcome    string           `json:"outcome"`
	Moves      []solver.Move    `json:"moves"`
	Flagged    []knowledge.Cell `json:"flagged"`
	GuessCount int              `json:"guess_count"`
	StartedAt  int64            `json:"started_at"`
	FinishedAt int64            `json:"finished_at"`
}

func (r SolverRun) MarshalJSON() ([]byte, error) {
	return json.Marshal(solverRunJSON{
		RunId:      strconv.Itoa(r.RunId),
		Height:     r.Height,
		Width:      r.Width,
		MineCount:  r.MineCount,
		Seed:       r.Seed,
		Outcome:    r.Result.Outcome.String(),
		Moves:      r.Result.Moves,
		Flagged:    r.Result.Flagged,
		GuessCount: r.guessCount(),
		StartedAt:  r.StartedAt.UnixMilli(),
		FinishedAt: r.FinishedAt.UnixMilli(),
	})
}

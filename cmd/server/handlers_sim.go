package main

import (
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/minhkhoango/Minesweeper/internal/game"
	"github.com/minhkhoango/Minesweeper/internal/solver"
)

type SimulateParams struct {
	Height    int `schema:"height,required"`
	Width     int `schema:"width,required"`
	MineCount int `schema:"mine_count,required"`
	Games     int `schema:"games,required"`
}

type SimulateReport struct {
	Games      int     `json:"games"`
	Won        int     `json:"won"`
	Lost       int     `json:"lost"`
	WinRate    float64 `json:"win_rate"`
	AvgMoves   float64 `json:"avg_moves"`
	AvgGuesses float64 `json:"avg_guesses"`
}

const (
	maxSimulateGames   = 10_000
	simulateConcurrent = 8
)

// handleSimulate plays a batch of fresh boards concurrently and reports
// aggregate solver performance. Nothing is stored; this is a benchmarking
// endpoint.
func handleSimulate(w http.ResponseWriter, r *http.Request) {
	var params SimulateParams
	if err := dec.Decode(&params, r.URL.Query()); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if params.Games <= 0 || params.Games > maxSimulateGames {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	gameParams := game.Params{
		Height:    params.Height,
		Width:     params.Width,
		MineCount: params.MineCount,
	}
	if err := gameParams.Validate(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}

	var (
		mu     sync.Mutex
		report = SimulateReport{Games: params.Games}
		moves  int
		guess  int
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(simulateConcurrent)
	for range params.Games {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			board, err := game.New(gameParams, createRand())
			if err != nil {
				return err
			}
			s, err := solver.New(board, createRand())
			if err != nil {
				return err
			}
			result, err := s.Play()
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			switch result.Outcome {
			case solver.Won:
				report.Won++
			case solver.Lost:
				report.Lost++
			}
			moves += len(result.Moves)
			for _, m := range result.Moves {
				if m.Guess {
					guess++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error("simulation failed: ", err)
		return
	}

	report.WinRate = float64(report.Won) / float64(report.Games)
	report.AvgMoves = float64(moves) / float64(report.Games)
	report.AvgGuesses = float64(guess) / float64(report.Games)
	if _, err := sendJSON(w, report); err != nil {
		log.Error(err)
	}
}

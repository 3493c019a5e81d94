package main

import (
	"errors"
	"hash/maphash"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/schema"
	"github.com/jackc/pgx/v5"

	"github.com/minhkhoango/Minesweeper/internal/game"
	"github.com/minhkhoango/Minesweeper/internal/knowledge"
	"github.com/minhkhoango/Minesweeper/internal/solver"
)

var dec = schema.NewDecoder()

func init() {
	dec.IgnoreUnknownKeys(true)
}

type NewRunParams struct {
	Height    int    `schema:"height,required"`
	Width     int    `schema:"width,required"`
	MineCount int    `schema:"mine_count,required"`
	Seed      *int64 `schema:"seed"`
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func runSolver(params NewRunParams) (*SolverRun, error) {
	rnd := createRand()
	if params.Seed != nil {
		rnd = rand.New(rand.NewPCG(uint64(*params.Seed), 0))
	}
	g, err := game.New(game.Params{
		Height:    params.Height,
		Width:     params.Width,
		MineCount: params.MineCount,
	}, rnd)
	if err != nil {
		return nil, err
	}
	s, err := solver.New(g, rnd)
	if err != nil {
		return nil, err
	}
	startedAt := time.Now().UTC()
	result, err := s.Play()
	if err != nil {
		return nil, err
	}
	return &SolverRun{
		Height:     params.Height,
		Width:      params.Width,
		MineCount:  params.MineCount,
		Seed:       params.Seed,
		Result:     *result,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
	}, nil
}

func handleNewRun(w http.ResponseWriter, r *http.Request) {
	var params NewRunParams
	if err := dec.Decode(&params, r.URL.Query()); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	run, err := runSolver(params)
	var inconsistency knowledge.InconsistencyError
	if errors.As(err, &inconsistency) {
		// the board oracle and the engine disagree; a bug, not bad input
		w.WriteHeader(http.StatusInternalServerError)
		log.Error("inconsistent run: ", err)
		return
	} else if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}

	if claims, ok := r.Context().Value(ctxPlayerClaims).(*PlayerClaims); ok {
		log.Debug("storing run for player ", claims.Username)
		run.PlayerId = &claims.PlayerId
		refreshPlayerCookies(w, *claims)
	} else {
		log.Debug("storing anonymous run")
	}
	if _, err := pg.CreateRun(r.Context(), run); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	if _, err := sendJSON(w, run); err != nil {
		log.Error(err)
	}
}

func handleGetRun(w http.ResponseWriter, r *http.Request) {
	runId, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	run, err := pg.GetRun(r.Context(), runId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return
	} else if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	if _, err := sendJSON(w, run); err != nil {
		log.Error(err)
	}
}

func recordOptionsFromQuery(r *http.Request) []RunRecordsOption {
	var options []RunRecordsOption

	type recordParams struct {
		Height    int `schema:"height,required"`
		Width     int `schema:"width,required"`
		MineCount int `schema:"mine_count,required"`
	}
	var rp recordParams
	if err := dec.Decode(&rp, r.URL.Query()); err == nil {
		params := game.Params(rp)
		options = append(options, RunRecordsForParams(&params))
	}

	if r.URL.Query().Get("outcome") == "won" {
		options = append(options, RunRecordsForOutcome(solver.Won))
	}
	return options
}

func handleGetRecords(w http.ResponseWriter, r *http.Request) {
	records, err := pg.GetRunRecords(r.Context(), recordOptionsFromQuery(r)...)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	if _, err := sendJSON(w, records); err != nil {
		log.Error(err)
	}
}

func handleGetOwnRecords(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(ctxPlayerClaims).(*PlayerClaims)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	options := append(
		recordOptionsFromQuery(r),
		RunRecordsForPlayer(claims.Username),
	)
	records, err := pg.GetRunRecords(r.Context(), options...)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	refreshPlayerCookies(w, *claims)
	if _, err := sendJSON(w, records); err != nil {
		log.Error(err)
	}
}

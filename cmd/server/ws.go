package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		log.Debug("\tws origin: ", r.Host)
		return true
	},
}

const replayDelay = 100 * time.Millisecond

// handleWatchWs replays a stored run move by move over a websocket, one
// JSON message per move, then a final message with the outcome.
func handleWatchWs(w http.ResponseWriter, r *http.Request) {
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
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("upgrade: ", err)
		return
	}
	defer c.Close()

	for _, move := range run.Result.Moves {
		if err := c.WriteJSON(move); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.Warn("write: ", err)
			}
			return
		}
		time.Sleep(replayDelay)
	}
	final := struct {
		Outcome string `json:"outcome"`
		Flagged any    `json:"flagged"`
	}{run.Result.Outcome.String(), run.Result.Flagged}
	if err := c.WriteJSON(final); err != nil {
		log.Warn("write: ", err)
	}
	c.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
}

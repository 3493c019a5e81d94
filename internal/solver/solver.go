package solver

import (
	"math/rand/v2"

	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"

	"github.com/minhkhoango/Minesweeper/internal/game"
	"github.com/minhkhoango/Minesweeper/internal/knowledge"
)

var Log = logrus.New()

type Outcome int

const (
	Won Outcome = iota
	Lost
	Stalled
)

func (o Outcome) String() string {
	switch o {
	case Won:
		return "won"
	case Lost:
		return "lost"
	case Stalled:
		return "stalled"
	default:
		return "unknown"
	}
}

// Move is one step of a finished run: the cell that was opened, whether it
// was a blind guess, and what the board answered. Nearby is meaningless
// when Mined is set.
type Move struct {
	Cell   knowledge.Cell `json:"cell"`
	Guess  bool           `json:"guess"`
	Mined  bool           `json:"mined"`
	Nearby int            `json:"nearby"`
}

// Result is the transcript of a full run.
type Result struct {
	Outcome Outcome          `json:"outcome"`
	Moves   []Move           `json:"moves"`
	Flagged []knowledge.Cell `json:"flagged"`
}

// Solver plays one game to completion by deduction, guessing only when the
// knowledge base has nothing certain to offer.
type Solver struct {
	game    *game.Game
	kb      *knowledge.Knowledge
	rnd     *rand.Rand
	pending deque.Deque[knowledge.Cell]
	queued  map[knowledge.Cell]struct{}
}

func New(g *game.Game, rnd *rand.Rand) (*Solver, error) {
	kb, err := knowledge.New(g.Height(), g.Width())
	if err != nil {
		return nil, err
	}
	return &Solver{
		game:   g,
		kb:     kb,
		rnd:    rnd,
		queued: make(map[knowledge.Cell]struct{}),
	}, nil
}

// Knowledge exposes the underlying knowledge base for diagnostics.
func (s *Solver) Knowledge() *knowledge.Knowledge {
	return s.kb
}

// nextMove drains cells already proven safe before falling back to a
// probability-weighted guess.
func (s *Solver) nextMove() (cell knowledge.Cell, guess, ok bool) {
	for s.pending.Len() > 0 {
		cell := s.pending.PopFront()
		if !s.kb.IsMine(cell) && !s.kb.HasPlayed(cell) {
			return cell, false, true
		}
	}
	if cell, ok := s.kb.SafeMove(); ok {
		return cell, false, true
	}
	cell, ok = s.kb.RandomMove(s.game.MineCount(), s.rnd)
	return cell, true, ok
}

// enqueueSafes pushes every cell newly proven safe and not yet played onto
// the pending queue, preserving discovery order across turns.
func (s *Solver) enqueueSafes() {
	for _, cell := range s.kb.Safes() {
		if s.kb.HasPlayed(cell) {
			continue
		}
		if _, seen := s.queued[cell]; seen {
			continue
		}
		s.queued[cell] = struct{}{}
		s.pending.PushBack(cell)
	}
}

// flagMines flags every cell the knowledge base has proven mined and
// returns the cells flagged this turn.
func (s *Solver) flagMines(flagged map[knowledge.Cell]struct{}) []knowledge.Cell {
	var placed []knowledge.Cell
	for _, cell := range s.kb.Mines() {
		if _, done := flagged[cell]; done {
			continue
		}
		flagged[cell] = struct{}{}
		s.game.Flag(cell)
		placed = append(placed, cell)
	}
	return placed
}

// Play runs the deduce-move-observe cycle until the game is won, a guess
// hits a mine, or no move remains. It propagates knowledge-base
// inconsistency errors, which mean the board oracle contradicted itself.
func (s *Solver) Play() (*Result, error) {
	var (
		result  = &Result{}
		flagged = make(map[knowledge.Cell]struct{})
	)

	for {
		if s.game.Won() {
			result.Outcome = Won
			return result, nil
		}

		cell, guess, ok := s.nextMove()
		if !ok {
			result.Outcome = Stalled
			return result, nil
		}

		if s.game.IsMine(cell) {
			Log.WithFields(logrus.Fields{
				"cell": cell, "guess": guess,
			}).Debug("opened a mine")
			result.Moves = append(result.Moves, Move{
				Cell: cell, Guess: guess, Mined: true,
			})
			result.Outcome = Lost
			return result, nil
		}

		nearby := s.game.NearbyMines(cell)
		Log.WithFields(logrus.Fields{
			"cell": cell, "guess": guess, "nearby": nearby,
		}).Debug("opened a cell")
		result.Moves = append(result.Moves, Move{
			Cell: cell, Guess: guess, Nearby: nearby,
		})

		if err := s.kb.RecordObservation(cell, nearby); err != nil {
			return nil, err
		}

		s.enqueueSafes()
		result.Flagged = append(result.Flagged, s.flagMines(flagged)...)
	}
}

package knowledge

import "fmt"

// Knowledge accumulates everything the player can deduce about a board of
// fixed dimensions: cells proven safe, cells proven mined, moves already
// made and the live sentences that constrain the rest. All three cell sets
// only ever grow; safe and mined stay disjoint.
//
// Knowledge exclusively owns its sentences. Every mutation goes through
// [Knowledge.RecordObservation], which runs deduction to a fixed point
// before returning.
type Knowledge struct {
	height int
	width  int

	movesMade set[Cell]
	safes     set[Cell]
	mines     set[Cell]
	sentences []*Sentence
}

// New creates an empty knowledge base for a height x width board.
func New(height, width int) (*Knowledge, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("invalid board dimensions %dx%d", height, width)
	}
	return &Knowledge{
		height:    height,
		width:     width,
		movesMade: make(set[Cell]),
		safes:     make(set[Cell]),
		mines:     make(set[Cell]),
	}, nil
}

func (k *Knowledge) inBounds(c Cell) bool {
	return 0 <= c.Row && c.Row < k.height && 0 <= c.Col && c.Col < k.width
}

// neighbors returns the in-bounds cells within one row and column of c,
// excluding c itself.
func (k *Knowledge) neighbors(c Cell) []Cell {
	var (
		fromRow, toRow = max(0, c.Row-1), min(c.Row+1, k.height-1)
		fromCol, toCol = max(0, c.Col-1), min(c.Col+1, k.width-1)
		cells          []Cell
	)
	for row := fromRow; row <= toRow; row++ {
		for col := fromCol; col <= toCol; col++ {
			if n := (Cell{row, col}); n != c {
				cells = append(cells, n)
			}
		}
	}
	return cells
}

// markMine records cell as a proven mine and propagates the fact into
// every live sentence.
func (k *Knowledge) markMine(cell Cell) error {
	if k.safes.has(cell) {
		return inconsistencyf("cell %v proven both safe and mined", cell)
	}
	k.mines.add(cell)
	for _, s := range k.sentences {
		if err := s.MarkMine(cell); err != nil {
			return err
		}
	}
	return nil
}

// markSafe records cell as proven safe and propagates the fact into every
// live sentence.
func (k *Knowledge) markSafe(cell Cell) error {
	if k.mines.has(cell) {
		return inconsistencyf("cell %v proven both safe and mined", cell)
	}
	k.safes.add(cell)
	for _, s := range k.sentences {
		s.MarkSafe(cell)
	}
	return nil
}

// RecordObservation ingests one report from the board oracle: cell was
// opened and count of its neighbors are mines. The cell is recorded as a
// played, safe move; its unresolved neighbors become a new sentence
// (already-proven mines are discounted from the count); then deduction runs
// to saturation.
//
// An observation that contradicts prior knowledge, or a cell outside the
// board, is an error and leaves no sound way to continue the session.
func (k *Knowledge) RecordObservation(cell Cell, count int) error {
	if !k.inBounds(cell) {
		return fmt.Errorf("observed %v on %dx%d board: %w",
			cell, k.height, k.width, ErrOutOfBounds)
	}
	if count < 0 {
		return inconsistencyf("observed %v with negative count %d", cell, count)
	}

	k.movesMade.add(cell)
	if err := k.markSafe(cell); err != nil {
		return err
	}

	var (
		unresolved = make(set[Cell])
		adjusted   = count
	)
	for _, n := range k.neighbors(cell) {
		switch {
		case k.safes.has(n):
			// carries no information
		case k.mines.has(n):
			adjusted--
		default:
			unresolved.add(n)
		}
	}
	if adjusted < 0 || adjusted > len(unresolved) {
		return inconsistencyf(
			"observation %v = %d contradicts prior knowledge (%d mine(s) among %d unresolved neighbor(s))",
			cell, count, adjusted, len(unresolved),
		)
	}
	if len(unresolved) > 0 {
		k.sentences = append(k.sentences, &Sentence{unresolved, adjusted})
	}

	return k.saturate()
}

// saturate runs the deduction rules to a fixed point: harvest cells that
// single sentences prove mined or safe, propagate them, drop spent
// sentences, then grow the sentence list by pairwise subset resolution.
// Termination is guaranteed on a finite board: each pass either shrinks a
// sentence or adds a sentence never seen before, and there are finitely
// many distinct (cell set, count) pairs.
func (k *Knowledge) saturate() error {
	for changed := true; changed; {
		changed = false

		newMines := make(set[Cell])
		newSafes := make(set[Cell])
		for _, s := range k.sentences {
			for _, c := range s.KnownMines() {
				newMines.add(c)
			}
			for _, c := range s.KnownSafes() {
				newSafes.add(c)
			}
		}

		for c := range newMines {
			if k.mines.has(c) {
				continue
			}
			if err := k.markMine(c); err != nil {
				return err
			}
			changed = true
		}
		for c := range newSafes {
			if k.safes.has(c) {
				continue
			}
			if err := k.markSafe(c); err != nil {
				return err
			}
			changed = true
		}

		live := k.sentences[:0]
		for _, s := range k.sentences {
			if len(s.cells) > 0 {
				live = append(live, s)
			}
		}
		k.sentences = live

		var derived []*Sentence
		for _, a := range k.sentences {
			for _, b := range k.sentences {
				if a == b {
					continue
				}
				d := a.resolveAgainst(b)
				if d == nil {
					continue
				}
				if d.count > len(d.cells) {
					return inconsistencyf(
						"resolving %v against %v yields impossible sentence %v",
						a, b, d,
					)
				}
				if k.holds(d) || holdsAny(derived, d) {
					continue
				}
				derived = append(derived, d)
				changed = true
			}
		}
		k.sentences = append(k.sentences, derived...)
	}
	return nil
}

// holds reports whether an equal sentence is already in the knowledge base.
func (k *Knowledge) holds(s *Sentence) bool {
	return holdsAny(k.sentences, s)
}

func holdsAny(sentences []*Sentence, s *Sentence) bool {
	for _, other := range sentences {
		if other.Equal(s) {
			return true
		}
	}
	return false
}

// Height returns the board height this knowledge base was built for.
func (k *Knowledge) Height() int { return k.height }

// Width returns the board width this knowledge base was built for.
func (k *Knowledge) Width() int { return k.width }

// Mines returns the cells proven to be mines, in row-major order.
func (k *Knowledge) Mines() []Cell {
	return sortCells(k.mines.items())
}

// Safes returns the cells proven not to be mines, in row-major order.
func (k *Knowledge) Safes() []Cell {
	return sortCells(k.safes.items())
}

// MovesMade returns the cells already played, in row-major order.
func (k *Knowledge) MovesMade() []Cell {
	return sortCells(k.movesMade.items())
}

// IsMine reports whether cell has been proven to be a mine.
func (k *Knowledge) IsMine(cell Cell) bool {
	return k.mines.has(cell)
}

// IsSafe reports whether cell has been proven not to be a mine.
func (k *Knowledge) IsSafe(cell Cell) bool {
	return k.safes.has(cell)
}

// HasPlayed reports whether cell has already been recorded as a move.
func (k *Knowledge) HasPlayed(cell Cell) bool {
	return k.movesMade.has(cell)
}

// SentenceCount returns the number of live sentences, for diagnostics.
func (k *Knowledge) SentenceCount() int {
	return len(k.sentences)
}

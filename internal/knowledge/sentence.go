package knowledge

import (
	"fmt"
	"strings"
)

// Sentence is a single logical constraint: exactly count of cells are
// mines. Sentences are owned by a [Knowledge]; the marking methods are the
// only way to change one.
type Sentence struct {
	cells set[Cell]
	count int
}

// NewSentence builds a sentence over cells claiming that exactly count of
// them are mines. Duplicate cells are collapsed. A count outside
// [0, len(cells)] cannot describe any board and is rejected.
func NewSentence(cells []Cell, count int) (*Sentence, error) {
	s := &Sentence{cells: newSet(cells...), count: count}
	if count < 0 || count > len(s.cells) {
		return nil, inconsistencyf(
			"sentence over %d cell(s) cannot hold %d mine(s)",
			len(s.cells), count,
		)
	}
	return s, nil
}

// Cells returns a copy of the sentence's cell set in row-major order.
func (s *Sentence) Cells() []Cell {
	return sortCells(s.cells.items())
}

// Count returns the number of mines known to lie among the sentence's cells.
func (s *Sentence) Count() int {
	return s.count
}

// Equal reports value equality: same cell set, same count.
func (s *Sentence) Equal(other *Sentence) bool {
	return s.count == other.count && s.cells.equal(other.cells)
}

func (s *Sentence) String() string {
	cells := make([]string, 0, len(s.cells))
	for _, c := range s.Cells() {
		cells = append(cells, c.String())
	}
	return fmt.Sprintf("{%s} = %d", strings.Join(cells, " "), s.count)
}

// KnownMines returns every cell of the sentence if all of them must be
// mines, i.e. the mine count equals the (non-zero) cell count. Otherwise
// nothing can be concluded and it returns nil.
func (s *Sentence) KnownMines() []Cell {
	if s.count != 0 && s.count == len(s.cells) {
		return s.Cells()
	}
	return nil
}

// KnownSafes returns every cell of the sentence if none of them can be a
// mine, i.e. the mine count is zero. Otherwise it returns nil.
func (s *Sentence) KnownSafes() []Cell {
	if s.count == 0 {
		return s.Cells()
	}
	return nil
}

// MarkMine records that cell is a mine: if the sentence mentions it, the
// cell is removed and the count drops by one. Marking a cell the sentence
// does not mention is a no-op. A count driven below zero means the caller
// fed contradictory facts; that is reported, never clamped.
func (s *Sentence) MarkMine(cell Cell) error {
	if !s.cells.has(cell) {
		return nil
	}
	if s.count == 0 {
		return inconsistencyf(
			"cell %v marked mined in all-safe sentence %v", cell, s,
		)
	}
	s.cells.remove(cell)
	s.count--
	return nil
}

// MarkSafe records that cell is not a mine: if the sentence mentions it,
// the cell is removed and the count is unchanged. No-op otherwise.
func (s *Sentence) MarkSafe(cell Cell) {
	s.cells.remove(cell)
}

// resolveAgainst derives the set-difference resolution of s (the superset
// sentence) against sub: if sub's cells all lie within s's, the remainder
// cells hold exactly the difference of the two counts. It returns nil when
// sub is not a proper subset or when the difference would go negative,
// which cannot yield a usable sentence.
func (s *Sentence) resolveAgainst(sub *Sentence) *Sentence {
	if len(sub.cells) == 0 || len(sub.cells) >= len(s.cells) {
		return nil
	}
	if !sub.cells.subsetOf(s.cells) {
		return nil
	}
	if s.count < sub.count {
		return nil
	}
	rest := s.cells.clone()
	for c := range sub.cells {
		rest.remove(c)
	}
	return &Sentence{cells: rest, count: s.count - sub.count}
}

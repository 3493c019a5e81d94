package game

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/minhkhoango/Minesweeper/internal/knowledge"
)

type void struct{}

// Params describes a board to generate.
type Params struct {
	Height    int
	Width     int
	MineCount int
}

func (p Params) Validate() error {
	if p.Height <= 0 || p.Width <= 0 {
		return fmt.Errorf("invalid board dimensions %dx%d", p.Height, p.Width)
	}
	if p.MineCount < 0 || p.MineCount > p.Height*p.Width {
		return fmt.Errorf("cannot place %d mine(s) on a %dx%d board",
			p.MineCount, p.Height, p.Width)
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("%dx%d(%d)", p.Height, p.Width, p.MineCount)
}

// Game holds the hidden mine layout and the flags placed so far. It is the
// oracle side of a session: the solver only ever sees neighbor counts and
// whether a cell it opened was mined.
type Game struct {
	height    int
	width     int
	mineCount int
	mines     map[knowledge.Cell]void
	flagged   map[knowledge.Cell]void
}

// New generates a board with randomly placed mines, by rejection sampling
// over the injected rnd.
func New(p Params, rnd *rand.Rand) (*Game, error) {
	g, err := newEmpty(p.Height, p.Width, p.MineCount)
	if err != nil {
		return nil, err
	}
	for len(g.mines) != p.MineCount {
		cell := knowledge.Cell{Row: rnd.IntN(p.Height), Col: rnd.IntN(p.Width)}
		g.mines[cell] = void{}
	}
	return g, nil
}

// NewFromMines builds a board with a fixed mine layout, mostly for tests
// and replays.
func NewFromMines(height, width int, mines []knowledge.Cell) (*Game, error) {
	g, err := newEmpty(height, width, len(mines))
	if err != nil {
		return nil, err
	}
	for _, cell := range mines {
		if !g.InBounds(cell) {
			return nil, fmt.Errorf("mine %v outside %dx%d board",
				cell, height, width)
		}
		g.mines[cell] = void{}
	}
	if len(g.mines) != len(mines) {
		return nil, fmt.Errorf("duplicate mine cells in layout")
	}
	return g, nil
}

func newEmpty(height, width, mineCount int) (*Game, error) {
	p := Params{Height: height, Width: width, MineCount: mineCount}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Game{
		height:    height,
		width:     width,
		mineCount: mineCount,
		mines:     make(map[knowledge.Cell]void, mineCount),
		flagged:   make(map[knowledge.Cell]void),
	}, nil
}

func (g *Game) Height() int    { return g.height }
func (g *Game) Width() int     { return g.width }
func (g *Game) MineCount() int { return g.mineCount }

func (g *Game) InBounds(c knowledge.Cell) bool {
	return 0 <= c.Row && c.Row < g.height && 0 <= c.Col && c.Col < g.width
}

// IsMine reports whether the cell hides a mine. Cell must be in bounds.
func (g *Game) IsMine(c knowledge.Cell) bool {
	_, ok := g.mines[c]
	return ok
}

// NearbyMines counts the mines within one row and column of the cell, the
// cell itself excluded. This is the observation fed back to the solver
// after it opens a cell. Cell must be in bounds.
func (g *Game) NearbyMines(c knowledge.Cell) int {
	count := 0
	for row := c.Row - 1; row <= c.Row+1; row++ {
		for col := c.Col - 1; col <= c.Col+1; col++ {
			n := knowledge.Cell{Row: row, Col: col}
			if n != c && g.InBounds(n) && g.IsMine(n) {
				count++
			}
		}
	}
	return count
}

// Flag marks a cell as a suspected mine. Flagging is idempotent.
func (g *Game) Flag(c knowledge.Cell) {
	if g.InBounds(c) {
		g.flagged[c] = void{}
	}
}

// Flagged returns the flagged cells in no particular order.
func (g *Game) Flagged() []knowledge.Cell {
	cells := make([]knowledge.Cell, 0, len(g.flagged))
	for c := range g.flagged {
		cells = append(cells, c)
	}
	return cells
}

// Won reports whether the flags placed are exactly the hidden mines.
func (g *Game) Won() bool {
	if len(g.flagged) != len(g.mines) {
		return false
	}
	for c := range g.flagged {
		if !g.IsMine(c) {
			return false
		}
	}
	return true
}

// String renders the hidden layout, X marking mines. Diagnostics only.
func (g *Game) String() string {
	var b strings.Builder
	for row := 0; row < g.height; row++ {
		for col := 0; col < g.width; col++ {
			if g.IsMine(knowledge.Cell{Row: row, Col: col}) {
				b.WriteString("|X")
			} else {
				b.WriteString("| ")
			}
		}
		b.WriteString("|\n")
	}
	return b.String()
}

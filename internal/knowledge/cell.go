package knowledge

import (
	"fmt"
	"slices"
)

// Cell identifies a board position by zero-based row and column.
type Cell struct {
	Row int
	Col int
}

func (c Cell) String() string {
	return fmt.Sprintf("%d:%d", c.Row, c.Col)
}

func cellCompare(a, b Cell) int {
	if a.Row != b.Row {
		return a.Row - b.Row
	}
	return a.Col - b.Col
}

func sortCells(cells []Cell) []Cell {
	slices.SortFunc(cells, cellCompare)
	return cells
}

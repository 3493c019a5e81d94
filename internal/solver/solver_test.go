package solver

import (
	"math/rand/v2"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhkhoango/Minesweeper/internal/game"
	"github.com/minhkhoango/Minesweeper/internal/knowledge"
)

func TestMain(m *testing.M) {
	// Log.SetLevel(logrus.DebugLevel)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func mustSolver(t *testing.T, g *game.Game) *Solver {
	t.Helper()
	s, err := New(g, testRand())
	require.NoError(t, err)
	return s
}

func TestPlayMineFreeBoard(t *testing.T) {
	g, err := game.NewFromMines(3, 3, nil)
	require.NoError(t, err)

	result, err := mustSolver(t, g).Play()
	require.NoError(t, err)
	assert.Equal(t, Won, result.Outcome)
	assert.Empty(t, result.Flagged)
}

func TestPlayAllMines(t *testing.T) {
	g, err := game.NewFromMines(2, 2, []knowledge.Cell{
		{Row: 0, Col: 0}, {Row: 0, Col: 1},
		{Row: 1, Col: 0}, {Row: 1, Col: 1},
	})
	require.NoError(t, err)

	result, err := mustSolver(t, g).Play()
	require.NoError(t, err)
	assert.Equal(t, Lost, result.Outcome)
	require.Len(t, result.Moves, 1)
	assert.True(t, result.Moves[0].Mined)
	assert.True(t, result.Moves[0].Guess, "with no knowledge the first move is a guess")
}

// On a 1x2 board the opening guess decides the game: either it hits the
// mine, or the single observation resolves the whole board.
func TestPlayOneOfTwo(t *testing.T) {
	g, err := game.NewFromMines(1, 2, []knowledge.Cell{{Row: 0, Col: 1}})
	require.NoError(t, err)

	result, err := mustSolver(t, g).Play()
	require.NoError(t, err)

	require.Len(t, result.Moves, 1)
	switch result.Outcome {
	case Won:
		require.Len(t, result.Flagged, 1)
		assert.Equal(t, knowledge.Cell{Row: 0, Col: 1}, result.Flagged[0])
		assert.True(t, g.Won())
	case Lost:
		assert.Equal(t, knowledge.Cell{Row: 0, Col: 1}, result.Moves[0].Cell)
		assert.True(t, result.Moves[0].Mined)
	default:
		t.Fatalf("unexpected outcome %v", result.Outcome)
	}
}

// Whatever the seed does, a run must terminate, never open the same cell
// twice, and only guess when no deduced-safe cell was available.
func TestPlayInvariants(t *testing.T) {
	layouts := [][]knowledge.Cell{
		{{Row: 0, Col: 2}},
		{{Row: 0, Col: 0}, {Row: 4, Col: 4}},
		{{Row: 1, Col: 1}, {Row: 1, Col: 3}, {Row: 3, Col: 1}, {Row: 3, Col: 3}},
	}
	for seed := uint64(1); seed <= 20; seed++ {
		for _, layout := range layouts {
			g, err := game.NewFromMines(5, 5, layout)
			require.NoError(t, err)
			s, err := New(g, rand.New(rand.NewPCG(seed, 2)))
			require.NoError(t, err)

			result, err := s.Play()
			require.NoError(t, err)

			opened := make(map[knowledge.Cell]struct{})
			for _, move := range result.Moves {
				_, seen := opened[move.Cell]
				assert.False(t, seen, "cell %v opened twice", move.Cell)
				opened[move.Cell] = struct{}{}
			}

			switch result.Outcome {
			case Won:
				assert.True(t, g.Won())
				assert.ElementsMatch(t, layout, result.Flagged)
			case Lost:
				last := result.Moves[len(result.Moves)-1]
				assert.True(t, last.Mined)
				assert.Contains(t, layout, last.Cell)
			case Stalled:
				t.Errorf("seed %d stalled on layout %v", seed, layout)
			}
		}
	}
}

// A solver that never has to guess: open corner regions force the full
// deduction chain.
func TestPlayDeducedMinesGetFlagged(t *testing.T) {
	g, err := game.NewFromMines(4, 4, []knowledge.Cell{{Row: 0, Col: 0}})
	require.NoError(t, err)
	s := mustSolver(t, g)

	result, err := s.Play()
	require.NoError(t, err)
	if result.Outcome == Won {
		assert.Equal(t, []knowledge.Cell{{Row: 0, Col: 0}}, result.Flagged)
		assert.True(t, s.Knowledge().IsMine(knowledge.Cell{Row: 0, Col: 0}))
	} else {
		// the opening guess can still hit the lone mine
		require.Len(t, result.Moves, 1)
		assert.Equal(t, knowledge.Cell{Row: 0, Col: 0}, result.Moves[0].Cell)
	}
}

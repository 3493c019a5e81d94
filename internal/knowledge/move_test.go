package knowledge

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestSafeMove(t *testing.T) {
	k := mustNew(t, 3, 3)

	_, ok := k.SafeMove()
	assert.False(t, ok, "empty knowledge base has no safe move")

	require.NoError(t, k.RecordObservation(Cell{1, 1}, 0))

	move, ok := k.SafeMove()
	require.True(t, ok)
	assert.Equal(t, Cell{0, 0}, move, "row-major scan picks the first safe cell")

	// a pure query: asking again changes nothing
	again, ok := k.SafeMove()
	require.True(t, ok)
	assert.Equal(t, move, again)
	assert.Equal(t, []Cell{{1, 1}}, k.MovesMade())
}

func TestSafeMoveExhausted(t *testing.T) {
	k := mustNew(t, 1, 2)
	require.NoError(t, k.RecordObservation(Cell{0, 0}, 1))
	// 0:0 is played, 0:1 is a proven mine
	_, ok := k.SafeMove()
	assert.False(t, ok)
}

func TestRandomMoveNoCandidates(t *testing.T) {
	k := mustNew(t, 1, 2)
	require.NoError(t, k.RecordObservation(Cell{0, 0}, 1))
	_, ok := k.RandomMove(1, testRand())
	assert.False(t, ok)
}

// With no sentences the draw must be uniform over all candidates.
func TestRandomMoveUniform(t *testing.T) {
	k := mustNew(t, 2, 5)
	rnd := testRand()

	const draws = 10_000
	counts := make(map[Cell]int)
	for range draws {
		move, ok := k.RandomMove(8, rnd)
		require.True(t, ok)
		counts[move]++
	}

	require.Len(t, counts, 10, "every candidate must be reachable")
	for cell, n := range counts {
		assert.InDelta(t, draws/10, n, draws/10*0.25,
			"cell %v drawn %d times", cell, n)
	}
}

// Cells under a constraint riskier than the uniform prior must lose to
// candidates that only carry the prior.
func TestRandomMoveAvoidsRiskyCells(t *testing.T) {
	k := mustNew(t, 2, 5)
	// prior is 1/10; the sentence puts 0:0 and 0:1 at a half chance each
	k.sentences = append(k.sentences,
		&Sentence{newSet(Cell{0, 0}, Cell{0, 1}), 1},
	)
	rnd := testRand()

	for range 100 {
		move, ok := k.RandomMove(1, rnd)
		require.True(t, ok)
		assert.NotContains(t, []Cell{{0, 0}, {0, 1}}, move)
	}
}

// A cell's estimate is the maximum over its sentence ratios and the prior,
// so a loose constraint never makes a tightly constrained cell look safer.
func TestRandomMoveMaxOfRatios(t *testing.T) {
	k := mustNew(t, 1, 4)
	k.sentences = append(k.sentences,
		// the loose ratio 1/4 is below the 2/4 prior and changes nothing;
		// the tight 2/3 lifts everything but 0:3 above the prior
		&Sentence{newSet(Cell{0, 0}, Cell{0, 1}, Cell{0, 2}, Cell{0, 3}), 1},
		&Sentence{newSet(Cell{0, 0}, Cell{0, 1}, Cell{0, 2}), 2},
	)
	rnd := testRand()

	for range 100 {
		move, ok := k.RandomMove(2, rnd)
		require.True(t, ok)
		assert.Equal(t, Cell{0, 3}, move)
	}
}

package knowledge

import "math/rand/v2"

// SafeMove returns a cell proven safe that has not been played yet. The
// scan is row-major, so the choice is stable for a given knowledge state.
// The second return is false when no such cell exists. Pure query.
func (k *Knowledge) SafeMove() (Cell, bool) {
	for row := 0; row < k.height; row++ {
		for col := 0; col < k.width; col++ {
			c := Cell{row, col}
			if k.safes.has(c) && !k.movesMade.has(c) {
				return c, true
			}
		}
	}
	return Cell{}, false
}

// RandomMove picks a best-guess cell among those not yet played and not
// proven mined, when deduction has nothing certain to offer.
//
// Every candidate starts at the uniform prior: mines still unaccounted for
// divided by the number of candidates. Each live sentence then raises the
// estimate of the cells it mentions to count/len(cells) if that is higher.
// Folding overlapping sentences with max instead of joint probability is a
// deliberate heuristic; it never under-estimates a cell below what its
// tightest single constraint implies. The draw among minimum-estimate
// candidates is uniform over the injected rnd, so callers control
// determinism. The second return is false when no candidate exists.
func (k *Knowledge) RandomMove(totalMines int, rnd *rand.Rand) (Cell, bool) {
	var candidates []Cell
	for row := 0; row < k.height; row++ {
		for col := 0; col < k.width; col++ {
			c := Cell{row, col}
			if !k.mines.has(c) && !k.movesMade.has(c) {
				candidates = append(candidates, c)
			}
		}
	}
	if len(candidates) == 0 {
		return Cell{}, false
	}

	if len(k.sentences) == 0 {
		return candidates[rnd.IntN(len(candidates))], true
	}

	prior := float64(totalMines-len(k.mines)) / float64(len(candidates))
	estimates := make(map[Cell]float64, len(candidates))
	for _, c := range candidates {
		estimates[c] = prior
	}
	for _, s := range k.sentences {
		if len(s.cells) == 0 {
			continue
		}
		ratio := float64(s.count) / float64(len(s.cells))
		for c := range s.cells {
			if est, ok := estimates[c]; ok && ratio > est {
				estimates[c] = ratio
			}
		}
	}

	best := candidates[:0]
	bestEstimate := estimates[candidates[0]]
	for _, c := range candidates {
		switch est := estimates[c]; {
		case est < bestEstimate:
			bestEstimate = est
			best = candidates[:0]
			best = append(best, c)
		case est == bestEstimate:
			best = append(best, c)
		}
	}
	return best[rnd.IntN(len(best))], true
}

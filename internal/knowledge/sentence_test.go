package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSentence(t *testing.T) {
	tests := []struct {
		name    string
		cells   []Cell
		count   int
		wantErr bool
	}{
		{
			name:  "plain",
			cells: []Cell{{0, 0}, {0, 1}},
			count: 1,
		},
		{
			name:  "zero count",
			cells: []Cell{{0, 0}},
			count: 0,
		},
		{
			name:  "duplicates collapse",
			cells: []Cell{{0, 0}, {0, 0}, {0, 1}},
			count: 2,
		},
		{
			name:    "negative count",
			cells:   []Cell{{0, 0}},
			count:   -1,
			wantErr: true,
		},
		{
			name:    "count above cell count",
			cells:   []Cell{{0, 0}, {0, 1}},
			count:   3,
			wantErr: true,
		},
		{
			name:    "duplicates collapse below count",
			cells:   []Cell{{0, 0}, {0, 0}},
			count:   2,
			wantErr: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, err := NewSentence(test.cells, test.count)
			if test.wantErr {
				var inconsistency InconsistencyError
				assert.ErrorAs(t, err, &inconsistency)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.count, s.Count())
		})
	}
}

func TestSentenceKnownMines(t *testing.T) {
	s, err := NewSentence([]Cell{{0, 0}, {0, 1}}, 2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Cell{{0, 0}, {0, 1}}, s.KnownMines())
	assert.Empty(t, s.KnownSafes())
}

func TestSentenceKnownSafes(t *testing.T) {
	s, err := NewSentence([]Cell{{0, 0}, {0, 1}}, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Cell{{0, 0}, {0, 1}}, s.KnownSafes())
	assert.Empty(t, s.KnownMines())
}

// A fully resolved safe sentence must not also report its cells as mines.
func TestSentenceEmptyZeroNotMines(t *testing.T) {
	s, err := NewSentence(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, s.KnownMines())
}

func TestSentenceUndetermined(t *testing.T) {
	s, err := NewSentence([]Cell{{0, 0}, {0, 1}, {0, 2}}, 1)
	require.NoError(t, err)
	assert.Empty(t, s.KnownMines())
	assert.Empty(t, s.KnownSafes())
}

func TestSentenceMarkMine(t *testing.T) {
	s, err := NewSentence([]Cell{{0, 0}, {0, 1}}, 1)
	require.NoError(t, err)

	require.NoError(t, s.MarkMine(Cell{0, 0}))
	assert.Equal(t, []Cell{{0, 1}}, s.Cells())
	assert.Equal(t, 0, s.Count())

	// absent cell is a no-op, not an error
	require.NoError(t, s.MarkMine(Cell{5, 5}))
	assert.Equal(t, []Cell{{0, 1}}, s.Cells())
	assert.Equal(t, 0, s.Count())

	// driving the count negative is a contradiction
	err = s.MarkMine(Cell{0, 1})
	var inconsistency InconsistencyError
	assert.ErrorAs(t, err, &inconsistency)
}

func TestSentenceMarkSafe(t *testing.T) {
	s, err := NewSentence([]Cell{{0, 0}, {0, 1}}, 1)
	require.NoError(t, err)

	s.MarkSafe(Cell{0, 1})
	assert.Equal(t, []Cell{{0, 0}}, s.Cells())
	assert.Equal(t, 1, s.Count())

	// absent cell is a no-op
	s.MarkSafe(Cell{0, 1})
	assert.Equal(t, []Cell{{0, 0}}, s.Cells())
	assert.Equal(t, 1, s.Count())
}

func TestSentenceEqual(t *testing.T) {
	a, err := NewSentence([]Cell{{0, 0}, {0, 1}}, 1)
	require.NoError(t, err)
	b, err := NewSentence([]Cell{{0, 1}, {0, 0}}, 1)
	require.NoError(t, err)
	c, err := NewSentence([]Cell{{0, 0}, {0, 1}}, 2)
	require.NoError(t, err)
	d, err := NewSentence([]Cell{{0, 0}, {0, 2}}, 1)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}

func TestSentenceString(t *testing.T) {
	s, err := NewSentence([]Cell{{0, 1}, {0, 0}}, 1)
	require.NoError(t, err)
	assert.Equal(t, "{0:0 0:1} = 1", s.String())
}

func TestSentenceResolveAgainst(t *testing.T) {
	sentence := func(count int, cells ...Cell) *Sentence {
		s, err := NewSentence(cells, count)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name string
		a, b *Sentence
		want *Sentence
	}{
		{
			name: "proper subset",
			a:    sentence(1, Cell{0, 0}, Cell{0, 1}, Cell{0, 2}),
			b:    sentence(1, Cell{0, 0}, Cell{0, 1}),
			want: sentence(0, Cell{0, 2}),
		},
		{
			name: "subset carrying mines",
			a:    sentence(2, Cell{0, 0}, Cell{0, 1}, Cell{0, 2}),
			b:    sentence(1, Cell{0, 1}),
			want: sentence(1, Cell{0, 0}, Cell{0, 2}),
		},
		{
			name: "not a subset",
			a:    sentence(1, Cell{0, 0}, Cell{0, 1}),
			b:    sentence(1, Cell{0, 1}, Cell{0, 2}),
			want: nil,
		},
		{
			name: "equal sets resolve to nothing",
			a:    sentence(1, Cell{0, 0}, Cell{0, 1}),
			b:    sentence(1, Cell{0, 0}, Cell{0, 1}),
			want: nil,
		},
		{
			name: "negative difference yields nothing",
			a:    sentence(1, Cell{0, 0}, Cell{0, 1}, Cell{0, 2}),
			b:    sentence(2, Cell{0, 0}, Cell{0, 1}),
			want: nil,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := test.a.resolveAgainst(test.b)
			if test.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.True(t, test.want.Equal(got), "want %v, got %v", test.want, got)
			}
		})
	}
}

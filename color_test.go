package bgmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorOpponent(t *testing.T) {
	opponent, err := White.Opponent()
	require.NoError(t, err)
	assert.Equal(t, Black, opponent)

	opponent, err = Black.Opponent()
	require.NoError(t, err)
	assert.Equal(t, White, opponent)

	_, err = ColorNone.Opponent()
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestColorIndex(t *testing.T) {
	i, err := White.Index()
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	i, err = Black.Index()
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	_, err = ColorNone.Index()
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestColorSignAndBar(t *testing.T) {
	assert.Equal(t, 1, White.Sign())
	assert.Equal(t, -1, Black.Sign())
	assert.Equal(t, 0, ColorNone.Sign())

	bar, err := White.BarIndex()
	require.NoError(t, err)
	assert.EqualValues(t, 0, bar)

	bar, err = Black.BarIndex()
	require.NoError(t, err)
	assert.EqualValues(t, 25, bar)

	_, err = ColorNone.BarIndex()
	assert.ErrorIs(t, err, ErrInvalidColor)
}

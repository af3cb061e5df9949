package bgmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBoard returns a board holding only the given points.
func testBoard(points map[int8]Point, borne [2]int8) Board {
	var b Board
	for idx, point := range points {
		b.Points[idx] = point
	}
	b.Borne = borne
	return b
}

func TestNewBoard(t *testing.T) {
	b := NewBoard()
	assert.Equal(t, NumCheckers, b.Checkers(White))
	assert.Equal(t, NumCheckers, b.Checkers(Black))

	assert.Equal(t, Point{Color: White, Checkers: 2}, b.Points[1])
	assert.Equal(t, Point{Color: White, Checkers: 5}, b.Points[12])
	assert.Equal(t, Point{Color: White, Checkers: 3}, b.Points[17])
	assert.Equal(t, Point{Color: White, Checkers: 5}, b.Points[19])
	assert.Equal(t, Point{Color: Black, Checkers: 2}, b.Points[24])
	assert.Equal(t, Point{Color: Black, Checkers: 5}, b.Points[13])
	assert.Equal(t, Point{Color: Black, Checkers: 3}, b.Points[8])
	assert.Equal(t, Point{Color: Black, Checkers: 5}, b.Points[6])

	assert.Equal(t, 167, b.PipCount(White))
	assert.Equal(t, 167, b.PipCount(Black))
}

func TestDistance(t *testing.T) {
	var b Board
	for idx := int8(0); idx < BoardSpaces; idx++ {
		for _, player := range []Color{White, Black} {
			distance, err := b.Distance(player, idx)
			require.NoError(t, err)
			back, err := b.FromDistance(player, distance)
			require.NoError(t, err)
			assert.Equal(t, idx, back)
		}
	}

	distance, _ := b.Distance(White, 0)
	assert.EqualValues(t, 25, distance)
	distance, _ = b.Distance(Black, 25)
	assert.EqualValues(t, 25, distance)

	_, err := b.Distance(ColorNone, 3)
	assert.ErrorIs(t, err, ErrInvalidColor)
	_, err = b.FromDistance(ColorNone, 3)
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestIsClosed(t *testing.T) {
	b := testBoard(map[int8]Point{
		4: {Color: Black, Checkers: 2},
		5: {Color: Black, Checkers: 1},
		6: {Color: White, Checkers: 3},
	}, [2]int8{})

	closed, err := b.IsClosed(White, 4)
	require.NoError(t, err)
	assert.True(t, closed)

	closed, err = b.IsClosed(White, 5)
	require.NoError(t, err)
	assert.False(t, closed)

	closed, err = b.IsClosed(White, 6)
	require.NoError(t, err)
	assert.False(t, closed)

	closed, err = b.IsClosed(Black, 6)
	require.NoError(t, err)
	assert.True(t, closed)

	_, err = b.IsClosed(White, 0)
	assert.ErrorIs(t, err, ErrInvalidPoint)
	_, err = b.IsClosed(White, 25)
	assert.ErrorIs(t, err, ErrInvalidPoint)
	_, err = b.IsClosed(ColorNone, 4)
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestHasCheckerOnPoint(t *testing.T) {
	b := NewBoard()
	assert.True(t, b.HasCheckerOnPoint(White, 1))
	assert.True(t, b.HasCheckerOnPoint(Black, 24))
	assert.False(t, b.HasCheckerOnPoint(White, 24))
	assert.False(t, b.HasCheckerOnPoint(White, 3))

	b.Points[0] = Point{Color: White, Checkers: 1}
	assert.True(t, b.HasCheckerOnPoint(White, 0))
	assert.False(t, b.HasCheckerOnPoint(White, -1))
	assert.False(t, b.HasCheckerOnPoint(White, BoardSpaces))
}

func TestFarthest(t *testing.T) {
	b := testBoard(map[int8]Point{
		20: {Color: White, Checkers: 2},
		23: {Color: White, Checkers: 1},
		2:  {Color: Black, Checkers: 1},
	}, [2]int8{})

	farthest, err := b.Farthest(White)
	require.NoError(t, err)
	assert.EqualValues(t, 5, farthest)

	farthest, err = b.Farthest(Black)
	require.NoError(t, err)
	assert.EqualValues(t, 2, farthest)

	b.Points[SpaceBarWhite] = Point{Color: White, Checkers: 1}
	farthest, _ = b.Farthest(White)
	assert.EqualValues(t, 25, farthest)

	_, err = b.Farthest(ColorNone)
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestIsValidMoveStart(t *testing.T) {
	b := NewBoard()
	assert.NoError(t, b.IsValidMove(White, Move{Start: 1, Steps: 3}, false))
	assert.ErrorIs(t, b.IsValidMove(White, Move{Start: 24, Steps: 3}, false), ErrInvalidMove)
	assert.ErrorIs(t, b.IsValidMove(White, Move{Start: 2, Steps: 3}, false), ErrInvalidMove)
	assert.ErrorIs(t, b.IsValidMove(White, Move{Start: 1, Steps: 0}, false), ErrInvalidMove)
	assert.ErrorIs(t, b.IsValidMove(White, Move{Start: 1, Steps: 7}, false), ErrInvalidMove)
	assert.ErrorIs(t, b.IsValidMove(White, Move{Start: 26, Steps: 1}, false), ErrInvalidMove)
	assert.ErrorIs(t, b.IsValidMove(ColorNone, Move{Start: 1, Steps: 1}, false), ErrInvalidColor)
}

func TestIsValidMoveClosed(t *testing.T) {
	b := NewBoard()
	// Black holds five checkers on 6.
	assert.ErrorIs(t, b.IsValidMove(White, Move{Start: 1, Steps: 5}, true), ErrInvalidMove)
	// Black holds five checkers on 13.
	assert.ErrorIs(t, b.IsValidMove(White, Move{Start: 12, Steps: 1}, false), ErrInvalidMove)
}

func TestHit(t *testing.T) {
	b := testBoard(map[int8]Point{
		1:  {Color: White, Checkers: 2},
		4:  {Color: Black, Checkers: 1},
		21: {Color: White, Checkers: 1},
	}, [2]int8{})

	require.NoError(t, b.ApplyMove(White, Move{Start: 1, Steps: 3}, false))
	assert.Equal(t, Point{Color: White, Checkers: 1}, b.Points[1])
	assert.Equal(t, Point{Color: White, Checkers: 1}, b.Points[4])
	assert.Equal(t, Point{Color: Black, Checkers: 1}, b.Points[SpaceBarBlack])

	// The hit checker enters and hits back.
	require.NoError(t, b.ApplyMove(Black, Move{Start: SpaceBarBlack, Steps: 4}, false))
	assert.Equal(t, Point{}, b.Points[SpaceBarBlack])
	assert.Equal(t, Point{Color: Black, Checkers: 1}, b.Points[21])
	assert.Equal(t, Point{Color: White, Checkers: 1}, b.Points[SpaceBarWhite])
	assert.Equal(t, 3, b.Checkers(White))
	assert.Equal(t, 1, b.Checkers(Black))

	assert.ErrorIs(t, b.Hit(0), ErrInvalidPoint)
	assert.ErrorIs(t, b.Hit(2), ErrInvalidColor)
}

func TestApplyMoveClosedUnchanged(t *testing.T) {
	b := testBoard(map[int8]Point{
		1: {Color: White, Checkers: 1},
		4: {Color: Black, Checkers: 2},
	}, [2]int8{})
	before := b

	assert.ErrorIs(t, b.ApplyMove(White, Move{Start: 1, Steps: 3}, false), ErrInvalidMove)
	assert.Equal(t, before, b)
}

func TestBearOffGate(t *testing.T) {
	b := testBoard(map[int8]Point{
		12: {Color: White, Checkers: 1},
		24: {Color: White, Checkers: 14},
	}, [2]int8{})
	before := b

	bearOff, err := b.IsBearOff(White, Move{Start: 24, Steps: 1})
	require.NoError(t, err)
	assert.True(t, bearOff)

	assert.ErrorIs(t, b.ApplyMove(White, Move{Start: 24, Steps: 1}, false), ErrInvalidMove)
	assert.Equal(t, before, b)
}

func TestBearOff(t *testing.T) {
	b := testBoard(map[int8]Point{
		20: {Color: White, Checkers: 1},
		23: {Color: White, Checkers: 2},
	}, [2]int8{12, 0})

	// Neither the farthest checker nor an exact roll.
	assert.ErrorIs(t, b.IsValidMove(White, Move{Start: 23, Steps: 6}, false), ErrInvalidMove)

	// Exact roll.
	require.NoError(t, b.ApplyMove(White, Move{Start: 23, Steps: 2}, false))
	assert.EqualValues(t, 13, b.Borne[0])
	assert.Equal(t, Point{Color: White, Checkers: 1}, b.Points[23])

	// Farthest checker with a larger roll.
	require.NoError(t, b.ApplyMove(White, Move{Start: 20, Steps: 6}, false))
	assert.EqualValues(t, 14, b.Borne[0])
	assert.Equal(t, Point{}, b.Points[20])

	// The remaining checker is now the farthest.
	require.NoError(t, b.ApplyMove(White, Move{Start: 23, Steps: 6}, false))
	assert.EqualValues(t, NumCheckers, b.Borne[0])
	assert.Equal(t, NumCheckers, b.Checkers(White))
}

func TestBearOffBlack(t *testing.T) {
	b := testBoard(map[int8]Point{
		3: {Color: Black, Checkers: 1},
		7: {Color: Black, Checkers: 1},
	}, [2]int8{0, 13})

	assert.ErrorIs(t, b.IsValidMove(Black, Move{Start: 3, Steps: 3}, false), ErrInvalidMove)
	require.NoError(t, b.ApplyMove(Black, Move{Start: 7, Steps: 2}, false))
	assert.Equal(t, Point{Color: Black, Checkers: 1}, b.Points[5])
	require.NoError(t, b.ApplyMove(Black, Move{Start: 3, Steps: 3}, false))
	assert.EqualValues(t, 14, b.Borne[1])
}

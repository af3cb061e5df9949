package bgmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rolledGame(board Board, turn Color, die1 int8, die2 int8) *Game {
	g := NewGame(1, Identity{1}, Identity{2})
	g.Board = board
	g.Turn = turn
	g.State = StateRolled
	g.Dice = [2]int8{die1, die2}
	g.calcMaxMoves()
	return g
}

func TestMaxMovesDoublesBearOff(t *testing.T) {
	board := testBoard(map[int8]Point{
		22: {Color: White, Checkers: 2},
		24: {Color: White, Checkers: 1},
		1:  {Color: Black, Checkers: 15},
	}, [2]int8{12, 0})

	g := rolledGame(board, White, 6, 6)
	assert.EqualValues(t, 3, g.MaxMoves)
	assert.Empty(t, g.FirstMoves)
	assert.Equal(t, board, g.Board, "counting must not change the board")
}

func TestMaxMovesDoublesOpening(t *testing.T) {
	g := rolledGame(NewBoard(), White, 3, 3)
	assert.EqualValues(t, 4, g.MaxMoves)

	g = rolledGame(NewBoard(), Black, 4, 4)
	assert.EqualValues(t, 4, g.MaxMoves)
}

func TestMaxMovesDoublesBlockedBar(t *testing.T) {
	board := testBoard(map[int8]Point{
		SpaceBarWhite: {Color: White, Checkers: 1},
		12:            {Color: White, Checkers: 14},
		3:             {Color: Black, Checkers: 2},
		20:            {Color: Black, Checkers: 13},
	}, [2]int8{})

	// The checkers on 12 could move, but the bar comes first.
	g := rolledGame(board, White, 3, 3)
	assert.EqualValues(t, 0, g.MaxMoves)
}

func TestMaxMovesDoublesEnterThenMove(t *testing.T) {
	board := testBoard(map[int8]Point{
		SpaceBarWhite: {Color: White, Checkers: 1},
		24:            {Color: White, Checkers: 14},
		4:             {Color: Black, Checkers: 2},
		6:             {Color: Black, Checkers: 13},
	}, [2]int8{})

	// Enter on 2, then 2 -> 4 is closed, and nothing may bear off while a
	// checker remains outside the home board.
	g := rolledGame(board, White, 2, 2)
	assert.EqualValues(t, 1, g.MaxMoves)

	board.Points[4] = Point{}
	board.Points[6] = Point{}
	board.Points[5] = Point{Color: Black, Checkers: 2}
	board.Points[13] = Point{Color: Black, Checkers: 13}
	g = rolledGame(board, White, 2, 2)
	assert.EqualValues(t, 4, g.MaxMoves)
}

func TestMaxMovesOpening(t *testing.T) {
	g := rolledGame(NewBoard(), White, 6, 5)
	assert.EqualValues(t, 2, g.MaxMoves)
	assert.Contains(t, g.FirstMoves, Move{Start: 1, Steps: 6})
	assert.Contains(t, g.FirstMoves, Move{Start: 12, Steps: 5})
	// 1 -> 6 is closed.
	assert.NotContains(t, g.FirstMoves, Move{Start: 1, Steps: 5})
	for _, move := range g.FirstMoves {
		assert.True(t, move.Steps == 6 || move.Steps == 5)
	}
}

func TestMaxMovesSingle(t *testing.T) {
	board := testBoard(map[int8]Point{
		SpaceBarWhite: {Color: White, Checkers: 1},
		5:             {Color: Black, Checkers: 2},
		8:             {Color: Black, Checkers: 2},
	}, [2]int8{14, 11})

	// Entering with 3 leaves 3 -> 8 closed, and 5 can not enter.
	g := rolledGame(board, White, 3, 5)
	assert.EqualValues(t, 1, g.MaxMoves)
	assert.Empty(t, g.FirstMoves)
}

func TestMaxMovesNone(t *testing.T) {
	board := testBoard(map[int8]Point{
		SpaceBarBlack: {Color: Black, Checkers: 2},
		7:             {Color: Black, Checkers: 13},
		20:            {Color: White, Checkers: 2},
		21:            {Color: White, Checkers: 2},
		22:            {Color: White, Checkers: 11},
	}, [2]int8{})

	// Black enters on 25-steps.
	g := rolledGame(board, Black, 4, 5)
	assert.EqualValues(t, 0, g.MaxMoves)
	assert.Empty(t, g.FirstMoves)

	g = rolledGame(board, Black, 2, 4)
	assert.EqualValues(t, 1, g.MaxMoves)
	assert.Empty(t, g.FirstMoves)

	g = rolledGame(board, Black, 2, 1)
	assert.EqualValues(t, 2, g.MaxMoves)
	assert.Contains(t, g.FirstMoves, Move{Start: SpaceBarBlack, Steps: 2})
}

func TestHasMoveForDie(t *testing.T) {
	board := testBoard(map[int8]Point{
		SpaceBarWhite: {Color: White, Checkers: 1},
		12:            {Color: White, Checkers: 14},
		2:             {Color: Black, Checkers: 2},
	}, [2]int8{})

	assert.False(t, board.hasMoveForDie(White, 2))
	assert.True(t, board.hasMoveForDie(White, 1))
	assert.False(t, board.hasMoveForDie(ColorNone, 1))
}

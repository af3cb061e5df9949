package bgmatch

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testWhite = Identity{1}
	testBlack = Identity{2}
)

func doubleOrRollGame(turn Color) *Game {
	g := NewGame(1, testWhite, testBlack)
	g.State = StateDoubleOrRoll
	g.Turn = turn
	return g
}

func TestInit(t *testing.T) {
	var g Game
	require.NoError(t, g.Init(7, testWhite, testBlack))
	assert.Equal(t, StateStarted, g.State)
	assert.EqualValues(t, 7, g.ID)
	assert.EqualValues(t, 1, g.Multiplier)
	assert.Equal(t, ColorNone, g.Turn)
	assert.Equal(t, NewBoard(), g.Board)

	err := g.Init(8, testWhite, testBlack)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.EqualValues(t, 7, g.ID)
}

func TestNewGame(t *testing.T) {
	g := NewGame(7, testWhite, testBlack)
	var initialized Game
	require.NoError(t, initialized.Init(7, testWhite, testBlack))
	assert.Equal(t, &initialized, g)
}

func TestColorIdentity(t *testing.T) {
	g := NewGame(1, testWhite, testBlack)
	assert.Equal(t, White, g.Color(testWhite))
	assert.Equal(t, Black, g.Color(testBlack))
	assert.Equal(t, ColorNone, g.Color(Identity{3}))
	assert.Equal(t, testBlack, g.Identity(Black))
	assert.True(t, g.Identity(ColorNone).IsZero())
}

func TestOpeningRoll(t *testing.T) {
	g := NewGame(1, testWhite, testBlack)
	require.NoError(t, g.RollDice(White, NewSequenceDice(3)))
	assert.Equal(t, StateStarted, g.State)
	assert.Equal(t, [2]int8{3, 0}, g.Dice)

	err := g.RollDice(White, NewSequenceDice(4))
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, [2]int8{3, 0}, g.Dice)

	require.NoError(t, g.RollDice(Black, NewSequenceDice(5)))
	assert.Equal(t, StateRolled, g.State)
	assert.Equal(t, Black, g.Turn)
	assert.Equal(t, [2]int8{3, 5}, g.Dice)
	assert.EqualValues(t, 2, g.MaxMoves)
	assert.NotEmpty(t, g.FirstMoves)
}

func TestOpeningRollTie(t *testing.T) {
	g := NewGame(1, testWhite, testBlack)
	require.NoError(t, g.SkipDouble(White, NewSequenceDice(4)))
	require.NoError(t, g.SkipDouble(Black, NewSequenceDice(4)))
	assert.Equal(t, StateStarted, g.State)
	assert.Equal(t, [2]int8{0, 0}, g.Dice)
	assert.Equal(t, ColorNone, g.Turn)

	require.NoError(t, g.RollDice(Black, NewSequenceDice(6)))
	require.NoError(t, g.RollDice(White, NewSequenceDice(1)))
	assert.Equal(t, StateRolled, g.State)
	assert.Equal(t, Black, g.Turn)
}

func TestOpeningRollUnseated(t *testing.T) {
	g := NewGame(1, testWhite, testBlack)
	err := g.RollDice(ColorNone, NewSequenceDice(4))
	assert.ErrorIs(t, err, ErrUnauthorizedAction)
}

func TestRollInvalidDie(t *testing.T) {
	g := NewGame(1, testWhite, testBlack)
	err := g.RollDice(White, NewSequenceDice(7))
	assert.ErrorIs(t, err, ErrInvalidDie)
	assert.Equal(t, [2]int8{0, 0}, g.Dice)

	g = doubleOrRollGame(White)
	before := g.Copy()
	err = g.RollDice(White, NewSequenceDice(3, 0))
	assert.ErrorIs(t, err, ErrInvalidDie)
	assert.Equal(t, before, g)
}

func TestRollDice(t *testing.T) {
	g := doubleOrRollGame(White)

	err := g.RollDice(Black, NewSequenceDice(1, 2))
	assert.ErrorIs(t, err, ErrUnauthorizedAction)
	assert.Equal(t, StateDoubleOrRoll, g.State)

	require.NoError(t, g.RollDice(White, NewSequenceDice(6, 5)))
	assert.Equal(t, StateRolled, g.State)
	assert.Equal(t, [2]int8{6, 5}, g.Dice)
	assert.Equal(t, []int8{6, 5}, g.Playable())

	err = g.RollDice(White, NewSequenceDice(1, 2))
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, [2]int8{6, 5}, g.Dice)
}

func TestSkipDouble(t *testing.T) {
	g := doubleOrRollGame(Black)
	require.NoError(t, g.SkipDouble(Black, NewSequenceDice(2, 2)))
	assert.Equal(t, StateRolled, g.State)
	assert.Equal(t, []int8{2, 2, 2, 2}, g.Playable())

	err := g.SkipDouble(Black, NewSequenceDice(1, 2))
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestDoubleDeclined(t *testing.T) {
	g := doubleOrRollGame(White)
	assert.True(t, g.CanDouble(White))
	assert.False(t, g.CanDouble(Black))

	require.NoError(t, g.RequestDouble(White))
	assert.Equal(t, StateDoubled, g.State)

	err := g.RespondToDouble(White, false, nil)
	assert.ErrorIs(t, err, ErrUnauthorizedAction)
	assert.Equal(t, StateDoubled, g.State)

	require.NoError(t, g.RespondToDouble(Black, false, nil))
	assert.Equal(t, StateFinished, g.State)
	assert.Equal(t, White, g.Winner)
	assert.EqualValues(t, 1, g.Multiplier)
}

func TestDoubleAccepted(t *testing.T) {
	g := doubleOrRollGame(White)
	require.NoError(t, g.RequestDouble(White))

	dice := NewSequenceDice(4, 2, 3, 1)
	require.NoError(t, g.RespondToDouble(Black, true, dice))
	assert.EqualValues(t, 2, g.Multiplier)
	assert.Equal(t, White, g.LastDoubled)
	assert.Equal(t, Black, g.Turn)
	assert.Equal(t, StateRolled, g.State)
	assert.Equal(t, [2]int8{4, 2}, g.Dice)
	assert.False(t, g.CanDouble(White))

	// The turn comes back to the side which doubled last, which rolls
	// without a choice.
	require.NoError(t, g.ApplyMoves(Black, [MaxMoves]Move{{24, 4}, {24, 2}}, dice))
	assert.Equal(t, White, g.Turn)
	assert.Equal(t, StateRolled, g.State)
	assert.Equal(t, [2]int8{3, 1}, g.Dice)
	assert.Zero(t, dice.Remaining())

	require.NoError(t, g.ApplyMoves(White, [MaxMoves]Move{{1, 3}, {1, 1}}, dice))
	assert.Equal(t, Black, g.Turn)
	assert.Equal(t, StateDoubleOrRoll, g.State)
	assert.Equal(t, [2]int8{0, 0}, g.Dice)
	assert.True(t, g.CanDouble(Black))
	assert.False(t, g.CanDouble(White))
}

func TestRequestDoubleInvalid(t *testing.T) {
	g := NewGame(1, testWhite, testBlack)
	assert.ErrorIs(t, g.RequestDouble(White), ErrInvalidState)

	g = doubleOrRollGame(White)
	assert.ErrorIs(t, g.RequestDouble(Black), ErrInvalidState)
	assert.Equal(t, StateDoubleOrRoll, g.State)

	g.LastDoubled = White
	assert.ErrorIs(t, g.RequestDouble(White), ErrInvalidState)

	g.LastDoubled = Black
	g.Multiplier = MaxMultiplier
	assert.False(t, g.CanDouble(White))
	assert.ErrorIs(t, g.RequestDouble(White), ErrInvalidState)

	g = doubleOrRollGame(White)
	err := g.RespondToDouble(Black, true, NewSequenceDice(1, 2))
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRespondToDoubleInvalidDie(t *testing.T) {
	g := doubleOrRollGame(White)
	require.NoError(t, g.RequestDouble(White))
	before := g.Copy()

	err := g.RespondToDouble(Black, true, NewSequenceDice(9, 1))
	assert.ErrorIs(t, err, ErrInvalidDie)
	assert.Equal(t, before, g)
}

func TestApplyMovesSentinel(t *testing.T) {
	g := rolledGame(NewBoard(), White, 2, 2)
	moves := [MaxMoves]Move{{1, 2}, {1, 2}, {}, {12, 2}}
	require.NoError(t, g.ApplyMoves(White, moves, nil))

	assert.Zero(t, g.Board.Points[1].Checkers)
	assert.Equal(t, Point{Color: White, Checkers: 2}, g.Board.Points[3])
	assert.Equal(t, Point{Color: White, Checkers: 5}, g.Board.Points[12])
	assert.Equal(t, moves, g.LastMoves)
	assert.Equal(t, Black, g.Turn)
	assert.Equal(t, StateDoubleOrRoll, g.State)
	assert.Equal(t, [2]int8{0, 0}, g.Dice)
	assert.Zero(t, g.MaxMoves)
}

func TestApplyMovesPass(t *testing.T) {
	g := rolledGame(NewBoard(), Black, 6, 5)
	require.NoError(t, g.ApplyMoves(Black, [MaxMoves]Move{}, nil))
	assert.Equal(t, NewBoard(), g.Board)
	assert.Equal(t, White, g.Turn)
}

func TestApplyMovesInvalid(t *testing.T) {
	tests := []struct {
		name   string
		player Color
		moves  [MaxMoves]Move
		err    error
	}{
		{"wrong player", Black, [MaxMoves]Move{{24, 6}}, ErrUnauthorizedAction},
		{"unrolled die", White, [MaxMoves]Move{{1, 4}}, ErrInvalidMove},
		{"die used twice", White, [MaxMoves]Move{{1, 6}, {12, 6}}, ErrInvalidMove},
		{"closed point", White, [MaxMoves]Move{{1, 6}, {1, 5}}, ErrInvalidMove},
		{"empty start", White, [MaxMoves]Move{{2, 6}}, ErrInvalidMove},
		{"opponent checker", White, [MaxMoves]Move{{24, 6}}, ErrInvalidMove},
		{"bear off outside home", White, [MaxMoves]Move{{19, 6}}, ErrInvalidMove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := rolledGame(NewBoard(), White, 6, 5)
			before := g.Copy()
			err := g.ApplyMoves(tt.player, tt.moves, nil)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, before, g)
		})
	}
}

func TestApplyMovesState(t *testing.T) {
	g := doubleOrRollGame(White)
	err := g.ApplyMoves(White, [MaxMoves]Move{{1, 6}}, nil)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestApplyMovesBarFirst(t *testing.T) {
	board := NewBoard()
	board.Points[1].Checkers = 1
	board.Points[SpaceBarWhite] = Point{Color: White, Checkers: 1}

	g := rolledGame(board, White, 6, 5)
	before := g.Copy()
	err := g.ApplyMoves(White, [MaxMoves]Move{{12, 6}, {SpaceBarWhite, 5}}, nil)
	assert.ErrorIs(t, err, ErrInvalidMove)
	assert.Equal(t, before, g)

	require.NoError(t, g.ApplyMoves(White, [MaxMoves]Move{{SpaceBarWhite, 5}, {12, 6}}, nil))
	assert.Equal(t, Point{Color: White, Checkers: 1}, g.Board.Points[5])
	assert.Equal(t, Point{Color: White, Checkers: 1}, g.Board.Points[18])
	assert.False(t, g.Board.HasCheckerOnPoint(White, SpaceBarWhite))
}

func TestApplyMovesHit(t *testing.T) {
	board := testBoard(map[int8]Point{
		1:  {Color: White, Checkers: 15},
		4:  {Color: Black, Checkers: 1},
		20: {Color: Black, Checkers: 14},
	}, [2]int8{})

	g := rolledGame(board, White, 3, 1)
	require.NoError(t, g.ApplyMoves(White, [MaxMoves]Move{{1, 3}}, nil))
	assert.Equal(t, Point{Color: White, Checkers: 1}, g.Board.Points[4])
	assert.Equal(t, Point{Color: Black, Checkers: 1}, g.Board.Points[SpaceBarBlack])
	assert.Equal(t, NumCheckers, g.Board.Checkers(Black))
}

func TestApplyMovesWin(t *testing.T) {
	board := testBoard(map[int8]Point{
		24: {Color: White, Checkers: 1},
		1:  {Color: Black, Checkers: 15},
	}, [2]int8{14, 0})

	g := rolledGame(board, White, 1, 2)
	require.NoError(t, g.ApplyMoves(White, [MaxMoves]Move{{24, 1}}, nil))
	assert.Equal(t, StateFinished, g.State)
	assert.Equal(t, White, g.Winner)
	assert.Equal(t, White, g.Turn)
	assert.EqualValues(t, NumCheckers, g.Board.Borne[0])

	assert.ErrorIs(t, g.RollDice(White, NewSequenceDice(1, 2)), ErrInvalidState)
	assert.ErrorIs(t, g.RollDice(Black, NewSequenceDice(1, 2)), ErrInvalidState)
	assert.ErrorIs(t, g.RequestDouble(Black), ErrInvalidState)
	assert.ErrorIs(t, g.ApplyMoves(White, [MaxMoves]Move{}, nil), ErrInvalidState)
}

func TestApplyMovesMaxMultiplier(t *testing.T) {
	g := rolledGame(NewBoard(), White, 6, 5)
	g.Multiplier = MaxMultiplier

	require.NoError(t, g.ApplyMoves(White, [MaxMoves]Move{{1, 6}, {12, 5}}, NewSequenceDice(3, 1)))
	assert.Equal(t, Black, g.Turn)
	assert.Equal(t, StateRolled, g.State)
	assert.Equal(t, [2]int8{3, 1}, g.Dice)
	assert.False(t, g.CanDouble(Black))
}

func TestCopy(t *testing.T) {
	g := rolledGame(NewBoard(), White, 6, 5)
	c := g.Copy()
	require.Equal(t, g, c)

	c.FirstMoves[0] = Move{}
	c.Board.Points[1].Checkers = 9
	assert.NotEqual(t, Move{}, g.FirstMoves[0])
	assert.EqualValues(t, 2, g.Board.Points[1].Checkers)
}

// greedyMoves plays as many dice as it can, trying starts in a random order.
func greedyMoves(r *rand.Rand, g *Game) ([MaxMoves]Move, int) {
	var moves [MaxMoves]Move
	values := g.Playable()
	board := g.Board

	var n int
	for n < MaxMoves && len(values) != 0 {
		played := false
		for i, v := range values {
			starts := board.legalStarts(g.Turn)
			r.Shuffle(len(starts), func(a, b int) {
				starts[a], starts[b] = starts[b], starts[a]
			})
			for _, start := range starts {
				move := Move{Start: start, Steps: v}
				if board.ApplyMove(g.Turn, move, false) == nil {
					moves[n] = move
					n++
					values = append(values[:i], values[i+1:]...)
					played = true
					break
				}
			}
			if played {
				break
			}
		}
		if !played {
			break
		}
	}
	return moves, n
}

func TestRandomMatches(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		r := rand.New(rand.NewSource(seed))
		dice := DiceFunc(func() int8 {
			return int8(r.Intn(6) + 1)
		})

		g := NewGame(uint64(seed), testWhite, testBlack)
		for step := 0; g.State != StateFinished; step++ {
			require.Less(t, step, 20000, "seed %d did not finish", seed)

			switch g.State {
			case StateStarted:
				require.NoError(t, g.RollDice(White, dice))
				require.NoError(t, g.RollDice(Black, dice))
			case StateDoubleOrRoll:
				if g.CanDouble(g.Turn) && r.Intn(8) == 0 {
					require.NoError(t, g.RequestDouble(g.Turn))
					opponent, err := g.Turn.Opponent()
					require.NoError(t, err)
					require.NoError(t, g.RespondToDouble(opponent, r.Intn(4) != 0, dice))
				} else {
					require.NoError(t, g.RollDice(g.Turn, dice))
				}
			case StateRolled:
				moves, n := greedyMoves(r, g)
				assert.Equal(t, n > 0, g.MaxMoves > 0, "seed %d dice %v", seed, g.Dice)

				turn := g.Turn
				require.NoError(t, g.ApplyMoves(turn, moves, dice), "seed %d moves %s", seed, FormatMoves(moves[:]))
				if g.State != StateFinished {
					assert.NotEqual(t, turn, g.Turn)
				}
			default:
				t.Fatalf("seed %d reached state %s", seed, g.State)
			}

			require.Equal(t, NumCheckers, g.Board.Checkers(White))
			require.Equal(t, NumCheckers, g.Board.Checkers(Black))
			m := g.Multiplier
			require.True(t, m >= 1 && m <= MaxMultiplier && m&(m-1) == 0, "multiplier %d", m)
		}
		assert.NotEqual(t, ColorNone, g.Winner)
	}
}

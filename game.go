package bgmatch

import (
	"fmt"
)

// MaxMultiplier is the highest value of the doubling cube.
const MaxMultiplier = 64

// Game is the state of a match. It is mutated only through its operations,
// each of which either succeeds completely or leaves the game unchanged.
type Game struct {
	ID          uint64
	State       GameState
	White       Identity
	Black       Identity
	Turn        Color
	Winner      Color
	Dice        [2]int8 // 0 means unset.
	Multiplier  int8
	LastMoves   [MaxMoves]Move
	LastDoubled Color
	Board       Board
	MaxMoves    int8   // Legal plays available for the current roll.
	FirstMoves  []Move // First plays which keep the other die playable.
}

// NewGame returns a started match between white and black.
func NewGame(id uint64, white Identity, black Identity) *Game {
	g := startedGame(id, white, black)
	return &g
}

func startedGame(id uint64, white Identity, black Identity) Game {
	return Game{
		ID:         id,
		State:      StateStarted,
		White:      white,
		Black:      black,
		Multiplier: 1,
		Board:      NewBoard(),
	}
}

// Init starts an uninitialized match.
func (g *Game) Init(id uint64, white Identity, black Identity) error {
	if g.State != StateUninitialized {
		return fmt.Errorf("%w: game %d is already initialized", ErrInvalidState, g.ID)
	}
	*g = startedGame(id, white, black)
	return nil
}

// Copy returns a deep copy of the game.
func (g *Game) Copy() *Game {
	newGame := *g
	if g.FirstMoves != nil {
		newGame.FirstMoves = make([]Move, len(g.FirstMoves))
		copy(newGame.FirstMoves, g.FirstMoves)
	}
	return &newGame
}

// Color returns the side played by identity, or ColorNone.
func (g *Game) Color(identity Identity) Color {
	switch identity {
	case g.White:
		return White
	case g.Black:
		return Black
	default:
		return ColorNone
	}
}

// Identity returns the identity playing player.
func (g *Game) Identity(player Color) Identity {
	switch player {
	case White:
		return g.White
	case Black:
		return g.Black
	default:
		return Identity{}
	}
}

// Playable returns the die values of the current roll. Doubles may be played
// four times.
func (g *Game) Playable() []int8 {
	if g.Dice[0] == 0 || g.Dice[1] == 0 {
		return nil
	}
	if g.Dice[0] == g.Dice[1] {
		return []int8{g.Dice[0], g.Dice[0], g.Dice[0], g.Dice[0]}
	}
	return []int8{g.Dice[0], g.Dice[1]}
}

// CanDouble returns whether player may offer a double now.
func (g *Game) CanDouble(player Color) bool {
	return g.checkDouble(player) == nil
}

func (g *Game) checkDouble(player Color) error {
	switch {
	case g.State != StateDoubleOrRoll:
		return fmt.Errorf("%w: doubling is only possible before rolling (state = %s)", ErrInvalidState, g.State)
	case g.Turn != player:
		return fmt.Errorf("%w: it is not %s's turn", ErrInvalidState, player)
	case g.LastDoubled == player:
		return fmt.Errorf("%w: %s doubled last and can not double", ErrInvalidState, player)
	case g.Multiplier >= MaxMultiplier:
		return fmt.Errorf("%w: maximum multiplier %d reached", ErrInvalidState, MaxMultiplier)
	}
	return nil
}

// RequestDouble offers a double to the opponent of player.
func (g *Game) RequestDouble(player Color) error {
	err := g.checkDouble(player)
	if err != nil {
		return err
	}
	g.State = StateDoubled
	return nil
}

// RespondToDouble accepts or declines the double offered to player. An
// accepted double passes the turn to player and rolls for them. A declined
// double ends the match in favor of the side which offered it.
func (g *Game) RespondToDouble(player Color, accept bool, dice DiceSource) error {
	return g.apply(func(next *Game) error {
		return next.respondToDouble(player, accept, dice)
	})
}

func (g *Game) respondToDouble(player Color, accept bool, dice DiceSource) error {
	if g.State != StateDoubled {
		return fmt.Errorf("%w: no double has been offered (state = %s)", ErrInvalidState, g.State)
	}
	opponent, err := g.Turn.Opponent()
	if err != nil {
		return err
	}
	if player != opponent {
		return fmt.Errorf("%w: only %s may respond to the double", ErrUnauthorizedAction, opponent)
	}

	if !accept {
		g.Winner = g.Turn
		g.State = StateFinished
		return nil
	}

	g.Multiplier *= 2
	g.LastDoubled = g.Turn
	g.Turn = player
	return g.roll(dice)
}

// SkipDouble rolls for player without offering a double. During the opening
// roll it contributes player's opening die.
func (g *Game) SkipDouble(player Color, dice DiceSource) error {
	if g.State != StateStarted && g.State != StateDoubleOrRoll {
		return fmt.Errorf("%w: rolling is only possible when started or before a roll (state = %s)", ErrInvalidState, g.State)
	}
	return g.RollDice(player, dice)
}

// RollDice rolls for player. During the opening roll each side contributes
// one die and the higher die takes the first turn; a tie clears both dice to
// be rolled again. Otherwise both dice are rolled for the turn holder.
func (g *Game) RollDice(player Color, dice DiceSource) error {
	return g.apply(func(next *Game) error {
		return next.rollDice(player, dice)
	})
}

func (g *Game) rollDice(player Color, dice DiceSource) error {
	switch g.State {
	case StateStarted:
		return g.rollOpening(player, dice)
	case StateDoubleOrRoll:
		if player != g.Turn {
			return fmt.Errorf("%w: it is not %s's turn to roll", ErrUnauthorizedAction, player)
		}
		return g.roll(dice)
	default:
		return fmt.Errorf("%w: rolling is not possible (state = %s)", ErrInvalidState, g.State)
	}
}

func (g *Game) rollOpening(player Color, dice DiceSource) error {
	i, err := player.Index()
	if err != nil {
		return fmt.Errorf("%w: %s is not seated", ErrUnauthorizedAction, player)
	}
	if g.Dice[i] != 0 {
		return fmt.Errorf("%w: %s already rolled", ErrInvalidState, player)
	}
	g.Dice[i], err = generateDie(dice)
	if err != nil {
		return err
	}
	if g.Dice[0] == 0 || g.Dice[1] == 0 {
		return nil
	}

	switch {
	case g.Dice[0] > g.Dice[1]:
		g.Turn = White
	case g.Dice[0] < g.Dice[1]:
		g.Turn = Black
	default:
		g.Dice[0], g.Dice[1] = 0, 0
		return nil
	}
	g.State = StateRolled
	g.calcMaxMoves()
	return nil
}

// roll rolls both dice for the turn holder.
func (g *Game) roll(dice DiceSource) error {
	var err error
	for i := range g.Dice {
		g.Dice[i], err = generateDie(dice)
		if err != nil {
			return err
		}
	}
	g.State = StateRolled
	g.calcMaxMoves()
	return nil
}

// ApplyMoves plays a batch of moves for player and passes the turn. A
// sentinel move ends the batch early. Each move must use one of the
// remaining die values.
func (g *Game) ApplyMoves(player Color, moves [MaxMoves]Move, dice DiceSource) error {
	return g.apply(func(next *Game) error {
		return next.applyMoves(player, moves, dice)
	})
}

func (g *Game) applyMoves(player Color, moves [MaxMoves]Move, dice DiceSource) error {
	if g.State != StateRolled {
		return fmt.Errorf("%w: the dice are not rolled yet (state = %s)", ErrInvalidState, g.State)
	}
	if player != g.Turn {
		return fmt.Errorf("%w: it is not %s's turn", ErrUnauthorizedAction, player)
	}

	values := g.Playable()
	for i, move := range moves {
		if move.Sentinel() {
			break
		}

		found := -1
		for j, v := range values {
			if v == move.Steps {
				found = j
				break
			}
		}
		if found == -1 {
			return fmt.Errorf("%w: move %d can not be played for %d steps", ErrInvalidMove, i+1, move.Steps)
		}

		onBar, err := g.Board.HasCheckerOnBar(g.Turn)
		if err != nil {
			return err
		}
		bar, _ := g.Turn.BarIndex()
		if onBar && move.Start != bar {
			return fmt.Errorf("%w: %s must enter from the bar first", ErrInvalidMove, g.Turn)
		}

		err = g.Board.ApplyMove(g.Turn, move, true)
		if err != nil {
			return err
		}
		values = append(values[:found], values[found+1:]...)
	}
	g.LastMoves = moves

	i, err := g.Turn.Index()
	if err != nil {
		return err
	}
	if g.Board.Borne[i] == NumCheckers {
		g.Winner = g.Turn
		g.State = StateFinished
		g.MaxMoves, g.FirstMoves = 0, nil
		return nil
	}

	g.Turn, err = g.Turn.Opponent()
	if err != nil {
		return err
	}
	if g.LastDoubled == g.Turn || g.Multiplier >= MaxMultiplier {
		return g.roll(dice)
	}
	g.Dice[0], g.Dice[1] = 0, 0
	g.MaxMoves, g.FirstMoves = 0, nil
	g.State = StateDoubleOrRoll
	return nil
}

// apply runs f against a copy of the game and keeps the result only when f
// succeeds.
func (g *Game) apply(f func(next *Game) error) error {
	next := g.Copy()
	err := f(next)
	if err != nil {
		return err
	}
	*g = *next
	return nil
}

package bgmatch

// calcMaxMoves records how many checkers the turn holder can move with the
// current dice. Moves are tried on copies of the board only.
func (g *Game) calcMaxMoves() {
	g.MaxMoves, g.FirstMoves = 0, nil
	if g.Dice[0] == 0 || g.Dice[1] == 0 {
		return
	}
	if g.Dice[0] == g.Dice[1] {
		g.MaxMoves = countDoubleMoves(g.Board, g.Turn, g.Dice[0])
		return
	}
	g.MaxMoves, g.FirstMoves = countMoves(g.Board, g.Turn, g.Dice[0], g.Dice[1])
}

// countDoubleMoves returns how many times die can be played, up to four. It
// walks from the bar (when occupied) and then from the player's rearmost
// point forward, replaying a start until it fails. Checkers which can not
// enter from the bar block every other start.
func countDoubleMoves(board Board, player Color, die int8) int8 {
	bar, err := player.BarIndex()
	if err != nil {
		return 0
	}

	var count int8
	starts := board.legalStarts(player)
	if starts[0] == bar {
		for count < MaxMoves && board.HasCheckerOnPoint(player, bar) {
			if board.ApplyMove(player, Move{Start: bar, Steps: die}, false) != nil {
				return count
			}
			count++
		}
		starts = board.legalStarts(player)
	}

	for _, start := range starts {
		for count < MaxMoves {
			if board.ApplyMove(player, Move{Start: start, Steps: die}, false) != nil {
				break
			}
			count++
		}
	}
	return count
}

// countMoves returns how many of two different dice can be played, along with
// the first plays which leave the other die playable.
func countMoves(board Board, player Color, die1 int8, die2 int8) (int8, []Move) {
	var maxMoves int8
	var firstMoves []Move
	for _, order := range [2][2]int8{{die1, die2}, {die2, die1}} {
		first, second := order[0], order[1]
		for _, start := range board.legalStarts(player) {
			scratch := board
			move := Move{Start: start, Steps: first}
			if scratch.ApplyMove(player, move, false) != nil {
				continue
			}
			if maxMoves < 1 {
				maxMoves = 1
			}
			if scratch.hasMoveForDie(player, second) {
				firstMoves = append(firstMoves, move)
			}
		}
	}
	if len(firstMoves) != 0 {
		maxMoves = 2
	}
	return maxMoves, firstMoves
}

// hasMoveForDie returns whether any legal start can be played for die.
func (b *Board) hasMoveForDie(player Color, die int8) bool {
	for _, start := range b.legalStarts(player) {
		if b.IsValidMove(player, Move{Start: start, Steps: die}, false) == nil {
			return true
		}
	}
	return false
}

package bgmatch

import (
	"fmt"
	"log"
)

// points are numbered from white's perspective
// white enters at 1 and bears off past 24, black enters at 24 and bears off past 1

// 1-24 for 24 spaces, 2 spaces for bar
const (
	SpaceBarWhite = 0
	SpaceBarBlack = 25
)

const (
	BoardSpaces      = 26
	NumCheckers      = 15
	homeBoardSpaces  = 6
	firstPlayedSpace = 1
	lastPlayedSpace  = 24
)

// Point holds the checkers of a single color.
type Point struct {
	Color    Color
	Checkers int8
}

type Board struct {
	Points [BoardSpaces]Point
	Borne  [2]int8 // Checkers removed from play, indexed by Color.Index.
}

// NewBoard returns a board with the opening layout.
func NewBoard() Board {
	var b Board
	checkers := [4]int8{2, 5, 3, 5}
	spaces := [4]int{1, 12, 17, 19}
	for i := range spaces {
		b.Points[spaces[i]] = Point{Color: White, Checkers: checkers[i]}
		b.Points[BoardSpaces-1-spaces[i]] = Point{Color: Black, Checkers: checkers[i]}
	}
	return b
}

// HasCheckerOnPoint reports whether player has a checker at idx. Indexes
// outside the board hold no checkers, so false is returned for them.
func (b *Board) HasCheckerOnPoint(player Color, idx int8) bool {
	if idx < 0 || idx >= BoardSpaces {
		return false
	}
	return b.Points[idx].Color == player && b.Points[idx].Checkers > 0
}

func (b *Board) HasCheckerOnBar(player Color) (bool, error) {
	bar, err := player.BarIndex()
	if err != nil {
		return false, err
	}
	return b.HasCheckerOnPoint(player, bar), nil
}

// Distance returns the number of steps needed to bear off a checker at idx.
func (b *Board) Distance(player Color, idx int8) (int8, error) {
	switch player {
	case White:
		return BoardSpaces - 1 - idx, nil
	case Black:
		return idx, nil
	default:
		return 0, fmt.Errorf("%w: %s has no direction", ErrInvalidColor, player)
	}
}

// FromDistance returns the point index at the given distance from bearing off.
func (b *Board) FromDistance(player Color, distance int8) (int8, error) {
	switch player {
	case White:
		return BoardSpaces - 1 - distance, nil
	case Black:
		return distance, nil
	default:
		return 0, fmt.Errorf("%w: %s has no direction", ErrInvalidColor, player)
	}
}

// IsClosed returns whether idx holds two or more of the opponent's checkers.
func (b *Board) IsClosed(player Color, idx int8) (bool, error) {
	if idx < firstPlayedSpace || idx > lastPlayedSpace {
		return false, fmt.Errorf("%w: %d", ErrInvalidPoint, idx)
	}
	opponent, err := player.Opponent()
	if err != nil {
		return false, err
	}
	return b.Points[idx].Color == opponent && b.Points[idx].Checkers >= 2, nil
}

// IsBearOff returns whether the move would carry the checker past the last point.
func (b *Board) IsBearOff(player Color, move Move) (bool, error) {
	distance, err := b.Distance(player, move.Start)
	if err != nil {
		return false, err
	}
	return distance <= move.Steps, nil
}

// Farthest returns the distance of the player's rearmost checker, or 0 when
// the player has no checkers in play.
func (b *Board) Farthest(player Color) (int8, error) {
	if _, err := player.Index(); err != nil {
		return 0, err
	}
	var farthest int8
	for idx := int8(0); idx < BoardSpaces; idx++ {
		if !b.HasCheckerOnPoint(player, idx) {
			continue
		}
		distance, _ := b.Distance(player, idx)
		if distance > farthest {
			farthest = distance
		}
	}
	return farthest, nil
}

// IsValidMove returns nil when player may move a checker from move.Start by
// move.Steps. Bar precedence is not checked here. When verbose is set, the
// reason a move is rejected is logged.
func (b *Board) IsValidMove(player Color, move Move, verbose bool) error {
	err := b.validateMove(player, move)
	if err != nil && verbose {
		log.Printf("rejected move %s for %s: %s", move, player, err)
	}
	return err
}

func (b *Board) validateMove(player Color, move Move) error {
	if _, err := player.Index(); err != nil {
		return err
	}
	if move.Start < 0 || move.Start >= BoardSpaces {
		return fmt.Errorf("%w: start %d is off the board", ErrInvalidMove, move.Start)
	} else if move.Steps < 1 || move.Steps > 6 {
		return fmt.Errorf("%w: %d steps", ErrInvalidMove, move.Steps)
	}

	if !b.HasCheckerOnPoint(player, move.Start) {
		return fmt.Errorf("%w: %s has no checker on %d", ErrInvalidMove, player, move.Start)
	}

	distance, _ := b.Distance(player, move.Start)
	if distance <= move.Steps {
		farthest, _ := b.Farthest(player)
		if farthest > homeBoardSpaces {
			return fmt.Errorf("%w: %s can not bear off with checkers outside the home board", ErrInvalidMove, player)
		}
		if distance != farthest && distance != move.Steps {
			return fmt.Errorf("%w: checker on %d is neither the farthest nor %d steps from bearing off", ErrInvalidMove, move.Start, move.Steps)
		}
		return nil
	}

	end, _ := b.FromDistance(player, distance-move.Steps)
	closed, err := b.IsClosed(player, end)
	if err != nil {
		return err
	} else if closed {
		return fmt.Errorf("%w: point %d is closed for %s", ErrInvalidMove, end, player)
	}
	return nil
}

// ApplyMove validates and applies a single checker move, hitting a lone
// opponent checker on the destination. The board is unchanged when an error
// is returned.
func (b *Board) ApplyMove(player Color, move Move, verbose bool) error {
	err := b.IsValidMove(player, move, verbose)
	if err != nil {
		return err
	}

	bearOff, _ := b.IsBearOff(player, move)
	distance, _ := b.Distance(player, move.Start)

	start := &b.Points[move.Start]
	start.Checkers--
	if start.Checkers == 0 {
		start.Color = ColorNone
	}

	if bearOff {
		i, _ := player.Index()
		b.Borne[i]++
		return nil
	}

	end, _ := b.FromDistance(player, distance-move.Steps)
	opponent, _ := player.Opponent()
	if b.Points[end].Color == opponent {
		err = b.Hit(end)
		if err != nil {
			return err
		}
	}
	b.Points[end].Checkers++
	b.Points[end].Color = player
	return nil
}

// Hit moves the checker on idx to its owner's bar.
func (b *Board) Hit(idx int8) error {
	if idx < firstPlayedSpace || idx > lastPlayedSpace {
		return fmt.Errorf("%w: %d", ErrInvalidPoint, idx)
	}
	color := b.Points[idx].Color
	bar, err := color.BarIndex()
	if err != nil {
		return err
	}
	b.Points[bar].Checkers += b.Points[idx].Checkers
	b.Points[bar].Color = color
	b.Points[idx] = Point{}
	return nil
}

// Checkers returns the number of checkers of the player on the board, on the
// bar and borne off.
func (b *Board) Checkers(player Color) int {
	i, err := player.Index()
	if err != nil {
		return 0
	}
	total := int(b.Borne[i])
	for _, point := range b.Points {
		if point.Color == player {
			total += int(point.Checkers)
		}
	}
	return total
}

// PipCount returns the total number of steps the player needs to bear off
// every checker still in play.
func (b *Board) PipCount(player Color) int {
	var pips int
	for idx := int8(0); idx < BoardSpaces; idx++ {
		if !b.HasCheckerOnPoint(player, idx) {
			continue
		}
		distance, err := b.Distance(player, idx)
		if err != nil {
			return 0
		}
		pips += int(distance) * int(b.Points[idx].Checkers)
	}
	return pips
}

// legalStarts returns the indexes a checker may start from: the bar while it
// is occupied, otherwise every playing point ordered from the player's rear.
func (b *Board) legalStarts(player Color) []int8 {
	bar, err := player.BarIndex()
	if err != nil {
		return nil
	}
	if b.HasCheckerOnPoint(player, bar) {
		return []int8{bar}
	}
	starts := make([]int8, 0, lastPlayedSpace)
	for idx := int8(firstPlayedSpace); idx <= lastPlayedSpace; idx++ {
		starts = append(starts, idx)
	}
	if player == Black {
		for i, j := 0, len(starts)-1; i < j; i, j = i+1, j-1 {
			starts[i], starts[j] = starts[j], starts[i]
		}
	}
	return starts
}

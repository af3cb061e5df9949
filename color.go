package bgmatch

import "fmt"

// Color identifies a side. ColorNone marks empty points.
type Color int8

const (
	ColorNone Color = iota
	White
	Black
)

// Opponent returns the opposite side.
func (c Color) Opponent() (Color, error) {
	switch c {
	case White:
		return Black, nil
	case Black:
		return White, nil
	default:
		return ColorNone, fmt.Errorf("%w: %s has no opponent", ErrInvalidColor, c)
	}
}

// Index returns 0 for White and 1 for Black. It is used to address the dice
// and borne-off slots.
func (c Color) Index() (int, error) {
	switch c {
	case White:
		return 0, nil
	case Black:
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: %s has no index", ErrInvalidColor, c)
	}
}

// Sign returns the direction a side moves along the point indexes.
func (c Color) Sign() int {
	switch c {
	case White:
		return 1
	case Black:
		return -1
	default:
		return 0
	}
}

// BarIndex returns the point index holding the side's hit checkers.
func (c Color) BarIndex() (int8, error) {
	switch c {
	case White:
		return SpaceBarWhite, nil
	case Black:
		return SpaceBarBlack, nil
	default:
		return 0, fmt.Errorf("%w: %s has no bar", ErrInvalidColor, c)
	}
}

func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "None"
	}
}

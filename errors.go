package bgmatch

import "errors"

// Operations fail with one of these errors, usually wrapped with the reason.
// A failed operation never changes the game.
var (
	ErrInvalidState       = errors.New("invalid state")
	ErrUnauthorizedAction = errors.New("unauthorized action")
	ErrInvalidMove        = errors.New("invalid move")
	ErrInvalidColor       = errors.New("invalid color")
	ErrInvalidPoint       = errors.New("invalid point")
	ErrInvalidDie         = errors.New("invalid die")
)

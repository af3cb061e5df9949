package bgmatch

import "fmt"

// DiceSource produces one die face per call. The game consumes faces in a
// fixed order: one face per opening roll, then the first and second die of
// every full roll.
type DiceSource interface {
	Generate() int8
}

// DiceFunc adapts a function to a DiceSource.
type DiceFunc func() int8

func (f DiceFunc) Generate() int8 {
	return f()
}

// SequenceDice replays a fixed sequence of faces. It panics when the sequence
// is exhausted.
type SequenceDice struct {
	Faces []int8
	next  int
}

// NewSequenceDice returns a DiceSource producing faces in order.
func NewSequenceDice(faces ...int8) *SequenceDice {
	return &SequenceDice{Faces: faces}
}

func (d *SequenceDice) Generate() int8 {
	if d.next >= len(d.Faces) {
		panic(fmt.Sprintf("dice sequence exhausted after %d faces", len(d.Faces)))
	}
	face := d.Faces[d.next]
	d.next++
	return face
}

// Remaining returns the number of faces not yet generated.
func (d *SequenceDice) Remaining() int {
	return len(d.Faces) - d.next
}

func generateDie(dice DiceSource) (int8, error) {
	face := dice.Generate()
	if face < 1 || face > 6 {
		return 0, fmt.Errorf("%w: dice source produced %d", ErrInvalidDie, face)
	}
	return face, nil
}

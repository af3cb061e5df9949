package bgmatch

import (
	"bytes"
	"fmt"
	"strconv"
)

// MaxMoves is the number of moves in a batch. A doubled roll may be played
// four times.
const MaxMoves = 4

// Move advances the checker on Start by Steps. A zero Steps move marks the end
// of a batch.
type Move struct {
	Start int8
	Steps int8
}

func (m Move) String() string {
	return fmt.Sprintf("%d/%d", m.Start, m.Steps)
}

// Sentinel returns whether the move marks the end of a batch.
func (m Move) Sentinel() bool {
	return m.Steps == 0
}

// FormatMoves formats moves as space separated start/steps pairs, stopping at
// the first sentinel.
func FormatMoves(moves []Move) []byte {
	var out bytes.Buffer
	for _, move := range moves {
		if move.Sentinel() {
			break
		}
		if out.Len() != 0 {
			out.WriteByte(' ')
		}
		out.WriteString(move.String())
	}
	return out.Bytes()
}

// ParseMoves parses up to four start/steps pairs into a batch. Unused slots
// are left as sentinels.
func ParseMoves(fields [][]byte) ([MaxMoves]Move, error) {
	var moves [MaxMoves]Move
	if len(fields) > MaxMoves {
		return moves, fmt.Errorf("%w: at most %d moves may be played", ErrInvalidMove, MaxMoves)
	}
	for i, field := range fields {
		slash := bytes.IndexByte(field, '/')
		if slash == -1 {
			return moves, fmt.Errorf("%w: %q is not in start/steps notation", ErrInvalidMove, field)
		}
		start, err := parseSpace(field[:slash])
		if err != nil {
			return moves, err
		}
		steps, err := strconv.Atoi(string(field[slash+1:]))
		if err != nil || steps < 1 || steps > 6 {
			return moves, fmt.Errorf("%w: %q is not a die value", ErrInvalidMove, field[slash+1:])
		}
		moves[i] = Move{Start: start, Steps: int8(steps)}
	}
	return moves, nil
}

func parseSpace(b []byte) (int8, error) {
	space, err := strconv.Atoi(string(b))
	if err != nil || space < 0 || space >= BoardSpaces {
		return -1, fmt.Errorf("%w: %q is not a point", ErrInvalidMove, b)
	}
	return int8(space), nil
}

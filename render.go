package bgmatch

import (
	"bytes"
	"fmt"
	"strconv"
)

var boardTopBlack = []byte("+13-14-15-16-17-18-+---+19-20-21-22-23-24-+")
var boardBottomBlack = []byte("+12-11-10--9--8--7-+---+-6--5--4--3--2--1-+")

var boardTopWhite = []byte("+12-11-10--9--8--7-+---+-6--5--4--3--2--1-+")
var boardBottomWhite = []byte("+13-14-15-16-17-18-+---+19-20-21-22-23-24-+")

const (
	VerticalBar rune = '\u2502' // │
)

const stackHeight = 5

func checkerSymbol(c Color) string {
	switch c {
	case White:
		return "o"
	case Black:
		return "x"
	default:
		return " "
	}
}

// renderSpace returns the three characters drawn for a point at the given
// height of its stack. Stacks taller than five show their count on top.
func (g *Game) renderSpace(space int8, height int) []byte {
	point := g.Board.Points[space]
	checkers := int(point.Checkers)
	if checkers == 0 || height > checkers || height > stackHeight {
		return []byte("   ")
	}
	if height == stackHeight && checkers > stackHeight {
		return []byte(fmt.Sprintf("%-3s", " "+strconv.Itoa(checkers)))
	}
	return []byte(" " + checkerSymbol(point.Color) + " ")
}

// BoardState renders the board from the perspective of player, whose home
// board is drawn in the lower right.
func (g *Game) BoardState(perspective Color, whiteName string, blackName string) []byte {
	var t bytes.Buffer

	white := perspective != Black
	var top, bottom [12]int8
	for i := 0; i < 12; i++ {
		if white {
			top[i], bottom[i] = int8(12-i), int8(13+i)
		} else {
			top[i], bottom[i] = int8(13+i), int8(12-i)
		}
	}

	player, opponent := White, Black
	playerName, opponentName := whiteName, blackName
	if !white {
		player, opponent = Black, White
		playerName, opponentName = blackName, whiteName
	}
	if playerName == "" {
		playerName = "Waiting..."
	}
	if opponentName == "" {
		opponentName = "Waiting..."
	}
	playerBar, _ := player.BarIndex()
	opponentBar, _ := opponent.BarIndex()
	playerIndex, _ := player.Index()
	opponentIndex, _ := opponent.Index()

	if white {
		t.Write(boardTopWhite)
	} else {
		t.Write(boardTopBlack)
	}
	t.WriteByte('\n')

	const rows = stackHeight*2 + 1
	for row := 0; row < rows; row++ {
		t.WriteRune(VerticalBar)
		for col := 0; col < 12; col++ {
			switch {
			case row < stackHeight:
				t.Write(g.renderSpace(top[col], row+1))
			case row > stackHeight:
				t.Write(g.renderSpace(bottom[col], rows-row))
			default:
				t.WriteString("   ")
			}

			if col == 5 {
				t.WriteRune(VerticalBar)
				switch {
				case row < stackHeight:
					t.Write(g.renderSpace(opponentBar, row+1))
				case row > stackHeight:
					t.Write(g.renderSpace(playerBar, rows-row))
				default:
					t.WriteString("   ")
				}
				t.WriteRune(VerticalBar)
			}
		}
		t.WriteRune(VerticalBar)
		t.WriteString("  ")

		switch row {
		case 0:
			t.WriteString(checkerSymbol(opponent) + " " + opponentName)
			if g.Board.Borne[opponentIndex] != 0 {
				t.WriteString(fmt.Sprintf("  %d off", g.Board.Borne[opponentIndex]))
			}
		case 2:
			if g.Turn == opponent && g.Dice[0] > 0 && g.Dice[1] > 0 {
				t.WriteString(fmt.Sprintf("  %d  %d  ", g.Dice[0], g.Dice[1]))
			} else {
				t.WriteString("  -  -  ")
			}
		case stackHeight:
			t.WriteString(fmt.Sprintf("  cube %d  %s", g.Multiplier, g.State))
		case 8:
			if g.Turn == player && g.Dice[0] > 0 && g.Dice[1] > 0 {
				t.WriteString(fmt.Sprintf("  %d  %d  ", g.Dice[0], g.Dice[1]))
			} else {
				t.WriteString("  -  -  ")
			}
		case 10:
			t.WriteString(checkerSymbol(player) + " " + playerName)
			if g.Board.Borne[playerIndex] != 0 {
				t.WriteString(fmt.Sprintf("  %d off", g.Board.Borne[playerIndex]))
			}
		}
		t.WriteByte('\n')
	}

	if white {
		t.Write(boardBottomWhite)
	} else {
		t.Write(boardBottomBlack)
	}
	t.WriteByte('\n')
	return t.Bytes()
}

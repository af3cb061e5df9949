package server

import (
	"bufio"
	"bytes"
	"fmt"
	"time"

	"codeberg.org/tslocum/bgmatch"
)

type serverGame struct {
	id           uint64
	created      int64
	active       int64
	started      int64
	ended        int64
	name         []byte
	white        *serverClient
	black        *serverClient
	spectators   []*serverClient
	allowedWhite []byte
	allowedBlack []byte
	whiteAccount int
	blackAccount int
	whiteRating  int
	blackRating  int
	counter      uint32
	forfeit      bgmatch.Color // Side which forfeited the match.
	winner       bgmatch.Color
	replay       []string
	*bgmatch.Game
}

func newServerGame(id uint64, name []byte) *serverGame {
	now := time.Now().Unix()
	return &serverGame{
		id:      id,
		created: now,
		active:  now,
		name:    name,
		Game:    &bgmatch.Game{},
	}
}

// dice returns the source of the dice rolled by the next save.
func (g *serverGame) dice(secret []byte) *entropyDice {
	return &entropyDice{
		white:   g.Game.White,
		black:   g.Game.Black,
		id:      g.id,
		counter: g.counter + 1,
		secret:  secret,
	}
}

// record returns the stored form of the match with game, counter and replay
// in place of the current state.
func (g *serverGame) record(game *bgmatch.Game, counter uint32, replay []string) *matchRecord {
	return &matchRecord{
		ID:           g.id,
		Counter:      counter,
		Name:         string(g.name),
		White:        g.playerName(bgmatch.White),
		Black:        g.playerName(bgmatch.Black),
		WhiteAccount: g.whiteAccount,
		BlackAccount: g.blackAccount,
		Created:      g.created,
		Started:      g.started,
		Ended:        g.ended,
		Winner:       g.winner,
		Points:       game.Multiplier,
		Replay:       replay,
		Game:         game,
	}
}

// restore replaces the state of the match with a stored record.
func (g *serverGame) restore(m *matchRecord) {
	g.counter = m.Counter
	g.started, g.ended = m.Started, m.Ended
	g.winner = m.Winner
	g.whiteAccount, g.blackAccount = m.WhiteAccount, m.BlackAccount
	g.replay = m.Replay
	g.Game = m.Game
}

func (g *serverGame) client(player bgmatch.Color) *serverClient {
	switch player {
	case bgmatch.White:
		return g.white
	case bgmatch.Black:
		return g.black
	default:
		return nil
	}
}

func (g *serverGame) playerName(player bgmatch.Color) string {
	if c := g.client(player); c != nil {
		return string(c.name)
	}
	switch player {
	case bgmatch.White:
		return string(g.allowedWhite)
	case bgmatch.Black:
		return string(g.allowedBlack)
	default:
		return ""
	}
}

func (g *serverGame) players() [2]bgmatch.Player {
	var players [2]bgmatch.Player
	for i, player := range []bgmatch.Color{bgmatch.White, bgmatch.Black} {
		rating := g.whiteRating
		if player == bgmatch.Black {
			rating = g.blackRating
		}
		players[i] = bgmatch.Player{
			Color:    player,
			Identity: g.Identity(player),
			Name:     g.playerName(player),
			Rating:   rating / 100,
			Pips:     g.Board.PipCount(player),
			Borne:    g.Board.Borne[i],
		}
	}
	return players
}

func (g *serverGame) playerCount() int8 {
	var c int8
	if g.white != nil {
		c++
	}
	if g.black != nil {
		c++
	}
	return c
}

// ready returns whether both seats are taken by a match which has not
// started yet.
func (g *serverGame) ready() bool {
	return g.State == bgmatch.StateUninitialized && g.white != nil && g.black != nil
}

func (g *serverGame) finished() bool {
	return g.winner != bgmatch.ColorNone
}

func (g *serverGame) inProgress() bool {
	return g.State != bgmatch.StateUninitialized && g.State != bgmatch.StateFinished && !g.finished()
}

// actor returns the side the match is waiting on. During the opening roll
// White is waited on first.
func (g *serverGame) actor() bgmatch.Color {
	if !g.inProgress() {
		return bgmatch.ColorNone
	}
	switch g.State {
	case bgmatch.StateStarted:
		if g.Dice[0] == 0 {
			return bgmatch.White
		}
		return bgmatch.Black
	case bgmatch.StateDoubleOrRoll, bgmatch.StateRolled:
		return g.Turn
	case bgmatch.StateDoubled:
		opponent, _ := g.Turn.Opponent()
		return opponent
	default:
		return bgmatch.ColorNone
	}
}

// terminated returns whether the match may be dropped. Matches in progress
// are kept until they are finished or forfeited.
func (g *serverGame) terminated() bool {
	return g.white == nil && g.black == nil && len(g.spectators) == 0 && !g.inProgress()
}

func (g *serverGame) eachClient(f func(client *serverClient)) {
	if g.white != nil {
		f(g.white)
	}
	if g.black != nil {
		f(g.black)
	}
	for _, spectator := range g.spectators {
		f(spectator)
	}
}

func (g *serverGame) opponent(client *serverClient) *serverClient {
	if g.white == client {
		return g.black
	} else if g.black == client {
		return g.white
	}
	return nil
}

// seatFor returns the free seat client may take, or ColorNone.
func (g *serverGame) seatFor(client *serverClient) bgmatch.Color {
	if len(g.allowedWhite) != 0 {
		switch {
		case g.white == nil && bytes.EqualFold(client.name, g.allowedWhite):
			return bgmatch.White
		case g.black == nil && bytes.EqualFold(client.name, g.allowedBlack):
			return bgmatch.Black
		default:
			return bgmatch.ColorNone
		}
	}
	switch {
	case g.white == nil && g.black == nil:
		if RandInt(2) == 0 {
			return bgmatch.White
		}
		return bgmatch.Black
	case g.white == nil:
		return bgmatch.White
	case g.black == nil:
		return bgmatch.Black
	default:
		return bgmatch.ColorNone
	}
}

func (g *serverGame) addClient(client *serverClient) (spectator bool) {
	player := g.seatFor(client)
	if player == bgmatch.ColorNone {
		for _, spec := range g.spectators {
			if spec == client {
				return true
			}
		}
		client.color = bgmatch.ColorNone
		g.spectators = append(g.spectators, client)
		ev := &bgmatch.EventJoined{
			GameID: g.id,
			Color:  bgmatch.ColorNone,
		}
		ev.Player = string(client.name)
		client.sendEvent(ev)
		g.sendBoard(client)
		return true
	}

	var rating int
	if client.account != nil {
		rating = client.account.rating
	}
	switch player {
	case bgmatch.White:
		g.white = client
		g.whiteRating = rating
	case bgmatch.Black:
		g.black = client
		g.blackRating = rating
	}
	client.color = player
	g.active = time.Now().Unix()

	ev := &bgmatch.EventJoined{
		GameID: g.id,
		Color:  player,
	}
	ev.Player = string(client.name)
	g.eachClient(func(c *serverClient) {
		c.sendEvent(ev)
		g.sendBoard(c)
	})
	return false
}

// removeClient vacates the seat of client or stops it from spectating. A
// player who leaves a seat may take it again while the match is in progress.
func (g *serverGame) removeClient(client *serverClient) {
	switch {
	case g.white == client:
		g.white = nil
	case g.black == client:
		g.black = nil
	default:
		for i, spectator := range g.spectators {
			if spectator == client {
				g.spectators = append(g.spectators[:i], g.spectators[i+1:]...)

				ev := &bgmatch.EventLeft{}
				ev.Player = string(client.name)
				client.sendEvent(ev)
				return
			}
		}
		return
	}
	client.color = bgmatch.ColorNone

	ev := &bgmatch.EventLeft{}
	ev.Player = string(client.name)
	client.sendEvent(ev)
	g.eachClient(func(c *serverClient) {
		c.sendEvent(ev)
		if !c.json {
			g.sendBoard(c)
		}
	})
}

func (g *serverGame) listing(playerName []byte) *bgmatch.GameListing {
	if g.terminated() {
		return nil
	}

	var playerCount int8
	if len(g.allowedWhite) != 0 && (len(playerName) == 0 || (!bytes.EqualFold(g.allowedWhite, playerName) && !bytes.EqualFold(g.allowedBlack, playerName))) {
		playerCount = 2
	} else {
		playerCount = g.playerCount()
	}

	multiplier := g.Multiplier
	if multiplier == 0 {
		multiplier = 1
	}
	return &bgmatch.GameListing{
		ID:         g.id,
		Name:       string(g.name),
		Players:    playerCount,
		Multiplier: multiplier,
		State:      g.State,
	}
}

func (g *serverGame) boardView(client *serverClient) bgmatch.BoardView {
	view := bgmatch.BoardView{
		Game:     g.Game.Copy(),
		Color:    client.color,
		Players:  g.players(),
		Playable: g.Playable(),
		Counter:  g.counter,
	}
	if !g.finished() {
		view.CanDouble = g.CanDouble(client.color)
	} else {
		view.Winner = g.winner
	}
	return view
}

func (g *serverGame) sendBoard(client *serverClient) {
	if client.json {
		client.sendEvent(&bgmatch.EventBoard{
			BoardView: g.boardView(client),
		})
		return
	}

	scanner := bufio.NewScanner(bytes.NewReader(g.BoardState(client.color, g.playerName(bgmatch.White), g.playerName(bgmatch.Black))))
	for scanner.Scan() {
		client.sendNotice(scanner.Text())
	}
}

// replayEntry describes an action of player which is stored with counter.
// Dice rolled by the action follow it.
func replayEntry(counter uint32, player bgmatch.Color, action string, faces []int8) string {
	entry := fmt.Sprintf("%d %s %s", counter, player, action)
	if len(faces) != 0 {
		entry += " dice"
		for _, face := range faces {
			entry += fmt.Sprintf(" %d", face)
		}
	}
	return entry
}

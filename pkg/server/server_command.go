package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"codeberg.org/tslocum/bgmatch"
	"codeberg.org/tslocum/gotext"
)

func (s *server) handleCommands() {
	var cmd serverCommand
	for cmd = range s.commands {
		s.handleCommand(cmd)
	}
}

// runTask runs f on the command goroutine and waits for it to finish.
func (s *server) runTask(f func()) {
	done := make(chan struct{})
	s.commands <- serverCommand{
		task: f,
		done: done,
	}
	<-done
}

func (s *server) handleCommand(cmd serverCommand) {
	if cmd.done != nil {
		defer close(cmd.done)
	}
	if cmd.task != nil {
		cmd.task()
		return
	}

	if cmd.client == nil {
		log.Panicf("nil client with command %s", cmd.command)
	} else if cmd.client.terminating || cmd.client.Terminated() {
		return
	}
	cmd.client.active = time.Now().Unix()

	cmd.command = bytes.TrimSpace(cmd.command)

	firstSpace := bytes.IndexByte(cmd.command, ' ')
	var keyword string
	var startParameters int
	if firstSpace == -1 {
		keyword = string(cmd.command)
		startParameters = len(cmd.command)
	} else {
		keyword = string(cmd.command[:firstSpace])
		startParameters = firstSpace + 1
	}
	if keyword == "" {
		return
	}
	keyword = strings.ToLower(keyword)
	params := bytes.Fields(cmd.command[startParameters:])

	// Require users to send login command first.
	if cmd.client.accountID == -1 {
		switch keyword {
		case bgmatch.CommandLogin, bgmatch.CommandLoginJSON, "lj", bgmatch.CommandRegister, bgmatch.CommandRegisterJSON, "rj":
			s.handleLogin(cmd.client, keyword, params)
		default:
			cmd.client.Terminate(gotext.GetD(cmd.client.language, "You must login before using other commands."))
		}
		return
	}

	clientGame := s.gameByClient(cmd.client)
	if clientGame != nil && clientGame.white != cmd.client && clientGame.black != cmd.client {
		switch keyword {
		case bgmatch.CommandHelp, "h", bgmatch.CommandList, "ls", bgmatch.CommandBoard, "b", bgmatch.CommandLeave, "l", bgmatch.CommandHistory, bgmatch.CommandPong, bgmatch.CommandDisconnect:
			// These commands are allowed to be used by spectators.
		default:
			cmd.client.sendNotice(gotext.GetD(cmd.client.language, "Command ignored: You are spectating this match."))
			return
		}
	}

	switch keyword {
	case bgmatch.CommandHelp, "h":
		s.handleHelp(cmd.client, params)
	case bgmatch.CommandList, "ls":
		cmd.client.sendEvent(s.listGames(cmd.client.name))
	case bgmatch.CommandCreate, "c":
		if clientGame != nil {
			cmd.client.sendNotice(gotext.GetD(cmd.client.language, "Failed to create match: Please leave the match you are in before creating another."))
			return
		}
		s.handleCreate(cmd.client, params)
	case bgmatch.CommandJoin, "j":
		if clientGame != nil {
			cmd.client.sendEvent(&bgmatch.EventFailedJoin{
				Reason: gotext.GetD(cmd.client.language, "Please leave the match you are in before joining another."),
			})
			return
		}
		s.handleJoin(cmd.client, params)
	case bgmatch.CommandLeave, "l":
		if clientGame == nil {
			cmd.client.sendNotice(gotext.GetD(cmd.client.language, "You are not currently in a match."))
			return
		}
		s.handleLeave(cmd.client, clientGame)
	case bgmatch.CommandBoard, "b":
		if clientGame == nil {
			cmd.client.sendNotice(gotext.GetD(cmd.client.language, "You are not currently in a match."))
			return
		}
		clientGame.sendBoard(cmd.client)
	case bgmatch.CommandRoll, "r":
		s.handleRoll(cmd.client, clientGame)
	case bgmatch.CommandDouble, "d":
		s.handleDouble(cmd.client, clientGame)
	case bgmatch.CommandAccept, "a":
		s.handleRespond(cmd.client, clientGame, true)
	case bgmatch.CommandDecline:
		s.handleRespond(cmd.client, clientGame, false)
	case bgmatch.CommandMove, "m", "mv":
		s.handleMove(cmd.client, clientGame, params)
	case bgmatch.CommandHistory:
		s.handleHistory(cmd.client, params)
	case bgmatch.CommandPong:
		// Do nothing.
	case bgmatch.CommandDisconnect:
		cmd.client.Terminate("Client disconnected")
	default:
		cmd.client.sendNotice(gotext.GetD(cmd.client.language, "Unknown command: %s", keyword))
	}
}

func (s *server) handleLogin(c *serverClient, keyword string, params [][]byte) {
	jsonCommand := keyword == bgmatch.CommandLoginJSON || keyword == bgmatch.CommandRegisterJSON || keyword == "lj" || keyword == "rj"
	registerCommand := keyword == bgmatch.CommandRegister || keyword == bgmatch.CommandRegisterJSON || keyword == "rj"
	if jsonCommand {
		c.json = true
		if len(params) == 0 {
			c.Terminate(gotext.GetD(c.language, "Please specify your client name."))
			return
		}
		slashIndex := bytes.IndexRune(params[0], '/')
		if slashIndex != -1 {
			c.language = "bgmatch-" + string(s.matchLanguage(params[0][slashIndex+1:]))
		}
		params = params[1:]
	}

	var a *account
	var username []byte
	var randomUsername bool
	switch {
	case registerCommand:
		if len(params) < 3 {
			c.Terminate(gotext.GetD(c.language, "Please enter an email, username and password."))
			return
		}
		a = &account{
			email:    params[0],
			username: params[1],
			password: bytes.Join(params[2:], []byte("_")),
		}
		err := validateRegistration(a)
		if err != nil {
			c.Terminate(gotext.GetD(c.language, "Failed to register: %s", err))
			return
		}
		password := a.password
		a.password, err = hashPassword(password, s.passwordSalt)
		if err != nil {
			c.Terminate(gotext.GetD(c.language, "Failed to register: %s", err))
			return
		}
		err = s.store.registerAccount(context.Background(), a)
		if err != nil {
			c.Terminate(gotext.GetD(c.language, "Failed to register: %s", err))
			return
		}
		log.Printf("Registered account %d (%s)", a.id, a.username)
		username = a.username
	case len(params) > 1:
		password := bytes.Join(params[1:], []byte("_"))
		found, err := s.store.findAccount(context.Background(), params[0])
		if err != nil && !errors.Is(err, errAccountNotFound) {
			c.Terminate(gotext.GetD(c.language, "Failed to log in: %s", err))
			return
		}
		var match bool
		if found != nil {
			match, err = checkPassword(found, password, s.passwordSalt)
			if err != nil {
				c.Terminate(gotext.GetD(c.language, "Failed to log in: %s", err))
				return
			}
		}
		if !match {
			c.Terminate(gotext.GetD(c.language, "No account was found with the provided username and password. To log in as a guest, do not enter a password."))
			return
		}
		a = found
		username = a.username
	default:
		if len(params) > 0 {
			username = params[0]
		}
		if len(username) == 0 {
			s.clientsLock.Lock()
			username = s.randomUsername()
			s.clientsLock.Unlock()
			randomUsername = true
		} else if !alphaNumericUnderscore.Match(username) {
			c.Terminate(gotext.GetD(c.language, "Invalid username: must contain only letters, numbers and underscores."))
			return
		} else if onlyNumbers.Match(username) {
			c.Terminate(gotext.GetD(c.language, "Invalid username: must contain at least one non-numeric character."))
			return
		} else if len(username) > maxUsernameLength {
			c.Terminate(gotext.GetD(c.language, "Invalid username: must be %d characters or less.", maxUsernameLength))
			return
		}
		if !randomUsername && !bytes.HasPrefix(bytes.ToLower(username), []byte("guest_")) {
			username = append([]byte("Guest_"), username...)
		}
	}

	s.clientsLock.Lock()
	inUse := s.clientByUsername(username) != nil
	if !inUse {
		c.name = username
	}
	clients := len(s.clients)
	s.clientsLock.Unlock()
	if inUse {
		c.Terminate(gotext.GetD(c.language, "That username is already in use."))
		return
	}

	if a != nil {
		c.account = a
		c.accountID = a.id
	} else {
		c.accountID = 0
	}
	c.identity = accountIdentity(c.name)

	s.gamesLock.RLock()
	games := len(s.games)
	s.gamesLock.RUnlock()

	c.sendEvent(&bgmatch.EventWelcome{
		PlayerName: string(c.name),
		Clients:    clients,
		Games:      games,
	})

	log.Printf("Client %d logged in as %s", c.id, c.name)

	// Rejoin match in progress.
	s.gamesLock.RLock()
	var rejoin *serverGame
	for _, g := range s.games {
		if g.inProgress() && g.seatFor(c) != bgmatch.ColorNone {
			rejoin = g
			break
		}
	}
	s.gamesLock.RUnlock()
	if rejoin != nil {
		rejoin.addClient(c)
		c.sendNotice(gotext.GetD(c.language, "Rejoined match: %s", rejoin.name))
	}
}

func (s *server) handleHelp(c *serverClient, params [][]byte) {
	if len(params) > 0 {
		command := string(bytes.ToLower(bytes.Join(params, []byte(" "))))
		commandHelp := bgmatch.HelpText[command]
		if commandHelp == "" {
			c.sendNotice(gotext.GetD(c.language, "Unknown command: %s", command))
			return
		}
		c.sendEvent(&bgmatch.EventHelp{
			Topic:   command,
			Message: command + " " + commandHelp,
		})
		return
	}

	lines := make([]string, len(s.sortedCommands))
	for i, command := range s.sortedCommands {
		lines[i] = command + " " + bgmatch.HelpText[command]
	}
	c.sendEvent(&bgmatch.EventHelp{
		Message: strings.Join(lines, "\n"),
	})
}

func (s *server) listGames(playerName []byte) *bgmatch.EventList {
	ev := &bgmatch.EventList{}

	s.gamesLock.RLock()
	defer s.gamesLock.RUnlock()

	for _, g := range s.games {
		listing := g.listing(playerName)
		if listing == nil {
			continue
		}
		ev.Games = append(ev.Games, *listing)
	}
	return ev
}

func (s *server) handleCreate(c *serverClient, params [][]byte) {
	gameName := bytes.Join(params, []byte(" "))
	if len(bytes.TrimSpace(gameName)) == 0 {
		abbr := "'s"
		lastLetter := c.name[len(c.name)-1]
		if lastLetter == 's' || lastLetter == 'S' {
			abbr = "'"
		}
		gameName = []byte(fmt.Sprintf("%s%s match", c.name, abbr))
	}

	g := newServerGame(<-s.newGameIDs, gameName)
	err := s.store.createMatch(context.Background(), g.record(g.Game, g.counter, nil))
	if err != nil {
		log.Printf("failed to create match %d: %s", g.id, err)
		c.sendNotice(gotext.GetD(c.language, "Failed to create match: The match could not be saved."))
		return
	}

	s.gamesLock.Lock()
	s.games = append(s.games, g)
	s.gamesLock.Unlock()

	g.addClient(c)
	c.sendNotice(gotext.GetD(c.language, "Created match: %s", g.name))
}

func (s *server) handleJoin(c *serverClient, params [][]byte) {
	if len(params) == 0 {
		c.sendNotice(gotext.GetD(c.language, "To join a match please specify its ID or the name of a player in the match."))
		return
	}

	var joinGameID uint64
	if onlyNumbers.Match(params[0]) {
		gameID, err := strconv.ParseUint(string(params[0]), 10, 64)
		if err == nil {
			joinGameID = gameID
		}
	} else {
		s.clientsLock.Lock()
		sc := s.clientByUsername(params[0])
		s.clientsLock.Unlock()
		if sc != nil {
			if g := s.gameByClient(sc); g != nil {
				joinGameID = g.id
			}
		}
	}

	g := s.gameByID(joinGameID)
	if g == nil || g.terminated() {
		c.sendEvent(&bgmatch.EventFailedJoin{
			Reason: gotext.GetD(c.language, "Match not found."),
		})
		return
	}

	spectator := g.addClient(c)
	c.sendNotice(gotext.GetD(c.language, "Joined match: %s", g.name))
	if spectator {
		c.sendNotice(gotext.GetD(c.language, "You are spectating this match."))
		return
	}
	if g.ready() {
		s.startMatch(g)
	}
}

// handleLeave removes c from its match. A player leaving a match in progress
// forfeits it.
func (s *server) handleLeave(c *serverClient, g *serverGame) {
	if c.color != bgmatch.ColorNone && g.inProgress() {
		player := c.color
		g.eachClient(func(client *serverClient) {
			client.sendNotice(gotext.GetD(client.language, "%s left the match and forfeits.", c.name))
		})
		s.forfeit(g, player)
	}
	g.removeClient(c)
}

func (s *server) handleRoll(c *serverClient, g *serverGame) {
	if reason := s.checkPlay(c, g); reason != "" {
		c.sendEvent(&bgmatch.EventFailedRoll{Reason: reason})
		return
	}
	player := c.color
	opening := g.State == bgmatch.StateStarted
	previous := g.Dice

	faces, err := s.play(g, player, bgmatch.CommandRoll, func(game *bgmatch.Game, dice bgmatch.DiceSource) error {
		return game.SkipDouble(player, dice)
	})
	if err != nil {
		c.sendEvent(&bgmatch.EventFailedRoll{Reason: failureReason(c.language, err)})
		return
	}

	ev := &bgmatch.EventRolled{
		Roll1: g.Dice[0],
		Roll2: g.Dice[1],
	}
	ev.Player = string(c.name)
	tie := opening && g.State == bgmatch.StateStarted && g.Dice[0] == 0 && g.Dice[1] == 0
	if tie {
		ev.Roll1, ev.Roll2 = previous[0], previous[1]
		i, _ := player.Index()
		if i == 0 {
			ev.Roll1 = faces[0]
		} else {
			ev.Roll2 = faces[0]
		}
	}
	g.eachClient(func(client *serverClient) {
		client.sendEvent(ev)
		if tie {
			client.sendNotice(gotext.GetD(client.language, "Both players rolled %d. Roll again.", faces[0]))
		}
		g.sendBoard(client)
	})
}

func (s *server) handleDouble(c *serverClient, g *serverGame) {
	if reason := s.checkPlay(c, g); reason != "" {
		c.sendEvent(&bgmatch.EventFailedDouble{Reason: reason})
		return
	}
	player := c.color

	_, err := s.play(g, player, bgmatch.CommandDouble, func(game *bgmatch.Game, dice bgmatch.DiceSource) error {
		return game.RequestDouble(player)
	})
	if err != nil {
		c.sendEvent(&bgmatch.EventFailedDouble{Reason: failureReason(c.language, err)})
		return
	}

	ev := &bgmatch.EventDoubled{
		Multiplier: g.Multiplier * 2,
	}
	ev.Player = string(c.name)
	g.eachClient(func(client *serverClient) {
		client.sendEvent(ev)
		g.sendBoard(client)
	})
}

func (s *server) handleRespond(c *serverClient, g *serverGame, accept bool) {
	if reason := s.checkPlay(c, g); reason != "" {
		c.sendEvent(&bgmatch.EventFailedDouble{Reason: reason})
		return
	}
	player := c.color

	action := bgmatch.CommandDecline
	if accept {
		action = bgmatch.CommandAccept
	}
	_, err := s.play(g, player, action, func(game *bgmatch.Game, dice bgmatch.DiceSource) error {
		return game.RespondToDouble(player, accept, dice)
	})
	if err != nil {
		c.sendEvent(&bgmatch.EventFailedDouble{Reason: failureReason(c.language, err)})
		return
	}

	ev := &bgmatch.EventDoubled{
		Multiplier: g.Multiplier,
		Accepted:   accept,
		Responded:  true,
	}
	ev.Player = string(c.name)
	g.eachClient(func(client *serverClient) {
		client.sendEvent(ev)
	})

	if !accept {
		s.finishMatch(g)
		return
	}
	s.sendRolled(g)
}

func (s *server) handleMove(c *serverClient, g *serverGame, params [][]byte) {
	if reason := s.checkPlay(c, g); reason != "" {
		c.sendEvent(&bgmatch.EventFailedMove{Reason: reason})
		return
	}
	player := c.color

	moves, err := bgmatch.ParseMoves(params)
	if err != nil {
		c.sendEvent(&bgmatch.EventFailedMove{
			Moves:  moves[:],
			Reason: gotext.GetD(c.language, "Invalid moves: %s", err),
		})
		return
	}

	_, err = s.play(g, player, fmt.Sprintf("%s %s", bgmatch.CommandMove, bgmatch.FormatMoves(moves[:])), func(game *bgmatch.Game, dice bgmatch.DiceSource) error {
		return game.ApplyMoves(player, moves, dice)
	})
	if err != nil {
		c.sendEvent(&bgmatch.EventFailedMove{
			Moves:  moves[:],
			Reason: failureReason(c.language, err),
		})
		return
	}

	played := moves[:]
	for i, move := range moves {
		if move.Sentinel() {
			played = moves[:i]
			break
		}
	}
	ev := &bgmatch.EventMoved{
		Moves: played,
	}
	ev.Player = string(c.name)
	g.eachClient(func(client *serverClient) {
		client.sendEvent(ev)
	})

	switch {
	case g.finished():
		s.finishMatch(g)
	case g.State == bgmatch.StateRolled:
		// The dice were rolled without a doubling decision.
		s.sendRolled(g)
	default:
		g.eachClient(func(client *serverClient) {
			g.sendBoard(client)
		})
	}
}

// sendRolled sends the dice rolled for the turn holder and the board.
func (s *server) sendRolled(g *serverGame) {
	ev := &bgmatch.EventRolled{
		Roll1: g.Dice[0],
		Roll2: g.Dice[1],
	}
	ev.Player = g.playerName(g.Turn)
	g.eachClient(func(client *serverClient) {
		client.sendEvent(ev)
		g.sendBoard(client)
	})
}

func (s *server) handleHistory(c *serverClient, params [][]byte) {
	username := c.name
	if len(params) > 0 {
		username = params[0]
	}

	matches, err := s.store.matchHistory(context.Background(), string(username))
	if err != nil {
		log.Printf("failed to retrieve match history of %s: %s", username, err)
		c.sendNotice(gotext.GetD(c.language, "Failed to retrieve match history."))
		return
	}
	c.sendEvent(&bgmatch.EventHistory{
		Username: string(username),
		Matches:  matches,
	})
}

// checkPlay returns the reason c may not act in g, if any.
func (s *server) checkPlay(c *serverClient, g *serverGame) string {
	switch {
	case g == nil:
		return gotext.GetD(c.language, "You are not currently in a match.")
	case c.color == bgmatch.ColorNone:
		return gotext.GetD(c.language, "You are spectating this match.")
	case g.finished():
		return gotext.GetD(c.language, "The match has ended.")
	case g.State == bgmatch.StateUninitialized:
		return gotext.GetD(c.language, "Please wait for an opponent to join the match.")
	}
	return ""
}

// play runs op against a copy of the match and saves the result. The match is
// only changed when the save succeeds. The dice faces rolled by op are
// returned.
func (s *server) play(g *serverGame, player bgmatch.Color, action string, op func(game *bgmatch.Game, dice bgmatch.DiceSource) error) ([]int8, error) {
	dice := g.dice(s.entropy)
	next := g.Game.Copy()
	err := op(next, dice)
	if err != nil {
		return nil, err
	}

	var winner bgmatch.Color
	if next.State == bgmatch.StateFinished {
		winner = next.Winner
	}
	err = s.commit(g, next, player, winner, replayEntry(g.counter+1, player, action, dice.faces))
	if err != nil {
		return nil, err
	}
	return dice.faces, nil
}

// commit saves next as the state of g with the save counter incremented.
// When another save of the match happened first, g is reloaded and
// errStaleMatch is returned.
func (s *server) commit(g *serverGame, next *bgmatch.Game, player bgmatch.Color, winner bgmatch.Color, entry string) error {
	now := time.Now().Unix()
	replay := append(g.replay[:len(g.replay):len(g.replay)], entry)

	record := g.record(next, g.counter+1, replay)
	if winner != bgmatch.ColorNone && !g.finished() {
		record.Winner, record.Ended = winner, now
	}

	err := s.store.saveMatch(context.Background(), record)
	if errors.Is(err, errStaleMatch) {
		log.Printf("Match %d was saved by another operation: %s", g.id, err)
		s.reloadMatch(g)
		return err
	} else if err != nil {
		log.Printf("failed to save match %d: %s", g.id, err)
		return err
	}

	g.Game, g.counter, g.replay, g.active = next, record.Counter, replay, now
	g.winner, g.ended = record.Winner, record.Ended
	return nil
}

func (s *server) reloadMatch(g *serverGame) {
	m, err := s.store.loadMatch(context.Background(), g.id)
	if err != nil {
		log.Printf("failed to reload match %d: %s", g.id, err)
		return
	}
	g.restore(m)
	g.eachClient(func(client *serverClient) {
		g.sendBoard(client)
	})
}

// startMatch initializes a match once both seats are taken. Only the seated
// players may take the seats afterward.
func (s *server) startMatch(g *serverGame) {
	white, black := g.white, g.black
	g.allowedWhite, g.allowedBlack = white.name, black.name
	g.whiteAccount, g.blackAccount = white.accountID, black.accountID
	g.started = time.Now().Unix()

	_, err := s.play(g, bgmatch.ColorNone, "start", func(game *bgmatch.Game, dice bgmatch.DiceSource) error {
		return game.Init(g.id, white.identity, black.identity)
	})
	if err != nil {
		log.Printf("failed to start match %d: %s", g.id, err)
		g.eachClient(func(client *serverClient) {
			client.sendNotice(failureReason(client.language, err))
		})
		return
	}

	log.Printf("Match %d started: %s (White) vs %s (Black)", g.id, white.name, black.name)
	g.eachClient(func(client *serverClient) {
		client.sendNotice(gotext.GetD(client.language, "The match has started. Each player rolls one die to decide who moves first."))
		g.sendBoard(client)
	})
}

// forfeit ends a match in progress in favor of the opponent of player.
func (s *server) forfeit(g *serverGame, player bgmatch.Color) {
	if !g.inProgress() {
		return
	}
	winner, err := player.Opponent()
	if err != nil {
		return
	}

	err = s.commit(g, g.Game.Copy(), player, winner, replayEntry(g.counter+1, player, "forfeit", nil))
	if err != nil {
		log.Printf("failed to forfeit match %d: %s", g.id, err)
		return
	}
	g.forfeit = player
	s.finishMatch(g)
}

// finishMatch records the result of a finished match and announces the
// winner.
func (s *server) finishMatch(g *serverGame) {
	winner := g.winner
	points := g.Multiplier

	whiteRating, blackRating, err := s.store.recordResult(context.Background(), g.record(g.Game, g.counter, g.replay))
	if err != nil {
		log.Printf("failed to record result of match %d: %s", g.id, err)
	} else if whiteRating != 0 || blackRating != 0 {
		g.whiteRating, g.blackRating = whiteRating, blackRating
		if g.white != nil && g.white.account != nil {
			g.white.account.rating = whiteRating
		}
		if g.black != nil && g.black.account != nil {
			g.black.account.rating = blackRating
		}
	}

	log.Printf("Match %d won by %s with %d points", g.id, g.playerName(winner), points)

	ev := &bgmatch.EventWin{
		Points: points,
	}
	ev.Player = g.playerName(winner)
	g.eachClient(func(client *serverClient) {
		client.sendEvent(ev)
		g.sendBoard(client)
	})

	for _, player := range []bgmatch.Color{bgmatch.White, bgmatch.Black} {
		client := g.client(player)
		if client == nil {
			continue
		}
		opponent, _ := player.Opponent()
		rating := whiteRating
		if player == bgmatch.Black {
			rating = blackRating
		}
		s.mailResult(client.account, g.playerName(opponent), player == winner, points, rating)
	}
}

// failureReason returns the message shown to a client when an operation
// fails.
func failureReason(language string, err error) string {
	switch {
	case errors.Is(err, bgmatch.ErrUnauthorizedAction):
		return gotext.GetD(language, "It is not your turn.")
	case errors.Is(err, bgmatch.ErrInvalidState):
		return gotext.GetD(language, "That action is not possible at this time.")
	case errors.Is(err, bgmatch.ErrInvalidMove):
		return gotext.GetD(language, "Illegal move.")
	case errors.Is(err, errStaleMatch):
		return gotext.GetD(language, "The match was changed by another operation. The board has been reloaded.")
	case errors.Is(err, bgmatch.ErrInvalidColor), errors.Is(err, bgmatch.ErrInvalidPoint), errors.Is(err, bgmatch.ErrInvalidDie):
		return err.Error()
	default:
		return gotext.GetD(language, "The match could not be saved.")
	}
}

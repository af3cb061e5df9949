package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"codeberg.org/tslocum/bgmatch"
	"codeberg.org/tslocum/gotext"
)

type serverClient struct {
	id          int
	json        bool
	name        []byte
	language    string
	account     *account
	accountID   int
	identity    bgmatch.Identity
	connected   int64
	active      int64
	lastPing    int64
	commands    chan []byte
	color       bgmatch.Color
	terminating bool
	bgmatch.Client
}

func (c *serverClient) sendEvent(e interface{}) {
	// JSON formatted messages.
	if c.json {
		switch ev := e.(type) {
		case *bgmatch.EventWelcome:
			ev.Type = bgmatch.EventTypeWelcome
		case *bgmatch.EventHelp:
			ev.Type = bgmatch.EventTypeHelp
		case *bgmatch.EventPing:
			ev.Type = bgmatch.EventTypePing
		case *bgmatch.EventNotice:
			ev.Type = bgmatch.EventTypeNotice
		case *bgmatch.EventList:
			ev.Type = bgmatch.EventTypeList
		case *bgmatch.EventJoined:
			ev.Type = bgmatch.EventTypeJoined
		case *bgmatch.EventFailedJoin:
			ev.Type = bgmatch.EventTypeFailedJoin
		case *bgmatch.EventLeft:
			ev.Type = bgmatch.EventTypeLeft
		case *bgmatch.EventBoard:
			ev.Type = bgmatch.EventTypeBoard
		case *bgmatch.EventRolled:
			ev.Type = bgmatch.EventTypeRolled
		case *bgmatch.EventFailedRoll:
			ev.Type = bgmatch.EventTypeFailedRoll
		case *bgmatch.EventDoubled:
			ev.Type = bgmatch.EventTypeDoubled
		case *bgmatch.EventFailedDouble:
			ev.Type = bgmatch.EventTypeFailedDouble
		case *bgmatch.EventMoved:
			ev.Type = bgmatch.EventTypeMoved
		case *bgmatch.EventFailedMove:
			ev.Type = bgmatch.EventTypeFailedMove
		case *bgmatch.EventWin:
			ev.Type = bgmatch.EventTypeWin
		case *bgmatch.EventHistory:
			ev.Type = bgmatch.EventTypeHistory
		default:
			log.Panicf("unknown event type %+v", ev)
		}

		buf, err := json.Marshal(e)
		if err != nil {
			panic(err)
		}
		c.Write(buf)
		return
	}

	// Human-readable messages.
	switch ev := e.(type) {
	case *bgmatch.EventWelcome:
		c.Write([]byte(fmt.Sprintf("welcome %s there are %d clients playing %d matches.", ev.PlayerName, ev.Clients, ev.Games)))
	case *bgmatch.EventHelp:
		c.Write([]byte("helpstart Help text:"))
		for _, line := range strings.Split(ev.Message, "\n") {
			c.Write([]byte(fmt.Sprintf("help %s", line)))
		}
		c.Write([]byte("helpend End of help text."))
	case *bgmatch.EventPing:
		c.Write([]byte(fmt.Sprintf("ping %s", ev.Message)))
	case *bgmatch.EventNotice:
		c.Write([]byte(fmt.Sprintf("notice %s", ev.Message)))
	case *bgmatch.EventList:
		c.Write([]byte("liststart Matches list:"))
		for _, g := range ev.Games {
			name := "(No name)"
			if g.Name != "" {
				name = g.Name
			}
			c.Write([]byte(fmt.Sprintf("game %d %d %d %s %s", g.ID, g.Players, g.Multiplier, g.State, name)))
		}
		c.Write([]byte("listend End of matches list."))
	case *bgmatch.EventJoined:
		c.Write([]byte(fmt.Sprintf("joined %d %s %s", ev.GameID, ev.Color, ev.Player)))
	case *bgmatch.EventFailedJoin:
		c.Write([]byte(fmt.Sprintf("failedjoin %s", ev.Reason)))
	case *bgmatch.EventLeft:
		c.Write([]byte(fmt.Sprintf("left %s", ev.Player)))
	case *bgmatch.EventBoard:
		c.Write([]byte(fmt.Sprintf("board %d %s %s", ev.Game.ID, ev.Game.State, ev.Game.Turn)))
	case *bgmatch.EventRolled:
		c.Write([]byte(fmt.Sprintf("rolled %s %d %d", ev.Player, ev.Roll1, ev.Roll2)))
	case *bgmatch.EventFailedRoll:
		c.Write([]byte(fmt.Sprintf("failedroll %s", ev.Reason)))
	case *bgmatch.EventDoubled:
		switch {
		case !ev.Responded:
			c.Write([]byte(fmt.Sprintf("doubled %s %d", ev.Player, ev.Multiplier)))
		case ev.Accepted:
			c.Write([]byte(fmt.Sprintf("accepted %s %d", ev.Player, ev.Multiplier)))
		default:
			c.Write([]byte(fmt.Sprintf("declined %s %d", ev.Player, ev.Multiplier)))
		}
	case *bgmatch.EventFailedDouble:
		c.Write([]byte(fmt.Sprintf("faileddouble %s", ev.Reason)))
	case *bgmatch.EventMoved:
		c.Write([]byte(fmt.Sprintf("moved %s %s", ev.Player, bgmatch.FormatMoves(ev.Moves))))
	case *bgmatch.EventFailedMove:
		c.Write([]byte(fmt.Sprintf("failedmove %s %s", bgmatch.FormatMoves(ev.Moves), ev.Reason)))
	case *bgmatch.EventWin:
		c.Write([]byte(fmt.Sprintf("win %s wins %d points!", ev.Player, ev.Points)))
	case *bgmatch.EventHistory:
		c.Write([]byte(fmt.Sprintf("historystart %s", ev.Username)))
		for _, m := range ev.Matches {
			c.Write([]byte(fmt.Sprintf("history %d %d %s %s %d", m.ID, m.Ended, m.Opponent, m.Winner, m.Points)))
		}
		c.Write([]byte("historyend End of match history."))
	default:
		log.Printf("warning: skipped sending unknown event to non-json client: %+v", ev)
	}
}

func (c *serverClient) sendNotice(message string) {
	c.sendEvent(&bgmatch.EventNotice{
		Message: message,
	})
}

func (c *serverClient) label() string {
	if len(c.name) > 0 {
		return string(c.name)
	}
	return strconv.Itoa(c.id)
}

func (c *serverClient) Terminate(reason string) {
	if c.Terminated() || c.terminating {
		return
	}
	c.terminating = true

	var extra string
	if reason != "" {
		extra = ": " + reason
	}
	c.sendNotice(gotext.GetD(c.language, "Connection terminated") + extra)

	go func() {
		time.Sleep(time.Second)
		c.Client.Terminate(reason)
	}()
}

func logClientRead(msg []byte) {
	msgLower := bytes.ToLower(msg)
	var passwordField int
	switch {
	case bytes.HasPrefix(msgLower, []byte("login ")):
		passwordField = 2
	case bytes.HasPrefix(msgLower, []byte("loginjson ")), bytes.HasPrefix(msgLower, []byte("lj ")), bytes.HasPrefix(msgLower, []byte("register ")):
		passwordField = 3
	case bytes.HasPrefix(msgLower, []byte("registerjson ")), bytes.HasPrefix(msgLower, []byte("rj ")):
		passwordField = 4
	}
	if passwordField != 0 {
		split := bytes.Split(msg, []byte(" "))
		for i := passwordField; i < len(split); i++ {
			split[i] = []byte("*******")
		}
		log.Printf("<- %s", bytes.Join(split, []byte(" ")))
	} else if !bytes.HasPrefix(msgLower, []byte("list")) && !bytes.HasPrefix(msgLower, []byte("ls")) && !bytes.HasPrefix(msgLower, []byte("pong")) {
		log.Printf("<- %s", msg)
	}
}

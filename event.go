package bgmatch

// events are always received FROM the server

const (
	EventTypeWelcome      = "welcome"
	EventTypeHelp         = "help"
	EventTypePing         = "ping"
	EventTypeNotice       = "notice"
	EventTypeList         = "list"
	EventTypeJoined       = "joined"
	EventTypeFailedJoin   = "failedjoin"
	EventTypeLeft         = "left"
	EventTypeBoard        = "board"
	EventTypeRolled       = "rolled"
	EventTypeFailedRoll   = "failedroll"
	EventTypeDoubled      = "doubled"
	EventTypeFailedDouble = "faileddouble"
	EventTypeMoved        = "moved"
	EventTypeFailedMove   = "failedmove"
	EventTypeWin          = "win"
	EventTypeHistory      = "history"
)

type Event struct {
	Type   string
	Player string
}

type EventWelcome struct {
	Event
	PlayerName string
	Clients    int
	Games      int
}

type EventHelp struct {
	Event
	Topic   string
	Message string
}

type EventPing struct {
	Event
	Message string
}

type EventNotice struct {
	Event
	Message string
}

type GameListing struct {
	ID         uint64
	Name       string
	Players    int8
	Multiplier int8
	State      GameState
}

type EventList struct {
	Event
	Games []GameListing
}

type EventJoined struct {
	Event
	GameID uint64
	Color  Color
}

type EventFailedJoin struct {
	Event
	Reason string
}

type EventLeft struct {
	Event
}

// BoardView is the state of a match as sent to a client.
type BoardView struct {
	*Game
	Color     Color // Side of the receiving client, ColorNone for spectators.
	Players   [2]Player
	Playable  []int8
	Counter   uint32
	CanDouble bool
}

type EventBoard struct {
	Event
	BoardView
}

type EventRolled struct {
	Event
	Roll1 int8
	Roll2 int8
}

type EventFailedRoll struct {
	Event
	Reason string
}

type EventDoubled struct {
	Event
	Multiplier int8
	Accepted   bool
	Responded  bool
}

type EventFailedDouble struct {
	Event
	Reason string
}

type EventMoved struct {
	Event
	Moves []Move
}

type EventFailedMove struct {
	Event
	Moves  []Move
	Reason string
}

type EventWin struct {
	Event
	Points int8
}

type HistoryMatch struct {
	ID       uint64
	Started  int64
	Ended    int64
	White    string
	Black    string
	Winner   Color
	Points   int8
	Opponent string
}

type EventHistory struct {
	Event
	Username string
	Matches  []*HistoryMatch
}

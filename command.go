package bgmatch

// commands are always sent TO the server

const (
	CommandLogin        = "login"        // Log in with username and password, or as a guest.
	CommandLoginJSON    = "loginjson"    // Log in and receive JSON formatted events.
	CommandRegister     = "register"     // Register an account.
	CommandRegisterJSON = "registerjson" // Register an account and receive JSON formatted events.
	CommandHelp         = "help"         // Print help information.
	CommandList         = "list"         // List available matches.
	CommandCreate       = "create"       // Create match.
	CommandJoin         = "join"         // Join match.
	CommandLeave        = "leave"        // Leave match.
	CommandBoard        = "board"        // Print current board state.
	CommandRoll         = "roll"         // Roll dice without doubling.
	CommandDouble       = "double"       // Offer a double.
	CommandAccept       = "accept"       // Accept the double offered by the opponent.
	CommandDecline      = "decline"      // Decline the double offered by the opponent.
	CommandMove         = "move"         // Move checkers.
	CommandHistory      = "history"      // List finished matches of a player.
	CommandPong         = "pong"         // Response to server ping.
	CommandDisconnect   = "disconnect"   // Disconnect from server.
)

var HelpText = map[string]string{
	CommandLogin:        "[username] [password] - Log in. A random username is assigned when none is provided.",
	CommandLoginJSON:    "<client>[/language] [username] [password] - Log in and receive JSON formatted events.",
	CommandRegister:     "<email> <username> <password> - Register an account.",
	CommandRegisterJSON: "<client>[/language] <email> <username> <password> - Register an account and receive JSON formatted events.",
	CommandHelp:         "[command] - Request help for all commands, or optionally a specific command.",
	CommandList:         "- List all matches.",
	CommandCreate:       "[name] - Create a match.",
	CommandJoin:         "<id> - Join match by match ID.",
	CommandLeave:        "- Leave match.",
	CommandBoard:        "- Print current board state in human-readable form.",
	CommandRoll:         "- Roll dice. During the opening roll each player rolls one die.",
	CommandDouble:       "- Offer a double to your opponent instead of rolling.",
	CommandAccept:       "- Accept the double offered by your opponent.",
	CommandDecline:      "- Decline the double offered by your opponent. Your opponent wins the match.",
	CommandMove:         "<start>/<steps> [start/steps]... - Move checkers. Points are numbered 1-24 from white's side, the bar is 0 for white and 25 for black.",
	CommandHistory:      "[username] - List finished matches of a player, yourself by default.",
	CommandPong:         "<message> - Sent in response to server ping event to prevent the connection from timing out.",
	CommandDisconnect:   "- Disconnect from the server.",
}

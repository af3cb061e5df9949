package bgmatch

// Client is a connection to the server over which commands are read and
// events are written.
type Client interface {
	Address() string
	HandleReadWrite()
	Write(message []byte)
	Terminate(reason string)
	Terminated() bool
}

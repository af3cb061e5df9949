package server

import (
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/tslocum/bgmatch"
)

var _ bgmatch.Client = &httpClient{}

// httpClient holds the events produced for an HTTP API session until they
// are returned in the response to the next request.
type httpClient struct {
	address    string
	events     [][]byte
	eventsLock sync.Mutex
	terminated atomic.Bool
	active     atomic.Int64
}

func newHTTPClient(address string) *httpClient {
	c := &httpClient{
		address: address,
	}
	c.touch()
	return c
}

func (c *httpClient) Address() string {
	return c.address
}

// HandleReadWrite does nothing. Commands arrive with each request.
func (c *httpClient) HandleReadWrite() {
}

func (c *httpClient) Write(message []byte) {
	if c.Terminated() {
		return
	}

	buf := make([]byte, len(message))
	copy(buf, message)

	c.eventsLock.Lock()
	c.events = append(c.events, buf)
	c.eventsLock.Unlock()
}

// drain returns and clears the pending events.
func (c *httpClient) drain() [][]byte {
	c.eventsLock.Lock()
	defer c.eventsLock.Unlock()

	events := c.events
	c.events = nil
	return events
}

func (c *httpClient) touch() {
	c.active.Store(time.Now().Unix())
}

func (c *httpClient) idle(now int64) int64 {
	return now - c.active.Load()
}

func (c *httpClient) Terminate(reason string) {
	c.terminated.Store(true)
}

func (c *httpClient) Terminated() bool {
	return c.terminated.Load()
}

package server

//go:generate xgotext -no-locations -default bgmatch -in . -out locales

import (
	"bytes"
	"context"
	"crypto/rand"
	"embed"
	"fmt"
	"log"
	"math/big"
	"net"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"codeberg.org/tslocum/bgmatch"
	"codeberg.org/tslocum/gotext"
	"golang.org/x/text/language"
)

const clientTimeout = 40 * time.Second

const inactiveLimit = 600 // 10 minutes.

const maxUsernameLength = 18

var (
	onlyNumbers            = regexp.MustCompile(`^[0-9]+$`)
	alphaNumericUnderscore = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

//go:embed locales
var assetFS embed.FS

var englishIdentifier = []byte("en")

func init() {
	gotext.SetDomain("bgmatch-en")
}

// Options configures a server.
type Options struct {
	TZ            string
	DataSource    string
	MailServer    string
	PasswordSalt  string
	IPAddressSalt string
	Entropy       string

	CertFile    string
	CertKey     string
	CertDomain  string
	CertFolder  string
	CertEmail   string
	CertAddress string

	Verbose bool
	Debug   bool
}

type serverCommand struct {
	client  *serverClient
	command []byte
	task    func() // Runs on the command goroutine instead of a client command.
	done    chan struct{}
}

type server struct {
	clients      []*serverClient
	games        []*serverGame
	listeners    []net.Listener
	newGameIDs   chan uint64
	newClientIDs chan int
	commands     chan serverCommand
	welcome      []byte

	gamesLock   sync.RWMutex
	clientsLock sync.Mutex

	gamesCache     []byte
	gamesCacheTime time.Time
	gamesCacheLock sync.Mutex

	sessions     map[string]*serverClient
	sessionsLock sync.Mutex

	sortedCommands []string

	store        store
	mailServer   string
	passwordSalt string
	ipSalt       string
	entropy      []byte

	certFile    string
	certKey     string
	certDomain  string
	certFolder  string
	certEmail   string
	certAddress string

	tz            *time.Location
	languageTags  []language.Tag
	languageNames [][]byte

	verbose bool
}

// NewServer returns a server which processes commands until the program
// exits. It exits when the configured database can not be used.
func NewServer(op *Options) *server {
	s, err := newServer(op)
	if err != nil {
		log.Fatalf("failed to start server: %s", err)
	}

	go s.handleCommands()
	go s.handleGames()
	go s.handleSessions()
	return s
}

func newServer(op *Options) (*server, error) {
	const bufferSize = 10
	s := &server{
		newGameIDs:   make(chan uint64),
		newClientIDs: make(chan int),
		commands:     make(chan serverCommand, bufferSize),
		welcome:      []byte("hello Welcome to bgmatch! Please log in by sending the 'login' command. You may specify a username, otherwise you will be assigned a random username. If you specify a username, you may also specify a password. Have fun!"),
		sessions:     make(map[string]*serverClient),
		mailServer:   op.MailServer,
		passwordSalt: op.PasswordSalt,
		ipSalt:       op.IPAddressSalt,
		certFile:     op.CertFile,
		certKey:      op.CertKey,
		certDomain:   op.CertDomain,
		certFolder:   op.CertFolder,
		certEmail:    op.CertEmail,
		certAddress:  op.CertAddress,
		verbose:      op.Verbose,
	}
	s.loadLocales()

	for command := range bgmatch.HelpText {
		s.sortedCommands = append(s.sortedCommands, command)
	}
	sort.Slice(s.sortedCommands, func(i, j int) bool { return s.sortedCommands[i] < s.sortedCommands[j] })

	if op.TZ != "" {
		var err error
		s.tz, err = time.LoadLocation(op.TZ)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timezone %s: %s", op.TZ, err)
		}
	} else {
		s.tz = time.UTC
	}

	if op.Entropy != "" {
		s.entropy = []byte(op.Entropy)
	} else {
		s.entropy = newEntropySecret()
	}

	var err error
	s.store, err = newStore(context.Background(), op.DataSource)
	if err != nil {
		return nil, err
	}
	if op.DataSource != "" {
		log.Println("Connected to database successfully")
	}

	lastID, err := s.store.lastMatchID(context.Background())
	if err != nil {
		return nil, err
	}

	go s.handleNewGameIDs(lastID + 1)
	go s.handleNewClientIDs()
	return s, nil
}

func (s *server) loadLocales() {
	entries, err := assetFS.ReadDir("locales")
	if err != nil {
		log.Fatalf("failed to list files in locales directory: %s", err)
	}

	var availableTags = []language.Tag{
		language.MustParse("en_US"),
	}
	var availableNames = [][]byte{
		[]byte("en"),
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		availableTags = append(availableTags, language.MustParse(entry.Name()))
		availableNames = append(availableNames, []byte(entry.Name()))

		b, err := assetFS.ReadFile(fmt.Sprintf("locales/%s/%s.po", entry.Name(), entry.Name()))
		if err != nil {
			log.Fatalf("failed to read locale %s: %s", entry.Name(), err)
		}

		po := gotext.NewPo()
		po.Parse(b)
		gotext.GetStorage().AddTranslator(fmt.Sprintf("bgmatch-%s", entry.Name()), po)
	}
	s.languageTags = availableTags
	s.languageNames = availableNames
}

func (s *server) matchLanguage(identifier []byte) []byte {
	if len(identifier) == 0 {
		return englishIdentifier
	}

	tag, err := language.Parse(string(identifier))
	if err != nil {
		return englishIdentifier
	}
	var preferred = []language.Tag{tag}

	useLanguage, index, _ := language.NewMatcher(s.languageTags).Match(preferred...)
	useLanguageCode := useLanguage.String()
	if index < 0 || useLanguageCode == "" || strings.HasPrefix(useLanguageCode, "en") {
		return englishIdentifier
	}
	return s.languageNames[index]
}

func (s *server) ListenLocal() chan net.Conn {
	conns := make(chan net.Conn)
	go s.handleLocal(conns)
	return conns
}

func (s *server) handleLocal(conns chan net.Conn) {
	for {
		local, remote := net.Pipe()

		conns <- local
		go s.handleConnection(remote)
	}
}

// clientByUsername returns the client logged in as username, and assumes
// clients are already locked.
func (s *server) clientByUsername(username []byte) *serverClient {
	lower := bytes.ToLower(username)
	for _, c := range s.clients {
		if bytes.Equal(bytes.ToLower(c.name), lower) {
			return c
		}
	}
	return nil
}

func (s *server) addClient(c *serverClient) {
	s.clientsLock.Lock()
	defer s.clientsLock.Unlock()

	s.clients = append(s.clients, c)
}

func (s *server) removeClient(c *serverClient) {
	c.Client.Terminate("")

	done := make(chan struct{})
	s.commands <- serverCommand{
		task: func() {
			g := s.gameByClient(c)
			if g != nil {
				g.removeClient(c)
			}
		},
		done: done,
	}
	<-done

	if c.commands != nil {
		close(c.commands)
	}

	s.clientsLock.Lock()
	defer s.clientsLock.Unlock()

	for i, sc := range s.clients {
		if sc == c {
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			return
		}
	}
}

// handleGames forfeits matches whose acting player has been inactive for too
// long and drops matches nobody is connected to anymore.
func (s *server) handleGames() {
	t := time.NewTicker(time.Minute)
	for range t.C {
		s.commands <- serverCommand{
			task: func() {
				s.expireGames(time.Now().Unix())
			},
		}
	}
}

func (s *server) expireGames(now int64) {
	s.gamesLock.Lock()
	var expired []*serverGame
	i := 0
	for _, g := range s.games {
		if g.inProgress() && now-g.active >= inactiveLimit {
			expired = append(expired, g)
		}
		if !g.terminated() {
			s.games[i] = g
			i++
		}
	}
	for j := i; j < len(s.games); j++ {
		s.games[j] = nil // Allow memory to be deallocated.
	}
	s.games = s.games[:i]
	s.gamesLock.Unlock()

	for _, g := range expired {
		actor := g.actor()
		if actor == bgmatch.ColorNone {
			continue
		}
		log.Printf("Match %d forfeited by inactive %s", g.id, actor)
		g.eachClient(func(client *serverClient) {
			client.sendNotice(gotext.GetD(client.language, "%s has been inactive for more than ten minutes and forfeits the match.", g.playerName(actor)))
		})
		s.forfeit(g, actor)
	}
}

func (s *server) handleClient(c *serverClient) {
	s.addClient(c)

	log.Printf("Client %s connected", c.label())

	go s.handlePingClient(c)
	go s.handleClientCommands(c)

	c.HandleReadWrite()

	// Remove client.
	s.removeClient(c)

	log.Printf("Client %s disconnected", c.label())
}

func (s *server) handleConnection(conn net.Conn) {
	const bufferSize = 8
	commands := make(chan []byte, bufferSize)
	events := make(chan []byte, bufferSize)

	now := time.Now().Unix()

	c := &serverClient{
		id:        <-s.newClientIDs,
		language:  "bgmatch-en",
		accountID: -1,
		connected: now,
		active:    now,
		commands:  commands,
		Client:    newSocketClient(conn, s.hashIP(conn.RemoteAddr().String()), commands, events, s.verbose),
	}
	s.sendWelcome(c)
	s.handleClient(c)
}

func (s *server) handlePingClient(c *serverClient) {
	t := time.NewTicker(30 * time.Second)
	for {
		<-t.C

		if c.Terminated() {
			t.Stop()
			return
		}

		if len(c.name) == 0 {
			c.Terminate("User did not send login command within 30 seconds.")
			t.Stop()
			return
		}

		c.lastPing = time.Now().Unix()
		c.sendEvent(&bgmatch.EventPing{
			Message: fmt.Sprintf("%d", c.lastPing),
		})
	}
}

func (s *server) handleClientCommands(c *serverClient) {
	var command []byte
	for command = range c.commands {
		s.commands <- serverCommand{
			client:  c,
			command: command,
		}
	}
}

func (s *server) handleNewGameIDs(gameID uint64) {
	for {
		s.newGameIDs <- gameID
		gameID++
	}
}

func (s *server) handleNewClientIDs() {
	clientID := 1
	for {
		s.newClientIDs <- clientID
		clientID++
	}
}

// randomUsername returns a random guest username, and assumes clients are already locked.
func (s *server) randomUsername() []byte {
	for {
		name := []byte(fmt.Sprintf("Guest_%d", 100+RandInt(900)))

		if s.clientByUsername(name) == nil {
			return name
		}
	}
}

func (s *server) sendWelcome(c *serverClient) {
	if c.json {
		return
	}
	c.Write(s.welcome)
}

func (s *server) gameByClient(c *serverClient) *serverGame {
	s.gamesLock.RLock()
	defer s.gamesLock.RUnlock()

	for _, g := range s.games {
		if g.white == c || g.black == c {
			return g
		}
		for _, spec := range g.spectators {
			if spec == c {
				return g
			}
		}
	}
	return nil
}

func (s *server) gameByID(id uint64) *serverGame {
	s.gamesLock.RLock()
	defer s.gamesLock.RUnlock()

	for _, g := range s.games {
		if g.id == id {
			return g
		}
	}
	return nil
}

func (s *server) hashIP(address string) string {
	leftBracket, rightBracket := strings.IndexByte(address, '['), strings.IndexByte(address, ']')
	if leftBracket != -1 && rightBracket != -1 && rightBracket > leftBracket {
		address = address[1:rightBracket]
	} else if strings.IndexByte(address, '.') != -1 {
		colon := strings.IndexByte(address, ':')
		if colon != -1 {
			address = address[:colon]
		}
	}
	return fmt.Sprintf("%x", shakeSum([]byte(address+s.ipSalt), 32))
}

func RandInt(max int) int {
	i, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}
	return int(i.Int64())
}

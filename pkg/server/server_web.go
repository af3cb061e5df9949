package server

import (
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"codeberg.org/tslocum/bgmatch"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/acme/autocert"
)

// sessionTimeout is the number of seconds an HTTP API session may be idle.
const sessionTimeout = 600

const maxRequestSize = 4096

var validate = validator.New()

type loginRequest struct {
	Client   string `json:"client" validate:"required,max=64"`
	Language string `json:"language" validate:"omitempty,max=16"`
	Username string `json:"username" validate:"omitempty,max=64"`
	Password string `json:"password" validate:"omitempty,max=128"`
}

type commandRequest struct {
	Token   string `json:"token" validate:"required,uuid4"`
	Command string `json:"command" validate:"required,max=512"`
}

type apiResponse struct {
	Token  string            `json:"token,omitempty"`
	Error  string            `json:"error,omitempty"`
	Events []json.RawMessage `json:"events"`
}

type matchResponse struct {
	ID      uint64
	Name    string
	White   string
	Black   string
	Created int64
	Started int64
	Ended   int64
	Winner  bgmatch.Color
	Points  int8
	Counter uint32
	Replay  []string
	Game    *bgmatch.Game
}

// Listen accepts connections on address. The network "ws" serves WebSocket
// clients and the HTTP API.
func (s *server) Listen(network string, address string) {
	if s.passwordSalt == "" || s.ipSalt == "" {
		log.Println("warning: password and IP address salts are not configured")
	}

	if strings.ToLower(network) == "ws" {
		go s.listenWebSocket(address)
		return
	}

	log.Printf("Listening for %s connections on %s...", strings.ToUpper(network), address)
	listener, err := net.Listen(network, address)
	if err != nil {
		log.Fatalf("failed to listen on %s: %s", address, err)
	}
	go s.handleListener(listener)
	s.listeners = append(s.listeners, listener)
}

func (s *server) handleListener(listener net.Listener) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Fatalf("failed to accept connection: %s", err)
		}
		go s.handleConnection(conn)
	}
}

func (s *server) addCORSHeader(f func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		f(w, r)
	}
}

func (s *server) router() *mux.Router {
	m := mux.NewRouter()
	handle := func(path string, f func(http.ResponseWriter, *http.Request)) *mux.Route {
		return m.HandleFunc(path, s.addCORSHeader(f))
	}

	handle("/match/{id:[0-9]+}.json", s.handleMatch).Methods(http.MethodGet)
	handle("/matches.json", s.handleListMatches).Methods(http.MethodGet)
	handle("/history/{username:[A-Za-z0-9_]+}.json", s.handleHistoryJSON).Methods(http.MethodGet)
	handle("/api/login", s.handleAPILogin).Methods(http.MethodPost)
	handle("/api/command", s.handleAPICommand).Methods(http.MethodPost)
	handle("/ws", s.handleWebSocket)
	handle("/", s.handleWebSocket)
	return m
}

func (s *server) listenWebSocket(address string) {
	log.Printf("Listening for WebSocket connections on %s...", address)

	m := s.router()

	if s.certDomain != "" {
		certManager := autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			Cache:      autocert.DirCache(s.certFolder),
			HostPolicy: autocert.HostWhitelist(s.certDomain),
			Email:      s.certEmail,
		}

		server := &http.Server{
			Addr:    address,
			Handler: m,
			TLSConfig: &tls.Config{
				GetCertificate: certManager.GetCertificate,
				MinVersion:     tls.VersionTLS12,
			},
		}

		go func() {
			err := http.ListenAndServe(s.certAddress, certManager.HTTPHandler(m))
			log.Fatalf("failed to listen on %s: %s", s.certAddress, err)
		}()

		err := server.ListenAndServeTLS("", "")
		log.Fatalf("failed to listen on %s: %s", address, err)
	} else if s.certFile != "" && s.certKey != "" {
		err := http.ListenAndServeTLS(address, s.certFile, s.certKey, m)
		log.Fatalf("failed to listen on %s: %s", address, err)
	}

	err := http.ListenAndServe(address, m)
	log.Fatalf("failed to listen on %s: %s", address, err)
}

func (s *server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	const bufferSize = 8
	commands := make(chan []byte, bufferSize)
	events := make(chan []byte, bufferSize)

	wsClient := newWebSocketClient(r, w, s.hashIP(r.RemoteAddr), commands, events, s.verbose)
	if wsClient == nil {
		return
	}

	now := time.Now().Unix()

	c := &serverClient{
		id:        <-s.newClientIDs,
		language:  "bgmatch-en",
		accountID: -1,
		connected: now,
		active:    now,
		commands:  commands,
		Client:    wsClient,
	}
	s.sendWelcome(c)
	s.handleClient(c)
}

func (s *server) cachedMatches() []byte {
	s.gamesCacheLock.Lock()
	defer s.gamesCacheLock.Unlock()

	if time.Since(s.gamesCacheTime) < 5*time.Second {
		return s.gamesCache
	}

	var ev *bgmatch.EventList
	s.runTask(func() {
		ev = s.listGames(nil)
	})

	s.gamesCacheTime = time.Now()
	if len(ev.Games) == 0 {
		s.gamesCache = []byte("[]")
		return s.gamesCache
	}
	var err error
	s.gamesCache, err = json.Marshal(ev.Games)
	if err != nil {
		log.Fatalf("failed to marshal %+v: %s", ev.Games, err)
	}
	return s.gamesCache
}

func (s *server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(s.cachedMatches())
}

func (s *server) handleMatch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil || id == 0 {
		http.Error(w, "invalid match ID", http.StatusBadRequest)
		return
	}

	m, err := s.store.loadMatch(r.Context(), id)
	if errors.Is(err, errMatchNotFound) {
		http.Error(w, "match not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Printf("failed to retrieve match %d: %s", id, err)
		http.Error(w, "failed to retrieve match", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, &matchResponse{
		ID:      m.ID,
		Name:    m.Name,
		White:   m.White,
		Black:   m.Black,
		Created: m.Created,
		Started: m.Started,
		Ended:   m.Ended,
		Winner:  m.Winner,
		Points:  m.Points,
		Counter: m.Counter,
		Replay:  m.Replay,
		Game:    m.Game,
	})
}

func (s *server) handleHistoryJSON(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	matches, err := s.store.matchHistory(r.Context(), username)
	if err != nil {
		log.Printf("failed to retrieve match history of %s: %s", username, err)
		http.Error(w, "failed to retrieve match history", http.StatusInternalServerError)
		return
	}
	if matches == nil {
		matches = []*bgmatch.HistoryMatch{}
	}
	writeJSON(w, http.StatusOK, matches)
}

// handleAPILogin starts an HTTP API session. Events produced for the session
// are returned in the response to each request.
func (s *server) handleAPILogin(w http.ResponseWriter, r *http.Request) {
	req := &loginRequest{}
	err := decodeRequest(r, req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &apiResponse{Error: err.Error()})
		return
	}

	client := req.Client
	if req.Language != "" {
		client += "/" + req.Language
	}
	command := strings.Join(strings.Fields(strings.Join([]string{bgmatch.CommandLoginJSON, client, req.Username, req.Password}, " ")), " ")

	hc := newHTTPClient(s.hashIP(r.RemoteAddr))
	now := time.Now().Unix()
	c := &serverClient{
		id:        <-s.newClientIDs,
		language:  "bgmatch-en",
		accountID: -1,
		connected: now,
		active:    now,
		Client:    hc,
	}
	s.addClient(c)
	s.runCommand(c, []byte(command))

	events := hc.drain()
	if c.terminating || c.accountID == -1 {
		go s.removeClient(c)
		writeJSON(w, http.StatusUnauthorized, &apiResponse{Error: "login failed", Events: rawEvents(events)})
		return
	}

	token := uuid.New().String()
	s.sessionsLock.Lock()
	s.sessions[token] = c
	s.sessionsLock.Unlock()

	log.Printf("Client %s started an API session", c.label())
	writeJSON(w, http.StatusOK, &apiResponse{Token: token, Events: rawEvents(events)})
}

func (s *server) handleAPICommand(w http.ResponseWriter, r *http.Request) {
	req := &commandRequest{}
	err := decodeRequest(r, req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &apiResponse{Error: err.Error()})
		return
	}

	s.sessionsLock.Lock()
	c := s.sessions[req.Token]
	s.sessionsLock.Unlock()
	if c == nil {
		writeJSON(w, http.StatusUnauthorized, &apiResponse{Error: "session not found"})
		return
	}
	hc := c.Client.(*httpClient)
	hc.touch()

	s.runCommand(c, []byte(req.Command))

	events := hc.drain()
	if c.terminating {
		s.endSession(req.Token)
	}
	writeJSON(w, http.StatusOK, &apiResponse{Events: rawEvents(events)})
}

// runCommand processes a command of c and waits until it is handled.
func (s *server) runCommand(c *serverClient, command []byte) {
	done := make(chan struct{})
	s.commands <- serverCommand{
		client:  c,
		command: command,
		done:    done,
	}
	<-done
}

func (s *server) endSession(token string) {
	s.sessionsLock.Lock()
	c := s.sessions[token]
	delete(s.sessions, token)
	s.sessionsLock.Unlock()

	if c != nil {
		s.removeClient(c)
		log.Printf("Client %s ended an API session", c.label())
	}
}

// handleSessions ends API sessions which have been idle for too long.
func (s *server) handleSessions() {
	t := time.NewTicker(time.Minute)
	for range t.C {
		s.expireSessions(time.Now().Unix())
	}
}

func (s *server) expireSessions(now int64) {
	var expired []string
	s.sessionsLock.Lock()
	for token, c := range s.sessions {
		if c.Client.(*httpClient).idle(now) >= sessionTimeout {
			expired = append(expired, token)
		}
	}
	s.sessionsLock.Unlock()

	for _, token := range expired {
		s.endSession(token)
	}
}

func decodeRequest(r *http.Request, req interface{}) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxRequestSize)).Decode(req)
	if err != nil {
		return fmt.Errorf("invalid request body: %s", err)
	}

	errs := validate.Struct(req)
	if errs == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(errs, &validationErrors) {
		return errs
	}
	var details strings.Builder
	for _, err := range validationErrors {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		switch err.Tag() {
		case "required":
			details.WriteString(fmt.Sprintf("%s is required", err.Field()))
		case "max":
			if err.Type().Kind() == reflect.String {
				details.WriteString(fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param()))
			} else {
				details.WriteString(fmt.Sprintf("%s must be at most %s", err.Field(), err.Param()))
			}
		default:
			details.WriteString(fmt.Sprintf("%s failed %s validation", err.Field(), err.Tag()))
		}
	}
	return errors.New(details.String())
}

func rawEvents(events [][]byte) []json.RawMessage {
	raw := make([]json.RawMessage, len(events))
	for i, ev := range events {
		raw[i] = ev
	}
	return raw
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		log.Printf("failed to write response: %s", err)
	}
}

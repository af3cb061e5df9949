package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"codeberg.org/tslocum/bgmatch"
)

var (
	errStaleMatch      = errors.New("match was saved by another operation")
	errMatchNotFound   = errors.New("match not found")
	errAccountNotFound = errors.New("account not found")
	errAccountExists   = errors.New("username or email address already in use")
)

const historyLimit = 50

// matchRecord is the stored form of a match. Counter is incremented by every
// save, and a save only succeeds when the stored record holds the previous
// counter value.
type matchRecord struct {
	ID           uint64
	Counter      uint32
	Name         string
	White        string
	Black        string
	WhiteAccount int
	BlackAccount int
	Created      int64
	Started      int64
	Ended        int64
	Winner       bgmatch.Color
	Points       int8
	Replay       []string
	Game         *bgmatch.Game
}

type store interface {
	lastMatchID(ctx context.Context) (uint64, error)
	createMatch(ctx context.Context, m *matchRecord) error
	saveMatch(ctx context.Context, m *matchRecord) error
	loadMatch(ctx context.Context, id uint64) (*matchRecord, error)

	registerAccount(ctx context.Context, a *account) error
	findAccount(ctx context.Context, name []byte) (*account, error)

	// recordResult updates the ratings of the accounts which played a
	// finished match and returns the new ratings. Zero is returned for both
	// when the match was not rated.
	recordResult(ctx context.Context, m *matchRecord) (int, int, error)
	matchHistory(ctx context.Context, username string) ([]*bgmatch.HistoryMatch, error)

	Close() error
}

// newStore returns the store for dataSource. An empty data source keeps
// everything in memory.
func newStore(ctx context.Context, dataSource string) (store, error) {
	switch {
	case dataSource == "":
		return newMemoryStore(), nil
	case strings.HasPrefix(dataSource, "postgres://"), strings.HasPrefix(dataSource, "postgresql://"):
		return newPostgresStore(ctx, dataSource)
	case strings.HasPrefix(dataSource, "sqlite://"):
		return newSQLiteStore(ctx, strings.TrimPrefix(dataSource, "sqlite://"))
	case strings.HasPrefix(dataSource, "file:"):
		return newSQLiteStore(ctx, dataSource)
	default:
		return nil, fmt.Errorf("unsupported data source %q", dataSource)
	}
}

func encodeMatch(m *matchRecord) ([]byte, error) {
	return json.Marshal(m)
}

func decodeMatch(b []byte) (*matchRecord, error) {
	m := &matchRecord{}
	err := json.Unmarshal(b, m)
	if err != nil {
		return nil, fmt.Errorf("failed to decode match: %s", err)
	}
	if m.Game == nil {
		m.Game = &bgmatch.Game{}
	}
	return m, nil
}

func historyEntry(m *matchRecord, username string) *bgmatch.HistoryMatch {
	entry := &bgmatch.HistoryMatch{
		ID:      m.ID,
		Started: m.Started,
		Ended:   m.Ended,
		White:   m.White,
		Black:   m.Black,
		Winner:  m.Winner,
		Points:  m.Points,
	}
	if strings.EqualFold(m.White, username) {
		entry.Opponent = m.Black
	} else {
		entry.Opponent = m.White
	}
	return entry
}

type memoryStore struct {
	matches  map[uint64][]byte
	accounts []*account
	sync.Mutex
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		matches: make(map[uint64][]byte),
	}
}

func (s *memoryStore) lastMatchID(ctx context.Context) (uint64, error) {
	s.Lock()
	defer s.Unlock()

	var id uint64
	for matchID := range s.matches {
		if matchID > id {
			id = matchID
		}
	}
	return id, nil
}

func (s *memoryStore) createMatch(ctx context.Context, m *matchRecord) error {
	b, err := encodeMatch(m)
	if err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()

	if _, ok := s.matches[m.ID]; ok {
		return fmt.Errorf("match %d already exists", m.ID)
	}
	s.matches[m.ID] = b
	return nil
}

func (s *memoryStore) saveMatch(ctx context.Context, m *matchRecord) error {
	b, err := encodeMatch(m)
	if err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()

	stored, ok := s.matches[m.ID]
	if !ok {
		return errMatchNotFound
	}
	previous, err := decodeMatch(stored)
	if err != nil {
		return err
	} else if previous.Counter+1 != m.Counter {
		return fmt.Errorf("%w: match %d is at %d, not %d", errStaleMatch, m.ID, previous.Counter, m.Counter-1)
	}
	s.matches[m.ID] = b
	return nil
}

func (s *memoryStore) loadMatch(ctx context.Context, id uint64) (*matchRecord, error) {
	s.Lock()
	defer s.Unlock()

	b, ok := s.matches[id]
	if !ok {
		return nil, errMatchNotFound
	}
	return decodeMatch(b)
}

func (s *memoryStore) registerAccount(ctx context.Context, a *account) error {
	s.Lock()
	defer s.Unlock()

	for _, existing := range s.accounts {
		if bytes.EqualFold(existing.username, a.username) || bytes.EqualFold(existing.email, a.email) {
			return errAccountExists
		}
	}

	stored := *a
	stored.id = len(s.accounts) + 1
	stored.created = time.Now().Unix()
	if stored.rating == 0 {
		stored.rating = initialRating
	}
	s.accounts = append(s.accounts, &stored)
	a.id, a.created, a.rating = stored.id, stored.created, stored.rating
	return nil
}

func (s *memoryStore) findAccount(ctx context.Context, name []byte) (*account, error) {
	s.Lock()
	defer s.Unlock()

	for _, a := range s.accounts {
		if bytes.EqualFold(a.username, name) || bytes.EqualFold(a.email, name) {
			found := *a
			return &found, nil
		}
	}
	return nil, errAccountNotFound
}

func (s *memoryStore) accountByID(id int) *account {
	for _, a := range s.accounts {
		if a.id == id {
			return a
		}
	}
	return nil
}

func (s *memoryStore) recordResult(ctx context.Context, m *matchRecord) (int, int, error) {
	if !rated(m) {
		return 0, 0, nil
	}

	s.Lock()
	defer s.Unlock()

	white, black := s.accountByID(m.WhiteAccount), s.accountByID(m.BlackAccount)
	if white == nil || black == nil {
		return 0, 0, errAccountNotFound
	}
	white.rating, black.rating = rateMatch(white.rating, black.rating, m.Winner)
	return white.rating, black.rating, nil
}

func (s *memoryStore) matchHistory(ctx context.Context, username string) ([]*bgmatch.HistoryMatch, error) {
	s.Lock()
	defer s.Unlock()

	var matches []*bgmatch.HistoryMatch
	for _, b := range s.matches {
		m, err := decodeMatch(b)
		if err != nil {
			return nil, err
		} else if m.Ended == 0 || (!strings.EqualFold(m.White, username) && !strings.EqualFold(m.Black, username)) {
			continue
		}
		matches = append(matches, historyEntry(m, username))
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID > matches[j].ID })
	if len(matches) > historyLimit {
		matches = matches[:historyLimit]
	}
	return matches, nil
}

func (s *memoryStore) Close() error {
	return nil
}

// rated returns whether a finished match changes the ratings of its players.
func rated(m *matchRecord) bool {
	return m.Ended != 0 && m.Winner != bgmatch.ColorNone && m.WhiteAccount > 0 && m.BlackAccount > 0 && m.WhiteAccount != m.BlackAccount
}

package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"codeberg.org/tslocum/bgmatch"
	"github.com/jackc/pgx/v5"
)

const postgresSchema = `
CREATE TABLE account (
	id       serial PRIMARY KEY,
	created  bigint NOT NULL,
	email    text NOT NULL UNIQUE,
	username text NOT NULL UNIQUE,
	password text NOT NULL,
	rating   integer NOT NULL DEFAULT 150000
);
CREATE TABLE game (
	id       bigint PRIMARY KEY,
	counter  bigint NOT NULL,
	name     text NOT NULL,
	white    text NOT NULL,
	black    text NOT NULL,
	started  bigint NOT NULL,
	ended    bigint NOT NULL,
	winner   integer NOT NULL,
	points   integer NOT NULL,
	state    text NOT NULL
);
`

type postgresStore struct {
	db     *pgx.Conn
	dbLock sync.Mutex
}

func newPostgresStore(ctx context.Context, dataSource string) (*postgresStore, error) {
	db, err := pgx.Connect(ctx, dataSource)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %s", err)
	}
	s := &postgresStore{
		db: db,
	}
	err = s.initDB(ctx)
	if err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to initialize database: %s", err)
	}
	return s, nil
}

func (s *postgresStore) begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, "SET SCHEMA 'bgmatch'")
	if err != nil {
		tx.Rollback(ctx)
		return nil, err
	}
	return tx, nil
}

func (s *postgresStore) initDB(ctx context.Context) error {
	_, err := s.db.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS bgmatch")
	if err != nil {
		return err
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var result int
	err = tx.QueryRow(ctx, "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = 'bgmatch' AND table_name = 'game'").Scan(&result)
	if err != nil {
		return err
	} else if result > 0 {
		return nil // Database has been initialized.
	}

	_, err = tx.Exec(ctx, postgresSchema)
	if err != nil {
		return err
	}
	log.Println("Initialized database schema")
	return tx.Commit(ctx)
}

func (s *postgresStore) lastMatchID(ctx context.Context) (uint64, error) {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, "SELECT COALESCE(MAX(id), 0) FROM game").Scan(&id)
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (s *postgresStore) createMatch(ctx context.Context, m *matchRecord) error {
	state, err := encodeMatch(m)
	if err != nil {
		return err
	}

	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "INSERT INTO game (id, counter, name, white, black, started, ended, winner, points, state) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)", int64(m.ID), int64(m.Counter), m.Name, m.White, m.Black, m.Started, m.Ended, int(m.Winner), int(m.Points), string(state))
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *postgresStore) saveMatch(ctx context.Context, m *matchRecord) error {
	state, err := encodeMatch(m)
	if err != nil {
		return err
	}

	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, "UPDATE game SET counter = $1, name = $2, white = $3, black = $4, started = $5, ended = $6, winner = $7, points = $8, state = $9 WHERE id = $10 AND counter = $11", int64(m.Counter), m.Name, m.White, m.Black, m.Started, m.Ended, int(m.Winner), int(m.Points), string(state), int64(m.ID), int64(m.Counter)-1)
	if err != nil {
		return err
	} else if tag.RowsAffected() == 0 {
		var exists int
		err = tx.QueryRow(ctx, "SELECT COUNT(*) FROM game WHERE id = $1", int64(m.ID)).Scan(&exists)
		if err != nil {
			return err
		} else if exists == 0 {
			return errMatchNotFound
		}
		return fmt.Errorf("%w: match %d is not at %d", errStaleMatch, m.ID, m.Counter-1)
	}
	return tx.Commit(ctx)
}

func (s *postgresStore) loadMatch(ctx context.Context, id uint64) (*matchRecord, error) {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var state []byte
	err = tx.QueryRow(ctx, "SELECT state FROM game WHERE id = $1", int64(id)).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errMatchNotFound
	} else if err != nil {
		return nil, err
	}
	return decodeMatch(state)
}

func (s *postgresStore) registerAccount(ctx context.Context, a *account) error {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var result int
	err = tx.QueryRow(ctx, "SELECT COUNT(*) FROM account WHERE email = $1 OR LOWER(username) = $2", string(bytes.ToLower(a.email)), string(bytes.ToLower(a.username))).Scan(&result)
	if err != nil {
		return err
	} else if result > 0 {
		return errAccountExists
	}

	if a.rating == 0 {
		a.rating = initialRating
	}
	a.created = time.Now().Unix()
	err = tx.QueryRow(ctx, "INSERT INTO account (created, email, username, password, rating) VALUES ($1, $2, $3, $4, $5) RETURNING id", a.created, string(bytes.ToLower(a.email)), string(a.username), string(a.password), a.rating).Scan(&a.id)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *postgresStore) findAccount(ctx context.Context, name []byte) (*account, error) {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	a := &account{}
	lower := bytes.ToLower(bytes.TrimSpace(name))
	err = tx.QueryRow(ctx, "SELECT id, created, email, username, password, rating FROM account WHERE LOWER(username) = $1 OR email = $1", string(lower)).Scan(&a.id, &a.created, &a.email, &a.username, &a.password, &a.rating)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errAccountNotFound
	} else if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *postgresStore) recordResult(ctx context.Context, m *matchRecord) (int, int, error) {
	if !rated(m) {
		return 0, 0, nil
	}

	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.begin(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback(ctx)

	var whiteRating, blackRating int
	err = tx.QueryRow(ctx, "SELECT rating FROM account WHERE id = $1", m.WhiteAccount).Scan(&whiteRating)
	if err != nil {
		return 0, 0, err
	}
	err = tx.QueryRow(ctx, "SELECT rating FROM account WHERE id = $1", m.BlackAccount).Scan(&blackRating)
	if err != nil {
		return 0, 0, err
	}

	whiteRating, blackRating = rateMatch(whiteRating, blackRating, m.Winner)

	_, err = tx.Exec(ctx, "UPDATE account SET rating = $1 WHERE id = $2", whiteRating, m.WhiteAccount)
	if err != nil {
		return 0, 0, err
	}
	_, err = tx.Exec(ctx, "UPDATE account SET rating = $1 WHERE id = $2", blackRating, m.BlackAccount)
	if err != nil {
		return 0, 0, err
	}
	return whiteRating, blackRating, tx.Commit(ctx)
}

func (s *postgresStore) matchHistory(ctx context.Context, username string) ([]*bgmatch.HistoryMatch, error) {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, "SELECT state FROM game WHERE ended != 0 AND (LOWER(white) = $1 OR LOWER(black) = $1) ORDER BY id DESC LIMIT $2", strings.ToLower(username), historyLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*bgmatch.HistoryMatch
	for rows.Next() {
		var state []byte
		err = rows.Scan(&state)
		if err != nil {
			return nil, err
		}
		m, err := decodeMatch(state)
		if err != nil {
			return nil, err
		}
		matches = append(matches, historyEntry(m, username))
	}
	return matches, rows.Err()
}

func (s *postgresStore) Close() error {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	return s.db.Close(context.Background())
}

package server

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"codeberg.org/tslocum/bgmatch"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS account (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	created  INTEGER NOT NULL,
	email    TEXT NOT NULL UNIQUE,
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	rating   INTEGER NOT NULL DEFAULT 150000
);
CREATE TABLE IF NOT EXISTS game (
	id      INTEGER PRIMARY KEY,
	counter INTEGER NOT NULL,
	name    TEXT NOT NULL,
	white   TEXT NOT NULL,
	black   TEXT NOT NULL,
	started INTEGER NOT NULL,
	ended   INTEGER NOT NULL,
	winner  INTEGER NOT NULL,
	points  INTEGER NOT NULL,
	state   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_game_white ON game(white);
CREATE INDEX IF NOT EXISTS idx_game_black ON game(black);
`

type sqliteStore struct {
	db *sql.DB
}

func newSQLiteStore(ctx context.Context, dataSource string) (*sqliteStore, error) {
	db, err := sql.Open("sqlite3", dataSource)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Writes are serialized by the single connection.
	db.SetMaxOpenConns(1)

	_, err = db.ExecContext(ctx, sqliteSchema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Println("Initialized database schema")
	return &sqliteStore{
		db: db,
	}, nil
}

// transact runs f in a transaction which is committed when f succeeds.
func (s *sqliteStore) transact(ctx context.Context, f func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	err = f(tx)
	if err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *sqliteStore) lastMatchID(ctx context.Context) (uint64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) FROM game").Scan(&id)
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (s *sqliteStore) createMatch(ctx context.Context, m *matchRecord) error {
	state, err := encodeMatch(m)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, "INSERT INTO game (id, counter, name, white, black, started, ended, winner, points, state) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", int64(m.ID), int64(m.Counter), m.Name, m.White, m.Black, m.Started, m.Ended, int(m.Winner), int(m.Points), string(state))
	return err
}

func (s *sqliteStore) saveMatch(ctx context.Context, m *matchRecord) error {
	state, err := encodeMatch(m)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, "UPDATE game SET counter = ?, name = ?, white = ?, black = ?, started = ?, ended = ?, winner = ?, points = ?, state = ? WHERE id = ? AND counter = ?", int64(m.Counter), m.Name, m.White, m.Black, m.Started, m.Ended, int(m.Winner), int(m.Points), string(state), int64(m.ID), int64(m.Counter)-1)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	} else if affected == 0 {
		var exists int
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM game WHERE id = ?", int64(m.ID)).Scan(&exists)
		if err != nil {
			return err
		} else if exists == 0 {
			return errMatchNotFound
		}
		return fmt.Errorf("%w: match %d is not at %d", errStaleMatch, m.ID, m.Counter-1)
	}
	return nil
}

func (s *sqliteStore) loadMatch(ctx context.Context, id uint64) (*matchRecord, error) {
	var state []byte
	err := s.db.QueryRowContext(ctx, "SELECT state FROM game WHERE id = ?", int64(id)).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errMatchNotFound
	} else if err != nil {
		return nil, err
	}
	return decodeMatch(state)
}

func (s *sqliteStore) registerAccount(ctx context.Context, a *account) error {
	return s.transact(ctx, func(tx *sql.Tx) error {
		var result int
		err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM account WHERE email = ? OR LOWER(username) = ?", string(bytes.ToLower(a.email)), string(bytes.ToLower(a.username))).Scan(&result)
		if err != nil {
			return err
		} else if result > 0 {
			return errAccountExists
		}

		if a.rating == 0 {
			a.rating = initialRating
		}
		a.created = time.Now().Unix()
		res, err := tx.ExecContext(ctx, "INSERT INTO account (created, email, username, password, rating) VALUES (?, ?, ?, ?, ?)", a.created, string(bytes.ToLower(a.email)), string(a.username), string(a.password), a.rating)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		a.id = int(id)
		return nil
	})
}

func (s *sqliteStore) findAccount(ctx context.Context, name []byte) (*account, error) {
	a := &account{}
	lower := string(bytes.ToLower(bytes.TrimSpace(name)))
	err := s.db.QueryRowContext(ctx, "SELECT id, created, email, username, password, rating FROM account WHERE LOWER(username) = ? OR email = ?", lower, lower).Scan(&a.id, &a.created, &a.email, &a.username, &a.password, &a.rating)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errAccountNotFound
	} else if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *sqliteStore) recordResult(ctx context.Context, m *matchRecord) (int, int, error) {
	if !rated(m) {
		return 0, 0, nil
	}

	var whiteRating, blackRating int
	err := s.transact(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, "SELECT rating FROM account WHERE id = ?", m.WhiteAccount).Scan(&whiteRating)
		if err != nil {
			return err
		}
		err = tx.QueryRowContext(ctx, "SELECT rating FROM account WHERE id = ?", m.BlackAccount).Scan(&blackRating)
		if err != nil {
			return err
		}

		whiteRating, blackRating = rateMatch(whiteRating, blackRating, m.Winner)

		_, err = tx.ExecContext(ctx, "UPDATE account SET rating = ? WHERE id = ?", whiteRating, m.WhiteAccount)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, "UPDATE account SET rating = ? WHERE id = ?", blackRating, m.BlackAccount)
		return err
	})
	if err != nil {
		return 0, 0, err
	}
	return whiteRating, blackRating, nil
}

func (s *sqliteStore) matchHistory(ctx context.Context, username string) ([]*bgmatch.HistoryMatch, error) {
	lower := strings.ToLower(username)
	rows, err := s.db.QueryContext(ctx, "SELECT state FROM game WHERE ended != 0 AND (LOWER(white) = ? OR LOWER(black) = ?) ORDER BY id DESC LIMIT ?", lower, lower, historyLimit)
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

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

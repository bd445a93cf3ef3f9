package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/soyeahso/advisor/internal/domain"
	"github.com/soyeahso/advisor/internal/logging"
)

// SQLiteStore is a Store backed by SQLite, for deployments that must keep
// conversations across restarts.
type SQLiteStore struct {
	db  *sql.DB
	cap int
	log *logging.Logger

	idleTTL  time.Duration
	stopOnce sync.Once
	stop     chan struct{}
}

// OpenSQLite opens (or creates) the database at path, runs migrations, and
// returns a store trimming each session to cap messages. Use ":memory:" for
// tests. A positive idleTTL starts the same eviction janitor as the memory
// store.
func OpenSQLite(path string, cap int, idleTTL time.Duration, log *logging.Logger) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		cap:     cap,
		log:     log.Sub("session.sqlite"),
		idleTTL: idleTTL,
		stop:    make(chan struct{}),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if idleTTL > 0 {
		go s.janitor()
	}

	s.log.Info().Str("path", path).Msg("session database opened")
	return s, nil
}

// Close stops the janitor and closes the database.
func (s *SQLiteStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return s.db.Close()
}

func (s *SQLiteStore) GetOrCreate(token string) (string, []domain.Message) {
	if token != "" {
		var exists int
		err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions WHERE token = ?`, token).Scan(&exists)
		if err == nil && exists > 0 {
			return token, s.history(token)
		}
	}
	return domain.NewToken(), nil
}

func (s *SQLiteStore) AppendAndTrim(token string, msgs ...domain.Message) []domain.Message {
	now := time.Now().UTC().Format(time.DateTime)

	tx, err := s.db.Begin()
	if err != nil {
		s.log.Error().Err(err).Str("token", token).Msg("failed to begin append")
		return s.history(token)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO sessions (token, created_at, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(token) DO UPDATE SET updated_at = excluded.updated_at`,
		token, now, now,
	); err != nil {
		s.log.Error().Err(err).Str("token", token).Msg("failed to upsert session")
		return s.history(token)
	}

	for _, m := range msgs {
		if _, err := tx.Exec(
			`INSERT INTO messages (session_token, role, content, created_at) VALUES (?, ?, ?, ?)`,
			token, m.Role, m.Content, now,
		); err != nil {
			s.log.Error().Err(err).Str("token", token).Msg("failed to append message")
			return s.history(token)
		}
	}

	// Oldest-first trim down to the cap.
	if _, err := tx.Exec(
		`DELETE FROM messages WHERE session_token = ? AND id NOT IN (
			SELECT id FROM messages WHERE session_token = ? ORDER BY id DESC LIMIT ?
		)`,
		token, token, s.cap,
	); err != nil {
		s.log.Error().Err(err).Str("token", token).Msg("failed to trim session")
		return s.history(token)
	}

	if err := tx.Commit(); err != nil {
		s.log.Error().Err(err).Str("token", token).Msg("failed to commit append")
	}

	return s.history(token)
}

func (s *SQLiteStore) Delete(token string) {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE token = ?`, token); err != nil {
		s.log.Error().Err(err).Str("token", token).Msg("failed to delete session")
	}
}

func (s *SQLiteStore) Len() int {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// history loads the stored messages for a token in append order.
func (s *SQLiteStore) history(token string) []domain.Message {
	rows, err := s.db.Query(
		`SELECT role, content FROM messages WHERE session_token = ? ORDER BY id`, token,
	)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.Role, &m.Content); err != nil {
			continue
		}
		msgs = append(msgs, m)
	}
	return msgs
}

func (s *SQLiteStore) janitor() {
	interval := s.idleTTL / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().UTC().Add(-s.idleTTL).Format(time.DateTime)
			res, err := s.db.Exec(`DELETE FROM sessions WHERE updated_at < ?`, cutoff)
			if err != nil {
				s.log.Error().Err(err).Msg("idle eviction failed")
				continue
			}
			if n, _ := res.RowsAffected(); n > 0 {
				s.log.Debug().Int64("evicted", n).Msg("evicted idle sessions")
			}
		}
	}
}

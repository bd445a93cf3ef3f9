package session

import (
	"sync"
	"time"

	"github.com/soyeahso/advisor/internal/domain"
	"github.com/soyeahso/advisor/internal/logging"
)

// MemoryStore is an in-memory Store implementation. Idle sessions are
// evicted by a background janitor when an idle TTL is configured; without
// one the map grows for the life of the process.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session

	cap     int
	idleTTL time.Duration
	log     *logging.Logger

	stopOnce sync.Once
	stop     chan struct{}
}

// NewMemoryStore creates an in-memory store holding at most cap messages per
// session. A positive idleTTL starts a janitor that evicts sessions with no
// activity for that long.
func NewMemoryStore(cap int, idleTTL time.Duration, log *logging.Logger) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*domain.Session),
		cap:      cap,
		idleTTL:  idleTTL,
		log:      log.Sub("session.memory"),
		stop:     make(chan struct{}),
	}
	if idleTTL > 0 {
		go s.janitor()
	}
	return s
}

func (s *MemoryStore) GetOrCreate(token string) (string, []domain.Message) {
	if token != "" {
		s.mu.RLock()
		sess, ok := s.sessions[token]
		s.mu.RUnlock()
		if ok {
			return token, copyMessages(sess.Messages)
		}
	}
	return domain.NewToken(), nil
}

func (s *MemoryStore) AppendAndTrim(token string, msgs ...domain.Message) []domain.Message {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		sess = &domain.Session{Token: token, CreatedAt: now}
		s.sessions[token] = sess
	}
	sess.Messages = append(sess.Messages, msgs...)
	if over := len(sess.Messages) - s.cap; over > 0 {
		sess.Messages = append(sess.Messages[:0], sess.Messages[over:]...)
	}
	sess.UpdatedAt = now

	return copyMessages(sess.Messages)
}

func (s *MemoryStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the eviction janitor. Safe to call more than once.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

// janitor periodically evicts idle sessions.
func (s *MemoryStore) janitor() {
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
			s.evictIdle(time.Now().Add(-s.idleTTL))
		}
	}
}

func (s *MemoryStore) evictIdle(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, token)
			s.log.Debug().Str("token", token).Msg("evicted idle session")
		}
	}
}

func copyMessages(msgs []domain.Message) []domain.Message {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Package advisor implements the completion gateway core: it owns session
// resolution, history mutation, and the upstream provider call.
package advisor

import (
	"context"
	"errors"
	"time"

	"github.com/soyeahso/advisor/internal/domain"
	"github.com/soyeahso/advisor/internal/logging"
	"github.com/soyeahso/advisor/internal/provider"
	"github.com/soyeahso/advisor/internal/session"
)

// ErrEmptyMessage is returned when a chat request carries no user text. No
// upstream call is made in that case.
var ErrEmptyMessage = errors.New("message is required")

// ChatResult is the outcome of one chat round trip.
type ChatResult struct {
	Reply    string
	Token    string
	Duration time.Duration
}

// Runner processes chat turns: resolve session, call the provider with the
// persona prompt prepended, persist the exchange.
type Runner struct {
	sessions session.Store
	client   provider.Client
	locks    *session.KeyedMutex
	log      *logging.Logger
}

// NewRunner creates a runner over the given store and provider client.
func NewRunner(sessions session.Store, client provider.Client, log *logging.Logger) *Runner {
	return &Runner{
		sessions: sessions,
		client:   client,
		locks:    session.NewKeyedMutex(),
		log:      log.Sub("advisor"),
	}
}

// Chat handles one user message. The token may be empty, in which case a new
// session is created and its token returned.
//
// The user message and the assistant reply are persisted together in a
// single append after the upstream call succeeds; on failure the stored
// history is left exactly as it was, so the user can safely resend.
func (r *Runner) Chat(ctx context.Context, token, text string) (*ChatResult, error) {
	if text == "" {
		return nil, ErrEmptyMessage
	}

	start := time.Now()

	// Serialize the full read-call-write cycle per token. A freshly minted
	// token cannot contend: no client knows it yet.
	if token != "" {
		unlock := r.locks.Lock(token)
		defer unlock()
	}

	resolved, history := r.sessions.GetOrCreate(token)

	working := make([]domain.Message, 0, len(history)+1)
	working = append(working, history...)
	working = append(working, domain.User(text))

	reply, err := r.client.Complete(ctx, SystemPrompt, working)
	if err != nil {
		r.log.Error().Err(err).
			Str("token", resolved).
			Int("historyLen", len(history)).
			Msg("completion failed")
		return nil, err
	}

	stored := r.sessions.AppendAndTrim(resolved, domain.User(text), domain.Assistant(reply))

	r.log.Info().
		Str("token", resolved).
		Int("historyLen", len(stored)).
		Dur("duration", time.Since(start)).
		Msg("chat turn completed")

	return &ChatResult{
		Reply:    reply,
		Token:    resolved,
		Duration: time.Since(start),
	}, nil
}

// Reset deletes the session for the given token. It is idempotent: unknown
// or empty tokens succeed without effect.
func (r *Runner) Reset(token string) {
	if token == "" {
		return
	}
	unlock := r.locks.Lock(token)
	defer unlock()

	r.sessions.Delete(token)
	r.log.Info().Str("token", token).Msg("session reset")
}

// Provider reports the active provider name.
func (r *Runner) Provider() string {
	return r.client.Name()
}

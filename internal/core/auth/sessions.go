// Package auth tracks which user is signed in on this machine. The signed-in
// user selects the remote document the planner syncs with.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/weekplan/internal/core/kv"
	"github.com/colonyops/weekplan/internal/core/validate"
	"github.com/colonyops/weekplan/pkg/randid"
)

const (
	namespace  = "auth"
	currentKey = "current"
	tokenLen   = 24
)

// ErrNotSignedIn is returned by Require when no session is active.
var ErrNotSignedIn = errors.New("not signed in")

// Session is the active sign-in.
type Session struct {
	UserID     string    `json:"user_id"`
	Token      string    `json:"token"`
	SignedInAt time.Time `json:"signed_in_at"`
}

// Sessions stores the active session in the KV store. A non-zero TTL makes
// sessions expire on their own.
type Sessions struct {
	store *kv.TypedKV[Session]
	ttl   time.Duration
	log   zerolog.Logger
}

// NewSessions creates a session tracker over store.
func NewSessions(store kv.KV, ttl time.Duration, log zerolog.Logger) *Sessions {
	return &Sessions{
		store: kv.Scoped[Session](store, namespace),
		ttl:   ttl,
		log:   log.With().Str("component", "auth").Logger(),
	}
}

// SignIn replaces any active session with one for userID.
func (s *Sessions) SignIn(ctx context.Context, userID string) (Session, error) {
	userID = strings.TrimSpace(userID)
	if err := validate.UserID(userID); err != nil {
		return Session{}, err
	}

	sess := Session{
		UserID:     userID,
		Token:      randid.Generate(tokenLen),
		SignedInAt: time.Now().UTC(),
	}
	if err := s.store.SetTTL(ctx, currentKey, sess, s.ttl); err != nil {
		return Session{}, fmt.Errorf("sign in: %w", err)
	}

	s.log.Info().Str("user_id", userID).Msg("signed in")
	return sess, nil
}

// SignOut ends the active session. Signing out with no session is not an
// error.
func (s *Sessions) SignOut(ctx context.Context) error {
	if err := s.store.Delete(ctx, currentKey); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	s.log.Info().Msg("signed out")
	return nil
}

// Session returns the active session, if any.
func (s *Sessions) Session(ctx context.Context) (Session, bool, error) {
	sess, err := s.store.Get(ctx, currentKey)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("load session: %w", err)
	}
	return sess, true, nil
}

// Current reports the signed-in user id. Lookup failures are logged and
// treated as signed out so the planner falls back to the local cache.
func (s *Sessions) Current(ctx context.Context) (string, bool) {
	sess, ok, err := s.Session(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("session lookup failed, treating as signed out")
		return "", false
	}
	if !ok {
		return "", false
	}
	return sess.UserID, true
}

// Require returns the signed-in user id or ErrNotSignedIn.
func (s *Sessions) Require(ctx context.Context) (string, error) {
	id, ok := s.Current(ctx)
	if !ok {
		return "", ErrNotSignedIn
	}
	return id, nil
}

// Package session tracks the authenticated identity and broadcasts
// transitions to the rest of the application.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	surrealdb "github.com/surrealdb/surrealdb.go"
)

const minPasswordLen = 8

// Identity is the authenticated principal. At most one is live per session.
type Identity struct {
	ID    string
	Email string
}

// authClient is the slice of the SurrealDB connection the session needs.
// The credential parameters are any to line up with the driver's methods;
// this package always passes a surrealdb.Auth.
type authClient interface {
	SignIn(ctx context.Context, authData any) (string, error)
	SignUp(ctx context.Context, authData any) (string, error)
	Authenticate(ctx context.Context, token string) error
	Invalidate(ctx context.Context) error
}

var _ authClient = (*surrealdb.DB)(nil)

// Session owns the current identity and the change-notification stream.
// Callbacks are serialized: at most one is in flight at a time.
type Session struct {
	db        authClient
	namespace string
	database  string
	access    string
	log       zerolog.Logger

	mu        sync.Mutex
	current   *Identity
	token     string
	callbacks []func(*Identity)
}

func New(db authClient, namespace, database, access string, log zerolog.Logger) *Session {
	return &Session{
		db:        db,
		namespace: namespace,
		database:  database,
		access:    access,
		log:       log,
	}
}

// Current returns the live identity, or nil when signed out.
func (s *Session) Current() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Token returns the session token for persistence across invocations.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// OnChange registers a callback for identity transitions. It is invoked
// immediately with the current state, then on every transition.
func (s *Session) OnChange(cb func(*Identity)) {
	s.mu.Lock()
	s.callbacks = append(s.callbacks, cb)
	current := s.current
	s.mu.Unlock()

	cb(current)
}

func (s *Session) transition(id *Identity, token string) {
	s.mu.Lock()
	s.current = id
	s.token = token
	callbacks := make([]func(*Identity), len(s.callbacks))
	copy(callbacks, s.callbacks)
	s.mu.Unlock()

	for _, cb := range callbacks {
		cb(id)
	}
}

func (s *Session) auth(email, password string) surrealdb.Auth {
	return surrealdb.Auth{
		Namespace: s.namespace,
		Database:  s.database,
		Access:    s.access,
		Username:  email,
		Password:  password,
	}
}

// SignIn authenticates the given email/password as a record user.
func (s *Session) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	email = strings.TrimSpace(email)

	token, err := s.db.SignIn(ctx, s.auth(email, password))
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("sign-in failed")
		return nil, classify("sign in", err)
	}

	id := identityFromToken(token, email)
	s.log.Info().Str("id", id.ID).Msg("signed in")
	s.transition(id, token)
	return id, nil
}

// Register creates a new record user and signs it in. Weak passwords are
// rejected before the round-trip.
func (s *Session) Register(ctx context.Context, email, password string) (*Identity, error) {
	email = strings.TrimSpace(email)
	if len(password) < minPasswordLen {
		return nil, authErr(
			"register",
			CodeWeakPassword,
			fmt.Errorf("password must be at least %d characters", minPasswordLen),
		)
	}

	token, err := s.db.SignUp(ctx, s.auth(email, password))
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("registration failed")
		classified := classify("register", err)
		if classified.Code == CodeInvalidCredentials {
			// A rejected signup on an existing record reads like an auth
			// failure from the server; report the conflict instead.
			classified.Code = CodeEmailInUse
		}
		return nil, classified
	}

	id := identityFromToken(token, email)
	s.log.Info().Str("id", id.ID).Msg("registered")
	s.transition(id, token)
	return id, nil
}

// SignOut invalidates the remote session. Local state is cleared even when
// the round-trip fails.
func (s *Session) SignOut(ctx context.Context) error {
	err := s.db.Invalidate(ctx)

	s.transition(nil, "")
	s.log.Info().Msg("signed out")

	if err != nil {
		return authErr("sign out", CodeNetwork, err)
	}
	return nil
}

// Resume restores a previously persisted token, e.g. across CLI invocations.
func (s *Session) Resume(ctx context.Context, token string) (*Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}

	if err := s.db.Authenticate(ctx, token); err != nil {
		return nil, classify("resume session", err)
	}

	id := identityFromToken(token, "")
	s.transition(id, token)
	return id, nil
}

// identityFromToken recovers the record user id from the JWT the server
// issued, avoiding an extra round-trip. The claims are not verified here;
// the server remains the authority on token validity.
func identityFromToken(token, email string) *Identity {
	id := &Identity{Email: email}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return id
	}

	if v, ok := claims["ID"].(string); ok {
		id.ID = v
	}
	return id
}

// Package auth implements the email/password identity provider: account
// registration, sign-in/sign-out, auth-state subscriptions, and bearer
// tokens for the HTTP surface.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"ledgerly/internal/core"
	"ledgerly/internal/log"
	"ledgerly/internal/storage"
)

var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")

	errInvalidEmail = fmt.Errorf("%w: a valid email is required", core.ErrValidation)
	errWeakPassword = fmt.Errorf("%w: password must be at least 6 characters", core.ErrValidation)
)

// Identity is the authenticated principal.
type Identity struct {
	ID          string
	Email       string
	DisplayName string
}

// Service is the identity provider. It holds the current interactive
// identity and notifies subscribers on every auth-state change.
type Service struct {
	users  *storage.UserStore
	logger *log.Logger
	cost   int

	mu      sync.Mutex
	current *Identity
	subs    map[int]func(*Identity)
	nextSub int
}

// NewService creates an identity provider over the given user store.
func NewService(users *storage.UserStore, logger *log.Logger) *Service {
	return &Service{
		users:  users,
		logger: logger.WithComponent(log.ComponentAuth),
		cost:   bcrypt.DefaultCost,
		subs:   make(map[int]func(*Identity)),
	}
}

// SignUp registers a new account and signs it in. Duplicate emails are
// rejected before any credential material is stored.
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateCredentials(email, password); err != nil {
		return Identity{}, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return Identity{}, ErrEmailTaken
	} else if !errors.Is(err, core.ErrNotFound) {
		return Identity{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return Identity{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Insert(ctx, storage.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(displayName),
	})
	if err != nil {
		return Identity{}, err
	}

	identity := Identity{ID: user.ID, Email: user.Email, DisplayName: user.DisplayName}
	s.setCurrent(&identity)
	s.logger.InfoContext(ctx, "User registered",
		log.FieldOperation, log.OpSignUp,
		log.FieldUserID, identity.ID)
	return identity, nil
}

// SignIn authenticates an existing account. Unknown emails and wrong
// passwords collapse into one invalid-credentials error.
func (s *Service) SignIn(ctx context.Context, email, password string) (Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return Identity{}, ErrInvalidCredentials
		}
		return Identity{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Identity{}, ErrInvalidCredentials
	}

	identity := Identity{ID: user.ID, Email: user.Email, DisplayName: user.DisplayName}
	s.setCurrent(&identity)
	s.logger.InfoContext(ctx, "User signed in",
		log.FieldOperation, log.OpSignIn,
		log.FieldUserID, identity.ID)
	return identity, nil
}

// SignOut clears the current identity and notifies subscribers.
func (s *Service) SignOut(ctx context.Context) {
	s.setCurrent(nil)
	s.logger.InfoContext(ctx, "User signed out", log.FieldOperation, log.OpSignOut)
}

// Current returns the current identity, or nil when signed out.
func (s *Service) Current() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers a callback invoked on every auth-state change. The
// callback fires immediately with the current state, then on each change,
// until the returned unsubscribe function is called.
func (s *Service) Subscribe(fn func(*Identity)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	current := s.current
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Service) setCurrent(identity *Identity) {
	s.mu.Lock()
	s.current = identity
	subs := make([]func(*Identity), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(identity)
	}
}

func validateCredentials(email, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return errInvalidEmail
	}
	if len(password) < 6 {
		return errWeakPassword
	}
	return nil
}

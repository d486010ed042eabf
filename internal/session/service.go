package session

import (
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SignUpRequest carries the registration form. Password is accepted but never stored.
type SignUpRequest struct {
	Name       string
	Email      string
	Password   string
	Role       models.Role
	Department *models.Department
	StudentID  *string
}

// Service holds at most one active identity for one browsing context and
// mirrors it into a SessionStore record under a fixed key.
type Service struct {
	dir   *Directory
	store storage.SessionStore
	key   string
	delay time.Duration
	log   zerolog.Logger

	mu     sync.RWMutex
	active *models.User
}

// NewService creates a signed-out session. Call Restore to pick up a persisted identity.
func NewService(dir *Directory, store storage.SessionStore, key string, delay time.Duration, log zerolog.Logger) *Service {
	return &Service{
		dir:   dir,
		store: store,
		key:   key,
		delay: delay,
		log:   log.With().Str("session", key).Logger(),
	}
}

// Active returns a copy of the active identity, or nil when signed out.
func (s *Service) Active() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Clone()
}

// SignIn activates the identity registered under email. The password must be
// non-empty but is not checked against anything.
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	s.simulateLatency()

	if password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.dir.Lookup(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	s.activate(ctx, u)
	s.log.Info().Str("user_id", u.ID).Str("role", string(u.Role)).Msg("signed in")
	return u.Clone(), nil
}

// SignUp registers a new identity and activates it. An email already in the
// directory fails with ErrDuplicateIdentity and changes nothing.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*models.User, error) {
	s.simulateLatency()

	u, err := s.dir.Register(ctx, models.User{
		Name:       req.Name,
		Email:      req.Email,
		Role:       req.Role,
		Department: req.Department,
		StudentID:  req.StudentID,
	})
	if err != nil {
		return nil, err
	}

	s.activate(ctx, u)
	s.log.Info().Str("user_id", u.ID).Str("role", string(u.Role)).Msg("signed up")
	return u.Clone(), nil
}

// SignOut clears the active identity and its persisted record. It always succeeds.
func (s *Service) SignOut(ctx context.Context) {
	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()

	if err := s.store.DeleteSession(ctx, s.key); err != nil {
		s.log.Error().Err(err).Msg("failed to remove persisted session")
	}
}

// Restore reloads the persisted identity. A missing or unreadable record
// leaves the session signed out.
func (s *Service) Restore(ctx context.Context) {
	rec, err := s.store.LoadSession(ctx, s.key)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to load persisted session")
		return
	}
	if rec == nil {
		return
	}

	var u models.User
	if err := json.Unmarshal(rec, &u); err != nil {
		s.log.Warn().Err(err).Msg("discarding unreadable session record")
		return
	}
	if u.ID == "" {
		s.log.Warn().Msg("discarding session record without id")
		return
	}
	if _, err := models.ParseRole(string(u.Role)); err != nil {
		s.log.Warn().Err(err).Msg("discarding session record with unknown role")
		return
	}

	s.mu.Lock()
	s.active = &u
	s.mu.Unlock()
}

func (s *Service) activate(ctx context.Context, u *models.User) {
	s.mu.Lock()
	s.active = u.Clone()
	s.mu.Unlock()

	rec, err := json.Marshal(u)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode session record")
		return
	}
	if err := s.store.SaveSession(ctx, s.key, rec); err != nil {
		s.log.Error().Err(err).Msg("failed to persist session")
	}
}

// simulateLatency stands in for a network round trip. It cannot be cancelled:
// once started, the operation always completes.
func (s *Service) simulateLatency() {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
}

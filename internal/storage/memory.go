package storage

import (
	"complaintdesk/backend/internal/models"
	"context"
	"sync"
)

var _ Storage = (*MemoryStore)(nil)

// MemoryStore keeps the directory and the complaint list in process memory.
// Values are copied on the way in and out.
type MemoryStore struct {
	mu           sync.RWMutex
	users        []*models.User
	usersByEmail map[string]*models.User
	usersByID    map[string]*models.User
	complaints   []*models.Complaint // newest first
	byID         map[string]*models.Complaint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		usersByEmail: map[string]*models.User{},
		usersByID:    map[string]*models.User{},
		byID:         map[string]*models.Complaint{},
	}
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.usersByEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u.Clone(), nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.usersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u.Clone(), nil
}

func (s *MemoryStore) CountUsers(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.usersByEmail[user.Email]; ok {
		return ErrDuplicateEmail
	}
	if _, ok := s.usersByID[user.ID]; ok {
		return ErrDuplicateEmail
	}
	u := user.Clone()
	s.users = append(s.users, u)
	s.usersByEmail[u.Email] = u
	s.usersByID[u.ID] = u
	return nil
}

func (s *MemoryStore) ListComplaints(context.Context) ([]models.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Complaint, 0, len(s.complaints))
	for _, c := range s.complaints {
		out = append(out, *c.Clone())
	}
	return out, nil
}

func (s *MemoryStore) GetComplaintByID(_ context.Context, id string) (*models.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c.Clone(), nil
}

func (s *MemoryStore) CountComplaints(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.complaints), nil
}

func (s *MemoryStore) SaveComplaint(_ context.Context, complaint *models.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := complaint.Clone()
	if _, ok := s.byID[c.ID]; ok {
		for i := range s.complaints {
			if s.complaints[i].ID == c.ID {
				s.complaints[i] = c
				break
			}
		}
		s.byID[c.ID] = c
		return nil
	}
	s.complaints = append([]*models.Complaint{c}, s.complaints...)
	s.byID[c.ID] = c
	return nil
}

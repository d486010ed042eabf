// Package session manages the active identity of each browsing context and the
// directory of identities it signs in against.
package session

import (
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateIdentity  = errors.New("user already exists")
	ErrInvalidRole        = errors.New("invalid role")
)

// Directory is the shared set of identities. Registration is serialized so
// that sequential IDs stay unique across browsing contexts.
type Directory struct {
	Storage storage.Storage
	mu      sync.Mutex
}

func NewDirectory(s storage.Storage) *Directory {
	return &Directory{Storage: s}
}

// Lookup finds an identity by exact email match.
func (d *Directory) Lookup(ctx context.Context, email string) (*models.User, error) {
	return d.Storage.FindUserByEmail(ctx, email)
}

// Register appends a new identity with the next sequential ID ("u<n+1>").
// The ID and email of u are ignored/checked respectively.
func (d *Directory) Register(ctx context.Context, u models.User) (*models.User, error) {
	switch u.Role {
	case models.RoleStudent, models.RoleAdmin:
	default:
		return nil, ErrInvalidRole
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	_, err := d.Storage.FindUserByEmail(ctx, u.Email)
	if err == nil {
		return nil, ErrDuplicateIdentity
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("lookup %s: %w", u.Email, err)
	}

	n, err := d.Storage.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	u.ID = fmt.Sprintf("u%d", n+1)

	if err := d.Storage.CreateUser(ctx, &u); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u.Clone(), nil
}

// Package complaint owns the complaint list and every mutation of it.
// Each mutation is authorized against the caller's role before anything changes.
package complaint

import (
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/events"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrUnauthenticated = errors.New("not signed in")
	ErrForbidden       = errors.New("not allowed for this role")
	ErrNotFound        = errors.New("complaint not found")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrNotResolved     = errors.New("feedback is only accepted for resolved complaints")
	ErrFeedbackExists  = errors.New("feedback already submitted")
)

// Draft is the student-supplied part of a new complaint.
type Draft struct {
	Title       string
	Description string
	Category    models.Category
	Department  models.Department
	IsAnonymous bool
}

// Service handles the business logic for complaints.
type Service struct {
	Storage   storage.Storage
	Publisher events.Publisher

	log zerolog.Logger
	now func() time.Time
	// mu serializes read-modify-write cycles so every mutation is a single step.
	mu sync.Mutex
}

// NewService creates a new complaint service. pub may be nil.
func NewService(s storage.Storage, pub events.Publisher, log zerolog.Logger) *Service {
	return &Service{
		Storage:   s,
		Publisher: pub,
		log:       log,
		now:       time.Now,
	}
}

// SetClock replaces the time source. Intended for tests and tools.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Create files a new complaint owned by actor. Only students may file
// complaints. The store performs no field validation.
func (s *Service) Create(ctx context.Context, actor *models.User, d Draft) (*models.Complaint, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if !actor.Role.CanSubmitComplaints() {
		return nil, ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.Storage.CountComplaints(ctx)
	if err != nil {
		return nil, fmt.Errorf("count complaints: %w", err)
	}

	now := s.now()
	c := &models.Complaint{
		ID:          fmt.Sprintf("c%d", n+1),
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Department:  d.Department,
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
		StudentID:   actor.ID,
		IsAnonymous: d.IsAnonymous,
		Responses:   []models.Response{},
	}
	if !d.IsAnonymous {
		name := actor.Name
		c.StudentName = &name
	}

	if err := s.Storage.SaveComplaint(ctx, c); err != nil {
		return nil, fmt.Errorf("save complaint: %w", err)
	}

	s.log.Info().Str("complaint_id", c.ID).Str("student_id", actor.ID).Bool("anonymous", c.IsAnonymous).Msg("complaint created")
	s.publish(ctx, events.ComplaintCreated, c)
	return c.Clone(), nil
}

// SetStatus moves a complaint to status. Administrators only.
func (s *Service) SetStatus(ctx context.Context, actor *models.User, id string, status models.Status) (*models.Complaint, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	return s.mutate(ctx, id, events.ComplaintStatusChanged, func(c *models.Complaint, now time.Time) error {
		c.Status = status
		return nil
	})
}

// AddResponse appends an administrator reply after all existing responses.
func (s *Service) AddResponse(ctx context.Context, actor *models.User, id, content string) (*models.Complaint, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, events.ComplaintResponded, func(c *models.Complaint, now time.Time) error {
		c.Responses = append(c.Responses, models.Response{
			ID:        nextResponseID(c.Responses),
			Content:   content,
			CreatedAt: now,
			AdminName: actor.Name,
			AdminID:   actor.ID,
		})
		return nil
	})
}

// AddFeedback attaches the owner's rating to a resolved complaint, once.
func (s *Service) AddFeedback(ctx context.Context, actor *models.User, id string, rating int, comment string) (*models.Complaint, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if !actor.Role.CanSubmitComplaints() {
		return nil, ErrForbidden
	}
	if rating < config.MinRating || rating > config.MaxRating {
		return nil, ErrInvalidRating
	}

	return s.mutate(ctx, id, events.ComplaintFeedback, func(c *models.Complaint, now time.Time) error {
		if c.StudentID != actor.ID {
			return ErrForbidden
		}
		if c.Status != models.StatusResolved {
			return ErrNotResolved
		}
		if c.Feedback != nil {
			return ErrFeedbackExists
		}
		c.Feedback = &models.Feedback{Rating: rating, Comment: comment}
		return nil
	})
}

// Get returns one complaint if actor may see it. Students only see their own.
func (s *Service) Get(ctx context.Context, actor *models.User, id string) (*models.Complaint, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, c) {
		// Hide the existence of other students' complaints.
		return nil, ErrNotFound
	}
	return c, nil
}

// List returns the derived view of the complaint list for actor.
func (s *Service) List(ctx context.Context, actor *models.User, f Filter) ([]models.Complaint, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	all, err := s.Storage.ListComplaints(ctx)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	return View(all, actor, f), nil
}

// All returns the whole list without ownership scoping. Administrators only.
func (s *Service) All(ctx context.Context, actor *models.User) ([]models.Complaint, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	all, err := s.Storage.ListComplaints(ctx)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	return all, nil
}

// mutate loads, changes and saves one complaint under the service lock.
// UpdatedAt is refreshed and never moves backwards.
func (s *Service) mutate(ctx context.Context, id string, evType events.Type, change func(c *models.Complaint, now time.Time) error) (*models.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if now.Before(c.UpdatedAt) {
		now = c.UpdatedAt
	}
	if err := change(c, now); err != nil {
		return nil, err
	}
	c.UpdatedAt = now

	if err := s.Storage.SaveComplaint(ctx, c); err != nil {
		return nil, fmt.Errorf("save complaint %s: %w", id, err)
	}

	s.log.Info().Str("complaint_id", c.ID).Str("event", string(evType)).Str("status", string(c.Status)).Msg("complaint updated")
	s.publish(ctx, evType, c)
	return c.Clone(), nil
}

func (s *Service) load(ctx context.Context, id string) (*models.Complaint, error) {
	c, err := s.Storage.GetComplaintByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load complaint %s: %w", id, err)
	}
	return c, nil
}

func (s *Service) publish(ctx context.Context, t events.Type, c *models.Complaint) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Publish(ctx, events.NewEvent(t, c)); err != nil {
		s.log.Error().Err(err).Str("complaint_id", c.ID).Msg("failed to publish event")
	}
}

// nextResponseID numbers a new response after the highest "r<n>" on the
// complaint, so ids stay unique even if earlier data was numbered sparsely.
func nextResponseID(responses []models.Response) string {
	highest := len(responses)
	for _, r := range responses {
		if n, err := strconv.Atoi(strings.TrimPrefix(r.ID, "r")); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("r%d", highest+1)
}

func requireManager(actor *models.User) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !actor.Role.CanManageComplaints() {
		return ErrForbidden
	}
	return nil
}

func canSee(actor *models.User, c *models.Complaint) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleStudent:
		return c.StudentID == actor.ID
	}
	return false
}

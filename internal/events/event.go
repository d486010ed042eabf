// Package events delivers complaint changes to connected browsers.
package events

import (
	"complaintdesk/backend/internal/models"
	"context"
	"time"
)

// Type names what happened to a complaint.
type Type string

const (
	ComplaintCreated       Type = "complaint.created"
	ComplaintStatusChanged Type = "complaint.status_changed"
	ComplaintResponded     Type = "complaint.responded"
	ComplaintFeedback      Type = "complaint.feedback"
)

// Event is the message pushed to clients. It never carries the student's name,
// so anonymous complaints stay anonymous on the wire.
type Event struct {
	Type        Type          `json:"type"`
	ComplaintID string        `json:"complaintId"`
	StudentID   string        `json:"studentId"`
	Status      models.Status `json:"status"`
	At          time.Time     `json:"at"`
}

// Publisher accepts events produced by the complaint store.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// NewEvent builds an event describing the current state of c.
func NewEvent(t Type, c *models.Complaint) Event {
	return Event{
		Type:        t,
		ComplaintID: c.ID,
		StudentID:   c.StudentID,
		Status:      c.Status,
		At:          c.UpdatedAt,
	}
}

// VisibleTo reports whether u may observe ev: admins see everything,
// students only events about their own complaints.
func (ev Event) VisibleTo(u *models.User) bool {
	if u == nil {
		return false
	}
	switch u.Role {
	case models.RoleAdmin:
		return true
	case models.RoleStudent:
		return ev.StudentID == u.ID
	}
	return false
}

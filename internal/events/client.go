package events

import "complaintdesk/backend/internal/models"

// Client is one live connection that receives complaint events.
type Client interface {
	// GetClientID returns the unique identifier of the connection.
	GetClientID() string
	// GetUser returns the identity currently active for the connection,
	// or nil when signed out. It is evaluated per event, so signing in or
	// out changes what the connection receives without reconnecting.
	GetUser() *models.User
	// GetSendChannel returns the channel the hub writes events to.
	GetSendChannel() chan<- Event

	// Run starts the read and write pumps.
	Run()
	// Close stops the connection. Safe to call more than once.
	Close()
}

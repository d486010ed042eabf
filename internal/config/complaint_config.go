package config

import "time"

const (
	// Session
	SessionKey  = "user"
	TokenTTL    = 72 * time.Hour
	TokenIssuer = "complaintdesk-service"

	// Cached browsing contexts; evicted ones are restored from their record.
	MaxCachedSessions = 10000
	SessionIdleTTL    = 30 * time.Minute

	// Events
	EventsChannel = "complaints:events"

	// Form rules
	MinTitleLength       = 5
	MinDescriptionLength = 20
	MinPasswordLength    = 6

	// Feedback
	MinRating = 1
	MaxRating = 5

	DefaultSimulatedDelay = time.Second
)

// Package handler exposes the session and complaint stores over HTTP.
package handler

import (
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/events"
	"complaintdesk/backend/internal/localization"
	"complaintdesk/backend/internal/metrics"
	"complaintdesk/backend/internal/session"

	"github.com/rs/zerolog"
)

// Handler holds the services the HTTP routes delegate to.
type Handler struct {
	Sessions   *session.Registry
	Complaints *complaint.Service
	Hub        *events.Hub
	Labels     *localization.Localizer
	// Metrics is optional; when set the router records requests and serves /metrics.
	Metrics *metrics.Metrics

	secret []byte
	log    zerolog.Logger
}

func NewHandler(sessions *session.Registry, complaints *complaint.Service, hub *events.Hub, labels *localization.Localizer, jwtSecret string, log zerolog.Logger) *Handler {
	registerValidators()
	return &Handler{
		Sessions:   sessions,
		Complaints: complaints,
		Hub:        hub,
		Labels:     labels,
		secret:     []byte(jwtSecret),
		log:        log,
	}
}

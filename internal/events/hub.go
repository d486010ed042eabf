package events

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// ErrHubBusy is returned by Publish when the event queue is full.
var ErrHubBusy = errors.New("event hub queue is full")

const eventQueueSize = 256

// Hub tracks live clients and fans events out to those allowed to see them.
// All client bookkeeping happens on the Run goroutine.
type Hub struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	EventsCh     chan Event

	log   zerolog.Logger
	done  chan struct{}
	count atomic.Int64
}

var _ Publisher = (*Hub)(nil)

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		EventsCh:     make(chan Event, eventQueueSize),
		log:          log,
		done:         make(chan struct{}),
	}
}

// Publish queues ev for delivery without waiting for clients.
func (h *Hub) Publish(ctx context.Context, ev Event) error {
	select {
	case h.EventsCh <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrHubBusy
	}
}

// Run processes registrations and events until ctx is cancelled.
// Remaining clients are closed on exit.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for id, c := range h.Clients {
			c.Close()
			delete(h.Clients, id)
		}
		h.count.Store(0)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.RegisterCh:
			if old, ok := h.Clients[c.GetClientID()]; ok {
				old.Close()
			} else {
				h.count.Add(1)
			}
			h.Clients[c.GetClientID()] = c
			h.log.Debug().Str("client_id", c.GetClientID()).Int("clients", len(h.Clients)).Msg("client registered")

		case c := <-h.UnregisterCh:
			h.drop(c.GetClientID())

		case ev := <-h.EventsCh:
			h.broadcast(ev)
		}
	}
}

// ClientCount returns the number of registered clients. Safe from any goroutine.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Register adds c and reports whether the hub accepted it.
func (h *Hub) Register(c Client) bool {
	select {
	case h.RegisterCh <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c. It does not block once Run has returned.
func (h *Hub) Unregister(c Client) {
	select {
	case h.UnregisterCh <- c:
	case <-h.done:
	}
}

func (h *Hub) broadcast(ev Event) {
	for id, c := range h.Clients {
		if !ev.VisibleTo(c.GetUser()) {
			continue
		}
		select {
		case c.GetSendChannel() <- ev:
		default:
			// Slow consumer: drop it rather than stall every other client.
			h.log.Warn().Str("client_id", id).Msg("client send buffer full, disconnecting")
			h.drop(id)
		}
	}
}

func (h *Hub) drop(id string) {
	c, ok := h.Clients[id]
	if !ok {
		return
	}
	delete(h.Clients, id)
	h.count.Add(-1)
	c.Close()
	h.log.Debug().Str("client_id", id).Int("clients", len(h.Clients)).Msg("client unregistered")
}

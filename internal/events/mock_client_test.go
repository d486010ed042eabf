package events_test

import (
	"complaintdesk/backend/internal/events"
	"complaintdesk/backend/internal/models"
	"sync"
)

type MockClient struct {
	id          string
	user        *models.User
	RecvChannel chan events.Event

	mu     sync.Mutex
	closed bool
	Closed chan struct{}
}

func newMockClient(id string, user *models.User, buffer int) *MockClient {
	return &MockClient{
		id:          id,
		user:        user,
		RecvChannel: make(chan events.Event, buffer),
		Closed:      make(chan struct{}),
	}
}

func (c *MockClient) GetClientID() string                 { return c.id }
func (c *MockClient) GetUser() *models.User               { return c.user }
func (c *MockClient) GetSendChannel() chan<- events.Event { return c.RecvChannel }

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Closed)
	}
}

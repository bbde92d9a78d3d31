package mocks

import (
	"sync"

	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/protocol"
	"github.com/casuskim/casus/internal/realtime"
)

// MockChannel records every message sent to it
type MockChannel struct {
	mu       sync.Mutex
	id       string
	closed   bool
	failing  bool
	messages [][]byte
}

// Ensure MockChannel implements Channel
var _ realtime.Channel = (*MockChannel)(nil)

// NewMockChannel creates an open MockChannel
func NewMockChannel(id string) *MockChannel {
	return &MockChannel{id: id}
}

func (c *MockChannel) ID() string {
	return c.id
}

// Send records the message, or fails if the channel is closed or set to fail
func (c *MockChannel) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return model.ErrChannelClosed
	}
	if c.failing {
		return model.ErrSendBufferFull
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *MockChannel) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

func (c *MockChannel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// SetFailing makes subsequent sends fail while the channel still reports itself open
func (c *MockChannel) SetFailing(failing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failing = failing
}

// Events returns every recorded message decoded into an event envelope
func (c *MockChannel) Events() []protocol.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	events := make([]protocol.Event, 0, len(c.messages))
	for _, m := range c.messages {
		ev, err := protocol.ParseEvent(m)
		if err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events
}

// Types returns the type tag of every recorded message in order
func (c *MockChannel) Types() []protocol.Type {
	events := c.Events()
	types := make([]protocol.Type, len(events))
	for i, ev := range events {
		types[i] = ev.Type
	}
	return types
}

// Last returns the most recent event of the given type
func (c *MockChannel) Last(t protocol.Type) (protocol.Event, bool) {
	events := c.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Type == t {
			return events[i], true
		}
	}
	return protocol.Event{}, false
}

// Clear discards recorded messages
func (c *MockChannel) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
}

// Package sse tracks which users currently hold an open live-update channel
// and provides the handle needed to push events to them.
package sse

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/chatterbox-dev/chatterbox/internal/domain"
)

var openChannels = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "sse_open_channels",
	Help: "Number of currently open live channels",
})

// Client is one user's live channel. Events are delivered through a buffered
// channel consumed by the HTTP handler that owns the connection; Done is
// closed when the client is displaced by a newer registration or unregistered.
type Client struct {
	userId    domain.UserId
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(userId domain.UserId) *Client {
	return &Client{
		userId: userId,
		send:   make(chan []byte, 16),
		done:   make(chan struct{}),
	}
}

func (c *Client) UserId() domain.UserId { return c.userId }

// Events is consumed by the stream handler goroutine.
func (c *Client) Events() <-chan []byte { return c.send }

// Done is closed when the registry discards this client.
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Registry maps a recipient user id to their open live channel. At most one
// channel per user: a newer registration displaces the previous one, and the
// displaced handle is closed so its connection does not leak.
type Registry struct {
	mu      sync.RWMutex
	clients map[domain.UserId]*Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[domain.UserId]*Client)}
}

// Register stores the client as the live channel for its user. Last writer
// wins when two registrations for the same user race.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	prev := r.clients[c.userId]
	r.clients[c.userId] = c
	r.mu.Unlock()

	if prev != nil {
		prev.close()
	} else {
		openChannels.Inc()
	}
}

// Unregister removes the client if it is still the registered channel for its
// user. A stale client (already displaced by a reconnect) only closes itself
// and must not tear down the newer registration.
func (r *Registry) Unregister(c *Client) {
	r.mu.Lock()
	if r.clients[c.userId] == c {
		delete(r.clients, c.userId)
		openChannels.Dec()
	}
	r.mu.Unlock()

	c.close()
}

// Lookup returns the currently registered channel for the user. Never blocks.
func (r *Registry) Lookup(userId domain.UserId) (*Client, bool) {
	r.mu.RLock()
	c, ok := r.clients[userId]
	r.mu.RUnlock()
	return c, ok
}

// Push delivers payload to the user's channel if one is open. Delivery is
// best-effort and non-blocking: a missing channel, a closed channel or a full
// buffer all report false and drop the event.
func (r *Registry) Push(userId domain.UserId, payload []byte) bool {
	c, ok := r.Lookup(userId)
	if !ok {
		return false
	}
	select {
	case <-c.done:
		return false
	case c.send <- payload:
		return true
	default:
		return false
	}
}

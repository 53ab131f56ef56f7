package main

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

const (
	maxConnsPerIP = 5
	maxTotalConns = 200
)

// Hub tracks connected clients, fans out broadcasts and owns the
// controller seat
type Hub struct {
	log        zerolog.Logger
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int

	auth      *Auth
	host      *Host
	analytics *Analytics

	ctrlMu     sync.Mutex
	controller *Client
}

// NewHub creates a new Hub
func NewHub(auth *Auth, log zerolog.Logger) *Hub {
	return &Hub{
		log:        log.With().Str("component", "hub").Logger(),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		ipConns:    make(map[string]int),
		auth:       auth,
	}
}

// Bind connects the hub to the host it steers
func (h *Hub) Bind(host *Host, analytics *Analytics) {
	h.host = host
	h.analytics = analytics
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Run processes register/unregister events until ctx is done
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return nil

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.Debug().Str("ip", client.remoteAddr).Msg("client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.Release(client)
			h.log.Debug().Str("ip", client.remoteAddr).Msg("client disconnected")
		}
	}
}

// Register adds c unless the hub has stopped
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c; it is a no-op once the hub has stopped
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Claim makes c the controller. A previous controller is told it lost the seat.
func (h *Hub) Claim(c *Client) {
	h.ctrlMu.Lock()
	prev := h.controller
	h.controller = c
	h.ctrlMu.Unlock()

	if prev != nil && prev != c {
		prev.SendJSON(Envelope{T: MsgCtrlOff})
	}
	if h.host != nil {
		h.host.SetControlled(true)
	}
	if h.analytics != nil && h.host != nil {
		h.analytics.Track(EvtControl, h.host.RoundID(), map[string]string{"ip": c.remoteAddr})
	}
	h.log.Info().Str("ip", c.remoteAddr).Msg("controller attached")
}

// Release frees the controller seat if c holds it
func (h *Hub) Release(c *Client) {
	h.ctrlMu.Lock()
	held := h.controller == c
	if held {
		h.controller = nil
	}
	h.ctrlMu.Unlock()

	if held {
		if h.host != nil {
			h.host.SetControlled(false)
		}
		h.log.Info().Str("ip", c.remoteAddr).Msg("controller detached")
	}
}

// IsController reports whether c holds the controller seat
func (h *Hub) IsController(c *Client) bool {
	h.ctrlMu.Lock()
	defer h.ctrlMu.Unlock()
	return h.controller == c
}

// BroadcastJSON marshals msg once and queues it on every client
func (h *Hub) BroadcastJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error().Err(err).Msg("marshal broadcast")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.SendRaw(data)
	}
}

// BroadcastBinary queues a binary frame on every client
func (h *Hub) BroadcastBinary(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.SendBinary(data)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}

// Package realtime fans inventory and alert events out to live connections
// grouped by city.
package realtime

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/meditrack/meditrack-api/pkg/logger"
	"github.com/meditrack/meditrack-api/pkg/metrics"
)

const defaultSendBuffer = 256

// Broadcaster delivers an event to every subscriber of a city.
type Broadcaster interface {
	Emit(ctx context.Context, city, event string, payload any) error
}

// Client is one live connection. A client belongs to at most one city.
type Client struct {
	ID   string
	Send chan []byte
	city string
}

// NewClient allocates a client with a buffered outbound queue.
func NewClient(buffer int) *Client {
	if buffer <= 0 {
		buffer = defaultSendBuffer
	}
	return &Client{ID: uuid.NewString(), Send: make(chan []byte, buffer)}
}

// Hub tracks clients and their city rooms. All methods are safe for
// concurrent use; Emit may run while clients join and leave.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	all     map[*Client]struct{}
	logg    *logger.Logger
	metrics *metrics.Realtime
}

func NewHub(logg *logger.Logger, m *metrics.Realtime) *Hub {
	return &Hub{
		rooms:   make(map[string]map[*Client]struct{}),
		all:     make(map[*Client]struct{}),
		logg:    logg,
		metrics: m,
	}
}

func normalizeCity(city string) string {
	return strings.TrimSpace(city)
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.all[client] = struct{}{}
	h.metrics.SetClients(len(h.all))
}

// Unregister drops the client from its room and closes its Send channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; !ok {
		return
	}
	h.removeFromRoom(client)
	delete(h.all, client)
	close(client.Send)
	h.metrics.SetClients(len(h.all))
}

func (h *Hub) removeFromRoom(client *Client) {
	if client.city == "" {
		return
	}
	if members, ok := h.rooms[client.city]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, client.city)
		}
	}
	client.city = ""
}

// Join moves the client into city, leaving any previous room first. The
// client receives left_city for the old room and joined_city for the new one.
func (h *Hub) Join(client *Client, city string) (previous string) {
	city = normalizeCity(city)
	if city == "" {
		return ""
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; !ok {
		return ""
	}
	previous = client.city
	if previous != city {
		if previous != "" {
			h.removeFromRoom(client)
			h.sendLocked(client, EventLeftCity, cityNotice{City: previous, Message: "Left city room"})
		}
		if h.rooms[city] == nil {
			h.rooms[city] = make(map[*Client]struct{})
		}
		h.rooms[city][client] = struct{}{}
		client.city = city
	}
	h.sendLocked(client, EventJoinedCity, cityNotice{City: city, Message: "Successfully joined city room"})
	return previous
}

// Leave removes the client from city; it is a no-op when the client is elsewhere.
func (h *Hub) Leave(client *Client, city string) bool {
	city = normalizeCity(city)

	h.mu.Lock()
	defer h.mu.Unlock()

	if client.city == "" || client.city != city {
		return false
	}
	h.removeFromRoom(client)
	h.sendLocked(client, EventLeftCity, cityNotice{City: city, Message: "Left city room"})
	return true
}

// City returns the client's current room.
func (h *Hub) City(client *Client) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return client.city
}

func (h *Hub) sendLocked(client *Client, event string, data any) {
	frame, err := encode(event, data)
	if err != nil {
		return
	}
	select {
	case client.Send <- frame:
	default:
		h.metrics.IncDropped()
	}
}

// Emit delivers the event to every client in city without blocking. A client
// whose buffer is full misses the event.
func (h *Hub) Emit(ctx context.Context, city, event string, payload any) error {
	frame, err := encode(event, payload)
	if err != nil {
		return err
	}
	h.EmitRaw(ctx, normalizeCity(city), event, frame)
	return nil
}

// EmitRaw delivers an already encoded frame.
func (h *Hub) EmitRaw(ctx context.Context, city, event string, frame []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	h.metrics.IncEvent(event)
	delivered := 0
	for client := range h.rooms[city] {
		select {
		case client.Send <- frame:
			delivered++
		default:
			h.metrics.IncDropped()
			if h.logg != nil {
				h.logg.Debug(h.logg.WithField(h.logg.WithCity(ctx, city), "client_id", client.ID), "realtime.delivery_dropped")
			}
		}
	}
	return delivered
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

func (h *Hub) RoomCount(city string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[normalizeCity(city)])
}

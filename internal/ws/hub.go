package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
)

// Hub fans live attendance events out to websocket clients. A client
// subscribed with uuid.Nil receives every event, otherwise only events of
// its employee.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	// closed when Run returns
	done chan struct{}
	mu   sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run dispatches until ctx is done, then disconnects every client
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case event := <-h.broadcast:
			h.dispatch(event)
		}
	}
}

// join hands the client to Run. It returns false once the hub has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave hands the client back to Run; after Run returns there is nothing to undo
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

func (h *Hub) dispatch(event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if !client.wants(event.EmployeeID) {
			continue
		}
		select {
		case client.send <- message:
		default:
			// slow consumer
			delete(h.clients, client)
			close(client.send)
		}
	}
}

// Publish queues an event without blocking; it is dropped when the hub is saturated
func (h *Hub) Publish(employeeID uuid.UUID, eventType EventType, data interface{}) {
	event := Event{
		EmployeeID: employeeID,
		Type:       eventType,
		Data:       data,
		Timestamp:  time.Now().UTC(),
	}

	select {
	case h.broadcast <- event:
	default:
	}
}

func (h *Hub) ConnectedClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// PublishAttendance broadcasts a freshly appended ledger event
func (h *Hub) PublishAttendance(event *domain.AttendanceEvent) {
	eventType := EventTimeIn
	if event.Type == domain.EventTimeOut {
		eventType = EventTimeOut
	}
	h.Publish(event.EmployeeID, eventType, event)
}

func (h *Hub) PublishFaceRegistered(embedding *domain.FaceEmbedding) {
	h.Publish(embedding.EmployeeID, EventFaceRegistered, embedding)
}

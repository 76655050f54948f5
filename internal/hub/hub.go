package hub

import (
	"context"
	"log"
	"time"

	"sharppicks/internal/models"
)

// AlertMessage is the frame pushed to connected admin dashboards
type AlertMessage struct {
	Type      string            `json:"type"`
	Alert     models.AdminAlert `json:"alert"`
	Timestamp time.Time         `json:"timestamp"`
}

// Hub maintains the set of connected admin clients and fans admin alerts out
// to all of them
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan models.AdminAlert
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan models.AdminAlert, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop. It exits when the context is cancelled,
// closing every client connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			log.Printf("Admin alert client connected (total: %d)", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				log.Printf("Admin alert client disconnected (total: %d)", len(h.clients))
			}

		case alert := <-h.broadcast:
			message := AlertMessage{
				Type:      "admin_alert",
				Alert:     alert,
				Timestamp: time.Now(),
			}
			for c := range h.clients {
				// Non-blocking send; a client that cannot keep up is dropped
				select {
				case c.send <- message:
				default:
					delete(h.clients, c)
					close(c.send)
					log.Printf("Admin alert client buffer full, disconnecting")
				}
			}
		}
	}
}

// Broadcast queues an alert for delivery to all connected clients. Drops the
// alert if the queue is full so callers never block.
func (h *Hub) Broadcast(alert models.AdminAlert) {
	select {
	case h.broadcast <- alert:
	default:
		log.Println("Admin alert broadcast buffer full, dropping alert")
	}
}

package server

import (
	"encoding/json"
	"log/slog"

	"github.com/pawhome/adoption-api/internal/domain"
)

// EventBroker fans application lifecycle events out to connected operator
// clients. Each connection registers its own message channel; a slow client
// drops events rather than blocking the broker.
type EventBroker struct {
	logger *slog.Logger

	Notifier       chan []byte
	newClients     chan chan []byte
	closingClients chan chan []byte
	clients        map[chan []byte]bool
}

func NewEventBroker(logger *slog.Logger) *EventBroker {
	b := &EventBroker{
		logger:         logger,
		Notifier:       make(chan []byte, 1),
		newClients:     make(chan chan []byte),
		closingClients: make(chan chan []byte),
		clients:        make(map[chan []byte]bool),
	}
	go b.listen()
	return b
}

func (b *EventBroker) listen() {
	for {
		select {
		case ch := <-b.newClients:
			b.clients[ch] = true
		case ch := <-b.closingClients:
			delete(b.clients, ch)
			close(ch)
		case msg := <-b.Notifier:
			for ch := range b.clients {
				select {
				case ch <- msg:
				default:
					b.logger.Warn("dropping event for slow client")
				}
			}
		}
	}
}

type applicationEvent struct {
	Type          string `json:"type"`
	ApplicationID int64  `json:"application_id"`
	PetID         int64  `json:"pet_id"`
	Status        int    `json:"status"`
}

// ApplicationEvent implements service.EventSink.
func (b *EventBroker) ApplicationEvent(eventType string, app domain.Application) {
	payload, err := json.Marshal(applicationEvent{
		Type:          eventType,
		ApplicationID: app.ID,
		PetID:         app.PetID,
		Status:        int(app.Status),
	})
	if err != nil {
		b.logger.Error("failed to marshal application event", "error", err)
		return
	}
	b.Notifier <- payload
}

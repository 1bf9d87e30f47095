package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"clinical-synth-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Hub fans record updates out to browsers watching a patient chart.
// Connections are grouped by patient id; one chart can be open in
// several tabs at once.
type Hub struct {
	// PatientID -> connected clients
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out. Nil in single-node runs.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.PatientID] = append(h.clients[client.PatientID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"patient_id": client.PatientID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.PatientID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.PatientID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.PatientID]) == 0 {
					delete(h.clients, client.PatientID)
					h.logger.Info("Hub", "Last client for patient unregistered", map[string]interface{}{"patient_id": client.PatientID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// SendToPatient pushes a record update to every client watching the patient.
func (h *Hub) SendToPatient(patientID string, messageType string, payload interface{}) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": messageType,
		"data": payload,
	})

	h.mu.RLock()
	clients, localFound := h.clients[patientID]
	h.mu.RUnlock()

	if localFound {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"patient_id": patientID})
				close(client.Send)
				h.unregister <- client
			}
		}
	}

	// Other instances may hold connections for the same patient.
	if h.rdb != nil {
		envelope := map[string]interface{}{
			"target_patient_id": patientID,
			"message":           data,
		}
		jsonPayload, _ := json.Marshal(envelope)
		h.rdb.Publish(context.Background(), "record_events", jsonPayload)
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to the shared channel and delivers only to
	// patients it has locally.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "record_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var envelope struct {
			TargetPatientID string          `json:"target_patient_id"`
			Message         json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		h.mu.RLock()
		clients, ok := h.clients[envelope.TargetPatientID]
		h.mu.RUnlock()

		if ok {
			for _, client := range clients {
				select {
				case client.Send <- envelope.Message:
				default:
					close(client.Send)
					h.unregister <- client
				}
			}
		}
	}
}

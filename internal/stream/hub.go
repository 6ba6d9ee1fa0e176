package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix  = "exports:"
	channelSuffix  = ":events"
	channelPattern = channelPrefix + "*" + channelSuffix
)

// Event is pushed to every client watching an owner's channel.
type Event struct {
	Type      string    `json:"type"`
	ExportID  string    `json:"exportId,omitempty"`
	FileName  string    `json:"fileName,omitempty"`
	Variant   int       `json:"variantIndex,omitempty"`
	DistanceM float64   `json:"totalDistanceMeters,omitempty"`
	Duration  float64   `json:"totalDurationSec,omitempty"`
	At        time.Time `json:"at"`
}

type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
	cancel  context.CancelFunc
}

type Client struct {
	OwnerID string
	Send    chan []byte
}

// NewHub fans events out to local websocket clients. With a redis client the
// events travel through pub/sub so every instance sees them.
func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancel = cancel
		pubsub := redisClient.PSubscribe(ctx, channelPattern)
		if _, err := pubsub.Receive(ctx); err != nil {
			log.Printf("redis subscribe error: %v", err)
			_ = pubsub.Close()
			h.redis = nil
		} else {
			go h.forward(pubsub)
		}
	}
	return h
}

func (h *Hub) Close() {
	if h.cancel != nil {
		h.cancel()
	}
}

func (h *Hub) Register(ownerID string) *Client {
	client := &Client{
		OwnerID: ownerID,
		Send:    make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[ownerID] == nil {
		h.clients[ownerID] = map[*Client]struct{}{}
	}
	h.clients[ownerID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ownerClients, ok := h.clients[client.OwnerID]; ok {
		if _, registered := ownerClients[client]; !registered {
			return
		}
		delete(ownerClients, client)
		if len(ownerClients) == 0 {
			delete(h.clients, client.OwnerID)
		}
		close(client.Send)
	}
}

// Publish encodes ev and broadcasts it on the owner's channel.
func (h *Hub) Publish(ownerID string, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("stream event encode error: %v", err)
		return
	}
	h.Broadcast(ownerID, payload)
}

func (h *Hub) Broadcast(ownerID string, payload []byte) {
	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(ownerID), payload).Err()
		if err == nil {
			return
		}
		log.Printf("redis publish error: %v", err)
	}
	h.deliver(ownerID, payload)
}

func (h *Hub) deliver(ownerID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[ownerID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) forward(pubsub *redis.PubSub) {
	defer pubsub.Close()
	for msg := range pubsub.Channel() {
		ownerID := ownerIDFromChannel(msg.Channel)
		if ownerID == "" {
			continue
		}
		h.deliver(ownerID, []byte(msg.Payload))
	}
}

func redisChannel(ownerID string) string {
	return channelPrefix + ownerID + channelSuffix
}

func ownerIDFromChannel(ch string) string {
	// exports:{owner}:events
	if len(ch) <= len(channelPrefix)+len(channelSuffix) {
		return ""
	}
	if ch[:len(channelPrefix)] != channelPrefix || ch[len(ch)-len(channelSuffix):] != channelSuffix {
		return ""
	}
	return ch[len(channelPrefix) : len(ch)-len(channelSuffix)]
}

func (h *Hub) clientCount(ownerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[ownerID])
}

package stream

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("owner-1")
	defer hub.Unregister(client)

	hub.Broadcast("owner-1", []byte("hello"))

	select {
	case msg := <-client.Send:
		if string(msg) != "hello" {
			t.Fatalf("unexpected message")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for message")
	}
}

func TestHubPublishEvent(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("owner-2")
	defer hub.Unregister(client)

	hub.Publish("owner-2", Event{Type: "export.created", ExportID: "exp-1", Variant: 2})

	select {
	case msg := <-client.Send:
		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if ev.Type != "export.created" || ev.ExportID != "exp-1" || ev.Variant != 2 || ev.At.IsZero() {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for event")
	}
}

func TestHubIsolatesOwners(t *testing.T) {
	hub := NewHub(nil)
	a := hub.Register("a")
	b := hub.Register("b")
	defer hub.Unregister(a)
	defer hub.Unregister(b)

	hub.Broadcast("a", []byte("only-a"))
	select {
	case <-b.Send:
		t.Fatalf("owner b received owner a's message")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestHubHelpers(t *testing.T) {
	ch := redisChannel("abc")
	if ch != "exports:abc:events" {
		t.Fatalf("unexpected channel %s", ch)
	}
	if ownerIDFromChannel(ch) != "abc" {
		t.Fatalf("unexpected owner id")
	}
	if ownerIDFromChannel("bad") != "" {
		t.Fatalf("expected empty owner id")
	}
	if ownerIDFromChannel("tracking:abc:broadcast") != "" {
		t.Fatalf("expected empty owner id for foreign channel")
	}
}

func TestUnregisterCloses(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("owner-3")
	hub.Unregister(client)
	_, ok := <-client.Send
	if ok {
		t.Fatalf("expected channel closed")
	}
	hub.Unregister(client)
	if hub.clientCount("owner-3") != 0 {
		t.Fatalf("expected no clients")
	}
}

func TestHubRedisBroadcastAndSubscribe(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	hub := NewHub(client)
	defer hub.Close()
	ws := hub.Register("owner-redis")
	defer hub.Unregister(ws)

	hub.Broadcast("owner-redis", []byte("ping"))

	select {
	case msg := <-ws.Send:
		if string(msg) != "ping" {
			t.Fatalf("unexpected message")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for broadcast")
	}

	// a publish from another instance reaches local clients
	if err := client.Publish(context.Background(), redisChannel("owner-redis"), "pong").Err(); err != nil {
		t.Fatalf("publish error: %v", err)
	}

	select {
	case msg := <-ws.Send:
		if string(msg) != "pong" {
			t.Fatalf("unexpected message from redis")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for redis message")
	}
}

func TestHubRedisUnavailable(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	server.Close()
	defer client.Close()

	hub := NewHub(client)
	defer hub.Close()
	node := hub.Register("owner-bad")
	defer hub.Unregister(node)

	hub.Broadcast("owner-bad", []byte("ping"))
	select {
	case msg := <-node.Send:
		if string(msg) != "ping" {
			t.Fatalf("unexpected message")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("expected local delivery when redis is down")
	}
}

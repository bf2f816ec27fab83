package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestPublish(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()
	sub := rdb.Subscribe(ctx, "events")
	defer sub.Close()
	ch := sub.Channel()

	ev := Event{Type: TypeAssetCreated, Data: map[string]string{"name": "Drill"}}
	Publish(ctx, rdb, ev)

	msg := <-ch
	var got Event
	if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != TypeAssetCreated {
		t.Fatalf("want %s got %s", TypeAssetCreated, got.Type)
	}
}

func TestHubBroadcastToClient(t *testing.T) {
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := &Client{hub: h, send: make(chan Event, 1)}
	h.Register(c)

	h.Broadcast(Event{Type: TypeAssetDeleted})
	select {
	case ev := <-c.send:
		if ev.Type != TypeAssetDeleted {
			t.Fatalf("want %s got %s", TypeAssetDeleted, ev.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

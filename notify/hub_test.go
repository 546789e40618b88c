package notify

import (
	"encoding/json"
	"testing"
	"time"

	"orvia/models"
)

func TestHubRegisterPushUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// create fake client
	client := &Client{
		Send:   make(chan []byte, 10),
		UserID: "u1",
	}

	// register client
	hub.register <- client

	// push a test notice
	notice := models.Notice{UserID: "u1", Kind: "success", Message: "added to cart"}
	data, _ := json.Marshal(notice)
	hub.Push("u1", data)

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for notice")
	}

	// unregister client
	hub.unregister <- client
}

func TestHubUnregisterAfterSlowClientDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// unbuffered Send with no reader: the push falls into the drop branch,
	// which closes Send and removes the client
	slow := &Client{
		Send:   make(chan []byte),
		UserID: "u1",
	}
	hub.register <- slow
	hub.Push("u1", []byte("full"))

	// the read pump still unregisters on disconnect; this must not close
	// Send a second time and kill Run
	hub.unregister <- slow

	// hub must still be alive and delivering
	fresh := &Client{
		Send:   make(chan []byte, 10),
		UserID: "u1",
	}
	hub.register <- fresh
	hub.Push("u1", []byte("still up"))

	select {
	case got := <-fresh.Send:
		if string(got) != "still up" {
			t.Fatalf("expected %q, got %q", "still up", got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("hub stopped delivering after double unregister")
	}
}

func TestHubPushToOtherUserNotDelivered(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send:   make(chan []byte, 10),
		UserID: "u1",
	}
	hub.register <- client

	hub.Push("u2", []byte("nope"))

	select {
	case got := <-client.Send:
		t.Fatalf("unexpected delivery: %s", got)
	case <-time.After(100 * time.Millisecond):
	}
}

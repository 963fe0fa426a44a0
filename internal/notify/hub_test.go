package notify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/anonrelay/backend/internal/models"
)

func TestHubSendToReviewer(t *testing.T) {
	h := &Hub{
		clients:    make(map[int64]*Client),
		broadcast:  make(chan []byte, 10),
		register:   make(chan *Client, 1),
		unregister: make(chan *Client, 1),
	}

	// Use actual Client struct but only use the send channel for assertion
	c1 := &Client{adminID: 100, send: make(chan []byte, 4)}
	c2 := &Client{adminID: 200, send: make(chan []byte, 4)}

	h.clients[100] = c1
	h.clients[200] = c2

	event := models.Event{Type: models.EventItemPending, Payload: map[string]string{"id": "abc"}}
	if err := h.SendToReviewer(100, event); err != nil {
		t.Fatalf("SendToReviewer error: %v", err)
	}

	select {
	case b := <-c1.send:
		var got models.Event
		json.Unmarshal(b, &got)
		if got.Type != models.EventItemPending {
			t.Fatalf("unexpected event type: %v", got.Type)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timed out waiting for event to reviewer 100")
	}

	select {
	case b := <-c2.send:
		t.Fatalf("reviewer 200 should not have received %s", b)
	default:
	}
}

func TestHubBroadcastReachesAllReviewers(t *testing.T) {
	h := &Hub{
		clients:    make(map[int64]*Client),
		broadcast:  make(chan []byte, 10),
		register:   make(chan *Client, 1),
		unregister: make(chan *Client, 1),
	}
	go h.Run()

	c1 := &Client{adminID: 100, send: make(chan []byte, 4)}
	c2 := &Client{adminID: 200, send: make(chan []byte, 4)}
	h.register <- c1
	h.register <- c2

	event := models.Event{Type: models.EventItemDecided}
	if err := h.Broadcast(event); err != nil {
		t.Fatalf("Broadcast error: %v", err)
	}

	for _, c := range []*Client{c1, c2} {
		select {
		case b := <-c.send:
			var got models.Event
			json.Unmarshal(b, &got)
			if got.Type != models.EventItemDecided {
				t.Fatalf("unexpected event type: %v", got.Type)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("timed out waiting for broadcast event")
		}
	}
}

package websocket

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"testing"
	"time"
)

// mockClient creates a Client with a send channel but no real connection.
func mockClient(hub *Hub) *Client {
	return &Client{
		hub:  hub,
		conn: nil,
		send: make(chan []byte, sendBufferSize),
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub)
	c2 := mockClient(hub)

	hub.Register(c1)
	hub.Register(c2)

	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.Unregister(c1)

	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("expected 1 client after unregister, got %d", got)
	}

	hub.Unregister(c2)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestDoubleUnregister(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub)
	hub.Register(c)
	hub.Unregister(c)
	// Should not panic
	hub.Unregister(c)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestBroadcast(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub)
	c2 := mockClient(hub)
	hub.Register(c1)
	hub.Register(c2)

	msg := NewMessage("item", "created", "item-42")
	hub.Broadcast(msg)

	// Check both clients received the message
	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.send:
			var got Message
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Type != "item_created" {
				t.Errorf("expected type item_created, got %s", got.Type)
			}
			if got.Entity != "item" {
				t.Errorf("expected entity item, got %s", got.Entity)
			}
			if got.ID != "item-42" {
				t.Errorf("expected id item-42, got %s", got.ID)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for message")
		}
	}

	hub.Unregister(c1)
	hub.Unregister(c2)
}

func TestBroadcastEmptyHub(t *testing.T) {
	hub := NewHub(slog.Default())
	// Should not panic
	hub.Broadcast(NewMessage("list", "deleted", "l1"))
}

func TestBroadcastFullBuffer(t *testing.T) {
	hub := NewHub(slog.Default())

	c := mockClient(hub)
	hub.Register(c)

	// Fill the send buffer
	for i := 0; i < sendBufferSize; i++ {
		hub.Broadcast(NewMessage("item", "created", strconv.Itoa(i)))
	}

	// This should drop the message, not panic or block
	hub.Broadcast(NewMessage("item", "dropped", "overflow"))

	// Drain to verify buffer was full
	count := 0
	for {
		select {
		case <-c.send:
			count++
		default:
			goto done
		}
	}
done:
	if count != sendBufferSize {
		t.Errorf("expected %d messages, got %d", sendBufferSize, count)
	}

	hub.Unregister(c)
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage("list", "selected", "l5")
	if msg.Type != "list_selected" {
		t.Errorf("expected type list_selected, got %s", msg.Type)
	}
	if msg.Entity != "list" {
		t.Errorf("expected entity list, got %s", msg.Entity)
	}
	if msg.Action != "selected" {
		t.Errorf("expected action selected, got %s", msg.Action)
	}
	if msg.ID != "l5" {
		t.Errorf("expected id l5, got %s", msg.ID)
	}
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewHub(slog.Default())
	var wg sync.WaitGroup

	// Spawn goroutines that register, broadcast, and unregister concurrently
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := mockClient(hub)
			hub.Register(c)
			hub.Broadcast(NewMessage("item", "created", "x"))
			// Drain any messages
			for {
				select {
				case <-c.send:
				default:
					hub.Unregister(c)
					return
				}
			}
		}()
	}

	wg.Wait()

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("expected 0 clients after concurrent test, got %d", got)
	}
}

package ws

import (
	"log/slog"
	"testing"
	"time"
)

func recv(t *testing.T, c *Client, name string) string {
	t.Helper()
	select {
	case got, ok := <-c.Send:
		if !ok {
			t.Fatalf("%s: channel closed", name)
		}
		return string(got)
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting %s", name)
	}
	return ""
}

func nothing(t *testing.T, c *Client, name string) {
	t.Helper()
	select {
	case got := <-c.Send:
		t.Fatalf("%s should not receive, got %q", name, got)
	case <-time.After(100 * time.Millisecond):
	}
}

func waitLen(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for h.Len() != want && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := h.Len(); got != want {
		t.Fatalf("len=%d want=%d", got, want)
	}
}

func TestHub_BroadcastFiltersBySlug(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()
	defer h.Stop()

	admin := &Client{SuperAdmin: true, Send: make(chan []byte, 2)}
	acme := &Client{CompanySlug: "acme", Send: make(chan []byte, 2)}
	globex := &Client{CompanySlug: "globex", Send: make(chan []byte, 2)}
	h.Register(admin)
	h.Register(acme)
	h.Register(globex)

	h.Broadcast("acme", []byte("hello"))

	if got := recv(t, admin, "admin"); got != "hello" {
		t.Fatalf("admin got %q", got)
	}
	if got := recv(t, acme, "acme"); got != "hello" {
		t.Fatalf("acme got %q", got)
	}
	nothing(t, globex, "globex")
}

func TestHub_DropsSlowClient(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()
	defer h.Stop()

	slow := &Client{CompanySlug: "acme", Send: make(chan []byte)} // sem buffer: sempre cheio
	h.Register(slow)
	waitLen(t, h, 1)

	h.Broadcast("acme", []byte("x"))
	waitLen(t, h, 0)
	if _, ok := <-slow.Send; ok {
		t.Fatal("send channel should be closed")
	}

	// unregister depois do drop não pode fechar o canal de novo
	h.Unregister(slow)
}

func TestHub_UnregisterAfterStop(t *testing.T) {
	h := NewHub(nil)
	go h.Run()

	c := &Client{SuperAdmin: true, Send: make(chan []byte, 1)}
	h.Register(c)
	h.Stop()

	done := make(chan struct{})
	go func() {
		h.Unregister(c)
		h.Broadcast("acme", []byte("late"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("unregister/broadcast after stop must not block")
	}
}

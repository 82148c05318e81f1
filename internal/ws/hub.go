package ws

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Client é um painel conectado. Super admin recebe eventos de todas as
// empresas; os demais só os do próprio slug.
type Client struct {
	ID          string
	CompanySlug string
	SuperAdmin  bool
	Send        chan []byte
}

func (c *Client) wants(slug string) bool {
	return c.SuperAdmin || (c.CompanySlug != "" && c.CompanySlug == slug)
}

type message struct {
	slug string
	body []byte
}

type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client // id -> client
	register chan *Client
	unreg    chan *Client
	send     chan message

	log     *slog.Logger
	stop    chan struct{}
	stopped chan struct{}

	nextID atomic.Uint64
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients:  make(map[string]*Client),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		send:     make(chan message, 1024),
		log:      log.With("cmp", "ws.hub"),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (h *Hub) newID() string {
	id := h.nextID.Add(1)
	return fmt.Sprintf("c%d", id)
}

func (h *Hub) Run() {
	h.log.Info("hub_run_start")
	defer close(h.stopped)

	for {
		select {
		case c := <-h.register:
			if c.ID == "" {
				c.ID = h.newID()
			}
			h.mu.Lock()
			h.clients[c.ID] = c
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("client_registered", "id", c.ID, "company", c.CompanySlug, "super_admin", c.SuperAdmin, "total", total)

		case c := <-h.unreg:
			h.mu.Lock()
			h.remove(c)
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("client_unregistered", "id", c.ID, "total", total)

		case m := <-h.send:
			h.deliver(m)

		case <-h.stop:
			h.mu.Lock()
			for _, c := range h.clients {
				h.remove(c)
			}
			h.mu.Unlock()
			h.log.Info("hub_run_stop")
			return
		}
	}
}

// deliver entrega sem bloquear; cliente com buffer cheio é desconectado.
func (h *Hub) deliver(m message) {
	var slow []*Client

	h.mu.RLock()
	for _, c := range h.clients {
		if !c.wants(m.slug) {
			continue
		}
		select {
		case c.Send <- m.body:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	if len(slow) == 0 {
		return
	}
	h.mu.Lock()
	for _, c := range slow {
		h.remove(c)
		h.log.Warn("client_dropped_slow", "id", c.ID)
	}
	h.mu.Unlock()
}

// chamar com mu travado para escrita
func (h *Hub) remove(c *Client) {
	if c == nil || c.ID == "" {
		return
	}
	if cur, ok := h.clients[c.ID]; ok && cur == c {
		delete(h.clients, c.ID)
		close(c.Send)
	}
}

func (h *Hub) Stop() {
	close(h.stop)
	<-h.stopped
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.stopped:
	}
}

// Unregister é seguro depois do Stop (vira no-op).
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unreg <- c:
	case <-h.stopped:
	}
}

// Broadcast enfileira o payload para os clientes interessados no slug.
func (h *Hub) Broadcast(slug string, b []byte) {
	select {
	case h.send <- message{slug: slug, body: b}:
	case <-h.stopped:
	}
}

package main

/*

go test -v ./cmd/ws -count=1

*/

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Werneck0live/cadastro-colaboradores/internal/auth"
	"github.com/Werneck0live/cadastro-colaboradores/internal/ws"
)

var testSessions = auth.NewSessions([]byte("0123456789abcdef0123456789abcdef"), auth.SessionOptions{MaxAge: 3600})

func startServer(t *testing.T) (*ws.Hub, *httptest.Server) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := ws.NewHub(log)
	go hub.Run()

	up := newUpgrader(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleWS(hub, up, testSessions, w, r, log)
	}))
	t.Cleanup(func() {
		srv.Close()
		hub.Stop()
	})
	return hub, srv
}

func cookieHeader(t *testing.T, p auth.Principal) http.Header {
	t.Helper()
	rr := httptest.NewRecorder()
	if err := testSessions.Save(rr, httptest.NewRequest(http.MethodPost, "/admin/login", nil), p); err != nil {
		t.Fatalf("save session: %v", err)
	}
	h := http.Header{}
	for _, c := range rr.Result().Cookies() {
		h.Add("Cookie", c.Name+"="+c.Value)
	}
	return h
}

func wsURL(srv *httptest.Server) string { return "ws" + strings.TrimPrefix(srv.URL, "http") }

func TestHandleWS_RejectsAnonymous(t *testing.T) {
	_, srv := startServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err == nil {
		t.Fatal("dial should fail without session")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("resp=%v", resp)
	}
}

func TestHandleWS_DeliversCompanyEvents(t *testing.T) {
	hub, srv := startServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), cookieHeader(t, auth.Principal{CompanySlug: "acme"}))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Broadcast("globex", []byte(`{"companySlug":"globex"}`))
	hub.Broadcast("acme", []byte(`{"companySlug":"acme"}`))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != `{"companySlug":"acme"}` {
		t.Fatalf("got %s", msg)
	}
}

func TestNewUpgrader_AllowedOrigins(t *testing.T) {
	up := newUpgrader([]string{"https://painel.acme.com"})

	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Origin", "https://painel.acme.com")
	if !up.CheckOrigin(r) {
		t.Fatal("listed origin should pass")
	}
	r.Header.Set("Origin", "https://evil.example")
	if up.CheckOrigin(r) {
		t.Fatal("unlisted origin should fail")
	}
	if newUpgrader(nil).CheckOrigin != nil {
		t.Fatal("no list should keep the same-origin default")
	}
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Werneck0live/cadastro-colaboradores/internal/auth"
	"github.com/Werneck0live/cadastro-colaboradores/internal/broker"
	"github.com/Werneck0live/cadastro-colaboradores/internal/config"
	"github.com/Werneck0live/cadastro-colaboradores/internal/handlers"
	"github.com/Werneck0live/cadastro-colaboradores/internal/middleware"
	"github.com/Werneck0live/cadastro-colaboradores/internal/utils"
	"github.com/Werneck0live/cadastro-colaboradores/internal/ws"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

func newUpgrader(allowed []string) *websocket.Upgrader {
	u := &websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024}
	// CheckOrigin nil = gorilla exige mesma origem
	if len(allowed) > 0 {
		u.CheckOrigin = func(r *http.Request) bool {
			return slices.Contains(allowed, r.Header.Get("Origin"))
		}
	}
	return u
}

func main() {
	if err := config.LoadDotenv(); err != nil {
		slog.Error("dotenv_error", "err", err)
		os.Exit(1)
	}
	wscfg := config.LoadWSConfig()

	log := config.InitLogger(wscfg.LogLevel, "ws")
	hub := ws.NewHub(log)
	go hub.Run()

	if wscfg.Session.SecretDefault {
		log.Warn("session_secret_default", "hint", "defina SESSION_SECRET igual ao da API")
	}
	sessions := auth.NewSessions(wscfg.Session.Secret, auth.SessionOptions{
		MaxAge: int(wscfg.Session.MaxAge.Seconds()),
		Secure: wscfg.Session.CookieSecure,
	})
	upgrader := newUpgrader(wscfg.AllowedOrigins)

	// Conecta no Rabbit e começa a consumir
	conn, ch, deliveries, err := startRabbitConsumer(wscfg, log)
	if err != nil {
		log.Error("rabbit_consumer_start_error", "err", err)
		os.Exit(1)
	}
	defer func() {
		_ = ch.Close()
		_ = conn.Close()
	}()

	// encaminha mensagens do Rabbit para o hub, filtradas por empresa
	go func() {
		for d := range deliveries {
			ev := broker.ParseDelivery(d)
			body, err := json.Marshal(ev)
			if err != nil {
				log.Warn("event_marshal_error", "err", err)
				continue
			}
			hub.Broadcast(ev.CompanySlug, body)
		}
		log.Warn("deliveries_channel_closed")
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleWS(hub, upgrader, sessions, w, r, log)
	})
	mux.HandleFunc("/healthz", handlers.Health)

	srv := &http.Server{
		Addr:              wscfg.Addr,
		Handler:           middleware.Chain(mux, middleware.RequestID, middleware.Logger(log)),
		ReadHeaderTimeout: wscfg.ReadHeaderTimeout,
	}

	go func() {
		log.Info("ws_listen", "addr", wscfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http_server_error", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), wscfg.ShutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(ctx)
	hub.Stop()

	log.Info("stopped")
}

func startRabbitConsumer(c *config.WSConfig, log *slog.Logger) (*amqp.Connection, *amqp.Channel, <-chan amqp.Delivery, error) {
	conn, err := amqp.Dial(c.RabbitURI)
	if err != nil {
		return nil, nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, nil, err
	}

	fail := func(err error) (*amqp.Connection, *amqp.Channel, <-chan amqp.Delivery, error) {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, nil, err
	}

	if err := broker.DeclareQueue(ch, c.RabbitQueue); err != nil {
		return fail(err)
	}
	if err := ch.Qos(c.ConsumerPrefetch, 0, false); err != nil {
		return fail(err)
	}

	deliveries, err := ch.Consume(
		c.RabbitQueue,
		"ws-consumer",
		true, false, false, false, nil,
	)
	if err != nil {
		return fail(err)
	}
	log.Info("rabbit_consumer_started", "queue", c.RabbitQueue, "prefetch", c.ConsumerPrefetch)
	return conn, ch, deliveries, nil
}

// handleWS só aceita quem tem sessão válida (mesmo cookie da API).
func handleWS(hub *ws.Hub, upgrader *websocket.Upgrader, sessions *auth.Sessions, w http.ResponseWriter, r *http.Request, log *slog.Logger) {
	p := sessions.Load(r)
	if !p.Authenticated() {
		utils.WriteError(w, http.StatusUnauthorized, "Não autenticado")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("ws_upgrade_error", "err", err)
		return
	}

	client := &ws.Client{
		CompanySlug: p.CompanySlug,
		SuperAdmin:  p.SuperAdmin,
		Send:        make(chan []byte, 256),
	}
	hub.Register(client)
	log.Info("ws_client_connected", "company", client.CompanySlug, "super_admin", client.SuperAdmin)

	// writer: repassa o que o hub manda e mantém o ping
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer func() {
			ticker.Stop()
			_ = conn.Close()
		}()
		for {
			select {
			case msg, ok := <-client.Send:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if !ok {
					_ = conn.WriteMessage(websocket.CloseMessage, nil)
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// reader: só detecta o fechamento
	go func() {
		defer func() {
			hub.Unregister(client)
			_ = conn.Close()
		}()
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

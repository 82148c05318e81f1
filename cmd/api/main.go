package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Werneck0live/cadastro-colaboradores/internal/admin"
	"github.com/Werneck0live/cadastro-colaboradores/internal/auth"
	"github.com/Werneck0live/cadastro-colaboradores/internal/broker"
	"github.com/Werneck0live/cadastro-colaboradores/internal/checker"
	"github.com/Werneck0live/cadastro-colaboradores/internal/config"
	"github.com/Werneck0live/cadastro-colaboradores/internal/db"
	"github.com/Werneck0live/cadastro-colaboradores/internal/export"
	"github.com/Werneck0live/cadastro-colaboradores/internal/handlers"
	"github.com/Werneck0live/cadastro-colaboradores/internal/middleware"
	"github.com/Werneck0live/cadastro-colaboradores/internal/ratelimit"
	"github.com/Werneck0live/cadastro-colaboradores/internal/repository"
)

// cmd/api/main.go
func main() {
	if err := config.LoadDotenv(); err != nil {
		slog.Error("dotenv_error", "err", err)
		os.Exit(1)
	}
	cfg := config.Load()
	log := config.InitLogger(cfg.LogLevel, "api")
	log.Info("starting", "port", cfg.Port, "mongo_db", cfg.MongoDB)

	// HOOK: admin job (one-off)
	task := flag.String("task", "", "admin task: seed")
	flag.Parse()

	client, err := db.NewMongoClient(cfg.MongoURI)
	if err != nil {
		log.Error("mongo_connect_error", "err", err)
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	store := repository.NewStore(client.Database(cfg.MongoDB))
	ictx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = store.EnsureIndexes(ictx)
	cancel()
	if err != nil {
		log.Error("mongo_indexes_error", "err", err)
		os.Exit(1)
	}
	chk := checker.New(store, cfg.Limits())

	if *task != "" {
		switch *task {
		case "seed":
			if err := admin.SeedCompanies(context.Background(), store.Companies, chk, log); err != nil {
				log.Error("seed_failed", "err", err)
				os.Exit(1)
			}
			log.Info("seed_done")
			return // encerra o processo sem subir HTTP
		default:
			log.Error("unknown_admin_task", "task", *task)
			os.Exit(2)
		}
	}

	ctx, stopBg := context.WithCancel(context.Background())
	defer stopBg()

	// sem Rabbit a API continua; os eventos só não chegam ao painel
	var pub handlers.Publisher
	if p, err := broker.NewPublisher(cfg.RabbitURI, cfg.RabbitQueue); err != nil {
		log.Warn("rabbitmq_unavailable", "err", err)
	} else {
		defer p.Close()
		pub = p
	}

	if cfg.Session.SecretDefault {
		log.Warn("session_secret_default", "hint", "defina SESSION_SECRET em produção")
	}
	sessions := auth.NewSessions(cfg.Session.Secret, auth.SessionOptions{
		MaxAge: int(cfg.Session.MaxAge.Seconds()),
		Secure: cfg.Session.CookieSecure,
	})

	superHash := cfg.SuperAdminPassHash
	if superHash == "" {
		log.Warn("super_admin_default_password")
		superHash = auth.DefaultSuperAdminHash
	}
	authn := &auth.Authenticator{
		Companies:      store,
		SuperAdminUser: cfg.SuperAdminUser,
		SuperAdminHash: superHash,
		Throttle:       newThrottle(cfg, log),
		MaxAttempts:    int64(cfg.LoginMaxAttempts),
		Log:            log,
	}

	proxies, err := ratelimit.ParseProxies(cfg.TrustedProxies)
	if err != nil {
		log.Error("trusted_proxies_invalid", "err", err)
		os.Exit(1)
	}
	limiter := ratelimit.NewStore(cfg.SignupRPS, cfg.SignupBurst, ratelimit.WithProxies(proxies))
	limiter.StartJanitor(ctx, time.Minute)

	signup := &handlers.SignupHandler{CompanyRepo: store.Companies, ColabRepo: store.Colaboradores, Checker: chk, Pub: pub, Log: log}
	authH := &handlers.AuthHandler{Auth: authn, Sessions: sessions, Proxies: proxies, Log: log}
	companies := &handlers.CompanyHandler{
		CompanyRepo: store.Companies,
		ColabRepo:   store.Colaboradores,
		Deleter:     store,
		Checker:     chk,
		Pub:         pub,
		Sheets:      export.NewGenerator(),
		Log:         log,
	}
	if cfg.ExportBucket != "" {
		a, err := export.NewS3Archive(ctx, export.S3Options{
			Bucket:   cfg.ExportBucket,
			Region:   cfg.AWSRegion,
			Endpoint: cfg.AWSEndpoint,
		})
		if err != nil {
			log.Warn("export_archive_disabled", "err", err)
		} else {
			companies.Archive = a
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handlers.Health)
	mux.Handle("/empresa/", limiter.Middleware(http.HandlerFunc(signup.Empresa)))
	mux.HandleFunc("/admin/login", authH.Login)
	mux.HandleFunc("/admin/logout", authH.Logout)
	mux.Handle("/admin/me", authH.RequireLogin(http.HandlerFunc(authH.Me)))
	mux.Handle("/api/companies", authH.RequireLogin(http.HandlerFunc(companies.Companies)))
	mux.Handle("/api/companies/", authH.RequireLogin(http.HandlerFunc(companies.CompanyBySlug)))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.Chain(mux, middleware.RequestID, middleware.Logger(log)),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	go func() {
		log.Info("api_listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http_server_error", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error("graceful_shutdown_error", "err", err)
	}
	log.Info("stopped")
}

// newThrottle usa Redis quando REDIS_ADDR está definido, senão memória local.
func newThrottle(cfg *config.Config, log *slog.Logger) auth.Throttle {
	if cfg.RedisAddr == "" {
		return auth.NewMemoryThrottle(cfg.LoginLockout)
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis_unavailable_fallback_memory", "addr", cfg.RedisAddr, "err", err)
		_ = rdb.Close()
		return auth.NewMemoryThrottle(cfg.LoginLockout)
	}
	log.Info("login_throttle_redis", "addr", cfg.RedisAddr)
	return auth.NewRedisThrottle(rdb, cfg.LoginLockout)
}

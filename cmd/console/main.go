package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignatzorin/proposals-console/internal/api"
	"github.com/ignatzorin/proposals-console/internal/config"
	"github.com/ignatzorin/proposals-console/internal/goroutine"
	"github.com/ignatzorin/proposals-console/internal/http/handlers"
	httpRouter "github.com/ignatzorin/proposals-console/internal/http/router"
	"github.com/ignatzorin/proposals-console/internal/logger"
	"github.com/ignatzorin/proposals-console/internal/metrics"
	"github.com/ignatzorin/proposals-console/internal/service"
	"github.com/ignatzorin/proposals-console/internal/session"
	"github.com/ignatzorin/proposals-console/internal/view"
	"github.com/ignatzorin/proposals-console/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Setup(cfg.Env)

	m := metrics.New()

	// Клиент REST API бэкенда.
	backend := api.NewClient(cfg.APIBaseURL, cfg.APITimeout, api.WithRecorder(m))

	// Хранилище сессий.
	var (
		store       session.Store
		storePinger handlers.Pinger
		redisClient *redis.Client
	)
	switch cfg.SessionStore {
	case "redis":
		redisClient, err = session.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("main: %v", err)
		}
		defer safeClose(redisClient)
		redisStore := session.NewRedisStore(redisClient)
		store, storePinger = redisStore, redisStore
	default:
		store = session.NewMemoryStore(ctx)
	}
	sessions := session.NewManager(store, cfg.SessionSecret, cfg.SessionCookie, cfg.SessionTTL, cfg.CookieSecure)

	// Сервисы.
	cache := service.NewCacheService(ctx)
	authService := service.NewAuthService(backend, cfg.AuthRefresh)
	userService := service.NewUserService(backend, cache, cfg.ListCacheTTL)
	proposalService := service.NewProposalService(backend)

	// Вебсокеты живого поиска.
	hub := ws.NewHub(ctx)
	goroutine.SafeGo("ws hub", hub.Run)

	m.RegisterGaugeFunc("ws_connections", "Open live search connections.", func() float64 {
		return float64(hub.Count())
	})
	m.RegisterGaugeFunc("list_cache_entries", "Entries in the per-session list cache.", func() float64 {
		return float64(cache.Len())
	})

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatalf("main: ошибка загрузки шаблонов: %v", err)
	}

	// Роутер.
	engine := httpRouter.SetupRouter(httpRouter.Deps{
		Config:       cfg,
		Metrics:      m,
		Sessions:     sessions,
		Auth:         authService,
		Users:        userService,
		Proposals:    proposalService,
		Hub:          hub,
		Renderer:     renderer,
		Backend:      backend,
		SessionStore: storePinger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	logger.L().WithField("backend", cfg.APIBaseURL).Infof("HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с redis.
func safeClose(client *redis.Client) {
	if err := client.Close(); err != nil {
		log.Printf("main: ошибка закрытия redis: %v", err)
	}
}

package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"mailauth/internal/config"
	"mailauth/internal/core/auth"
	"mailauth/internal/core/reset"
	"mailauth/internal/logger"
	"mailauth/internal/mail"
	"mailauth/internal/storage/mongo"
	"mailauth/internal/transport/rest"
	"mailauth/internal/transport/rest/middleware"
	"mailauth/internal/workers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.New(cfg)

	if cfg.TokenSecret == "" {
		panic("FATAL: TOKEN_SECRET is mandatory for Server!")
	}

	client, db, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDB, log)
	if err != nil {
		log.Error("failed to init document store", "error", err)
		return
	}
	defer client.Disconnect(context.Background())

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Error("failed to ensure indexes", "error", err)
		return
	}

	userRepo := mongo.NewUserRepository(db)
	resetRepo := mongo.NewPasswordResetRepository(db)

	hasher := auth.NewBcryptHasher()

	dispatcher, err := mail.NewSMTPDispatcher(cfg)
	if err != nil {
		log.Error("failed to init mail dispatcher", "error", err)
		return
	}

	var limiter middleware.RateLimiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter = middleware.NewRedisLimiter(rdb, "mailauth", cfg.LoginRateMax, cfg.LoginRateSpan)
	}

	authService := auth.NewService(userRepo, hasher, cfg.TokenSecret, cfg.JWTExpiry)
	resetService := reset.NewService(userRepo, resetRepo, hasher, dispatcher, log)

	authHandler := rest.NewAuthHandler(authService)
	resetHandler := rest.NewResetHandler(resetService)
	mailHandler := rest.NewMailHandler(dispatcher, log)

	manager := workers.NewManager(log, workers.NewScheduler(log), resetRepo)
	manager.Start(ctx)

	router := rest.NewRouter(cfg, &rest.RouterDeps{
		Auth:  authHandler,
		Reset: resetHandler,
		Mail:  mailHandler,

		Limiter: limiter,
		Log:     log,
	})

	srv := rest.NewServer(router, cfg.Address)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http: starting server", "address", cfg.Address)
		errCh <- srv.ListenAndServe()
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http: server shutdown error", "error", err)
		}

	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Error("http: server error", "error", err)
		}
	}

	log.Info("server stopped")
}

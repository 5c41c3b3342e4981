// Package rest
package rest

import (
	"net/http"

	"mailauth/internal/config"
	"mailauth/internal/logger"
	"mailauth/internal/transport/rest/middleware"
)

type RouterDeps struct {
	Auth  *AuthHandler
	Reset *ResetHandler
	Mail  *MailHandler

	Limiter middleware.RateLimiter
	Log     logger.Logger
}

func NewRouter(cfg *config.Config, deps *RouterDeps) http.Handler {
	mux := http.NewServeMux()

	globalMw := middleware.New()
	globalMw.Use(middleware.CORS(cfg))

	userStack := middleware.New()
	userStack.Use(middleware.JWT(cfg))

	limitStack := middleware.New()
	limitStack.Use(middleware.RateLimit(deps.Limiter, deps.Log))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /register", deps.Auth.Register)
	mux.Handle("POST /login", limitStack.Then(http.HandlerFunc(deps.Auth.Login)))
	mux.Handle("GET /users", userStack.Then(http.HandlerFunc(deps.Auth.User)))

	mux.Handle("POST /requestPasswordReset", limitStack.Then(http.HandlerFunc(deps.Reset.RequestReset)))
	mux.HandleFunc("POST /resetPassword", deps.Reset.ResetPassword)

	mux.HandleFunc("POST /sendmail", deps.Mail.Send)

	return globalMw.Apply(mux)
}

func NewServer(handler http.Handler, addr string) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: handler,
	}
}

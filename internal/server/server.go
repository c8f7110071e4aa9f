package server

import (
	"context"
	"net/http"
	"time"

	"github.com/hongminglow/all-in-console/internal/console"
	"github.com/hongminglow/all-in-console/internal/http/handlers"
	"github.com/hongminglow/all-in-console/internal/middleware"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(app *console.Console) *Server {
	httpServer := &http.Server{
		Addr:              app.Config.HTTPAddress(),
		Handler:           Handler(app),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Handler builds the routed handler chain for app.
func Handler(app *console.Console) http.Handler {
	mux := http.NewServeMux()
	guard := middleware.NewGuard(app.Tokens, app.Session, app.Access)

	handlers.NewHealthHandler(time.Now(), func() bool {
		_, ok := app.Session.Current()
		return ok
	}).Register(mux)
	handlers.NewAuthHandler(app.Session, app.Access, app.Directory, guard, app.Toasts, app.Logger).Register(mux)
	handlers.NewNotificationHandler(app.Notifications, guard).Register(mux)
	handlers.NewMessageHandler(app.Messages, guard).Register(mux)
	handlers.NewToastHandler(app.Toasts).Register(mux)

	return middleware.CORS(app.Config.CORSOrigins, middleware.Logging(app.Logger, mux))
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}

// Package httpapi serves the REST auth API consumed by the terminal client.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/medinvest/medinvest/internal/logging"
	"github.com/medinvest/medinvest/internal/server/auth"
	"github.com/medinvest/medinvest/internal/server/metrics"
	"github.com/medinvest/medinvest/internal/server/services"
)

const (
	LoginPath   = "/api/v1/auth/login"
	MePath      = "/api/v1/auth/me"
	LogoutPath  = "/api/v1/auth/logout"
	HealthPath  = "/health"
	MetricsPath = "/metrics"

	shutdownTimeout = 10 * time.Second
	cleanupInterval = 10 * time.Minute
)

// UserService is the business logic behind the endpoints.
type UserService interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Authenticate(ctx context.Context, token string) (*services.Principal, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

type Server struct {
	address string
	users   UserService
	logger  logging.Logger
	metrics *metrics.Metrics
	limiter *RateLimiter
}

func NewServer(addr string, l logging.Logger, us UserService, m *metrics.Metrics, loginRate float64, loginBurst int) *Server {
	logger := l.With("module", "http_server")
	return &Server{
		address: addr,
		users:   us,
		logger:  logger,
		metrics: m,
		limiter: NewRateLimiter(loginRate, loginBurst, logger, m),
	}
}

// Router builds the route table with its middleware chain.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware, s.metricsMiddleware)

	r.Handle(LoginPath, s.limiter.Handler(http.HandlerFunc(s.handleLogin))).Methods(http.MethodPost)
	r.Handle(MePath, s.accessTokenMiddleware(http.HandlerFunc(s.handleMe))).Methods(http.MethodGet)
	r.Handle(LogoutPath, s.accessTokenMiddleware(http.HandlerFunc(s.handleLogout))).Methods(http.MethodPost)
	r.HandleFunc(HealthPath, s.handleHealth).Methods(http.MethodGet)
	r.Handle(MetricsPath, s.metrics.Handler()).Methods(http.MethodGet)

	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	s.limiter.StartCleanup(ctx, cleanupInterval)

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}

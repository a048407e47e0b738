package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"cowork/config"
	"cowork/infras/otel"
	"cowork/shared/constant"
	"cowork/transport/http/response"
	"cowork/transport/http/router"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// State is where the server is in its lifecycle. Only a ready server routes requests.
type State int32

const (
	StateStarting State = iota
	StateReady
	StateGracePeriod
	StateCleanupPeriod
)

const (
	readHeaderTimeout = 10 * time.Second
	traceFlushTimeout = time.Second
)

type routes interface {
	SetupRoutes(router chi.Router)
}

type HTTP struct {
	cfg    *config.Config
	routes routes
	otel   otel.Otel
	state  atomic.Int32
	once   sync.Once
	mux    *chi.Mux
	server *http.Server
}

func New(cfg *config.Config, r router.Router, otl otel.Otel) *HTTP {
	return &HTTP{cfg: cfg, routes: &r, otel: otl}
}

func (h *HTTP) State() State {
	return State(h.state.Load())
}

func (h *HTTP) mount() {
	h.once.Do(func() {
		h.mux = chi.NewRouter()
		h.routes.SetupRoutes(h.mux)
		h.state.Store(int32(StateReady))
	})
}

// ServeHTTP lets the service run behind a serverless entry point as well as its own listener.
func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mount()

	if h.State() != StateReady {
		response.WithPreparingShutdown(w)

		return
	}

	h.mux.ServeHTTP(w, r)
}

// Serve listens until SIGINT or SIGTERM and then shuts down gracefully.
func (h *HTTP) Serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return h.Run(ctx)
}

// Run serves until ctx is done. Outside development the server then answers 503 for the
// grace period, so load balancers stop sending traffic, and drains in-flight requests
// for at most the cleanup period.
func (h *HTTP) Run(ctx context.Context) error {
	h.mount()

	h.server = &http.Server{
		Addr:              net.JoinHostPort(h.cfg.Server.Host, h.cfg.Server.Port),
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	listening := make(chan error, 1)

	go func() {
		log.Info().Str("addr", h.server.Addr).Msg("HTTP server listening")

		listening <- h.server.ListenAndServe()
	}()

	select {
	case err := <-listening:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("http server stopped: %w", err)
	case <-ctx.Done():
	}

	h.drain()

	return nil
}

func (h *HTTP) drain() {
	periods := h.cfg.Server.Shutdown

	if h.cfg.Server.Env != constant.ServerEnvDevelopment {
		grace := time.Duration(periods.GracePeriodSeconds) * time.Second

		log.Info().Dur("grace", grace).Msg("shutdown requested, refusing new requests")
		h.state.Store(int32(StateGracePeriod))
		time.Sleep(grace)
	}

	cleanup := time.Duration(periods.CleanupPeriodSeconds) * time.Second

	log.Info().Dur("cleanup", cleanup).Msg("draining in-flight requests")
	h.state.Store(int32(StateCleanupPeriod))
	h.shutdown(cleanup)
	log.Info().Msg("HTTP server stopped")
}

// shutdown drains in-flight requests for at most timeout, then flushes pending spans.
func (h *HTTP) shutdown(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if h.server != nil {
		if err := h.server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("HTTP server did not drain in time")
		}
	}

	if h.otel == nil {
		return
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), traceFlushTimeout)
	defer flushCancel()

	if err := h.otel.Shutdown(flushCtx); err != nil {
		log.Error().Err(err).Msg("failed to flush traces")
	}
}

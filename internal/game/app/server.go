// Package app assembles the game HTTP server from its stores, catalog, and
// service wiring.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/kingdoms-of-fate/internal/api/httpapi"
	"github.com/louisbranch/kingdoms-of-fate/internal/auth"
	"github.com/louisbranch/kingdoms-of-fate/internal/catalog"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/service"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/storage/bbolt"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/storage/sqlite"
	"github.com/louisbranch/kingdoms-of-fate/internal/narrative"
	"github.com/louisbranch/kingdoms-of-fate/internal/telemetry"
)

const (
	tokenIssuer     = "kingdoms-of-fate"
	readTimeout     = 15 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Config holds server assembly settings.
type Config struct {
	Addr          string
	DataDir       string
	TokenKey      string
	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
}

// Server hosts the game HTTP API.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	sessions   *bbolt.Store
	events     *sqlite.Store
}

// New creates a configured game server listening on cfg.Addr.
func New(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.TokenKey) == "" {
		return nil, fmt.Errorf("token signing key is required")
	}
	dataDir := strings.TrimSpace(cfg.DataDir)
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}

	sessions, err := bbolt.Open(filepath.Join(dataDir, "sessions.db"))
	if err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("open session store: %w", err)
	}
	events, err := sqlite.Open(filepath.Join(dataDir, "telemetry.db"))
	if err != nil {
		_ = listener.Close()
		_ = sessions.Close()
		return nil, fmt.Errorf("open telemetry store: %w", err)
	}

	handler, err := buildHandler(cfg, sessions, events)
	if err != nil {
		_ = listener.Close()
		_ = sessions.Close()
		_ = events.Close()
		return nil, err
	}

	return &Server{
		listener: listener,
		httpServer: &http.Server{
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		sessions: sessions,
		events:   events,
	}, nil
}

func buildHandler(cfg Config, sessions *bbolt.Store, events *sqlite.Store) (http.Handler, error) {
	content, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	issuer, err := auth.NewIssuer([]byte(cfg.TokenKey), tokenIssuer)
	if err != nil {
		return nil, fmt.Errorf("build token issuer: %w", err)
	}

	opts := []service.Option{service.WithTelemetryReader(events)}
	if strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
		generator, err := narrative.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			return nil, fmt.Errorf("build narrative client: %w", err)
		}
		opts = append(opts, service.WithGenerator(generator))
	} else {
		log.Printf("no narrative API key configured, scenes use the deterministic fallback")
	}

	svc, err := service.New(sessions, telemetry.NewEmitter(events), content, opts...)
	if err != nil {
		return nil, fmt.Errorf("build game service: %w", err)
	}
	return httpapi.New(svc, issuer).Routes(), nil
}

// Addr returns the listener address for the game server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a game server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the game server and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.closeStores()

	log.Printf("game server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	handleErr := func(err error) error {
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown http server: %v", err)
		}
		return handleErr(<-serveErr)
	case err := <-serveErr:
		return handleErr(err)
	}
}

func (s *Server) closeStores() {
	if s == nil {
		return
	}
	if s.sessions != nil {
		if err := s.sessions.Close(); err != nil {
			log.Printf("close session store: %v", err)
		}
	}
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			log.Printf("close telemetry store: %v", err)
		}
	}
}

package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/justestif/gigbook/internal/logging"
	"github.com/justestif/gigbook/internal/metrics"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:8080"

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr        string
	TemplatesFS fs.FS
	StaticFS    fs.FS
	Bookings    Bookings
	Ping        func(context.Context) error
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
}

// Server is the HTTP server for the web application.
type Server struct {
	router   chi.Router
	server   *http.Server
	handlers *Handlers
	metrics  *metrics.Metrics
	logger   *slog.Logger
	ping     func(context.Context) error
}

// NewServer creates a new web server.
func NewServer(cfg ServerConfig) (*Server, error) {
	templates, err := NewTemplates(cfg.TemplatesFS)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.New()
	}
	ping := cfg.Ping
	if ping == nil {
		ping = func(context.Context) error { return nil }
	}
	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}

	s := &Server{
		router:   chi.NewRouter(),
		handlers: NewHandlers(cfg.Bookings, NewFlashStore(), templates, logger),
		metrics:  m,
		logger:   logger,
		ping:     ping,
	}

	s.setupMiddleware()
	s.setupRoutes(cfg.StaticFS)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(logging.Middleware(s.logger))
	s.router.Use(s.metrics.Middleware)
	s.router.Use(s.handlers.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes(staticFS fs.FS) {
	h := s.handlers

	fileServer := http.FileServer(http.FS(staticFS))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	s.router.Get("/healthz", Health(s.ping))
	s.router.Handle("/metrics", s.metrics.Handler())

	s.router.Get("/", h.Home)

	s.router.Route("/venues", func(r chi.Router) {
		r.Get("/", h.Venues)
		r.Post("/search", h.SearchVenues)
		r.Get("/create", h.NewVenue)
		r.Post("/create", h.CreateVenue)
		r.Route("/{id:[0-9]+}", func(r chi.Router) {
			r.Use(h.knownID("venue", "/venues"))
			r.Get("/", h.Venue)
			r.Delete("/", h.DeleteVenue)
			r.Post("/delete", h.DeleteVenue)
			r.Get("/edit", h.EditVenue)
			r.Post("/edit", h.UpdateVenue)
		})
	})

	s.router.Route("/artists", func(r chi.Router) {
		r.Get("/", h.Artists)
		r.Post("/search", h.SearchArtists)
		r.Get("/create", h.NewArtist)
		r.Post("/create", h.CreateArtist)
		r.Route("/{id:[0-9]+}", func(r chi.Router) {
			r.Use(h.knownID("artist", "/artists"))
			r.Get("/", h.Artist)
			r.Delete("/", h.DeleteArtist)
			r.Post("/delete", h.DeleteArtist)
			r.Get("/edit", h.EditArtist)
			r.Post("/edit", h.UpdateArtist)
			r.Get("/albums/create", h.NewAlbum)
			r.Post("/albums/create", h.CreateAlbum)
		})
	})

	s.router.Route("/shows", func(r chi.Router) {
		r.Get("/", h.Shows)
		r.Get("/create", h.NewShow)
		r.Post("/create", h.CreateShow)
		r.With(h.knownID("show", "/shows")).Delete("/{id:[0-9]+}", h.DeleteShow)
		r.With(h.knownID("show", "/shows")).Post("/{id:[0-9]+}/delete", h.DeleteShow)
	})

	s.router.NotFound(h.NotFound)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting server", "url", "http://"+s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.logger.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

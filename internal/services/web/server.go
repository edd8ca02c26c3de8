package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/louisbranch/schoolfinder/internal/platform/timeouts"
	"github.com/louisbranch/schoolfinder/internal/services/web/modules"
	"github.com/louisbranch/schoolfinder/internal/services/web/modules/schools"
	"github.com/louisbranch/schoolfinder/internal/services/web/lookup"
	"github.com/louisbranch/schoolfinder/internal/services/web/platform/httpx"
	"github.com/louisbranch/schoolfinder/internal/services/web/platform/observability"
	"github.com/louisbranch/schoolfinder/internal/services/web/platform/weberror"
	"github.com/louisbranch/schoolfinder/internal/services/web/routepath"
	"github.com/louisbranch/schoolfinder/internal/services/web/static"
)

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr string
	// LookupURL is the school lookup endpoint, e.g. http://localhost:5000/find-schools.
	LookupURL     string
	LookupTimeout time.Duration
	// DefaultNumSchools pre-fills the search form.
	DefaultNumSchools int
	MaxNumSchools     int
	// BreakerFailures opens the lookup circuit after this many consecutive
	// failures. Zero disables the breaker.
	BreakerFailures uint32
	BreakerCooldown time.Duration
	HTMXScriptURL   string
	// Finder replaces the HTTP lookup client when set.
	Finder lookup.Finder
}

// Server hosts the school finder HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

// NewHandler creates the HTTP handler for the school finder UX.
func NewHandler(config Config) (http.Handler, error) {
	finder := config.Finder
	if finder == nil {
		client, err := lookup.New(lookup.Config{
			URL:             config.LookupURL,
			Timeout:         config.LookupTimeout,
			BreakerFailures: config.BreakerFailures,
			BreakerCooldown: config.BreakerCooldown,
		})
		if err != nil {
			return nil, fmt.Errorf("build lookup client: %w", err)
		}
		finder = client
	}

	r := chi.NewRouter()
	r.Use(httpx.RequestID(), observability.RequestLogger(log.Default()), httpx.RecoverPanic())

	r.NotFound(errorPageHandler(config.HTMXScriptURL, http.StatusNotFound))
	r.MethodNotAllowed(errorPageHandler(config.HTMXScriptURL, http.StatusMethodNotAllowed))

	r.Handle(routepath.StaticPrefix+"*", http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(static.FS))))
	r.Get(routepath.Health, handleHealth)

	registry := modules.DefaultModules(modules.Dependencies{
		Finder:            finder,
		DefaultNumSchools: config.DefaultNumSchools,
		MaxNumSchools:     config.MaxNumSchools,
		HTMXScriptURL:     config.HTMXScriptURL,
	})
	for _, m := range registry {
		mount, err := m.Mount()
		if err != nil {
			return nil, fmt.Errorf("mount module %s: %w", m.ID(), err)
		}
		r.Mount(mount.Prefix, mount.Handler)
	}
	return r, nil
}

// NewServer builds a configured web server.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(config)
	if err != nil {
		return nil, err
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// ListenAndServe serves HTTP until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func errorPageHandler(htmxScriptURL string, statusCode int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		weberror.WriteAppError(w, r, statusCode, schools.PageContext(w, r, htmxScriptURL))
	}
}

// Package server exposes address forms, schema exports, image thumbnails and
// connections argument checks over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/goliatone/go-addressform/pkg/bitmap"
	"github.com/goliatone/go-addressform/pkg/openapi"
	"github.com/goliatone/go-addressform/pkg/render"
	"github.com/goliatone/go-addressform/pkg/renderers/descriptor"
	"github.com/goliatone/go-addressform/pkg/renderers/html"
	"github.com/goliatone/go-addressform/pkg/repository"
)

const shutdownTimeout = 5 * time.Second

// Server routes requests to the address repository and its renderers.
type Server struct {
	repo       *repository.Repository
	renderers  *render.Registry
	overrides  []render.Renderer
	themes     theme.ThemeSelector
	translator render.Translator
	images     *bitmap.Loader
	logger     *zap.Logger
	locale     string
	router     *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the access and error logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaultLocale sets the locale used when a request names none.
func WithDefaultLocale(locale string) Option {
	return func(s *Server) {
		s.locale = locale
	}
}

// WithTranslator overrides the label catalog.
func WithTranslator(t render.Translator) Option {
	return func(s *Server) {
		s.translator = t
	}
}

// WithRenderer installs r for its format, replacing the built-in renderer of
// the same name or adding a new format.
func WithRenderer(r render.Renderer) Option {
	return func(s *Server) {
		if r != nil {
			s.overrides = append(s.overrides, r)
		}
	}
}

// WithThemeSelector enables the theme and variant query parameters on the
// form endpoint.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(s *Server) {
		s.themes = selector
	}
}

// WithImageLoader enables the thumbnail endpoint.
func WithImageLoader(loader *bitmap.Loader) Option {
	return func(s *Server) {
		s.images = loader
	}
}

// New builds a Server around repo.
func New(repo *repository.Repository, options ...Option) (*Server, error) {
	if repo == nil {
		return nil, errors.New("server: repository is required")
	}
	s := &Server{
		repo:   repo,
		logger: zap.NewNop(),
		locale: render.DefaultLocale,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.translator == nil {
		s.translator = render.DefaultCatalog()
	}
	htmlRenderer, err := html.New(html.WithTranslator(s.translator))
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s.renderers, err = render.NewRegistry(
		htmlRenderer,
		descriptor.New(descriptor.WithTranslator(s.translator)),
		openapi.NewRenderer(s.translator),
	)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	for _, r := range s.overrides {
		if err := s.renderers.Replace(r); err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(withRequestID, accessLog(s.logger))

	r.HandleFunc("/healthz", s.handle(s.health)).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/countries", s.handle(s.countries)).Methods(http.MethodGet)
	v1.HandleFunc("/address/{country}/fields", s.handle(s.fields)).Methods(http.MethodGet)
	v1.HandleFunc("/address/{country}/form", s.handle(s.form)).Methods(http.MethodGet)
	v1.HandleFunc("/address/{country}/schema", s.handle(s.schema)).Methods(http.MethodGet)
	v1.HandleFunc("/address/{country}/validate", s.handle(s.validate)).Methods(http.MethodPost)
	v1.HandleFunc("/images/thumbnail", s.handle(s.thumbnail)).Methods(http.MethodGet)
	v1.HandleFunc("/connections/validate", s.handle(s.connectionsValidate)).Methods(http.MethodPost)

	r.NotFoundHandler = s.handle(func(http.ResponseWriter, *http.Request) error {
		return statusErrorf(http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = s.handle(func(http.ResponseWriter, *http.Request) error {
		return statusErrorf(http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"codeberg.org/snonux/polyglot/internal/photo"
	"codeberg.org/snonux/polyglot/internal/session"
)

// Config holds the server settings
type Config struct {
	Addr           string        // Listen address
	AllowedOrigins []string      // CORS origins
	SessionTTL     time.Duration // Idle sessions are closed after this, 0 keeps them
	MaxPhotoBytes  int64         // Upload limit for POST /sessions/{id}/photo
	PhotoDir       string        // Where uploads are stored, the temp dir when empty
}

// DefaultConfig returns the default server configuration
func DefaultConfig() *Config {
	return &Config{
		Addr:           ":8080",
		AllowedOrigins: []string{"*"},
		SessionTTL:     30 * time.Minute,
		MaxPhotoBytes:  photo.DefaultStoreOptions().MaxSizeBytes,
	}
}

// Server is the JSON API over learning sessions
type Server struct {
	config   *Config
	sessions *Registry
	photos   *photo.Store
	logger   *zap.Logger
	handler  http.Handler
}

// New creates a server; factory builds the controller of every new session
func New(factory SessionFactory, config *Config, logger *zap.Logger) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	storeOptions := photo.DefaultStoreOptions()
	if config.PhotoDir != "" {
		storeOptions.Dir = config.PhotoDir
	}
	if config.MaxPhotoBytes > 0 {
		storeOptions.MaxSizeBytes = config.MaxPhotoBytes
	}

	s := &Server{
		config: config,
		photos: photo.NewStore(storeOptions),
		logger: logger,
	}
	s.sessions = NewRegistry(func(config *session.Config) *session.Controller {
		if config.ReleasePhoto == nil {
			config.ReleasePhoto = s.releasePhoto
		}
		return factory(config)
	})
	s.handler = s.routes()
	return s
}

// releasePhoto deletes an upload once its session let go of it
func (s *Server) releasePhoto(ref photo.Ref) {
	if err := s.photos.Remove(ref); err != nil {
		s.logger.Warn("Failed to remove photo", zap.String("photo", ref.Name()), zap.Error(err))
	}
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(recoverer(s.logger), requestLogger(s.logger))

	r.HandleFunc("/languages", s.handleLanguages).Methods(http.MethodGet)
	r.HandleFunc("/sessions", s.handleCreateSession).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}", s.handleGetSession).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods(http.MethodDelete)
	r.HandleFunc("/sessions/{id}/language", s.handleSelectLanguage).Methods(http.MethodPut)
	r.HandleFunc("/sessions/{id}/next", s.handleNext).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/translate", s.handleTranslate).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/photo", s.handlePhoto).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
		Debug:          false,
	})
	return corsHandler.Handler(r)
}

// Handler returns the HTTP handler with CORS and logging applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Sessions returns the session registry
func (s *Server) Sessions() *Registry {
	return s.sessions
}

// ListenAndServe serves until ctx is done, then shuts down gracefully and
// closes all sessions
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	defer s.sessions.CloseAll()

	if s.config.SessionTTL > 0 {
		go s.expireLoop(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", zap.String("addr", s.config.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("Server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

func (s *Server) expireLoop(ctx context.Context) {
	interval := s.config.SessionTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Expire(s.config.SessionTTL); n > 0 {
				s.logger.Info("Expired idle sessions", zap.Int("count", n))
			}
		}
	}
}

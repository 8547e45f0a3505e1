// Package server implements the refdiff web UI: upload two RIS files,
// compare them, inspect the overlap, and export any subset back to RIS.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/refdiff/refdiff/internal/config"
	"github.com/refdiff/refdiff/internal/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	// maxUploadBytes caps one uploaded RIS file. Reference exports are text;
	// anything bigger than this is not a reference export.
	maxUploadBytes = 32 << 20

	// Upload endpoints are rate limited to keep the quadratic fuzzy pass
	// from being a denial-of-service vector.
	uploadRatePerSec = 2
	uploadBurst      = 5

	// sessionTTL is how long export links stay valid.
	sessionTTL = 24 * time.Hour

	// pruneInterval is how often expired sessions and their uploads are
	// removed.
	pruneInterval = time.Hour
)

// Server serves the comparison UI.
type Server struct {
	cfg      *config.Config
	sessions *storage.DB
	log      *zap.Logger
	limiter  *rate.Limiter
	tmpl     *template.Template
}

// New creates a server. The uploads directory is created if missing.
func New(cfg *config.Config, sessions *storage.DB, log *zap.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}

	return &Server{
		cfg:      cfg,
		sessions: sessions,
		log:      log,
		limiter:  rate.NewLimiter(uploadRatePerSec, uploadBurst),
		tmpl:     tmpl,
	}, nil
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /compare", s.handleCompare)
	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// Run serves until the context is canceled, then shuts down gracefully.
// A background janitor prunes expired sessions and their uploaded files.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.janitor(ctx)

	go func() {
		<-ctx.Done()
		s.log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("starting server", zap.String("listen", s.cfg.Listen))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server listen: %w", err)
	}
	return nil
}

// janitor periodically removes sessions past their TTL along with their
// uploaded files.
func (s *Server) janitor(ctx context.Context) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			paths, err := s.sessions.Prune(time.Now().Add(-sessionTTL))
			if err != nil {
				s.log.Error("pruning sessions", zap.Error(err))
				continue
			}
			for _, p := range paths {
				if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
					s.log.Warn("removing expired upload", zap.String("path", p), zap.Error(err))
				}
			}
			if len(paths) > 0 {
				s.log.Info("pruned expired sessions", zap.Int("files_removed", len(paths)))
			}
		}
	}
}

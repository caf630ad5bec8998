// Package preview implements edit-render-inspect loop: book is rebuilt into
// a scratch directory whenever manuscript or images change and the result is
// served over HTTP.
package preview

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"mkbook/common"
	"mkbook/convert"
)

const bookPrefix = "/book"

// Server keeps the latest build and serves it.
type Server struct {
	in     *convert.Input
	dir    string
	log    *zap.Logger
	router chi.Router

	// serializes rebuilds
	build sync.Mutex

	mu         sync.RWMutex
	current    string
	lastErr    error
	generation int
	built      time.Time
}

// New creates server building "in" into "dir".
func New(in *convert.Input, dir string, log *zap.Logger) *Server {
	s := &Server{in: in, dir: dir, log: log}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log))

	r.Get("/", s.handleIndex)
	r.Get("/status", s.handleStatus)
	r.Handle(bookPrefix+"/*", http.StripPrefix(bookPrefix, http.FileServer(http.Dir(s.dir))))

	s.router = r
}

// Rebuild converts the book again. Concurrent calls are serialized, failed
// build keeps previous result available.
func (s *Server) Rebuild(ctx context.Context) error {
	s.build.Lock()
	defer s.build.Unlock()

	out, err := convert.Build(ctx, s.in, s.dir, common.OutputFmtHtml, s.log)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.built = time.Now()
	s.lastErr = err
	if err != nil {
		s.log.Error("Rebuild failed", zap.Int("generation", s.generation), zap.Error(err))
		return err
	}
	rel, err := filepath.Rel(s.dir, out)
	if err != nil {
		return err
	}
	s.current = filepath.ToSlash(rel)
	s.log.Info("Book rebuilt", zap.Int("generation", s.generation), zap.String("document", s.current))
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	current, lastErr := s.current, s.lastErr
	s.mu.RUnlock()

	if current == "" {
		msg := "book was not built yet"
		if lastErr != nil {
			msg = lastErr.Error()
		}
		http.Error(w, msg, http.StatusServiceUnavailable)
		return
	}
	http.Redirect(w, r, path.Join(bookPrefix, current), http.StatusFound)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	fmt.Fprintf(w, "source: %s\n", s.in.Location)
	fmt.Fprintf(w, "generation: %d\n", s.generation)
	if !s.built.IsZero() {
		fmt.Fprintf(w, "built: %s\n", s.built.Format(time.RFC3339))
	}
	if s.current != "" {
		fmt.Fprintf(w, "document: %s\n", path.Join(bookPrefix, s.current))
	}
	if s.lastErr != nil {
		fmt.Fprintf(w, "error: %s\n", s.lastErr)
	}
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Debug("Request",
				zap.String("id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)))
		})
	}
}

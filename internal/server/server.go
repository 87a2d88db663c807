// Package server provides the HTTP API for the brand compiler.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/jonathan/brand-compiler/internal/compiler"
	"github.com/jonathan/brand-compiler/internal/config"
	"github.com/jonathan/brand-compiler/internal/copygen"
	"github.com/jonathan/brand-compiler/internal/db"
	"github.com/jonathan/brand-compiler/internal/registry"
	"github.com/jonathan/brand-compiler/internal/server/middleware"
	"github.com/jonathan/brand-compiler/internal/server/ratelimit"
	"github.com/jonathan/brand-compiler/internal/types"
)

const maxBodyBytes = 1 << 20

// Store is the persistence the server needs. *db.DB satisfies it.
type Store interface {
	SaveSprint(ctx context.Context, in *db.SprintInput) (*db.Sprint, error)
	GetSprint(ctx context.Context, userID uuid.UUID, inputHash string) (*db.Sprint, error)
	ListSprints(ctx context.Context, userID uuid.UUID, limit int) ([]db.Sprint, error)
	SaveCopy(ctx context.Context, specHash string, assets types.BrandAssets, model string) error
	GetCopy(ctx context.Context, specHash string) (*db.CopyRecord, error)
	Ping(ctx context.Context) error
}

// Copier generates launch copy for a compiled brand. *copygen.Generator
// satisfies it.
type Copier interface {
	Generate(ctx context.Context, spec types.BrandSpec, style types.MixedStyleSpec, fallback types.BrandAssets) (*copygen.Copy, error)
}

// Options wires the server's collaborators. Store, Copier and Limiter are
// optional; the endpoints that need a missing one answer 503.
type Options struct {
	Config   config.ServerConfig
	Compiler *compiler.Compiler
	Registry *registry.Registry
	Store    Store
	Copier   Copier
	Limiter  *ratelimit.Limiter
	Logger   *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	compiler        *compiler.Compiler
	reg             *registry.Registry
	store           Store
	copier          Copier
	cache           *lru.Cache[string, *compiler.Result]
	rateLimiter     *ratelimit.Limiter
	logger          *zap.Logger
	allowedOrigin   string
	shutdownTimeout time.Duration
}

// New creates a new server instance
func New(opts Options) (*Server, error) {
	if opts.Compiler == nil || opts.Registry == nil {
		return nil, errors.New("server requires a compiler and a registry")
	}

	cacheSize := opts.Config.CacheSize
	if cacheSize <= 0 {
		cacheSize = 512
	}
	cache, err := lru.New[string, *compiler.Result](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		compiler:        opts.Compiler,
		reg:             opts.Registry,
		store:           opts.Store,
		copier:          opts.Copier,
		cache:           cache,
		rateLimiter:     opts.Limiter,
		logger:          logger,
		allowedOrigin:   opts.Config.AllowedOrigin,
		shutdownTimeout: opts.Config.ShutdownTimeout,
	}
	if s.allowedOrigin == "" {
		s.allowedOrigin = "*"
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = 10 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Config.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second, // copy generation waits on the model
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /v1/compile", s.handleCompile)
	mux.HandleFunc("POST /v1/compile/batch", s.handleCompileBatch)
	mux.HandleFunc("POST /v1/tone/mix", s.handleMixTones)
	mux.HandleFunc("POST /v1/copy", s.handleCopy)
	mux.HandleFunc("POST /v1/brand-prompt", s.handleBrandPrompt)

	mux.HandleFunc("GET /v1/sprints", s.handleListSprints)
	mux.HandleFunc("GET /v1/sprints/{input_hash}", s.handleGetSprint)

	var h http.Handler = mux
	h = middleware.UserIdentity(h)
	h = s.withCORS(h)
	h = s.withRateLimit(h)
	h = s.withLogging(h)
	return middleware.RequestID(h)
}

// Run listens on the configured port until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.stopLimiter()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", ln.Addr().String()))
		err := s.httpServer.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		s.stopLimiter()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	shutdownErr := s.httpServer.Shutdown(shutdownCtx)
	serveErr := <-errCh
	s.stopLimiter()

	if shutdownErr != nil {
		return fmt.Errorf("server shutdown failed: %w", shutdownErr)
	}
	if serveErr != nil {
		return fmt.Errorf("server error: %w", serveErr)
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) stopLimiter() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-ID, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients over their budget with 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.rateLimiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging writes one structured line per request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetRequestID(r.Context())),
		)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

// Flush keeps event streams working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// extractClientID returns the caller's IP from RemoteAddr. Forwarded
// headers are not trusted.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	retryAfter := int(info.RetryAfter.Round(time.Second).Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

	s.logger.Warn("rate limit exceeded",
		zap.String("client", extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate_limit_exceeded",
		"message":     "Rate limit exceeded. Please try again later.",
		"limit":       info.Limit,
		"retry_after": retryAfter,
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail maps err to a status and writes it. Server-side failures are logged
// and their detail is withheld from the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err),
		)
	}
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	s.errorResponse(w, status, message)
}

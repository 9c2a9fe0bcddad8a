package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"hondana/internal/auth"
	"hondana/internal/core"
)

// PurchaseService is the application surface the handlers talk to.
type PurchaseService interface {
	Create(ctx context.Context, userID string, in core.PurchaseInput) (core.Purchase, error)
	Update(ctx context.Context, userID, id string, in core.PurchaseInput) error
	Delete(ctx context.Context, userID, id string) error
	Get(ctx context.Context, userID, id string) (core.Purchase, error)
	List(ctx context.Context, userID string, limit int, tag string) ([]core.Purchase, error)
	Summarize(ctx context.Context, userID, monthParam, yearParam string) (core.Summary, error)
}

type Server struct {
	http.Server
	svc      PurchaseService
	verifier auth.Verifier
}

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
)

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, svc PurchaseService, verifier auth.Verifier) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		svc:      svc,
		verifier: verifier,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /purchases", s.instrument(s.withAuth(s.handleListPurchases)))
	mux.HandleFunc("POST /purchases", s.instrument(s.withAuth(s.handleCreatePurchase)))
	mux.HandleFunc("GET /purchases/{id}", s.instrument(s.withAuth(s.handleGetPurchase)))
	mux.HandleFunc("PUT /purchases/{id}", s.instrument(s.withAuth(s.handleUpdatePurchase)))
	mux.HandleFunc("DELETE /purchases/{id}", s.instrument(s.withAuth(s.handleDeletePurchase)))
	mux.HandleFunc("GET /summary", s.instrument(s.withAuth(s.handleSummary)))

	return s
}

// instrument adds security headers, a request ID, and start/complete logs.
func (s *Server) instrument(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

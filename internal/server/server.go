package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/packworks/packworks/internal/collection"
	"github.com/packworks/packworks/internal/database"
	"github.com/packworks/packworks/internal/handler"
	"github.com/packworks/packworks/internal/ledger"
	"github.com/packworks/packworks/internal/logger"
	"github.com/packworks/packworks/internal/metrics"
	"github.com/packworks/packworks/internal/reveal"
	"github.com/packworks/packworks/internal/shop"
)

type Server struct {
	httpServer        *http.Server
	dbPool            database.Pool
	shopService       shop.Service
	collectionService collection.Service
	ledgerService     ledger.Service
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, dbPool database.Pool, shopService shop.Service, collectionService collection.Service, ledgerService ledger.Service, revealStore *reveal.Store, users handler.UserStore) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// User routes
		userHandler := handler.NewUserHandler(users)
		r.Route("/user", func(r chi.Router) {
			r.Post("/register", userHandler.HandleRegisterUser)
			r.Get("/", userHandler.HandleGetUser)
		})

		// Storefront routes
		shopHandler := handler.NewShopHandler(shopService)
		r.Get("/packs", shopHandler.HandleListPacks)

		// Reveal routes
		revealHandler := handler.NewRevealHandler(shopService, collectionService, revealStore)
		r.Post("/pack/open", revealHandler.HandleOpenPack)
		r.Route("/reveal", func(r chi.Router) {
			r.Get("/", revealHandler.HandleRevealState)
			r.Post("/start", revealHandler.HandleStartReveal)
			r.Post("/next", revealHandler.HandleNextCard)
			r.Post("/skip-rare", revealHandler.HandleSkipToRare)
			r.Post("/skip", revealHandler.HandleSkipAll)
		})

		// Collection routes
		collectionHandler := handler.NewCollectionHandler(collectionService)
		r.Route("/collection", func(r chi.Router) {
			r.Get("/", collectionHandler.HandleGetCollection)
			r.Post("/sell", collectionHandler.HandleSellCard)
			r.Post("/ship", collectionHandler.HandleShipCards)
		})

		// Ledger routes
		ledgerHandler := handler.NewLedgerHandler(ledgerService)
		r.Route("/credits", func(r chi.Router) {
			r.Get("/", ledgerHandler.HandleGetBalance)
			r.Get("/history", ledgerHandler.HandleGetHistory)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/credits/grant", ledgerHandler.HandleGrantCredits)
		})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool:            dbPool,
		shopService:       shopService,
		collectionService: collectionService,
		ledgerService:     ledgerService,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		// Use HasPrefix to catch potential variations (e.g. /healthz/)
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

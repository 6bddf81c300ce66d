package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/osse101/PrizeArena_Go/internal/database"
	"github.com/osse101/PrizeArena_Go/internal/eventlog"
	"github.com/osse101/PrizeArena_Go/internal/handler"
	"github.com/osse101/PrizeArena_Go/internal/logger"
	"github.com/osse101/PrizeArena_Go/internal/metrics"
	"github.com/osse101/PrizeArena_Go/internal/participation"
	"github.com/osse101/PrizeArena_Go/internal/repository"
	"github.com/osse101/PrizeArena_Go/internal/settlement"
	"github.com/osse101/PrizeArena_Go/internal/tournament"
)

// Config holds the listener and auth settings
type Config struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	RateLimit      int
}

// Services are the domain services the API exposes
type Services struct {
	DB            database.Pool
	Redis         *redis.Client
	Tournaments   tournament.Service
	Participation participation.Service
	Settlement    settlement.Service
	Wallets       repository.Wallet
	Payouts       repository.Payout
	Events        eventlog.Service
	Clock         func() time.Time
}

type Server struct {
	httpServer *http.Server
}

// NewServer builds the operator API
func NewServer(cfg Config, svc Services) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           NewRouter(cfg, svc),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// readinessDependencies lists the backends /readyz pings. Redis is optional.
func readinessDependencies(svc Services) []handler.Dependency {
	var deps []handler.Dependency
	if svc.DB != nil {
		deps = append(deps, handler.Dependency{Name: handler.DependencyDatabase, Ping: svc.DB.Ping})
	}
	if svc.Redis != nil {
		deps = append(deps, handler.Dependency{
			Name: handler.DependencyRedis,
			Ping: func(ctx context.Context) error { return svc.Redis.Ping(ctx).Err() },
		})
	}
	return deps
}

// NewRouter wires middleware and routes. Middleware runs in the order added.
func NewRouter(cfg Config, svc Services) http.Handler {
	r := chi.NewRouter()
	detector := NewActivityDetector(cfg.RateLimit)

	r.Use(SecurityHeadersMiddleware())
	r.Use(loggingMiddleware)
	r.Use(RateLimitMiddleware(cfg.TrustedProxies, detector))
	r.Use(AuthMiddleware(cfg.APIKey, cfg.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(readinessDependencies(svc)...))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	tournaments := handler.NewTournamentHandler(svc.Tournaments)
	participants := handler.NewParticipationHandler(svc.Participation)
	wallets := handler.NewWalletHandler(svc.Wallets)
	audit := handler.NewAuditHandler(svc.Payouts, svc.Events)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/tournaments", func(r chi.Router) {
			r.Post("/", tournaments.HandleCreate)
			r.Get("/", tournaments.HandleList)
			r.Get("/presets", tournaments.HandlePresets)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", tournaments.HandleGet)
				r.Get("/leaderboard", tournaments.HandleLeaderboard)
				r.Get("/receipts", tournaments.HandleReceipts)
				r.Post("/attempts", participants.HandleRecordAttempt)
				r.Post("/join", participants.HandleJoin)
				r.Get("/payouts", audit.HandlePayouts)
				r.Get("/events", audit.HandleEvents)
			})
		})

		r.Post("/settlement/run", handler.HandleRunSettlement(svc.Settlement, svc.Clock))

		r.Route("/wallets/{playerId}", func(r chi.Router) {
			r.Get("/", wallets.HandleGetBalance)
			r.Post("/deposits", wallets.HandleDeposit)
		})
	})

	return r
}

// statusRecorder captures the status code for request logs
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.written {
		rw.status = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// loggingMiddleware tags the request context with a request id and logs
// start and completion. Probe and scrape paths are not logged.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, requestID)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"content_length", r.ContentLength)
		log.Debug(LogMsgRequestHeaders, "headers", redactHeaders(r.Header))

		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

func redactHeaders(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, v := range h {
		if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
			out[k] = []string{RedactedValue}
			continue
		}
		out[k] = v
	}
	return out
}

// Start starts the server
func (s *Server) Start() error {
	logger.Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/factlock/factlock/internal/api/handlers"
	mw "github.com/factlock/factlock/internal/api/middleware"
	"github.com/factlock/factlock/internal/buildconfig"
	"github.com/factlock/factlock/internal/config"
	"github.com/factlock/factlock/internal/domain"
	"github.com/factlock/factlock/internal/evidence"
	"github.com/factlock/factlock/internal/ledger"
	"github.com/factlock/factlock/internal/service"
	"github.com/factlock/factlock/internal/signer"
	"github.com/factlock/factlock/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Deps carries the external collaborators built at process start. Provider
// is required; the rest are optional and disable their endpoints or
// features when nil.
type Deps struct {
	Provider domain.EvidenceProvider
	Ledger   domain.LedgerClient
	Signer   *signer.Signer
	DB       *pgxpool.Pool
}

// App holds the router and request metrics.
type App struct {
	Router       *chi.Mux
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
	rateLimiter  *mw.RateLimiter
}

// Close stops the App's background work.
func (app *App) Close() {
	app.rateLimiter.Stop()
}

func NewApp(deps Deps, logger *zap.Logger) *App {
	// Services
	evalSvc := service.NewEvaluationService(
		deps.Provider,
		service.EvidencePolicy(config.EvidencePolicy()),
		logger,
	)
	refuteSvc := service.NewRefutationService(
		deps.Provider,
		deps.Ledger,
		service.RefutationMode(config.RefutationMode()),
		logger,
	)

	var submitter *ledger.Submitter
	if deps.Ledger != nil {
		submitter = ledger.NewSubmitter(deps.Ledger, ledger.DefaultRetryPolicy(), logger)
	}

	var journal domain.CommitmentJournal
	if deps.DB != nil {
		journal = store.NewJournalStore(deps.DB)
	}

	// Handlers
	explorerURL := config.ExplorerTxURL()
	accountHandler := handlers.NewAccountHandler(deps.Signer)
	evaluateHandler := handlers.NewEvaluateHandler(evalSvc, submitter, journal, explorerURL, logger)
	refuteHandler := handlers.NewRefuteHandler(refuteSvc, submitter, explorerURL, logger)

	r := chi.NewRouter()

	rateLimiter := mw.NewRateLimiter(config.RateLimitRPS(), config.RateLimitBurst())
	rateLimiter.StartCleanup(10 * time.Minute)

	app := &App{
		Router:      r,
		startTime:   time.Now(),
		rateLimiter: rateLimiter,
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", mw.RequestIDHeader},
	}))
	r.Use(rateLimiter.Middleware)

	r.Get("/health", healthHandler(deps.DB))
	r.Get("/metrics", app.metricsHandler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/address", accountHandler.Address)
		r.Get("/test-sign", accountHandler.TestSign)

		r.Post("/evaluate", evaluateHandler.Evaluate)
		r.Post("/evaluate-local", evaluateHandler.EvaluateLocal)

		r.Post("/refute", refuteHandler.Refute)
		r.Post("/refute-local", refuteHandler.RefuteLocal)
	})

	return app
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
			"build":      buildconfig.VersionInfo(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure clients and stores satisfy interfaces at compile time.
var (
	_ domain.EvidenceProvider  = (*evidence.PerplexityClient)(nil)
	_ domain.EvidenceProvider  = (*evidence.NewsClient)(nil)
	_ domain.EvidenceProvider  = (*evidence.MockProvider)(nil)
	_ domain.LedgerClient      = (*ledger.EthClient)(nil)
	_ domain.CommitmentJournal = (*store.JournalStore)(nil)
)

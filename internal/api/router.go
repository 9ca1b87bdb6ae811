package api

import (
	"encoding/json"
	"net/http"

	"github.com/agentstationhq/station/internal/api/handlers"
	mw "github.com/agentstationhq/station/internal/api/middleware"
	"github.com/agentstationhq/station/internal/config"
	"github.com/agentstationhq/station/internal/domain"
	"github.com/agentstationhq/station/internal/hub"
	"github.com/agentstationhq/station/internal/metrics"
	"github.com/agentstationhq/station/internal/service"
	"github.com/agentstationhq/station/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the router and background services for lifecycle management.
type App struct {
	Router  *chi.Mux
	Hub     *hub.Hub
	Monitor *service.MonitorService
}

// NewApp wires the registry, hub, monitor, and HTTP surface together.
// db may be nil, in which case chat history is disabled but chat events
// still broadcast.
func NewApp(db *pgxpool.Pool, logger *zap.Logger) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Stores
	registry, err := store.NewRegistry(config.AgentDataFile(), logger)
	if err != nil {
		return nil, err
	}
	var chatStore domain.ChatStore
	if db != nil {
		chatStore = store.NewChatStore(db)
	}

	// Hub and services
	eventHub := hub.New(logger, m)
	prober := service.NewProber(config.ProbeTimeout())
	monitor := service.NewMonitorService(registry, eventHub, prober, m, logger)
	monitor.SetInterval(config.PingInterval())
	if config.ProbeTimeout() >= config.PingInterval() {
		logger.Warn("probe timeout is not shorter than the ping interval; a stuck agent can delay the sweep",
			zap.Duration("probe_timeout", config.ProbeTimeout()),
			zap.Duration("ping_interval", config.PingInterval()))
	}

	agentSvc := service.NewAgentService(registry)
	chatSvc := service.NewChatService(chatStore, eventHub, logger)

	// Handlers
	agentHandler := handlers.NewAgentHandler(agentSvc)
	chatHandler := handlers.NewChatHandler(chatSvc)
	wsHandler := handlers.NewWSHandler(eventHub, logger)

	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Metrics(m))
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Discovery, health, metrics
	r.Get("/", handlers.Discovery)
	r.Get("/health", healthHandler(db))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// Agents
	r.Get("/agents", agentHandler.List)
	r.Post("/agent", agentHandler.Register)

	// Event subscribers
	r.Get("/ws", wsHandler.Serve)

	// Chat
	r.Route("/chat", func(r chi.Router) {
		r.Post("/messages", chatHandler.Post)
		r.Get("/messages", chatHandler.History)
	})

	return &App{
		Router:  r,
		Hub:     eventHub,
		Monitor: monitor,
	}, nil
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

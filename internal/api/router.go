package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/fantasyhockey/internal/api/handler"
	"github.com/mcoot/fantasyhockey/internal/api/middleware"
	"github.com/mcoot/fantasyhockey/internal/services/gate"
	"github.com/mcoot/fantasyhockey/internal/services/ingest"
	"github.com/mcoot/fantasyhockey/internal/services/schedule"
	"github.com/mcoot/fantasyhockey/internal/services/standings"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger *slog.Logger
	// AdminToken guards mutating routes; empty leaves them open
	AdminToken       string
	ScheduleService  *schedule.Service
	StandingsService *standings.Service
	IngestService    *ingest.Service
	GateService      *gate.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	seasonHandler := handler.NewSeasonHandler(cfg.ScheduleService, cfg.StandingsService)
	standingsHandler := handler.NewStandingsHandler(cfg.StandingsService)
	ingestHandler := handler.NewIngestHandler(cfg.IngestService)
	gateHandler := handler.NewGateHandler(cfg.GateService)

	// Create middleware
	adminMiddleware := middleware.AdminToken(cfg.AdminToken)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Read-only routes
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/weeks/current", seasonHandler.CurrentWeek).Methods(http.MethodGet)
	api.HandleFunc("/weeks/{number}", seasonHandler.GetWeek).Methods(http.MethodGet)
	api.HandleFunc("/weeks/{number}/matchups", seasonHandler.WeekMatchups).Methods(http.MethodGet)
	api.HandleFunc("/matchups/{id}", seasonHandler.Matchup).Methods(http.MethodGet)
	api.HandleFunc("/standings", standingsHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/locked-teams", gateHandler.LockedTeams).Methods(http.MethodGet)
	api.HandleFunc("/game-statuses", gateHandler.GameStatuses).Methods(http.MethodGet)

	// Admin routes
	admin := api.NewRoute().Subrouter()
	admin.Use(adminMiddleware)
	admin.HandleFunc("/season/init", seasonHandler.Init).Methods(http.MethodPost)
	admin.HandleFunc("/season/reset", seasonHandler.Reset).Methods(http.MethodPost)
	admin.HandleFunc("/ingest/games/{gameId}", ingestHandler.Game).Methods(http.MethodPost)
	admin.HandleFunc("/ingest/range", ingestHandler.Range).Methods(http.MethodPost)
	admin.HandleFunc("/rosters/import", ingestHandler.Rosters).Methods(http.MethodPost)
	admin.HandleFunc("/injuries/update", ingestHandler.Injuries).Methods(http.MethodPost)
	admin.HandleFunc("/standings/recompute", standingsHandler.Recompute).Methods(http.MethodPost)
	admin.HandleFunc("/scores/live", standingsHandler.LiveScores).Methods(http.MethodPost)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

package rest

import (
	"net/http"

	"github.com/tracklight/tracklight-backend/internal/transport/middleware"
)

// Routes describes the handlers and per-route guards mounted on the mux.
// AgentGuard protects the ingestion endpoint; UIGuard protects the UI
// endpoints and is nil when token auth is disabled.
type Routes struct {
	Health   *HealthHandler
	Agent    *AgentHandler
	Timeline *TimelineHandler
	Rules    *RulesHandler
	Export   *ExportHandler

	AgentGuard middleware.Middleware
	UIGuard    middleware.Middleware
}

// NewMux builds the HTTP mux with all routes mounted.
func NewMux(rt Routes) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", rt.Health.Ping)
	mux.HandleFunc("GET /ready", rt.Health.Ready)
	mux.HandleFunc("GET /health", rt.Health.Health)

	mux.Handle("POST /api/raw-events/", guard(rt.AgentGuard, http.HandlerFunc(rt.Agent.RawEvents)))

	ui := rt.UIGuard
	mux.Handle("GET /api/blocks/today/", guard(ui, http.HandlerFunc(rt.Timeline.BlocksToday)))
	mux.Handle("GET /api/suggestions/today/", guard(ui, http.HandlerFunc(rt.Timeline.SuggestionsToday)))
	mux.Handle("POST /api/blocks/label/", guard(ui, http.HandlerFunc(rt.Timeline.LabelBlock)))
	mux.Handle("GET /api/rules/", guard(ui, http.HandlerFunc(rt.Rules.List)))
	mux.Handle("POST /api/rules/", guard(ui, http.HandlerFunc(rt.Rules.Create)))
	mux.Handle("POST /api/rules/{id}/active/", guard(ui, http.HandlerFunc(rt.Rules.SetActive)))
	mux.Handle("GET /export/csv", guard(ui, http.HandlerFunc(rt.Export.CSV)))

	return mux
}

func guard(mw middleware.Middleware, h http.Handler) http.Handler {
	if mw == nil {
		return h
	}
	return mw(h)
}

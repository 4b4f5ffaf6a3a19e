package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tracklight/tracklight-backend/internal/domain"
	"github.com/tracklight/tracklight-backend/internal/service/rulebook"
)

// rulebookService defines the minimal interface needed by RulesHandler.
type rulebookService interface {
	CreateRule(ctx context.Context, input rulebook.CreateRuleInput) (*domain.Rule, error)
	ListRules(ctx context.Context) ([]domain.Rule, error)
	SetRuleActive(ctx context.Context, id uuid.UUID, active bool) error
}

// RulesHandler serves the rule management endpoints.
type RulesHandler struct {
	svc rulebookService
	log *slog.Logger
}

// NewRulesHandler creates a RulesHandler.
func NewRulesHandler(svc rulebookService, logger *slog.Logger) *RulesHandler {
	return &RulesHandler{svc: svc, log: logger.With("handler", "rules")}
}

type ruleResponse struct {
	ID        string    `json:"id"`
	Pattern   string    `json:"pattern"`
	Kind      string    `json:"kind"`
	Field     string    `json:"field"`
	ValueText string    `json:"value_text"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type createRuleBody struct {
	Pattern   string `json:"pattern"`
	Kind      string `json:"kind"`
	Field     string `json:"field"`
	ValueText string `json:"value_text"`
	Active    *bool  `json:"active"`
}

// List handles GET /api/rules/.
func (h *RulesHandler) List(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.ListRules(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]ruleResponse, 0, len(rules))
	for i := range rules {
		out = append(out, toRuleResponse(&rules[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /api/rules/.
func (h *RulesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRuleBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rule, err := h.svc.CreateRule(r.Context(), rulebook.CreateRuleInput{
		Pattern:   req.Pattern,
		Kind:      domain.MatchKind(req.Kind),
		Field:     domain.LabelField(req.Field),
		ValueText: req.ValueText,
		Active:    req.Active,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRuleResponse(rule))
}

type setActiveBody struct {
	Active bool `json:"active"`
}

// SetActive handles POST /api/rules/{id}/active/.
func (h *RulesHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "rule id must be a UUID")
		return
	}

	var req setActiveBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.svc.SetRuleActive(r.Context(), id, req.Active); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func toRuleResponse(rule *domain.Rule) ruleResponse {
	return ruleResponse{
		ID:        rule.ID.String(),
		Pattern:   rule.Pattern,
		Kind:      string(rule.Kind),
		Field:     string(rule.Field),
		ValueText: rule.ValueText,
		Active:    rule.Active,
		CreatedAt: rule.CreatedAt,
	}
}

package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tracklight/tracklight-backend/internal/domain"
	timelinesvc "github.com/tracklight/tracklight-backend/internal/service/timeline"
)

// timelineService defines the minimal interface needed by TimelineHandler.
type timelineService interface {
	BlocksForDay(ctx context.Context, scope domain.Scope, day time.Time) ([]domain.Block, error)
	SuggestionsForDay(ctx context.Context, scope domain.Scope, day time.Time) ([]domain.Suggestion, error)
	LabelBlock(ctx context.Context, input timelinesvc.LabelBlockInput) (*domain.Block, error)
	BlockLabelNames(ctx context.Context, blocks []domain.Block) (timelinesvc.LabelNames, error)
}

// TimelineHandler serves the block and suggestion UI endpoints.
type TimelineHandler struct {
	svc timelineService
	log *slog.Logger
	now func() time.Time
}

// NewTimelineHandler creates a TimelineHandler.
func NewTimelineHandler(svc timelineService, logger *slog.Logger) *TimelineHandler {
	return &TimelineHandler{
		svc: svc,
		log: logger.With("handler", "timeline"),
		now: time.Now,
	}
}

type blockResponse struct {
	ID       string    `json:"id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Minutes  int       `json:"minutes"`
	Title    string    `json:"title"`
	URL      string    `json:"url"`
	FilePath string    `json:"file_path"`
	Client   *string   `json:"client"`
	Project  *string   `json:"project"`
	Task     *string   `json:"task"`
	Notes    string    `json:"notes"`
	Locked   bool      `json:"locked"`
}

type suggestionResponse struct {
	BlockID    string  `json:"block_id"`
	Field      string  `json:"field"`
	ValueText  string  `json:"value_text"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// BlocksToday handles GET /api/blocks/today/. It rebuilds the current day
// for the requested scope (?user=&hostname=) and returns the blocks.
func (h *TimelineHandler) BlocksToday(w http.ResponseWriter, r *http.Request) {
	scope := scopeFromQuery(r)

	blocks, err := h.svc.BlocksForDay(r.Context(), scope, h.now())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	names, err := h.svc.BlockLabelNames(r.Context(), blocks)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]blockResponse, 0, len(blocks))
	for i := range blocks {
		out = append(out, toBlockResponse(&blocks[i], names))
	}

	writeJSON(w, http.StatusOK, out)
}

// SuggestionsToday handles GET /api/suggestions/today/. It rebuilds the
// current day, recomputes rule suggestions and returns them keyed by block.
func (h *TimelineHandler) SuggestionsToday(w http.ResponseWriter, r *http.Request) {
	scope := scopeFromQuery(r)

	suggestions, err := h.svc.SuggestionsForDay(r.Context(), scope, h.now())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]suggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, suggestionResponse{
			BlockID:    s.BlockID.String(),
			Field:      string(s.Field),
			ValueText:  s.ValueText,
			Confidence: s.Confidence,
			Source:     string(s.Source),
		})
	}

	writeJSON(w, http.StatusOK, out)
}

type createRuleRequest struct {
	Pattern   string `json:"pattern"`
	Kind      string `json:"kind"`
	Field     string `json:"field"`
	ValueText string `json:"value_text"`
}

type labelBlockRequest struct {
	BlockID    string             `json:"block_id"`
	Client     *string            `json:"client"`
	Project    *string            `json:"project"`
	Task       *string            `json:"task"`
	Notes      *string            `json:"notes"`
	CreateRule *createRuleRequest `json:"create_rule"`
}

// LabelBlock handles POST /api/blocks/label/. It applies master-data labels
// to a block and optionally derives a rule from the confirmation.
func (h *TimelineHandler) LabelBlock(w http.ResponseWriter, r *http.Request) {
	var req labelBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	blockID, err := uuid.Parse(req.BlockID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "block_id must be a UUID")
		return
	}

	input := timelinesvc.LabelBlockInput{
		BlockID: blockID,
		Client:  req.Client,
		Project: req.Project,
		Task:    req.Task,
		Notes:   req.Notes,
	}
	if req.CreateRule != nil {
		input.CreateRule = &timelinesvc.CreateRuleInput{
			Pattern:   req.CreateRule.Pattern,
			Kind:      domain.MatchKind(req.CreateRule.Kind),
			Field:     domain.LabelField(req.CreateRule.Field),
			ValueText: req.CreateRule.ValueText,
		}
	}

	block, err := h.svc.LabelBlock(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	names, err := h.svc.BlockLabelNames(r.Context(), []domain.Block{*block})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBlockResponse(block, names))
}

func scopeFromQuery(r *http.Request) domain.Scope {
	return domain.Scope{
		User:     r.URL.Query().Get("user"),
		Hostname: r.URL.Query().Get("hostname"),
	}
}

func toBlockResponse(b *domain.Block, names timelinesvc.LabelNames) blockResponse {
	return blockResponse{
		ID:       b.ID.String(),
		Start:    b.Start,
		End:      b.End,
		Minutes:  b.Minutes,
		Title:    b.Title,
		URL:      b.URL,
		FilePath: b.FilePath,
		Client:   optName(names.ClientName(b.ClientID)),
		Project:  optName(names.ProjectName(b.ProjectID)),
		Task:     optName(names.TaskName(b.TaskID)),
		Notes:    b.Notes,
		Locked:   b.Locked,
	}
}

func optName(name string) *string {
	if name == "" {
		return nil
	}
	return &name
}

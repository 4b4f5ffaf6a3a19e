package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tracklight/tracklight-backend/internal/domain"
	timelinesvc "github.com/tracklight/tracklight-backend/internal/service/timeline"
)

type timelineServiceMock struct {
	BlocksForDayFunc      func(ctx context.Context, scope domain.Scope, day time.Time) ([]domain.Block, error)
	SuggestionsForDayFunc func(ctx context.Context, scope domain.Scope, day time.Time) ([]domain.Suggestion, error)
	LabelBlockFunc        func(ctx context.Context, input timelinesvc.LabelBlockInput) (*domain.Block, error)
	BlockLabelNamesFunc   func(ctx context.Context, blocks []domain.Block) (timelinesvc.LabelNames, error)
}

func (m *timelineServiceMock) BlocksForDay(ctx context.Context, scope domain.Scope, day time.Time) ([]domain.Block, error) {
	return m.BlocksForDayFunc(ctx, scope, day)
}

func (m *timelineServiceMock) SuggestionsForDay(ctx context.Context, scope domain.Scope, day time.Time) ([]domain.Suggestion, error) {
	return m.SuggestionsForDayFunc(ctx, scope, day)
}

func (m *timelineServiceMock) LabelBlock(ctx context.Context, input timelinesvc.LabelBlockInput) (*domain.Block, error) {
	return m.LabelBlockFunc(ctx, input)
}

func (m *timelineServiceMock) BlockLabelNames(ctx context.Context, blocks []domain.Block) (timelinesvc.LabelNames, error) {
	if m.BlockLabelNamesFunc != nil {
		return m.BlockLabelNamesFunc(ctx, blocks)
	}
	return timelinesvc.LabelNames{}, nil
}

func TestBlocksToday_ReturnsBlocks(t *testing.T) {
	t.Parallel()

	clientID := uuid.New()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	var gotScope domain.Scope
	svc := &timelineServiceMock{
		BlocksForDayFunc: func(_ context.Context, scope domain.Scope, _ time.Time) ([]domain.Block, error) {
			gotScope = scope
			return []domain.Block{
				{
					ID:       uuid.New(),
					User:     "alice",
					Hostname: "mbp",
					Start:    start,
					End:      start.Add(30 * time.Minute),
					Minutes:  30,
					Title:    "github.com",
					ClientID: &clientID,
				},
			}, nil
		},
		BlockLabelNamesFunc: func(_ context.Context, _ []domain.Block) (timelinesvc.LabelNames, error) {
			return timelinesvc.LabelNames{
				Clients: map[uuid.UUID]string{clientID: "Acme"},
			}, nil
		},
	}
	h := NewTimelineHandler(svc, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/blocks/today/?user=alice&hostname=mbp", nil)
	rec := httptest.NewRecorder()

	h.BlocksToday(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotScope.User != "alice" || gotScope.Hostname != "mbp" {
		t.Errorf("unexpected scope: %+v", gotScope)
	}

	var resp []blockResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("expected 1 block, got %d", len(resp))
	}
	if resp[0].Title != "github.com" || resp[0].Minutes != 30 {
		t.Errorf("unexpected block: %+v", resp[0])
	}
	if resp[0].Client == nil || *resp[0].Client != "Acme" {
		t.Errorf("expected client 'Acme', got %v", resp[0].Client)
	}
	if resp[0].Project != nil {
		t.Errorf("expected null project, got %v", *resp[0].Project)
	}
}

func TestBlocksToday_EmptyDayIsEmptyArray(t *testing.T) {
	t.Parallel()

	svc := &timelineServiceMock{
		BlocksForDayFunc: func(_ context.Context, _ domain.Scope, _ time.Time) ([]domain.Block, error) {
			return []domain.Block{}, nil
		},
	}
	h := NewTimelineHandler(svc, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/blocks/today/", nil)
	rec := httptest.NewRecorder()

	h.BlocksToday(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected empty JSON array, got %q", body)
	}
}

func TestSuggestionsToday_ReturnsSuggestions(t *testing.T) {
	t.Parallel()

	blockID := uuid.New()
	svc := &timelineServiceMock{
		SuggestionsForDayFunc: func(_ context.Context, _ domain.Scope, _ time.Time) ([]domain.Suggestion, error) {
			return []domain.Suggestion{
				{
					BlockID:    blockID,
					Field:      domain.LabelFieldClient,
					ValueText:  "Acme",
					Confidence: 0.85,
					Source:     domain.SuggestionSourceRule,
				},
			}, nil
		},
	}
	h := NewTimelineHandler(svc, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/suggestions/today/", nil)
	rec := httptest.NewRecorder()

	h.SuggestionsToday(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp []suggestionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(resp))
	}
	if resp[0].BlockID != blockID.String() || resp[0].Field != "client" || resp[0].Confidence != 0.85 {
		t.Errorf("unexpected suggestion: %+v", resp[0])
	}
}

func TestLabelBlock_AppliesLabels(t *testing.T) {
	t.Parallel()

	blockID := uuid.New()
	clientID := uuid.New()

	var gotInput timelinesvc.LabelBlockInput
	svc := &timelineServiceMock{
		LabelBlockFunc: func(_ context.Context, input timelinesvc.LabelBlockInput) (*domain.Block, error) {
			gotInput = input
			return &domain.Block{ID: blockID, ClientID: &clientID, Locked: true}, nil
		},
		BlockLabelNamesFunc: func(_ context.Context, _ []domain.Block) (timelinesvc.LabelNames, error) {
			return timelinesvc.LabelNames{Clients: map[uuid.UUID]string{clientID: "Acme"}}, nil
		},
	}
	h := NewTimelineHandler(svc, discardLogger())

	body := `{"block_id":"` + blockID.String() + `","client":"Acme","notes":"standup"}`
	req := httptest.NewRequest(http.MethodPost, "/api/blocks/label/", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.LabelBlock(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotInput.BlockID != blockID {
		t.Errorf("expected block id %s, got %s", blockID, gotInput.BlockID)
	}
	if gotInput.Client == nil || *gotInput.Client != "Acme" {
		t.Errorf("expected client 'Acme', got %v", gotInput.Client)
	}
	if gotInput.Notes == nil || *gotInput.Notes != "standup" {
		t.Errorf("expected notes 'standup', got %v", gotInput.Notes)
	}
	if gotInput.CreateRule != nil {
		t.Errorf("expected no create_rule, got %+v", gotInput.CreateRule)
	}

	var resp blockResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Locked {
		t.Error("expected labeled block to be locked")
	}
	if resp.Client == nil || *resp.Client != "Acme" {
		t.Errorf("expected client 'Acme', got %v", resp.Client)
	}
}

func TestLabelBlock_ForwardsCreateRule(t *testing.T) {
	t.Parallel()

	blockID := uuid.New()
	var gotInput timelinesvc.LabelBlockInput
	svc := &timelineServiceMock{
		LabelBlockFunc: func(_ context.Context, input timelinesvc.LabelBlockInput) (*domain.Block, error) {
			gotInput = input
			return &domain.Block{ID: blockID, Locked: true}, nil
		},
	}
	h := NewTimelineHandler(svc, discardLogger())

	body := `{"block_id":"` + blockID.String() + `","client":"Acme","create_rule":{"kind":"contains","field":"client","value_text":"Acme"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/blocks/label/", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.LabelBlock(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotInput.CreateRule == nil {
		t.Fatal("expected create_rule to be forwarded")
	}
	if gotInput.CreateRule.Field != domain.LabelFieldClient || gotInput.CreateRule.ValueText != "Acme" {
		t.Errorf("unexpected create_rule: %+v", gotInput.CreateRule)
	}
}

func TestLabelBlock_InvalidBlockID(t *testing.T) {
	t.Parallel()

	svc := &timelineServiceMock{
		LabelBlockFunc: func(_ context.Context, _ timelinesvc.LabelBlockInput) (*domain.Block, error) {
			t.Error("service should not be called for an invalid block id")
			return nil, nil
		},
	}
	h := NewTimelineHandler(svc, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/blocks/label/", strings.NewReader(`{"block_id":"not-a-uuid"}`))
	rec := httptest.NewRecorder()

	h.LabelBlock(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestLabelBlock_NotFound(t *testing.T) {
	t.Parallel()

	svc := &timelineServiceMock{
		LabelBlockFunc: func(_ context.Context, _ timelinesvc.LabelBlockInput) (*domain.Block, error) {
			return nil, domain.ErrNotFound
		},
	}
	h := NewTimelineHandler(svc, discardLogger())

	body := `{"block_id":"` + uuid.New().String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/blocks/label/", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.LabelBlock(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestLabelBlock_UnknownMasterDataName(t *testing.T) {
	t.Parallel()

	svc := &timelineServiceMock{
		LabelBlockFunc: func(_ context.Context, _ timelinesvc.LabelBlockInput) (*domain.Block, error) {
			return nil, domain.NewLookupError("client", "Nonexistent")
		},
	}
	h := NewTimelineHandler(svc, discardLogger())

	body := `{"block_id":"` + uuid.New().String() + `","client":"Nonexistent"}`
	req := httptest.NewRequest(http.MethodPost, "/api/blocks/label/", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.LabelBlock(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
}

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tracklight/tracklight-backend/internal/service/ingest"
)

type ingestServiceMock struct {
	IngestFunc func(ctx context.Context, input ingest.IngestInput) (int, error)
}

func (m *ingestServiceMock) Ingest(ctx context.Context, input ingest.IngestInput) (int, error) {
	return m.IngestFunc(ctx, input)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRawEvents_SingleObject(t *testing.T) {
	t.Parallel()

	var got ingest.IngestInput
	svc := &ingestServiceMock{
		IngestFunc: func(_ context.Context, input ingest.IngestInput) (int, error) {
			got = input
			return len(input.Events), nil
		},
	}
	h := NewAgentHandler(svc, discardLogger())

	body := `{"ts_utc":"2025-03-10T09:00:00Z","app_name":"Safari","url":"https://example.com/x","user":"alice","hostname":"mbp"}`
	req := httptest.NewRequest(http.MethodPost, "/api/raw-events/", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.RawEvents(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(got.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got.Events))
	}
	if got.Events[0].AppName != "Safari" || got.Events[0].User != "alice" {
		t.Errorf("unexpected event: %+v", got.Events[0])
	}

	var resp ingestResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Created != 1 {
		t.Errorf("expected created 1, got %d", resp.Created)
	}
}

func TestRawEvents_Array(t *testing.T) {
	t.Parallel()

	svc := &ingestServiceMock{
		IngestFunc: func(_ context.Context, input ingest.IngestInput) (int, error) {
			return len(input.Events), nil
		},
	}
	h := NewAgentHandler(svc, discardLogger())

	body := `[{"ts_utc":"2025-03-10T09:00:00Z"},{"ts_utc":"2025-03-10T09:00:30Z"}]`
	req := httptest.NewRequest(http.MethodPost, "/api/raw-events/", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.RawEvents(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ingestResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Created != 2 {
		t.Errorf("expected created 2, got %d", resp.Created)
	}
}

func TestRawEvents_MalformedJSON(t *testing.T) {
	t.Parallel()

	svc := &ingestServiceMock{
		IngestFunc: func(_ context.Context, _ ingest.IngestInput) (int, error) {
			t.Error("service should not be called for malformed JSON")
			return 0, nil
		},
	}
	h := NewAgentHandler(svc, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/raw-events/", strings.NewReader(`{"ts_utc":`))
	rec := httptest.NewRecorder()

	h.RawEvents(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRawEvents_ValidationError(t *testing.T) {
	t.Parallel()

	svc := &ingestServiceMock{
		IngestFunc: func(_ context.Context, input ingest.IngestInput) (int, error) {
			if err := input.Validate(); err != nil {
				return 0, err
			}
			return len(input.Events), nil
		},
	}
	h := NewAgentHandler(svc, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/raw-events/", strings.NewReader(`{"app_name":"Safari"}`))
	rec := httptest.NewRecorder()

	h.RawEvents(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Fields) == 0 {
		t.Error("expected field errors in response")
	}
}

func TestRawEvents_ServiceError(t *testing.T) {
	t.Parallel()

	svc := &ingestServiceMock{
		IngestFunc: func(_ context.Context, _ ingest.IngestInput) (int, error) {
			return 0, errors.New("db down")
		},
	}
	h := NewAgentHandler(svc, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/raw-events/", strings.NewReader(`{"ts_utc":"2025-03-10T09:00:00Z"}`))
	rec := httptest.NewRecorder()

	h.RawEvents(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/tracklight/tracklight-backend/internal/service/ingest"
)

// maxIngestBody bounds an agent payload to keep decoding cheap.
const maxIngestBody = 4 << 20

// ingestService defines the minimal interface needed by AgentHandler.
type ingestService interface {
	Ingest(ctx context.Context, input ingest.IngestInput) (int, error)
}

// AgentHandler serves the agent ingestion endpoint.
type AgentHandler struct {
	svc ingestService
	log *slog.Logger
}

// NewAgentHandler creates an AgentHandler.
func NewAgentHandler(svc ingestService, logger *slog.Logger) *AgentHandler {
	return &AgentHandler{svc: svc, log: logger.With("handler", "agent")}
}

type rawEventRequest struct {
	TsUTC       string `json:"ts_utc"`
	AppName     string `json:"app_name"`
	BundleID    string `json:"bundle_id"`
	WindowTitle string `json:"window_title"`
	URL         string `json:"url"`
	FilePath    string `json:"file_path"`
	User        string `json:"user"`
	Hostname    string `json:"hostname"`
}

type ingestResponse struct {
	Created int `json:"created"`
}

// RawEvents handles POST /api/raw-events/. The body is either a single
// event object or an array of them.
func (h *AgentHandler) RawEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxIngestBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}

	events, err := decodeEvents(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "payload must be an event object or an array of event objects")
		return
	}

	input := ingest.IngestInput{Events: make([]ingest.EventInput, 0, len(events))}
	for _, ev := range events {
		input.Events = append(input.Events, ingest.EventInput{
			TsUTC:       ev.TsUTC,
			AppName:     ev.AppName,
			BundleID:    ev.BundleID,
			WindowTitle: ev.WindowTitle,
			URL:         ev.URL,
			FilePath:    ev.FilePath,
			User:        ev.User,
			Hostname:    ev.Hostname,
		})
	}

	created, err := h.svc.Ingest(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, ingestResponse{Created: created})
}

func decodeEvents(body []byte) ([]rawEventRequest, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var events []rawEventRequest
		if err := json.Unmarshal(trimmed, &events); err != nil {
			return nil, err
		}
		return events, nil
	}

	var single rawEventRequest
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, err
	}
	return []rawEventRequest{single}, nil
}

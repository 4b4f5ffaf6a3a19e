package ingest

import (
	"fmt"
	"time"

	"github.com/tracklight/tracklight-backend/internal/domain"
)

// maxBatchSize bounds a single agent payload.
const maxBatchSize = 1000

// EventInput holds one raw event as sent by the agent. TsUTC is an RFC3339
// timestamp; every other field is optional and defaults to empty.
type EventInput struct {
	TsUTC       string
	AppName     string
	BundleID    string
	WindowTitle string
	URL         string
	FilePath    string
	User        string
	Hostname    string
}

// IngestInput holds the parameters for storing a batch of raw events.
type IngestInput struct {
	Events []EventInput
}

// Validate checks all fields and collects all errors.
func (i *IngestInput) Validate() error {
	var errs []domain.FieldError

	if len(i.Events) == 0 {
		errs = append(errs, domain.FieldError{Field: "events", Message: "required"})
	}
	if len(i.Events) > maxBatchSize {
		errs = append(errs, domain.FieldError{Field: "events", Message: fmt.Sprintf("too many (max %d)", maxBatchSize)})
	}

	for idx, ev := range i.Events {
		if ev.TsUTC == "" {
			errs = append(errs, domain.FieldError{Field: fieldIndex("events", idx, "ts_utc"), Message: "required"})
			continue
		}
		if _, err := time.Parse(time.RFC3339, ev.TsUTC); err != nil {
			errs = append(errs, domain.FieldError{Field: fieldIndex("events", idx, "ts_utc"), Message: "must be RFC3339"})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// toDomain converts validated inputs to domain events. Must only be called
// after Validate succeeded.
func (i *IngestInput) toDomain() []domain.RawEvent {
	events := make([]domain.RawEvent, 0, len(i.Events))
	for _, ev := range i.Events {
		ts, _ := time.Parse(time.RFC3339, ev.TsUTC)
		events = append(events, domain.RawEvent{
			TsUTC:       ts.UTC(),
			AppName:     ev.AppName,
			BundleID:    ev.BundleID,
			WindowTitle: ev.WindowTitle,
			URL:         ev.URL,
			FilePath:    ev.FilePath,
			User:        ev.User,
			Hostname:    ev.Hostname,
		})
	}
	return events
}

func fieldIndex(field string, idx int, sub string) string {
	return fmt.Sprintf("%s[%d].%s", field, idx, sub)
}

package timeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tracklight/tracklight-backend/internal/domain"
	"github.com/tracklight/tracklight-backend/internal/timeline"
)

// csvTimeFormat renders block bounds in the configured local zone.
const csvTimeFormat = "2006-01-02 15:04"

var csvHeader = []string{"start", "end", "minutes", "title", "url", "file_path", "client", "project", "task", "notes"}

// ---------------------------------------------------------------------------
// 4. ExportDayCSV
// ---------------------------------------------------------------------------

// ExportDayCSV writes the scope's day as CSV, one row per block in start
// order. It exports the stored timeline without rebuilding, so a freshly
// labeled day round-trips unchanged. Master-data references are resolved to
// names; newlines inside text fields are flattened to spaces.
func (s *Service) ExportDayCSV(ctx context.Context, scope domain.Scope, day time.Time, w io.Writer) error {
	scope.OrgID = s.orgID

	from, to := timeline.DayWindow(day, s.loc)

	blocks, err := s.blocks.ListDay(ctx, scope, from, to)
	if err != nil {
		return fmt.Errorf("list day: %w", err)
	}

	names, err := s.BlockLabelNames(ctx, blocks)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i := range blocks {
		b := &blocks[i]
		row := []string{
			b.Start.In(s.loc).Format(csvTimeFormat),
			b.End.In(s.loc).Format(csvTimeFormat),
			strconv.Itoa(b.Minutes),
			flatten(b.Title),
			flatten(b.URL),
			flatten(b.FilePath),
			names.ClientName(b.ClientID),
			names.ProjectName(b.ProjectID),
			names.TaskName(b.TaskID),
			flatten(b.Notes),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return nil
}

// flatten replaces newlines with spaces so every block stays on one CSV row
// even in naive consumers that split on line breaks.
func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

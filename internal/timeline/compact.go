package timeline

import (
	"time"

	"github.com/tracklight/tracklight-backend/internal/domain"
)

// Params controls block merging and duration rounding.
type Params struct {
	// GapThreshold is the maximum idle time between two same-label events
	// for them to remain in one block.
	GapThreshold time.Duration
	// MinMinutes is the floor applied to every block's duration.
	MinMinutes int
	// GranularityMinutes is the rounding unit: durations are rounded up to
	// the next multiple.
	GranularityMinutes int
}

// DefaultParams returns the system defaults: 10 minute gap, 6 minute floor,
// 6 minute granularity.
func DefaultParams() Params {
	return Params{
		GapThreshold:       10 * time.Minute,
		MinMinutes:         6,
		GranularityMinutes: 6,
	}
}

// interval is an open block under construction. Representative metadata is
// frozen when the interval opens and never changes while it extends.
type interval struct {
	start, end time.Time
	title      string
	url        string
	filePath   string
	user       string
	hostname   string
}

// Compact merges a time-ordered event sequence into blocks. It is a pure
// function of the ordered input and the params: the same input always yields
// the same block sequence, which is what makes destructive rebuilds safe.
//
// An event extends the current interval iff its gap to the interval end is
// within GapThreshold AND its label matches; otherwise the interval is
// finalized and a new one opens at the event.
func Compact(events []domain.RawEvent, p Params) []domain.Block {
	var blocks []domain.Block
	var cur *interval

	for _, ev := range events {
		lbl := Label(ev)

		if cur == nil {
			cur = openInterval(ev, lbl)
			continue
		}

		gap := ev.TsUTC.Sub(cur.end)
		if gap <= p.GapThreshold && lbl == cur.title {
			cur.end = ev.TsUTC
			continue
		}

		blocks = append(blocks, finalize(cur, p))
		cur = openInterval(ev, lbl)
	}

	if cur != nil {
		blocks = append(blocks, finalize(cur, p))
	}

	return blocks
}

func openInterval(ev domain.RawEvent, label string) *interval {
	user := ev.User
	if user == "" {
		user = domain.DefaultUser
	}
	hostname := ev.Hostname
	if hostname == "" {
		hostname = domain.DefaultHostname
	}

	return &interval{
		start:    ev.TsUTC,
		end:      ev.TsUTC,
		title:    label,
		url:      ev.URL,
		filePath: ev.FilePath,
		user:     user,
		hostname: hostname,
	}
}

// finalize closes an interval into a Block. Duration policy: whole minutes
// floored, rounded up to the granularity multiple, clamped to the minimum.
func finalize(cur *interval, p Params) domain.Block {
	minutes := int(cur.end.Sub(cur.start) / time.Minute)
	minutes = roundUpMinutes(minutes, p.GranularityMinutes)
	if minutes < p.MinMinutes {
		minutes = p.MinMinutes
	}

	return domain.Block{
		User:     cur.user,
		Hostname: cur.hostname,
		Start:    cur.start,
		End:      cur.end,
		Minutes:  minutes,
		Title:    cur.title,
		URL:      cur.url,
		FilePath: cur.filePath,
	}
}

func roundUpMinutes(n, granularity int) int {
	if granularity <= 0 || n%granularity == 0 {
		return n
	}
	return n + (granularity - n%granularity)
}

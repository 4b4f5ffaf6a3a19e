package timeline

import (
	"reflect"
	"testing"
	"time"

	"github.com/tracklight/tracklight-backend/internal/domain"
)

func at(base time.Time, min int) time.Time {
	return base.Add(time.Duration(min) * time.Minute)
}

func urlEvent(ts time.Time, rawURL string) domain.RawEvent {
	return domain.RawEvent{TsUTC: ts, URL: rawURL, User: "dan", Hostname: "mbp"}
}

func appEvent(ts time.Time, app, title string) domain.RawEvent {
	return domain.RawEvent{TsUTC: ts, AppName: app, WindowTitle: title, User: "dan", Hostname: "mbp"}
}

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func TestCompact_Empty(t *testing.T) {
	if got := Compact(nil, DefaultParams()); got != nil {
		t.Errorf("Compact(nil) = %v, want nil", got)
	}
}

func TestCompact_SingleEventBlock(t *testing.T) {
	blocks := Compact([]domain.RawEvent{urlEvent(base, "https://github.com/org/repo")}, DefaultParams())

	if len(blocks) != 1 {
		t.Fatalf("blocks: got %d, want 1", len(blocks))
	}
	b := blocks[0]
	if !b.Start.Equal(base) || !b.End.Equal(base) {
		t.Errorf("span: got [%v, %v], want [base, base]", b.Start, b.End)
	}
	if b.Minutes != 6 {
		t.Errorf("zero-length block minutes: got %d, want floor 6", b.Minutes)
	}
	if b.Title != "github.com" {
		t.Errorf("title: got %q, want %q", b.Title, "github.com")
	}
}

func TestCompact_GapSplitsSameLabel(t *testing.T) {
	// Same label throughout, but the 15 minute gap between t=5 and t=20
	// exceeds the 10 minute threshold, so a new block must start at t=20.
	events := []domain.RawEvent{
		urlEvent(at(base, 0), "https://github.com/org/repo"),
		urlEvent(at(base, 5), "https://github.com/org/repo"),
		urlEvent(at(base, 20), "https://github.com/org/repo"),
	}

	blocks := Compact(events, DefaultParams())
	if len(blocks) != 2 {
		t.Fatalf("blocks: got %d, want 2", len(blocks))
	}

	if !blocks[0].Start.Equal(at(base, 0)) || !blocks[0].End.Equal(at(base, 5)) {
		t.Errorf("block 0 span: got [%v, %v]", blocks[0].Start, blocks[0].End)
	}
	if !blocks[1].Start.Equal(at(base, 20)) || !blocks[1].End.Equal(at(base, 20)) {
		t.Errorf("block 1 span: got [%v, %v]", blocks[1].Start, blocks[1].End)
	}
}

func TestCompact_LabelChangeSplitsRegardlessOfGap(t *testing.T) {
	events := []domain.RawEvent{
		appEvent(at(base, 0), "Terminal", ""),
		appEvent(at(base, 1), "Xcode", ""),
	}

	blocks := Compact(events, DefaultParams())
	if len(blocks) != 2 {
		t.Fatalf("blocks: got %d, want 2", len(blocks))
	}
	if blocks[0].Title != "Terminal" || blocks[1].Title != "Xcode" {
		t.Errorf("titles: got %q, %q", blocks[0].Title, blocks[1].Title)
	}
}

func TestCompact_DurationFloorAndRounding(t *testing.T) {
	p := DefaultParams()

	cases := []struct {
		name     string
		spanMin  int
		wantMins int
	}{
		{"zero span clamps to floor", 0, 6},
		{"under floor clamps", 4, 6},
		{"exact multiple kept", 6, 6},
		{"rounds up to next multiple", 7, 12},
		{"floor on raw minutes then round", 8, 12},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events := []domain.RawEvent{
				urlEvent(at(base, 0), "https://github.com/org/repo"),
				urlEvent(at(base, tc.spanMin), "https://github.com/org/repo"),
			}
			blocks := Compact(events, p)
			if len(blocks) != 1 {
				t.Fatalf("blocks: got %d, want 1", len(blocks))
			}
			if blocks[0].Minutes != tc.wantMins {
				t.Errorf("minutes: got %d, want %d", blocks[0].Minutes, tc.wantMins)
			}
			if blocks[0].Minutes < p.MinMinutes {
				t.Errorf("minutes %d below floor %d", blocks[0].Minutes, p.MinMinutes)
			}
			if blocks[0].Minutes%p.GranularityMinutes != 0 {
				t.Errorf("minutes %d not a multiple of %d", blocks[0].Minutes, p.GranularityMinutes)
			}
		})
	}
}

func TestCompact_RepresentativeMetadataFrozen(t *testing.T) {
	// Both events share the label "docs.google.com" but carry different
	// URLs; the block keeps the first event's metadata.
	events := []domain.RawEvent{
		urlEvent(at(base, 0), "https://docs.google.com/first"),
		urlEvent(at(base, 4), "https://docs.google.com/second"),
	}

	blocks := Compact(events, DefaultParams())
	if len(blocks) != 1 {
		t.Fatalf("blocks: got %d, want 1", len(blocks))
	}
	if blocks[0].URL != "https://docs.google.com/first" {
		t.Errorf("representative url: got %q", blocks[0].URL)
	}
}

func TestCompact_Deterministic(t *testing.T) {
	events := []domain.RawEvent{
		urlEvent(at(base, 0), "https://docs.google.com/x"),
		urlEvent(at(base, 4), "https://docs.google.com/x"),
		appEvent(at(base, 20), "Slack", "#general"),
		domain.RawEvent{TsUTC: at(base, 23), FilePath: "/Users/dan/report.pdf"},
	}

	first := Compact(events, DefaultParams())
	second := Compact(events, DefaultParams())
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over the same input produced different blocks")
	}
}

func TestCompact_BlocksSortedAndNonOverlapping(t *testing.T) {
	events := []domain.RawEvent{
		urlEvent(at(base, 0), "https://github.com/a"),
		urlEvent(at(base, 5), "https://github.com/a"),
		appEvent(at(base, 30), "Slack", "#general"),
		appEvent(at(base, 33), "Slack", "#general"),
		urlEvent(at(base, 60), "https://github.com/a"),
	}

	blocks := Compact(events, DefaultParams())
	for i := 1; i < len(blocks); i++ {
		if blocks[i].Start.Before(blocks[i-1].Start) {
			t.Errorf("blocks not sorted by start at index %d", i)
		}
		if blocks[i-1].Overlaps(&blocks[i]) {
			t.Errorf("blocks %d and %d overlap", i-1, i)
		}
	}
}

func TestCompact_DocsThenSlackScenario(t *testing.T) {
	events := []domain.RawEvent{
		urlEvent(at(base, 0), "https://docs.google.com/x"),
		urlEvent(at(base, 4), "https://docs.google.com/x"),
		appEvent(at(base, 20), "Slack", "#general"),
	}

	blocks := Compact(events, DefaultParams())
	if len(blocks) != 2 {
		t.Fatalf("blocks: got %d, want 2", len(blocks))
	}

	b1, b2 := blocks[0], blocks[1]
	if b1.Title != "docs.google.com" || b1.Minutes != 6 {
		t.Errorf("block 1: got title %q minutes %d, want docs.google.com / 6", b1.Title, b1.Minutes)
	}
	if !b1.Start.Equal(at(base, 0)) || !b1.End.Equal(at(base, 4)) {
		t.Errorf("block 1 span: got [%v, %v]", b1.Start, b1.End)
	}
	if b2.Title != "#general" || b2.Minutes != 6 {
		t.Errorf("block 2: got title %q minutes %d, want #general / 6", b2.Title, b2.Minutes)
	}
	if !b2.Start.Equal(at(base, 20)) {
		t.Errorf("block 2 start: got %v, want %v", b2.Start, at(base, 20))
	}
}

func TestCompact_DefaultIdentity(t *testing.T) {
	blocks := Compact([]domain.RawEvent{{TsUTC: base, AppName: "Preview"}}, DefaultParams())
	if len(blocks) != 1 {
		t.Fatalf("blocks: got %d, want 1", len(blocks))
	}
	if blocks[0].User != domain.DefaultUser || blocks[0].Hostname != domain.DefaultHostname {
		t.Errorf("identity defaults: got %q/%q", blocks[0].User, blocks[0].Hostname)
	}
}

package timeline

import (
	"strings"
	"testing"

	"github.com/tracklight/tracklight-backend/internal/domain"
)

func TestLabel_Priority(t *testing.T) {
	cases := []struct {
		name string
		ev   domain.RawEvent
		want string
	}{
		{
			name: "url host wins over everything",
			ev: domain.RawEvent{
				URL:         "https://github.com/org/repo",
				FilePath:    "/Users/x/doc.pdf",
				WindowTitle: "repo — GitHub",
				AppName:     "Safari",
			},
			want: "github.com",
		},
		{
			name: "url with port strips port",
			ev:   domain.RawEvent{URL: "http://localhost:8080/admin"},
			want: "localhost",
		},
		{
			name: "hostless url falls through to file path",
			ev:   domain.RawEvent{URL: "docs.google.com/x", FilePath: "/tmp/notes.md"},
			want: "notes.md",
		},
		{
			name: "file basename",
			ev:   domain.RawEvent{FilePath: "/Users/x/doc.pdf", WindowTitle: "doc.pdf"},
			want: "doc.pdf",
		},
		{
			name: "trailing separators stripped",
			ev:   domain.RawEvent{FilePath: "/Users/x/projects/"},
			want: "projects",
		},
		{
			name: "window title",
			ev:   domain.RawEvent{WindowTitle: "#general", AppName: "Slack"},
			want: "#general",
		},
		{
			name: "app name",
			ev:   domain.RawEvent{AppName: "Xcode"},
			want: "Xcode",
		},
		{
			name: "no signal at all",
			ev:   domain.RawEvent{},
			want: "Unknown",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Label(tc.ev); got != tc.want {
				t.Errorf("Label() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLabel_TitleTruncatedTo80(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := Label(domain.RawEvent{WindowTitle: long})
	if len(got) != 80 {
		t.Errorf("truncated title length: got %d, want 80", len(got))
	}

	short := Label(domain.RawEvent{WindowTitle: "short title"})
	if short != "short title" {
		t.Errorf("short title mangled: got %q", short)
	}
}

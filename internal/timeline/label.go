// Package timeline contains the pure compaction core: deriving a label from
// a raw event and merging ordered events into contiguous activity blocks.
package timeline

import (
	"net/url"
	"strings"

	"github.com/tracklight/tracklight-backend/internal/domain"
)

// maxTitleLen caps window titles used as labels.
const maxTitleLen = 80

// UnknownLabel is returned when an event carries no usable signal.
const UnknownLabel = "Unknown"

// Label derives a human-readable label from one raw event. It is total and
// never fails. Priority: URL host, file basename, window title, app name.
// URLs are the most specific discriminator for browser-heavy work; file
// basenames identify documents; titles and app names are coarser fallbacks.
func Label(ev domain.RawEvent) string {
	if ev.URL != "" {
		if u, err := url.Parse(ev.URL); err == nil {
			if host := u.Hostname(); host != "" {
				return host
			}
		}
	}

	if ev.FilePath != "" {
		return basename(ev.FilePath)
	}

	if ev.WindowTitle != "" {
		return truncate(ev.WindowTitle, maxTitleLen)
	}

	if ev.AppName != "" {
		return ev.AppName
	}

	return UnknownLabel
}

// basename returns the final path segment with trailing separators stripped.
func basename(p string) string {
	trimmed := strings.TrimRight(p, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

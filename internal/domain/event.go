package domain

import "time"

// Defaults applied when the agent did not report an identity.
const (
	DefaultUser     = "unknown-user"
	DefaultHostname = "unknown-host"
)

// RawEvent is one desktop-activity sample reported by the agent.
// All fields except TsUTC are optional; an empty string means "not observed".
// Events are immutable once stored and ordered by (TsUTC, ID).
type RawEvent struct {
	ID          int64
	TsUTC       time.Time
	AppName     string
	BundleID    string
	WindowTitle string
	URL         string
	FilePath    string
	User        string
	Hostname    string
}

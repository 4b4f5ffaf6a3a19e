package domain

import (
	"time"

	"github.com/google/uuid"
)

// Scope identifies the (user, host) pair a rebuild operates on.
// OrgID is present only when org scoping is enabled in configuration.
type Scope struct {
	User     string
	Hostname string
	OrgID    *uuid.UUID
}

// Block is a contiguous span of activity attributed to one label.
// Title, URL and FilePath carry the representative metadata of the first
// event in the span. Client/Project/Task are human-confirmed classification
// references into master data.
type Block struct {
	ID       uuid.UUID
	OrgID    *uuid.UUID
	User     string
	Hostname string

	Start   time.Time
	End     time.Time
	Minutes int

	Title    string
	URL      string
	FilePath string

	ClientID  *uuid.UUID
	ProjectID *uuid.UUID
	TaskID    *uuid.UUID
	Notes     string

	// Locked blocks survive destructive rebuilds (set after approval/export).
	Locked bool
}

// Scope returns the scope the block belongs to.
func (b *Block) Scope() Scope {
	return Scope{User: b.User, Hostname: b.Hostname, OrgID: b.OrgID}
}

// Covers reports whether t falls inside the block's [Start, End] span.
func (b *Block) Covers(t time.Time) bool {
	return !t.Before(b.Start) && !t.After(b.End)
}

// Overlaps reports whether two blocks' [Start, End] spans intersect.
func (b *Block) Overlaps(other *Block) bool {
	return !b.End.Before(other.Start) && !other.End.Before(b.Start)
}

// BlockUpdate holds a partial classification update applied by LabelBlock.
// Nil pointer fields are left unchanged.
type BlockUpdate struct {
	ClientID  *uuid.UUID
	ProjectID *uuid.UUID
	TaskID    *uuid.UUID
	Notes     *string
}

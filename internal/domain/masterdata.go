package domain

import "github.com/google/uuid"

// Master-data entities referenced by blocks and rules. They are looked up by
// name within a scope and never auto-created from labeling calls.

// Client is a billing client.
type Client struct {
	ID       uuid.UUID
	OrgID    *uuid.UUID
	Name     string
	IsActive bool
}

// Project optionally belongs to a client.
type Project struct {
	ID       uuid.UUID
	OrgID    *uuid.UUID
	ClientID *uuid.UUID
	Name     string
	IsActive bool
}

// Task optionally belongs to a project.
type Task struct {
	ID        uuid.UUID
	OrgID     *uuid.UUID
	ProjectID *uuid.UUID
	Name      string
	Billable  bool
}

// Org is a tenant group. Org scoping is an explicit startup feature flag;
// when disabled, all org references stay nil.
type Org struct {
	ID   uuid.UUID
	Name string
}

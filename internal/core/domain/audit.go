package domain

import "time"

// AuditAction names what happened to a journal entry.
type AuditAction string

const (
	AuditPosted   AuditAction = "POSTED"
	AuditReversed AuditAction = "REVERSED"
)

// AuditEvent is emitted once per successful posting or reversal.
type AuditEvent struct {
	Action     AuditAction
	EntryID    string
	Reference  string
	SourceType EventType
	ItemCount  int
	Amount     string
	ActorID    string
	OccurredAt time.Time
}

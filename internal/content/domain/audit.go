package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry is one append-only record of a workflow action. Entries
// are written once alongside the transition and never updated or
// deleted; nothing in the workflow reads them back to make decisions.
type AuditEntry struct {
	ID            uuid.UUID
	ContentID     uuid.UUID
	Action        string
	OldStatus     ContentStatus
	NewStatus     ContentStatus
	PerformedBy   string // display name or email at the time of the action
	PerformedByID uuid.UUID
	Notes         string
	Timestamp     time.Time
}

// NewAuditEntry records a workflow action
func NewAuditEntry(contentID uuid.UUID, action string, oldStatus, newStatus ContentStatus, performedBy string, performedByID uuid.UUID, notes string) *AuditEntry {
	return &AuditEntry{
		ID:            uuid.New(),
		ContentID:     contentID,
		Action:        action,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		PerformedBy:   performedBy,
		PerformedByID: performedByID,
		Notes:         notes,
		Timestamp:     time.Now(),
	}
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentRole names the duty an assignment hands to a user
type AssignmentRole string

const (
	AssignmentReviewer  AssignmentRole = "reviewer"
	AssignmentPublisher AssignmentRole = "publisher"
)

// IsValid checks if the assignment role is a valid value
func (r AssignmentRole) IsValid() bool {
	return r == AssignmentReviewer || r == AssignmentPublisher
}

// Assignment is a side-table record pointing a content item at the
// user expected to review or publish it. Writing one never changes the
// item's status.
type Assignment struct {
	ID         uuid.UUID
	ContentID  uuid.UUID
	AssigneeID uuid.UUID
	Role       AssignmentRole
	AssignedBy uuid.UUID
	Notes      string
	CreatedAt  time.Time
}

// NewAssignment records a reviewer or publisher assignment
func NewAssignment(contentID, assigneeID, assignedBy uuid.UUID, role AssignmentRole, notes string) *Assignment {
	return &Assignment{
		ID:         uuid.New(),
		ContentID:  contentID,
		AssigneeID: assigneeID,
		Role:       role,
		AssignedBy: assignedBy,
		Notes:      notes,
		CreatedAt:  time.Now(),
	}
}

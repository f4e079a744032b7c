package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/harborworks/cms/internal/platform/eventbus"
)

// Topics for content workflow events
const (
	ContentCreatedTopic     eventbus.Topic = "content.created"
	ContentUpdatedTopic     eventbus.Topic = "content.updated"
	ContentSubmittedTopic   eventbus.Topic = "content.submitted"
	ContentApprovedTopic    eventbus.Topic = "content.approved"
	ContentRejectedTopic    eventbus.Topic = "content.rejected"
	ContentPublishedTopic   eventbus.Topic = "content.published"
	ContentUnpublishedTopic eventbus.Topic = "content.unpublished"
	ContentAssignedTopic    eventbus.Topic = "content.assigned"
)

// ContentCreatedEvent is published when a new content item is created
type ContentCreatedEvent struct {
	ContentID  uuid.UUID
	ActorID    uuid.UUID
	Title      string
	Slug       string
	OccurredAt time.Time
}

// ContentUpdatedEvent is published when content body or metadata changes
type ContentUpdatedEvent struct {
	ContentID  uuid.UUID
	ActorID    uuid.UUID
	Title      string
	Slug       string
	OccurredAt time.Time
}

// ContentTransitionEvent is published for every successful workflow
// transition (submit, approve, reject, publish, unpublish).
type ContentTransitionEvent struct {
	ContentID  uuid.UUID
	ActorID    uuid.UUID
	OldStatus  string
	NewStatus  string
	Notes      string
	OccurredAt time.Time
}

// ContentAssignedEvent is published when a reviewer or publisher is assigned
type ContentAssignedEvent struct {
	ContentID  uuid.UUID
	ActorID    uuid.UUID
	AssigneeID uuid.UUID
	Role       string // "reviewer" or "publisher"
	OccurredAt time.Time
}

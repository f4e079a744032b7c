package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/harborworks/cms/internal/platform/validator"
)

// Business rule constants
const (
	MaxTitleLength   = 200
	MaxSlugLength    = 250
	MaxSummaryLength = 500
)

// Validation errors
var (
	ErrInvalidTitle      = errors.New("title is required and must not exceed 200 characters")
	ErrInvalidSlug       = errors.New("slug is invalid or too long")
	ErrInvalidBody       = errors.New("body is required")
	ErrInvalidSummary    = errors.New("summary must not exceed 500 characters")
	ErrInvalidAuthorID   = errors.New("author ID is required")
	ErrInvalidStatus     = errors.New("invalid content status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotEditable       = errors.New("content is not editable in its current status")
	ErrEmptyReason       = errors.New("a non-empty reason is required")
)

// Priority orders items on the review dashboard
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid checks if the priority is a valid value
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// ContentItem is a CMS entry together with its workflow state. The
// status and the actor/timestamp trail live on the record itself; the
// review dashboard is a read view over these fields, never a second
// source of truth.
type ContentItem struct {
	ID       uuid.UUID
	Title    string
	Slug     string
	Body     string // sanitized HTML
	Summary  string // plain text
	AuthorID uuid.UUID

	Status          ContentStatus
	InitiatedBy     *uuid.UUID
	InitiatedAt     *time.Time
	ReviewedBy      *uuid.UUID
	ReviewedAt      *time.Time
	PublishedBy     *uuid.UUID
	PublishedAt     *time.Time
	RejectedBy      *uuid.UUID
	RejectedAt      *time.Time
	RejectionReason string
	ReviewNotes     string
	AssignedTo      *uuid.UUID
	Priority        Priority
	DueDate         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewContentItem creates a draft with validation. The slug is derived
// from the title; callers handle uniqueness against the store.
func NewContentItem(title, body, summary string, authorID uuid.UUID) (*ContentItem, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	slug := validator.GenerateSlug(title, MaxSlugLength)
	if err := validateSlug(slug); err != nil {
		return nil, err
	}

	if err := validateBody(body); err != nil {
		return nil, err
	}
	if err := validateSummary(summary); err != nil {
		return nil, err
	}
	if authorID == uuid.Nil {
		return nil, ErrInvalidAuthorID
	}

	now := time.Now()
	return &ContentItem{
		ID:        uuid.New(),
		Title:     title,
		Slug:      slug,
		Body:      body,
		Summary:   summary,
		AuthorID:  authorID,
		Status:    StatusDraft,
		Priority:  PriorityNormal,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Stage returns the derived workflow stage for dashboard grouping
func (c *ContentItem) Stage() WorkflowStage {
	return c.Status.Stage()
}

// UpdateBody changes title, body and summary. Only drafts and rejected
// items are editable; everything past submission is frozen.
func (c *ContentItem) UpdateBody(title, body, summary string) error {
	if !c.Status.IsEditable() {
		return ErrNotEditable
	}
	if err := validateTitle(title); err != nil {
		return err
	}
	if err := validateBody(body); err != nil {
		return err
	}
	if err := validateSummary(summary); err != nil {
		return err
	}

	c.Title = title
	c.Body = body
	c.Summary = summary
	c.UpdatedAt = time.Now()
	return nil
}

// ===== WORKFLOW TRANSITIONS =====
// Each transition validates the edge and records the actor and time.
// Authorization happens in the application layer before these run.

// SubmitForReview moves a draft or rejected item into the review queue
func (c *ContentItem) SubmitForReview(actorID uuid.UUID, notes string) error {
	if !c.Status.CanTransitionTo(StatusPendingReview) {
		return ErrInvalidTransition
	}
	now := time.Now()
	c.Status = StatusPendingReview
	c.InitiatedBy = &actorID
	c.InitiatedAt = &now
	c.RejectedBy = nil
	c.RejectedAt = nil
	c.RejectionReason = ""
	if notes != "" {
		c.ReviewNotes = notes
	}
	c.UpdatedAt = now
	return nil
}

// Approve marks a pending item as reviewed
func (c *ContentItem) Approve(actorID uuid.UUID, notes string) error {
	if !c.Status.CanTransitionTo(StatusReviewed) || c.Status != StatusPendingReview {
		return ErrInvalidTransition
	}
	now := time.Now()
	c.Status = StatusReviewed
	c.ReviewedBy = &actorID
	c.ReviewedAt = &now
	c.ReviewNotes = notes
	c.UpdatedAt = now
	return nil
}

// Reject sends a pending item back to its author with a mandatory reason
func (c *ContentItem) Reject(actorID uuid.UUID, reason, notes string) error {
	if reason == "" {
		return ErrEmptyReason
	}
	if !c.Status.CanTransitionTo(StatusRejected) {
		return ErrInvalidTransition
	}
	now := time.Now()
	c.Status = StatusRejected
	c.RejectedBy = &actorID
	c.RejectedAt = &now
	c.RejectionReason = reason
	if notes != "" {
		c.ReviewNotes = notes
	}
	c.UpdatedAt = now
	return nil
}

// Publish takes a reviewed item live
func (c *ContentItem) Publish(actorID uuid.UUID) error {
	if !c.Status.CanTransitionTo(StatusPublished) {
		return ErrInvalidTransition
	}
	now := time.Now()
	c.Status = StatusPublished
	c.PublishedBy = &actorID
	c.PublishedAt = &now
	c.UpdatedAt = now
	return nil
}

// Unpublish takes a published item offline, back to draft. The
// publish trail is cleared; a fresh review cycle is required before it
// can go live again.
func (c *ContentItem) Unpublish(actorID uuid.UUID, reason string) error {
	if reason == "" {
		return ErrEmptyReason
	}
	if !c.Status.CanTransitionTo(StatusDraft) {
		return ErrInvalidTransition
	}
	now := time.Now()
	c.Status = StatusDraft
	c.PublishedBy = nil
	c.PublishedAt = nil
	c.ReviewedBy = nil
	c.ReviewedAt = nil
	c.ReviewNotes = reason
	c.UpdatedAt = now
	return nil
}

// Assign points the item at a reviewer or publisher without touching
// the status
func (c *ContentItem) Assign(assigneeID uuid.UUID) {
	c.AssignedTo = &assigneeID
	c.UpdatedAt = time.Now()
}

// SetPriority adjusts dashboard ordering
func (c *ContentItem) SetPriority(p Priority) error {
	if !p.IsValid() {
		return errors.New("invalid priority")
	}
	c.Priority = p
	c.UpdatedAt = time.Now()
	return nil
}

// SetDueDate sets or clears the review deadline
func (c *ContentItem) SetDueDate(due *time.Time) {
	c.DueDate = due
	c.UpdatedAt = time.Now()
}

// ===== VALIDATION HELPERS =====

func validateTitle(title string) error {
	if title == "" || len(title) > MaxTitleLength {
		return ErrInvalidTitle
	}
	return nil
}

func validateSlug(slug string) error {
	if slug == "" || len(slug) > MaxSlugLength {
		return ErrInvalidSlug
	}
	if err := validator.ValidateSlugFormat(slug, MaxSlugLength); err != nil {
		return ErrInvalidSlug
	}
	return nil
}

func validateBody(body string) error {
	if body == "" {
		return ErrInvalidBody
	}
	return nil
}

func validateSummary(summary string) error {
	if len(summary) > MaxSummaryLength {
		return ErrInvalidSummary
	}
	return nil
}

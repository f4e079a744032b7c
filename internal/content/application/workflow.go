package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/harborworks/cms/internal/authz/permission"
	"github.com/harborworks/cms/internal/content/domain"
	"github.com/harborworks/cms/internal/content/ports"
	"github.com/harborworks/cms/internal/platform/eventbus"
	"github.com/harborworks/cms/internal/platform/events"
)

// WorkflowAction names one transition of the approval workflow
type WorkflowAction string

const (
	ActionSubmitForReview WorkflowAction = "submit_for_review"
	ActionApprove         WorkflowAction = "approve"
	ActionReject          WorkflowAction = "reject"
	ActionPublish         WorkflowAction = "publish"
	ActionUnpublish       WorkflowAction = "unpublish"
)

// ActionCheck is the pre-flight answer for a workflow action
type ActionCheck struct {
	CanPerform bool
	Reason     string

	denied bool // permission failure as opposed to state mismatch
}

// actionRule ties an action to its permission and valid source states
type actionRule struct {
	required permission.Permission
	from     []domain.ContentStatus
	target   domain.ContentStatus
}

var actionRules = map[WorkflowAction]actionRule{
	ActionSubmitForReview: {
		required: permission.ContentSubmitReview,
		from:     []domain.ContentStatus{domain.StatusDraft, domain.StatusRejected},
		target:   domain.StatusPendingReview,
	},
	ActionApprove: {
		required: permission.ContentApproveReview,
		from:     []domain.ContentStatus{domain.StatusPendingReview},
		target:   domain.StatusReviewed,
	},
	ActionReject: {
		required: permission.ContentApproveReview,
		from:     []domain.ContentStatus{domain.StatusPendingReview},
		target:   domain.StatusRejected,
	},
	ActionPublish: {
		required: permission.ContentPublish,
		from:     []domain.ContentStatus{domain.StatusReviewed},
		target:   domain.StatusPublished,
	},
	ActionUnpublish: {
		required: permission.ContentUnpublish,
		from:     []domain.ContentStatus{domain.StatusPublished},
		target:   domain.StatusDraft,
	},
}

// CanPerformAction pre-flights a workflow action without mutating: the
// same permission and source-state guard the transition itself applies.
// The transitions below call this internally, so the two can never
// drift apart.
func (s *ContentService) CanPerformAction(ctx context.Context, actorID uuid.UUID, contentID uuid.UUID, action WorkflowAction) (ActionCheck, error) {
	item, err := s.getByID(ctx, contentID)
	if err != nil {
		return ActionCheck{}, err
	}
	return s.checkAction(ctx, actorID, item, action), nil
}

func (s *ContentService) checkAction(ctx context.Context, actorID uuid.UUID, item *domain.ContentItem, action WorkflowAction) ActionCheck {
	rule, ok := actionRules[action]
	if !ok {
		return ActionCheck{Reason: "unknown workflow action", denied: true}
	}

	if !s.authorizer.Can(ctx, actorID, rule.required) {
		return ActionCheck{Reason: "missing permission " + string(rule.required), denied: true}
	}

	// Submitting is for the item's author, or anyone who can edit all
	// content
	if action == ActionSubmitForReview && item.AuthorID != actorID {
		if !s.authorizer.Can(ctx, actorID, permission.ContentEditAll) {
			return ActionCheck{Reason: "only the author or an editor may submit this item", denied: true}
		}
	}

	for _, from := range rule.from {
		if item.Status == from {
			return ActionCheck{CanPerform: true}
		}
	}
	return ActionCheck{Reason: "content is " + string(item.Status) + ", not in a valid state for " + string(action)}
}

// TransitionParams carries actor input for a workflow transition
type TransitionParams struct {
	Reason string // required for reject and unpublish
	Notes  string
}

// SubmitForReview moves a draft or rejected item into the review queue
func (s *ContentService) SubmitForReview(ctx context.Context, actorID uuid.UUID, contentID uuid.UUID, params TransitionParams) (*domain.ContentItem, error) {
	return s.transition(ctx, actorID, contentID, ActionSubmitForReview, params, func(item *domain.ContentItem) error {
		return item.SubmitForReview(actorID, params.Notes)
	})
}

// Approve marks a pending item as reviewed
func (s *ContentService) Approve(ctx context.Context, actorID uuid.UUID, contentID uuid.UUID, params TransitionParams) (*domain.ContentItem, error) {
	return s.transition(ctx, actorID, contentID, ActionApprove, params, func(item *domain.ContentItem) error {
		return item.Approve(actorID, params.Notes)
	})
}

// Reject sends a pending item back to its author. The reason is
// mandatory and lands in both the item and the audit trail.
func (s *ContentService) Reject(ctx context.Context, actorID uuid.UUID, contentID uuid.UUID, params TransitionParams) (*domain.ContentItem, error) {
	if params.Reason == "" {
		return nil, ErrInvalidContentData.WithDetails("a rejection reason is required")
	}
	return s.transition(ctx, actorID, contentID, ActionReject, params, func(item *domain.ContentItem) error {
		return item.Reject(actorID, params.Reason, params.Notes)
	})
}

// Publish takes a reviewed item live
func (s *ContentService) Publish(ctx context.Context, actorID uuid.UUID, contentID uuid.UUID) (*domain.ContentItem, error) {
	return s.transition(ctx, actorID, contentID, ActionPublish, TransitionParams{}, func(item *domain.ContentItem) error {
		return item.Publish(actorID)
	})
}

// Unpublish takes a published item offline, back to draft
func (s *ContentService) Unpublish(ctx context.Context, actorID uuid.UUID, contentID uuid.UUID, params TransitionParams) (*domain.ContentItem, error) {
	if params.Reason == "" {
		return nil, ErrInvalidContentData.WithDetails("an unpublish reason is required")
	}
	return s.transition(ctx, actorID, contentID, ActionUnpublish, params, func(item *domain.ContentItem) error {
		return item.Unpublish(actorID, params.Reason)
	})
}

// transition is the shared guard-mutate-persist path. The persist step
// is a conditional update on the previously read status, so of two
// racing actors exactly one wins and the other gets a state conflict.
func (s *ContentService) transition(
	ctx context.Context,
	actorID uuid.UUID,
	contentID uuid.UUID,
	action WorkflowAction,
	params TransitionParams,
	mutate func(*domain.ContentItem) error,
) (*domain.ContentItem, error) {
	item, err := s.getByID(ctx, contentID)
	if err != nil {
		return nil, err
	}

	check := s.checkAction(ctx, actorID, item, action)
	if !check.CanPerform {
		if check.denied {
			return nil, ErrPermissionDenied.WithDetails(check.Reason)
		}
		return nil, ErrStateConflict.WithDetails(check.Reason)
	}

	oldStatus := item.Status
	if err := mutate(item); err != nil {
		if errors.Is(err, domain.ErrEmptyReason) {
			return nil, ErrInvalidContentData.WithDetails(err.Error())
		}
		return nil, ErrStateConflict.WithDetails(err.Error())
	}

	if err := s.repo.UpdateStatusConditional(ctx, item, oldStatus); err != nil {
		if errors.Is(err, ports.ErrStatusConflict) {
			return nil, ErrStateConflict.WithDetails("content was modified concurrently")
		}
		s.logger.Error(ctx, "failed to persist workflow transition",
			"error", err,
			"contentID", contentID,
			"action", action,
		)
		return nil, s.internalError("failed to persist workflow transition")
	}

	s.appendAudit(ctx, item, string(action), oldStatus, actorID, auditNotes(action, params))
	s.publishTransitionEvent(ctx, item, actorID, oldStatus, params.Notes, action)

	return item, nil
}

// AssignReviewer points an item at a reviewer. Side-table only: the
// item's status is untouched.
func (s *ContentService) AssignReviewer(ctx context.Context, actorID uuid.UUID, contentID, assigneeID uuid.UUID, notes string) (*domain.Assignment, error) {
	return s.assign(ctx, actorID, contentID, assigneeID, domain.AssignmentReviewer, notes)
}

// AssignPublisher points an item at a publisher
func (s *ContentService) AssignPublisher(ctx context.Context, actorID uuid.UUID, contentID, assigneeID uuid.UUID, notes string) (*domain.Assignment, error) {
	return s.assign(ctx, actorID, contentID, assigneeID, domain.AssignmentPublisher, notes)
}

// assign writes the assignment record and the item's assignee pointer
// in one transaction so the dashboard never sees one without the other
func (s *ContentService) assign(ctx context.Context, actorID uuid.UUID, contentID, assigneeID uuid.UUID, role domain.AssignmentRole, notes string) (*domain.Assignment, error) {
	item, err := s.getByID(ctx, contentID)
	if err != nil {
		return nil, err
	}

	assignment := domain.NewAssignment(contentID, assigneeID, actorID, role, notes)
	item.Assign(assigneeID)

	tx, err := s.txManager.BeginTx(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to begin transaction", "error", err, "contentID", contentID)
		return nil, s.internalError("failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.assignments.WithTx(tx.Tx()).Create(ctx, assignment); err != nil {
		s.logger.Error(ctx, "failed to create assignment", "error", err, "contentID", contentID)
		return nil, s.internalError("failed to create assignment")
	}
	if err := s.repo.WithTx(tx.Tx()).Update(ctx, item); err != nil {
		s.logger.Error(ctx, "failed to record assignee on content", "error", err, "contentID", contentID)
		return nil, s.internalError("failed to record assignee")
	}
	if err := tx.Commit(ctx); err != nil {
		s.logger.Error(ctx, "failed to commit assignment", "error", err, "contentID", contentID)
		return nil, s.internalError("failed to commit assignment")
	}

	s.eventBus.Publish(ctx, eventbus.Event{
		Topic: events.ContentAssignedTopic,
		Payload: events.ContentAssignedEvent{
			ContentID:  contentID,
			ActorID:    actorID,
			AssigneeID: assigneeID,
			Role:       string(role),
			OccurredAt: time.Now(),
		},
	})

	return assignment, nil
}

// ListAssignments retrieves a user's open assignments for the dashboard
func (s *ContentService) ListAssignments(ctx context.Context, assigneeID uuid.UUID) ([]*domain.Assignment, error) {
	assignments, err := s.assignments.ListByAssignee(ctx, assigneeID)
	if err != nil {
		s.logger.Error(ctx, "failed to list assignments", "error", err, "assigneeID", assigneeID)
		return nil, s.internalError("failed to list assignments")
	}
	return assignments, nil
}

// ===== Private helpers =====

func auditNotes(action WorkflowAction, params TransitionParams) string {
	switch action {
	case ActionReject, ActionUnpublish:
		if params.Notes != "" {
			return params.Reason + ": " + params.Notes
		}
		return params.Reason
	default:
		return params.Notes
	}
}

// appendAudit writes the trail entry for a completed transition. Audit
// failures are logged, not propagated: the transition has already
// committed and must not be reported as failed.
func (s *ContentService) appendAudit(ctx context.Context, item *domain.ContentItem, action string, oldStatus domain.ContentStatus, actorID uuid.UUID, notes string) {
	entry := domain.NewAuditEntry(
		item.ID,
		action,
		oldStatus,
		item.Status,
		s.directory.DisplayName(ctx, actorID),
		actorID,
		notes,
	)
	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.Error(ctx, "failed to append audit entry",
			"error", err,
			"contentID", item.ID,
			"action", action,
		)
	}
}

func (s *ContentService) publishTransitionEvent(ctx context.Context, item *domain.ContentItem, actorID uuid.UUID, oldStatus domain.ContentStatus, notes string, action WorkflowAction) {
	topics := map[WorkflowAction]eventbus.Topic{
		ActionSubmitForReview: events.ContentSubmittedTopic,
		ActionApprove:         events.ContentApprovedTopic,
		ActionReject:          events.ContentRejectedTopic,
		ActionPublish:         events.ContentPublishedTopic,
		ActionUnpublish:       events.ContentUnpublishedTopic,
	}

	s.eventBus.Publish(ctx, eventbus.Event{
		Topic: topics[action],
		Payload: events.ContentTransitionEvent{
			ContentID:  item.ID,
			ActorID:    actorID,
			OldStatus:  string(oldStatus),
			NewStatus:  string(item.Status),
			Notes:      notes,
			OccurredAt: time.Now(),
		},
	})
}

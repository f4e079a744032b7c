package domain

// ContentStatus represents the editorial state of a content item
type ContentStatus string

const (
	StatusDraft         ContentStatus = "draft"
	StatusPendingReview ContentStatus = "pending_review"
	StatusReviewed      ContentStatus = "reviewed"
	StatusPublished     ContentStatus = "published"
	StatusRejected      ContentStatus = "rejected"
)

// WorkflowStage is the coarse progress bucket shown to users. Rejected
// content sits back at the draft stage: from the author's point of view
// it is editable again, even though the status records the rejection.
type WorkflowStage string

const (
	StageDraft     WorkflowStage = "draft"
	StageReview    WorkflowStage = "review"
	StageApproval  WorkflowStage = "approval"
	StagePublished WorkflowStage = "published"
)

// IsValid checks if the status is a valid value
func (s ContentStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPendingReview, StatusReviewed, StatusPublished, StatusRejected:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a status transition is allowed. The
// workflow is a fixed machine: draft and rejected items are submitted
// for review, reviews are approved or rejected, approved items are
// published, and unpublishing sends a published item all the way back
// to draft.
func (s ContentStatus) CanTransitionTo(target ContentStatus) bool {
	switch s {
	case StatusDraft:
		return target == StatusPendingReview
	case StatusPendingReview:
		return target == StatusReviewed || target == StatusRejected
	case StatusReviewed:
		return target == StatusPublished
	case StatusPublished:
		return target == StatusDraft
	case StatusRejected:
		return target == StatusPendingReview
	default:
		return false
	}
}

// Stage maps the status onto its workflow stage
func (s ContentStatus) Stage() WorkflowStage {
	switch s {
	case StatusDraft, StatusRejected:
		return StageDraft
	case StatusPendingReview:
		return StageReview
	case StatusReviewed:
		return StageApproval
	case StatusPublished:
		return StagePublished
	default:
		return StageDraft
	}
}

// IsEditable reports whether authors may still change the body. Content
// under review or beyond is frozen until it is rejected or unpublished.
func (s ContentStatus) IsEditable() bool {
	return s == StatusDraft || s == StatusRejected
}

// AllStatuses returns every valid status, in workflow order
func AllStatuses() []ContentStatus {
	return []ContentStatus{
		StatusDraft,
		StatusPendingReview,
		StatusReviewed,
		StatusPublished,
		StatusRejected,
	}
}

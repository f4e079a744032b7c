package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborworks/cms/internal/content/domain"
)

// The full editorial pipeline: author submits, reviewer approves,
// publisher takes it live.
func TestWorkflowHappyPath(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	item := fx.createDraft(t, "Annual Report")

	item, err := fx.service.SubmitForReview(ctx, fx.author, item.ID, TransitionParams{Notes: "ready"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingReview, item.Status)

	item, err = fx.service.Approve(ctx, fx.reviewer, item.ID, TransitionParams{Notes: "well written"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReviewed, item.Status)
	require.NotNil(t, item.ReviewedBy)
	assert.Equal(t, fx.reviewer, *item.ReviewedBy)

	item, err = fx.service.Publish(ctx, fx.publisher, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, item.Status)
	require.NotNil(t, item.PublishedBy)
	assert.Equal(t, fx.publisher, *item.PublishedBy)
	assert.NotNil(t, item.PublishedAt)

	// One audit entry per transition
	entries, err := fx.audit.ListByContent(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "submit_for_review", entries[0].Action)
	assert.Equal(t, "approve", entries[1].Action)
	assert.Equal(t, "publish", entries[2].Action)
	assert.Equal(t, domain.StatusReviewed, entries[2].OldStatus)
	assert.Equal(t, domain.StatusPublished, entries[2].NewStatus)
}

func TestApproveWithoutPermissionLeavesStatus(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	item := fx.createDraft(t, "Pending Item")
	_, err := fx.service.SubmitForReview(ctx, fx.author, item.ID, TransitionParams{})
	require.NoError(t, err)

	// The author holds no approve permission
	_, err = fx.service.Approve(ctx, fx.author, item.ID, TransitionParams{})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	current, err := fx.service.GetContent(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingReview, current.Status)
}

func TestRejectSetsReasonAndStageReadsDraft(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	item := fx.createDraft(t, "Rejected Item")
	_, err := fx.service.SubmitForReview(ctx, fx.author, item.ID, TransitionParams{})
	require.NoError(t, err)

	item, err = fx.service.Reject(ctx, fx.reviewer, item.ID, TransitionParams{Reason: "spam", Notes: "not relevant"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, item.Status)
	assert.Equal(t, "spam", item.RejectionReason)
	assert.Equal(t, domain.StageDraft, item.Stage())
}

func TestRejectRequiresReason(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	item := fx.createDraft(t, "Needs Reason")
	_, err := fx.service.SubmitForReview(ctx, fx.author, item.ID, TransitionParams{})
	require.NoError(t, err)

	_, err = fx.service.Reject(ctx, fx.reviewer, item.ID, TransitionParams{})
	assert.ErrorIs(t, err, ErrInvalidContentData)
}

func TestPublishFromDraftIsStateConflict(t *testing.T) {
	fx := newFixture()
	item := fx.createDraft(t, "Too Eager")

	_, err := fx.service.Publish(context.Background(), fx.publisher, item.ID)
	assert.ErrorIs(t, err, ErrStateConflict)
}

func TestResubmitAfterRejection(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	item := fx.createDraft(t, "Second Chance")
	_, err := fx.service.SubmitForReview(ctx, fx.author, item.ID, TransitionParams{})
	require.NoError(t, err)
	_, err = fx.service.Reject(ctx, fx.reviewer, item.ID, TransitionParams{Reason: "thin"})
	require.NoError(t, err)

	item, err = fx.service.SubmitForReview(ctx, fx.author, item.ID, TransitionParams{Notes: "expanded"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingReview, item.Status)
	assert.Empty(t, item.RejectionReason)
}

func TestUnpublishBackToDraft(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	item := fx.createDraft(t, "Live Then Pulled")
	_, err := fx.service.SubmitForReview(ctx, fx.author, item.ID, TransitionParams{})
	require.NoError(t, err)
	_, err = fx.service.Approve(ctx, fx.reviewer, item.ID, TransitionParams{})
	require.NoError(t, err)
	_, err = fx.service.Publish(ctx, fx.publisher, item.ID)
	require.NoError(t, err)

	_, err = fx.service.Unpublish(ctx, fx.publisher, item.ID, TransitionParams{})
	assert.ErrorIs(t, err, ErrInvalidContentData)

	item, err = fx.service.Unpublish(ctx, fx.publisher, item.ID, TransitionParams{Reason: "factual error"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, item.Status)
	assert.Nil(t, item.PublishedBy)
	assert.Nil(t, item.PublishedAt)
}

func TestSubmitByStrangerRequiresEditAll(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	item := fx.createDraft(t, "Not Yours")

	// The reviewer holds approve but not submit
	_, err := fx.service.SubmitForReview(ctx, fx.reviewer, item.ID, TransitionParams{})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// Someone with submit but neither authorship nor edit_all
	stranger := fx.nobody
	fx.authorizer.grants[stranger] = append(fx.authorizer.grants[stranger], "content.submit_review")
	_, err = fx.service.SubmitForReview(ctx, stranger, item.ID, TransitionParams{})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// Granting edit_all unlocks submitting on behalf of the author
	fx.authorizer.grants[stranger] = append(fx.authorizer.grants[stranger], "content.edit_all")
	item, err = fx.service.SubmitForReview(ctx, stranger, item.ID, TransitionParams{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingReview, item.Status)
}

func TestConcurrentTransitionLoserGetsStateConflict(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	item := fx.createDraft(t, "Contested")
	_, err := fx.service.SubmitForReview(ctx, fx.author, item.ID, TransitionParams{})
	require.NoError(t, err)

	// Simulate another actor winning the conditional update first
	fx.repo.conflict = true
	_, err = fx.service.Approve(ctx, fx.reviewer, item.ID, TransitionParams{})
	assert.ErrorIs(t, err, ErrStateConflict)

	// The retry after a fresh read succeeds
	_, err = fx.service.Approve(ctx, fx.reviewer, item.ID, TransitionParams{})
	require.NoError(t, err)
}

func TestCanPerformActionMatchesTransitionGuard(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	item := fx.createDraft(t, "Preflight")

	check, err := fx.service.CanPerformAction(ctx, fx.author, item.ID, ActionSubmitForReview)
	require.NoError(t, err)
	assert.True(t, check.CanPerform)

	check, err = fx.service.CanPerformAction(ctx, fx.publisher, item.ID, ActionPublish)
	require.NoError(t, err)
	assert.False(t, check.CanPerform)
	assert.NotEmpty(t, check.Reason)

	check, err = fx.service.CanPerformAction(ctx, fx.author, item.ID, ActionApprove)
	require.NoError(t, err)
	assert.False(t, check.CanPerform)

	check, err = fx.service.CanPerformAction(ctx, fx.author, item.ID, "teleport")
	require.NoError(t, err)
	assert.False(t, check.CanPerform)
	assert.Equal(t, "unknown workflow action", check.Reason)
}

func TestAssignmentsDoNotChangeStatus(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	item := fx.createDraft(t, "Assignable")

	assignment, err := fx.service.AssignReviewer(ctx, fx.author, item.ID, fx.reviewer, "please review")
	require.NoError(t, err)
	assert.Equal(t, domain.AssignmentReviewer, assignment.Role)

	current, err := fx.service.GetContent(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, current.Status)
	require.NotNil(t, current.AssignedTo)
	assert.Equal(t, fx.reviewer, *current.AssignedTo)

	mine, err := fx.service.ListAssignments(ctx, fx.reviewer)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

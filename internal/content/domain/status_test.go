package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusIsValid(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.True(t, s.IsValid(), "status %s", s)
	}
	assert.False(t, ContentStatus("archived").IsValid())
	assert.False(t, ContentStatus("").IsValid())
}

func TestCanTransitionTo(t *testing.T) {
	type edge struct {
		from, to ContentStatus
	}
	allowed := map[edge]bool{
		{StatusDraft, StatusPendingReview}:    true,
		{StatusPendingReview, StatusReviewed}: true,
		{StatusPendingReview, StatusRejected}: true,
		{StatusReviewed, StatusPublished}:     true,
		{StatusPublished, StatusDraft}:        true,
		{StatusRejected, StatusPendingReview}: true,
	}

	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			expected := allowed[edge{from, to}]
			assert.Equal(t, expected, from.CanTransitionTo(to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestStageMapping(t *testing.T) {
	cases := map[ContentStatus]WorkflowStage{
		StatusDraft:         StageDraft,
		StatusPendingReview: StageReview,
		StatusReviewed:      StageApproval,
		StatusPublished:     StagePublished,
		StatusRejected:      StageDraft, // rejected content reads as draft again
	}
	for status, stage := range cases {
		assert.Equal(t, stage, status.Stage(), "stage of %s", status)
	}
}

func TestIsEditable(t *testing.T) {
	assert.True(t, StatusDraft.IsEditable())
	assert.True(t, StatusRejected.IsEditable())
	assert.False(t, StatusPendingReview.IsEditable())
	assert.False(t, StatusReviewed.IsEditable())
	assert.False(t, StatusPublished.IsEditable())
}

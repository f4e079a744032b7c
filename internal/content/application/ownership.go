package application

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/harborworks/cms/internal/content/ports"
	"github.com/harborworks/cms/internal/platform/logger"
	"github.com/harborworks/cms/internal/platform/ownership"
)

// OwnershipResourceType is the resource type key under which content
// ownership is registered
const OwnershipResourceType = "content"

// ContentOwnershipChecker answers "does this user own this content
// item". It depends directly on the repository, not the service, so
// authorization checks never recurse back through authorized calls.
type ContentOwnershipChecker struct {
	repo   ports.ContentRepository
	logger logger.Logger
}

// NewContentOwnershipChecker creates a new content ownership checker
func NewContentOwnershipChecker(repo ports.ContentRepository, logger logger.Logger) *ContentOwnershipChecker {
	return &ContentOwnershipChecker{
		repo:   repo,
		logger: logger,
	}
}

// CheckOwnership implements the ownership.Checker interface
func (c *ContentOwnershipChecker) CheckOwnership(ctx context.Context, userID uuid.UUID, resourceID uuid.UUID) (bool, error) {
	owns, err := c.repo.IsOwner(ctx, resourceID, userID)
	if err != nil {
		if errors.Is(err, ports.ErrContentNotFound) {
			// Missing content is simply not owned
			return false, nil
		}
		c.logger.Error(ctx, "failed to check content ownership", "error", err, "contentID", resourceID)
		return false, err
	}
	return owns, nil
}

// RegisterContentOwnership registers the checker with the registry
func RegisterContentOwnership(registry ownership.Registry, repo ports.ContentRepository, logger logger.Logger) {
	registry.RegisterChecker(OwnershipResourceType, NewContentOwnershipChecker(repo, logger))
}

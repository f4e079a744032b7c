package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/harborworks/cms/internal/authz/permission"
	"github.com/harborworks/cms/internal/content/domain"
	"github.com/harborworks/cms/internal/content/ports"
	"github.com/harborworks/cms/internal/platform/apperror"
	"github.com/harborworks/cms/internal/platform/eventbus"
	"github.com/harborworks/cms/internal/platform/events"
	"github.com/harborworks/cms/internal/platform/logger"
	"github.com/harborworks/cms/internal/platform/postgres"
	"github.com/harborworks/cms/internal/platform/validator"
)

// Error definitions for service operations
var (
	ErrContentNotFound = apperror.New(
		apperror.CodeNotFound,
		apperror.BusinessCodeContentNotFound,
		"content item not found",
		http.StatusNotFound,
	)

	ErrSlugAlreadyExists = apperror.New(
		apperror.CodeConflict,
		apperror.BusinessCodeDuplicateSlug,
		"slug already exists",
		http.StatusConflict,
	)

	ErrPermissionDenied = apperror.New(
		apperror.CodeForbidden,
		apperror.BusinessCodePermissionDenied,
		"not authorized for this action",
		http.StatusForbidden,
	)

	ErrStateConflict = apperror.New(
		apperror.CodeConflict,
		apperror.BusinessCodeStateConflict,
		"content is not in the required state",
		http.StatusConflict,
	)

	ErrInvalidContentData = apperror.New(
		apperror.CodeValidationFailed,
		apperror.BusinessCodeValidationFailed,
		"invalid content data",
		http.StatusBadRequest,
	)
)

// ContentService handles content CRUD and the approval workflow. Every
// mutation runs behind an authorization check; workflow transitions
// additionally guard on the current status and write through a
// conditional update so concurrent conflicting transitions cannot both
// win.
type ContentService struct {
	repo        ports.ContentRepository
	audit       ports.AuditWriter
	assignments ports.AssignmentRepository
	authorizer  ports.Authorizer
	directory   ports.ActorDirectory
	txManager   postgres.TransactionManager
	eventBus    *eventbus.Bus
	logger      logger.Logger
	sanitizer   *bluemonday.Policy
}

// NewContentService creates a new content service
func NewContentService(
	repo ports.ContentRepository,
	audit ports.AuditWriter,
	assignments ports.AssignmentRepository,
	authorizer ports.Authorizer,
	directory ports.ActorDirectory,
	txManager postgres.TransactionManager,
	eventBus *eventbus.Bus,
	logger logger.Logger,
) *ContentService {
	return &ContentService{
		repo:        repo,
		audit:       audit,
		assignments: assignments,
		authorizer:  authorizer,
		directory:   directory,
		txManager:   txManager,
		eventBus:    eventBus,
		logger:      logger,
		sanitizer:   bluemonday.UGCPolicy(),
	}
}

// CreateContentParams contains parameters for creating a content item
type CreateContentParams struct {
	Title   string
	Body    string
	Summary string
}

// CreateContent creates a new draft authored by the actor
func (s *ContentService) CreateContent(ctx context.Context, actorID uuid.UUID, params CreateContentParams) (*domain.ContentItem, error) {
	if !s.authorizer.Can(ctx, actorID, permission.ContentCreate) {
		return nil, ErrPermissionDenied.WithDetails("content.create is required")
	}

	sanitizedBody := s.sanitizer.Sanitize(params.Body)

	item, err := domain.NewContentItem(params.Title, sanitizedBody, validator.SanitizeText(params.Summary), actorID)
	if err != nil {
		return nil, ErrInvalidContentData.WithDetails(err.Error())
	}

	uniqueSlug, err := s.ensureUniqueSlug(ctx, item.Slug, nil)
	if err != nil {
		return nil, err
	}
	item.Slug = uniqueSlug

	if err := s.repo.Create(ctx, item); err != nil {
		if errors.Is(err, ports.ErrDuplicateSlug) {
			return nil, ErrSlugAlreadyExists
		}
		s.logger.Error(ctx, "failed to create content", "error", err)
		return nil, s.internalError("failed to create content")
	}

	s.eventBus.Publish(ctx, eventbus.Event{
		Topic: events.ContentCreatedTopic,
		Payload: events.ContentCreatedEvent{
			ContentID:  item.ID,
			ActorID:    actorID,
			Title:      item.Title,
			Slug:       item.Slug,
			OccurredAt: time.Now(),
		},
	})

	return item, nil
}

// UpdateContentParams contains parameters for updating a content item
type UpdateContentParams struct {
	Title   string
	Body    string
	Summary string
}

// UpdateContent edits a draft or rejected item. The actor needs
// content.edit_all, or content.edit_own together with authorship.
func (s *ContentService) UpdateContent(ctx context.Context, actorID uuid.UUID, id uuid.UUID, params UpdateContentParams) (*domain.ContentItem, error) {
	if !s.authorizer.CanForResource(ctx, actorID, permission.ContentEditAll, permission.ContentEditOwn, OwnershipResourceType, id) {
		return nil, ErrPermissionDenied.WithDetails("content.edit_all or ownership with content.edit_own is required")
	}

	item, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sanitizedBody := s.sanitizer.Sanitize(params.Body)
	if err := item.UpdateBody(params.Title, sanitizedBody, validator.SanitizeText(params.Summary)); err != nil {
		if errors.Is(err, domain.ErrNotEditable) {
			return nil, ErrStateConflict.WithDetails("content can only be edited while draft or rejected")
		}
		return nil, ErrInvalidContentData.WithDetails(err.Error())
	}

	if err := s.repo.Update(ctx, item); err != nil {
		s.logger.Error(ctx, "failed to update content", "error", err, "contentID", id)
		return nil, s.internalError("failed to update content")
	}

	s.eventBus.Publish(ctx, eventbus.Event{
		Topic: events.ContentUpdatedTopic,
		Payload: events.ContentUpdatedEvent{
			ContentID:  item.ID,
			ActorID:    actorID,
			Title:      item.Title,
			Slug:       item.Slug,
			OccurredAt: time.Now(),
		},
	})

	return item, nil
}

// DeleteContent removes an item. The actor needs content.delete_all,
// or content.delete_own together with authorship.
func (s *ContentService) DeleteContent(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error {
	if !s.authorizer.CanForResource(ctx, actorID, permission.ContentDeleteAll, permission.ContentDeleteOwn, OwnershipResourceType, id) {
		return ErrPermissionDenied.WithDetails("content.delete_all or ownership with content.delete_own is required")
	}

	if _, err := s.getByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error(ctx, "failed to delete content", "error", err, "contentID", id)
		return s.internalError("failed to delete content")
	}
	return nil
}

// GetContent retrieves a content item by ID
func (s *ContentService) GetContent(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error) {
	return s.getByID(ctx, id)
}

// GetContentBySlug retrieves a content item by its slug
func (s *ContentService) GetContentBySlug(ctx context.Context, slug string) (*domain.ContentItem, error) {
	item, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ports.ErrContentNotFound) {
			return nil, ErrContentNotFound
		}
		s.logger.Error(ctx, "failed to find content by slug", "error", err, "slug", slug)
		return nil, s.internalError("failed to retrieve content")
	}
	return item, nil
}

// ListContent retrieves summaries plus the total count for paging
func (s *ContentService) ListContent(ctx context.Context, filter ports.ListFilter) ([]*ports.ContentSummary, int, error) {
	summaries, err := s.repo.ListSummaries(ctx, filter)
	if err != nil {
		s.logger.Error(ctx, "failed to list content", "error", err)
		return nil, 0, s.internalError("failed to list content")
	}

	count, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error(ctx, "failed to count content", "error", err)
		return nil, 0, s.internalError("failed to count content")
	}

	return summaries, count, nil
}

// GetAuditTrail retrieves the workflow history for one item. Requires
// audit.view.
func (s *ContentService) GetAuditTrail(ctx context.Context, actorID uuid.UUID, contentID uuid.UUID) ([]*domain.AuditEntry, error) {
	if !s.authorizer.Can(ctx, actorID, permission.AuditView) {
		return nil, ErrPermissionDenied.WithDetails("audit.view is required")
	}

	entries, err := s.audit.ListByContent(ctx, contentID)
	if err != nil {
		s.logger.Error(ctx, "failed to load audit trail", "error", err, "contentID", contentID)
		return nil, s.internalError("failed to load audit trail")
	}
	return entries, nil
}

// ===== Private helpers =====

func (s *ContentService) getByID(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrContentNotFound) {
			return nil, ErrContentNotFound
		}
		s.logger.Error(ctx, "failed to find content", "error", err, "contentID", id)
		return nil, s.internalError("failed to retrieve content")
	}
	return item, nil
}

func (s *ContentService) ensureUniqueSlug(ctx context.Context, baseSlug string, excludeID *uuid.UUID) (string, error) {
	slug := baseSlug
	suffix := 1

	for {
		exists, err := s.repo.SlugExists(ctx, slug, excludeID)
		if err != nil {
			s.logger.Error(ctx, "failed to check slug existence", "error", err, "slug", slug)
			return "", s.internalError("failed to validate slug")
		}
		if !exists {
			return slug, nil
		}

		slug = validator.MakeSlugUniqueWithMaxLength(baseSlug, suffix, domain.MaxSlugLength)
		suffix++

		// Prevent infinite loop
		if suffix > 100 {
			return "", ErrSlugAlreadyExists.WithDetails(
				fmt.Sprintf("unable to generate unique slug for: %s", baseSlug),
			)
		}
	}
}

func (s *ContentService) internalError(message string) *apperror.AppError {
	return apperror.New(
		apperror.CodeInternalError,
		apperror.BusinessCodeExternalFailure,
		message,
		http.StatusInternalServerError,
	)
}

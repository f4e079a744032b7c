package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/harborworks/cms/internal/content/application"
	"github.com/harborworks/cms/internal/content/domain"
	"github.com/harborworks/cms/internal/content/ports"
)

// ContentHandler handles HTTP requests for content items
type ContentHandler struct {
	*BaseHandler
	service *application.ContentService
}

// NewContentHandler creates a new content handler
func NewContentHandler(base *BaseHandler, service *application.ContentService) *ContentHandler {
	return &ContentHandler{
		BaseHandler: base,
		service:     service,
	}
}

// ===== DTOs =====

// CreateContentRequest is the payload for creating a content item
type CreateContentRequest struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	Summary string `json:"summary,omitempty"`
}

// UpdateContentRequest is the payload for editing a content item
type UpdateContentRequest struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	Summary string `json:"summary,omitempty"`
}

// ContentResponse is the full content item representation
type ContentResponse struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Body            string     `json:"body"`
	Summary         string     `json:"summary,omitempty"`
	AuthorID        uuid.UUID  `json:"author_id"`
	Status          string     `json:"status"`
	Stage           string     `json:"stage"`
	InitiatedBy     *uuid.UUID `json:"initiated_by,omitempty"`
	InitiatedAt     *time.Time `json:"initiated_at,omitempty"`
	ReviewedBy      *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	PublishedBy     *uuid.UUID `json:"published_by,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	RejectedBy      *uuid.UUID `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ReviewNotes     string     `json:"review_notes,omitempty"`
	AssignedTo      *uuid.UUID `json:"assigned_to,omitempty"`
	Priority        string     `json:"priority"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ContentSummaryResponse is the list-view representation
type ContentSummaryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary,omitempty"`
	AuthorID    uuid.UUID  `json:"author_id"`
	Status      string     `json:"status"`
	Stage       string     `json:"stage"`
	AssignedTo  *uuid.UUID `json:"assigned_to,omitempty"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ContentListResponse wraps summaries with the total count for paging
type ContentListResponse struct {
	Items []ContentSummaryResponse `json:"items"`
	Total int                      `json:"total"`
}

// AuditEntryResponse is one audit trail record
type AuditEntryResponse struct {
	ID            uuid.UUID `json:"id"`
	ContentID     uuid.UUID `json:"content_id"`
	Action        string    `json:"action"`
	OldStatus     string    `json:"old_status"`
	NewStatus     string    `json:"new_status"`
	PerformedBy   string    `json:"performed_by"`
	PerformedByID uuid.UUID `json:"performed_by_id"`
	Notes         string    `json:"notes,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func domainContentToAPI(item *domain.ContentItem) ContentResponse {
	return ContentResponse{
		ID:              item.ID,
		Title:           item.Title,
		Slug:            item.Slug,
		Body:            item.Body,
		Summary:         item.Summary,
		AuthorID:        item.AuthorID,
		Status:          string(item.Status),
		Stage:           string(item.Status.Stage()),
		InitiatedBy:     item.InitiatedBy,
		InitiatedAt:     item.InitiatedAt,
		ReviewedBy:      item.ReviewedBy,
		ReviewedAt:      item.ReviewedAt,
		PublishedBy:     item.PublishedBy,
		PublishedAt:     item.PublishedAt,
		RejectedBy:      item.RejectedBy,
		RejectedAt:      item.RejectedAt,
		RejectionReason: item.RejectionReason,
		ReviewNotes:     item.ReviewNotes,
		AssignedTo:      item.AssignedTo,
		Priority:        string(item.Priority),
		DueDate:         item.DueDate,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

func summaryToAPI(s *ports.ContentSummary) ContentSummaryResponse {
	return ContentSummaryResponse{
		ID:          s.ID,
		Title:       s.Title,
		Slug:        s.Slug,
		Summary:     s.Summary,
		AuthorID:    s.AuthorID,
		Status:      string(s.Status),
		Stage:       string(s.Stage),
		AssignedTo:  s.AssignedTo,
		Priority:    string(s.Priority),
		DueDate:     s.DueDate,
		PublishedAt: s.PublishedAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ===== Handlers =====

// CreateContent creates a new draft content item.
// NOTE: Authorization is enforced inside the service (content.create).
func (h *ContentHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	userID := h.GetUserIDFromContext(r)

	var req CreateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteJSONError(w, r, "VALIDATION_FAILED", "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.service.CreateContent(r.Context(), userID, application.CreateContentParams{
		Title:   req.Title,
		Body:    req.Body,
		Summary: req.Summary,
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, domainContentToAPI(item), http.StatusCreated)
}

// GetContent retrieves a single content item by ID
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseUUID(w, r, r.PathValue("id"), "id")
	if !ok {
		return
	}

	item, err := h.service.GetContent(r.Context(), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, domainContentToAPI(item), http.StatusOK)
}

// GetContentBySlug retrieves a content item by its slug
func (h *ContentHandler) GetContentBySlug(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetContentBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, domainContentToAPI(item), http.StatusOK)
}

// UpdateContent edits a draft or rejected item
func (h *ContentHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	userID := h.GetUserIDFromContext(r)

	id, ok := h.ParseUUID(w, r, r.PathValue("id"), "id")
	if !ok {
		return
	}

	var req UpdateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteJSONError(w, r, "VALIDATION_FAILED", "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.service.UpdateContent(r.Context(), userID, id, application.UpdateContentParams{
		Title:   req.Title,
		Body:    req.Body,
		Summary: req.Summary,
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, domainContentToAPI(item), http.StatusOK)
}

// DeleteContent removes a content item
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	userID := h.GetUserIDFromContext(r)

	id, ok := h.ParseUUID(w, r, r.PathValue("id"), "id")
	if !ok {
		return
	}

	if err := h.service.DeleteContent(r.Context(), userID, id); err != nil {
		h.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListContent retrieves content summaries with optional filters
func (h *ContentHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.parseListFilter(w, r)
	if !ok {
		return
	}

	summaries, total, err := h.service.ListContent(r.Context(), filter)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	items := make([]ContentSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, summaryToAPI(s))
	}

	h.WriteJSONResponse(w, r, ContentListResponse{Items: items, Total: total}, http.StatusOK)
}

// GetAuditTrail retrieves the workflow history for a content item
func (h *ContentHandler) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	userID := h.GetUserIDFromContext(r)

	id, ok := h.ParseUUID(w, r, r.PathValue("id"), "id")
	if !ok {
		return
	}

	entries, err := h.service.GetAuditTrail(r.Context(), userID, id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	response := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, AuditEntryResponse{
			ID:            e.ID,
			ContentID:     e.ContentID,
			Action:        e.Action,
			OldStatus:     string(e.OldStatus),
			NewStatus:     string(e.NewStatus),
			PerformedBy:   e.PerformedBy,
			PerformedByID: e.PerformedByID,
			Notes:         e.Notes,
			Timestamp:     e.Timestamp,
		})
	}

	h.WriteJSONResponse(w, r, response, http.StatusOK)
}

func (h *ContentHandler) parseListFilter(w http.ResponseWriter, r *http.Request) (ports.ListFilter, bool) {
	q := r.URL.Query()
	filter := ports.ListFilter{
		Limit:  parseIntParam(q.Get("limit"), 20),
		Offset: parseIntParam(q.Get("offset"), 0),
	}

	if raw := q.Get("status"); raw != "" {
		status := domain.ContentStatus(raw)
		if !status.IsValid() {
			h.WriteJSONError(w, r, "VALIDATION_FAILED", "Unknown status filter", http.StatusBadRequest)
			return ports.ListFilter{}, false
		}
		filter.Status = &status
	}

	if raw := q.Get("stage"); raw != "" {
		stage := domain.WorkflowStage(raw)
		filter.Stage = &stage
	}

	if raw := q.Get("author_id"); raw != "" {
		authorID, ok := h.ParseUUID(w, r, raw, "author_id")
		if !ok {
			return ports.ListFilter{}, false
		}
		filter.AuthorID = &authorID
	}

	if raw := q.Get("assigned_to"); raw != "" {
		assigneeID, ok := h.ParseUUID(w, r, raw, "assigned_to")
		if !ok {
			return ports.ListFilter{}, false
		}
		filter.AssignedTo = &assigneeID
	}

	return filter, true
}

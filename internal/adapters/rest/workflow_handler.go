package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/harborworks/cms/internal/content/application"
	"github.com/harborworks/cms/internal/content/domain"
)

// WorkflowHandler handles HTTP requests for content workflow actions
type WorkflowHandler struct {
	*BaseHandler
	service *application.ContentService
}

// NewWorkflowHandler creates a new workflow handler
func NewWorkflowHandler(base *BaseHandler, service *application.ContentService) *WorkflowHandler {
	return &WorkflowHandler{
		BaseHandler: base,
		service:     service,
	}
}

// TransitionRequest carries optional actor input for a transition
type TransitionRequest struct {
	Reason string `json:"reason,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// AssignRequest names the user an item is handed to
type AssignRequest struct {
	AssigneeID uuid.UUID `json:"assignee_id"`
	Notes      string    `json:"notes,omitempty"`
}

// AssignmentResponse is one reviewer/publisher assignment record
type AssignmentResponse struct {
	ID         uuid.UUID `json:"id"`
	ContentID  uuid.UUID `json:"content_id"`
	AssigneeID uuid.UUID `json:"assignee_id"`
	Role       string    `json:"role"`
	AssignedBy uuid.UUID `json:"assigned_by"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ActionCheckResponse is the pre-flight answer for a workflow action
type ActionCheckResponse struct {
	Action     string `json:"action"`
	CanPerform bool   `json:"can_perform"`
	Reason     string `json:"reason,omitempty"`
}

func assignmentToAPI(a *domain.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:         a.ID,
		ContentID:  a.ContentID,
		AssigneeID: a.AssigneeID,
		Role:       string(a.Role),
		AssignedBy: a.AssignedBy,
		Notes:      a.Notes,
		CreatedAt:  a.CreatedAt,
	}
}

// transitionFunc is the shared shape of the service transition methods
type transitionFunc func(r *http.Request, actorID, contentID uuid.UUID, params application.TransitionParams) (*domain.ContentItem, error)

func (h *WorkflowHandler) handleTransition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
	userID := h.GetUserIDFromContext(r)

	id, ok := h.ParseUUID(w, r, r.PathValue("id"), "id")
	if !ok {
		return
	}

	// Transition bodies are optional; an empty body means no notes
	var req TransitionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.WriteJSONError(w, r, "VALIDATION_FAILED", "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	item, err := fn(r, userID, id, application.TransitionParams{
		Reason: req.Reason,
		Notes:  req.Notes,
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, domainContentToAPI(item), http.StatusOK)
}

// SubmitForReview moves a draft or rejected item into the review queue
func (h *WorkflowHandler) SubmitForReview(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, func(r *http.Request, actorID, contentID uuid.UUID, params application.TransitionParams) (*domain.ContentItem, error) {
		return h.service.SubmitForReview(r.Context(), actorID, contentID, params)
	})
}

// Approve marks a pending item as reviewed
func (h *WorkflowHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, func(r *http.Request, actorID, contentID uuid.UUID, params application.TransitionParams) (*domain.ContentItem, error) {
		return h.service.Approve(r.Context(), actorID, contentID, params)
	})
}

// Reject sends a pending item back to its author
func (h *WorkflowHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, func(r *http.Request, actorID, contentID uuid.UUID, params application.TransitionParams) (*domain.ContentItem, error) {
		return h.service.Reject(r.Context(), actorID, contentID, params)
	})
}

// Publish takes a reviewed item live
func (h *WorkflowHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, func(r *http.Request, actorID, contentID uuid.UUID, params application.TransitionParams) (*domain.ContentItem, error) {
		return h.service.Publish(r.Context(), actorID, contentID)
	})
}

// Unpublish takes a published item offline, back to draft
func (h *WorkflowHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, func(r *http.Request, actorID, contentID uuid.UUID, params application.TransitionParams) (*domain.ContentItem, error) {
		return h.service.Unpublish(r.Context(), actorID, contentID, params)
	})
}

// CanPerformAction pre-flights a workflow action without mutating
func (h *WorkflowHandler) CanPerformAction(w http.ResponseWriter, r *http.Request) {
	userID := h.GetUserIDFromContext(r)

	id, ok := h.ParseUUID(w, r, r.PathValue("id"), "id")
	if !ok {
		return
	}

	action := application.WorkflowAction(r.URL.Query().Get("action"))
	if action == "" {
		h.WriteJSONError(w, r, "VALIDATION_FAILED", "The action query parameter is required", http.StatusBadRequest)
		return
	}

	check, err := h.service.CanPerformAction(r.Context(), userID, id, action)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, ActionCheckResponse{
		Action:     string(action),
		CanPerform: check.CanPerform,
		Reason:     check.Reason,
	}, http.StatusOK)
}

// AssignReviewer hands an item to a reviewer
func (h *WorkflowHandler) AssignReviewer(w http.ResponseWriter, r *http.Request) {
	h.handleAssign(w, r, domain.AssignmentReviewer)
}

// AssignPublisher hands an item to a publisher
func (h *WorkflowHandler) AssignPublisher(w http.ResponseWriter, r *http.Request) {
	h.handleAssign(w, r, domain.AssignmentPublisher)
}

func (h *WorkflowHandler) handleAssign(w http.ResponseWriter, r *http.Request, role domain.AssignmentRole) {
	userID := h.GetUserIDFromContext(r)

	id, ok := h.ParseUUID(w, r, r.PathValue("id"), "id")
	if !ok {
		return
	}

	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteJSONError(w, r, "VALIDATION_FAILED", "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.AssigneeID == uuid.Nil {
		h.WriteJSONError(w, r, "VALIDATION_FAILED", "assignee_id is required", http.StatusBadRequest)
		return
	}

	var assignment *domain.Assignment
	var err error
	switch role {
	case domain.AssignmentReviewer:
		assignment, err = h.service.AssignReviewer(r.Context(), userID, id, req.AssigneeID, req.Notes)
	case domain.AssignmentPublisher:
		assignment, err = h.service.AssignPublisher(r.Context(), userID, id, req.AssigneeID, req.Notes)
	}
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, assignmentToAPI(assignment), http.StatusCreated)
}

// ListMyAssignments retrieves the caller's open assignments
func (h *WorkflowHandler) ListMyAssignments(w http.ResponseWriter, r *http.Request) {
	userID := h.GetUserIDFromContext(r)

	assignments, err := h.service.ListAssignments(r.Context(), userID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	response := make([]AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		response = append(response, assignmentToAPI(a))
	}

	h.WriteJSONResponse(w, r, response, http.StatusOK)
}

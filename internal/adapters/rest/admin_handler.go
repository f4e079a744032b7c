package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/harborworks/cms/internal/admin/application"
	authzdomain "github.com/harborworks/cms/internal/authz/domain"
	"github.com/harborworks/cms/internal/authz/permission"
)

// AdminHandler handles HTTP requests for super-admin management
type AdminHandler struct {
	*BaseHandler
	service *application.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(base *BaseHandler, service *application.AdminService) *AdminHandler {
	return &AdminHandler{
		BaseHandler: base,
		service:     service,
	}
}

// ===== DTOs =====

// CreateUserRequest is the payload for provisioning an account
type CreateUserRequest struct {
	Email     openapi_types.Email `json:"email"`
	Password  string              `json:"password"`
	FirstName string              `json:"first_name"`
	LastName  string              `json:"last_name"`
	Role      string              `json:"role"`
}

// ChangeRoleRequest moves a user to a different role
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// CreateGroupRequest is the payload for provisioning a permission group
type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// GroupResponse is one permission group
type GroupResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Permissions []string  `json:"permissions"`
	IsActive    bool      `json:"is_active"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AssignPermissionsRequest applies a bulk permission change to exactly
// one of a user or a group
type AssignPermissionsRequest struct {
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	GroupID     *uuid.UUID `json:"group_id,omitempty"`
	Action      string     `json:"action"`
	Permissions []string   `json:"permissions"`
}

// SystemStatsResponse is the admin dashboard aggregate
type SystemStatsResponse struct {
	TotalUsers      int   `json:"total_users"`
	ActiveUsers     int   `json:"active_users"`
	TotalGroups     int   `json:"total_groups"`
	SuperAdminCount int64 `json:"super_admin_count"`
}

func groupToAPI(g *authzdomain.PermissionGroup) GroupResponse {
	perms := make([]string, 0, len(g.Permissions))
	for _, p := range g.Permissions {
		perms = append(perms, string(p))
	}
	return GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Permissions: perms,
		IsActive:    g.IsActive,
		CreatedBy:   g.CreatedBy,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// ===== User management =====

// CreateUser provisions a login identity and its authorization profile
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	callerID := h.GetUserIDFromContext(r)

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteJSONError(w, r, "VALIDATION_FAILED", "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.service.CreateUser(r.Context(), callerID, application.CreateUserParams{
		Email:     string(req.Email),
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, profileToAPI(profile), http.StatusCreated)
}

// ListUsers retrieves authorization profiles
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	callerID := h.GetUserIDFromContext(r)

	q := r.URL.Query()
	includeInactive := q.Get("include_inactive") == "true"
	limit := parseIntParam(q.Get("limit"), 50)
	offset := parseIntParam(q.Get("offset"), 0)

	profiles, err := h.service.ListUsers(r.Context(), callerID, includeInactive, limit, offset)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	response := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		response = append(response, profileToAPI(p))
	}

	h.WriteJSONResponse(w, r, response, http.StatusOK)
}

// ChangeUserRole moves a user to a different role
func (h *AdminHandler) ChangeUserRole(w http.ResponseWriter, r *http.Request) {
	callerID := h.GetUserIDFromContext(r)

	userID, ok := h.ParseUUID(w, r, r.PathValue("id"), "id")
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteJSONError(w, r, "VALIDATION_FAILED", "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.service.ChangeUserRole(r.Context(), callerID, userID, permission.RoleID(req.Role))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, profileToAPI(profile), http.StatusOK)
}

// DeleteUser soft-deletes an account: the profile deactivates and the
// login identity is disabled
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	callerID := h.GetUserIDFromContext(r)

	userID, ok := h.ParseUUID(w, r, r.PathValue("id"), "id")
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), callerID, userID); err != nil {
		h.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ===== Group management =====

// CreateGroup provisions a permission group
func (h *AdminHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	callerID := h.GetUserIDFromContext(r)

	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteJSONError(w, r, "VALIDATION_FAILED", "Invalid request body", http.StatusBadRequest)
		return
	}

	group, err := h.service.CreateGroup(r.Context(), callerID, application.CreateGroupParams{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, groupToAPI(group), http.StatusCreated)
}

// DeleteGroup soft-deletes a permission group
func (h *AdminHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	callerID := h.GetUserIDFromContext(r)

	groupID, ok := h.ParseUUID(w, r, r.PathValue("id"), "id")
	if !ok {
		return
	}

	if err := h.service.DeleteGroup(r.Context(), callerID, groupID); err != nil {
		h.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddGroupMember records a user's membership in a group
func (h *AdminHandler) AddGroupMember(w http.ResponseWriter, r *http.Request) {
	h.handleMembership(w, r, h.service.AddGroupMember)
}

// RemoveGroupMember drops a user's membership in a group
func (h *AdminHandler) RemoveGroupMember(w http.ResponseWriter, r *http.Request) {
	h.handleMembership(w, r, h.service.RemoveGroupMember)
}

func (h *AdminHandler) handleMembership(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, callerID, groupID, userID uuid.UUID) error) {
	callerID := h.GetUserIDFromContext(r)

	groupID, ok := h.ParseUUID(w, r, r.PathValue("id"), "id")
	if !ok {
		return
	}
	userID, ok := h.ParseUUID(w, r, r.PathValue("userId"), "userId")
	if !ok {
		return
	}

	if err := op(r.Context(), callerID, groupID, userID); err != nil {
		h.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ===== Permission assignment and stats =====

// AssignPermissions applies a bulk permission change to a user or group
func (h *AdminHandler) AssignPermissions(w http.ResponseWriter, r *http.Request) {
	callerID := h.GetUserIDFromContext(r)

	var req AssignPermissionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteJSONError(w, r, "VALIDATION_FAILED", "Invalid request body", http.StatusBadRequest)
		return
	}

	err := h.service.AssignPermissions(r.Context(), callerID, application.PermissionAssignment{
		UserID:      req.UserID,
		GroupID:     req.GroupID,
		Action:      application.AssignmentAction(req.Action),
		Permissions: req.Permissions,
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetSystemStats aggregates counts for the admin dashboard
func (h *AdminHandler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	callerID := h.GetUserIDFromContext(r)

	stats, err := h.service.GetSystemStats(r.Context(), callerID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, SystemStatsResponse{
		TotalUsers:      stats.TotalUsers,
		ActiveUsers:     stats.ActiveUsers,
		TotalGroups:     stats.TotalGroups,
		SuperAdminCount: stats.SuperAdminCount,
	}, http.StatusOK)
}

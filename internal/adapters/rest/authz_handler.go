package rest

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/harborworks/cms/internal/authz/application"
	"github.com/harborworks/cms/internal/authz/domain"
)

// AuthzHandler handles HTTP requests for the permission catalog and
// the caller's own authorization state
type AuthzHandler struct {
	*BaseHandler
	service *application.AuthzService
}

// NewAuthzHandler creates a new authz handler
func NewAuthzHandler(base *BaseHandler, service *application.AuthzService) *AuthzHandler {
	return &AuthzHandler{
		BaseHandler: base,
		service:     service,
	}
}

// PermissionResponse is one catalog entry
type PermissionResponse struct {
	ID          string `json:"id"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

// RoleResponse is one static role definition
type RoleResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	OrderIndex     int      `json:"order_index"`
	AllPermissions bool     `json:"all_permissions"`
	Permissions    []string `json:"permissions"`
}

// ProfileResponse is the authorization-facing view of a user
type ProfileResponse struct {
	UserID            uuid.UUID   `json:"user_id"`
	Email             string      `json:"email"`
	DisplayName       string      `json:"display_name"`
	Role              string      `json:"role"`
	IsSuperAdmin      bool        `json:"is_super_admin"`
	CustomPermissions []string    `json:"custom_permissions"`
	GroupIDs          []uuid.UUID `json:"group_ids"`
	IsActive          bool        `json:"is_active"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// EffectivePermissionsResponse is the resolved permission set
type EffectivePermissionsResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Universal   bool      `json:"universal"`
	Permissions []string  `json:"permissions"`
}

func profileToAPI(p *domain.UserProfile) ProfileResponse {
	custom := make([]string, 0, len(p.CustomPermissions))
	for _, perm := range p.CustomPermissions {
		custom = append(custom, string(perm))
	}
	return ProfileResponse{
		UserID:            p.UserID,
		Email:             p.Email,
		DisplayName:       p.DisplayName,
		Role:              string(p.Role),
		IsSuperAdmin:      p.IsSuperAdmin,
		CustomPermissions: custom,
		GroupIDs:          p.GroupIDs,
		IsActive:          p.IsActive,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// ListPermissions returns the static permission catalog
func (h *AuthzHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	defs := h.service.ListPermissions(r.Context())

	response := make([]PermissionResponse, 0, len(defs))
	for _, d := range defs {
		response = append(response, PermissionResponse{
			ID:          string(d.ID),
			Resource:    d.Resource,
			Action:      d.Action,
			Description: d.Description,
		})
	}

	h.WriteJSONResponse(w, r, response, http.StatusOK)
}

// ListRoles returns the static role hierarchy
func (h *AuthzHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles := h.service.ListRoles(r.Context())

	response := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		perms := make([]string, 0, len(role.Permissions))
		for _, p := range role.Permissions {
			perms = append(perms, string(p))
		}
		response = append(response, RoleResponse{
			ID:             string(role.ID),
			Name:           role.Name,
			Description:    role.Description,
			OrderIndex:     role.OrderIndex,
			AllPermissions: role.AllPermissions,
			Permissions:    perms,
		})
	}

	h.WriteJSONResponse(w, r, response, http.StatusOK)
}

// GetMyProfile returns the caller's authorization profile
func (h *AuthzHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID := h.GetUserIDFromContext(r)

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, profileToAPI(profile), http.StatusOK)
}

// GetMyPermissions returns the caller's resolved effective permissions
func (h *AuthzHandler) GetMyPermissions(w http.ResponseWriter, r *http.Request) {
	userID := h.GetUserIDFromContext(r)

	set, err := h.service.ResolveEffectivePermissions(r.Context(), userID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	// The universal set enumerates the whole catalog for display
	tokens := set.Tokens()
	perms := make([]string, 0, len(tokens))
	for _, t := range tokens {
		perms = append(perms, string(t))
	}

	h.WriteJSONResponse(w, r, EffectivePermissionsResponse{
		UserID:      userID,
		Universal:   set.IsUniversal(),
		Permissions: perms,
	}, http.StatusOK)
}

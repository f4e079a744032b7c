package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/harborworks/cms/internal/adapters/rest"
	"github.com/harborworks/cms/internal/adapters/rest/middleware"
	"github.com/harborworks/cms/internal/authz/permission"
	"github.com/harborworks/cms/internal/platform/logger"
)

// Handlers bundles the REST handlers the router mounts
type Handlers struct {
	Health   *rest.HealthHandler
	Content  *rest.ContentHandler
	Workflow *rest.WorkflowHandler
	Authz    *rest.AuthzHandler
	Admin    *rest.AdminHandler
}

// NewHandlers groups the handlers for injection
func NewHandlers(
	health *rest.HealthHandler,
	content *rest.ContentHandler,
	workflow *rest.WorkflowHandler,
	authz *rest.AuthzHandler,
	admin *rest.AdminHandler,
) Handlers {
	return Handlers{
		Health:   health,
		Content:  content,
		Workflow: workflow,
		Authz:    authz,
		Admin:    admin,
	}
}

// NewHTTPServer creates and configures the HTTP server with all routes.
// Authentication runs in middleware; fine-grained authorization lives
// in the services, with route-level permission gates layered on top
// where the required permission is fixed per route.
func NewHTTPServer(
	config Config,
	handlers Handlers,
	jwtMiddleware *middleware.JWTMiddleware,
	authzMiddleware *middleware.AuthorizationMiddleware,
	authAdapter *middleware.AuthAdapter,
	log logger.Logger,
) *http.Server {
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Get("/health/live", handlers.Health.GetLiveness)
		r.Get("/health/ready", handlers.Health.GetReadiness)
		r.Get("/content", handlers.Content.ListContent)
		r.Get("/content/{id}", handlers.Content.GetContent)
		r.Get("/content/slug/{slug}", handlers.Content.GetContentBySlug)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(jwtMiddleware.Middleware)
			r.Use(authAdapter.Middleware)

			// Caller's own authorization state
			r.Get("/me", handlers.Authz.GetMyProfile)
			r.Get("/me/permissions", handlers.Authz.GetMyPermissions)
			r.Get("/authz/permissions", handlers.Authz.ListPermissions)
			r.Get("/authz/roles", handlers.Authz.ListRoles)

			// Content authoring
			r.Post("/content", handlers.Content.CreateContent)
			r.With(authzMiddleware.RequireAnyPermission(
				permission.ContentEditAll, permission.ContentEditOwn,
			)).Put("/content/{id}", handlers.Content.UpdateContent)
			r.With(authzMiddleware.RequireResourcePermission(
				permission.ContentDeleteAll, permission.ContentDeleteOwn, "content", "id",
			)).Delete("/content/{id}", handlers.Content.DeleteContent)
			r.With(authzMiddleware.RequirePermission(permission.AuditView)).
				Get("/content/{id}/audit", handlers.Content.GetAuditTrail)

			// Workflow transitions
			r.Post("/content/{id}/submit", handlers.Workflow.SubmitForReview)
			r.Post("/content/{id}/approve", handlers.Workflow.Approve)
			r.Post("/content/{id}/reject", handlers.Workflow.Reject)
			r.Post("/content/{id}/publish", handlers.Workflow.Publish)
			r.Post("/content/{id}/unpublish", handlers.Workflow.Unpublish)
			r.Get("/content/{id}/actions", handlers.Workflow.CanPerformAction)

			// Assignments
			r.With(authzMiddleware.RequirePermission(permission.RolesAssign)).
				Post("/content/{id}/assignments/reviewer", handlers.Workflow.AssignReviewer)
			r.With(authzMiddleware.RequirePermission(permission.RolesAssign)).
				Post("/content/{id}/assignments/publisher", handlers.Workflow.AssignPublisher)
			r.Get("/assignments", handlers.Workflow.ListMyAssignments)

			// Super-admin management; the service re-verifies the
			// caller on every operation
			r.Route("/admin", func(r chi.Router) {
				r.Post("/users", handlers.Admin.CreateUser)
				r.Get("/users", handlers.Admin.ListUsers)
				r.Put("/users/{id}/role", handlers.Admin.ChangeUserRole)
				r.Delete("/users/{id}", handlers.Admin.DeleteUser)
				r.Post("/groups", handlers.Admin.CreateGroup)
				r.Delete("/groups/{id}", handlers.Admin.DeleteGroup)
				r.Post("/groups/{id}/members/{userId}", handlers.Admin.AddGroupMember)
				r.Delete("/groups/{id}/members/{userId}", handlers.Admin.RemoveGroupMember)
				r.Post("/permissions/assign", handlers.Admin.AssignPermissions)
				r.Get("/stats", handlers.Admin.GetSystemStats)
			})
		})
	})

	handler := withObservability(r, log)

	return &http.Server{
		Addr:         config.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// withObservability adds request logging
func withObservability(handler http.Handler, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// chi's response writer wrapper captures status and bytes written
		wrr := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		handler.ServeHTTP(wrr, r)

		duration := time.Since(start)

		var userID string
		if uid, ok := middleware.GetUserID(r.Context()); ok {
			userID = uid.String()
		}

		log.Info(r.Context(), "HTTP request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrr.Status(),
			"duration_ms", duration.Milliseconds(),
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
			"user_id", userID,
		)
	})
}

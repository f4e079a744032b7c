package ownership

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// DefaultRegistry maps resource type names ("content", ...) to the
// checker each module registered at wire time. Lookups after startup
// are read-only; the lock exists because registration and serving are
// not ordered by the type system.
type DefaultRegistry struct {
	checkers map[string]Checker
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		checkers: make(map[string]Checker),
	}
}

// RegisterChecker makes a resource type's ownership answerable. A
// second registration for the same type replaces the first.
func (r *DefaultRegistry) RegisterChecker(resourceType string, checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[resourceType] = checker
}

// GetChecker returns the checker for a resource type, if registered
func (r *DefaultRegistry) GetChecker(resourceType string) (Checker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	checker, exists := r.checkers[resourceType]
	return checker, exists
}

// CheckOwnership answers whether userID owns the given resource. An
// unregistered resource type is an error, not a denial: it means a
// route was gated on an own-scope permission nobody can satisfy.
func (r *DefaultRegistry) CheckOwnership(ctx context.Context, userID uuid.UUID, resourceType string, resourceID uuid.UUID) (bool, error) {
	checker, exists := r.GetChecker(resourceType)
	if !exists {
		return false, fmt.Errorf("no ownership checker registered for resource type: %s", resourceType)
	}

	return checker.CheckOwnership(ctx, userID, resourceID)
}

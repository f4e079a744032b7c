package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Identity provider errors
var (
	ErrIdentityExists   = errors.New("identity already registered for this email")
	ErrIdentityNotFound = errors.New("identity not found")
)

// IdentityProvider is the narrow slice of the identity backend the
// admin service needs: registering credentials and disabling sign-in.
// Profile data stays with the authz module; credentials never leave the
// provider.
type IdentityProvider interface {
	// Register creates a login identity and returns its user ID
	Register(ctx context.Context, email, password string) (uuid.UUID, error)

	// Disable blocks future sign-ins for the identity
	Disable(ctx context.Context, userID uuid.UUID) error

	// Enable restores sign-in for a disabled identity
	Enable(ctx context.Context, userID uuid.UUID) error
}

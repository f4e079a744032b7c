package identity

import (
	"github.com/google/wire"

	"github.com/harborworks/cms/internal/admin/ports"
)

// ProviderSet is the wire provider set for the identity adapter
var ProviderSet = wire.NewSet(
	NewPostgresIdentityProvider,
	wire.Bind(new(ports.IdentityProvider), new(*PostgresIdentityProvider)),
)

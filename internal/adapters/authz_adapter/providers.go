package authz_adapter

import (
	"github.com/google/wire"

	contentports "github.com/harborworks/cms/internal/content/ports"
)

// ProviderSet is the wire provider set for the authorization adapter
var ProviderSet = wire.NewSet(
	NewAuthzAdapter,
	wire.Bind(new(contentports.Authorizer), new(*AuthzAdapter)),
	wire.Bind(new(contentports.ActorDirectory), new(*AuthzAdapter)),
)

package application

import (
	"github.com/google/wire"
)

// ProviderSet is the wire provider set for admin application services
var ProviderSet = wire.NewSet(
	NewAdminService,
)

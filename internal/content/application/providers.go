package application

import (
	"github.com/google/wire"
)

// ProviderSet is the wire provider set for content application services
var ProviderSet = wire.NewSet(
	NewContentService,
)

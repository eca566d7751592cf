package pricing

import (
	"go.uber.org/fx"

	"github.com/wardrobers/backend-api-sub000/internal/pricing/service"
)

var Module = fx.Module("pricing.service",
	fx.Provide(
		service.New,
	),
)

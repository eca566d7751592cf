package customer

import (
	"go.uber.org/fx"

	"github.com/wardrobers/backend-api-sub000/internal/customer/repository"
	"github.com/wardrobers/backend-api-sub000/internal/customer/service"
)

var Module = fx.Module("customer.service",
	fx.Provide(
		repository.NewRepository,
		service.NewResolver,
	),
)

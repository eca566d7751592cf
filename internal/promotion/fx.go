package promotion

import (
	"github.com/wardrobers/backend-api-sub000/internal/promotion/repository"
	"github.com/wardrobers/backend-api-sub000/internal/promotion/service"
	"go.uber.org/fx"
)

var Module = fx.Module("promotion.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewEngine),
	fx.Provide(service.New),
)

package catalog

import (
	"github.com/wardrobers/backend-api-sub000/internal/catalog/repository"
	"github.com/wardrobers/backend-api-sub000/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.NewRepository),
	fx.Decorate(repository.NewCachedRepository),
	fx.Provide(service.New),
)

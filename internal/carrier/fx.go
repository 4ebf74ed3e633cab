package carrier

import (
	"github.com/hermeshq/hermes/internal/carrier/repository"
	"github.com/hermeshq/hermes/internal/carrier/service"
	"go.uber.org/fx"
)

var Module = fx.Module("carrier.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)

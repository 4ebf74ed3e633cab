package title

import (
	"github.com/hermeshq/hermes/internal/title/repository"
	"github.com/hermeshq/hermes/internal/title/service"
	"go.uber.org/fx"
)

var Module = fx.Module("title.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)

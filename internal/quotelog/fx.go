package quotelog

import (
	"github.com/hermeshq/hermes/internal/quotelog/repository"
	"github.com/hermeshq/hermes/internal/quotelog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quotelog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)

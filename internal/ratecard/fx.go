package ratecard

import (
	"github.com/hermeshq/hermes/internal/ratecard/repository"
	"github.com/hermeshq/hermes/internal/ratecard/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ratecard.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)

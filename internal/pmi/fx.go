package pmi

import (
	"github.com/hermeshq/hermes/internal/pmi/repository"
	"github.com/hermeshq/hermes/internal/pmi/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pmi.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)

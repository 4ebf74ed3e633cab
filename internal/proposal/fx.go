package proposal

import (
	"go.uber.org/fx"
)

var Module = fx.Module("proposal.renderer",
	fx.Provide(NewRenderer),
)

package wizard

import (
	"github.com/smallbiznis/quoteflow/internal/wizard/service"
	"go.uber.org/fx"
)

var Module = fx.Module("wizard.service",
	fx.Provide(service.New),
)

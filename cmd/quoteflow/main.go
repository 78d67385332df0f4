package main

import (
	"github.com/smallbiznis/quoteflow/internal/catalog"
	"github.com/smallbiznis/quoteflow/internal/clock"
	"github.com/smallbiznis/quoteflow/internal/config"
	"github.com/smallbiznis/quoteflow/internal/discount"
	"github.com/smallbiznis/quoteflow/internal/observability"
	"github.com/smallbiznis/quoteflow/internal/pricing"
	"github.com/smallbiznis/quoteflow/internal/providers"
	"github.com/smallbiznis/quoteflow/internal/quotation"
	"github.com/smallbiznis/quoteflow/internal/ratelimit"
	"github.com/smallbiznis/quoteflow/internal/scheduler"
	"github.com/smallbiznis/quoteflow/internal/server"
	"github.com/smallbiznis/quoteflow/internal/session"
	"github.com/smallbiznis/quoteflow/internal/wizard"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		clock.Module,
		session.Module,

		// Quote engines
		catalog.Module,
		discount.Module,
		pricing.Module,
		quotation.Module,
		wizard.Module,

		// Background work and delivery
		scheduler.Module,
		ratelimit.Module,
		providers.Module,

		server.Module,
	)
	app.Run()
}

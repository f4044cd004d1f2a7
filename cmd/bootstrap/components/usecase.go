package components

import (
	"context"

	"cedros-pay/internal/pkg/clock"
	"cedros-pay/internal/usecase/commands"
	"cedros-pay/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewCartCommands,
		commands.NewCheckoutCommands,
	),
	// Flush pending remote cart pushes on shutdown.
	fx.Invoke(func(lc fx.Lifecycle, cartCommands *commands.CartCommands) {
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				cartCommands.Close()
				return nil
			},
		})
	}),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewCartQueries,
		queries.NewCatalogQueries,
	),
)

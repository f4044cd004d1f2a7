package components

import (
	"context"

	repo_impl "cedros-pay/internal/infra/repository"
	"cedros-pay/internal/usecase/commands"
	"cedros-pay/internal/usecase/queries"

	"go.uber.org/fx"
)

// HeldLineStore is the slice of the cart store the hold watchdog polls.
type HeldLineStore interface {
	ListHeld(ctx context.Context) ([]repo_impl.HeldLine, error)
}

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		repo_impl.NewCartStore,
		repo_impl.NewNotificationStore,
		fx.Annotate(
			repo_impl.NewCachedCartStore,
			fx.As(new(commands.CartRepository)),
			fx.As(new(queries.CartReader)),
			fx.As(new(HeldLineStore)),
		),
		fx.Annotate(
			repo_impl.NewCustomerStore,
			fx.As(new(commands.CustomerReadStore)),
		),
	),
)

package components

import (
	"cedros-pay/internal/adapter"
	"cedros-pay/internal/adapter/memoryadapter"
	"cedros-pay/internal/pkg/clock"

	"go.uber.org/fx"
)

// AdapterModule binds the commerce adapter. The in-memory adapter serves the
// demo deployment; a production build swaps in a real storefront backend
// behind the same interface.
var AdapterModule = fx.Module("adapter",
	fx.Provide(
		fx.Annotate(
			NewCommerceAdapter,
			fx.As(new(adapter.CommerceAdapter)),
		),
	),
)

func NewCommerceAdapter(clk clock.Clock) *memoryadapter.Adapter {
	return memoryadapter.New(memoryadapter.DemoCatalog(), clk)
}

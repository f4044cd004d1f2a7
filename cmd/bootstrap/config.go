package bootstrap

import (
	"cedros-pay/internal/domain/checkout"
	"cedros-pay/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.CartConfig {
			return cfg.Cart
		},
		NewStorePolicy,
	),
)

func NewStorePolicy(cfg config.Config) checkout.StorePolicy {
	return checkout.StorePolicy{
		EmailMode:          checkout.ParseLevel(cfg.Store.EmailMode),
		DefaultContactMode: checkout.ParseLevel(cfg.Store.DefaultContactMode),
		ShippingAllowed:    cfg.Store.ShippingAllowed,
	}
}

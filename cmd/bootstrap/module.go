package bootstrap

import (
	"cedros-pay/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	RedisModule,
	JWTModule,
	components.RepositoryModule,
	components.AdapterModule,
	components.UseCaseModule,
	components.HandlerModule,
	components.WorkerModule,
)

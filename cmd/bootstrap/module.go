package bootstrap

import (
	"shop-api/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	StagingModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)

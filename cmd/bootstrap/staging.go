package bootstrap

import (
	"context"

	"shop-api/internal/infra/staging"
	"shop-api/internal/pkg/clock"
	"shop-api/internal/pkg/config"

	"go.uber.org/fx"
)

var StagingModule = fx.Module("staging",
	fx.Provide(
		NewStagingStore,
	),
)

func NewStagingStore(lc fx.Lifecycle, cfg config.Config, clk clock.Clock) *staging.Store {
	store := staging.NewStore(clk, cfg.Checkout.StagingTTL, cfg.Checkout.SweepInterval)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			store.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			store.Close()
			return nil
		},
	})

	return store
}

package components

import (
	"shop-api/internal/pkg/clock"
	"shop-api/internal/pkg/config"
	"shop-api/internal/usecase"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		usecase.NewAuthUseCase,
		usecase.NewProductUseCase,
		usecase.NewCartUseCase,
		NewOrderUseCase,
		func(a usecase.AuthUseCase) usecase.TokenValidator { return a },
	),
)

func NewOrderUseCase(
	cfg config.Config,
	userRepo usecase.UserRepository,
	cartRepo usecase.CartRepository,
	orderRepo usecase.OrderRepository,
	staging usecase.CheckoutStaging,
	db usecase.TxBeginner,
	clk clock.Clock,
) usecase.OrderUseCase {
	return usecase.NewOrderUseCase(userRepo, cartRepo, orderRepo, staging, db, clk, cfg.Checkout.ConfirmTimeout)
}

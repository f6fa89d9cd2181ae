package components

import (
	"library-lending/internal/handler"
	"library-lending/internal/handler/api"
	"library-lending/internal/handler/middleware"
	"library-lending/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		func(cfg config.Config) config.CookieConfig { return cfg.Cookie },
		api.NewAuthHandler,
		api.NewBookHandler,
		api.NewLoanHandler,
		api.NewReservationHandler,
		api.NewUserHandler,
		api.NewMaintenanceHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

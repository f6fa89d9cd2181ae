package components

import (
	"library-lending/internal/infra/notify"
	"library-lending/internal/pkg/clock"
	"library-lending/internal/pkg/config"
	"library-lending/internal/usecase/commands"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseValidatorsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) config.LendingConfig { return cfg.Lending },
	func(cfg config.Config) config.NotifyConfig { return cfg.Notify },
	notify.NewNotifier,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewUserUseCase,
		commands.NewBookUseCase,
		commands.NewLoanUseCase,
		commands.NewReservationUseCase,
		commands.NewMaintenanceUseCase,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		commands.NewTokenValidator,
	),
)

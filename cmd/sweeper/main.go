// Command sweeper runs the scheduled maintenance passes from the command
// line: flagging overdue loans, expiring lapsed pickup windows, and
// delivering pending pickup notifications. Each subcommand connects, runs
// one pass, and exits, so it can be driven by cron.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"library-lending/internal/infra/db"
	"library-lending/internal/infra/notify"
	"library-lending/internal/infra/uow"
	"library-lending/internal/pkg/clock"
	"library-lending/internal/pkg/config"
	"library-lending/internal/usecase/commands"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "sweeper",
		Short:         "Run library maintenance sweeps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		sweepCommand("overdue", "Flag open loans past their due date", func(ctx context.Context, uc commands.MaintenanceCommands) (commands.SweepResult, error) {
			return uc.RunOverdueSweep(ctx)
		}),
		sweepCommand("expiry", "Expire reservations whose pickup window has lapsed", func(ctx context.Context, uc commands.MaintenanceCommands) (commands.SweepResult, error) {
			return uc.RunExpirySweep(ctx)
		}),
		sweepCommand("notify", "Deliver pending pickup notifications", func(ctx context.Context, uc commands.MaintenanceCommands) (commands.SweepResult, error) {
			return uc.RunNotificationFlush(ctx)
		}),
		allCommand(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func sweepCommand(name, short string, run func(context.Context, commands.MaintenanceCommands) (commands.SweepResult, error)) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, cleanup, err := buildMaintenance(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := run(cmd.Context(), uc)
			if err != nil {
				return err
			}
			slog.Info("sweep finished", "sweep", name, "processed", result.Processed, "failed", result.Failed)
			return nil
		},
	}
}

func allCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run every sweep in order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, cleanup, err := buildMaintenance(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			sweeps := []struct {
				name string
				run  func(context.Context) (commands.SweepResult, error)
			}{
				{"overdue", uc.RunOverdueSweep},
				{"expiry", uc.RunExpirySweep},
				{"notify", uc.RunNotificationFlush},
			}
			for _, s := range sweeps {
				result, err := s.run(cmd.Context())
				if err != nil {
					return fmt.Errorf("%s sweep: %w", s.name, err)
				}
				slog.Info("sweep finished", "sweep", s.name, "processed", result.Processed, "failed", result.Failed)
			}
			return nil
		},
	}
}

func buildMaintenance(ctx context.Context) (commands.MaintenanceCommands, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	pool, err := db.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	notifier, err := notify.NewNotifier(cfg.Notify, logger)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("build notifier: %w", err)
	}

	unitOfWork := uow.NewPostgresUoW(pool)
	uc := commands.NewMaintenanceUseCase(unitOfWork, notifier, clock.NewRealClock(), logger)
	return uc, pool.Close, nil
}

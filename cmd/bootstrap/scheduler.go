package bootstrap

import (
	"context"

	"mesa-reserve/internal/pkg/config"
	"mesa-reserve/internal/scheduler"
	"mesa-reserve/internal/usecase/commands"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		NewAutoConfirmScheduler,
	),
	fx.Invoke(
		registerScheduler,
	),
)

func NewAutoConfirmScheduler(cfg config.Config, reservations commands.ReservationCommands) *scheduler.AutoConfirmScheduler {
	return scheduler.NewAutoConfirmScheduler(cfg.Scheduler.ConfirmSweepSpec, reservations)
}

func registerScheduler(lc fx.Lifecycle, s *scheduler.AutoConfirmScheduler) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return s.Start()
		},
		OnStop: func(_ context.Context) error {
			s.Stop()
			return nil
		},
	})
}

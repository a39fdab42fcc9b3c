package scheduler

import (
	"context"
	"log/slog"
	"time"

	"mesa-reserve/internal/pkg/errs"
	"mesa-reserve/internal/usecase/commands"

	"github.com/robfig/cron/v3"
)

const sweepTimeout = 30 * time.Second

// AutoConfirmScheduler runs the pending->confirmed sweep. A single periodic
// sweep over confirm_due_at replaces per-reservation timers, so promotions
// survive restarts and the work stays O(due rows) per tick.
type AutoConfirmScheduler struct {
	cron         *cron.Cron
	spec         string
	reservations commands.ReservationCommands
}

func NewAutoConfirmScheduler(spec string, reservations commands.ReservationCommands) *AutoConfirmScheduler {
	return &AutoConfirmScheduler{
		cron:         cron.New(),
		spec:         spec,
		reservations: reservations,
	}
}

func (s *AutoConfirmScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.sweep)
	if err != nil {
		return errs.Wrap(err, "invalid confirm sweep spec")
	}
	s.cron.Start()
	slog.Info("auto-confirm scheduler started", "spec", s.spec)
	return nil
}

// Stop waits for an in-flight sweep to finish.
func (s *AutoConfirmScheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("auto-confirm scheduler stopped")
}

func (s *AutoConfirmScheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	promoted, err := s.reservations.ConfirmDueReservations(ctx)
	if err != nil {
		slog.Error("auto-confirm sweep failed", "error", err.Error())
		return
	}
	if len(promoted) > 0 {
		slog.Info("auto-confirmed reservations", "count", len(promoted))
	}
}

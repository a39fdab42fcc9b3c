package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"mesa-reserve/internal/domain/reservation"
	"mesa-reserve/internal/domain/table"
	reqdto "mesa-reserve/internal/handler/dto/request"
	"mesa-reserve/internal/infra"
	"mesa-reserve/internal/pkg/errs"
	"mesa-reserve/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrTableAlreadyMaintenance = errs.New("table is already under maintenance")
	ErrTableNotMaintenance     = errs.New("table is not under maintenance")
	ErrDispositionsRejected    = errs.New("maintenance dispositions rejected")
)

// DispositionFailure explains why one reservation's disposition was refused.
type DispositionFailure struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	Reason        string    `json:"reason"`
}

// DispositionReport carries the per-reservation failures of a rejected
// batch. The batch is all-or-nothing: one failure rolls everything back.
type DispositionReport struct {
	Failures []DispositionFailure
}

func (r *DispositionReport) Error() string {
	reasons := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		reasons[i] = fmt.Sprintf("%s: %s", f.ReservationID, f.Reason)
	}
	return "maintenance dispositions rejected: " + strings.Join(reasons, "; ")
}

type MaintenanceResult struct {
	TableID   uuid.UUID
	Cancelled []uuid.UUID
	Moved     map[uuid.UUID]uuid.UUID // reservation -> target table
}

type MaintenanceCommands interface {
	ScheduleMaintenance(ctx context.Context, tableID uuid.UUID, req reqdto.MaintenanceRequest) (*MaintenanceResult, error)
	EndMaintenance(ctx context.Context, tableID uuid.UUID) error
}

type maintenanceUseCaseImpl struct {
	uow   shared.UnitOfWork
	cache SlotCache
}

func NewMaintenanceUseCase(uow shared.UnitOfWork, cache SlotCache) MaintenanceCommands {
	return &maintenanceUseCaseImpl{uow: uow, cache: cache}
}

// ScheduleMaintenance moves a table into maintenance after dispositioning
// every active reservation it holds. The whole batch runs in one
// transaction: either the table flips and every disposition lands, or
// nothing changes and the caller gets the per-reservation failures.
func (m *maintenanceUseCaseImpl) ScheduleMaintenance(
	ctx context.Context,
	tableID uuid.UUID,
	req reqdto.MaintenanceRequest,
) (*MaintenanceResult, error) {
	var result *MaintenanceResult
	err := m.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		tbl, err := tx.Tables().FindByIDForUpdate(ctx, tableID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrTableNotFound
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}

		active, err := tx.Reservations().ListActiveByTableForUpdate(ctx, tableID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}

		requested := req.Dispositions
		if req.CancelAll {
			requested = cancelAllDispositions(active)
		}

		dispositions, report := matchDispositions(active, requested)
		if len(report.Failures) > 0 {
			return errs.Mark(&report, ErrDispositionsRejected)
		}

		batch, err := m.applyDispositions(ctx, tx, active, dispositions, tableID)
		if err != nil {
			return err
		}

		if err := tbl.EnterMaintenance(); err != nil {
			return errs.Mark(err, ErrTableAlreadyMaintenance)
		}
		if err := tx.Tables().Update(ctx, tbl); err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}

		payload, err := json.Marshal(map[string]any{
			"table_id":  tableID,
			"cancelled": batch.Cancelled,
			"moved":     batch.Moved,
		})
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}
		if err := tx.Outbox().Append(ctx, "table_maintenance_scheduled", payload); err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}

		result = batch
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.invalidate(ctx, result)
	return result, nil
}

func cancelAllDispositions(active []*reservation.Reservation) []reqdto.DispositionRequest {
	ds := make([]reqdto.DispositionRequest, len(active))
	for i, res := range active {
		ds[i] = reqdto.DispositionRequest{
			ReservationID: res.ID(),
			Action:        reqdto.DispositionCancel,
		}
	}
	return ds
}

// matchDispositions pairs every active reservation with exactly one
// disposition. Partial batches are refused so the admin always sees the full
// set of affected bookings before the table flips.
func matchDispositions(
	active []*reservation.Reservation,
	requested []reqdto.DispositionRequest,
) (map[uuid.UUID]reqdto.DispositionRequest, DispositionReport) {
	var report DispositionReport

	byID := make(map[uuid.UUID]reqdto.DispositionRequest, len(requested))
	for _, d := range requested {
		if _, dup := byID[d.ReservationID]; dup {
			report.Failures = append(report.Failures, DispositionFailure{
				ReservationID: d.ReservationID,
				Reason:        "duplicate disposition",
			})
			continue
		}
		byID[d.ReservationID] = d
	}

	activeIDs := make(map[uuid.UUID]bool, len(active))
	for _, res := range active {
		activeIDs[res.ID()] = true
		if _, ok := byID[res.ID()]; !ok {
			report.Failures = append(report.Failures, DispositionFailure{
				ReservationID: res.ID(),
				Reason:        "active reservation has no disposition",
			})
		}
	}
	for id := range byID {
		if !activeIDs[id] {
			report.Failures = append(report.Failures, DispositionFailure{
				ReservationID: id,
				Reason:        "not an active reservation of this table",
			})
		}
	}

	return byID, report
}

func (m *maintenanceUseCaseImpl) applyDispositions(
	ctx context.Context,
	tx shared.Tx,
	active []*reservation.Reservation,
	dispositions map[uuid.UUID]reqdto.DispositionRequest,
	sourceTableID uuid.UUID,
) (*MaintenanceResult, error) {
	result := &MaintenanceResult{
		TableID: sourceTableID,
		Moved:   make(map[uuid.UUID]uuid.UUID),
	}
	var report DispositionReport

	for _, res := range active {
		d := dispositions[res.ID()]
		switch d.Action {
		case reqdto.DispositionCancel:
			if err := res.Cancel(); err != nil {
				report.Failures = append(report.Failures, DispositionFailure{
					ReservationID: res.ID(),
					Reason:        err.Error(),
				})
				continue
			}
			result.Cancelled = append(result.Cancelled, res.ID())

		case reqdto.DispositionMove:
			if failure := m.validateMove(ctx, tx, res, d, sourceTableID); failure != nil {
				report.Failures = append(report.Failures, *failure)
				continue
			}
			res.MoveToTable(*d.TargetTableID)
			result.Moved[res.ID()] = *d.TargetTableID

		default:
			report.Failures = append(report.Failures, DispositionFailure{
				ReservationID: res.ID(),
				Reason:        "unknown disposition action",
			})
		}
	}

	if len(report.Failures) > 0 {
		return nil, errs.Mark(&report, ErrDispositionsRejected)
	}

	for _, res := range active {
		if err := tx.Reservations().Update(ctx, res); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				report.Failures = append(report.Failures, DispositionFailure{
					ReservationID: res.ID(),
					Reason:        "target slot is already reserved",
				})
				return nil, errs.Mark(&report, ErrDispositionsRejected)
			}
			return nil, errs.Mark(err, ErrDatabaseOperation)
		}
	}

	return result, nil
}

func (m *maintenanceUseCaseImpl) validateMove(
	ctx context.Context,
	tx shared.Tx,
	res *reservation.Reservation,
	d reqdto.DispositionRequest,
	sourceTableID uuid.UUID,
) *DispositionFailure {
	fail := func(reason string) *DispositionFailure {
		return &DispositionFailure{ReservationID: res.ID(), Reason: reason}
	}

	if d.TargetTableID == nil {
		return fail("move requires a target table")
	}
	if *d.TargetTableID == sourceTableID {
		return fail("target table is the table under maintenance")
	}

	target, err := tx.Tables().FindByID(ctx, *d.TargetTableID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return fail("target table not found")
		}
		return fail("target table could not be loaded")
	}

	if !target.IsBookable() {
		return fail("target table is not bookable")
	}
	if res.PartySize() > target.Capacity() {
		return fail("party size exceeds target table capacity")
	}
	if !target.HasSlot(res.Date(), res.StartAt()) {
		return fail("target table does not offer the slot")
	}

	taken, err := tx.Reservations().HasActiveOnSlot(ctx, target.ID(), res.Date(), res.StartAt())
	if err != nil {
		return fail("target slot could not be checked")
	}
	if taken {
		return fail("target slot is already reserved")
	}
	return nil
}

func (m *maintenanceUseCaseImpl) EndMaintenance(ctx context.Context, tableID uuid.UUID) error {
	err := m.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		tbl, err := tx.Tables().FindByIDForUpdate(ctx, tableID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrTableNotFound
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}
		if tbl.Status() != table.StatusMaintenance {
			return ErrTableNotMaintenance
		}
		tbl.LeaveMaintenance()
		if err := tx.Tables().Update(ctx, tbl); err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if cacheErr := m.cache.InvalidateTable(ctx, tableID); cacheErr != nil {
		slog.Warn("failed to invalidate slot cache", "table_id", tableID, "error", cacheErr.Error())
	}
	return nil
}

func (m *maintenanceUseCaseImpl) invalidate(ctx context.Context, result *MaintenanceResult) {
	if err := m.cache.InvalidateTable(ctx, result.TableID); err != nil {
		slog.Warn("failed to invalidate slot cache", "table_id", result.TableID, "error", err.Error())
	}
	for _, target := range result.Moved {
		if err := m.cache.InvalidateTable(ctx, target); err != nil {
			slog.Warn("failed to invalidate slot cache", "table_id", target, "error", err.Error())
		}
	}
}

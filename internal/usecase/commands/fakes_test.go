//go:build unit

package commands_test

import (
	"context"
	"time"

	"mesa-reserve/internal/domain/reservation"
	"mesa-reserve/internal/domain/rules"
	"mesa-reserve/internal/domain/schedule"
	"mesa-reserve/internal/domain/table"
	"mesa-reserve/internal/infra"
	"mesa-reserve/internal/infra/db"
	"mesa-reserve/internal/usecase/queries"
	"mesa-reserve/internal/usecase/shared"

	"github.com/google/uuid"
)

func notFoundErr() error {
	return infra.WrapRepoErr("not found", nil, infra.KindNotFound)
}

func conflictErr() error {
	return infra.WrapRepoErr("unique violation", nil, infra.KindConflict)
}

type fakeUoW struct {
	tx *fakeTx
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, u.tx)
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbx db.Executor) error) error {
	return fn(ctx, nil)
}

type fakeTx struct {
	reservations *fakeReservationRepo
	tables       *fakeTableRepo
	rules        *fakeRulesRepo
	users        *fakeUserRepo
	outbox       *fakeOutboxRepo
}

func newFakeTx() *fakeTx {
	return &fakeTx{
		reservations: newFakeReservationRepo(),
		tables:       newFakeTableRepo(),
		rules:        &fakeRulesRepo{},
		users:        &fakeUserRepo{},
		outbox:       &fakeOutboxRepo{},
	}
}

func (t *fakeTx) Reservations() shared.ReservationRepository { return t.reservations }
func (t *fakeTx) Tables() shared.TableRepository             { return t.tables }
func (t *fakeTx) Rules() shared.RulesRepository              { return t.rules }
func (t *fakeTx) Users() shared.UserRepository               { return t.users }
func (t *fakeTx) Outbox() shared.OutboxRepository            { return t.outbox }
func (t *fakeTx) DB() db.Executor                            { return nil }

type fakeReservationRepo struct {
	byID          map[uuid.UUID]*reservation.Reservation
	activeByTable map[uuid.UUID][]*reservation.Reservation
	occupiedSlots map[uuid.UUID]bool
	countActive   int
	confirmDueIDs []uuid.UUID

	created   []*reservation.Reservation
	updated   []*reservation.Reservation
	deleted   []uuid.UUID
	userLocks []uuid.UUID
	createErr error
	updateErr error
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{
		byID:          make(map[uuid.UUID]*reservation.Reservation),
		activeByTable: make(map[uuid.UUID][]*reservation.Reservation),
		occupiedSlots: make(map[uuid.UUID]bool),
	}
}

func (r *fakeReservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, res)
	r.byID[res.ID()] = res
	return nil
}

func (r *fakeReservationRepo) Update(_ context.Context, res *reservation.Reservation) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updated = append(r.updated, res)
	return nil
}

func (r *fakeReservationRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeReservationRepo) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, ok := r.byID[id]
	if !ok {
		return nil, notFoundErr()
	}
	return res, nil
}

func (r *fakeReservationRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeReservationRepo) ListActiveByTableForUpdate(_ context.Context, tableID uuid.UUID) ([]*reservation.Reservation, error) {
	return r.activeByTable[tableID], nil
}

func (r *fakeReservationRepo) AcquireUserLock(_ context.Context, userID uuid.UUID) error {
	r.userLocks = append(r.userLocks, userID)
	return nil
}

func (r *fakeReservationRepo) CountActiveByUserSince(_ context.Context, _ uuid.UUID, _ time.Time) (int, error) {
	return r.countActive, nil
}

func (r *fakeReservationRepo) HasActiveOnSlot(_ context.Context, tableID uuid.UUID, _ schedule.Date, _ schedule.TimeOfDay) (bool, error) {
	return r.occupiedSlots[tableID], nil
}

func (r *fakeReservationRepo) HasActiveByTable(_ context.Context, tableID uuid.UUID) (bool, error) {
	return len(r.activeByTable[tableID]) > 0, nil
}

func (r *fakeReservationRepo) ConfirmDue(_ context.Context, _ time.Time) ([]uuid.UUID, error) {
	return r.confirmDueIDs, nil
}

type fakeTableRepo struct {
	byID        map[uuid.UUID]*table.Table
	updated     []*table.Table
	sharedReads []uuid.UUID
}

func newFakeTableRepo() *fakeTableRepo {
	return &fakeTableRepo{byID: make(map[uuid.UUID]*table.Table)}
}

func (r *fakeTableRepo) Create(_ context.Context, t *table.Table) error {
	r.byID[t.ID()] = t
	return nil
}

func (r *fakeTableRepo) Update(_ context.Context, t *table.Table) error {
	r.updated = append(r.updated, t)
	r.byID[t.ID()] = t
	return nil
}

func (r *fakeTableRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeTableRepo) FindByID(_ context.Context, id uuid.UUID) (*table.Table, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, notFoundErr()
	}
	return t, nil
}

func (r *fakeTableRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*table.Table, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeTableRepo) FindByIDForShare(ctx context.Context, id uuid.UUID) (*table.Table, error) {
	r.sharedReads = append(r.sharedReads, id)
	return r.FindByID(ctx, id)
}

type fakeRulesRepo struct {
	rules *rules.BookingRules
	saved *rules.BookingRules
}

func (r *fakeRulesRepo) Get(_ context.Context) (*rules.BookingRules, error) {
	return r.rules, nil
}

func (r *fakeRulesRepo) Save(_ context.Context, br *rules.BookingRules) error {
	r.saved = br
	return nil
}

type fakeUserRepo struct {
	lastLoginUpdates []uuid.UUID
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, userID uuid.UUID) error {
	r.lastLoginUpdates = append(r.lastLoginUpdates, userID)
	return nil
}

type fakeOutboxRepo struct {
	topics []string
}

func (r *fakeOutboxRepo) Append(_ context.Context, topic string, _ []byte) error {
	r.topics = append(r.topics, topic)
	return nil
}

type fakeSlotCache struct {
	invalidated      []uuid.UUID
	invalidatedWhole []uuid.UUID
}

func (c *fakeSlotCache) Invalidate(_ context.Context, tableID uuid.UUID, _ schedule.Date) error {
	c.invalidated = append(c.invalidated, tableID)
	return nil
}

func (c *fakeSlotCache) InvalidateTable(_ context.Context, tableID uuid.UUID) error {
	c.invalidatedWhole = append(c.invalidatedWhole, tableID)
	return nil
}

// fakeReader echoes the requested id into a canned view, standing in for the
// read-after-write lookup.
type fakeReader struct {
	view *queries.ReservationView
	err  error
}

func (f *fakeReader) FindByID(_ context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	if f.err != nil {
		return nil, f.err
	}
	v := *f.view
	v.ID = id
	return &v, nil
}

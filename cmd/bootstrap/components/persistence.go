package components

import (
	"mesa-reserve/internal/infra/cache"
	"mesa-reserve/internal/infra/readstore"
	"mesa-reserve/internal/infra/uow"
	"mesa-reserve/internal/usecase/commands"
	"mesa-reserve/internal/usecase/queries"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	readstoreModule,
	repositoryModule,
	cacheModule,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Reservation
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationViewRepo)),
			fx.As(new(queries.OccupiedSlotRepo)),
			fx.As(new(commands.ReservationReader)),
		),
		// Table
		fx.Annotate(
			readstore.NewTableReadStore,
			fx.As(new(queries.TableViewRepo)),
			fx.As(new(commands.TableReader)),
		),
		// Rules
		fx.Annotate(
			readstore.NewRulesReadStore,
			fx.As(new(queries.RulesViewRepo)),
		),
		// User
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserViewRepo)),
			fx.As(new(commands.UserReader)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		uow.NewPostgresUoW,
	),
)

var cacheModule = fx.Module("persistence/cache",
	fx.Provide(
		fx.Annotate(
			func(c *cache.SlotCache) *cache.SlotCache { return c },
			fx.As(new(commands.SlotCache)),
			fx.As(new(queries.SlotCacheStore)),
		),
	),
)

package components

import (
	"mesa-reserve/internal/handler"
	"mesa-reserve/internal/handler/api"
	"mesa-reserve/internal/handler/middleware"
	"mesa-reserve/internal/pkg/config"
	"mesa-reserve/internal/pkg/jwt"
	"mesa-reserve/internal/usecase/commands"
	"mesa-reserve/internal/usecase/queries"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		NewAuthHandler,
		api.NewReservationHandler,
		api.NewTableHandler,
		api.NewRulesHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

func NewAuthHandler(
	authCommands commands.AuthCommands,
	userQueries queries.UserQueries,
	jwtService *jwt.Service,
	cfg config.Config,
) *api.AuthHandler {
	return api.NewAuthHandler(authCommands, userQueries, jwtService, cfg.Cookie)
}

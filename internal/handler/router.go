package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"mesa-reserve/internal/handler/api"
	"mesa-reserve/internal/handler/middleware"
	"mesa-reserve/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	reservationHandler *api.ReservationHandler,
	tableHandler *api.TableHandler,
	rulesHandler *api.RulesHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, reservationHandler, tableHandler, rulesHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	reservationHandler *api.ReservationHandler,
	tableHandler *api.TableHandler,
	rulesHandler *api.RulesHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: authHandler.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		tables := apiGroup.Group("/tables")
		tables.Use(authMiddleware.RequireAuth())
		{
			addRoutes(tables, []route{
				{Method: http.MethodGet, Path: "", Handler: tableHandler.ListTables},
				{Method: http.MethodGet, Path: "/:id", Handler: tableHandler.GetTable},
				{Method: http.MethodGet, Path: "/:id/available-dates", Handler: tableHandler.AvailableDates},
				{Method: http.MethodGet, Path: "/:id/slots", Handler: tableHandler.OpenSlots},
			})
		}

		reservations := apiGroup.Group("/reservations")
		reservations.Use(authMiddleware.RequireAuth())
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: reservationHandler.CreateReservation},
				{Method: http.MethodGet, Path: "", Handler: reservationHandler.ListOwnReservations},
				{Method: http.MethodGet, Path: "/:id", Handler: reservationHandler.GetReservation},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: reservationHandler.CancelReservation},
				{Method: http.MethodPost, Path: "/:id/clear", Handler: reservationHandler.ClearReservation},
			})
		}

		rules := apiGroup.Group("/rules")
		rules.Use(authMiddleware.RequireAuth())
		{
			addRoutes(rules, []route{
				{Method: http.MethodGet, Path: "", Handler: rulesHandler.GetRules},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
		{
			addRoutes(admin, []route{
				{Method: http.MethodGet, Path: "/reservations", Handler: reservationHandler.ListAllReservations},
				{Method: http.MethodPost, Path: "/reservations/:id/confirm", Handler: reservationHandler.ConfirmReservation},
				{Method: http.MethodDelete, Path: "/reservations/:id", Handler: reservationHandler.DeleteReservation},
				{Method: http.MethodGet, Path: "/reservations/:id/candidates", Handler: tableHandler.RescheduleCandidates},
				{Method: http.MethodPost, Path: "/tables", Handler: tableHandler.CreateTable},
				{Method: http.MethodPut, Path: "/tables/:id", Handler: tableHandler.UpdateTable},
				{Method: http.MethodDelete, Path: "/tables/:id", Handler: tableHandler.DeleteTable},
				{Method: http.MethodPost, Path: "/tables/:id/maintenance", Handler: tableHandler.ScheduleMaintenance},
				{Method: http.MethodDelete, Path: "/tables/:id/maintenance", Handler: tableHandler.EndMaintenance},
				{Method: http.MethodPut, Path: "/rules", Handler: rulesHandler.UpdateRules},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}

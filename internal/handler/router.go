package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"library-lending/internal/handler/api"
	"library-lending/internal/handler/middleware"
	"library-lending/internal/pkg/config"
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
	bookHandler *api.BookHandler,
	loanHandler *api.LoanHandler,
	reservationHandler *api.ReservationHandler,
	userHandler *api.UserHandler,
	maintenanceHandler *api.MaintenanceHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, bookHandler, loanHandler, reservationHandler, userHandler, maintenanceHandler, authMiddleware)
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
	bookHandler *api.BookHandler,
	loanHandler *api.LoanHandler,
	reservationHandler *api.ReservationHandler,
	userHandler *api.UserHandler,
	maintenanceHandler *api.MaintenanceHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	adminOnly := authMiddleware.RequireAdmin()

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: authHandler.Register},
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: authHandler.Refresh},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: authHandler.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		books := apiGroup.Group("/books")
		{
			addRoutes(books, []route{
				{Method: http.MethodGet, Path: "", Handler: bookHandler.List},
				{Method: http.MethodGet, Path: "/categories", Handler: bookHandler.Categories},
				{Method: http.MethodGet, Path: "/authors", Handler: bookHandler.Authors},
				{Method: http.MethodGet, Path: "/:id", Handler: bookHandler.Get},
			})

			staff := books.Group("")
			staff.Use(authMiddleware.RequireAuth())
			addRoutes(staff, []route{
				{Method: http.MethodGet, Path: "/low-availability", Handler: bookHandler.LowAvailability, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPost, Path: "", Handler: bookHandler.Create, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPut, Path: "/:id", Handler: bookHandler.Update, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodDelete, Path: "/:id", Handler: bookHandler.Delete, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPut, Path: "/:id/copies", Handler: bookHandler.SetCopies, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPut, Path: "/:id/status", Handler: bookHandler.SetStatus, Mw: []gin.HandlerFunc{adminOnly}},
			})
		}

		loans := apiGroup.Group("/loans")
		loans.Use(authMiddleware.RequireAuth())
		{
			addRoutes(loans, []route{
				{Method: http.MethodPost, Path: "", Handler: loanHandler.Borrow},
				{Method: http.MethodGet, Path: "/me", Handler: loanHandler.MyLoans},
				{Method: http.MethodPost, Path: "/:id/renew", Handler: loanHandler.Renew},
				{Method: http.MethodGet, Path: "/:id", Handler: loanHandler.Get},
				{Method: http.MethodPost, Path: "/:id/return", Handler: loanHandler.Return, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPost, Path: "/:id/pay-fine", Handler: loanHandler.PayFine, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPost, Path: "/:id/waive-fine", Handler: loanHandler.WaiveFine, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodGet, Path: "/overdue", Handler: loanHandler.ListOverdue, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodGet, Path: "/due-soon", Handler: loanHandler.ListDueSoon, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodGet, Path: "/unpaid-fines", Handler: loanHandler.ListUnpaidFines, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodGet, Path: "/user/:id", Handler: loanHandler.ListByUser, Mw: []gin.HandlerFunc{adminOnly}},
			})
		}

		reservations := apiGroup.Group("/reservations")
		reservations.Use(authMiddleware.RequireAuth())
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: reservationHandler.Reserve},
				{Method: http.MethodGet, Path: "/me", Handler: reservationHandler.MyReservations},
				{Method: http.MethodGet, Path: "/:id", Handler: reservationHandler.Get},
				{Method: http.MethodDelete, Path: "/:id", Handler: reservationHandler.Cancel},
				{Method: http.MethodPost, Path: "/:id/fulfill", Handler: reservationHandler.Fulfill, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodGet, Path: "/book/:id", Handler: reservationHandler.QueueForBook, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodGet, Path: "/expiring", Handler: reservationHandler.ListExpiring, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodGet, Path: "/pending-notification", Handler: reservationHandler.ListNeedingNotification, Mw: []gin.HandlerFunc{adminOnly}},
			})
		}

		users := apiGroup.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			addRoutes(users, []route{
				{Method: http.MethodPut, Path: "/me", Handler: userHandler.UpdateProfile},
				{Method: http.MethodGet, Path: "", Handler: userHandler.List, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodGet, Path: "/expired-memberships", Handler: userHandler.ListExpiredMemberships, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodGet, Path: "/:id", Handler: userHandler.Get, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPost, Path: "/:id/membership", Handler: userHandler.ExtendMembership, Mw: []gin.HandlerFunc{adminOnly}},
			})
		}

		maintenance := apiGroup.Group("/maintenance")
		maintenance.Use(authMiddleware.RequireAuth(), adminOnly)
		{
			addRoutes(maintenance, []route{
				{Method: http.MethodPost, Path: "/overdue-sweep", Handler: maintenanceHandler.OverdueSweep},
				{Method: http.MethodPost, Path: "/expiry-sweep", Handler: maintenanceHandler.ExpirySweep},
				{Method: http.MethodPost, Path: "/notification-flush", Handler: maintenanceHandler.NotificationFlush},
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

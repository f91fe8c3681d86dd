package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/finflow/backend/internal/config"
	"github.com/finflow/backend/internal/infra"
	"github.com/finflow/backend/internal/ledger"
	"github.com/finflow/backend/internal/notifications"
	"github.com/finflow/backend/internal/reminders"
	"github.com/finflow/backend/internal/security"
	"github.com/finflow/backend/internal/server/handlers"
	"github.com/finflow/backend/internal/server/mw"
	"github.com/finflow/backend/internal/store"
	"github.com/finflow/backend/internal/users"
)

func NewRouter(cfg *config.Config, deps *infra.Infra, logger *zap.Logger) http.Handler {
	if cfg.AppEnv == "local" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.Recovery(logger))
	r.Use(mw.RequestLogger(logger))
	r.Use(cors.New(corsConfig(cfg.CORS)))

	r.GET("/", handlers.Root)
	r.GET("/health", handlers.Health)

	usersRepo := users.NewRepo(deps.PG)
	txRepo := ledger.NewRepo(deps.PG)
	remindersRepo := reminders.NewRepo(deps.PG)
	notifsRepo := notifications.NewRepo(deps.PG)

	jwtm := security.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.AccessTTL, cfg.Security.RefreshTTL)
	refreshStore := store.NewRefreshStore(deps.Redis, cfg.Security.RefreshTTL)

	authH := handlers.NewAuthHandler(logger, usersRepo, refreshStore, jwtm)
	usersH := handlers.NewUsersHandler(logger, usersRepo)
	txH := handlers.NewTransactionsHandler(logger, txRepo)
	remindersH := handlers.NewRemindersHandler(logger, remindersRepo)
	notifsH := handlers.NewNotificationsHandler(logger, notifsRepo)
	seedH := handlers.NewSeedHandler(logger, handlers.SeedStores{
		Transactions:  txRepo,
		Reminders:     remindersRepo,
		Notifications: notifsRepo,
	})

	api := r.Group("/api")
	if deps.Redis != nil && cfg.Security.RateLimitRPS > 0 {
		api.Use(mw.RateLimit(deps.Redis, cfg.Security.RateLimitRPS))
	}

	auth := api.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)
	auth.POST("/logout", authH.Logout)

	userGroup := api.Group("/users")
	userGroup.POST("", usersH.Create)
	authedUsers := userGroup.Group("")
	authedUsers.Use(mw.RequireUser(jwtm, usersRepo))
	authedUsers.GET("/me", usersH.Me)
	authedUsers.PUT("/me", usersH.UpdateMe)

	authed := api.Group("")
	authed.Use(mw.RequireUser(jwtm, usersRepo))

	txGroup := authed.Group("/transactions")
	txGroup.POST("", txH.Create)
	txGroup.GET("", txH.List)
	txGroup.GET("/:id", txH.Get)
	txGroup.DELETE("/:id", txH.Delete)

	remGroup := authed.Group("/reminders")
	remGroup.POST("", remindersH.Create)
	remGroup.GET("", remindersH.List)
	remGroup.GET("/:id", remindersH.Get)
	remGroup.PUT("/:id", remindersH.Update)
	remGroup.DELETE("/:id", remindersH.Delete)

	notifGroup := authed.Group("/notifications")
	notifGroup.POST("", notifsH.Create)
	notifGroup.GET("", notifsH.List)
	notifGroup.PUT("/:id", notifsH.Act)

	authed.POST("/dev/generate", seedH.Generate)

	return r
}

// corsConfig builds the CORS policy. With the wildcard default every
// origin, method and header is allowed but credentials stay off; browsers
// (and gin-contrib/cors) reject wildcard+credentials, so credentialed
// requests require an explicit origin list.
func corsConfig(c config.CORS) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		AllowCredentials: false,
	}
	if c.AllowAll() {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = c.AllowedOrigins
		cfg.AllowCredentials = true
	}
	return cfg
}

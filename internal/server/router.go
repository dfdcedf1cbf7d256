package server

import (
	"tontine-core/internal/handler"
	"tontine-core/internal/handler/response"
	"tontine-core/internal/middleware"
	"tontine-core/internal/repository"
	"tontine-core/pkg/auth"
	"tontine-core/pkg/config"
	"tontine-core/pkg/monitor"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers bundles the HTTP handlers wired into the router.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Tontine *handler.TontineHandler
	Cycle   *handler.CycleHandler
	Round   *handler.RoundHandler
	Payment *handler.PaymentHandler
}

// NewHTTPRouter builds the Gin engine with all middleware and routes.
func NewHTTPRouter(h Handlers, tokens *auth.TokenManager, users repository.UserRepository, rdb *redis.Client) *gin.Engine {
	// 0. Initialize metrics
	monitor.Init()

	// 1. Engine with default middleware (Logger, Recovery)
	r := gin.Default()

	// 2. Common middleware
	r.Use(monitor.PrometheusMiddleware())

	// 3. Base routes
	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 4. API route groups
	api := r.Group("/api/v1")
	{
		api.GET("/ping", func(c *gin.Context) {
			response.Success(c, gin.H{"pong": true})
		})

		rl := config.Global.RateLimit

		// public auth routes, tighter rate limit per IP
		authGroup := api.Group("/auth")
		authGroup.Use(middleware.RateLimit(rdb, "auth", rl.MaxAuth, rl.Window))
		{
			authGroup.POST("/register", h.Auth.Register)
			authGroup.POST("/login", h.Auth.Login)
			authGroup.POST("/logout", h.Auth.Logout)
		}

		// everything below requires a valid token
		authed := api.Group("")
		authed.Use(middleware.Auth(tokens, users))
		authed.Use(middleware.RateLimit(rdb, "api", rl.MaxAPI, rl.Window))
		{
			authed.GET("/users/profile", h.User.GetProfile)
			authed.PUT("/users/profile", h.User.UpdateProfile)
			authed.GET("/users/me/payments", h.Payment.ListMine)

			authed.POST("/tontines", h.Tontine.Create)
			authed.GET("/tontines", h.Tontine.List)
			authed.GET("/tontines/my", h.Tontine.My)
			authed.GET("/tontines/:id", h.Tontine.Get)
			authed.PUT("/tontines/:id", h.Tontine.Update)
			authed.DELETE("/tontines/:id", h.Tontine.Delete)
			authed.POST("/tontines/:id/join", h.Tontine.Join)
			authed.POST("/tontines/:id/leave", h.Tontine.Leave)
			authed.POST("/tontines/:id/pay", h.Tontine.Pay)
			authed.GET("/tontines/:id/members", h.Tontine.Members)
			authed.POST("/tontines/:id/cycles", h.Cycle.Create)
			authed.GET("/tontines/:id/cycles", h.Cycle.ListByTontine)

			authed.GET("/cycles/:cycleId", h.Cycle.Get)
			authed.PUT("/cycles/:cycleId/payout-order", h.Cycle.SetPayoutOrder)
			authed.POST("/cycles/:cycleId/start", h.Cycle.Start)
			authed.GET("/cycles/:cycleId/stats", h.Cycle.Stats)

			authed.GET("/rounds/:roundId", h.Round.Get)
			authed.POST("/rounds/:roundId/close", h.Round.Close)
			authed.POST("/rounds/:roundId/payments", h.Payment.Create)
			authed.GET("/rounds/:roundId/payments", h.Payment.ListByRound)
		}
	}

	return r
}

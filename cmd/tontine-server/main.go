package main

import (
	"fmt"

	"tontine-core/internal/handler"
	"tontine-core/internal/model"
	"tontine-core/internal/repository/postgres"
	"tontine-core/internal/server"
	"tontine-core/internal/service"

	"tontine-core/pkg/auth"
	"tontine-core/pkg/config"
	"tontine-core/pkg/database"
	"tontine-core/pkg/lock"
	"tontine-core/pkg/logger"
	"tontine-core/pkg/shuffle"

	"go.uber.org/zap"

	_ "tontine-core/docs/swagger"
)

// @title Tontine Core API
// @version 1.0
// @description REST backend for rotating savings groups (tontines)

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 0. Initialize Config
	config.Init()

	// 1. Initialize Logger
	logger.Init(config.Global.App.Env)
	defer logger.Sync()

	// 2. Build DSN
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		config.Global.DB.Host,
		config.Global.DB.User,
		config.Global.DB.Password,
		config.Global.DB.Name,
		config.Global.DB.Port,
	)

	// 3. Connect database
	db, err := database.ConnectPostgres(dsn)
	if err != nil {
		logger.Fatal("Database connection failed", zap.Error(err))
	}

	// 4. Connect Redis
	rdb, err := database.ConnectRedis(config.Global.Redis.Addr, config.Global.Redis.Password, config.Global.Redis.DB)
	if err != nil {
		logger.Fatal("Redis connection failed", zap.Error(err))
	}

	// 5. Schema migration. AutoMigrate only in development, production
	// schemas are managed with the migrate tool.
	if config.Global.App.Env == "development" {
		logger.Info("Dev environment: running GORM AutoMigrate...")
		if err := db.AutoMigrate(model.AllModels()...); err != nil {
			logger.Fatal("Auto migration failed", zap.Error(err))
		}
		logger.Info("Auto migration complete (Dev Mode)")
	} else {
		logger.Info("Skipping AutoMigrate, manage schema with the migrate tool")
	}

	// 6. Wire repositories and services
	store := postgres.NewStore(db)
	tokens := auth.NewTokenManager(config.Global.Auth.JWTSecret, config.Global.Auth.TokenTTL)
	locker := lock.NewRedisLock(rdb)
	generator := service.NewPayoutGenerator(shuffle.New())

	userService := service.NewUserService(store, tokens)
	tontineService := service.NewTontineService(store)
	cycleService := service.NewCycleService(store, generator, locker)
	roundService := service.NewRoundService(store)
	paymentService := service.NewPaymentService(store)

	// 7. HTTP Router
	r := server.NewHTTPRouter(server.Handlers{
		Auth:    handler.NewAuthHandler(userService),
		User:    handler.NewUserHandler(userService),
		Tontine: handler.NewTontineHandler(tontineService, paymentService),
		Cycle:   handler.NewCycleHandler(cycleService),
		Round:   handler.NewRoundHandler(roundService),
		Payment: handler.NewPaymentHandler(paymentService),
	}, tokens, store.Users(), rdb)

	// 8. Run (blocking)
	app := server.New(server.Config{HttpPort: config.Global.App.HttpPort}, r)
	app.Run()

	// 9. Cleanup after shutdown
	logger.Info("Closing database connections...")
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	rdb.Close()
	logger.Info("System exited")
}

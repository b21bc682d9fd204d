package main

import (
	"context"
	"flag"
	"log"
	"time"

	"lawn-booking/cmd"
	"lawn-booking/internal/data/repository"
	"lawn-booking/internal/wire"
	"lawn-booking/pkg/cache"
	"lawn-booking/pkg/database"
	"lawn-booking/pkg/metrics"
	"lawn-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	migrateAction := flag.String("migrate", "", "apply (up) or roll back (down) migrations and exit")
	flag.Parse()

	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if *migrateAction != "" {
		if err := database.Migrate(config.Database, *migrateAction, logger); err != nil {
			logger.Fatal("Migration failed", zap.String("action", *migrateAction), zap.Error(err))
		}
		return
	}

	if config.Database.AutoMigrate {
		if err := database.Migrate(config.Database, "up", logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	bookingCache := cache.NewNoopCache()
	if config.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, config.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer client.Close()

		bookingCache = cache.NewRedisCache(client, config.Redis.TTL, logger)
		logger.Info("Redis cache enabled", zap.String("addr", config.Redis.Addr))
	}

	metrics.Register()

	repos := repository.NewRepository(db, logger)
	app := wire.Wiring(repos, bookingCache, config, logger)

	if err := cmd.APIServer(app.Router, config.App.Port, config.App.ShutdownTimeout, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}

	logger.Info("Server stopped")
}

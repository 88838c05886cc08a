package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tablebook/core/config"
	"tablebook/core/constants"
	"tablebook/core/database"
	"tablebook/core/logger"
	"tablebook/core/middleware"
	"tablebook/core/redis"
	"tablebook/modules/availability"
	availservice "tablebook/modules/availability/service"
	"tablebook/modules/reservation"
	resvrepo "tablebook/modules/reservation/repository"
	"tablebook/modules/restaurant"
	restrepo "tablebook/modules/restaurant/repository"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// Run boots the HTTP server and the background worker and blocks until a
// shutdown signal arrives
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbConn, err := database.InitDB(database.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return fmt.Errorf("failed to init database: %w", err)
	}
	db := &dbConn

	rdb, err := redis.NewClient(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect redis: %w", err)
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	taskClient := asynq.NewClient(redisOpt)
	defer taskClient.Close()

	e := echo.New()
	e.HideBanner = true

	mw := middleware.NewMiddleware(cfg)
	e.Use(mw.RequestLogger())
	e.Use(mw.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// The reservation repository doubles as the availability engine's busy
	// source; both modules share one availability service instance.
	directory := restrepo.NewRestaurantRepository(db)
	busy := resvrepo.NewReservationRepository(db)
	availSvc := availservice.NewAvailabilityService(directory, busy)

	availability.Init(e, availSvc)
	restaurant.Init(e, db, mw, taskClient)
	resvSvc := reservation.Init(e, db, rdb, cfg, availSvc)

	worker := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 5})
	mux := asynq.NewServeMux()
	mux.HandleFunc(constants.TaskBlackoutCancelOverlaps, resvSvc.HandleBlackoutCancel)

	go func() {
		if err := worker.Run(mux); err != nil {
			logger.Error("Server:Worker:Run", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		logger.Info("Server:Start", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server:Shutdown:Begin")
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	logger.Info("Server:Shutdown:Done")
	return nil
}

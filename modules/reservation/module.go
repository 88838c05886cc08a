package reservation

import (
	"time"

	"tablebook/core/config"
	"tablebook/core/database"
	availservice "tablebook/modules/availability/service"
	"tablebook/modules/reservation/controller"
	"tablebook/modules/reservation/repository"
	"tablebook/modules/reservation/router"
	"tablebook/modules/reservation/service"
	restrepo "tablebook/modules/restaurant/repository"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
)

// Init initializes the reservation module and registers routes. The returned
// service is also the asynq handler for blackout cancellation tasks.
func Init(e *echo.Echo, db database.IDatabase, rdb *goredis.Client, cfg *config.Config, availSvc availservice.AvailabilityServiceInterface) *service.ReservationService {
	repo := repository.NewReservationRepository(db)
	blackouts := restrepo.NewBlackoutRepository(db)

	ttl := time.Duration(cfg.Booking.IdempotencyTTLSeconds) * time.Second
	var idempotency service.IdempotencyStore
	if cfg.Booking.IdempotencyBackend == "redis" {
		idempotency = service.NewRedisIdempotencyStore(rdb, ttl)
	} else {
		idempotency = service.NewMemoryIdempotencyStore(ttl)
	}

	lockWait := time.Duration(cfg.Booking.LockWaitSeconds) * time.Second
	svc := service.NewReservationService(repo, blackouts, availSvc, idempotency, lockWait)
	ctrl := controller.NewReservationController(svc)
	rtr := router.NewReservationRouter(ctrl)

	rtr.Setup(e)
	return svc
}

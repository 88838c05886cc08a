package restaurant

import (
	"tablebook/core/database"
	"tablebook/core/middleware"
	"tablebook/modules/restaurant/controller"
	"tablebook/modules/restaurant/repository"
	"tablebook/modules/restaurant/router"
	"tablebook/modules/restaurant/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the restaurant module and registers routes
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, tasks service.TaskEnqueuer) {
	repo := repository.NewRestaurantRepository(db)
	blackouts := repository.NewBlackoutRepository(db)
	svc := service.NewRestaurantService(repo, blackouts, tasks)
	ctrl := controller.NewRestaurantController(svc)
	rtr := router.NewRestaurantRouter(ctrl)

	rtr.Setup(e, mw)
}

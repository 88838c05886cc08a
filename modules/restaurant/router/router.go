package router

import (
	"tablebook/core/middleware"
	"tablebook/modules/restaurant/controller"

	"github.com/labstack/echo/v4"
)

// RestaurantRouter handles restaurant routes
type RestaurantRouter struct {
	RestaurantController *controller.RestaurantController
}

func NewRestaurantRouter(ctrl *controller.RestaurantController) *RestaurantRouter {
	return &RestaurantRouter{
		RestaurantController: ctrl,
	}
}

// Setup registers restaurant routes
func (r *RestaurantRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	v1.GET("/restaurants/:id/tables", r.RestaurantController.ListTables)

	// Admin mutations
	private := v1.Group("/private", mw.AuthMiddleware())
	private.POST("/tables", r.RestaurantController.CreateTable)
	private.POST("/blackouts", r.RestaurantController.CreateBlackout)
	private.DELETE("/blackouts/:id", r.RestaurantController.DeleteBlackout)
}

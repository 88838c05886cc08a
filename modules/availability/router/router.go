package router

import (
	"tablebook/modules/availability/controller"

	"github.com/labstack/echo/v4"
)

// AvailabilityRouter handles availability routes
type AvailabilityRouter struct {
	AvailabilityController *controller.AvailabilityController
}

func NewAvailabilityRouter(ctrl *controller.AvailabilityController) *AvailabilityRouter {
	return &AvailabilityRouter{
		AvailabilityController: ctrl,
	}
}

// Setup registers availability routes
func (r *AvailabilityRouter) Setup(e *echo.Echo) {
	v1 := e.Group("/api/v1")
	v1.GET("/availability", r.AvailabilityController.Discover)
}

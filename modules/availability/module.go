package availability

import (
	"tablebook/modules/availability/controller"
	"tablebook/modules/availability/router"
	"tablebook/modules/availability/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the availability module and registers routes
func Init(e *echo.Echo, svc service.AvailabilityServiceInterface) {
	ctrl := controller.NewAvailabilityController(svc)
	rtr := router.NewAvailabilityRouter(ctrl)

	rtr.Setup(e)
}

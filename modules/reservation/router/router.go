package router

import (
	"tablebook/modules/reservation/controller"

	"github.com/labstack/echo/v4"
)

// ReservationRouter handles reservation routes
type ReservationRouter struct {
	ReservationController *controller.ReservationController
}

func NewReservationRouter(ctrl *controller.ReservationController) *ReservationRouter {
	return &ReservationRouter{
		ReservationController: ctrl,
	}
}

// Setup registers reservation routes
func (r *ReservationRouter) Setup(e *echo.Echo) {
	v1 := e.Group("/api/v1")
	v1.POST("/reservations", r.ReservationController.Commit)
	v1.GET("/reservations/:id", r.ReservationController.GetByID)
	v1.DELETE("/reservations/:id", r.ReservationController.Cancel)
}

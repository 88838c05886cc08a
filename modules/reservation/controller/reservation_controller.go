package controller

import (
	"net/http"

	"tablebook/core/controller"
	"tablebook/core/errors"
	"tablebook/modules/reservation/dto"
	"tablebook/modules/reservation/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ReservationController handles reservation HTTP requests
type ReservationController struct {
	controller.BaseController
	ReservationService service.ReservationServiceInterface
}

func NewReservationController(svc service.ReservationServiceInterface) *ReservationController {
	return &ReservationController{
		BaseController:     controller.NewBaseController(),
		ReservationService: svc,
	}
}

// Commit handles POST /reservations
// @Summary Commit a reservation
// @Description Allocate the best available table set and confirm it, idempotently per key
// @Tags Reservations
// @Accept json
// @Produce json
// @Param request body dto.CommitRequest true "Commit request"
// @Success 200 {object} dto.ReservationResponse
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Failure 422 {object} errors.AppError
// @Router /reservations [post]
func (c *ReservationController) Commit(ctx echo.Context) error {
	var req dto.CommitRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.ReservationService.Commit(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Reservation confirmed")
}

// GetByID handles GET /reservations/:id
// @Summary Get a reservation
// @Tags Reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} dto.ReservationResponse
// @Failure 404 {object} errors.AppError
// @Router /reservations/{id} [get]
func (c *ReservationController) GetByID(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid reservation ID")
	}

	result, appErr := c.ReservationService.GetByID(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Cancel handles DELETE /reservations/:id
// @Summary Cancel a reservation
// @Description Mark a confirmed reservation cancelled; cancelling again is a no-op
// @Tags Reservations
// @Param id path string true "Reservation ID"
// @Success 204
// @Failure 404 {object} errors.AppError
// @Router /reservations/{id} [delete]
func (c *ReservationController) Cancel(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid reservation ID")
	}

	if appErr := c.ReservationService.Cancel(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

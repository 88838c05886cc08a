package controller

import (
	"tablebook/core/controller"
	"tablebook/core/errors"
	"tablebook/modules/availability/dto"
	"tablebook/modules/availability/service"

	"github.com/labstack/echo/v4"
)

// AvailabilityController handles availability HTTP requests
type AvailabilityController struct {
	controller.BaseController
	AvailabilityService service.AvailabilityServiceInterface
}

func NewAvailabilityController(svc service.AvailabilityServiceInterface) *AvailabilityController {
	return &AvailabilityController{
		BaseController:      controller.NewBaseController(),
		AvailabilityService: svc,
	}
}

// Discover handles GET /availability
// @Summary Discover available tables
// @Description List table sets that could seat the party on the given date, best first
// @Tags Availability
// @Produce json
// @Param restaurant_id query string true "Restaurant ID"
// @Param sector_id query string true "Sector ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param party_size query int true "Party size"
// @Param duration_minutes query int true "Duration in minutes, multiple of 15"
// @Param window_start query string false "Window start (HH:mm, restaurant local)"
// @Param window_end query string false "Window end (HH:mm, restaurant local)"
// @Param limit query int false "Maximum candidates to return"
// @Success 200 {object} dto.DiscoverResponse
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /availability [get]
func (c *AvailabilityController) Discover(ctx echo.Context) error {
	var req dto.DiscoverRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid query parameters")
	}

	result, appErr := c.AvailabilityService.Discover(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

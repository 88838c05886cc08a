package controller

import (
	"net/http"

	"tablebook/core/controller"
	"tablebook/core/errors"
	"tablebook/modules/restaurant/dto"
	"tablebook/modules/restaurant/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RestaurantController handles restaurant, table and blackout HTTP requests
type RestaurantController struct {
	controller.BaseController
	RestaurantService service.RestaurantServiceInterface
}

func NewRestaurantController(svc service.RestaurantServiceInterface) *RestaurantController {
	return &RestaurantController{
		BaseController:    controller.NewBaseController(),
		RestaurantService: svc,
	}
}

// ListTables handles GET /restaurants/:id/tables
// @Summary List tables in a sector
// @Tags Restaurant
// @Produce json
// @Param id path string true "Restaurant ID"
// @Param sector_id query string true "Sector ID"
// @Success 200 {array} dto.TableResponse
// @Failure 404 {object} errors.AppError
// @Router /restaurants/{id}/tables [get]
func (c *RestaurantController) ListTables(ctx echo.Context) error {
	restaurantID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid restaurant ID")
	}
	sectorID, err := uuid.Parse(ctx.QueryParam("sector_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid sector ID")
	}

	result, appErr := c.RestaurantService.ListTables(ctx.Request().Context(), restaurantID, sectorID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// CreateTable handles POST /private/tables
// @Summary Create a table
// @Tags Restaurant
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateTableRequest true "Table definition"
// @Success 200 {object} dto.TableResponse
// @Failure 400 {object} errors.AppError
// @Router /private/tables [post]
func (c *RestaurantController) CreateTable(ctx echo.Context) error {
	var req dto.CreateTableRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.RestaurantService.CreateTable(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Table created successfully")
}

// CreateBlackout handles POST /private/blackouts
// @Summary Create a blackout period
// @Description Declares tables (or a whole sector) unavailable; overlapping confirmed reservations are cancelled in the background
// @Tags Restaurant
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateBlackoutRequest true "Blackout definition"
// @Success 200 {object} dto.BlackoutResponse
// @Failure 400 {object} errors.AppError
// @Router /private/blackouts [post]
func (c *RestaurantController) CreateBlackout(ctx echo.Context) error {
	var req dto.CreateBlackoutRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.RestaurantService.CreateBlackout(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Blackout created successfully")
}

// DeleteBlackout handles DELETE /private/blackouts/:id
// @Summary Delete a blackout period
// @Tags Restaurant
// @Security BearerAuth
// @Param id path string true "Blackout ID"
// @Success 204
// @Failure 404 {object} errors.AppError
// @Router /private/blackouts/{id} [delete]
func (c *RestaurantController) DeleteBlackout(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid blackout ID")
	}

	if appErr := c.RestaurantService.DeleteBlackout(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

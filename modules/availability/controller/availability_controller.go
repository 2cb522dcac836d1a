package controller

import (
	"guidia-api/core/constants"
	"guidia-api/core/controller"
	"guidia-api/core/errors"
	"guidia-api/core/utils"
	"guidia-api/modules/availability/dto"
	"guidia-api/modules/availability/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AvailabilityController handles availability HTTP requests
type AvailabilityController struct {
	controller.BaseController
	AvailabilityService service.AvailabilityServiceInterface
}

// NewAvailabilityController creates a new controller
func NewAvailabilityController(svc service.AvailabilityServiceInterface) *AvailabilityController {
	return &AvailabilityController{
		BaseController:      controller.NewBaseController(),
		AvailabilityService: svc,
	}
}

func (c *AvailabilityController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}

	return claims.UserID, nil
}

// GetWindows handles GET /availability/:userID
// @Summary Get a user's availability schedule
// @Description Recurring weekly windows plus one-off exceptions, readable by any authenticated user
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 400 {object} errors.AppError
// @Router /private/availability/{userID} [get]
func (c *AvailabilityController) GetWindows(ctx echo.Context) error {
	userID, err := uuid.Parse(ctx.Param("userID"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid user ID")
	}

	result, appErr := c.AvailabilityService.GetWindows(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// SetWindows handles PUT /availability/:userID
// @Summary Replace the recurring weekly schedule
// @Description Owner only, the whole recurring set is replaced atomically
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param request body dto.SetWindowsRequest true "Recurring windows"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 400 {object} errors.AppError
// @Failure 403 {object} errors.AppError
// @Router /private/availability/{userID} [put]
func (c *AvailabilityController) SetWindows(ctx echo.Context) error {
	actorID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	userID, err := uuid.Parse(ctx.Param("userID"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid user ID")
	}
	if userID != actorID {
		return c.Forbidden(errors.ErrForbidden, "Only the owner can edit availability")
	}

	var req dto.SetWindowsRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AvailabilityService.SetWindows(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Availability updated")
}

// AddException handles POST /availability/:userID/exceptions
// @Summary Add a one-off availability exception
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param request body dto.AddExceptionRequest true "Exception window"
// @Success 200 {object} dto.WindowResponse
// @Failure 400 {object} errors.AppError
// @Failure 403 {object} errors.AppError
// @Router /private/availability/{userID}/exceptions [post]
func (c *AvailabilityController) AddException(ctx echo.Context) error {
	actorID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	userID, err := uuid.Parse(ctx.Param("userID"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid user ID")
	}
	if userID != actorID {
		return c.Forbidden(errors.ErrForbidden, "Only the owner can edit availability")
	}

	var req dto.AddExceptionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AvailabilityService.AddException(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Exception added")
}

// DeleteWindow handles DELETE /availability/:userID/:windowID
// @Summary Delete one availability window
// @Description Owner only. Already accepted meetings are not invalidated.
// @Tags Availability
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Param windowID path string true "Window ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/availability/{userID}/{windowID} [delete]
func (c *AvailabilityController) DeleteWindow(ctx echo.Context) error {
	actorID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	userID, err := uuid.Parse(ctx.Param("userID"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid user ID")
	}
	if userID != actorID {
		return c.Forbidden(errors.ErrForbidden, "Only the owner can edit availability")
	}

	windowID, err := uuid.Parse(ctx.Param("windowID"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid window ID")
	}

	if appErr := c.AvailabilityService.DeleteWindow(ctx.Request().Context(), userID, windowID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Window deleted")
}

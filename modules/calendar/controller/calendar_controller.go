package controller

import (
	"time"

	"guidia-api/core/constants"
	"guidia-api/core/controller"
	"guidia-api/core/errors"
	"guidia-api/core/utils"
	"guidia-api/modules/calendar/dto"
	"guidia-api/modules/calendar/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CalendarController handles calendar HTTP requests
type CalendarController struct {
	controller.BaseController
	CalendarService service.CalendarServiceInterface
}

// NewCalendarController creates a new controller
func NewCalendarController(svc service.CalendarServiceInterface) *CalendarController {
	return &CalendarController{
		BaseController:  controller.NewBaseController(),
		CalendarService: svc,
	}
}

func (c *CalendarController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// GetCalendar handles GET /meetings/calendar
// @Summary Day-bucketed calendar view for the authenticated viewer
// @Description Declined and cancelled meetings are never shown
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Param from query string false "Start date YYYY-MM-DD"
// @Param to query string false "End date YYYY-MM-DD"
// @Success 200 {object} dto.CalendarResponse
// @Failure 400 {object} errors.AppError
// @Router /private/meetings/calendar [get]
func (c *CalendarController) GetCalendar(ctx echo.Context) error {
	viewerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var query dto.CalendarQuery
	if err := ctx.Bind(&query); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid query parameters")
	}

	var from, to time.Time
	if query.From != "" {
		from, err = time.ParseInLocation(constants.DateLayout, query.From, time.Local)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "Invalid from date")
		}
	}
	if query.To != "" {
		to, err = time.ParseInLocation(constants.DateLayout, query.To, time.Local)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "Invalid to date")
		}
	}

	result, appErr := c.CalendarService.GetCalendar(ctx.Request().Context(), viewerID, from, to)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

package controller

import (
	"guidia-api/core/constants"
	"guidia-api/core/controller"
	"guidia-api/core/errors"
	"guidia-api/core/utils"
	"guidia-api/modules/meeting/dto"
	"guidia-api/modules/meeting/entity"
	"guidia-api/modules/meeting/repository"
	"guidia-api/modules/meeting/service"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// MeetingController handles meeting HTTP requests
type MeetingController struct {
	controller.BaseController
	MeetingService service.MeetingServiceInterface
}

// NewMeetingController creates a new controller
func NewMeetingController(svc service.MeetingServiceInterface) *MeetingController {
	return &MeetingController{
		BaseController: controller.NewBaseController(),
		MeetingService: svc,
	}
}

// getClaimsFromContext extracts the actor claims from JWT context
func (c *MeetingController) getClaimsFromContext(ctx echo.Context) (*utils.TokenClaims, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}

	return claims, nil
}

// getUserIDFromContext extracts user ID from JWT context
func (c *MeetingController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	claims, err := c.getClaimsFromContext(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

// CreateMeeting handles POST /meetings
// @Summary Request a meeting
// @Description Creates a meeting request against the recipient's availability
// @Tags Meeting
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateMeetingRequest true "Meeting request"
// @Success 200 {object} dto.MeetingResponse
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/meetings [post]
func (c *MeetingController) CreateMeeting(ctx echo.Context) error {
	requestorID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateMeetingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.MeetingService.Create(ctx.Request().Context(), requestorID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meeting requested successfully")
}

// GetMeeting handles GET /meetings/:id
// @Summary Get a meeting
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} dto.MeetingResponse
// @Failure 404 {object} errors.AppError
// @Router /private/meetings/{id} [get]
func (c *MeetingController) GetMeeting(ctx echo.Context) error {
	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	result, appErr := c.MeetingService.GetByID(ctx.Request().Context(), meetingID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ListMeetings handles GET /meetings
// @Summary List meetings
// @Description Lists meetings filtered by participant, status, type and date range
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param status query string false "Status filter"
// @Param type query string false "Type filter"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {array} dto.MeetingResponse
// @Failure 401 {object} errors.AppError
// @Router /private/meetings [get]
func (c *MeetingController) ListMeetings(ctx echo.Context) error {
	claims, err := c.getClaimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var query dto.ListMeetingsQuery
	if err := ctx.Bind(&query); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid query parameters")
	}

	filter, appErr := buildListFilter(claims, &query)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	result, appErr := c.MeetingService.List(ctx.Request().Context(), filter)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// AcceptMeeting handles PUT /meetings/:id/accept
// @Summary Accept a meeting request
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} dto.MeetingResponse
// @Failure 403 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/meetings/{id}/accept [put]
func (c *MeetingController) AcceptMeeting(ctx echo.Context) error {
	actorID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	result, appErr := c.MeetingService.Accept(ctx.Request().Context(), meetingID, actorID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meeting accepted")
}

// DeclineMeeting handles PUT /meetings/:id/decline
// @Summary Decline a meeting request
// @Description Declines a pending request, a reason is mandatory
// @Tags Meeting
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param request body dto.DeclineMeetingRequest true "Decline reason"
// @Success 200 {object} dto.MeetingResponse
// @Failure 400 {object} errors.AppError
// @Failure 403 {object} errors.AppError
// @Router /private/meetings/{id}/decline [put]
func (c *MeetingController) DeclineMeeting(ctx echo.Context) error {
	actorID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	var req dto.DeclineMeetingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.MeetingService.Decline(ctx.Request().Context(), meetingID, actorID, req.DeclineReason)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meeting declined")
}

// CancelMeeting handles PUT /meetings/:id/cancel
// @Summary Cancel a meeting
// @Description Cancels a requested or accepted meeting, either participant
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} dto.MeetingResponse
// @Failure 403 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/meetings/{id}/cancel [put]
func (c *MeetingController) CancelMeeting(ctx echo.Context) error {
	actorID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	result, appErr := c.MeetingService.Cancel(ctx.Request().Context(), meetingID, actorID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meeting cancelled")
}

// buildListFilter resolves the query into a repository filter. Non-admin
// callers are always scoped to their own meetings; admins may list for any
// participant but stay read-only over the state machine.
func buildListFilter(claims *utils.TokenClaims, query *dto.ListMeetingsQuery) (repository.ListFilter, *errors.AppError) {
	filter := repository.ListFilter{ParticipantID: claims.UserID}

	if query.ParticipantID != "" && claims.Role == "admin" {
		participantID, err := uuid.Parse(query.ParticipantID)
		if err != nil {
			return filter, errors.NewAppError(errors.ErrInvalidInput, "Invalid participant ID", err)
		}
		filter.ParticipantID = participantID
	}
	if query.Status != "" {
		status := entity.MeetingStatus(query.Status)
		if !status.IsValid() {
			return filter, errors.NewAppError(errors.ErrInvalidInput, "Unknown status filter", nil)
		}
		filter.Status = status
	}
	if query.Type != "" {
		meetingType := entity.MeetingType(query.Type)
		if !meetingType.IsValid() {
			return filter, errors.NewAppError(errors.ErrInvalidInput, "Unknown type filter", nil)
		}
		filter.Type = meetingType
	}
	if query.From != "" {
		from, err := time.ParseInLocation("2006-01-02", query.From, time.Local)
		if err != nil {
			return filter, errors.NewAppError(errors.ErrInvalidInput, "Invalid from date", err)
		}
		filter.From = from
	}
	if query.To != "" {
		to, err := time.ParseInLocation("2006-01-02", query.To, time.Local)
		if err != nil {
			return filter, errors.NewAppError(errors.ErrInvalidInput, "Invalid to date", err)
		}
		filter.To = to
	}

	return filter, nil
}

package controller

import (
	"time"

	"guidia-api/core/constants"
	"guidia-api/core/controller"
	"guidia-api/core/errors"
	"guidia-api/core/utils"
	"guidia-api/modules/feedback/dto"
	"guidia-api/modules/feedback/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// FeedbackController handles feedback and analytics HTTP requests
type FeedbackController struct {
	controller.BaseController
	FeedbackService service.FeedbackServiceInterface
}

// NewFeedbackController creates a new controller
func NewFeedbackController(svc service.FeedbackServiceInterface) *FeedbackController {
	return &FeedbackController{
		BaseController:  controller.NewBaseController(),
		FeedbackService: svc,
	}
}

func (c *FeedbackController) getClaimsFromContext(ctx echo.Context) (*utils.TokenClaims, error) {
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

// CreateFeedback handles POST /meetings/:id/feedback
// @Summary Rate a completed meeting
// @Tags Feedback
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param request body dto.CreateFeedbackRequest true "Rating"
// @Success 200 {object} dto.FeedbackResponse
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/meetings/{id}/feedback [post]
func (c *FeedbackController) CreateFeedback(ctx echo.Context) error {
	claims, err := c.getClaimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	var req dto.CreateFeedbackRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.FeedbackService.Create(ctx.Request().Context(), meetingID, claims.UserID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Feedback recorded")
}

// ListFeedback handles GET /meetings/:id/feedback
// @Summary List feedback on a meeting
// @Tags Feedback
// @Security BearerAuth
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {array} dto.FeedbackResponse
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/meetings/{id}/feedback [get]
func (c *FeedbackController) ListFeedback(ctx echo.Context) error {
	claims, err := c.getClaimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	result, appErr := c.FeedbackService.ListForMeeting(ctx.Request().Context(), meetingID, claims.UserID, claims.Role == "admin")
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetAnalytics handles GET /meetings/analytics
// @Summary Aggregated meeting metrics
// @Description Counts by status and type, average rating over rated completed meetings, and a per-day trend
// @Tags Feedback
// @Security BearerAuth
// @Produce json
// @Param user_id query string false "Scope to a participant (admin only, others are scoped to themselves)"
// @Param from query string false "Start date YYYY-MM-DD"
// @Param to query string false "End date YYYY-MM-DD"
// @Success 200 {object} dto.AnalyticsResponse
// @Failure 400 {object} errors.AppError
// @Router /private/meetings/analytics [get]
func (c *FeedbackController) GetAnalytics(ctx echo.Context) error {
	claims, err := c.getClaimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var query dto.AnalyticsQuery
	if err := ctx.Bind(&query); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid query parameters")
	}

	filter, appErr := c.buildAnalyticsFilter(claims, &query)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	result, svcErr := c.FeedbackService.Summarize(ctx.Request().Context(), *filter)
	if svcErr != nil {
		return c.ErrorResponse(ctx, svcErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// buildAnalyticsFilter scopes the aggregation to the actor unless an admin
// asks for another user.
func (c *FeedbackController) buildAnalyticsFilter(claims *utils.TokenClaims, query *dto.AnalyticsQuery) (*service.AnalyticsFilter, *errors.AppError) {
	filter := &service.AnalyticsFilter{UserID: claims.UserID}

	if query.UserID != "" && claims.Role == "admin" {
		id, err := uuid.Parse(query.UserID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid user_id filter", err)
		}
		filter.UserID = id
	}

	if query.From != "" {
		from, err := time.ParseInLocation(constants.DateLayout, query.From, time.Local)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid from date", err)
		}
		filter.From = from
	}
	if query.To != "" {
		to, err := time.ParseInLocation(constants.DateLayout, query.To, time.Local)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid to date", err)
		}
		filter.To = to
	}

	return filter, nil
}

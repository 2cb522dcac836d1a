package feedback

import (
	"guidia-api/core/database"
	"guidia-api/core/middleware"
	"guidia-api/modules/feedback/controller"
	"guidia-api/modules/feedback/repository"
	"guidia-api/modules/feedback/router"
	"guidia-api/modules/feedback/service"

	"github.com/labstack/echo/v4"
)

// Init wires the feedback module on top of the meeting service's read surface
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, meetings service.MeetingDirectory) service.FeedbackServiceInterface {
	feedbackRepository := repository.NewFeedbackRepository(db)
	feedbackService := service.NewFeedbackService(feedbackRepository, meetings)
	feedbackController := controller.NewFeedbackController(feedbackService)
	router.Init(e, feedbackController, mw)
	return feedbackService
}

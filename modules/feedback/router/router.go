package router

import (
	"guidia-api/core/middleware"
	"guidia-api/modules/feedback/controller"

	"github.com/labstack/echo/v4"
)

// Init registers feedback and analytics routes
func Init(e *echo.Echo, feedbackController *controller.FeedbackController, mw *middleware.Middleware) {
	api := e.Group("/api/v1")

	private := api.Group("/private/meetings")
	private.Use(mw.AuthMiddleware())

	private.POST("/:id/feedback", feedbackController.CreateFeedback)
	private.GET("/:id/feedback", feedbackController.ListFeedback)
	private.GET("/analytics", feedbackController.GetAnalytics)
}

package router

import (
	"guidia-api/core/middleware"
	"guidia-api/modules/availability/controller"

	"github.com/labstack/echo/v4"
)

// Init registers availability routes
func Init(e *echo.Echo, availabilityController *controller.AvailabilityController, mw *middleware.Middleware) {
	api := e.Group("/api/v1")

	private := api.Group("/private/availability")
	private.Use(mw.AuthMiddleware())

	private.GET("/:userID", availabilityController.GetWindows)
	private.PUT("/:userID", availabilityController.SetWindows)
	private.POST("/:userID/exceptions", availabilityController.AddException)
	private.DELETE("/:userID/:windowID", availabilityController.DeleteWindow)
}

package router

import (
	"guidia-api/core/middleware"
	"guidia-api/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

// Init registers calendar routes
func Init(e *echo.Echo, calendarController *controller.CalendarController, mw *middleware.Middleware) {
	api := e.Group("/api/v1")

	private := api.Group("/private/meetings")
	private.Use(mw.AuthMiddleware())

	private.GET("/calendar", calendarController.GetCalendar)
}

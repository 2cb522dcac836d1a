package calendar

import (
	"guidia-api/core/middleware"
	"guidia-api/modules/calendar/controller"
	"guidia-api/modules/calendar/router"
	"guidia-api/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

// Init wires the read-side calendar projection over the meeting service
func Init(e *echo.Echo, mw *middleware.Middleware, meetings service.MeetingSource) service.CalendarServiceInterface {
	calendarService := service.NewCalendarService(meetings)
	calendarController := controller.NewCalendarController(calendarService)
	router.Init(e, calendarController, mw)
	return calendarService
}

package meeting

import (
	"guidia-api/core/database"
	"guidia-api/core/middleware"
	"guidia-api/modules/meeting/controller"
	"guidia-api/modules/meeting/repository"
	"guidia-api/modules/meeting/router"
	"guidia-api/modules/meeting/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the meeting module and registers routes. The availability
// checker and notification gateway come from their own modules.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, availability service.AvailabilityChecker, gateway service.NotificationGateway) service.MeetingServiceInterface {
	repo := repository.NewMeetingRepository(db)
	svc := service.NewMeetingService(repo, availability, gateway)
	ctrl := controller.NewMeetingController(svc)
	rtr := router.NewMeetingRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}

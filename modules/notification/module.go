package notification

import (
	"guidia-api/core/cache"
	"guidia-api/core/database"
	"guidia-api/core/middleware"
	"guidia-api/modules/notification/controller"
	"guidia-api/modules/notification/repository"
	"guidia-api/modules/notification/router"
	"guidia-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init wires the notification module and returns the service, which also
// serves as the meeting module's notification gateway.
func Init(e *echo.Echo, db database.IDatabase, c cache.ICache, mw *middleware.Middleware, tasks service.TaskEnqueuer) service.NotificationServiceInterface {
	notificationRepository := repository.NewNotificationRepository(db)
	notificationService := service.NewNotificationService(notificationRepository, c, tasks)
	notificationController := controller.NewNotificationController(notificationService)
	router.Init(e, notificationController, mw)
	return notificationService
}

package router

import (
	"guidia-api/core/middleware"
	"guidia-api/modules/notification/controller"

	"github.com/labstack/echo/v4"
)

// Init registers notification routes
func Init(e *echo.Echo, notificationController *controller.NotificationController, mw *middleware.Middleware) {
	api := e.Group("/api/v1")

	private := api.Group("/private/notifications")
	private.Use(mw.AuthMiddleware())

	private.GET("", notificationController.GetMyNotifications)
	private.GET("/unread-count", notificationController.CountUnread)
	private.PUT("/mark-read", notificationController.MarkAsRead)
	private.PUT("/mark-all-read", notificationController.MarkAllAsRead)
}

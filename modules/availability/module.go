package availability

import (
	"guidia-api/core/database"
	"guidia-api/core/middleware"
	"guidia-api/modules/availability/controller"
	"guidia-api/modules/availability/repository"
	"guidia-api/modules/availability/router"
	"guidia-api/modules/availability/service"

	"github.com/labstack/echo/v4"
)

// Init wires the availability module and returns its service so the
// meeting module can consult it for availability checks.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) service.AvailabilityServiceInterface {
	availabilityRepository := repository.NewAvailabilityRepository(db)
	availabilityService := service.NewAvailabilityService(availabilityRepository)
	availabilityController := controller.NewAvailabilityController(availabilityService)
	router.Init(e, availabilityController, mw)
	return availabilityService
}

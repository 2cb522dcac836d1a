package main

import (
	"guidia-api/core/logger"
	"guidia-api/core/server"
)

// @title Guidia Scheduling API
// @version 1.0
// @description Meeting scheduling backend for the Guidia career-guidance platform

// @contact.name API Support
// @contact.email support@guidia.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}

package main

import (
	"os"

	"github.com/oguzk/schoolatlas/internal/pkg/logger"
	"github.com/oguzk/schoolatlas/internal/server"
)

// @title SchoolAtlas API
// @version 1.0
// @description API for browsing schools, students, enrollments and achievements

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http

func main() {
	// NewServer orchestrates config loading, database setup and routing
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
